// Package codec implements the binary model exchange format.
//
// The layout is little-endian throughout: a 4-byte record count followed by
// that many 12-byte records of (from, to, count), each field a uint32. The
// record count is the number of distinct (from, to) pairs, not the total
// number of observations. Record order follows map iteration and is
// unspecified; consumers must compare record sets, not byte sequences.
//
// The format carries no version tag and no checksum. It is a closed internal
// exchange format: writer and reader are expected to match.
package codec

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charkov/charkov/pkg/model"
)

const (
	headerSize = 4
	recordSize = 12
)

// Encode serializes a table. The output is deterministic only up to record
// ordering.
func Encode(t *model.Table) []byte {
	n := t.TransitionCount()
	buf := make([]byte, headerSize+n*recordSize)
	binary.LittleEndian.PutUint32(buf, uint32(n))

	off := headerSize
	t.Each(func(from, to model.Symbol, count uint32) {
		binary.LittleEndian.PutUint32(buf[off:], uint32(from))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(to))
		binary.LittleEndian.PutUint32(buf[off+8:], count)
		off += recordSize
	})
	return buf
}

// Decode reconstructs a table from its binary form. Truncated input (fewer
// complete records than the header declares) yields ErrTruncated; a buffer
// too short to hold the header yields ErrMalformed. Symbol codes are opaque
// to the codec and are accepted as-is, whatever their range.
func Decode(data []byte) (*model.Table, error) {
	if len(data) < headerSize {
		return nil, &DecodeError{
			Kind: ErrMalformed,
			Detail: fmt.Sprintf("header requires %d bytes, have %d",
				headerSize, len(data)),
		}
	}

	declared := binary.LittleEndian.Uint32(data)
	body := data[headerSize:]
	if uint64(len(body)) < uint64(declared)*recordSize {
		return nil, &DecodeError{
			Kind: ErrTruncated,
			Detail: fmt.Sprintf("header declares %d records, body holds %d complete records",
				declared, len(body)/recordSize),
		}
	}

	t := model.New()
	for i := uint32(0); i < declared; i++ {
		off := int(i) * recordSize
		from := model.Symbol(binary.LittleEndian.Uint32(body[off:]))
		to := model.Symbol(binary.LittleEndian.Uint32(body[off+4:]))
		count := binary.LittleEndian.Uint32(body[off+8:])
		t.SetCount(from, to, count)
	}
	return t, nil
}

// Save encodes t and writes it to path.
func Save(t *model.Table, path string) error {
	if err := os.WriteFile(path, Encode(t), 0o644); err != nil {
		return fmt.Errorf("failed to write model %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the model at path.
func Load(path string) (*model.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path supplied by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	return t, nil
}
