package codec

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charkov/charkov/pkg/model"
)

func buildTable(t *testing.T, sources ...string) *model.Table {
	t.Helper()
	tbl := model.New()
	for _, s := range sources {
		tbl.IngestString(s)
	}
	return tbl
}

func TestEncode_HeaderCountsDistinctPairs(t *testing.T) {
	tbl := buildTable(t, "aab", "aac")

	data := Encode(tbl)

	// a→a:2, a→b:1, a→c:1: three distinct pairs, four observations.
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data))
	assert.Len(t, data, 4+3*12)
}

func TestRoundTrip(t *testing.T) {
	tbl := buildTable(t, "aab", "aac", "the quick brown fox", "日本語テキスト")

	decoded, err := Decode(Encode(tbl))
	require.NoError(t, err)

	assert.True(t, tbl.Equal(decoded), "decoded record set must equal original")
}

func TestRoundTrip_EmptyTable(t *testing.T) {
	decoded, err := Decode(Encode(model.New()))
	require.NoError(t, err)
	assert.Zero(t, decoded.TransitionCount())
}

func TestDecode_Truncated(t *testing.T) {
	// Header declares 5 records, body holds 3.
	data := make([]byte, 4+3*12)
	binary.LittleEndian.PutUint32(data, 5)

	_, err := Decode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Detail, "5 records")
}

func TestDecode_TruncatedPartialRecord(t *testing.T) {
	tbl := buildTable(t, "abc")
	data := Encode(tbl)

	// Chop mid-record: the last record is incomplete.
	_, err := Decode(data[:len(data)-5])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecode_MalformedHeader(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_OutOfRangeSymbolCodesAccepted(t *testing.T) {
	data := make([]byte, 4+12)
	binary.LittleEndian.PutUint32(data, 1)
	binary.LittleEndian.PutUint32(data[4:], 0xFFFFFFF0) // far outside any printable range
	binary.LittleEndian.PutUint32(data[8:], 0x7F)
	binary.LittleEndian.PutUint32(data[12:], 9)

	tbl, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), tbl.Count(model.Symbol(-16), model.Symbol(0x7F)))
}

func TestSaveLoad(t *testing.T) {
	tbl := buildTable(t, "xyxy")
	path := filepath.Join(t.TempDir(), "model.bin")

	require.NoError(t, Save(tbl, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(loaded))
}

func TestSave_UnwritablePath(t *testing.T) {
	err := Save(model.New(), filepath.Join(t.TempDir(), "missing", "model.bin"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTruncated))
}
