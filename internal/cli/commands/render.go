package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/charkov/charkov/internal/cli/config"
	"github.com/charkov/charkov/pkg/model"
)

// isJSON reports whether the resolved output format is JSON.
func isJSON(cfg *config.Config) bool {
	return cfg.Output == "json"
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a table writer with the house style.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// symbolLabel formats a symbol for display. Printable symbols render as a
// quoted character, everything else as its numeric code.
func symbolLabel(s model.Symbol) string {
	r := rune(s)
	if strconv.IsPrint(r) {
		return strconv.QuoteRune(r)
	}
	return fmt.Sprintf("%d", s)
}
