package tabular

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
)

// DefaultMaxCellWidth keeps PostgreSQL numerics and long strings readable.
const DefaultMaxCellWidth = 48

// Sink renders rows as an aligned text table. Alignment needs every row, so
// output is produced on Close.
type Sink struct {
	w            io.Writer
	maxCellWidth int
	header       []string
	rows         [][]string
}

func NewSink(w io.Writer, maxCellWidth int) *Sink {
	return &Sink{w: w, maxCellWidth: maxCellWidth}
}

func (s *Sink) Open(table string, columns []schema.Column) error {
	s.header = make([]string, len(columns))
	for i, c := range columns {
		s.header[i] = strings.ToUpper(c.Name)
	}
	s.rows = s.rows[:0]
	return nil
}

func (s *Sink) WriteBatch(rows [][]value.Value) error {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = s.cell(v)
		}
		s.rows = append(s.rows, cells)
	}
	return nil
}

func (s *Sink) Close() error {
	tw := tabwriter.NewWriter(s.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(s.header, "\t"))
	for _, cells := range s.rows {
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (s *Sink) cell(v value.Value) string {
	text := v.String()
	if s.maxCellWidth <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= s.maxCellWidth {
		return text
	}
	return string(r[:s.maxCellWidth-1]) + "…"
}
