package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
)

// Sink writes one JSON object per row, keys in column order.
type Sink struct {
	w    *bufio.Writer
	keys [][]byte
}

func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

func (s *Sink) Open(table string, columns []schema.Column) error {
	s.keys = make([][]byte, len(columns))
	for i, c := range columns {
		k, err := json.Marshal(c.Name)
		if err != nil {
			return err
		}
		s.keys[i] = k
	}
	return nil
}

func (s *Sink) WriteBatch(rows [][]value.Value) error {
	for _, row := range rows {
		if len(row) != len(s.keys) {
			return fmt.Errorf("row has %d values, expected %d", len(row), len(s.keys))
		}
		s.w.WriteByte('{')
		for i, v := range row {
			if i > 0 {
				s.w.WriteByte(',')
			}
			s.w.Write(s.keys[i])
			s.w.WriteByte(':')
			b, err := v.MarshalJSON()
			if err != nil {
				return fmt.Errorf("column %s: %w", s.keys[i], err)
			}
			s.w.Write(b)
		}
		if _, err := s.w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *Sink) Close() error {
	return s.w.Flush()
}
