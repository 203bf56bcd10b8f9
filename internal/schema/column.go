package schema

import (
	"errors"
	"fmt"
)

// Column is the resolved descriptor a value stream is built from.
type Column struct {
	Name    string
	Type    Type
	Size    int64
	NotNull bool
}

// NewColumn keeps size as given: any negative size is unbounded and 0 is a
// real zero length.
func NewColumn(name string, t Type, size int64, notNull bool) Column {
	return Column{Name: name, Type: t, Size: size, NotNull: notNull}
}

type Table struct {
	Name    string
	Columns []Column
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Schema is the on-disk form of a fixture schema.
type Schema struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Dialect     Dialect    `json:"dialect" yaml:"dialect"`
	Seed        *int64     `json:"seed,omitempty" yaml:"seed,omitempty"`
	Tables      []TableDef `json:"tables" yaml:"tables"`
}

type TableDef struct {
	Name    string      `json:"name" yaml:"name"`
	Columns []ColumnDef `json:"columns" yaml:"columns"`
}

type ColumnDef struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Size    int64  `json:"size,omitempty" yaml:"size,omitempty"`
	NotNull bool   `json:"not_null,omitempty" yaml:"not_null,omitempty"`
}

func (s *Schema) Table(name string) (*TableDef, error) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], nil
		}
	}
	return nil, fmt.Errorf("table not found: %s", name)
}

// Resolve parses every column type of the table.
func (s *Schema) Resolve(tableName string) (*Table, error) {
	def, err := s.Table(tableName)
	if err != nil {
		return nil, err
	}
	return def.Resolve(s.Dialect)
}

func (d *TableDef) Resolve(dialect Dialect) (*Table, error) {
	t := &Table{Name: d.Name, Columns: make([]Column, 0, len(d.Columns))}
	for _, cd := range d.Columns {
		col, err := cd.Resolve(dialect)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", cd.Name, err)
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

func (d ColumnDef) Resolve(dialect Dialect) (Column, error) {
	if d.Type == "" {
		return Column{}, errors.New("column type is required")
	}
	typ, size, err := ParseType(dialect, d.Type)
	if err != nil {
		return Column{}, err
	}
	// An omitted size field decodes as 0 and leaves the parsed length alone.
	if d.Size != 0 {
		if d.Size < SizeUnbounded {
			return Column{}, fmt.Errorf("invalid size %d", d.Size)
		}
		size = d.Size
	}
	return NewColumn(d.Name, typ, size, d.NotNull), nil
}
