package domain

import (
	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
)

// SampleRequest asks for rows of one table. Exactly one of SchemaID,
// SchemaPath (relative to the schemas directory) or an inline Schema must be
// given. Nil pointers take the service defaults.
type SampleRequest struct {
	SchemaID           string         `json:"schema_id,omitempty" yaml:"schema_id,omitempty"`
	SchemaPath         string         `json:"schema_path,omitempty" yaml:"schema_path,omitempty"`
	Schema             *schema.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Table              string         `json:"table" yaml:"table"`
	Rows               int            `json:"rows" yaml:"rows"`
	Seed               *int64         `json:"seed,omitempty" yaml:"seed,omitempty"`
	NullThreshold      *int           `json:"null_threshold,omitempty" yaml:"null_threshold,omitempty"`
	ArrayNullThreshold *int           `json:"array_null_threshold,omitempty" yaml:"array_null_threshold,omitempty"`
	NaNPercent         *int           `json:"nan_percent,omitempty" yaml:"nan_percent,omitempty"`
	NotNullColumns     []string       `json:"not_null_columns,omitempty" yaml:"not_null_columns,omitempty"`
	Format             string         `json:"format,omitempty" yaml:"format,omitempty"`
}

// SampleConfig is a request after defaults are applied; it is what gets hashed.
type SampleConfig struct {
	SchemaHash         string   `json:"schema_hash"`
	Table              string   `json:"table"`
	Rows               int      `json:"rows"`
	Seed               int64    `json:"seed"`
	NullThreshold      int      `json:"null_threshold"`
	ArrayNullThreshold int      `json:"array_null_threshold"`
	NaNPercent         int      `json:"nan_percent"`
	NotNullColumns     []string `json:"not_null_columns"`
}

type ColumnInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	NotNull bool   `json:"not_null"`
}

type SampleResult struct {
	SessionID  string          `json:"session_id"`
	SchemaID   string          `json:"schema_id"`
	Table      string          `json:"table"`
	Seed       int64           `json:"seed"`
	ConfigHash string          `json:"config_hash"`
	Columns    []ColumnInfo    `json:"columns"`
	Rows       [][]value.Value `json:"rows,omitempty"`
	Stats      SampleStats     `json:"stats"`
}

type SampleStats struct {
	RowsGenerated   int64         `json:"rows_generated"`
	DurationSeconds float64       `json:"duration_seconds"`
	ColumnStats     []ColumnStats `json:"column_stats"`
}

// ColumnStats counts outcomes per column. Nulls include whole-array nulls
// only; null array elements are counted under NullElements.
type ColumnStats struct {
	Column       string `json:"column"`
	Values       int64  `json:"values"`
	Nulls        int64  `json:"nulls"`
	NaNs         int64  `json:"nans"`
	NullElements int64  `json:"null_elements,omitempty"`
}

// Observe folds one generated value into the counters.
func (s *ColumnStats) Observe(v value.Value) {
	s.Values++
	switch {
	case v.IsNull():
		s.Nulls++
	case v.IsNaN():
		s.NaNs++
	case v.IsArray():
		for _, e := range v.AsElements() {
			if e.IsNull() {
				s.NullElements++
			}
		}
	}
}

const (
	FormatTable = "table"
	FormatJSONL = "jsonl"
	FormatArrow = "arrow"
)

func IsValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSONL, FormatArrow:
		return true
	}
	return false
}
