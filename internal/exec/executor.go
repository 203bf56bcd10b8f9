package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/mmrzaf/colgen/internal/domain"
	"github.com/mmrzaf/colgen/internal/metrics"
	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
	"github.com/mmrzaf/colgen/internal/valuegen"
)

// RowSink consumes generated rows. Open is called once with the table's
// columns, then WriteBatch any number of times, then Close.
type RowSink interface {
	Open(table string, columns []schema.Column) error
	WriteBatch(rows [][]value.Value) error
	Close() error
}

const DefaultBatchSize = 1000

type Executor struct {
	batchSize int
}

func NewExecutor(batchSize int) *Executor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Executor{batchSize: batchSize}
}

// Execute pulls rows from one stream per column, all drawing from gen, and
// hands them to sink in batches. Columns named in notNull are forced
// non-nullable. Cancellation is checked between batches.
func (e *Executor) Execute(ctx context.Context, table *schema.Table, gen *valuegen.RandomValueGenerator, rows int, notNull map[string]bool, sink RowSink) (*domain.SampleStats, error) {
	startTime := time.Now()

	streams := make([]*valuegen.Stream, len(table.Columns))
	families := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		s, err := gen.ValueStream(col, notNull[col.Name])
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", col.Name, err)
		}
		streams[i] = s
		families[i] = familyLabel(col.Type)
	}

	if err := sink.Open(table.Name, table.Columns); err != nil {
		return nil, fmt.Errorf("failed to open sink for table '%s': %w", table.Name, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = sink.Close()
		}
	}()

	stats := &domain.SampleStats{ColumnStats: make([]domain.ColumnStats, len(table.Columns))}
	for i, col := range table.Columns {
		stats.ColumnStats[i].Column = col.Name
	}

	batch := make([][]value.Value, 0, min(e.batchSize, rows))
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := sink.WriteBatch(batch); err != nil {
			return fmt.Errorf("failed to write batch for table '%s': %w", table.Name, err)
		}
		metrics.BatchSize.Observe(float64(len(batch)))
		metrics.RowsGenerated.Add(float64(len(batch)))
		stats.RowsGenerated += int64(len(batch))
		batch = make([][]value.Value, 0, cap(batch))
		return nil
	}

	for rowIdx := 0; rowIdx < rows; rowIdx++ {
		row := make([]value.Value, len(streams))
		for colIdx, s := range streams {
			v := s.Next()
			row[colIdx] = v
			stats.ColumnStats[colIdx].Observe(v)
			metrics.ValuesGenerated.WithLabelValues(families[colIdx], metrics.Outcome(v.IsNull(), v.IsNaN())).Inc()
		}
		batch = append(batch, row)

		if len(batch) >= e.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("sample for table '%s' stopped after %d rows: %w", table.Name, stats.RowsGenerated, err)
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	closed = true
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close sink for table '%s': %w", table.Name, err)
	}

	stats.DurationSeconds = time.Since(startTime).Seconds()
	return stats, nil
}

func familyLabel(t schema.Type) string {
	code := t.Code()
	prefix := ""
	if elem, ok := t.ArrayElementType(); ok {
		code = elem.Code()
		prefix = "array_"
	}
	f, ok := code.Family()
	if !ok {
		return "unknown"
	}
	return prefix + string(f)
}
