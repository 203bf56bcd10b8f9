package arrowipc

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/mmrzaf/colgen/internal/generators"
	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
)

// Sink streams each batch as one Arrow record in IPC stream format.
type Sink struct {
	w       io.Writer
	mem     memory.Allocator
	numeric generators.DecimalLimits
	schema  *arrow.Schema
	writer  *ipc.Writer
}

type Option func(*Sink)

// WithNumericLimits sizes the NUMERIC decimal type to the limits the values
// were generated with.
func WithNumericLimits(l generators.DecimalLimits) Option {
	return func(s *Sink) { s.numeric = l }
}

func NewSink(w io.Writer, mem memory.Allocator, opts ...Option) *Sink {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	s := &Sink{w: w, mem: mem, numeric: DefaultNumericLimits}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Open(table string, columns []schema.Column) error {
	sch, err := SchemaFor(table, columns, s.numeric)
	if err != nil {
		return err
	}
	s.schema = sch
	s.writer = ipc.NewWriter(s.w, ipc.WithSchema(sch), ipc.WithAllocator(s.mem))
	return nil
}

func (s *Sink) WriteBatch(rows [][]value.Value) error {
	builders := make([]array.Builder, s.schema.NumFields())
	for i, f := range s.schema.Fields() {
		builders[i] = array.NewBuilder(s.mem, f.Type)
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	for _, row := range rows {
		if len(row) != len(builders) {
			return fmt.Errorf("row has %d values, expected %d", len(row), len(builders))
		}
		for i, v := range row {
			if err := appendValue(builders[i], v); err != nil {
				return fmt.Errorf("column %s: %w", s.schema.Field(i).Name, err)
			}
		}
	}

	cols := make([]arrow.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	rec := array.NewRecord(s.schema, cols, int64(len(rows)))
	defer rec.Release()
	return s.writer.Write(rec)
}

func (s *Sink) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close()
}

// DefaultNumericLimits matches the GoogleSQL NUMERIC generator.
var DefaultNumericLimits = generators.DecimalLimits{
	MaxPrecision: generators.NumericMaxPrecision,
	MaxScale:     generators.NumericMaxScale,
}

// SchemaFor maps table columns to Arrow fields. Not-null columns become
// non-nullable fields.
func SchemaFor(table string, columns []schema.Column, numeric generators.DecimalLimits) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		dt, err := DataType(c.Type, numeric)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", c.Name, err)
		}
		fields[i] = arrow.Field{Name: c.Name, Type: dt, Nullable: !c.NotNull}
	}
	md := arrow.NewMetadata([]string{"table"}, []string{table})
	return arrow.NewSchema(fields, &md), nil
}

// DataType maps a column type to its Arrow type. NUMERIC takes the
// precision and scale of numeric.
func DataType(t schema.Type, numeric generators.DecimalLimits) (arrow.DataType, error) {
	if t.Code().IsArray() {
		elem, ok := t.ArrayElementType()
		if !ok {
			return nil, fmt.Errorf("array type %s has no element type", t)
		}
		et, err := DataType(elem, numeric)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(et), nil
	}
	family, ok := t.Code().Family()
	if !ok {
		return nil, fmt.Errorf("no arrow type for %s", t)
	}
	switch family {
	case schema.FamilyBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case schema.FamilyInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case schema.FamilyFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case schema.FamilyFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case schema.FamilyBytes:
		return arrow.BinaryTypes.Binary, nil
	case schema.FamilyString, schema.FamilyPgNumeric:
		return arrow.BinaryTypes.String, nil
	case schema.FamilyDate:
		return arrow.FixedWidthTypes.Date32, nil
	case schema.FamilyTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, nil
	case schema.FamilyNumeric:
		return decimalType(numeric)
	}
	return nil, fmt.Errorf("no arrow type for %s", t)
}

func decimalType(l generators.DecimalLimits) (arrow.DataType, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	p, sc := int32(l.MaxPrecision), int32(l.MaxScale)
	switch {
	case l.MaxPrecision <= decimal128.MaxPrecision:
		return &arrow.Decimal128Type{Precision: p, Scale: sc}, nil
	case l.MaxPrecision <= decimal256.MaxPrecision:
		return &arrow.Decimal256Type{Precision: p, Scale: sc}, nil
	}
	return nil, fmt.Errorf("numeric precision %d exceeds the arrow decimal limit", l.MaxPrecision)
}

func appendValue(b array.Builder, v value.Value) error {
	if v.IsNull() {
		b.AppendNull()
		return nil
	}
	if v.IsArray() {
		lb, ok := b.(*array.ListBuilder)
		if !ok {
			return fmt.Errorf("array value for non-list builder %s", b.Type())
		}
		lb.Append(true)
		vb := lb.ValueBuilder()
		for _, e := range v.AsElements() {
			if err := appendValue(vb, e); err != nil {
				return err
			}
		}
		return nil
	}

	switch bb := b.(type) {
	case *array.BooleanBuilder:
		bb.Append(v.AsBool())
	case *array.Int64Builder:
		bb.Append(v.AsInt64())
	case *array.Float32Builder:
		bb.Append(v.AsFloat32())
	case *array.Float64Builder:
		bb.Append(v.AsFloat64())
	case *array.BinaryBuilder:
		bb.Append(v.AsBytes())
	case *array.StringBuilder:
		bb.Append(v.AsString())
	case *array.Date32Builder:
		bb.Append(arrow.Date32FromTime(v.AsDate().Time()))
	case *array.TimestampBuilder:
		bb.Append(arrow.Timestamp(v.AsTimestamp().UnixMicro()))
	case *array.Decimal128Builder:
		scale := bb.Type().(*arrow.Decimal128Type).Scale
		bb.Append(decimal128.FromBigInt(v.AsNumeric().Shift(scale).BigInt()))
	case *array.Decimal256Builder:
		scale := bb.Type().(*arrow.Decimal256Type).Scale
		bb.Append(decimal256.FromBigInt(v.AsNumeric().Shift(scale).BigInt()))
	default:
		return fmt.Errorf("unsupported builder %s for %s", b.Type(), v.TypeName())
	}
	return nil
}
