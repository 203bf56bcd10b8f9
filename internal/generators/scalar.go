package generators

import (
	"math"
	"math/rand"
	"time"

	"github.com/mmrzaf/colgen/internal/randutil"
	"github.com/mmrzaf/colgen/internal/value"
)

type BoolGenerator struct{ nullable }

func NewBoolGenerator() *BoolGenerator {
	return &BoolGenerator{nullable{value.KindBool}}
}

func (g *BoolGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.Bool(rng.Intn(2) == 1)
}

type Int64Generator struct{ nullable }

func NewInt64Generator() *Int64Generator {
	return &Int64Generator{nullable{value.KindInt64}}
}

// Generate covers the whole signed range, negatives included.
func (g *Int64Generator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.Int64(int64(rng.Uint64()))
}

type Float32Generator struct{}

func NewFloat32Generator() *Float32Generator {
	return &Float32Generator{}
}

func (g *Float32Generator) Kind() value.Kind { return value.KindFloat32 }

func (g *Float32Generator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.Float32(rng.Float32())
}

func (g *Float32Generator) Sentinel(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return nanOrNull(rng, ctx, value.Float32(float32(math.NaN())))
}

type Float64Generator struct{}

func NewFloat64Generator() *Float64Generator {
	return &Float64Generator{}
}

func (g *Float64Generator) Kind() value.Kind { return value.KindFloat64 }

func (g *Float64Generator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.Float64(rng.Float64())
}

func (g *Float64Generator) Sentinel(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return nanOrNull(rng, ctx, value.Float64(math.NaN()))
}

type BytesGenerator struct{ nullable }

func NewBytesGenerator() *BytesGenerator {
	return &BytesGenerator{nullable{value.KindBytes}}
}

func (g *BytesGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	b := make([]byte, ctx.length())
	rng.Read(b)
	return value.Bytes(b)
}

type StringGenerator struct{ nullable }

func NewStringGenerator() *StringGenerator {
	return &StringGenerator{nullable{value.KindString}}
}

// Generate returns exactly ctx.Size runes (DefaultLength when unbounded).
func (g *StringGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.String(randutil.RandomUTF8(rng, ctx.length()))
}

// Date bounds keep clear of month and day overflow.
const (
	MinDateYear  = 1980
	DateYearSpan = 40
	MaxDateMonth = 11
	MaxDateDay   = 27
)

type DateGenerator struct{ nullable }

func NewDateGenerator() *DateGenerator {
	return &DateGenerator{nullable{value.KindDate}}
}

func (g *DateGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	year := MinDateYear + rng.Intn(DateYearSpan)
	month := time.Month(1 + rng.Intn(MaxDateMonth))
	day := 1 + rng.Intn(MaxDateDay)
	return value.DateValue(value.DateOf(year, month, day))
}

const (
	TimestampBaseMicros   int64 = 3919613394847
	TimestampJitterMicros       = 471179000
)

type TimestampGenerator struct{ nullable }

func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{nullable{value.KindTimestamp}}
}

func (g *TimestampGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	micros := TimestampBaseMicros + int64(rng.Intn(TimestampJitterMicros))
	return value.Timestamp(time.UnixMicro(micros))
}
