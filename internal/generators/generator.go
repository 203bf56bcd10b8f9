package generators

import (
	"math/rand"

	"github.com/mmrzaf/colgen/internal/value"
)

// Generator produces values of one family from a caller-owned random source.
type Generator interface {
	Kind() value.Kind
	// Generate returns a non-null value.
	Generate(rng *rand.Rand, ctx GeneratorContext) value.Value
	// Sentinel returns the edge value emitted instead of a real one: null,
	// or NaN for families that have it.
	Sentinel(rng *rand.Rand, ctx GeneratorContext) value.Value
}

type GeneratorContext struct {
	// Size is the declared column length, or schema.SizeUnbounded.
	Size int64
	// NaNPercent is the share of sentinels that are NaN rather than null.
	NaNPercent int
}

// DefaultLength applies to bytes and strings of unbounded columns.
const DefaultLength = 20

// MaxLength is the largest size honored as declared. Larger sizes fall back
// to DefaultLength.
const MaxLength = 10485760

func (ctx GeneratorContext) length() int {
	if ctx.Size < 0 || ctx.Size > MaxLength {
		return DefaultLength
	}
	return int(ctx.Size)
}

// nullable is embedded by families whose only sentinel is null.
type nullable struct {
	kind value.Kind
}

func (n nullable) Kind() value.Kind {
	return n.kind
}

func (n nullable) Sentinel(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.Null(n.kind)
}

func nanOrNull(rng *rand.Rand, ctx GeneratorContext, nan value.Value) value.Value {
	if rng.Intn(100) < ctx.NaNPercent {
		return nan
	}
	return value.Null(nan.Kind())
}
