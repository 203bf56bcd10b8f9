package generators

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmrzaf/colgen/internal/value"
)

// Digit limits of the two numeric families.
const (
	PgMaxPrecision      = 147455
	PgMaxScale          = 16383
	NumericMaxPrecision = 38
	NumericMaxScale     = 9
)

// DecimalLimits bounds the literals produced by DecimalString.
type DecimalLimits struct {
	MaxPrecision int `json:"max_precision" yaml:"max_precision" toml:"max_precision"`
	MaxScale     int `json:"max_scale" yaml:"max_scale" toml:"max_scale"`
}

func (l DecimalLimits) Validate() error {
	if l.MaxScale < 0 {
		return fmt.Errorf("max scale must be >= 0, got %d", l.MaxScale)
	}
	if l.MaxPrecision-l.MaxScale < 1 {
		return fmt.Errorf("max precision (%d) must exceed max scale (%d)", l.MaxPrecision, l.MaxScale)
	}
	return nil
}

// DecimalString returns a literal with 1..MaxPrecision-MaxScale integer digits
// and 0..MaxScale fraction digits. A single integer digit is always 0; longer
// integer parts never start with 0.
func DecimalString(rng *rand.Rand, limits DecimalLimits) string {
	intLen := rng.Intn(limits.MaxPrecision-limits.MaxScale) + 1
	fracLen := rng.Intn(limits.MaxScale + 1)

	var sb strings.Builder
	sb.Grow(intLen + fracLen + 1)
	if intLen == 1 {
		sb.WriteByte('0')
	} else {
		sb.WriteByte(byte('1' + rng.Intn(9)))
	}
	for i := 1; i < intLen; i++ {
		sb.WriteByte(byte('0' + rng.Intn(10)))
	}
	if fracLen > 0 {
		sb.WriteByte('.')
		for i := 0; i < fracLen; i++ {
			sb.WriteByte(byte('0' + rng.Intn(10)))
		}
	}
	return sb.String()
}

// PgNumericGenerator emits PostgreSQL numerics as text; its sentinel may be "NaN".
type PgNumericGenerator struct {
	Limits DecimalLimits
}

func NewPgNumericGenerator(limits DecimalLimits) *PgNumericGenerator {
	return &PgNumericGenerator{Limits: limits}
}

func (g *PgNumericGenerator) Kind() value.Kind { return value.KindPgNumeric }

func (g *PgNumericGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.PgNumeric(DecimalString(rng, g.Limits))
}

func (g *PgNumericGenerator) Sentinel(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return nanOrNull(rng, ctx, value.PgNumeric(value.NaNText))
}

// NumericGenerator emits fixed-precision NUMERIC values built from the same
// literal synthesis, parsed into a decimal.
type NumericGenerator struct {
	nullable
	Limits DecimalLimits
}

func NewNumericGenerator(limits DecimalLimits) *NumericGenerator {
	return &NumericGenerator{nullable: nullable{value.KindNumeric}, Limits: limits}
}

func (g *NumericGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	// DecimalString output is always a well-formed literal.
	return value.Numeric(decimal.RequireFromString(DecimalString(rng, g.Limits)))
}
