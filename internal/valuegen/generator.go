// Package valuegen turns column descriptors into lazy streams of random values,
// injecting nulls and NaNs at configurable rates.
//
// A RandomValueGenerator owns one *rand.Rand. Every stream created from it
// draws from that source, so a generator must not be shared between
// goroutines; build one per session instead.
package valuegen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mmrzaf/colgen/internal/generators"
	"github.com/mmrzaf/colgen/internal/registry"
	"github.com/mmrzaf/colgen/internal/schema"
)

// Percentages used by Default and by callers that take no overrides.
const (
	DefaultNullThreshold      = 75
	DefaultArrayNullThreshold = 75
	DefaultNaNPercent         = 50
)

// RandomValueGenerator builds value streams that share one random source.
type RandomValueGenerator struct {
	rng                *rand.Rand
	nullThreshold      int
	arrayNullThreshold int
	nanPercent         int
	registry           *registry.GeneratorRegistry
}

// Option adjusts a generator before its settings are checked.
type Option func(*RandomValueGenerator)

// WithNaNPercent sets how often a float or PostgreSQL numeric sentinel is NaN
// instead of null.
func WithNaNPercent(p int) Option {
	return func(g *RandomValueGenerator) { g.nanPercent = p }
}

// WithRegistry replaces the default family dispatch table.
func WithRegistry(r *registry.GeneratorRegistry) Option {
	return func(g *RandomValueGenerator) { g.registry = r }
}

// New builds a generator. Thresholds are percentages in [0,100].
func New(rng *rand.Rand, nullThreshold, arrayNullThreshold int, opts ...Option) (*RandomValueGenerator, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	g := &RandomValueGenerator{
		rng:                rng,
		nullThreshold:      nullThreshold,
		arrayNullThreshold: arrayNullThreshold,
		nanPercent:         DefaultNaNPercent,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := checkPercent("null threshold", g.nullThreshold); err != nil {
		return nil, err
	}
	if err := checkPercent("array null threshold", g.arrayNullThreshold); err != nil {
		return nil, err
	}
	if err := checkPercent("nan percent", g.nanPercent); err != nil {
		return nil, err
	}
	if g.registry == nil {
		g.registry = registry.DefaultGeneratorRegistry()
	}
	return g, nil
}

// NewSeeded is New over a fresh source seeded with seed.
func NewSeeded(seed int64, nullThreshold, arrayNullThreshold int, opts ...Option) (*RandomValueGenerator, error) {
	return New(rand.New(rand.NewSource(seed)), nullThreshold, arrayNullThreshold, opts...)
}

// Default uses a time-seeded source and 75% for both thresholds.
func Default() *RandomValueGenerator {
	g, err := NewSeeded(time.Now().UnixNano(), DefaultNullThreshold, DefaultArrayNullThreshold)
	if err != nil {
		panic(err)
	}
	return g
}

func checkPercent(name string, p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%s must be within [0,100], got %d", name, p)
	}
	return nil
}

// ValueStream returns the value sequence of col. notNull forces the column
// non-nullable for this stream, which also disables NaN sentinels.
// An unsupported column type fails here rather than on the first pull.
func (g *RandomValueGenerator) ValueStream(col schema.Column, notNull bool) (*Stream, error) {
	gen, err := g.resolve(col.Type)
	if err != nil {
		return nil, err
	}
	threshold := g.nullThreshold
	if notNull || col.NotNull {
		threshold = -1
	}
	return &Stream{
		rng:       g.rng,
		gen:       gen,
		threshold: threshold,
		ctx: generators.GeneratorContext{
			Size:       col.Size,
			NaNPercent: g.nanPercent,
		},
	}, nil
}

// resolve maps a type to its generator: scalars by family, arrays by wrapping
// the element family's generator.
func (g *RandomValueGenerator) resolve(t schema.Type) (generators.Generator, error) {
	if !t.Code().IsArray() {
		gen, err := g.registry.Lookup(t.Code())
		if err != nil {
			return nil, &UnsupportedTypeError{Type: t, Err: err}
		}
		return gen, nil
	}
	elem, ok := t.ArrayElementType()
	if !ok || elem.Code().IsArray() {
		return nil, &UnsupportedTypeError{Type: t}
	}
	gen, err := g.registry.Lookup(elem.Code())
	if err != nil {
		return nil, &UnsupportedTypeError{Type: t, Err: err}
	}
	return generators.NewArrayGenerator(gen, g.arrayNullThreshold), nil
}
