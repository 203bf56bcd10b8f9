package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mmrzaf/colgen/internal/generators"
	"github.com/mmrzaf/colgen/internal/schema"
)

// GeneratorRegistry is the dispatch table from a type family to its scalar
// generator. Dialect aliases share one entry because lookup is by family.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[schema.Family]generators.Generator
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[schema.Family]generators.Generator),
	}
}

func (r *GeneratorRegistry) Register(family schema.Family, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[family] = gen
}

func (r *GeneratorRegistry) Get(family schema.Family) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[family]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", family)
	}
	return gen, nil
}

// Lookup resolves the scalar generator for a non-array code.
func (r *GeneratorRegistry) Lookup(code schema.Code) (generators.Generator, error) {
	family, ok := code.Family()
	if !ok {
		return nil, fmt.Errorf("no family for type code %s", code)
	}
	return r.Get(family)
}

func (r *GeneratorRegistry) List() []schema.Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	families := make([]schema.Family, 0, len(r.generators))
	for f := range r.generators {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	return families
}

// NumericLimits reports the digit limits of the registered NUMERIC
// generator, or the GoogleSQL defaults when it is not the built-in one.
func (r *GeneratorRegistry) NumericLimits() generators.DecimalLimits {
	if g, err := r.Get(schema.FamilyNumeric); err == nil {
		if ng, ok := g.(*generators.NumericGenerator); ok {
			return ng.Limits
		}
	}
	return DefaultOptions().Numeric
}

type Options struct {
	PgNumeric generators.DecimalLimits
	Numeric   generators.DecimalLimits
}

func DefaultOptions() Options {
	return Options{
		PgNumeric: generators.DecimalLimits{MaxPrecision: generators.PgMaxPrecision, MaxScale: generators.PgMaxScale},
		Numeric:   generators.DecimalLimits{MaxPrecision: generators.NumericMaxPrecision, MaxScale: generators.NumericMaxScale},
	}
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	return NewDefaultGeneratorRegistry(DefaultOptions())
}

func NewDefaultGeneratorRegistry(opts Options) *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register(schema.FamilyBool, generators.NewBoolGenerator())
	r.Register(schema.FamilyInt64, generators.NewInt64Generator())
	r.Register(schema.FamilyFloat32, generators.NewFloat32Generator())
	r.Register(schema.FamilyFloat64, generators.NewFloat64Generator())
	r.Register(schema.FamilyBytes, generators.NewBytesGenerator())
	r.Register(schema.FamilyString, generators.NewStringGenerator())
	r.Register(schema.FamilyDate, generators.NewDateGenerator())
	r.Register(schema.FamilyTimestamp, generators.NewTimestampGenerator())
	r.Register(schema.FamilyNumeric, generators.NewNumericGenerator(opts.Numeric))
	r.Register(schema.FamilyPgNumeric, generators.NewPgNumericGenerator(opts.PgNumeric))
	return r
}
