package generators

import (
	"math/rand"

	"github.com/mmrzaf/colgen/internal/value"
)

// MaxArrayLength is exclusive: arrays hold 0..9 elements.
const MaxArrayLength = 10

// ArrayGenerator wraps an element generator. Elements are null-injected
// independently at NullThreshold percent; they are never NaN.
type ArrayGenerator struct {
	Elem          Generator
	NullThreshold int
}

func NewArrayGenerator(elem Generator, nullThreshold int) *ArrayGenerator {
	return &ArrayGenerator{Elem: elem, NullThreshold: nullThreshold}
}

func (g *ArrayGenerator) Kind() value.Kind {
	return g.Elem.Kind()
}

func (g *ArrayGenerator) Generate(rng *rand.Rand, ctx GeneratorContext) value.Value {
	n := rng.Intn(MaxArrayLength)
	elems := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		if rng.Intn(100) < g.NullThreshold {
			elems = append(elems, value.Null(g.Elem.Kind()))
			continue
		}
		elems = append(elems, g.Elem.Generate(rng, ctx))
	}
	return value.Array(g.Elem.Kind(), elems)
}

// Sentinel nulls the whole array rather than its elements.
func (g *ArrayGenerator) Sentinel(rng *rand.Rand, ctx GeneratorContext) value.Value {
	return value.NullArray(g.Elem.Kind())
}
