package valuegen

import (
	"iter"
	"math/rand"

	"github.com/mmrzaf/colgen/internal/generators"
	"github.com/mmrzaf/colgen/internal/value"
)

// Stream is an infinite, unbuffered sequence of values for one column. Stop
// pulling to abandon it.
type Stream struct {
	rng       *rand.Rand
	gen       generators.Generator
	threshold int
	ctx       generators.GeneratorContext
}

// Next draws one value: the sentinel when the threshold roll hits, a real
// value otherwise.
func (s *Stream) Next() value.Value {
	if s.rng.Intn(100) < s.threshold {
		return s.gen.Sentinel(s.rng, s.ctx)
	}
	return s.gen.Generate(s.rng, s.ctx)
}

// Values yields Next() until the caller stops ranging.
func (s *Stream) Values() iter.Seq[value.Value] {
	return func(yield func(value.Value) bool) {
		for {
			if !yield(s.Next()) {
				return
			}
		}
	}
}

// Take collects the next n values. A negative n yields none.
func (s *Stream) Take(n int) []value.Value {
	if n <= 0 {
		return nil
	}
	out := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.Next())
	}
	return out
}
