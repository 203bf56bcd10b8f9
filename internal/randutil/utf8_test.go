package randutil

import (
	"math/rand"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomUTF8_ValidAndSized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 20, 257} {
		s := RandomUTF8(rng, n)
		require.True(t, utf8.ValidString(s))
		assert.Equal(t, n, utf8.RuneCountInString(s))
	}
}

func TestGraphicRune_IsGraphic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		r := GraphicRune(rng)
		if !unicode.IsGraphic(r) {
			t.Fatalf("rune %U is not graphic", r)
		}
	}
}

func TestRandomUTF8_Deterministic(t *testing.T) {
	a := RandomUTF8(rand.New(rand.NewSource(42)), 30)
	b := RandomUTF8(rand.New(rand.NewSource(42)), 30)
	assert.Equal(t, a, b)
}
