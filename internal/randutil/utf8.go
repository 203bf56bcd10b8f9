// Package randutil draws random text from an explicitly passed source.
package randutil

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"
)

type runeSpan struct {
	lo, stride uint32
	offset     int // count of runes in all preceding spans
}

var (
	graphicSpans []runeSpan
	graphicTotal int
)

func init() {
	for _, table := range unicode.GraphicRanges {
		for _, r := range table.R16 {
			addSpan(uint32(r.Lo), uint32(r.Hi), uint32(r.Stride))
		}
		for _, r := range table.R32 {
			addSpan(r.Lo, r.Hi, r.Stride)
		}
	}
}

func addSpan(lo, hi, stride uint32) {
	graphicSpans = append(graphicSpans, runeSpan{lo: lo, stride: stride, offset: graphicTotal})
	graphicTotal += int((hi-lo)/stride) + 1
}

// GraphicRune returns a rune uniformly drawn from the Unicode graphic set.
func GraphicRune(rng *rand.Rand) rune {
	n := rng.Intn(graphicTotal)
	i := sort.Search(len(graphicSpans), func(i int) bool {
		return graphicSpans[i].offset > n
	}) - 1
	s := graphicSpans[i]
	return rune(s.lo + uint32(n-s.offset)*s.stride)
}

// RandomUTF8 returns valid UTF-8 text of exactly n runes. Multi-byte code
// points are as likely as ASCII ones, relative to their share of the
// graphic set.
func RandomUTF8(rng *rand.Rand, n int) string {
	if n <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(n * 3)
	for i := 0; i < n; i++ {
		sb.WriteRune(GraphicRune(rng))
	}
	return sb.String()
}
