package valuegen

import (
	"errors"
	"math"
	"math/rand"
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/colgen/internal/generators"
	"github.com/mmrzaf/colgen/internal/registry"
	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
)

func newGen(t *testing.T, seed int64, nullThreshold, arrayNullThreshold int, opts ...Option) *RandomValueGenerator {
	t.Helper()
	g, err := NewSeeded(seed, nullThreshold, arrayNullThreshold, opts...)
	require.NoError(t, err)
	return g
}

func col(code schema.Code, size int64, notNull bool) schema.Column {
	return schema.NewColumn("c", schema.Scalar(code), size, notNull)
}

func arrayCol(elem schema.Code, notNull bool) schema.Column {
	return schema.NewColumn("c", schema.ArrayOf(schema.Scalar(elem)), schema.SizeUnbounded, notNull)
}

var allScalarCodes = []schema.Code{
	schema.CodeBool, schema.CodeInt64, schema.CodeFloat32, schema.CodeFloat64,
	schema.CodeBytes, schema.CodeString, schema.CodeDate, schema.CodeTimestamp, schema.CodeNumeric,
	schema.CodePgBool, schema.CodePgInt8, schema.CodePgFloat4, schema.CodePgFloat8,
	schema.CodePgBytea, schema.CodePgText, schema.CodePgVarchar, schema.CodePgDate,
	schema.CodePgTimestamptz, schema.CodePgNumeric,
}

var familyKinds = map[schema.Family]value.Kind{
	schema.FamilyBool:      value.KindBool,
	schema.FamilyInt64:     value.KindInt64,
	schema.FamilyFloat32:   value.KindFloat32,
	schema.FamilyFloat64:   value.KindFloat64,
	schema.FamilyBytes:     value.KindBytes,
	schema.FamilyString:    value.KindString,
	schema.FamilyDate:      value.KindDate,
	schema.FamilyTimestamp: value.KindTimestamp,
	schema.FamilyNumeric:   value.KindNumeric,
	schema.FamilyPgNumeric: value.KindPgNumeric,
}

func smallNumericRegistry() *registry.GeneratorRegistry {
	opts := registry.DefaultOptions()
	opts.PgNumeric = generators.DecimalLimits{MaxPrecision: 10, MaxScale: 2}
	return registry.NewDefaultGeneratorRegistry(opts)
}

func TestNew_RejectsBadThresholds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := New(rng, 101, 0)
	require.Error(t, err)
	_, err = New(rng, 0, -1)
	require.Error(t, err)
	_, err = New(rng, 0, 0, WithNaNPercent(200))
	require.Error(t, err)
	_, err = New(nil, 0, 0)
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	g := Default()
	assert.Equal(t, DefaultNullThreshold, g.nullThreshold)
	assert.Equal(t, DefaultArrayNullThreshold, g.arrayNullThreshold)
	assert.Equal(t, DefaultNaNPercent, g.nanPercent)
}

func TestValueStream_KindMatchesDeclaredType(t *testing.T) {
	g := newGen(t, 3, 50, 50, WithRegistry(smallNumericRegistry()))
	for _, code := range allScalarCodes {
		family, _ := code.Family()
		want := familyKinds[family]

		s, err := g.ValueStream(col(code, schema.SizeUnbounded, false), false)
		require.NoError(t, err)
		for _, v := range s.Take(300) {
			assert.Equal(t, want, v.Kind(), "code %s", code)
			assert.False(t, v.IsArray(), "code %s", code)
		}

		as, err := g.ValueStream(arrayCol(code, false), false)
		require.NoError(t, err)
		for _, v := range as.Take(300) {
			require.True(t, v.IsArray(), "code %s", code)
			assert.Equal(t, want, v.Kind(), "code %s", code)
			for _, e := range v.AsElements() {
				assert.Equal(t, want, e.Kind())
				assert.False(t, e.IsArray())
			}
		}
	}
}

func TestValueStream_NotNullNeverYieldsNull(t *testing.T) {
	g := newGen(t, 11, 100, 75, WithRegistry(smallNumericRegistry()))
	for _, code := range allScalarCodes {
		for _, c := range []struct {
			column   schema.Column
			override bool
		}{
			{col(code, 8, true), false},
			{col(code, 8, false), true},
			{arrayCol(code, true), false},
		} {
			s, err := g.ValueStream(c.column, c.override)
			require.NoError(t, err)
			for _, v := range s.Take(1000) {
				if v.IsNull() {
					t.Fatalf("code %s produced a null for a not-null column", code)
				}
			}
		}
	}
}

func TestValueStream_ThresholdExtremes(t *testing.T) {
	all := newGen(t, 5, 100, 0)
	s, err := all.ValueStream(col(schema.CodeBool, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	for _, v := range s.Take(1000) {
		require.True(t, v.IsNull())
		require.Equal(t, value.KindBool, v.Kind())
	}

	none := newGen(t, 5, 0, 0)
	s, err = none.ValueStream(col(schema.CodeBool, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	for _, v := range s.Take(1000) {
		require.False(t, v.IsNull())
	}
}

func TestValueStream_NullRateNearThreshold(t *testing.T) {
	g := newGen(t, 99, DefaultNullThreshold, DefaultArrayNullThreshold)
	s, err := g.ValueStream(col(schema.CodeInt64, schema.SizeUnbounded, false), false)
	require.NoError(t, err)

	const n = 20000
	nulls := 0
	for _, v := range s.Take(n) {
		if v.IsNull() {
			nulls++
		}
	}
	rate := float64(nulls) / n * 100
	assert.InDelta(t, DefaultNullThreshold, rate, 5)
}

func TestValueStream_FloatSentinelsSplitNaNAndNull(t *testing.T) {
	g := newGen(t, 8, 100, 0)
	for _, code := range []schema.Code{schema.CodeFloat32, schema.CodePgFloat8} {
		s, err := g.ValueStream(col(code, schema.SizeUnbounded, false), false)
		require.NoError(t, err)
		nan, null := 0, 0
		for _, v := range s.Take(4000) {
			switch {
			case v.IsNaN():
				nan++
			case v.IsNull():
				null++
			default:
				t.Fatalf("expected only sentinels, got %s", v)
			}
		}
		assert.InDelta(t, 2000, nan, 200)
		assert.InDelta(t, 2000, null, 200)
	}
}

func TestValueStream_NotNullSkipsSentinelPath(t *testing.T) {
	g := newGen(t, 8, 100, 0, WithNaNPercent(100))
	s, err := g.ValueStream(col(schema.CodeFloat64, schema.SizeUnbounded, true), false)
	require.NoError(t, err)
	for _, v := range s.Take(200) {
		require.False(t, v.IsNull())
		require.False(t, v.IsNaN())
	}

	s, err = g.ValueStream(col(schema.CodeFloat64, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	for _, v := range s.Take(200) {
		require.True(t, v.IsNaN())
	}
}

func TestValueStream_PgNumericSentinel(t *testing.T) {
	g := newGen(t, 21, 100, 0, WithRegistry(smallNumericRegistry()))
	s, err := g.ValueStream(col(schema.CodePgNumeric, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	sawNaN, sawNull := false, false
	for _, v := range s.Take(500) {
		if v.IsNaN() {
			sawNaN = true
			assert.Equal(t, value.NaNText, v.AsString())
		} else {
			require.True(t, v.IsNull())
			sawNull = true
		}
	}
	assert.True(t, sawNaN && sawNull)

	g = newGen(t, 21, 100, 0)
	s, err = g.ValueStream(col(schema.CodeNumeric, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	for _, v := range s.Take(500) {
		require.True(t, v.IsNull(), "NUMERIC sentinels are always null")
	}
}

func TestValueStream_ArraySentinelIsWholeArrayNull(t *testing.T) {
	g := newGen(t, 4, 100, 0)
	s, err := g.ValueStream(arrayCol(schema.CodeFloat64, false), false)
	require.NoError(t, err)
	for _, v := range s.Take(200) {
		require.True(t, v.IsArray())
		require.True(t, v.IsNull())
		require.Equal(t, value.KindFloat64, v.Kind())
	}
}

func TestValueStream_ArrayLengthsUniform(t *testing.T) {
	g := newGen(t, 17, 0, 30)
	s, err := g.ValueStream(arrayCol(schema.CodeInt64, false), false)
	require.NoError(t, err)

	const n = 5000
	var counts [generators.MaxArrayLength]int
	elemNulls, elems := 0, 0
	for _, v := range s.Take(n) {
		l := len(v.AsElements())
		require.True(t, l >= 0 && l < generators.MaxArrayLength, "length %d", l)
		counts[l]++
		for _, e := range v.AsElements() {
			elems++
			if e.IsNull() {
				elemNulls++
			}
		}
	}
	for l, c := range counts {
		assert.InDelta(t, n/generators.MaxArrayLength, c, 120, "length %d", l)
	}
	assert.InDelta(t, 30, float64(elemNulls)/float64(elems)*100, 4)
}

func TestValueStream_SizedContent(t *testing.T) {
	g := newGen(t, 2, 0, 0)
	for _, c := range []struct {
		code schema.Code
		size int64
		want int
	}{
		{schema.CodeBytes, 7, 7},
		{schema.CodeBytes, 0, 0},
		{schema.CodeString, 0, 0},
		{schema.CodePgText, math.MaxInt64, generators.DefaultLength},
		{schema.CodePgBytea, schema.SizeUnbounded, generators.DefaultLength},
		{schema.CodeString, 13, 13},
		{schema.CodePgVarchar, schema.SizeUnbounded, generators.DefaultLength},
	} {
		s, err := g.ValueStream(col(c.code, c.size, false), false)
		require.NoError(t, err)
		for _, v := range s.Take(200) {
			if v.Kind() == value.KindBytes {
				assert.Len(t, v.AsBytes(), c.want)
				continue
			}
			require.True(t, utf8.ValidString(v.AsString()))
			assert.Equal(t, c.want, utf8.RuneCountInString(v.AsString()))
		}
	}
}

func TestValueStream_PgNumericLiteralShape(t *testing.T) {
	g := newGen(t, 13, 0, 0, WithRegistry(smallNumericRegistry()))
	s, err := g.ValueStream(col(schema.CodePgNumeric, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	re := regexp.MustCompile(`^(0|[1-9]\d{1,7})(\.\d{1,2})?$`)
	for _, v := range s.Take(2000) {
		assert.Regexp(t, re, v.AsString())
	}
}

func TestValueStream_SameSeedSameSequence(t *testing.T) {
	a := newGen(t, 1234, 40, 40, WithRegistry(smallNumericRegistry()))
	b := newGen(t, 1234, 40, 40, WithRegistry(smallNumericRegistry()))
	for _, code := range allScalarCodes {
		sa, err := a.ValueStream(arrayCol(code, false), false)
		require.NoError(t, err)
		sb, err := b.ValueStream(arrayCol(code, false), false)
		require.NoError(t, err)
		for i := 0; i < 100; i++ {
			assert.Equal(t, sa.Next().String(), sb.Next().String())
		}
	}
}

func TestValueStream_AliasesBehaveIdentically(t *testing.T) {
	pairs := [][2]schema.Code{
		{schema.CodeBool, schema.CodePgBool},
		{schema.CodeInt64, schema.CodePgInt8},
		{schema.CodeFloat32, schema.CodePgFloat4},
		{schema.CodeFloat64, schema.CodePgFloat8},
		{schema.CodeBytes, schema.CodePgBytea},
		{schema.CodeString, schema.CodePgText},
		{schema.CodeString, schema.CodePgVarchar},
		{schema.CodeDate, schema.CodePgDate},
		{schema.CodeTimestamp, schema.CodePgTimestamptz},
	}
	for _, p := range pairs {
		ga := newGen(t, 77, 50, 50)
		gb := newGen(t, 77, 50, 50)
		sa, err := ga.ValueStream(col(p[0], 5, false), false)
		require.NoError(t, err)
		sb, err := gb.ValueStream(col(p[1], 5, false), false)
		require.NoError(t, err)
		for i := 0; i < 200; i++ {
			require.Equal(t, sa.Next().String(), sb.Next().String(), "%s vs %s", p[0], p[1])
		}
	}
}

func TestValueStream_UnsupportedType(t *testing.T) {
	g := newGen(t, 1, 50, 50)

	_, err := g.ValueStream(col(schema.CodeUnspecified, schema.SizeUnbounded, false), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	nested := schema.NewColumn("n", schema.ArrayOf(schema.ArrayOf(schema.Scalar(schema.CodeInt64))), schema.SizeUnbounded, false)
	_, err = g.ValueStream(nested, false)
	var ute *UnsupportedTypeError
	require.True(t, errors.As(err, &ute))
	assert.Contains(t, err.Error(), "ARRAY<ARRAY<INT64>>")

	empty := registry.NewGeneratorRegistry()
	g = newGen(t, 1, 50, 50, WithRegistry(empty))
	_, err = g.ValueStream(col(schema.CodeDate, schema.SizeUnbounded, false), false)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestStream_ValuesIsLazy(t *testing.T) {
	g := newGen(t, 6, 0, 0)
	s, err := g.ValueStream(col(schema.CodeInt64, schema.SizeUnbounded, true), false)
	require.NoError(t, err)

	n := 0
	for v := range s.Values() {
		require.Equal(t, value.KindInt64, v.Kind())
		n++
		if n == 25 {
			break
		}
	}
	assert.Equal(t, 25, n)
}

func TestStream_TakeNonPositive(t *testing.T) {
	g := newGen(t, 6, 0, 0)
	s, err := g.ValueStream(col(schema.CodeBool, schema.SizeUnbounded, false), false)
	require.NoError(t, err)
	assert.Empty(t, s.Take(0))
	assert.Empty(t, s.Take(-3))
	assert.Len(t, s.Take(4), 4)
}
