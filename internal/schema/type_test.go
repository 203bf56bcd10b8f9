package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType_GoogleSQL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		size int64
	}{
		{"BOOL", "BOOL", SizeUnbounded},
		{"int64", "INT64", SizeUnbounded},
		{"STRING(MAX)", "STRING", SizeUnbounded},
		{"STRING(12)", "STRING", 12},
		{"BYTES(4)", "BYTES", 4},
		{"NUMERIC", "NUMERIC", SizeUnbounded},
		{"ARRAY<STRING(7)>", "ARRAY<STRING>", 7},
		{"Array<Float32>", "ARRAY<FLOAT32>", SizeUnbounded},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			typ, size, err := ParseType(DialectGoogleSQL, c.raw)
			require.NoError(t, err)
			assert.Equal(t, c.want, typ.String())
			assert.Equal(t, c.size, size)
		})
	}
}

func TestParseType_PostgreSQL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		size int64
	}{
		{"boolean", "PG_BOOL", SizeUnbounded},
		{"bigint", "PG_INT8", SizeUnbounded},
		{"double  precision", "PG_FLOAT8", SizeUnbounded},
		{"character varying(20)", "PG_VARCHAR", 20},
		{"varchar", "PG_VARCHAR", SizeUnbounded},
		{"timestamp with time zone", "PG_TIMESTAMPTZ", SizeUnbounded},
		{"numeric", "PG_NUMERIC", SizeUnbounded},
		{"text[]", "PG_ARRAY<PG_TEXT>", SizeUnbounded},
		{"bytea[]", "PG_ARRAY<PG_BYTEA>", SizeUnbounded},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			typ, size, err := ParseType(DialectPostgreSQL, c.raw)
			require.NoError(t, err)
			assert.Equal(t, c.want, typ.String())
			assert.Equal(t, c.size, size)
		})
	}
}

func TestParseType_Rejects(t *testing.T) {
	bad := map[Dialect][]string{
		DialectGoogleSQL:  {"", "JSON", "ARRAY<ARRAY<INT64>>", "STRING(", "STRING(0)", "INT64(8)"},
		DialectPostgreSQL: {"jsonb", "text[][]", "bigint(3)", "varchar(x)"},
	}
	for dialect, raws := range bad {
		for _, raw := range raws {
			if _, _, err := ParseType(dialect, raw); err == nil {
				t.Fatalf("expected %s to reject %q", dialect, raw)
			}
		}
	}
	_, _, err := ParseType("oracle", "NUMBER")
	require.Error(t, err)
}

func TestCodeFamily_AliasesShareFamily(t *testing.T) {
	pairs := [][2]Code{
		{CodeBool, CodePgBool},
		{CodeInt64, CodePgInt8},
		{CodeFloat32, CodePgFloat4},
		{CodeFloat64, CodePgFloat8},
		{CodeBytes, CodePgBytea},
		{CodeString, CodePgText},
		{CodeString, CodePgVarchar},
		{CodeDate, CodePgDate},
		{CodeTimestamp, CodePgTimestamptz},
	}
	for _, p := range pairs {
		a, okA := p[0].Family()
		b, okB := p[1].Family()
		require.True(t, okA && okB)
		assert.Equal(t, a, b, "%s vs %s", p[0], p[1])
	}

	n, _ := CodeNumeric.Family()
	pn, _ := CodePgNumeric.Family()
	assert.NotEqual(t, n, pn)

	_, ok := CodeArray.Family()
	assert.False(t, ok)
}

func TestColumnDefResolve_SizeOverride(t *testing.T) {
	col, err := ColumnDef{Name: "c", Type: "STRING(10)", Size: 3, NotNull: true}.Resolve(DialectGoogleSQL)
	require.NoError(t, err)
	assert.Equal(t, int64(3), col.Size)
	assert.True(t, col.NotNull)

	col, err = ColumnDef{Name: "c", Type: "STRING(MAX)"}.Resolve(DialectGoogleSQL)
	require.NoError(t, err)
	assert.Equal(t, SizeUnbounded, col.Size)

	_, err = ColumnDef{Name: "c", Type: "STRING", Size: -4}.Resolve(DialectGoogleSQL)
	require.Error(t, err)
}

func TestNewColumn_KeepsZeroSize(t *testing.T) {
	assert.Equal(t, int64(0), NewColumn("b", Scalar(CodeBytes), 0, true).Size)
	assert.Equal(t, int64(-5), NewColumn("b", Scalar(CodeBytes), -5, true).Size)

	col, err := ColumnDef{Name: "c", Type: "BYTES"}.Resolve(DialectGoogleSQL)
	require.NoError(t, err)
	assert.Equal(t, SizeUnbounded, col.Size)
}

func TestCode_MaxLength(t *testing.T) {
	assert.Equal(t, MaxStringLength, CodeString.MaxLength())
	assert.Equal(t, MaxBytesLength, CodeBytes.MaxLength())
	assert.Equal(t, MaxPgVarcharLength, CodePgVarchar.MaxLength())
	assert.Zero(t, CodeInt64.MaxLength())
	assert.Zero(t, CodeArray.MaxLength())
}
