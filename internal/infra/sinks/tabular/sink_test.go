package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmrzaf/colgen/internal/schema"
	"github.com/mmrzaf/colgen/internal/value"
)

func TestSink_AlignsAndTruncates(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, 6)
	require.NoError(t, s.Open("t", []schema.Column{
		schema.NewColumn("id", schema.Scalar(schema.CodeInt64), -1, true),
		schema.NewColumn("amount", schema.Scalar(schema.CodePgNumeric), -1, false),
	}))
	require.NoError(t, s.WriteBatch([][]value.Value{
		{value.Int64(1), value.PgNumeric("123456789.5")},
		{value.Int64(22), value.Null(value.KindPgNumeric)},
	}))
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  AMOUNT", lines[0])
	assert.Equal(t, "1   12345…", lines[1])
	assert.Equal(t, "22  NULL", lines[2])
}
