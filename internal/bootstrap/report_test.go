package bootstrap

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, DefaultRows()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report_default", buf.Bytes())
}

func TestFormatRows(t *testing.T) {
	assert.Equal(t, "[]", FormatRows(nil))
	assert.Equal(t, "[(7, 'x')]", FormatRows([]Row{{ID: 7, Name: "x"}}))
	assert.Equal(t, `[(1, 'O\'Brien'), (2, 'back\\slash')]`, FormatRows([]Row{
		{ID: 1, Name: "O'Brien"},
		{ID: 2, Name: `back\slash`},
	}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestReport_WriteFailure(t *testing.T) {
	err := Report(failingWriter{}, DefaultRows())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedGenerator("only")
	assert.Equal(t, "only", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
