package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/amp-labs/amp-otel/optional"
)

func TestScalars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []attribute.KeyValue{attribute.String("k", "v")}, String("k", "v"))
	assert.Equal(t, []attribute.KeyValue{attribute.Int("k", 1)}, Int("k", 1))
	assert.Equal(t, []attribute.KeyValue{attribute.Int64("k", 2)}, Int64("k", 2))
	assert.Equal(t, []attribute.KeyValue{attribute.Float64("k", 0.5)}, Float("k", 0.5))
	assert.Equal(t, []attribute.KeyValue{attribute.Bool("k", true)}, Bool("k", true))
}

func TestStrings(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Strings("k", nil))
	assert.Empty(t, Strings("k", []string{}))
	assert.Equal(t,
		[]attribute.KeyValue{attribute.StringSlice("k", []string{"a", "b"})},
		Strings("k", []string{"a", "b"}))
}

func TestPointers(t *testing.T) {
	t.Parallel()

	name := "table"
	count := 3

	assert.Equal(t, []attribute.KeyValue{attribute.String("k", "table")}, StringPtr("k", &name))
	assert.Equal(t, []attribute.KeyValue{attribute.Int("k", 3)}, IntPtr("k", &count))

	assert.Empty(t, StringPtr("k", nil))
	assert.Empty(t, IntPtr("k", nil))
	assert.Empty(t, Int64Ptr("k", nil))
	assert.Empty(t, FloatPtr("k", nil))
	assert.Empty(t, BoolPtr("k", nil))
}

func TestOpt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []attribute.KeyValue{attribute.String("k", "v")}, Opt("k", optional.Some("v")))
	assert.Equal(t, []attribute.KeyValue{attribute.Int64("k", 9)}, Opt("k", optional.Some(int64(9))))
	assert.Empty(t, Opt("k", optional.None[string]()))
	assert.Empty(t, Opt("k", optional.None[bool]()))
}

func TestCollect(t *testing.T) {
	t.Parallel()

	got := Collect(
		String("a", "1"),
		nil,
		StringPtr("b", nil),
		Int("c", 2),
	)

	require.Len(t, got, 2)
	assert.Equal(t, attribute.Key("a"), got[0].Key)
	assert.Equal(t, attribute.Key("c"), got[1].Key)

	assert.NotNil(t, Collect())
	assert.Empty(t, Collect())
}
