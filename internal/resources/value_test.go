package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want Value
	}{
		{"int", 3, IntValue(3)},
		{"int32", int32(-4), IntValue(-4)},
		{"int64", int64(25), IntValue(25)},
		{"float32", float32(0.5), FloatValue(0.5)},
		{"float64", 25.0, FloatValue(25.0)},
		{"true", true, IntValue(1)},
		{"false", false, IntValue(0)},
		{"value", FloatValue(1.5), FloatValue(1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s (%s)", got, got.Kind())
		})
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	for _, raw := range []any{"1", nil, []int{1}, map[string]any{}} {
		_, err := ValueOf(raw)
		assert.ErrorIs(t, err, ErrUnsupportedValue, "raw %#v", raw)
	}
}

func TestValue_EqualDistinguishesKinds(t *testing.T) {
	assert.True(t, IntValue(25).Equal(IntValue(25)))
	assert.True(t, FloatValue(25).Equal(FloatValue(25.0)))
	assert.False(t, IntValue(25).Equal(FloatValue(25.0)))
	assert.False(t, FloatValue(25.0).Equal(IntValue(25)))
	assert.False(t, IntValue(1).Equal(IntValue(0)))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "25", IntValue(25).String())
	assert.Equal(t, "-3", IntValue(-3).String())
	assert.Equal(t, "25.0", FloatValue(25).String())
	assert.Equal(t, "21.5", FloatValue(21.5).String())
	assert.Equal(t, "0.0", FloatValue(0).String())
}

func TestValue_Conversions(t *testing.T) {
	v := FloatValue(21.7)
	assert.Equal(t, int64(21), v.Int())
	assert.Equal(t, 21.7, v.Float())
	assert.Equal(t, any(21.7), v.Raw())
	assert.True(t, v.IsFloat())

	i := IntValue(4)
	assert.Equal(t, 4.0, i.Float())
	assert.Equal(t, any(int64(4)), i.Raw())
	assert.True(t, i.IsInt())

	var zero Value
	assert.True(t, zero.Equal(IntValue(0)))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"1", IntValue(1)},
		{" 0 ", IntValue(0)},
		{"-12", IntValue(-12)},
		{"25.0", FloatValue(25)},
		{"21.5", FloatValue(21.5)},
		{"1e2", FloatValue(100)},
		{"on", IntValue(1)},
		{"OFF", IntValue(0)},
		{"true", IntValue(1)},
		{"false", IntValue(0)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s (%s), want %s (%s)", got, got.Kind(), tt.want, tt.want.Kind())
		})
	}
}

func TestParseValue_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "1.2.3", "12x"} {
		_, err := ParseValue(in)
		assert.ErrorIs(t, err, ErrUnsupportedValue, "input %q", in)
	}
}

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "ValueKind(7)", ValueKind(7).String())
}
