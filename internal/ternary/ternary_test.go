package ternary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	assert.Equal(t, True, Of(true))
	assert.Equal(t, False, Of(false))
}

func TestZeroValueIsFalse(t *testing.T) {
	var b Bool
	assert.Equal(t, False, b)
	assert.False(t, b.IsTrue())
	assert.True(t, b.IsKnown())
}

func TestKleeneLogic(t *testing.T) {
	tests := []struct {
		a, b    Bool
		and, or Bool
	}{
		{True, True, True, True},
		{True, False, False, True},
		{True, Unknown, Unknown, True},
		{False, False, False, False},
		{False, Unknown, False, Unknown},
		{Unknown, Unknown, Unknown, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.and, tt.a.And(tt.b))
			assert.Equal(t, tt.and, tt.b.And(tt.a))
			assert.Equal(t, tt.or, tt.a.Or(tt.b))
			assert.Equal(t, tt.or, tt.b.Or(tt.a))
		})
	}
}

func TestNot(t *testing.T) {
	assert.Equal(t, False, True.Not())
	assert.Equal(t, True, False.Not())
	assert.Equal(t, Unknown, Unknown.Not())
}

func TestString(t *testing.T) {
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "false", False.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.False(t, Unknown.IsKnown())
}
