package common

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanOfPadding(t *testing.T) {
	if strconv.IntSize != 64 {
		t.Skip("offsets below assume 8-byte alignment of uint64")
	}
	type padded struct {
		A uint8
		B uint64
		C uint16
	}
	p := PlanOf(reflect.TypeFor[padded]())
	require.NotNil(t, p)
	require.Len(t, p.Fields, 3)

	assert.Equal(t, uintptr(0), p.Fields[0].Gap)
	assert.Equal(t, uintptr(7), p.Fields[1].Gap)
	assert.Equal(t, uintptr(8), p.Fields[1].Offset)
	assert.Equal(t, uintptr(0), p.Fields[2].Gap)
	assert.Equal(t, uintptr(6), p.Trailing)
	assert.Equal(t, uintptr(24), p.Size)
	assert.Equal(t, reflect.Uint64, p.Fields[1].Kind)

	c, ok := p.Field("C")
	require.True(t, ok)
	assert.Equal(t, uintptr(16), c.Offset)
	_, ok = p.Field("D")
	assert.False(t, ok)
}

func TestPlanOfCached(t *testing.T) {
	type s struct{ X int32 }
	a := PlanOf(reflect.TypeFor[s]())
	b := PlanOf(reflect.TypeFor[s]())
	assert.Same(t, a, b)
}

func TestPlanOfNonStruct(t *testing.T) {
	assert.Nil(t, PlanOf(reflect.TypeFor[int]()))
}
