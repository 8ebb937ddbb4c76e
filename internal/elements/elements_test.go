package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		symbol string
		z      int
		ok     bool
	}{
		{"H", 1, true},
		{"Na", 11, true},
		{"Cl", 17, true},
		{"Lr", 103, true},
		{"Xx", 0, false},
		{"na", 0, false},
	}

	for _, tt := range tests {
		z, ok := Number(tt.symbol)
		assert.Equal(t, tt.ok, ok, tt.symbol)
		assert.Equal(t, tt.z, z, tt.symbol)
	}
}

func TestSymbolRoundTrip(t *testing.T) {
	for z := 1; z <= MaxAtomicNumber; z++ {
		got, ok := Number(Symbol(z))
		assert.True(t, ok)
		assert.Equal(t, z, got)
	}
	assert.Equal(t, "X", Symbol(0))
	assert.Equal(t, "X", Symbol(MaxAtomicNumber+1))
}

func TestCovalentRadius(t *testing.T) {
	assert.Equal(t, 0.31, CovalentRadius(1))
	assert.Equal(t, 1.66, CovalentRadius(11))
	assert.Equal(t, 1.02, CovalentRadius(17))
	assert.Equal(t, MissingRadius, CovalentRadius(0))
	assert.Equal(t, MissingRadius, CovalentRadius(MaxAtomicNumber))
	assert.Equal(t, MissingRadius, CovalentRadius(500))
	assert.Equal(t, MissingRadius, CovalentRadius(-1))
}

func TestColor(t *testing.T) {
	assert.Equal(t, uint32(0xffffff), Color(1))
	assert.Equal(t, uint32(0x909090), Color(6))
	assert.Equal(t, Color(0), Color(1000))
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(0))
	assert.True(t, Valid(1))
	assert.True(t, Valid(103))
	assert.False(t, Valid(104))
}

func TestLegend(t *testing.T) {
	legend := Legend([]int{17, 11, 11, 17, 1})
	if assert.Len(t, legend, 3) {
		assert.Equal(t, "Cl", legend[0].Symbol)
		assert.Equal(t, "H", legend[1].Symbol)
		assert.Equal(t, "Na", legend[2].Symbol)
		assert.Equal(t, 1.66, legend[2].Radius)
	}
	assert.Empty(t, Legend(nil))
}

func TestFormula(t *testing.T) {
	assert.Equal(t, "Cl2Na2", Formula([]int{11, 17, 11, 17}))
	assert.Equal(t, "CH4", Formula([]int{6, 1, 1, 1, 1}))
	assert.Equal(t, "O2", Formula([]int{8, 8}))
	assert.Empty(t, Formula(nil))
}
