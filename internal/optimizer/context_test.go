package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameDispenserReturnsFreePrefix(t *testing.T) {
	d := NewNameDispenser(nil, map[string]bool{})
	assert.Equal(t, "tmp", d.NewName("tmp"))
	assert.Equal(t, "tmp_1", d.NewName("tmp"))
	assert.Equal(t, "tmp_2", d.NewName("tmp"))
}

func TestNameDispenserStripsNumericSuffix(t *testing.T) {
	d := NewNameDispenser(nil, map[string]bool{})
	assert.Equal(t, "x", d.NewName("x_7"))
	assert.Equal(t, "x_1", d.NewName("x_7"))
}

func TestNameDispenserKeepsNonNumericSuffix(t *testing.T) {
	d := NewNameDispenser(nil, map[string]bool{})
	assert.Equal(t, "x_a", d.NewName("x_a"))
}

func TestNameDispenserAvoidsReserved(t *testing.T) {
	d := NewNameDispenser(nil, map[string]bool{"out": true})
	assert.Equal(t, "out_1", d.NewName("out"))
}

func TestNameDispenserSeededFromBlock(t *testing.T) {
	block := parseBlock(t, `{
		let x := 1
		sstore(0, y)
	}`)
	d := NewNameDispenser(block, map[string]bool{})
	assert.True(t, d.Used("x"))
	assert.True(t, d.Used("y"))
	assert.True(t, d.Used("sstore"))
	assert.Equal(t, "x_1", d.NewName("x"))
}

func TestNameDispenserMarkUsed(t *testing.T) {
	d := NewNameDispenser(nil, map[string]bool{})
	assert.False(t, d.Used("q"))
	d.MarkUsed("q")
	assert.True(t, d.Used("q"))
	assert.Equal(t, "q_1", d.NewName("q"))
}
