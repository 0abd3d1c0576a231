package optimizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pressureSource builds a block with n top-level declarations, each stored
// once so every variable is live.
func pressureSource(n int, value func(i int) string) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "let v%d := %s\n", i, value(i))
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "sstore(%d, v%d)\n", i, i)
	}
	b.WriteString("}")
	return b.String()
}

func TestStackCompressorAcceptsFittingCode(t *testing.T) {
	src := `{
		let a := 1
		let b := 2
		sstore(a, b)
	}`
	block := parseBlock(t, src)
	object := &Object{Code: block}
	ok := RunStackCompressor(evmContext(block), object, true, StackCompressorMaxRounds)
	assert.True(t, ok)
	assertTree(t, src, block)
}

func TestStackCompressorRematerializesLiteralPressure(t *testing.T) {
	src := pressureSource(18, func(i int) string { return fmt.Sprintf("%d", i) })
	block := parseBlock(t, src)
	object := &Object{Code: block}
	ok := RunStackCompressor(evmContext(block), object, true, StackCompressorMaxRounds)
	assert.True(t, ok)

	var expected strings.Builder
	expected.WriteString("{\n")
	for i := 0; i < 18; i++ {
		fmt.Fprintf(&expected, "sstore(%d, %d)\n", i, i)
	}
	expected.WriteString("}")
	assertTree(t, expected.String(), block)
}

func TestStackCompressorReportsIrreduciblePressure(t *testing.T) {
	src := pressureSource(18, func(i int) string { return fmt.Sprintf("mload(%d)", i) })
	block := parseBlock(t, src)
	object := &Object{Code: block}
	ok := RunStackCompressor(evmContext(block), object, true, StackCompressorMaxRounds)
	assert.False(t, ok)
	assertTree(t, src, block)
}

func TestStackCompressorHonorsRoundBound(t *testing.T) {
	src := pressureSource(18, func(i int) string { return fmt.Sprintf("%d", i) })
	block := parseBlock(t, src)
	object := &Object{Code: block}
	ok := RunStackCompressor(evmContext(block), object, true, 0)
	assert.False(t, ok)
	assertTree(t, src, block)
}

func TestStackCompressorCountsFunctionScopes(t *testing.T) {
	var b strings.Builder
	b.WriteString("{\nfunction wide() -> r {\n")
	for i := 0; i < 17; i++ {
		fmt.Fprintf(&b, "let w%d := mload(%d)\n", i, i)
	}
	for i := 0; i < 17; i++ {
		fmt.Fprintf(&b, "r := add(r, w%d)\n", i)
	}
	b.WriteString("}\nsstore(0, wide())\n}")
	src := b.String()
	block := parseBlock(t, src)
	object := &Object{Code: block}
	ok := RunStackCompressor(evmContext(block), object, true, StackCompressorMaxRounds)
	assert.False(t, ok)
}
