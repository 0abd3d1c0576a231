package optimizer

import "ashlar/internal/ast"

// Step is the contract every optimization step implements: a stable unique
// name, a unique one-character abbreviation for the sequence mini-language,
// and an operation that mutates a block in place. Steps must be
// side-effect-free beyond the block and context they are given.
type Step interface {
	Name() string
	Abbreviation() byte
	Run(ctx *Context, block *ast.Block)
}
