package optimizer

import (
	"math/big"

	"ashlar/internal/ast"
	"ashlar/internal/dialect"
)

// OptimizeConstants rewrites expensive number literals into cheaper computed
// forms for the bytecode interpreter backend, using the gas meter to decide
// when a computed form actually wins. Small literals are always left alone.
func OptimizeConstants(d *dialect.Dialect, meter dialect.GasMeter, block *ast.Block) {
	ast.MapExpressions(block, func(expr ast.Expression) ast.Expression {
		lit, ok := expr.(*ast.Literal)
		if !ok || lit.Kind != ast.NumberLiteral {
			return expr
		}
		value := literalValue(lit)
		if value == nil || value.BitLen() <= 64 {
			return expr
		}
		plainCost := meter.LiteralCost(lit.Value)
		if alt, cost := shiftedForm(meter, value); alt != nil && cost < plainCost {
			return alt
		}
		if alt, cost := complementForm(meter, value); alt != nil && cost < plainCost {
			return alt
		}
		return expr
	})
}

// shiftedForm represents value as shl(shift, base) when the value has a long
// run of trailing zero bits.
func shiftedForm(meter dialect.GasMeter, value *big.Int) (ast.Expression, uint64) {
	shift := trailingZeroBits(value)
	if shift < 8 {
		return nil, 0
	}
	base := new(big.Int).Rsh(value, shift)
	shiftLit := numberLiteral(big.NewInt(int64(shift)))
	baseLit := numberLiteral(base)
	cost := meter.BuiltinCost("shl") + meter.LiteralCost(shiftLit.Value) + meter.LiteralCost(baseLit.Value)
	return &ast.FunctionCall{
		FunctionName: "shl",
		Arguments:    []ast.Expression{shiftLit, baseLit},
	}, cost
}

// complementForm represents values close to 2**256-1 as not(small).
func complementForm(meter dialect.GasMeter, value *big.Int) (ast.Expression, uint64) {
	allOnes := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	complement := new(big.Int).Sub(allOnes, value)
	if complement.BitLen() > 32 {
		return nil, 0
	}
	inner := numberLiteral(complement)
	cost := meter.BuiltinCost("not") + meter.LiteralCost(inner.Value)
	return &ast.FunctionCall{
		FunctionName: "not",
		Arguments:    []ast.Expression{inner},
	}, cost
}

func trailingZeroBits(value *big.Int) uint {
	if value.Sign() == 0 {
		return 0
	}
	var n uint
	for value.Bit(int(n)) == 0 {
		n++
	}
	return n
}
