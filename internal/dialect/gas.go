package dialect

import "strings"

// GasMeter estimates execution cost for the bytecode interpreter backend.
// The constant optimizer uses it to pick the cheapest representation of
// large literals.
type GasMeter interface {
	// LiteralCost is the cost of pushing a literal with the given source
	// spelling onto the stack.
	LiteralCost(value string) uint64
	// BuiltinCost is the cost of executing a builtin once, excluding its
	// argument costs.
	BuiltinCost(name string) uint64
}

// EVMGasMeter is a GasMeter with the interpreter's standard cost schedule.
// Runs weights code-size cost against runtime cost the same way the code
// generator does: higher values favor smaller runtime cost over bytecode size.
type EVMGasMeter struct {
	Runs uint64
}

// NewEVMGasMeter returns a meter tuned for the expected number of contract
// executions.
func NewEVMGasMeter(runs uint64) *EVMGasMeter {
	return &EVMGasMeter{Runs: runs}
}

func (m *EVMGasMeter) LiteralCost(value string) uint64 {
	// A push costs 3 gas plus one byte of code per literal byte; the byte
	// count follows the minimal big-endian encoding of the value.
	bytes := literalByteSize(value)
	return 3*m.Runs + uint64(bytes)*200
}

func (m *EVMGasMeter) BuiltinCost(name string) uint64 {
	switch name {
	case "exp":
		return 10 * m.Runs
	case "keccak256":
		return 30 * m.Runs
	case "sload":
		return 2100 * m.Runs
	case "sstore":
		return 20000 * m.Runs
	default:
		return 3 * m.Runs
	}
}

func literalByteSize(value string) int {
	v := strings.TrimPrefix(value, "0x")
	if strings.HasPrefix(value, "0x") {
		// Two hex digits per byte, at least one byte.
		n := (len(v) + 1) / 2
		if n == 0 {
			n = 1
		}
		return n
	}
	// Decimal literals: rough size from digit count, one byte per 2.4 digits.
	n := (len(v)*5 + 11) / 12
	if n == 0 {
		n = 1
	}
	if n > 32 {
		n = 32
	}
	return n
}
