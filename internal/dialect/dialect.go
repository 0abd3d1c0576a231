// Package dialect describes the execution backends the optimizer can target.
// The optimizer never inspects a dialect's concrete type; it branches on the
// Backend tag only.
package dialect

// Backend identifies the execution backend a dialect compiles for.
type Backend int

const (
	// BackendEVM is the stack-based bytecode interpreter backend.
	BackendEVM Backend = iota
	// BackendWasm is the WebAssembly-like backend.
	BackendWasm
)

func (b Backend) String() string {
	switch b {
	case BackendEVM:
		return "evm"
	case BackendWasm:
		return "wasm"
	default:
		return "unknown"
	}
}

// BuiltinFunction describes one function built into a dialect.
type BuiltinFunction struct {
	Name       string
	Parameters int
	Returns    int
	// SideEffects marks builtins with effects beyond their return value
	// (storage writes, memory writes, control effects). Calls to them must
	// never be deleted or reordered.
	SideEffects bool
	// Movable builtins depend only on their arguments and can be freely
	// deduplicated and hoisted.
	Movable bool
	// Terminating builtins never return control to the caller.
	Terminating bool
}

// Dialect is the backend descriptor threaded through every optimization run.
type Dialect struct {
	Backend  Backend
	builtins map[string]BuiltinFunction
	fixed    []string
}

// Builtin looks up a builtin function by name.
func (d *Dialect) Builtin(name string) (BuiltinFunction, bool) {
	fn, ok := d.builtins[name]
	return fn, ok
}

// FixedFunctionNames returns the names the backend pins; no optimization step
// may rename or remove them.
func (d *Dialect) FixedFunctionNames() []string {
	return d.fixed
}

func pureBuiltin(name string, params int) BuiltinFunction {
	return BuiltinFunction{Name: name, Parameters: params, Returns: 1, Movable: true}
}

func effectBuiltin(name string, params, returns int) BuiltinFunction {
	return BuiltinFunction{Name: name, Parameters: params, Returns: returns, SideEffects: true}
}

func terminatingBuiltin(name string, params int) BuiltinFunction {
	return BuiltinFunction{Name: name, Parameters: params, SideEffects: true, Terminating: true}
}

func buildTable(fns []BuiltinFunction) map[string]BuiltinFunction {
	table := make(map[string]BuiltinFunction, len(fns))
	for _, fn := range fns {
		table[fn.Name] = fn
	}
	return table
}

var commonBuiltins = []BuiltinFunction{
	pureBuiltin("add", 2),
	pureBuiltin("sub", 2),
	pureBuiltin("mul", 2),
	pureBuiltin("div", 2),
	pureBuiltin("mod", 2),
	pureBuiltin("exp", 2),
	pureBuiltin("lt", 2),
	pureBuiltin("gt", 2),
	pureBuiltin("eq", 2),
	pureBuiltin("iszero", 1),
	pureBuiltin("and", 2),
	pureBuiltin("or", 2),
	pureBuiltin("xor", 2),
	pureBuiltin("not", 1),
	pureBuiltin("shl", 2),
	pureBuiltin("shr", 2),
}

// EVM returns the dialect of the stack-based bytecode interpreter backend.
func EVM() *Dialect {
	fns := append([]BuiltinFunction{}, commonBuiltins...)
	fns = append(fns,
		pureBuiltin("caller", 0),
		pureBuiltin("callvalue", 0),
		BuiltinFunction{Name: "mload", Parameters: 1, Returns: 1},
		BuiltinFunction{Name: "sload", Parameters: 1, Returns: 1},
		BuiltinFunction{Name: "keccak256", Parameters: 2, Returns: 1},
		effectBuiltin("mstore", 2, 0),
		effectBuiltin("sstore", 2, 0),
		effectBuiltin("log1", 3, 0),
		terminatingBuiltin("revert", 2),
		terminatingBuiltin("return", 2),
		terminatingBuiltin("stop", 0),
		terminatingBuiltin("invalid", 0),
	)
	return &Dialect{
		Backend:  BackendEVM,
		builtins: buildTable(fns),
		fixed:    []string{"datasize", "dataoffset", "datacopy"},
	}
}

// Wasm returns the dialect of the WebAssembly-like backend.
func Wasm() *Dialect {
	fns := append([]BuiltinFunction{}, commonBuiltins...)
	fns = append(fns,
		BuiltinFunction{Name: "i64.load", Parameters: 1, Returns: 1},
		effectBuiltin("i64.store", 2, 0),
		terminatingBuiltin("unreachable", 0),
	)
	return &Dialect{
		Backend:  BackendWasm,
		builtins: buildTable(fns),
		fixed:    []string{"main"},
	}
}
