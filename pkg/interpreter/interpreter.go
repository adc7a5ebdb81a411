package interpreter

import (
	"fmt"

	"bcc/interpreter-go/pkg/ast"
	"bcc/interpreter-go/pkg/runtime"
)

// Interpreter evaluates a loaded C-subset program. Each instance owns its
// static storage, so concurrent callers must each construct their own
// interpreter; a single instance is strictly single-threaded.
type Interpreter struct {
	program   *ast.Program
	functions map[string]*runtime.FunctionValue
	statics   *runtime.StaticStore
}

// New binds a program for evaluation. Static declaration sites are numbered
// here, at load time, so static-cell identity is an arena slot index rather
// than anything name-based.
func New(program *ast.Program) (*Interpreter, error) {
	if program == nil {
		return nil, fmt.Errorf("interpreter: nil program")
	}
	functions := make(map[string]*runtime.FunctionValue, len(program.Functions))
	for _, fn := range program.Functions {
		if fn == nil || fn.ID == nil || fn.ID.Name == "" {
			return nil, fmt.Errorf("interpreter: function definition requires identifier")
		}
		if _, exists := functions[fn.ID.Name]; exists {
			return nil, fmt.Errorf("interpreter: duplicate function '%s'", fn.ID.Name)
		}
		functions[fn.ID.Name] = &runtime.FunctionValue{Declaration: fn}
	}
	slotCount := assignStaticSlots(program)
	return &Interpreter{
		program:   program,
		functions: functions,
		statics:   runtime.NewStaticStore(slotCount),
	}, nil
}

// Program exposes the bound program.
func (i *Interpreter) Program() *ast.Program {
	return i.program
}

// Statics exposes the static arena for inspection in tests.
func (i *Interpreter) Statics() *runtime.StaticStore {
	return i.statics
}

// assignStaticSlots walks every function body in program order and gives
// each static declaration site a stable arena index. Automatic declarations
// keep the -1 sentinel.
func assignStaticSlots(program *ast.Program) int {
	next := 0
	for _, fn := range program.Functions {
		if fn == nil || fn.Body == nil {
			continue
		}
		numberStaticsInStatements(fn.Body.Body, &next)
	}
	return next
}

func numberStaticsInStatements(statements []ast.Statement, next *int) {
	for _, stmt := range statements {
		numberStaticsInStatement(stmt, next)
	}
}

func numberStaticsInStatement(stmt ast.Statement, next *int) {
	switch s := stmt.(type) {
	case *ast.DeclarationStatement:
		if s.Storage == ast.StorageStatic {
			s.StaticSlot = *next
			*next++
		}
	case *ast.BlockStatement:
		numberStaticsInStatements(s.Body, next)
	case *ast.IfStatement:
		numberStaticsInStatement(s.Then, next)
		if s.Else != nil {
			numberStaticsInStatement(s.Else, next)
		}
	}
}

// Call invokes a function by name: a fresh activation record is created,
// arguments are bound to parameters in order, and the body runs until it
// returns or is exhausted. A body that falls off the end yields zero of the
// function's declared width.
func (i *Interpreter) Call(name string, args []runtime.IntegerValue) (runtime.IntegerValue, error) {
	fn, ok := i.functions[name]
	if !ok {
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: undefined function '%s'", name)
	}
	return i.invokeFunction(fn, args)
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.IntegerValue) (runtime.IntegerValue, error) {
	decl := fn.Declaration
	if len(args) != len(decl.Params) {
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: function '%s' expects %d arguments, got %d",
			decl.ID.Name, len(decl.Params), len(args))
	}
	frame := runtime.NewEnvironment(nil)
	for idx, param := range decl.Params {
		if param == nil || param.Name == nil {
			return runtime.IntegerValue{}, fmt.Errorf("interpreter: function '%s' parameter %d is malformed", decl.ID.Name, idx)
		}
		cell := runtime.NewCell(runtime.WidthOf(param.ParamType))
		cell.Store(args[idx])
		frame.Declare(param.Name.Name, cell)
	}
	state, err := i.executeBlock(decl.Body, frame)
	if err != nil {
		return runtime.IntegerValue{}, err
	}
	if state.returned {
		return state.value, nil
	}
	return runtime.NewInteger(fn.ReturnWidth(), 0), nil
}

// Run evaluates the designated entry function with no arguments and converts
// its result to a process exit code (the low byte of the returned value).
func (i *Interpreter) Run(entry string) (int, error) {
	if entry == "" {
		entry = "main"
	}
	result, err := i.Call(entry, nil)
	if err != nil {
		return 0, err
	}
	return ExitCode(result), nil
}

// ExitCode converts a returned value to the externally observable process
// exit code.
func ExitCode(v runtime.IntegerValue) int {
	return int(v.Bits & 0xff)
}
