package interpreter

import (
	"testing"

	"bcc/interpreter-go/pkg/ast"
	"bcc/interpreter-go/pkg/runtime"
)

func callMain(t *testing.T, program *ast.Program) runtime.IntegerValue {
	t.Helper()
	interp := newTestInterpreter(t, program)
	val, err := interp.Call("main", nil)
	if err != nil {
		t.Fatalf("Call(main): %v", err)
	}
	return val
}

func TestReturnStopsExecution(t *testing.T) {
	// The statement after the return assigns an undeclared name, so reaching
	// it would turn into an error instead of a silent pass.
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Ret(ast.Int(7)),
			ast.Assign("ghost", ast.Int(1)),
		),
	))
	if val != runtime.NewInt32(7) {
		t.Fatalf("main = %+v", val)
	}
}

func TestReturnPropagatesThroughNestedBlocks(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Block(
				ast.Block(
					ast.Ret(ast.Int(3)),
				),
				ast.Assign("ghost", ast.Int(1)),
			),
			ast.Assign("ghost", ast.Int(1)),
		),
	))
	if val != runtime.NewInt32(3) {
		t.Fatalf("main = %+v", val)
	}
}

func TestBareReturnYieldsZero(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil, ast.Ret(nil)),
	))
	if val != runtime.NewInt32(0) {
		t.Fatalf("bare return = %+v", val)
	}
}

func TestBodyExhaustedReturnsDeclaredZero(t *testing.T) {
	interp := newTestInterpreter(t, ast.Prog(
		ast.Fn(ast.TypeInt, "narrow", nil),
		ast.Fn(ast.TypeLong, "wide", nil),
	))
	val, err := interp.Call("narrow", nil)
	if err != nil || val != runtime.NewInt32(0) {
		t.Fatalf("narrow = %+v, %v", val, err)
	}
	val, err = interp.Call("wide", nil)
	if err != nil || val != runtime.NewInt64(0) {
		t.Fatalf("wide = %+v, %v", val, err)
	}
}

func TestIfStatementBranching(t *testing.T) {
	cases := []struct {
		name string
		cond ast.Expression
		want int64
	}{
		{"true branch", ast.Int(1), 1},
		{"false branch", ast.Int(0), 2},
		{"wide condition is truthy", ast.Int(1 << 40), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			val := callMain(t, ast.Prog(
				ast.Fn(ast.TypeInt, "main", nil,
					ast.IfElse(tc.cond,
						ast.Ret(ast.Int(1)),
						ast.Ret(ast.Int(2)),
					),
				),
			))
			if val.Bits != tc.want {
				t.Fatalf("main = %+v, want %d", val, tc.want)
			}
		})
	}
}

func TestIfWithoutElseFallsThrough(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.If(ast.Int(0), ast.Ret(ast.Int(1))),
			ast.Ret(ast.Int(2)),
		),
	))
	if val != runtime.NewInt32(2) {
		t.Fatalf("main = %+v", val)
	}
}

func TestDeclarationInitializes(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Decl(ast.TypeInt, "x", ast.Int(41)),
			ast.Assign("x", ast.Bin("+", ast.ID("x"), ast.Int(1))),
			ast.Ret(ast.ID("x")),
		),
	))
	if val != runtime.NewInt32(42) {
		t.Fatalf("main = %+v", val)
	}
}

func TestDeclarationWithoutInitializerIsZero(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeLong, "main", nil,
			ast.Decl(ast.TypeLong, "x", nil),
			ast.Ret(ast.ID("x")),
		),
	))
	if val != runtime.NewInt64(0) {
		t.Fatalf("main = %+v", val)
	}
}

func TestLongDeclarationKeepsMagnitude(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeLong, "main", nil,
			ast.Decl(ast.TypeLong, "x", ast.Bin("+", ast.Int(1<<32), ast.Int(10))),
			ast.Ret(ast.ID("x")),
		),
	))
	if val != runtime.NewInt64((1<<32)+10) {
		t.Fatalf("main = %+v, want 2^32+10", val)
	}
}

func TestIntDeclarationTruncates(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Decl(ast.TypeInt, "x", ast.Bin("+", ast.Int(1<<32), ast.Int(10))),
			ast.Ret(ast.ID("x")),
		),
	))
	if val != runtime.NewInt32(10) {
		t.Fatalf("main = %+v, want truncated 10", val)
	}
}

func TestBlockScopeShadowing(t *testing.T) {
	// The inner declaration shadows; the outer cell keeps its value once the
	// block ends.
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Decl(ast.TypeInt, "x", ast.Int(1)),
			ast.Block(
				ast.Decl(ast.TypeInt, "x", ast.Int(100)),
				ast.Assign("x", ast.Int(200)),
			),
			ast.Ret(ast.ID("x")),
		),
	))
	if val != runtime.NewInt32(1) {
		t.Fatalf("main = %+v, inner scope leaked", val)
	}
}

func TestInnerScopeWritesThroughToOuterCell(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Decl(ast.TypeInt, "x", ast.Int(1)),
			ast.Block(
				ast.Assign("x", ast.Int(5)),
			),
			ast.Ret(ast.ID("x")),
		),
	))
	if val != runtime.NewInt32(5) {
		t.Fatalf("main = %+v, want write-through 5", val)
	}
}

func TestExpressionStatementSideEffects(t *testing.T) {
	val := callMain(t, ast.Prog(
		ast.Fn(ast.TypeInt, "main", nil,
			ast.Decl(ast.TypeInt, "ret", ast.Int(0)),
			ast.If(ast.Int(1), ast.Assign("ret", ast.Bin("+", ast.ID("ret"), ast.Int(1)))),
			ast.If(ast.Int(0), ast.Assign("ret", ast.Int(100))),
			ast.Assign("ret", ast.Cond(ast.Int(1), ast.Bin("+", ast.ID("ret"), ast.Int(1)), ast.Int(0))),
			ast.Ret(ast.ID("ret")),
		),
	))
	if val != runtime.NewInt32(2) {
		t.Fatalf("main = %+v", val)
	}
}
