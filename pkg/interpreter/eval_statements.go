package interpreter

import (
	"fmt"

	"bcc/interpreter-go/pkg/ast"
	"bcc/interpreter-go/pkg/runtime"
)

// execState is the statement executor's control signal. Running is the zero
// value; a `return` transitions to returned and every enclosing statement
// sequence stops immediately and hands the state upward until the call
// engine consumes it. Return is modeled as this explicit terminal state, not
// as an unwinding mechanism.
type execState struct {
	returned bool
	value    runtime.IntegerValue
}

var running = execState{}

func returned(value runtime.IntegerValue) execState {
	return execState{returned: true, value: value}
}

func (i *Interpreter) executeBlock(block *ast.BlockStatement, env *runtime.Environment) (execState, error) {
	if block == nil {
		return running, nil
	}
	scope := env.Extend()
	return i.executeStatements(block.Body, scope)
}

func (i *Interpreter) executeStatements(statements []ast.Statement, env *runtime.Environment) (execState, error) {
	for _, stmt := range statements {
		state, err := i.executeStatement(stmt, env)
		if err != nil {
			return running, err
		}
		if state.returned {
			return state, nil
		}
	}
	return running, nil
}

func (i *Interpreter) executeStatement(stmt ast.Statement, env *runtime.Environment) (execState, error) {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return i.executeReturnStatement(s, env)
	case *ast.IfStatement:
		return i.executeIfStatement(s, env)
	case *ast.DeclarationStatement:
		return i.executeDeclarationStatement(s, env)
	case *ast.BlockStatement:
		return i.executeBlock(s, env)
	case ast.Expression:
		if _, err := i.evaluateExpression(s, env); err != nil {
			return running, err
		}
		return running, nil
	default:
		return running, fmt.Errorf("interpreter: unsupported statement type %s", stmt.NodeType())
	}
}

func (i *Interpreter) executeReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) (execState, error) {
	if stmt.Value == nil {
		return returned(runtime.NewInt32(0)), nil
	}
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return running, err
	}
	return returned(value), nil
}

func (i *Interpreter) executeIfStatement(stmt *ast.IfStatement, env *runtime.Environment) (execState, error) {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return running, err
	}
	if cond.Truthy() {
		return i.executeStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.executeStatement(stmt.Else, env)
	}
	return running, nil
}

// executeDeclarationStatement allocates storage per the declaration's
// storage class. An automatic cell is created fresh on every execution; a
// static cell is bound to its arena slot and its initializer runs only the
// first time the declaration statement ever executes.
func (i *Interpreter) executeDeclarationStatement(stmt *ast.DeclarationStatement, env *runtime.Environment) (execState, error) {
	width := runtime.WidthOf(stmt.DeclType)
	switch stmt.Storage {
	case ast.StorageStatic:
		cell, first := i.statics.Bind(stmt.StaticSlot, width)
		if first && stmt.Init != nil {
			value, err := i.evaluateExpression(stmt.Init, env)
			if err != nil {
				return running, err
			}
			cell.Store(value)
		}
		env.Declare(stmt.Name.Name, cell)
	case ast.StorageAutomatic:
		cell := runtime.NewCell(width)
		if stmt.Init != nil {
			value, err := i.evaluateExpression(stmt.Init, env)
			if err != nil {
				return running, err
			}
			cell.Store(value)
		}
		env.Declare(stmt.Name.Name, cell)
	default:
		return running, fmt.Errorf("interpreter: unsupported storage class %q", stmt.Storage)
	}
	return running, nil
}
