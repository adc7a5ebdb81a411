package interpreter

import (
	"fmt"
	"math"

	"bcc/interpreter-go/pkg/ast"
	"bcc/interpreter-go/pkg/runtime"
)

// evaluateExpression computes an expression to a width-tagged integer value.
// The only side effects flow through assignment sub-expressions and the
// storage cells they write.
func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.IntegerValue, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return literalValue(n.Value), nil
	case *ast.Identifier:
		cell, err := env.Lookup(n.Name)
		if err != nil {
			return runtime.IntegerValue{}, err
		}
		return cell.Load(), nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		left, err := i.evaluateExpression(n.Left, env)
		if err != nil {
			return runtime.IntegerValue{}, err
		}
		right, err := i.evaluateExpression(n.Right, env)
		if err != nil {
			return runtime.IntegerValue{}, err
		}
		return applyBinaryOperator(n.Operator, left, right)
	case *ast.ConditionalExpression:
		return i.evaluateConditionalExpression(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported expression type %s", node.NodeType())
	}
}

// literalValue applies the decimal-literal width rule: the literal takes the
// first of int/long able to represent it, so 4294967296 is a 64-bit value
// before any arithmetic happens.
func literalValue(value int64) runtime.IntegerValue {
	if value >= math.MinInt32 && value <= math.MaxInt32 {
		return runtime.NewInt32(value)
	}
	return runtime.NewInt64(value)
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.IntegerValue, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return runtime.IntegerValue{}, err
	}
	switch expr.Operator {
	case ast.UnaryOperatorNegate:
		return runtime.NewInteger(operand.W, -operand.Bits), nil
	case ast.UnaryOperatorNot:
		// Logical not produces an int 0 or 1 regardless of operand width.
		if operand.Truthy() {
			return runtime.NewInt32(0), nil
		}
		return runtime.NewInt32(1), nil
	case ast.UnaryOperatorBitNot:
		return runtime.NewInteger(operand.W, ^operand.Bits), nil
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported unary operator %s", expr.Operator)
	}
}

// evaluateConditionalExpression evaluates exactly one branch: the untaken
// side must not run, so its side effects never happen.
func (i *Interpreter) evaluateConditionalExpression(expr *ast.ConditionalExpression, env *runtime.Environment) (runtime.IntegerValue, error) {
	cond, err := i.evaluateExpression(expr.Condition, env)
	if err != nil {
		return runtime.IntegerValue{}, err
	}
	if cond.Truthy() {
		return i.evaluateExpression(expr.Then, env)
	}
	return i.evaluateExpression(expr.Else, env)
}

// evaluateAssignment writes through the target's storage cell and yields the
// stored value, which reflects any truncation the target's declared type
// imposed.
func (i *Interpreter) evaluateAssignment(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.IntegerValue, error) {
	if expr.Target == nil {
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: assignment requires identifier target")
	}
	value, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return runtime.IntegerValue{}, err
	}
	cell, err := env.Lookup(expr.Target.Name)
	if err != nil {
		return runtime.IntegerValue{}, err
	}
	return cell.Store(value), nil
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.IntegerValue, error) {
	if call.Callee == nil {
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: call requires function name")
	}
	fn, ok := i.functions[call.Callee.Name]
	if !ok {
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: undefined function '%s'", call.Callee.Name)
	}
	args := make([]runtime.IntegerValue, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return runtime.IntegerValue{}, err
		}
		args = append(args, val)
	}
	return i.invokeFunction(fn, args)
}
