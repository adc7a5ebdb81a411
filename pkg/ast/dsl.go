package ast

// Construction helpers used by tests and by the fixture decoder. They keep
// hand-built trees close to the shape of the original source.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Un(operator UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Cond(condition, then, elseExpr Expression) *ConditionalExpression {
	return NewConditionalExpression(condition, then, elseExpr)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(ID(name), value)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

func Block(statements ...Statement) *BlockStatement {
	return NewBlockStatement(statements)
}

func If(condition Expression, then Statement) *IfStatement {
	return NewIfStatement(condition, then, nil)
}

func IfElse(condition Expression, then, elseStmt Statement) *IfStatement {
	return NewIfStatement(condition, then, elseStmt)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func Decl(declType CType, name string, init Expression) *DeclarationStatement {
	return NewDeclarationStatement(ID(name), declType, StorageAutomatic, init)
}

func StaticDecl(declType CType, name string, init Expression) *DeclarationStatement {
	return NewDeclarationStatement(ID(name), declType, StorageStatic, init)
}

func Param(paramType CType, name string) *Parameter {
	return NewParameter(paramType, ID(name))
}

func Fn(returnType CType, name string, params []*Parameter, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(returnType, ID(name), params, Block(body...))
}

func Prog(functions ...*FunctionDefinition) *Program {
	return NewProgram(functions)
}
