package ast

type NodeType string

const (
	NodeIdentifier            NodeType = "Identifier"
	NodeIntegerLiteral        NodeType = "IntegerLiteral"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeFunctionCall          NodeType = "FunctionCall"
	NodeBlockStatement        NodeType = "BlockStatement"
	NodeIfStatement           NodeType = "IfStatement"
	NodeReturnStatement       NodeType = "ReturnStatement"
	NodeDeclarationStatement  NodeType = "DeclarationStatement"
	NodeParameter             NodeType = "Parameter"
	NodeFunctionDefinition    NodeType = "FunctionDefinition"
	NodeProgram               NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}

// SetSpan attaches source coordinates supplied by the external parser.
func (n *nodeImpl) SetSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// CType names a declared integer type. The subset has exactly two: int is
// 32-bit signed, long is 64-bit signed.
type CType string

const (
	TypeInt  CType = "int"
	TypeLong CType = "long"
)

// StorageClass selects the lifetime of a declared binding.
type StorageClass string

const (
	StorageAutomatic StorageClass = "automatic"
	StorageStatic    StorageClass = "static"
)

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// IntegerLiteral carries the literal's numeric value. Untyped decimal
// literals take the first of int/long that can represent them, so the width
// is a property of the value, not of the spelling.
type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

// Expressions

type UnaryOperator string

const (
	UnaryOperatorNegate UnaryOperator = "-"
	UnaryOperatorNot    UnaryOperator = "!"
	UnaryOperatorBitNot UnaryOperator = "~"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// ConditionalExpression is the ternary `cond ? then : else`. Exactly one of
// the two branches is evaluated.
type ConditionalExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewConditionalExpression(condition, then, elseExpr Expression) *ConditionalExpression {
	return &ConditionalExpression{nodeImpl: newNodeImpl(NodeConditionalExpression), Condition: condition, Then: then, Else: elseExpr}
}

// AssignmentExpression writes to a named binding and yields the stored value.
// The subset has no lvalues other than identifiers.
type AssignmentExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target *Identifier `json:"target"`
	Value  Expression  `json:"value"`
}

func NewAssignmentExpression(target *Identifier, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Target: target, Value: value}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	if args == nil {
		args = make([]Expression, 0)
	}
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

// Statements

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

// IfStatement. Else is nil when absent; dangling-else binding is resolved by
// the parser at construction time, so Then/Else are plain statement subtrees.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, elseStmt Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseStmt}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

// DeclarationStatement introduces a binding. StaticSlot is the arena index of
// the declaration's persistent cell, assigned once at load time for static
// declarations; it is meaningless (and left at -1) for automatic ones.
type DeclarationStatement struct {
	nodeImpl
	statementMarker

	Name       *Identifier  `json:"name"`
	DeclType   CType        `json:"declType"`
	Storage    StorageClass `json:"storage"`
	Init       Expression   `json:"init,omitempty"`
	StaticSlot int          `json:"-"`
}

func NewDeclarationStatement(name *Identifier, declType CType, storage StorageClass, init Expression) *DeclarationStatement {
	return &DeclarationStatement{
		nodeImpl:   newNodeImpl(NodeDeclarationStatement),
		Name:       name,
		DeclType:   declType,
		Storage:    storage,
		Init:       init,
		StaticSlot: -1,
	}
}

// Definitions

type Parameter struct {
	nodeImpl

	ParamType CType       `json:"paramType"`
	Name      *Identifier `json:"name"`
}

func NewParameter(paramType CType, name *Identifier) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), ParamType: paramType, Name: name}
}

type FunctionDefinition struct {
	nodeImpl

	ReturnType CType           `json:"returnType"`
	ID         *Identifier     `json:"id"`
	Params     []*Parameter    `json:"params"`
	Body       *BlockStatement `json:"body"`
}

func NewFunctionDefinition(returnType CType, id *Identifier, params []*Parameter, body *BlockStatement) *FunctionDefinition {
	if params == nil {
		params = make([]*Parameter, 0)
	}
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ReturnType: returnType, ID: id, Params: params, Body: body}
}

// Program is an ordered sequence of function definitions, immutable once
// loaded.
type Program struct {
	nodeImpl

	Functions []*FunctionDefinition `json:"functions"`
}

func NewProgram(functions []*FunctionDefinition) *Program {
	if functions == nil {
		functions = make([]*FunctionDefinition, 0)
	}
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Functions: functions}
}

// Function returns the definition with the given name, if present.
func (p *Program) Function(name string) (*FunctionDefinition, bool) {
	if p == nil {
		return nil, false
	}
	for _, fn := range p.Functions {
		if fn != nil && fn.ID != nil && fn.ID.Name == name {
			return fn, true
		}
	}
	return nil, false
}
