package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"bcc/interpreter-go/pkg/ast"
)

// LoadProgram reads the JSON interchange form of a parsed program — the
// hand-off format the external parser produces — and rebuilds the AST.
func LoadProgram(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return DecodeProgram(data)
}

// DecodeProgram decodes a JSON-encoded program tree.
func DecodeProgram(data []byte) (*ast.Program, error) {
	var root map[string]any
	if err := unmarshalStrictNumbers(data, &root); err != nil {
		return nil, fmt.Errorf("loader: parse program: %w", err)
	}
	return decodeProgram(root)
}

func unmarshalStrictNumbers(data []byte, out *map[string]any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(out)
}

func decodeProgram(node map[string]any) (*ast.Program, error) {
	if typ, _ := node["type"].(string); typ != string(ast.NodeProgram) {
		return nil, fmt.Errorf("loader: expected Program root, found %q", node["type"])
	}
	rawFunctions, _ := node["functions"].([]any)
	functions := make([]*ast.FunctionDefinition, 0, len(rawFunctions))
	for idx, raw := range rawFunctions {
		fnNode, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("loader: functions[%d] is not an object", idx)
		}
		fn, err := decodeFunctionDefinition(fnNode)
		if err != nil {
			return nil, fmt.Errorf("loader: functions[%d]: %w", idx, err)
		}
		functions = append(functions, fn)
	}
	return ast.NewProgram(functions), nil
}

func decodeFunctionDefinition(node map[string]any) (*ast.FunctionDefinition, error) {
	if typ, _ := node["type"].(string); typ != string(ast.NodeFunctionDefinition) {
		return nil, fmt.Errorf("expected FunctionDefinition, found %q", node["type"])
	}
	id, err := decodeIdentifier(node["id"])
	if err != nil {
		return nil, err
	}
	returnType, err := decodeCType(node["returnType"])
	if err != nil {
		return nil, err
	}
	rawParams, _ := node["params"].([]any)
	params := make([]*ast.Parameter, 0, len(rawParams))
	for idx, raw := range rawParams {
		paramNode, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("params[%d] is not an object", idx)
		}
		paramType, err := decodeCType(paramNode["paramType"])
		if err != nil {
			return nil, fmt.Errorf("params[%d]: %w", idx, err)
		}
		paramID, err := decodeIdentifier(paramNode["name"])
		if err != nil {
			return nil, fmt.Errorf("params[%d]: %w", idx, err)
		}
		params = append(params, ast.NewParameter(paramType, paramID))
	}
	body, err := decodeBlockStatement(node["body"])
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(returnType, id, params, body), nil
}

func decodeStatement(raw any) (ast.Statement, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("statement is not an object")
	}
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeBlockStatement:
		return decodeBlockStatement(raw)
	case ast.NodeIfStatement:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		then, err := decodeStatement(node["then"])
		if err != nil {
			return nil, err
		}
		var elseStmt ast.Statement
		if node["else"] != nil {
			elseStmt, err = decodeStatement(node["else"])
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIfStatement(condition, then, elseStmt), nil
	case ast.NodeReturnStatement:
		var value ast.Expression
		if node["value"] != nil {
			decoded, err := decodeExpression(node["value"])
			if err != nil {
				return nil, err
			}
			value = decoded
		}
		return ast.NewReturnStatement(value), nil
	case ast.NodeDeclarationStatement:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		declType, err := decodeCType(node["declType"])
		if err != nil {
			return nil, err
		}
		storage := ast.StorageAutomatic
		if rawStorage, _ := node["storage"].(string); rawStorage != "" {
			storage = ast.StorageClass(rawStorage)
			if storage != ast.StorageAutomatic && storage != ast.StorageStatic {
				return nil, fmt.Errorf("unknown storage class %q", rawStorage)
			}
		}
		var init ast.Expression
		if node["init"] != nil {
			decoded, err := decodeExpression(node["init"])
			if err != nil {
				return nil, err
			}
			init = decoded
		}
		return ast.NewDeclarationStatement(name, declType, storage, init), nil
	default:
		// Anything else must be a bare expression statement.
		expr, err := decodeExpression(raw)
		if err != nil {
			return nil, err
		}
		return expr, nil
	}
}

func decodeBlockStatement(raw any) (*ast.BlockStatement, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("block is not an object")
	}
	if typ, _ := node["type"].(string); typ != string(ast.NodeBlockStatement) {
		return nil, fmt.Errorf("expected BlockStatement, found %q", node["type"])
	}
	rawBody, _ := node["body"].([]any)
	body := make([]ast.Statement, 0, len(rawBody))
	for idx, rawStmt := range rawBody {
		stmt, err := decodeStatement(rawStmt)
		if err != nil {
			return nil, fmt.Errorf("body[%d]: %w", idx, err)
		}
		body = append(body, stmt)
	}
	return ast.NewBlockStatement(body), nil
}

func decodeExpression(raw any) (ast.Expression, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expression is not an object")
	}
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeIntegerLiteral:
		value, err := decodeInt64(node["value"])
		if err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(value), nil
	case ast.NodeIdentifier:
		return decodeIdentifier(raw)
	case ast.NodeUnaryExpression:
		operator, _ := node["operator"].(string)
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(ast.UnaryOperator(operator), operand), nil
	case ast.NodeBinaryExpression:
		operator, _ := node["operator"].(string)
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(operator, left, right), nil
	case ast.NodeConditionalExpression:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		then, err := decodeExpression(node["then"])
		if err != nil {
			return nil, err
		}
		elseExpr, err := decodeExpression(node["else"])
		if err != nil {
			return nil, err
		}
		return ast.NewConditionalExpression(condition, then, elseExpr), nil
	case ast.NodeAssignmentExpression:
		target, err := decodeIdentifier(node["target"])
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		return ast.NewAssignmentExpression(target, value), nil
	case ast.NodeFunctionCall:
		callee, err := decodeIdentifier(node["callee"])
		if err != nil {
			return nil, err
		}
		rawArgs, _ := node["arguments"].([]any)
		args := make([]ast.Expression, 0, len(rawArgs))
		for idx, rawArg := range rawArgs {
			arg, err := decodeExpression(rawArg)
			if err != nil {
				return nil, fmt.Errorf("arguments[%d]: %w", idx, err)
			}
			args = append(args, arg)
		}
		return ast.NewFunctionCall(callee, args), nil
	default:
		return nil, fmt.Errorf("unsupported expression type %q", typ)
	}
}

func decodeIdentifier(raw any) (*ast.Identifier, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("identifier is not an object")
	}
	if typ, _ := node["type"].(string); typ != string(ast.NodeIdentifier) {
		return nil, fmt.Errorf("expected Identifier, found %q", node["type"])
	}
	name, _ := node["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("identifier requires a name")
	}
	return ast.NewIdentifier(name), nil
}

func decodeCType(raw any) (ast.CType, error) {
	name, _ := raw.(string)
	switch ast.CType(name) {
	case ast.TypeInt, ast.TypeLong:
		return ast.CType(name), nil
	default:
		return "", fmt.Errorf("unknown type %q", name)
	}
}

// decodeInt64 normalizes JSON numbers to int64 without a float64 round trip,
// so 64-bit literals survive exactly.
func decodeInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Int64()
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return json.Number(v).Int64()
	default:
		return 0, fmt.Errorf("integer literal has unsupported value %T", raw)
	}
}
