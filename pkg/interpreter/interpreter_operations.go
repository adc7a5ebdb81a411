package interpreter

import (
	"fmt"

	"bcc/interpreter-go/pkg/runtime"
)

// applyBinaryOperator implements the value model's width and wraparound
// rules: the narrower operand is sign-extended to the wider width before the
// operation, 32-bit results wrap modulo 2^32 and 64-bit results modulo 2^64,
// and relational/equality operators always produce an int 0 or 1.
func applyBinaryOperator(op string, left, right runtime.IntegerValue) (runtime.IntegerValue, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return evaluateArithmetic(op, left, right)
	case "&", "|", "^":
		return evaluateBitwise(op, left, right)
	case "<<", ">>":
		return evaluateShift(op, left, right)
	case "<", "<=", ">", ">=", "==", "!=":
		return evaluateComparison(op, left, right)
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported binary operator %s", op)
	}
}

func evaluateArithmetic(op string, left, right runtime.IntegerValue) (runtime.IntegerValue, error) {
	width := runtime.PromoteWidth(left, right)
	lv := left.Bits
	rv := right.Bits
	var result int64
	switch op {
	case "+":
		result = lv + rv
	case "-":
		result = lv - rv
	case "*":
		result = lv * rv
	case "/":
		if rv == 0 {
			return runtime.IntegerValue{}, newDivisionByZeroError()
		}
		result = lv / rv
	case "%":
		if rv == 0 {
			return runtime.IntegerValue{}, newDivisionByZeroError()
		}
		result = lv % rv
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported arithmetic operator %s", op)
	}
	return runtime.NewInteger(width, result), nil
}

func evaluateBitwise(op string, left, right runtime.IntegerValue) (runtime.IntegerValue, error) {
	width := runtime.PromoteWidth(left, right)
	lv := left.Bits
	rv := right.Bits
	var result int64
	switch op {
	case "&":
		result = lv & rv
	case "|":
		result = lv | rv
	case "^":
		result = lv ^ rv
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported bitwise operator %s", op)
	}
	return runtime.NewInteger(width, result), nil
}

// evaluateShift keeps the left operand's width. Out-of-range counts are
// undefined in the source language; the engine masks the count to width-1 so
// every shift is deterministic.
func evaluateShift(op string, left, right runtime.IntegerValue) (runtime.IntegerValue, error) {
	count := uint64(right.Bits) & uint64(left.W-1)
	var result int64
	switch op {
	case "<<":
		result = left.Bits << count
	case ">>":
		// Arithmetic shift: the canonical carrier is sign-extended, so the
		// sign bit propagates for either width.
		result = left.Bits >> count
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported shift operator %s", op)
	}
	return runtime.NewInteger(left.W, result), nil
}

func evaluateComparison(op string, left, right runtime.IntegerValue) (runtime.IntegerValue, error) {
	// Sign extension to the canonical carrier already happened, so comparing
	// the raw bits honors the promoted-width ordering.
	lv := left.Bits
	rv := right.Bits
	var truth bool
	switch op {
	case "<":
		truth = lv < rv
	case "<=":
		truth = lv <= rv
	case ">":
		truth = lv > rv
	case ">=":
		truth = lv >= rv
	case "==":
		truth = lv == rv
	case "!=":
		truth = lv != rv
	default:
		return runtime.IntegerValue{}, fmt.Errorf("interpreter: unsupported comparison operator %s", op)
	}
	if truth {
		return runtime.NewInt32(1), nil
	}
	return runtime.NewInt32(0), nil
}
