package interpreter

import (
	"errors"
	"fmt"
)

type arithmeticErrorKind string

const (
	arithmeticDivisionByZero arithmeticErrorKind = "DivisionByZeroError"
)

// ArithmeticError signals an evaluation whose result the source language
// leaves undefined in a way the engine refuses to paper over. Overflow is
// not among them: wraparound is defined behavior, never an error.
type ArithmeticError struct {
	kind    arithmeticErrorKind
	message string
}

func (e ArithmeticError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func newDivisionByZeroError() error {
	return ArithmeticError{kind: arithmeticDivisionByZero, message: "division by zero"}
}

// IsArithmeticError reports whether err aborted evaluation with an
// arithmetic fault, letting the harness distinguish an engine diagnostic
// from a legitimate nonzero program result.
func IsArithmeticError(err error) bool {
	var ae ArithmeticError
	return errors.As(err, &ae)
}
