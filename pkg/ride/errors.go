package ride

import (
	"github.com/pkg/errors"
)

type evaluationErrorType int

const (
	// Undefined error is a non-categorized error of evaluation.
	Undefined evaluationErrorType = iota
	// UserError is an error produced by a throw or an explicit failure of a script.
	UserError
	// RuntimeError is an internal error of the evaluator.
	RuntimeError
	// InternalInvocationError is an error of script invocation machinery.
	InternalInvocationError
	// ComplexityLimitExceeded indicates that the complexity budget is exhausted.
	ComplexityLimitExceeded
	// StackOverflow indicates that the call depth limit is exceeded.
	StackOverflow
	// LimitExceeded indicates a violation of a value size cap.
	LimitExceeded
)

type evaluationError struct {
	errorType       evaluationErrorType
	originalError   error
	spentComplexity uint64
	callStack       []string
	log             string
}

func (e evaluationError) Error() string {
	return e.originalError.Error()
}

func (et evaluationErrorType) New(msg string) error {
	return evaluationError{errorType: et, originalError: errors.New(msg)}
}

func (et evaluationErrorType) Errorf(msg string, args ...interface{}) error {
	return evaluationError{errorType: et, originalError: errors.Errorf(msg, args...)}
}

func (et evaluationErrorType) Wrap(err error, msg string) error {
	return evaluationError{errorType: et, originalError: errors.Wrap(err, msg)}
}

func (et evaluationErrorType) Wrapf(err error, msg string, args ...interface{}) error {
	return evaluationError{errorType: et, originalError: errors.Wrapf(err, msg, args...)}
}

func GetEvaluationErrorType(err error) evaluationErrorType {
	if ee, ok := err.(evaluationError); ok {
		return ee.errorType
	}
	return Undefined
}

func EvaluationErrorSpentComplexity(err error) uint64 {
	if ee, ok := err.(evaluationError); ok {
		return ee.spentComplexity
	}
	return 0
}

func EvaluationErrorCallStack(err error) []string {
	if ee, ok := err.(evaluationError); ok {
		return ee.callStack
	}
	return nil
}

// EvaluationErrorSetComplexity attaches spent complexity to an evaluation
// error; a foreign error is categorized as Undefined first.
func EvaluationErrorSetComplexity(err error, complexity uint64) error {
	if ee, ok := err.(evaluationError); ok {
		ee.spentComplexity = complexity
		return ee
	}
	return evaluationError{errorType: Undefined, originalError: err, spentComplexity: complexity}
}

// EvaluationErrorOriginal unwraps the underlying error of an evaluation
// error; callers use it to recognize domain errors raised inside sync
// invocations.
func EvaluationErrorOriginal(err error) error {
	if ee, ok := err.(evaluationError); ok {
		return ee.originalError
	}
	return err
}

// EvaluationErrorLog returns the rendered evaluation log attached to the
// error; part of the result even on failure.
func EvaluationErrorLog(err error) string {
	if ee, ok := err.(evaluationError); ok {
		return ee.log
	}
	return ""
}

func EvaluationErrorSetLog(err error, log string) error {
	if ee, ok := err.(evaluationError); ok {
		ee.log = log
		return ee
	}
	return evaluationError{errorType: Undefined, originalError: err, log: log}
}

func EvaluationErrorPush(err error, format string, args ...interface{}) error {
	if ee, ok := err.(evaluationError); ok {
		ee.callStack = append(ee.callStack, errors.Errorf(format, args...).Error())
		return ee
	}
	return evaluationError{
		errorType:     Undefined,
		originalError: err,
		callStack:     []string{errors.Errorf(format, args...).Error()},
	}
}
