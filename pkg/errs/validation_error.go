package errs

// ValidationError marks errors that reject a transaction: the transaction
// never enters a block and no fee is charged.
type ValidationError interface {
	ValidationError()
}

type ValidationErrorImpl struct {
}

func (ValidationErrorImpl) ValidationError() {
}

func IsValidationError(err error) bool {
	_, ok := err.(ValidationError)
	return ok
}
