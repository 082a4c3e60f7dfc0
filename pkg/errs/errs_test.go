package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendKeepsType(t *testing.T) {
	err := Extend(NewAccountBalanceError("negative balance"), "transfer")
	assert.Equal(t, "transfer: negative balance", err.Error())
	assert.True(t, errors.Is(err, AccountBalanceError{}))
	assert.True(t, IsValidationError(err))
}

func TestExtendWrapsForeign(t *testing.T) {
	err := Extend(errors.New("boom"), "context")
	assert.Equal(t, "context: boom", err.Error())
}

func TestValidationErrorsAreNotFailed(t *testing.T) {
	assert.False(t, IsFailedTransaction(NewGenericError("g")))
	assert.False(t, IsFailedTransaction(NewNegativeAmount("negative")))
	assert.True(t, IsValidationError(NewReentrancyDisallowed("self call")))
}

func TestFailedTransactionComplexityAccumulates(t *testing.T) {
	var err error = NewDAppExecutionError("failed", 100, "\tx = 1")
	err = AddComplexity(err, 40)
	fe, ok := err.(FailedTransaction)
	require.True(t, ok)
	assert.EqualValues(t, 140, fe.SpentComplexity())
	assert.Equal(t, "failed", err.Error())
}

func TestAddComplexityIgnoresRejects(t *testing.T) {
	err := AddComplexity(NewGenericError("g"), 10)
	assert.True(t, errors.Is(err, GenericError{}))
}

func TestNotAllowedByAssetMessage(t *testing.T) {
	err := NewNotAllowedByAssetInAction(5, "", "8Ao")
	assert.Contains(t, err.Error(), "not allowed by script of the asset 8Ao")
	assert.Equal(t, "8Ao", err.AssetID())
}

func TestFeeForActionsAttributes(t *testing.T) {
	err := NewFeeForActions("fee too small", 1300, 500000)
	assert.EqualValues(t, 500000, err.MinFee())
	assert.EqualValues(t, 1300, err.SpentComplexity())
}
