package errs

import "fmt"

// FailedTransaction marks errors that do not reject the transaction: it
// enters the block and the fee is consumed, but no state mutations besides
// the fee are applied. Every such error carries the complexity spent up to
// the failure point; the block records the total.
type FailedTransaction interface {
	error
	FailedError()
	SpentComplexity() uint64
	WithSpentComplexity(c uint64) FailedTransaction
}

func IsFailedTransaction(err error) bool {
	_, ok := err.(FailedTransaction)
	return ok
}

// AddComplexity adds delta to the spent complexity of a failed-transaction
// error; any other error is returned unchanged.
func AddComplexity(err error, delta uint64) error {
	if fe, ok := err.(FailedTransaction); ok {
		return fe.WithSpentComplexity(fe.SpentComplexity() + delta)
	}
	return err
}

// DAppExecutionError is a runtime error inside the dApp callable.
type DAppExecutionError struct {
	message    string
	complexity uint64
	log        string
}

func NewDAppExecutionError(message string, complexity uint64, log string) *DAppExecutionError {
	return &DAppExecutionError{message: message, complexity: complexity, log: log}
}

func (a DAppExecutionError) Error() string {
	return a.message
}

func (a DAppExecutionError) FailedError() {}

func (a DAppExecutionError) SpentComplexity() uint64 {
	return a.complexity
}

func (a DAppExecutionError) WithSpentComplexity(c uint64) FailedTransaction {
	return &DAppExecutionError{message: a.message, complexity: c, log: a.log}
}

func (a DAppExecutionError) EvaluationLog() string {
	return a.log
}

func (a DAppExecutionError) Is(target error) bool {
	_, ok := target.(DAppExecutionError)
	return ok
}

// AssetExecutionInAction is a runtime error inside an asset script called
// for an action.
type AssetExecutionInAction struct {
	message    string
	complexity uint64
	log        string
	assetID    string
}

func NewAssetExecutionInAction(message string, complexity uint64, log, assetID string) *AssetExecutionInAction {
	return &AssetExecutionInAction{message: message, complexity: complexity, log: log, assetID: assetID}
}

func (a AssetExecutionInAction) Error() string {
	return a.message
}

func (a AssetExecutionInAction) FailedError() {}

func (a AssetExecutionInAction) SpentComplexity() uint64 {
	return a.complexity
}

func (a AssetExecutionInAction) WithSpentComplexity(c uint64) FailedTransaction {
	return &AssetExecutionInAction{message: a.message, complexity: c, log: a.log, assetID: a.assetID}
}

func (a AssetExecutionInAction) AssetID() string {
	return a.assetID
}

func (a AssetExecutionInAction) EvaluationLog() string {
	return a.log
}

func (a AssetExecutionInAction) Is(target error) bool {
	_, ok := target.(AssetExecutionInAction)
	return ok
}

// NotAllowedByAssetInAction means an asset script returned false for an
// action touching that asset.
type NotAllowedByAssetInAction struct {
	complexity uint64
	log        string
	assetID    string
}

func NewNotAllowedByAssetInAction(complexity uint64, log, assetID string) *NotAllowedByAssetInAction {
	return &NotAllowedByAssetInAction{complexity: complexity, log: log, assetID: assetID}
}

func (a NotAllowedByAssetInAction) Error() string {
	return fmt.Sprintf("transaction is not allowed by script of the asset %s", a.assetID)
}

func (a NotAllowedByAssetInAction) FailedError() {}

func (a NotAllowedByAssetInAction) SpentComplexity() uint64 {
	return a.complexity
}

func (a NotAllowedByAssetInAction) WithSpentComplexity(c uint64) FailedTransaction {
	return &NotAllowedByAssetInAction{complexity: c, log: a.log, assetID: a.assetID}
}

func (a NotAllowedByAssetInAction) AssetID() string {
	return a.assetID
}

func (a NotAllowedByAssetInAction) EvaluationLog() string {
	return a.log
}

func (a NotAllowedByAssetInAction) Is(target error) bool {
	_, ok := target.(NotAllowedByAssetInAction)
	return ok
}

// FeeForActions means the attached fee is below the post-hoc minimum
// computed from invocation complexity and produced actions.
type FeeForActions struct {
	message    string
	complexity uint64
	minFee     uint64
}

func NewFeeForActions(message string, complexity, minFee uint64) *FeeForActions {
	return &FeeForActions{message: message, complexity: complexity, minFee: minFee}
}

func (a FeeForActions) Error() string {
	return a.message
}

func (a FeeForActions) FailedError() {}

func (a FeeForActions) SpentComplexity() uint64 {
	return a.complexity
}

func (a FeeForActions) WithSpentComplexity(c uint64) FailedTransaction {
	return &FeeForActions{message: a.message, complexity: c, minFee: a.minFee}
}

// MinFee is the minimum fee attribute reported in validation errors.
func (a FeeForActions) MinFee() uint64 {
	return a.minFee
}

func (a FeeForActions) Is(target error) bool {
	_, ok := target.(FeeForActions)
	return ok
}
