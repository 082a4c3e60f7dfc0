package errs

import "fmt"

// TxValidationError provides message as is, without adding additional message info.
type TxValidationError struct {
	ValidationErrorImpl
	message string
}

func NewTxValidationError(message string) *TxValidationError {
	return &TxValidationError{message: message}
}

func (a TxValidationError) Error() string {
	return a.message
}

func (a TxValidationError) Extend(s string) error {
	return NewTxValidationError(fmtExtend(a, s))
}

func (a TxValidationError) Is(target error) bool {
	_, ok := target.(TxValidationError)
	return ok
}

type InvalidSignature struct {
	ValidationErrorImpl
	message string
}

func NewInvalidSignature(message string) *InvalidSignature {
	return &InvalidSignature{message: message}
}

func (a InvalidSignature) Error() string {
	return a.message
}

func (a InvalidSignature) Extend(s string) error {
	return NewInvalidSignature(fmtExtend(a, s))
}

func (a InvalidSignature) Is(target error) bool {
	_, ok := target.(InvalidSignature)
	return ok
}

type InvalidAddress struct {
	ValidationErrorImpl
	message string
}

func NewInvalidAddress(message string) *InvalidAddress {
	return &InvalidAddress{message: message}
}

func (a InvalidAddress) Error() string {
	return a.message
}

func (a InvalidAddress) Extend(s string) error {
	return NewInvalidAddress(fmtExtend(a, s))
}

func (a InvalidAddress) Is(target error) bool {
	_, ok := target.(InvalidAddress)
	return ok
}

// OverflowError is returned when checked balance arithmetic wraps.
type OverflowError struct {
	ValidationErrorImpl
	message string
}

func NewOverflowError(message string) *OverflowError {
	return &OverflowError{message: message}
}

func (a OverflowError) Error() string {
	return a.message
}

func (a OverflowError) Extend(s string) error {
	return NewOverflowError(fmtExtend(a, s))
}

func (a OverflowError) Is(target error) bool {
	_, ok := target.(OverflowError)
	return ok
}

type GenericError struct {
	ValidationErrorImpl
	message string
}

func NewGenericError(message string) *GenericError {
	return &GenericError{message: message}
}

func (a GenericError) Error() string {
	return a.message
}

func (a GenericError) Extend(s string) error {
	return NewGenericError(fmtExtend(a, s))
}

func (a GenericError) Is(target error) bool {
	_, ok := target.(GenericError)
	return ok
}

type InsufficientFee struct {
	ValidationErrorImpl
	message string
}

func NewInsufficientFee(message string) *InsufficientFee {
	return &InsufficientFee{message: message}
}

func (a InsufficientFee) Error() string {
	return a.message
}

func (a InsufficientFee) Extend(s string) error {
	return NewInsufficientFee(fmtExtend(a, s))
}

func (a InsufficientFee) Is(target error) bool {
	_, ok := target.(InsufficientFee)
	return ok
}

type FeeValidation struct {
	ValidationErrorImpl
	message string
}

func NewFeeValidation(message string) *FeeValidation {
	return &FeeValidation{message: message}
}

func (a FeeValidation) Error() string {
	return a.message
}

func (a FeeValidation) Extend(s string) error {
	return NewFeeValidation(fmtExtend(a, s))
}

func (a FeeValidation) Is(target error) bool {
	_, ok := target.(FeeValidation)
	return ok
}

type NonPositiveAmount struct {
	ValidationErrorImpl
	amount int64
	of     string
}

func NewNonPositiveAmount(amount int64, of string) *NonPositiveAmount {
	return &NonPositiveAmount{amount: amount, of: of}
}

func (a NonPositiveAmount) Error() string {
	return fmt.Sprintf("%d of %s", a.amount, a.of)
}

func (a NonPositiveAmount) Is(target error) bool {
	_, ok := target.(NonPositiveAmount)
	return ok
}

// NegativeAmount rejects negative quantities in dApp actions since the
// sync-dApp transfers check activation.
type NegativeAmount struct {
	ValidationErrorImpl
	message string
}

func NewNegativeAmount(message string) *NegativeAmount {
	return &NegativeAmount{message: message}
}

func (a NegativeAmount) Error() string {
	return a.message
}

func (a NegativeAmount) Extend(s string) error {
	return NewNegativeAmount(fmtExtend(a, s))
}

func (a NegativeAmount) Is(target error) bool {
	_, ok := target.(NegativeAmount)
	return ok
}

type UnissuedAsset struct {
	ValidationErrorImpl
	message string
}

func NewUnissuedAsset(message string) *UnissuedAsset {
	return &UnissuedAsset{message: message}
}

func (a UnissuedAsset) Error() string {
	return a.message
}

func (a UnissuedAsset) Extend(s string) error {
	return NewUnissuedAsset(fmtExtend(a, s))
}

func (a UnissuedAsset) Is(target error) bool {
	_, ok := target.(UnissuedAsset)
	return ok
}

type AssetAlreadyExists struct {
	ValidationErrorImpl
	message string
}

func NewAssetAlreadyExists(message string) *AssetAlreadyExists {
	return &AssetAlreadyExists{message: message}
}

func (a AssetAlreadyExists) Error() string {
	return a.message
}

func (a AssetAlreadyExists) Extend(s string) error {
	return NewAssetAlreadyExists(fmtExtend(a, s))
}

func (a AssetAlreadyExists) Is(target error) bool {
	_, ok := target.(AssetAlreadyExists)
	return ok
}

type AssetIsNotReissuable struct {
	ValidationErrorImpl
	message string
}

func NewAssetIsNotReissuable(message string) *AssetIsNotReissuable {
	return &AssetIsNotReissuable{message: message}
}

func (a AssetIsNotReissuable) Error() string {
	return a.message
}

func (a AssetIsNotReissuable) Extend(s string) error {
	return NewAssetIsNotReissuable(fmtExtend(a, s))
}

func (a AssetIsNotReissuable) Is(target error) bool {
	_, ok := target.(AssetIsNotReissuable)
	return ok
}

type AliasDoesNotExist struct {
	ValidationErrorImpl
	message string
}

func NewAliasDoesNotExist(message string) *AliasDoesNotExist {
	return &AliasDoesNotExist{message: message}
}

func (a AliasDoesNotExist) Error() string {
	return a.message
}

func (a AliasDoesNotExist) Extend(s string) error {
	return NewAliasDoesNotExist(fmtExtend(a, s))
}

func (a AliasDoesNotExist) Is(target error) bool {
	_, ok := target.(AliasDoesNotExist)
	return ok
}

type AccountBalanceError struct {
	ValidationErrorImpl
	message string
}

func NewAccountBalanceError(message string) *AccountBalanceError {
	return &AccountBalanceError{message: message}
}

func (a AccountBalanceError) Error() string {
	return a.message
}

func (a AccountBalanceError) Extend(s string) error {
	return NewAccountBalanceError(fmtExtend(a, s))
}

func (a AccountBalanceError) Is(target error) bool {
	_, ok := target.(AccountBalanceError)
	return ok
}

// ReentrancyDisallowed is returned by the sync-call layer when a dApp calls
// itself without the reentrancy flag in its script header.
type ReentrancyDisallowed struct {
	ValidationErrorImpl
	message string
}

func NewReentrancyDisallowed(message string) *ReentrancyDisallowed {
	return &ReentrancyDisallowed{message: message}
}

func (a ReentrancyDisallowed) Error() string {
	return a.message
}

func (a ReentrancyDisallowed) Extend(s string) error {
	return NewReentrancyDisallowed(fmtExtend(a, s))
}

func (a ReentrancyDisallowed) Is(target error) bool {
	_, ok := target.(ReentrancyDisallowed)
	return ok
}

type WriteSetTooLarge struct {
	ValidationErrorImpl
	message string
}

func NewWriteSetTooLarge(message string) *WriteSetTooLarge {
	return &WriteSetTooLarge{message: message}
}

func (a WriteSetTooLarge) Error() string {
	return a.message
}

func (a WriteSetTooLarge) Extend(s string) error {
	return NewWriteSetTooLarge(fmtExtend(a, s))
}

func (a WriteSetTooLarge) Is(target error) bool {
	_, ok := target.(WriteSetTooLarge)
	return ok
}

type EmptyDataKey struct {
	ValidationErrorImpl
	message string
}

func NewEmptyDataKey(message string) *EmptyDataKey {
	return &EmptyDataKey{message: message}
}

func (a EmptyDataKey) Error() string {
	return a.message
}

func (a EmptyDataKey) Extend(s string) error {
	return NewEmptyDataKey(fmtExtend(a, s))
}

func (a EmptyDataKey) Is(target error) bool {
	_, ok := target.(EmptyDataKey)
	return ok
}

type DuplicatedDataKeys struct {
	ValidationErrorImpl
	message string
}

func NewDuplicatedDataKeys(message string) *DuplicatedDataKeys {
	return &DuplicatedDataKeys{message: message}
}

func (a DuplicatedDataKeys) Error() string {
	return a.message
}

func (a DuplicatedDataKeys) Extend(s string) error {
	return NewDuplicatedDataKeys(fmtExtend(a, s))
}

func (a DuplicatedDataKeys) Is(target error) bool {
	_, ok := target.(DuplicatedDataKeys)
	return ok
}

type TooBigArray struct {
	ValidationErrorImpl
	message string
}

func NewTooBigArray(message string) *TooBigArray {
	return &TooBigArray{message: message}
}

func (a TooBigArray) Error() string {
	return a.message
}

func (a TooBigArray) Extend(s string) error {
	return NewTooBigArray(fmtExtend(a, s))
}

func (a TooBigArray) Is(target error) bool {
	_, ok := target.(TooBigArray)
	return ok
}

type InvalidName struct {
	ValidationErrorImpl
	message string
}

func NewInvalidName(message string) *InvalidName {
	return &InvalidName{message: message}
}

func (a InvalidName) Error() string {
	return a.message
}

func (a InvalidName) Extend(s string) error {
	return NewInvalidName(fmtExtend(a, s))
}

func (a InvalidName) Is(target error) bool {
	_, ok := target.(InvalidName)
	return ok
}

type ToSelf struct {
	ValidationErrorImpl
	message string
}

func NewToSelf(message string) *ToSelf {
	return &ToSelf{message: message}
}

func (a ToSelf) Error() string {
	return a.message
}

func (a ToSelf) Extend(s string) error {
	return NewToSelf(fmtExtend(a, s))
}

func (a ToSelf) Is(target error) bool {
	_, ok := target.(ToSelf)
	return ok
}
