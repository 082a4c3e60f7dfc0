package proto

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/wavesplatform/txdiff/pkg/crypto"
)

type TransactionType byte

const (
	IssueTransaction TransactionType = iota + 3
	TransferTransaction
	ReissueTransaction
	BurnTransaction
	ExchangeTransaction
	LeaseTransaction
	LeaseCancelTransaction
	CreateAliasTransaction
	MassTransferTransaction
	DataTransaction
	SetScriptTransaction
	SponsorshipTransaction
	SetAssetScriptTransaction
	InvokeScriptTransaction
)

const (
	MaxDataEntries = 100
)

// Transaction is the minimal surface the diff engine needs from any
// transaction kind.
type Transaction interface {
	GetTypeInfo() TransactionType
	GetID() (crypto.Digest, error)
	GetSenderPK() crypto.PublicKey
	GetFee() uint64
	GetFeeAsset() OptionalAsset
	GetTimestamp() uint64
}

type txCommon struct {
	ID        *crypto.Digest
	SenderPK  crypto.PublicKey
	Fee       uint64
	Timestamp uint64
}

func (t *txCommon) GetID() (crypto.Digest, error) {
	if t.ID == nil {
		return crypto.Digest{}, errors.New("no id for transaction")
	}
	return *t.ID, nil
}

func (t *txCommon) GetSenderPK() crypto.PublicKey {
	return t.SenderPK
}

func (t *txCommon) GetFee() uint64 {
	return t.Fee
}

func (t *txCommon) GetTimestamp() uint64 {
	return t.Timestamp
}

// Transfer moves an amount of an optional asset to a recipient; the fee can
// be paid in a sponsored asset.
type Transfer struct {
	txCommon
	Recipient   Recipient
	Amount      uint64
	AmountAsset OptionalAsset
	FeeAsset    OptionalAsset
	Attachment  []byte
}

func (t *Transfer) GetTypeInfo() TransactionType {
	return TransferTransaction
}

// Clone returns a deep copy; Diff records own their transaction values.
func (t *Transfer) Clone() *Transfer {
	out := &Transfer{}
	if err := copier.CopyWithOption(out, t, copier.Option{DeepCopy: true}); err != nil {
		panic(err.Error())
	}
	return out
}

func (t *Transfer) GetFeeAsset() OptionalAsset {
	return t.FeeAsset
}

// Issue creates a new asset.
type Issue struct {
	txCommon
	Name        string
	Description string
	Quantity    uint64
	Decimals    byte
	Reissuable  bool
	Script      []byte
}

func (t *Issue) GetTypeInfo() TransactionType {
	return IssueTransaction
}

func (t *Issue) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// Reissue increases the total volume of an existing reissuable asset.
type Reissue struct {
	txCommon
	AssetID    crypto.Digest
	Quantity   uint64
	Reissuable bool
}

func (t *Reissue) GetTypeInfo() TransactionType {
	return ReissueTransaction
}

func (t *Reissue) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// Burn decreases the total volume of an existing asset.
type Burn struct {
	txCommon
	AssetID crypto.Digest
	Amount  uint64
}

func (t *Burn) GetTypeInfo() TransactionType {
	return BurnTransaction
}

func (t *Burn) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// Lease locks an amount of the base asset in favour of the recipient.
type Lease struct {
	txCommon
	Recipient Recipient
	Amount    uint64
}

func (t *Lease) GetTypeInfo() TransactionType {
	return LeaseTransaction
}

func (t *Lease) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// LeaseCancel cancels an active lease by id.
type LeaseCancel struct {
	txCommon
	LeaseID crypto.Digest
}

func (t *LeaseCancel) GetTypeInfo() TransactionType {
	return LeaseCancelTransaction
}

func (t *LeaseCancel) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// CreateAlias binds an alias to the sender address.
type CreateAlias struct {
	txCommon
	Alias Alias
}

func (t *CreateAlias) GetTypeInfo() TransactionType {
	return CreateAliasTransaction
}

func (t *CreateAlias) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// DataTx writes entries to the sender's account data storage.
type DataTx struct {
	txCommon
	Entries DataEntries
}

func (t *DataTx) GetTypeInfo() TransactionType {
	return DataTransaction
}

func (t *DataTx) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// Sponsorship declares the asset cost of one fee unit; zero cancels
// sponsorship.
type Sponsorship struct {
	txCommon
	AssetID     crypto.Digest
	MinAssetFee uint64
}

func (t *Sponsorship) GetTypeInfo() TransactionType {
	return SponsorshipTransaction
}

func (t *Sponsorship) GetFeeAsset() OptionalAsset {
	return NewOptionalWaves()
}

// ScriptPayment is an attached payment of an invoke-script transaction.
type ScriptPayment struct {
	Amount uint64
	Asset  OptionalAsset
}

// FunctionCall names the callable and carries its arguments.
type FunctionCall struct {
	Name      string
	Arguments Arguments
}

// InvokeScript calls a named function of a dApp account script.
type InvokeScript struct {
	txCommon
	ScriptRecipient Recipient
	FunctionCall    FunctionCall
	Payments        []ScriptPayment
	FeeAsset        OptionalAsset
}

func (t *InvokeScript) GetTypeInfo() TransactionType {
	return InvokeScriptTransaction
}

// Clone returns a deep copy; Diff records own their transaction values.
func (t *InvokeScript) Clone() *InvokeScript {
	out := &InvokeScript{}
	if err := copier.CopyWithOption(out, t, copier.Option{DeepCopy: true}); err != nil {
		panic(err.Error())
	}
	return out
}

func (t *InvokeScript) GetFeeAsset() OptionalAsset {
	return t.FeeAsset
}

// Argument is an invoke-script call argument.
type Argument interface {
	argument()
}

type IntegerArgument struct {
	Value int64
}

func (IntegerArgument) argument() {}

type BooleanArgument struct {
	Value bool
}

func (BooleanArgument) argument() {}

type BinaryArgument struct {
	Value []byte
}

func (BinaryArgument) argument() {}

type StringArgument struct {
	Value string
}

func (StringArgument) argument() {}

type ListArgument struct {
	Items Arguments
}

func (ListArgument) argument() {}

type Arguments []Argument
