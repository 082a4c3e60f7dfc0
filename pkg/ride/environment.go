package ride

import (
	"github.com/pkg/errors"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

// StateReader is the read-only blockchain surface the evaluator needs.
// The state package implements it with a composite view, so evaluation
// observes writes of preceding actions and enclosing sync calls.
type StateReader interface {
	NewestTreeByRecipient(recipient proto.Recipient) (*Tree, error)
	NewestDataEntry(addr proto.Address, key string) (proto.DataEntry, error)
	NewestWavesBalance(addr proto.Address) (uint64, error)
	NewestAssetBalance(addr proto.Address, asset crypto.Digest) (uint64, error)
	NewestAddrByAlias(alias proto.Alias) (proto.Address, error)
}

// InvokeFunc performs a synchronous dApp-to-dApp invocation on behalf of
// the evaluator. The sync-call semantics (depth, reentrancy, total
// complexity) belong to the caller of the evaluation, not to the evaluator
// itself.
type InvokeFunc func(recipient proto.Recipient, fn string, args proto.Arguments, payments []proto.ScriptPayment, reentrant bool) (RideResult, error)

// EvaluationEnvironment carries everything an evaluation may observe. It is
// immutable during a single evaluation.
type EvaluationEnvironment struct {
	Scheme          byte
	Height          uint64
	Lib             settings.StdLibVersion
	FixUnicode      bool
	NewPowPrecision bool
	Reader          StateReader
	ThisAddress     proto.Address
	TxID            crypto.Digest
	Timestamp       uint64
	Invoke          InvokeFunc

	tx  rideType
	inv rideType
}

// SetTransferTransaction binds the transaction object available to
// verifier scripts as 'tx'.
func (e *EvaluationEnvironment) SetTransferTransaction(tx *proto.Transfer, sender proto.Address) error {
	obj, err := transferTransactionObject(tx, sender)
	if err != nil {
		return err
	}
	e.tx = obj
	return nil
}

// SetPseudoTransaction binds the pseudo-transaction object handed to asset
// scripts when a dApp action touches the asset.
func (e *EvaluationEnvironment) SetPseudoTransaction(tx proto.PseudoTx) error {
	obj, err := pseudoTxObject(tx)
	if err != nil {
		return err
	}
	e.tx = obj
	return nil
}

// SetInvocation binds the invocation object available to callables as the
// invocation parameter.
func (e *EvaluationEnvironment) SetInvocation(caller proto.Address, callerPK crypto.PublicKey, payments []proto.ScriptPayment, fee uint64, feeAsset proto.OptionalAsset) {
	e.inv = invocationObject(e.TxID, caller, callerPK, payments, fee, feeAsset)
}

func (e *EvaluationEnvironment) validate() error {
	if e.Reader == nil {
		return errors.New("no state reader in environment")
	}
	if e.Scheme == 0 {
		return errors.New("no chain scheme in environment")
	}
	return nil
}

// RideResult is the outcome of a script evaluation.
type RideResult interface {
	Result() bool
	UserError() string
	ScriptActions() proto.ScriptActions
	Complexity() uint64
	Log() string
}

// ScriptResult is the outcome of an expression (verifier or asset) script.
type ScriptResult struct {
	res        bool
	msg        string
	complexity uint64
	log        string
}

func (r ScriptResult) Result() bool {
	return r.res
}

func (r ScriptResult) UserError() string {
	return r.msg
}

func (r ScriptResult) ScriptActions() proto.ScriptActions {
	return nil
}

func (r ScriptResult) Complexity() uint64 {
	return r.complexity
}

func (r ScriptResult) Log() string {
	return r.log
}

// DAppResult is the outcome of a callable invocation: the ordered action
// list plus an optional return value (library V5 tuples).
type DAppResult struct {
	actions    proto.ScriptActions
	ret        rideType
	complexity uint64
	log        string
}

func (r DAppResult) Result() bool {
	return true
}

func (r DAppResult) UserError() string {
	return ""
}

func (r DAppResult) ScriptActions() proto.ScriptActions {
	return r.actions
}

func (r DAppResult) Complexity() uint64 {
	return r.complexity
}

func (r DAppResult) Log() string {
	return r.log
}
