package state

import (
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/ride"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

// InvokeApplier computes the Diff of an invoke-script transaction: it
// evaluates the callable, folds the produced actions left-to-right over a
// composite view, runs asset scripts for asset-touching actions, enforces
// the resource limits and the post-hoc minimum fee, and separates
// rejections from failed-but-accepted-for-fee outcomes.
type InvokeApplier struct {
	stngs  *settings.BlockchainSettings
	logger *zap.Logger
}

func NewInvokeApplier(stngs *settings.BlockchainSettings, logger *zap.Logger) *InvokeApplier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvokeApplier{stngs: stngs, logger: logger}
}

// invocationState is the mutable frame shared by the whole application of
// one invoke-script transaction, including nested sync calls.
type invocationState struct {
	view            *CompositeView
	height          uint64
	txID            crypto.Digest
	timestamp       uint64
	lib             settings.StdLibVersion
	totalComplexity uint64
	scriptsRun      uint32
	extraScriptRuns uint64
	nonNftIssues    uint64
	depth           int
	stack           []proto.Address
	cancelledLeases map[crypto.Digest]struct{}
	duplicateLeases []crypto.Digest
	dataEntries     int
	dataBytes       int
	actionsCount    int
}

func (st *invocationState) onStack(addr proto.Address) bool {
	for _, a := range st.stack {
		if a == addr {
			return true
		}
	}
	return false
}

// failOrReject selects the error class of an invalid action amount by the
// sync-dApp transfers-check activation: rejection since the height,
// fail-for-fee before it.
func (ia *InvokeApplier) failOrReject(st *invocationState, msg string) error {
	if ia.stngs.SyncDAppCheckTransfers(st.height) {
		return errs.NewNegativeAmount(msg)
	}
	return errs.NewDAppExecutionError(msg, st.totalComplexity, "")
}

// ApplyInvokeScript returns the full Diff of the invocation on success. On
// a failed-for-fee outcome both a fee-only Diff and the failure error are
// returned: the transaction still enters the block. On rejection the Diff
// is nil.
func (ia *InvokeApplier) ApplyInvokeScript(snap SnapshotReader, tx *proto.InvokeScript) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	txID, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	sender, err := proto.NewAddressFromPublicKey(ia.stngs.AddressSchemeCharacter, tx.SenderPK)
	if err != nil {
		return nil, errs.NewInvalidAddress(err.Error())
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	dApp, err := view.ResolveRecipient(tx.ScriptRecipient)
	if err != nil {
		return nil, err
	}
	scriptInfo, err := view.AccountScript(dApp)
	if err != nil {
		return nil, err
	}
	if scriptInfo == nil || scriptInfo.Script == nil {
		return nil, errs.NewGenericError(fmt.Sprintf("no script on address %s", dApp.String()))
	}
	tree := scriptInfo.Script
	lib := tree.LibVersion

	if ia.stngs.DisallowSelfPayment && lib >= settings.StdLibV4 && len(tx.Payments) > 0 && sender == dApp {
		return nil, errs.NewGenericError("DApp self-payment is forbidden since V4")
	}
	for _, payment := range tx.Payments {
		if payment.Amount == 0 {
			return nil, errs.NewNonPositiveAmount(0, "payment")
		}
	}

	st := &invocationState{
		view:            view,
		height:          height,
		txID:            txID,
		timestamp:       tx.Timestamp,
		lib:             lib,
		stack:           []proto.Address{dApp},
		cancelledLeases: make(map[crypto.Digest]struct{}),
	}

	feeDiff, err := ia.feeAndPaymentsDiff(st, snap, tx, sender, dApp)
	if err != nil {
		return nil, err
	}
	if err := diff.Merge(feeDiff); err != nil {
		return nil, err
	}

	// Payment assets with scripts are verified before the callable runs.
	for _, payment := range tx.Payments {
		if !payment.Asset.Present {
			continue
		}
		pseudo := proto.TransferPseudoTx{
			ID:        txID,
			Sender:    sender,
			SenderPK:  tx.SenderPK,
			Recipient: proto.NewRecipientFromAddress(dApp),
			Amount:    int64(payment.Amount),
			Asset:     payment.Asset,
			Timestamp: tx.Timestamp,
		}
		if err := ia.callAssetScriptIfPresent(st, payment.Asset.ID, pseudo); err != nil {
			return ia.failedDiff(snap, tx, txID, sender, dApp, err)
		}
	}

	result := NewInvokeScriptResult()
	env := ia.newEnvironment(st, dApp, sender, tx.SenderPK, tx.Payments, tx.Fee, tx.FeeAsset, result)

	limit := settings.MaxComplexityByVersion(lib)
	if lib >= settings.StdLibV5 {
		limit = settings.TotalComplexityLimit
	}
	res, err := ride.CallFunction(env, tree, tx.FunctionCall.Name, tx.FunctionCall.Arguments, limit)
	if err != nil {
		return ia.handleEvaluationError(st, snap, tx, txID, sender, dApp, err)
	}
	st.totalComplexity += res.Complexity()
	st.scriptsRun++

	result.AppendActions(res.ScriptActions())
	if err := ia.applyActions(st, dApp, scriptInfo.PK, res.ScriptActions(), res); err != nil {
		return ia.failedDiff(snap, tx, txID, sender, dApp, err)
	}
	if err := ia.checkFoldLimits(st, res); err != nil {
		return ia.failedDiff(snap, tx, txID, sender, dApp, err)
	}
	if err := ia.checkInvokeFee(st, snap, tx); err != nil {
		return ia.failedDiff(snap, tx, txID, sender, dApp, err)
	}

	diff.ScriptsRun = st.scriptsRun
	diff.ScriptsComplexity = st.totalComplexity
	diff.ScriptResults[txID] = result

	// The affected set is the union computed after the action fold.
	affected := make([]proto.Address, 0, len(diff.Portfolios)+len(diff.AccountData)+2)
	for addr := range diff.Portfolios {
		affected = append(affected, addr)
	}
	for addr := range diff.AccountData {
		affected = append(affected, addr)
	}
	affected = append(affected, result.CalledAddresses()...)
	affected = append(affected, dApp, sender)
	diff.BindTransaction(txID, tx.Clone(), affected, true, st.totalComplexity)
	ia.logger.Debug("invoke script applied",
		zap.String("tx", txID.String()),
		zap.Uint64("complexity", st.totalComplexity),
		zap.Uint32("scripts_run", st.scriptsRun))
	return diff, nil
}

// feeAndPaymentsDiff builds the fee and attached-payment part of the Diff.
// A failed-for-fee outcome does not use it: failedDiff applies the fee
// alone.
func (ia *InvokeApplier) feeAndPaymentsDiff(st *invocationState, snap SnapshotReader, tx *proto.InvokeScript, sender, dApp proto.Address) (*Diff, error) {
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	affected := []proto.Address{sender, dApp}
	td := &TransactionDiffer{stngs: ia.stngs, logger: ia.logger}
	if err := td.handleFee(view, diff, sender, tx.Fee, tx.FeeAsset, st.height, &affected); err != nil {
		return nil, err
	}
	for _, payment := range tx.Payments {
		if payment.Asset.Present {
			desc, err := view.AssetDescription(payment.Asset.ID)
			if err != nil {
				return nil, err
			}
			if desc == nil {
				return nil, errs.NewUnissuedAsset(fmt.Sprintf("unknown payment asset %s", payment.Asset.ID.String()))
			}
			if err := diff.AddPortfolio(sender, NewAssetPortfolio(payment.Asset.ID, -int64(payment.Amount))); err != nil {
				return nil, err
			}
			if err := diff.AddPortfolio(dApp, NewAssetPortfolio(payment.Asset.ID, int64(payment.Amount))); err != nil {
				return nil, err
			}
		} else {
			if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(payment.Amount))); err != nil {
				return nil, err
			}
			if err := diff.AddPortfolio(dApp, NewWavesPortfolio(int64(payment.Amount))); err != nil {
				return nil, err
			}
		}
	}
	return diff, nil
}

// failedDiff finishes a failed-for-fee outcome: only the fee part of the
// transaction is applied, the record is bound as not applied, and the
// failure error is returned alongside. Rejections pass through unchanged.
func (ia *InvokeApplier) failedDiff(snap SnapshotReader, tx *proto.InvokeScript, txID crypto.Digest, sender, dApp proto.Address, failure error) (*Diff, error) {
	if !errs.IsFailedTransaction(failure) {
		return nil, failure
	}
	fe := failure.(errs.FailedTransaction)
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	affected := []proto.Address{sender}
	td := &TransactionDiffer{stngs: ia.stngs, logger: ia.logger}
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if err := td.handleFee(view, diff, sender, tx.Fee, tx.GetFeeAsset(), height, &affected); err != nil {
		return nil, err
	}
	diff.ScriptsComplexity = fe.SpentComplexity()
	result := NewInvokeScriptResult()
	result.Error = failure.Error()
	diff.ScriptResults[txID] = result
	diff.BindTransaction(txID, tx.Clone(), affected, false, fe.SpentComplexity())
	ia.logger.Debug("invoke script failed for fee",
		zap.String("tx", txID.String()),
		zap.String("reason", failure.Error()))
	return diff, failure
}

// handleEvaluationError classifies an evaluation failure: domain errors
// raised inside the fold of a sync call keep their class, everything else
// is a fail-for-fee dApp execution error.
func (ia *InvokeApplier) handleEvaluationError(st *invocationState, snap SnapshotReader, tx *proto.InvokeScript, txID crypto.Digest, sender, dApp proto.Address, err error) (*Diff, error) {
	orig := ride.EvaluationErrorOriginal(err)
	if errs.IsValidationError(orig) {
		// Rejection must not be downgraded to fail-for-fee.
		return nil, orig
	}
	if errs.IsFailedTransaction(orig) {
		// The fold already accumulated the running complexity into the error.
		return ia.failedDiff(snap, tx, txID, sender, dApp, orig)
	}
	failure := errs.AddComplexity(
		errs.NewDAppExecutionError(err.Error(), ride.EvaluationErrorSpentComplexity(err), ride.EvaluationErrorLog(err)),
		st.totalComplexity)
	return ia.failedDiff(snap, tx, txID, sender, dApp, failure)
}

func (ia *InvokeApplier) newEnvironment(st *invocationState, this, caller proto.Address, callerPK crypto.PublicKey, payments []proto.ScriptPayment, fee uint64, feeAsset proto.OptionalAsset, result *InvokeScriptResult) *ride.EvaluationEnvironment {
	env := &ride.EvaluationEnvironment{
		Scheme:          ia.stngs.AddressSchemeCharacter,
		Height:          st.height,
		Lib:             st.lib,
		FixUnicode:      ia.stngs.FixUnicodeFunctions,
		NewPowPrecision: ia.stngs.UseNewPowPrecision,
		Reader:          readerAdapter{view: st.view},
		ThisAddress:     this,
		TxID:            st.txID,
		Timestamp:       st.timestamp,
		Invoke:          ia.invokeFunc(st, this, result),
	}
	env.SetInvocation(caller, callerPK, payments, fee, feeAsset)
	return env
}

// invokeFunc builds the synchronous dApp-to-dApp invocation callback for
// the evaluator: depth-bound, reentrancy-checked, accumulating complexity
// against the shared budget, with the callee's actions applied immediately
// so subsequent reads of the caller observe them.
func (ia *InvokeApplier) invokeFunc(st *invocationState, caller proto.Address, parentResult *InvokeScriptResult) ride.InvokeFunc {
	return func(rcp proto.Recipient, fn string, args proto.Arguments, payments []proto.ScriptPayment, reentrant bool) (ride.RideResult, error) {
		if st.depth+1 > settings.MaxSyncDepth {
			return nil, errs.NewGenericError(fmt.Sprintf("sync call depth exceeds the limit of %d", settings.MaxSyncDepth))
		}
		callee, err := st.view.ResolveRecipient(rcp)
		if err != nil {
			return nil, err
		}
		calleeScript, err := st.view.AccountScript(callee)
		if err != nil {
			return nil, err
		}
		if calleeScript == nil || calleeScript.Script == nil {
			return nil, errs.NewGenericError(fmt.Sprintf("no script on address %s", callee.String()))
		}
		calleeTree := calleeScript.Script
		if st.onStack(callee) && !calleeTree.AllowReentrancy && !reentrant {
			return nil, errs.NewReentrancyDisallowed(fmt.Sprintf("the invocation stack contains multiple invocations of the dApp at address %s with invocations of another dApp between them", callee.String()))
		}
		// Attached payments move caller funds to the callee before the
		// callee body runs, including asset-script verification.
		for _, payment := range payments {
			action := proto.AttachedPaymentScriptAction{
				Sender:    caller,
				Recipient: proto.NewRecipientFromAddress(callee),
				Amount:    int64(payment.Amount),
				Asset:     payment.Asset,
			}
			if err := ia.applyAttachedPayment(st, action); err != nil {
				return nil, err
			}
		}
		if st.totalComplexity >= settings.TotalComplexityLimit {
			return nil, errs.NewGenericError(fmt.Sprintf("total complexity of invocation exceeds the limit of %d", settings.TotalComplexityLimit))
		}
		remaining := settings.TotalComplexityLimit - st.totalComplexity

		innerResult := NewInvokeScriptResult()
		childEnv := ia.newEnvironment(st, callee, caller, crypto.PublicKey{}, payments, 0, proto.NewOptionalWaves(), innerResult)
		st.depth++
		st.stack = append(st.stack, callee)
		res, err := ride.CallFunction(childEnv, calleeTree, fn, args, remaining)
		st.stack = st.stack[:len(st.stack)-1]
		st.depth--
		if err != nil {
			st.totalComplexity += ride.EvaluationErrorSpentComplexity(err)
			return nil, err
		}
		st.totalComplexity += res.Complexity()
		st.scriptsRun++
		innerResult.AppendActions(res.ScriptActions())
		if err := ia.applyActions(st, callee, calleeScript.PK, res.ScriptActions(), res); err != nil {
			return nil, err
		}
		parentResult.AppendInvoke(InnerInvoke{
			DApp:         callee,
			Function:     fn,
			Payments:     payments,
			StateChanges: innerResult,
		})
		return res, nil
	}
}

func (ia *InvokeApplier) applyAttachedPayment(st *invocationState, action proto.AttachedPaymentScriptAction) error {
	recipient, err := st.view.ResolveRecipient(action.Recipient)
	if err != nil {
		return err
	}
	if action.Amount < 0 {
		return ia.failOrReject(st, fmt.Sprintf("Negative payment amount = %d", action.Amount))
	}
	if action.Asset.Present {
		pseudo := proto.TransferPseudoTx{
			ID:        st.txID,
			Sender:    action.Sender,
			Recipient: action.Recipient,
			Amount:    action.Amount,
			Asset:     action.Asset,
			Timestamp: st.timestamp,
		}
		if err := ia.callAssetScriptIfPresent(st, action.Asset.ID, pseudo); err != nil {
			return err
		}
		if err := st.view.Diff().AddPortfolio(action.Sender, NewAssetPortfolio(action.Asset.ID, -action.Amount)); err != nil {
			return err
		}
		return st.view.Diff().AddPortfolio(recipient, NewAssetPortfolio(action.Asset.ID, action.Amount))
	}
	if err := st.view.Diff().AddPortfolio(action.Sender, NewWavesPortfolio(-action.Amount)); err != nil {
		return err
	}
	return st.view.Diff().AddPortfolio(recipient, NewWavesPortfolio(action.Amount))
}

// callAssetScriptIfPresent runs the asset script over the pseudo
// transaction when the asset is scripted. Only a true result lets the
// action through; false and exceptions are failed-transaction errors
// carrying the asset script complexity.
func (ia *InvokeApplier) callAssetScriptIfPresent(st *invocationState, asset crypto.Digest, pseudo proto.PseudoTx) error {
	scriptInfo, err := st.view.AssetScript(asset)
	if err != nil {
		return err
	}
	if scriptInfo == nil || scriptInfo.Script == nil {
		return nil
	}
	env := &ride.EvaluationEnvironment{
		Scheme:          ia.stngs.AddressSchemeCharacter,
		Height:          st.height,
		Lib:             scriptInfo.Script.LibVersion,
		FixUnicode:      ia.stngs.FixUnicodeFunctions,
		NewPowPrecision: ia.stngs.UseNewPowPrecision,
		Reader:          readerAdapter{view: st.view},
		TxID:            st.txID,
		Timestamp:       st.timestamp,
	}
	if err := env.SetPseudoTransaction(pseudo); err != nil {
		return errs.NewGenericError(err.Error())
	}
	limit := settings.MaxComplexityByVersion(scriptInfo.Script.LibVersion)
	prior := st.totalComplexity
	res, err := ride.CallVerifier(env, scriptInfo.Script, limit)
	st.scriptsRun++
	st.extraScriptRuns++
	if err != nil {
		local := ride.EvaluationErrorSpentComplexity(err)
		st.totalComplexity += local
		return errs.AddComplexity(
			errs.NewAssetExecutionInAction(err.Error(), local, ride.EvaluationErrorLog(err), asset.String()),
			prior)
	}
	st.totalComplexity += res.Complexity()
	if !res.Result() {
		return errs.AddComplexity(
			errs.NewNotAllowedByAssetInAction(res.Complexity(), res.Log(), asset.String()),
			prior)
	}
	return nil
}

// applyActions folds the ordered action list into the working Diff with a
// composite view that already includes all prior actions.
func (ia *InvokeApplier) applyActions(st *invocationState, performer proto.Address, performerPK crypto.PublicKey, actions proto.ScriptActions, res ride.RideResult) error {
	diff := st.view.Diff()
	for _, action := range actions {
		switch a := action.(type) {
		case proto.DataEntryScriptAction:
			forbidEmpty := st.lib >= settings.StdLibV4
			if err := proto.ValidateEntry(a.Entry, settings.MaxKeySize(st.lib), forbidEmpty); err != nil {
				return err
			}
			st.dataEntries++
			st.dataBytes += a.Entry.PayloadSize()
			diff.PutDataEntry(performer, a.Entry)

		case proto.TransferScriptAction:
			if a.Amount < 0 {
				return ia.failOrReject(st, fmt.Sprintf("Negative transfer amount = %d", a.Amount))
			}
			st.actionsCount++
			recipient, err := st.view.ResolveRecipient(a.Recipient)
			if err != nil {
				return err
			}
			if a.Asset.Present {
				desc, err := st.view.AssetDescription(a.Asset.ID)
				if err != nil {
					return err
				}
				if desc == nil {
					return errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s in transfer", a.Asset.ID.String()))
				}
				pseudo := proto.TransferPseudoTx{
					ID:        st.txID,
					Sender:    performer,
					SenderPK:  performerPK,
					Recipient: a.Recipient,
					Amount:    a.Amount,
					Asset:     a.Asset,
					Timestamp: st.timestamp,
				}
				if err := ia.callAssetScriptIfPresent(st, a.Asset.ID, pseudo); err != nil {
					return err
				}
				if err := diff.AddPortfolio(performer, NewAssetPortfolio(a.Asset.ID, -a.Amount)); err != nil {
					return err
				}
				if err := diff.AddPortfolio(recipient, NewAssetPortfolio(a.Asset.ID, a.Amount)); err != nil {
					return err
				}
			} else {
				if err := diff.AddPortfolio(performer, NewWavesPortfolio(-a.Amount)); err != nil {
					return err
				}
				if err := diff.AddPortfolio(recipient, NewWavesPortfolio(a.Amount)); err != nil {
					return err
				}
			}

		case proto.IssueScriptAction:
			if a.Quantity < 0 {
				return ia.failOrReject(st, fmt.Sprintf("Negative issue quantity = %d", a.Quantity))
			}
			st.actionsCount++
			existing, err := st.view.AssetDescription(a.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				if ia.stngs.SyncDAppCheckTransfers(st.height) {
					return errs.NewAssetAlreadyExists(fmt.Sprintf("asset %s already exists", a.ID.String()))
				}
				return errs.NewDAppExecutionError(fmt.Sprintf("asset %s already exists", a.ID.String()), st.totalComplexity, "")
			}
			nft := a.Quantity == 1 && a.Decimals == 0 && !a.Reissuable && ia.stngs.ReducedNFTFee(st.height)
			if !nft {
				st.nonNftIssues++
			}
			info := NewAssetInfo{
				Static: AssetStaticInfo{
					SourceTx: st.txID,
					IssuerPK: performerPK,
					Decimals: a.Decimals,
					NFT:      nft,
				},
				Info: AssetInfo{Name: a.Name, Description: a.Description, LastUpdatedHeight: st.height},
			}
			info.Volume.Reissuable = a.Reissuable
			info.Volume.TotalVolume.SetInt64(a.Quantity)
			diff.IssuedAssets[a.ID] = info
			if err := diff.AddPortfolio(performer, NewAssetPortfolio(a.ID, a.Quantity)); err != nil {
				return err
			}

		case proto.ReissueScriptAction:
			if a.Quantity < 0 {
				return ia.failOrReject(st, fmt.Sprintf("Negative reissue quantity = %d", a.Quantity))
			}
			st.actionsCount++
			desc, err := st.view.AssetDescription(a.AssetID)
			if err != nil {
				return err
			}
			if desc == nil {
				return errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s in reissue", a.AssetID.String()))
			}
			if issuer, err := proto.NewAddressFromPublicKey(ia.stngs.AddressSchemeCharacter, desc.IssuerPK); err != nil || issuer != performer {
				return errs.NewGenericError("asset was issued by other address")
			}
			if !desc.Reissuable {
				return errs.NewAssetIsNotReissuable("attempt to reissue an asset which is not reissuable")
			}
			if err := ia.callAssetScriptIfPresent(st, a.AssetID, proto.ReissuePseudoTx{
				ID:         st.txID,
				Sender:     performer,
				SenderPK:   performerPK,
				AssetID:    a.AssetID,
				Quantity:   a.Quantity,
				Reissuable: a.Reissuable,
				Timestamp:  st.timestamp,
			}); err != nil {
				return err
			}
			ia.addVolumeUpdate(diff, a.AssetID, a.Quantity, a.Reissuable)
			if err := diff.AddPortfolio(performer, NewAssetPortfolio(a.AssetID, a.Quantity)); err != nil {
				return err
			}

		case proto.BurnScriptAction:
			if a.Quantity < 0 {
				return ia.failOrReject(st, fmt.Sprintf("Negative burn quantity = %d", a.Quantity))
			}
			st.actionsCount++
			desc, err := st.view.AssetDescription(a.AssetID)
			if err != nil {
				return err
			}
			if desc == nil {
				return errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s in burn", a.AssetID.String()))
			}
			if err := ia.callAssetScriptIfPresent(st, a.AssetID, proto.BurnPseudoTx{
				ID:        st.txID,
				Sender:    performer,
				SenderPK:  performerPK,
				AssetID:   a.AssetID,
				Quantity:  a.Quantity,
				Timestamp: st.timestamp,
			}); err != nil {
				return err
			}
			ia.addVolumeUpdate(diff, a.AssetID, -a.Quantity, desc.Reissuable)
			if err := diff.AddPortfolio(performer, NewAssetPortfolio(a.AssetID, -a.Quantity)); err != nil {
				return err
			}

		case proto.SponsorshipScriptAction:
			st.actionsCount++
			desc, err := st.view.AssetDescription(a.AssetID)
			if err != nil {
				return err
			}
			if desc == nil {
				return errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s in sponsorship", a.AssetID.String()))
			}
			if issuer, err := proto.NewAddressFromPublicKey(ia.stngs.AddressSchemeCharacter, desc.IssuerPK); err != nil || issuer != performer {
				return errs.NewGenericError("SponsorFee action is available only for assets issued by the dApp")
			}
			if desc.ScriptInfo != nil {
				return errs.NewGenericError("sponsorship of a scripted asset is not allowed")
			}
			if err := ia.callAssetScriptIfPresent(st, a.AssetID, proto.SponsorFeePseudoTx{
				ID:        st.txID,
				Sender:    performer,
				SenderPK:  performerPK,
				AssetID:   a.AssetID,
				MinFee:    a.MinFee,
				Timestamp: st.timestamp,
			}); err != nil {
				return err
			}
			diff.Sponsorships[a.AssetID] = Sponsorship{HasValue: true, MinFee: a.MinFee}

		case proto.LeaseScriptAction:
			if a.Amount <= 0 {
				return ia.failOrReject(st, fmt.Sprintf("Negative lease amount = %d", a.Amount))
			}
			st.actionsCount++
			recipient, err := st.view.ResolveRecipient(a.Recipient)
			if err != nil {
				return err
			}
			if recipient == performer {
				return errs.NewToSelf("trying to lease money to self")
			}
			if existing, err := st.view.LeaseDetails(a.ID); err != nil {
				return err
			} else if existing != nil {
				return errs.NewGenericError(fmt.Sprintf("lease with id %s is already in the state", a.ID.String()))
			}
			diff.LeaseStates[a.ID] = LeaseDetails{
				SenderPK:  performerPK,
				Recipient: proto.NewRecipientFromAddress(recipient),
				Amount:    a.Amount,
				Status:    LeaseActive,
				SourceTx:  st.txID,
				Height:    st.height,
			}
			if err := diff.AddPortfolio(performer, NewLeasePortfolio(0, a.Amount)); err != nil {
				return err
			}
			if err := diff.AddPortfolio(recipient, NewLeasePortfolio(a.Amount, 0)); err != nil {
				return err
			}

		case proto.LeaseCancelScriptAction:
			st.actionsCount++
			if _, ok := st.cancelledLeases[a.LeaseID]; ok {
				st.duplicateLeases = append(st.duplicateLeases, a.LeaseID)
				continue
			}
			st.cancelledLeases[a.LeaseID] = struct{}{}
			lease, err := st.view.LeaseDetails(a.LeaseID)
			if err != nil {
				return err
			}
			if lease == nil {
				return errs.NewGenericError(fmt.Sprintf("lease with id %s not found", a.LeaseID.String()))
			}
			if !lease.IsActive() {
				return errs.NewGenericError(fmt.Sprintf("cannot cancel lease %s which is already cancelled", a.LeaseID.String()))
			}
			leaseSender := performer
			if lease.SenderPK != (crypto.PublicKey{}) {
				addr, err := proto.NewAddressFromPublicKey(ia.stngs.AddressSchemeCharacter, lease.SenderPK)
				if err != nil {
					return errs.NewInvalidAddress(err.Error())
				}
				leaseSender = addr
			}
			if leaseSender != performer {
				return errs.NewGenericError("lease was leased by other sender")
			}
			recipient, err := st.view.ResolveRecipient(lease.Recipient)
			if err != nil {
				return err
			}
			cancelled := *lease
			cancelled.Status = LeaseCancelled
			cancelled.CancelHeight = st.height
			cancelled.CancelTx = st.txID
			diff.LeaseStates[a.LeaseID] = cancelled
			if err := diff.AddPortfolio(performer, NewLeasePortfolio(0, -lease.Amount)); err != nil {
				return err
			}
			if err := diff.AddPortfolio(recipient, NewLeasePortfolio(-lease.Amount, 0)); err != nil {
				return err
			}

		case proto.AttachedPaymentScriptAction:
			st.actionsCount++
			if err := ia.applyAttachedPayment(st, a); err != nil {
				return err
			}

		default:
			return errs.NewGenericError(fmt.Sprintf("unsupported script action %T", action))
		}
	}
	return nil
}

func (ia *InvokeApplier) addVolumeUpdate(diff *Diff, asset crypto.Digest, quantity int64, reissuable bool) {
	volume := AssetVolumeInfo{Reissuable: reissuable}
	volume.TotalVolume.Set(big.NewInt(quantity))
	update := UpdatedAssetInfo{Volume: &volume}
	if current, ok := diff.UpdatedAssets[asset]; ok {
		current.combine(update)
		diff.UpdatedAssets[asset] = current
	} else {
		diff.UpdatedAssets[asset] = update
	}
}

// checkFoldLimits enforces the post-fold limits: action counts, write-set
// size and byte size, and duplicate lease cancels.
func (ia *InvokeApplier) checkFoldLimits(st *invocationState, res ride.RideResult) error {
	if len(st.duplicateLeases) > 0 {
		ids := make([]string, len(st.duplicateLeases))
		for i, id := range st.duplicateLeases {
			ids[i] = id.String()
		}
		return errs.NewDAppExecutionError(
			fmt.Sprintf("Duplicate LeaseCancel id(s): %s", strings.Join(ids, ", ")),
			st.totalComplexity, res.Log())
	}
	if max := settings.MaxCallableActions(st.lib); st.actionsCount > max {
		return errs.NewTooBigArray(fmt.Sprintf("too many script actions: %d exceeds the limit of %d", st.actionsCount, max))
	}
	if max := settings.MaxWriteSetSize(st.lib); st.dataEntries > max {
		return errs.NewTooBigArray(fmt.Sprintf("too many data entries: %d exceeds the limit of %d", st.dataEntries, max))
	}
	if st.dataBytes > settings.MaxTotalWriteSetSizeInBytes {
		msg := fmt.Sprintf("storing data size of %d bytes exceeds the limit of %d", st.dataBytes, settings.MaxTotalWriteSetSizeInBytes)
		switch {
		case ia.stngs.SyncDAppCheckTransfers(st.height):
			return errs.NewWriteSetTooLarge(msg)
		case ia.stngs.CheckTotalDataEntriesBytes(st.height):
			return errs.NewDAppExecutionError(msg, st.totalComplexity, res.Log())
		}
	}
	return nil
}

// checkInvokeFee validates the attached fee against the post-hoc minimum
// computed from the used complexity, issued assets and extra script runs.
// A shortage is always a fail-for-fee outcome.
func (ia *InvokeApplier) checkInvokeFee(st *invocationState, snap SnapshotReader, tx *proto.InvokeScript) error {
	if !ia.stngs.SponsorshipActivated(st.height) {
		return nil
	}
	// Steps are derived from the full invocation's complexity: the root
	// callable plus nested sync calls and asset-script runs.
	minFee := minInvokeFee(st.totalComplexity, st.lib, st.nonNftIssues, st.extraScriptRuns)
	feeInWaves := tx.Fee
	if tx.FeeAsset.Present {
		view := NewCompositeView(snap, NewDiff())
		desc, err := view.AssetDescription(tx.FeeAsset.ID)
		if err != nil {
			return err
		}
		if desc == nil {
			return errs.NewUnissuedAsset(fmt.Sprintf("unknown fee asset %s", tx.FeeAsset.ID.String()))
		}
		feeInWaves, err = SponsoredAssetToWaves(tx.Fee, desc.SponsorshipRate)
		if err != nil {
			return err
		}
	}
	if feeInWaves < minFee {
		return errs.NewFeeForActions(
			fmt.Sprintf("Fee in WAVES for InvokeScript transaction (%d) with %d invoked scripts does not exceed minimal value of %d",
				feeInWaves, st.scriptsRun, minFee),
			st.totalComplexity, minFee)
	}
	return nil
}
