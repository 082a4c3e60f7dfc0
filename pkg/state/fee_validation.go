package state

import (
	"fmt"

	"github.com/ccoveille/go-safecast"

	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

func errOverflow(msg string) error {
	return errs.NewOverflowError(msg)
}

// feeConstants lists the base fee in fee units per transaction type.
var feeConstants = map[proto.TransactionType]uint64{
	proto.TransferTransaction:     1,
	proto.IssueTransaction:        settings.IssueFeeBase,
	proto.ReissueTransaction:      settings.IssueFeeBase,
	proto.BurnTransaction:         1,
	proto.LeaseTransaction:        1,
	proto.LeaseCancelTransaction:  1,
	proto.CreateAliasTransaction:  1,
	proto.DataTransaction:         1,
	proto.SponsorshipTransaction:  settings.IssueFeeBase,
	proto.InvokeScriptTransaction: settings.InvokeFeeBase,
}

// minFeeInUnits returns the minimal fee in fee units for the transaction.
// Data transactions pay per started kilobyte of the entry payload, NFT
// issues pay a thousandth of a regular issue.
func minFeeInUnits(tx proto.Transaction, stngs *settings.BlockchainSettings, height uint64) (uint64, error) {
	txType := tx.GetTypeInfo()
	baseFee, ok := feeConstants[txType]
	if !ok {
		return 0, errs.NewGenericError(fmt.Sprintf("bad tx type (%v)", txType))
	}
	fee := baseFee
	switch txType {
	case proto.IssueTransaction:
		itx, ok := tx.(*proto.Issue)
		if !ok {
			return 0, errs.NewGenericError("failed to convert interface to Issue transaction")
		}
		nft := itx.Quantity == 1 && itx.Decimals == 0 && !itx.Reissuable
		if nft && stngs.ReducedNFTFee(height) {
			return fee / 1000, nil
		}
	case proto.DataTransaction:
		dtx, ok := tx.(*proto.DataTx)
		if !ok {
			return 0, errs.NewGenericError("failed to convert interface to Data transaction")
		}
		payload := dtx.Entries.PayloadSize()
		if payload > 0 {
			extra, err := safecast.ToUint64((payload - 1) / 1024)
			if err != nil {
				return 0, errs.NewGenericError(err.Error())
			}
			fee += extra
		}
	}
	if fee == 0 {
		return 0, errs.NewGenericError(fmt.Sprintf("zero fee is not allowed for tx with type (%d)", txType))
	}
	return fee, nil
}

// stepsForComplexity returns the number of fee steps an invocation of the
// given complexity pays for: ceil(complexity / stepLimit), at least one.
func stepsForComplexity(usedComplexity uint64, lib settings.StdLibVersion) uint64 {
	stepLimit := settings.MaxComplexityByVersion(lib)
	if usedComplexity == 0 {
		return 1
	}
	steps := usedComplexity / stepLimit
	if usedComplexity%stepLimit != 0 {
		steps++
	}
	return steps
}

// minInvokeFee is the post-hoc minimum fee of an invocation in base units:
// steps of the invoke base fee, a full issue fee per non-NFT issued asset,
// and the extra script fee per additional script run.
func minInvokeFee(usedComplexity uint64, lib settings.StdLibVersion, nonNftIssues uint64, extraScriptRuns uint64) uint64 {
	steps := stepsForComplexity(usedComplexity, lib)
	return settings.FeeUnit * (settings.InvokeFeeBase*steps +
		nonNftIssues*settings.IssueFeeBase +
		extraScriptRuns*settings.ScriptExtraFee)
}

// checkMinFee validates the attached fee of a non-invoke transaction,
// converting a sponsored-asset fee to base units first.
func checkMinFee(view *CompositeView, tx proto.Transaction, stngs *settings.BlockchainSettings, height uint64) error {
	feeInUnits, err := minFeeInUnits(tx, stngs, height)
	if err != nil {
		return err
	}
	minFee := feeInUnits * settings.FeeUnit
	fee := tx.GetFee()
	feeAsset := tx.GetFeeAsset()
	if feeAsset.Present {
		if !stngs.SponsorshipActivated(height) {
			return errs.NewFeeValidation("sponsored fees are not activated yet")
		}
		desc, err := view.AssetDescription(feeAsset.ID)
		if err != nil {
			return err
		}
		if desc == nil {
			return errs.NewUnissuedAsset(fmt.Sprintf("unknown fee asset %s", feeAsset.ID.String()))
		}
		if desc.SponsorshipRate == 0 {
			return errs.NewFeeValidation(fmt.Sprintf("asset %s is not sponsored, cannot be used to pay fees", feeAsset.ID.String()))
		}
		fee, err = SponsoredAssetToWaves(fee, desc.SponsorshipRate)
		if err != nil {
			return err
		}
	}
	if fee < minFee {
		return errs.NewFeeValidation(fmt.Sprintf("Fee %d does not exceed minimal value of %d WAVES", fee, minFee))
	}
	return nil
}
