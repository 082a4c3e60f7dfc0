package state

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/settings"
	"github.com/wavesplatform/txdiff/pkg/util"
)

// TransactionDiffer assembles a Diff for every supported transaction kind:
// it checks static preconditions, resolves aliases, builds portfolio diffs
// and returns either the Diff or a validation error.
type TransactionDiffer struct {
	stngs  *settings.BlockchainSettings
	logger *zap.Logger
}

func NewTransactionDiffer(stngs *settings.BlockchainSettings, logger *zap.Logger) *TransactionDiffer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionDiffer{stngs: stngs, logger: logger}
}

// CreateDiff dispatches the transaction to its driver. Invoke-script
// transactions are handled by the InvokeApplier.
func (td *TransactionDiffer) CreateDiff(snap SnapshotReader, tx proto.Transaction) (*Diff, error) {
	switch t := tx.(type) {
	case *proto.Transfer:
		return td.createDiffTransfer(snap, t)
	case *proto.Issue:
		return td.createDiffIssue(snap, t)
	case *proto.Reissue:
		return td.createDiffReissue(snap, t)
	case *proto.Burn:
		return td.createDiffBurn(snap, t)
	case *proto.Lease:
		return td.createDiffLease(snap, t)
	case *proto.LeaseCancel:
		return td.createDiffLeaseCancel(snap, t)
	case *proto.CreateAlias:
		return td.createDiffCreateAlias(snap, t)
	case *proto.DataTx:
		return td.createDiffData(snap, t)
	case *proto.Sponsorship:
		return td.createDiffSponsorship(snap, t)
	case *proto.InvokeScript:
		return NewInvokeApplier(td.stngs, td.logger).ApplyInvokeScript(snap, t)
	default:
		return nil, errs.NewGenericError(fmt.Sprintf("no diff driver for transaction type %T", tx))
	}
}

func (td *TransactionDiffer) senderAddress(tx proto.Transaction) (proto.Address, error) {
	addr, err := proto.NewAddressFromPublicKey(td.stngs.AddressSchemeCharacter, tx.GetSenderPK())
	if err != nil {
		return proto.Address{}, errs.NewInvalidAddress(err.Error())
	}
	return addr, nil
}

// checkedSpend validates the total spend of amount plus fee; the overflow
// check is active only before the Ride4DApps activation.
func (td *TransactionDiffer) checkedSpend(amount, fee uint64, height uint64) error {
	if td.stngs.Ride4DAppsActivated(height) {
		return nil
	}
	if _, err := util.AddUint64(amount, fee); err != nil {
		return errs.NewOverflowError("sum of amount and fee overflows")
	}
	return nil
}

// handleFee debits the fee from the sender, converting through the
// sponsorship rate when the fee is paid in a sponsored asset: the issuer
// receives the asset fee and spends the equivalent base-asset fee.
func (td *TransactionDiffer) handleFee(view *CompositeView, diff *Diff, sender proto.Address, fee uint64, feeAsset proto.OptionalAsset, height uint64, affected *[]proto.Address) error {
	if !feeAsset.Present {
		return diff.AddPortfolio(sender, NewWavesPortfolio(-int64(fee)))
	}
	if err := diff.AddPortfolio(sender, NewAssetPortfolio(feeAsset.ID, -int64(fee))); err != nil {
		return err
	}
	if !td.stngs.SponsorshipActivated(height) {
		return errs.NewFeeValidation("sponsored fees are not activated yet")
	}
	desc, err := view.AssetDescription(feeAsset.ID)
	if err != nil {
		return err
	}
	if desc == nil {
		return errs.NewUnissuedAsset(fmt.Sprintf("unknown fee asset %s", feeAsset.ID.String()))
	}
	issuerAddr, err := proto.NewAddressFromPublicKey(td.stngs.AddressSchemeCharacter, desc.IssuerPK)
	if err != nil {
		return errs.NewInvalidAddress(err.Error())
	}
	if err := diff.AddPortfolio(issuerAddr, NewAssetPortfolio(feeAsset.ID, int64(fee))); err != nil {
		return err
	}
	feeInWaves, err := SponsoredAssetToWaves(fee, desc.SponsorshipRate)
	if err != nil {
		return err
	}
	if err := diff.AddPortfolio(issuerAddr, NewWavesPortfolio(-int64(feeInWaves))); err != nil {
		return err
	}
	*affected = append(*affected, issuerAddr)
	return nil
}

func (td *TransactionDiffer) createDiffTransfer(snap SnapshotReader, tx *proto.Transfer) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if tx.Amount == 0 {
		return nil, errs.NewNonPositiveAmount(0, "waves")
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := td.checkedSpend(tx.Amount, tx.Fee, height); err != nil {
		return nil, err
	}
	if tx.FeeAsset.Present {
		// A scripted fee asset can not be sponsored; its verifier is never
		// run for the fee leg.
		script, err := view.AssetScript(tx.FeeAsset.ID)
		if err != nil {
			return nil, err
		}
		if script != nil {
			return nil, errs.NewFeeValidation(fmt.Sprintf("fee asset %s is scripted and cannot be used to pay fees", tx.FeeAsset.ID.String()))
		}
	}
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	recipient, err := view.ResolveRecipient(tx.Recipient)
	if err != nil {
		return nil, err
	}
	affected := []proto.Address{sender, recipient}
	if err := td.handleFee(view, diff, sender, tx.Fee, tx.FeeAsset, height, &affected); err != nil {
		return nil, err
	}
	if tx.AmountAsset.Present {
		if err := diff.AddPortfolio(sender, NewAssetPortfolio(tx.AmountAsset.ID, -int64(tx.Amount))); err != nil {
			return nil, err
		}
		if err := diff.AddPortfolio(recipient, NewAssetPortfolio(tx.AmountAsset.ID, int64(tx.Amount))); err != nil {
			return nil, err
		}
	} else {
		if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Amount))); err != nil {
			return nil, err
		}
		if err := diff.AddPortfolio(recipient, NewWavesPortfolio(int64(tx.Amount))); err != nil {
			return nil, err
		}
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.BindTransaction(id, tx, affected, true, 0)
	td.logger.Debug("transfer diff created", zap.String("tx", id.String()))
	return diff, nil
}

func (td *TransactionDiffer) createDiffIssue(snap SnapshotReader, tx *proto.Issue) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if tx.Quantity == 0 {
		return nil, errs.NewNonPositiveAmount(0, tx.Name)
	}
	if l := len(tx.Name); l < 4 || l > 16 {
		return nil, errs.NewInvalidName("invalid asset name")
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	nft := tx.Quantity == 1 && tx.Decimals == 0 && !tx.Reissuable && td.stngs.ReducedNFTFee(height)
	info := NewAssetInfo{
		Static: AssetStaticInfo{
			SourceTx: id,
			IssuerPK: tx.SenderPK,
			Decimals: int32(tx.Decimals),
			NFT:      nft,
		},
		Info: AssetInfo{Name: tx.Name, Description: tx.Description, LastUpdatedHeight: height},
	}
	info.Volume.Reissuable = tx.Reissuable
	info.Volume.TotalVolume.SetUint64(tx.Quantity)
	diff.IssuedAssets[id] = info
	if err := diff.AddPortfolio(sender, NewAssetPortfolio(id, int64(tx.Quantity))); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	diff.BindTransaction(id, tx, []proto.Address{sender}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffReissue(snap SnapshotReader, tx *proto.Reissue) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if tx.Quantity == 0 {
		return nil, errs.NewNonPositiveAmount(0, "asset")
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	desc, err := view.AssetDescription(tx.AssetID)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s", tx.AssetID.String()))
	}
	if desc.IssuerPK != tx.SenderPK {
		return nil, errs.NewGenericError("asset was issued by other address")
	}
	if !desc.Reissuable {
		return nil, errs.NewAssetIsNotReissuable("attempt to reissue an asset which is not reissuable")
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	volume := AssetVolumeInfo{Reissuable: tx.Reissuable}
	volume.TotalVolume.SetUint64(tx.Quantity)
	update := UpdatedAssetInfo{Volume: &volume}
	if current, ok := diff.UpdatedAssets[tx.AssetID]; ok {
		current.combine(update)
		diff.UpdatedAssets[tx.AssetID] = current
	} else {
		diff.UpdatedAssets[tx.AssetID] = update
	}
	if err := diff.AddPortfolio(sender, NewAssetPortfolio(tx.AssetID, int64(tx.Quantity))); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.BindTransaction(id, tx, []proto.Address{sender}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffBurn(snap SnapshotReader, tx *proto.Burn) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	desc, err := view.AssetDescription(tx.AssetID)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s", tx.AssetID.String()))
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	volume := AssetVolumeInfo{Reissuable: desc.Reissuable}
	volume.TotalVolume.Neg(new(big.Int).SetUint64(tx.Amount))
	update := UpdatedAssetInfo{Volume: &volume}
	if current, ok := diff.UpdatedAssets[tx.AssetID]; ok {
		current.combine(update)
		diff.UpdatedAssets[tx.AssetID] = current
	} else {
		diff.UpdatedAssets[tx.AssetID] = update
	}
	if err := diff.AddPortfolio(sender, NewAssetPortfolio(tx.AssetID, -int64(tx.Amount))); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.BindTransaction(id, tx, []proto.Address{sender}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffLease(snap SnapshotReader, tx *proto.Lease) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if tx.Amount == 0 {
		return nil, errs.NewNonPositiveAmount(0, "waves")
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	recipient, err := view.ResolveRecipient(tx.Recipient)
	if err != nil {
		return nil, err
	}
	if sender == recipient {
		return nil, errs.NewToSelf("trying to lease money to self")
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.LeaseStates[id] = LeaseDetails{
		SenderPK:  tx.SenderPK,
		Recipient: proto.NewRecipientFromAddress(recipient),
		Amount:    int64(tx.Amount),
		Status:    LeaseActive,
		SourceTx:  id,
		Height:    height,
	}
	if err := diff.AddPortfolio(sender, NewLeasePortfolio(0, int64(tx.Amount))); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(recipient, NewLeasePortfolio(int64(tx.Amount), 0)); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	diff.BindTransaction(id, tx, []proto.Address{sender, recipient}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffLeaseCancel(snap SnapshotReader, tx *proto.LeaseCancel) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	lease, err := view.LeaseDetails(tx.LeaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, errs.NewGenericError(fmt.Sprintf("no leasing info found for lease %s", tx.LeaseID.String()))
	}
	if !lease.IsActive() {
		return nil, errs.NewGenericError(fmt.Sprintf("cannot cancel lease %s which is already cancelled", tx.LeaseID.String()))
	}
	if lease.SenderPK != tx.SenderPK {
		return nil, errs.NewGenericError("lease was leased by other sender")
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	recipient, err := view.ResolveRecipient(lease.Recipient)
	if err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	cancelled := *lease
	cancelled.Status = LeaseCancelled
	cancelled.CancelHeight = height
	cancelled.CancelTx = id
	diff.LeaseStates[tx.LeaseID] = cancelled
	if err := diff.AddPortfolio(sender, NewLeasePortfolio(0, -lease.Amount)); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(recipient, NewLeasePortfolio(-lease.Amount, 0)); err != nil {
		return nil, err
	}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	diff.BindTransaction(id, tx, []proto.Address{sender, recipient}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffCreateAlias(snap SnapshotReader, tx *proto.CreateAlias) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if ok, err := tx.Alias.Valid(); !ok {
		return nil, errs.NewGenericError(err.Error())
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	existing, err := view.AddrByAlias(tx.Alias.Alias)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.NewGenericError(fmt.Sprintf("alias '%s' is already taken", tx.Alias.Alias))
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	diff.Aliases[tx.Alias.Alias] = sender
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.BindTransaction(id, tx, []proto.Address{sender}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffData(snap SnapshotReader, tx *proto.DataTx) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	keySize := settings.MaxKeySize(settings.StdLibV3)
	if td.stngs.SyncDAppCheckTransfers(height) {
		keySize = settings.MaxKeySize(settings.StdLibV4)
	}
	if err := tx.Entries.Valid(keySize, true); err != nil {
		return nil, err
	}
	if payload := tx.Entries.PayloadSize(); payload > settings.DataTxMaxBytes {
		return nil, errs.NewTooBigArray(fmt.Sprintf("data transaction payload of %d bytes exceeds the limit of %d", payload, settings.DataTxMaxBytes))
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	for _, entry := range tx.Entries {
		diff.PutDataEntry(sender, entry)
	}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.BindTransaction(id, tx, []proto.Address{sender}, true, 0)
	return diff, nil
}

func (td *TransactionDiffer) createDiffSponsorship(snap SnapshotReader, tx *proto.Sponsorship) (*Diff, error) {
	height, err := snap.Height()
	if err != nil {
		return nil, err
	}
	if !td.stngs.SponsorshipActivated(height) {
		return nil, errs.NewGenericError("sponsorship has not been activated yet")
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)
	if err := checkMinFee(view, tx, td.stngs, height); err != nil {
		return nil, err
	}
	desc, err := view.AssetDescription(tx.AssetID)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errs.NewUnissuedAsset(fmt.Sprintf("unknown asset %s", tx.AssetID.String()))
	}
	if desc.IssuerPK != tx.SenderPK {
		return nil, errs.NewGenericError("asset was issued by other address")
	}
	sender, err := td.senderAddress(tx)
	if err != nil {
		return nil, err
	}
	diff.Sponsorships[tx.AssetID] = Sponsorship{HasValue: true, MinFee: int64(tx.MinAssetFee)}
	if err := diff.AddPortfolio(sender, NewWavesPortfolio(-int64(tx.Fee))); err != nil {
		return nil, err
	}
	id, err := tx.GetID()
	if err != nil {
		return nil, errs.NewGenericError(err.Error())
	}
	diff.BindTransaction(id, tx, []proto.Address{sender}, true, 0)
	return diff, nil
}
