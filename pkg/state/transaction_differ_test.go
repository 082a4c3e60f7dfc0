package state

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

func newTestDiffer() *TransactionDiffer {
	return NewTransactionDiffer(settings.TestSettings(), nil)
}

func TestTransferDiff(t *testing.T) {
	senderPK, sender := testAccount(t, "transfer sender")
	_, recipient := testAccount(t, "transfer recipient")
	snap := newTestSnapshot(100)
	snap.profiles[sender] = BalanceProfile{Balance: 10_000_000}

	tx := &proto.Transfer{
		Recipient: proto.NewRecipientFromAddress(recipient),
		Amount:    1_000_000,
	}
	tx.ID = testDigestPtr("transfer tx")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	diff, err := newTestDiffer().CreateDiff(snap, tx)
	require.NoError(t, err)
	assert.EqualValues(t, -1_000_000-int64(settings.FeeUnit), diff.Portfolios[sender].Balance)
	assert.EqualValues(t, 1_000_000, diff.Portfolios[recipient].Balance)

	info, ok := diff.Transactions.Get(*tx.ID)
	require.True(t, ok)
	assert.True(t, info.Applied)
	_, senderAffected := info.Affected[sender]
	_, recipientAffected := info.Affected[recipient]
	assert.True(t, senderAffected)
	assert.True(t, recipientAffected)
}

func TestTransferDiffResolvesAlias(t *testing.T) {
	senderPK, _ := testAccount(t, "alias transfer sender")
	_, recipient := testAccount(t, "alias transfer recipient")
	snap := newTestSnapshot(100)
	snap.aliases["merry"] = recipient

	alias, err := proto.NewAlias(settings.CustomScheme, "merry")
	require.NoError(t, err)
	tx := &proto.Transfer{
		Recipient: proto.NewRecipientFromAlias(*alias),
		Amount:    500,
	}
	tx.ID = testDigestPtr("alias transfer")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	diff, err := newTestDiffer().CreateDiff(snap, tx)
	require.NoError(t, err)
	assert.EqualValues(t, 500, diff.Portfolios[recipient].Balance)
}

func TestTransferDiffUnknownAliasRejected(t *testing.T) {
	senderPK, _ := testAccount(t, "missing alias sender")
	snap := newTestSnapshot(100)
	alias, err := proto.NewAlias(settings.CustomScheme, "ghost")
	require.NoError(t, err)
	tx := &proto.Transfer{
		Recipient: proto.NewRecipientFromAlias(*alias),
		Amount:    500,
	}
	tx.ID = testDigestPtr("missing alias transfer")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	_, err = newTestDiffer().CreateDiff(snap, tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.AliasDoesNotExist{}))
}

func TestTransferDiffSponsoredFee(t *testing.T) {
	senderPK, sender := testAccount(t, "sponsored transfer sender")
	issuerPK, issuer := testAccount(t, "sponsor issuer")
	_, recipient := testAccount(t, "sponsored transfer recipient")
	asset := testDigest("sponsored fee asset")

	snap := newTestSnapshot(100)
	desc := &AssetDescription{IssuerPK: issuerPK, Name: "spnsr", SponsorshipRate: 100_000}
	desc.TotalVolume.SetInt64(1_000_000)
	snap.assets[asset] = desc

	tx := &proto.Transfer{
		Recipient: proto.NewRecipientFromAddress(recipient),
		Amount:    100,
		FeeAsset:  proto.NewOptionalAssetFromDigest(asset),
	}
	tx.ID = testDigestPtr("sponsored transfer")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	diff, err := newTestDiffer().CreateDiff(snap, tx)
	require.NoError(t, err)
	// The sender pays the fee in the asset, the issuer receives it and
	// spends the converted base-asset fee.
	assert.EqualValues(t, -int64(settings.FeeUnit), diff.Portfolios[sender].Assets[asset])
	assert.EqualValues(t, int64(settings.FeeUnit), diff.Portfolios[issuer].Assets[asset])
	assert.EqualValues(t, -int64(settings.FeeUnit), diff.Portfolios[issuer].Balance)
}

func TestTransferDiffScriptedFeeAssetRejected(t *testing.T) {
	senderPK, _ := testAccount(t, "scripted fee sender")
	issuerPK, _ := testAccount(t, "scripted fee issuer")
	_, recipient := testAccount(t, "scripted fee recipient")
	asset := testDigest("scripted fee asset")

	snap := newTestSnapshot(100)
	desc := &AssetDescription{IssuerPK: issuerPK, SponsorshipRate: 100_000}
	desc.TotalVolume.SetInt64(1000)
	snap.assets[asset] = desc
	snap.assetScripts[asset] = &AssetScriptInfo{Script: trueTree(settings.StdLibV4)}

	tx := &proto.Transfer{
		Recipient: proto.NewRecipientFromAddress(recipient),
		Amount:    100,
		FeeAsset:  proto.NewOptionalAssetFromDigest(asset),
	}
	tx.ID = testDigestPtr("scripted fee transfer")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	_, err := newTestDiffer().CreateDiff(snap, tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.FeeValidation{}))
}

func TestDataDiffWritesEntries(t *testing.T) {
	senderPK, sender := testAccount(t, "data sender")
	snap := newTestSnapshot(100)
	tx := &proto.DataTx{
		Entries: proto.DataEntries{
			proto.IntegerDataEntry{Key: "counter", Value: 7},
			proto.DeleteDataEntry{Key: "stale"},
		},
	}
	tx.ID = testDigestPtr("data tx")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	diff, err := newTestDiffer().CreateDiff(snap, tx)
	require.NoError(t, err)
	assert.Equal(t, proto.IntegerDataEntry{Key: "counter", Value: 7}, diff.AccountData[sender]["counter"])
	assert.Equal(t, proto.DeleteDataEntry{Key: "stale"}, diff.AccountData[sender]["stale"])
}

func TestDataDiffRejectsDuplicateKeys(t *testing.T) {
	senderPK, _ := testAccount(t, "dup data sender")
	snap := newTestSnapshot(100)
	tx := &proto.DataTx{
		Entries: proto.DataEntries{
			proto.IntegerDataEntry{Key: "k", Value: 1},
			proto.StringDataEntry{Key: "k", Value: "v"},
		},
	}
	tx.ID = testDigestPtr("dup data tx")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	_, err := newTestDiffer().CreateDiff(snap, tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.DuplicatedDataKeys{}))
}

func TestLeaseLifecycle(t *testing.T) {
	senderPK, sender := testAccount(t, "lease sender")
	_, recipient := testAccount(t, "lease recipient")
	snap := newTestSnapshot(100)

	lease := &proto.Lease{
		Recipient: proto.NewRecipientFromAddress(recipient),
		Amount:    1_000_000,
	}
	lease.ID = testDigestPtr("lease tx")
	lease.SenderPK = senderPK
	lease.Fee = settings.FeeUnit

	differ := newTestDiffer()
	diff, err := differ.CreateDiff(snap, lease)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, diff.Portfolios[sender].LeaseOut)
	assert.EqualValues(t, 1_000_000, diff.Portfolios[recipient].LeaseIn)
	details := diff.LeaseStates[*lease.ID]
	assert.True(t, details.IsActive())

	// Commit the lease into the snapshot and cancel it.
	snap.leases[*lease.ID] = &details
	cancel := &proto.LeaseCancel{LeaseID: *lease.ID}
	cancel.ID = testDigestPtr("lease cancel tx")
	cancel.SenderPK = senderPK
	cancel.Fee = settings.FeeUnit

	cancelDiff, err := differ.CreateDiff(snap, cancel)
	require.NoError(t, err)
	assert.EqualValues(t, -1_000_000, cancelDiff.Portfolios[sender].LeaseOut)
	assert.EqualValues(t, -1_000_000, cancelDiff.Portfolios[recipient].LeaseIn)
	cancelled := cancelDiff.LeaseStates[*lease.ID]
	assert.Equal(t, LeaseCancelled, cancelled.Status)
	assert.Equal(t, *cancel.ID, cancelled.CancelTx)

	// A second cancel of the same lease must be rejected.
	snap.leases[*lease.ID] = &cancelled
	_, err = differ.CreateDiff(snap, cancel)
	assert.Error(t, err)
}

func TestLeaseToSelfRejected(t *testing.T) {
	senderPK, sender := testAccount(t, "self lease")
	snap := newTestSnapshot(100)
	tx := &proto.Lease{
		Recipient: proto.NewRecipientFromAddress(sender),
		Amount:    100,
	}
	tx.ID = testDigestPtr("self lease tx")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	_, err := newTestDiffer().CreateDiff(snap, tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ToSelf{}))
}

func TestCreateAliasDiff(t *testing.T) {
	senderPK, sender := testAccount(t, "alias creator")
	snap := newTestSnapshot(100)
	alias, err := proto.NewAlias(settings.CustomScheme, "shiny")
	require.NoError(t, err)
	tx := &proto.CreateAlias{Alias: *alias}
	tx.ID = testDigestPtr("create alias tx")
	tx.SenderPK = senderPK
	tx.Fee = settings.FeeUnit

	differ := newTestDiffer()
	diff, err := differ.CreateDiff(snap, tx)
	require.NoError(t, err)
	assert.Equal(t, sender, diff.Aliases["shiny"])

	// Second registration of the same alias is rejected.
	snap.aliases["shiny"] = sender
	_, err = differ.CreateDiff(snap, tx)
	assert.Error(t, err)
}

func TestSponsorshipDiffOnlyIssuer(t *testing.T) {
	issuerPK, _ := testAccount(t, "sponsorship issuer")
	strangerPK, _ := testAccount(t, "sponsorship stranger")
	asset := testDigest("sponsorship asset")
	snap := newTestSnapshot(100)
	desc := &AssetDescription{IssuerPK: issuerPK}
	desc.TotalVolume.SetInt64(100)
	snap.assets[asset] = desc

	tx := &proto.Sponsorship{AssetID: asset, MinAssetFee: 7}
	tx.ID = testDigestPtr("sponsorship tx")
	tx.SenderPK = issuerPK
	tx.Fee = settings.IssueFeeBase * settings.FeeUnit

	differ := newTestDiffer()
	diff, err := differ.CreateDiff(snap, tx)
	require.NoError(t, err)
	assert.Equal(t, Sponsorship{HasValue: true, MinFee: 7}, diff.Sponsorships[asset])

	tx.SenderPK = strangerPK
	tx.ID = testDigestPtr("sponsorship tx 2")
	_, err = differ.CreateDiff(snap, tx)
	assert.Error(t, err)
}

func TestReissueNonReissuableRejected(t *testing.T) {
	issuerPK, _ := testAccount(t, "reissue issuer")
	asset := testDigest("frozen asset")
	snap := newTestSnapshot(100)
	desc := &AssetDescription{IssuerPK: issuerPK, Reissuable: false}
	desc.TotalVolume.SetInt64(100)
	snap.assets[asset] = desc

	tx := &proto.Reissue{AssetID: asset, Quantity: 10, Reissuable: false}
	tx.ID = testDigestPtr("reissue tx")
	tx.SenderPK = issuerPK
	tx.Fee = settings.IssueFeeBase * settings.FeeUnit

	_, err := newTestDiffer().CreateDiff(snap, tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.AssetIsNotReissuable{}))
}

func TestBurnUpdatesVolume(t *testing.T) {
	issuerPK, issuer := testAccount(t, "burn issuer")
	asset := testDigest("burnable asset")
	snap := newTestSnapshot(100)
	desc := &AssetDescription{IssuerPK: issuerPK, Reissuable: true}
	desc.TotalVolume.SetInt64(100)
	snap.assets[asset] = desc

	tx := &proto.Burn{AssetID: asset, Amount: 40}
	tx.ID = testDigestPtr("burn tx")
	tx.SenderPK = issuerPK
	tx.Fee = settings.FeeUnit

	diff, err := newTestDiffer().CreateDiff(snap, tx)
	require.NoError(t, err)
	update := diff.UpdatedAssets[asset]
	require.NotNil(t, update.Volume)
	assert.EqualValues(t, -40, update.Volume.TotalVolume.Int64())
	assert.EqualValues(t, -40, diff.Portfolios[issuer].Assets[asset])
}
