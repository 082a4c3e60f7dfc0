package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/txdiff/pkg/proto"
)

func TestCompositeOverlayShadowsSnapshot(t *testing.T) {
	_, addr := testAccount(t, "composite")
	snap := newTestSnapshot(10)
	snap.profiles[addr] = BalanceProfile{Balance: 1000}
	snap.data[addr] = map[string]proto.DataEntry{
		"committed": proto.StringDataEntry{Key: "committed", Value: "old"},
	}

	diff := NewDiff()
	view := NewCompositeView(snap, diff)

	balance, err := view.WavesBalance(addr)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, balance)

	require.NoError(t, diff.AddPortfolio(addr, NewWavesPortfolio(-300)))
	balance, err = view.WavesBalance(addr)
	require.NoError(t, err)
	assert.EqualValues(t, 700, balance)

	entry, err := view.DataEntry(addr, "committed")
	require.NoError(t, err)
	assert.Equal(t, proto.StringDataEntry{Key: "committed", Value: "old"}, entry)

	diff.PutDataEntry(addr, proto.StringDataEntry{Key: "committed", Value: "new"})
	entry, err = view.DataEntry(addr, "committed")
	require.NoError(t, err)
	assert.Equal(t, proto.StringDataEntry{Key: "committed", Value: "new"}, entry)
}

func TestCompositeDeleteEntryHidesCommittedValue(t *testing.T) {
	_, addr := testAccount(t, "composite delete")
	snap := newTestSnapshot(10)
	snap.data[addr] = map[string]proto.DataEntry{
		"k": proto.IntegerDataEntry{Key: "k", Value: 42},
	}
	diff := NewDiff()
	view := NewCompositeView(snap, diff)

	diff.PutDataEntry(addr, proto.DeleteDataEntry{Key: "k"})
	entry, err := view.DataEntry(addr, "k")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCompositeAliasResolution(t *testing.T) {
	_, committed := testAccount(t, "committed alias owner")
	_, inflight := testAccount(t, "inflight alias owner")
	snap := newTestSnapshot(10)
	snap.aliases["stored"] = committed
	diff := NewDiff()
	diff.Aliases["fresh"] = inflight
	view := NewCompositeView(snap, diff)

	addr, err := view.AddrByAlias("stored")
	require.NoError(t, err)
	assert.Equal(t, committed, *addr)

	addr, err = view.AddrByAlias("fresh")
	require.NoError(t, err)
	assert.Equal(t, inflight, *addr)

	missing, err := view.AddrByAlias("nothere")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCompositeAssetDescriptionOverlays(t *testing.T) {
	pk, _ := testAccount(t, "asset issuer")
	asset := testDigest("overlaid asset")
	snap := newTestSnapshot(10)
	desc := &AssetDescription{IssuerPK: pk, Name: "token", Reissuable: true}
	desc.TotalVolume.SetInt64(100)
	snap.assets[asset] = desc

	diff := NewDiff()
	view := NewCompositeView(snap, diff)

	volume := AssetVolumeInfo{Reissuable: true}
	volume.TotalVolume.SetInt64(-40)
	diff.UpdatedAssets[asset] = UpdatedAssetInfo{Volume: &volume}

	got, err := view.AssetDescription(asset)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 60, got.TotalVolume.Int64())
	// The committed description must stay untouched.
	assert.EqualValues(t, 100, snap.assets[asset].TotalVolume.Int64())
}

func TestCompositeIssuedAssetVisible(t *testing.T) {
	pk, _ := testAccount(t, "new issuer")
	asset := testDigest("fresh asset")
	snap := newTestSnapshot(10)
	diff := NewDiff()
	info := NewAssetInfo{Static: AssetStaticInfo{IssuerPK: pk, Decimals: 2}}
	info.Volume.Reissuable = true
	info.Volume.TotalVolume.SetInt64(500)
	diff.IssuedAssets[asset] = info
	view := NewCompositeView(snap, diff)

	got, err := view.AssetDescription(asset)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 500, got.TotalVolume.Int64())
	assert.Equal(t, pk, got.IssuerPK)

	absent, err := view.AssetDescription(testDigest("unknown"))
	require.NoError(t, err)
	assert.Nil(t, absent)
}
