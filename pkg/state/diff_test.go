package state

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
)

func TestCombineWithEmptyIsIdentity(t *testing.T) {
	_, addr := testAccount(t, "combine identity")
	d := NewDiff()
	require.NoError(t, d.AddPortfolio(addr, NewWavesPortfolio(100)))
	d.Aliases["glad"] = addr

	left, err := CombineDiffs(NewDiff(), d)
	require.NoError(t, err)
	right, err := CombineDiffs(d, NewDiff())
	require.NoError(t, err)

	assert.Equal(t, d.Portfolios, left.Portfolios)
	assert.Equal(t, d.Portfolios, right.Portfolios)
	assert.Equal(t, d.Aliases, left.Aliases)
	assert.Equal(t, d.Aliases, right.Aliases)
}

func TestCombineIsAssociative(t *testing.T) {
	_, a := testAccount(t, "assoc a")
	_, b := testAccount(t, "assoc b")
	d1 := NewDiff()
	require.NoError(t, d1.AddPortfolio(a, NewWavesPortfolio(5)))
	d2 := NewDiff()
	require.NoError(t, d2.AddPortfolio(a, NewWavesPortfolio(-3)))
	require.NoError(t, d2.AddPortfolio(b, NewWavesPortfolio(7)))
	d3 := NewDiff()
	require.NoError(t, d3.AddPortfolio(b, NewWavesPortfolio(-7)))
	d3.ScriptsRun = 2

	d12, err := CombineDiffs(d1, d2)
	require.NoError(t, err)
	leftAssoc, err := CombineDiffs(d12, d3)
	require.NoError(t, err)

	d23, err := CombineDiffs(d2, d3)
	require.NoError(t, err)
	rightAssoc, err := CombineDiffs(d1, d23)
	require.NoError(t, err)

	assert.Equal(t, leftAssoc.Portfolios, rightAssoc.Portfolios)
	assert.Equal(t, leftAssoc.ScriptsRun, rightAssoc.ScriptsRun)
	// b's portfolio summed to zero and must be elided on both sides.
	_, ok := leftAssoc.Portfolios[b]
	assert.False(t, ok)
}

func TestPortfolioMergeIsCheckedAddition(t *testing.T) {
	_, a := testAccount(t, "checked add")
	d1 := NewDiff()
	require.NoError(t, d1.AddPortfolio(a, NewWavesPortfolio(math.MaxInt64)))
	d2 := NewDiff()
	require.NoError(t, d2.AddPortfolio(a, NewWavesPortfolio(1)))

	_, err := CombineDiffs(d1, d2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.OverflowError{}))

	// Overflow fails identically regardless of grouping.
	_, err2 := CombineDiffs(d2, d1)
	require.Error(t, err2)
	assert.True(t, errors.Is(err2, errs.OverflowError{}))
}

func TestPortfolioAssetOverflow(t *testing.T) {
	_, a := testAccount(t, "asset overflow")
	asset := testDigest("asset")
	d1 := NewDiff()
	require.NoError(t, d1.AddPortfolio(a, NewAssetPortfolio(asset, math.MaxInt64)))
	err := d1.AddPortfolio(a, NewAssetPortfolio(asset, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.OverflowError{}))
}

func TestTransactionsPreserveInsertionOrder(t *testing.T) {
	d := NewDiff()
	ids := []string{"tx1", "tx2", "tx3", "tx4"}
	for _, id := range ids {
		d.BindTransaction(testDigest(id), nil, nil, true, 0)
	}
	i := 0
	for el := d.Transactions.Front(); el != nil; el = el.Next() {
		assert.Equal(t, testDigest(ids[i]), el.Key)
		i++
	}
	assert.Equal(t, len(ids), i)
}

func TestMergePreservesOrderAndOverwritesById(t *testing.T) {
	d1 := NewDiff()
	d1.BindTransaction(testDigest("a"), nil, nil, true, 0)
	d1.BindTransaction(testDigest("b"), nil, nil, true, 0)
	d2 := NewDiff()
	d2.BindTransaction(testDigest("a"), nil, nil, false, 10)

	require.NoError(t, d1.Merge(d2))
	assert.Equal(t, 2, d1.Transactions.Len())
	info, ok := d1.Transactions.Get(testDigest("a"))
	require.True(t, ok)
	assert.False(t, info.Applied)
	assert.EqualValues(t, 10, info.SpentComplexity)
}

func TestUpdatedAssetsBothCombine(t *testing.T) {
	asset := testDigest("updated")
	d1 := NewDiff()
	v1 := AssetVolumeInfo{Reissuable: true}
	v1.TotalVolume.SetInt64(100)
	d1.UpdatedAssets[asset] = UpdatedAssetInfo{Volume: &v1}

	d2 := NewDiff()
	v2 := AssetVolumeInfo{Reissuable: false}
	v2.TotalVolume.SetInt64(-40)
	info2 := AssetInfo{Name: "renamed", LastUpdatedHeight: 7}
	d2.UpdatedAssets[asset] = UpdatedAssetInfo{Info: &info2, Volume: &v2}

	res, err := CombineDiffs(d1, d2)
	require.NoError(t, err)
	update := res.UpdatedAssets[asset]
	require.NotNil(t, update.Volume)
	assert.EqualValues(t, 60, update.Volume.TotalVolume.Int64())
	assert.False(t, update.Volume.Reissuable)
	require.NotNil(t, update.Info)
	assert.Equal(t, "renamed", update.Info.Name)
}

func TestAccountDataLastWriteWins(t *testing.T) {
	_, a := testAccount(t, "account data")
	d1 := NewDiff()
	d1.PutDataEntry(a, proto.IntegerDataEntry{Key: "k", Value: 1})
	d2 := NewDiff()
	d2.PutDataEntry(a, proto.IntegerDataEntry{Key: "k", Value: 2})
	res, err := CombineDiffs(d1, d2)
	require.NoError(t, err)
	entry := res.AccountData[a]["k"]
	assert.Equal(t, proto.IntegerDataEntry{Key: "k", Value: 2}, entry)
}

func TestSponsorshipNoInfoIsIdentity(t *testing.T) {
	asset := testDigest("sponsored")
	d1 := NewDiff()
	d1.Sponsorships[asset] = Sponsorship{HasValue: true, MinFee: 5}
	d2 := NewDiff()
	d2.Sponsorships[asset] = Sponsorship{}
	res, err := CombineDiffs(d1, d2)
	require.NoError(t, err)
	assert.Equal(t, Sponsorship{HasValue: true, MinFee: 5}, res.Sponsorships[asset])

	d3 := NewDiff()
	d3.Sponsorships[asset] = Sponsorship{HasValue: true, MinFee: 9}
	res, err = CombineDiffs(res, d3)
	require.NoError(t, err)
	assert.EqualValues(t, 9, res.Sponsorships[asset].MinFee)
}

func TestScriptsComplexityAdds(t *testing.T) {
	d1 := NewDiff()
	d1.ScriptsRun = 1
	d1.ScriptsComplexity = 100
	d2 := NewDiff()
	d2.ScriptsRun = 2
	d2.ScriptsComplexity = 250
	res, err := CombineDiffs(d1, d2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.ScriptsRun)
	assert.EqualValues(t, 350, res.ScriptsComplexity)
}
