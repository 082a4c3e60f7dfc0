package state

import (
	"math"
	"math/big"

	"github.com/wavesplatform/txdiff/pkg/settings"
)

// SponsoredAssetToWaves converts an asset-denominated fee to base units:
// floor(assetFee * FeeUnit / rate) in unbounded arithmetic, then an exact
// conversion back to int64. A zero rate means the asset is not sponsored;
// for a zero or negative rate the sentinel MaxInt64 is returned instead of
// a converted amount.
func SponsoredAssetToWaves(assetFee uint64, rate int64) (uint64, error) {
	if rate <= 0 {
		return math.MaxInt64, nil
	}
	var wavesAmount big.Int
	wavesAmount.SetUint64(assetFee)
	var unit big.Int
	unit.SetUint64(settings.FeeUnit)
	wavesAmount.Mul(&wavesAmount, &unit)
	var rateBig big.Int
	rateBig.SetInt64(rate)
	wavesAmount.Quo(&wavesAmount, &rateBig)
	if !wavesAmount.IsInt64() {
		return 0, errOverflow("waves amount exceeds MaxInt64")
	}
	return wavesAmount.Uint64(), nil
}

// WavesToSponsoredAsset is the inverse conversion:
// floor(baseFee * rate / FeeUnit). Callers must not pass a zero rate.
func WavesToSponsoredAsset(wavesFee uint64, rate int64) (uint64, error) {
	if rate <= 0 || wavesFee == 0 {
		return 0, nil
	}
	var assetAmount big.Int
	assetAmount.SetUint64(wavesFee)
	var rateBig big.Int
	rateBig.SetInt64(rate)
	assetAmount.Mul(&assetAmount, &rateBig)
	var unit big.Int
	unit.SetUint64(settings.FeeUnit)
	assetAmount.Quo(&assetAmount, &unit)
	if !assetAmount.IsInt64() {
		return 0, errOverflow("asset amount exceeds MaxInt64")
	}
	return assetAmount.Uint64(), nil
}
