package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSponsoredAssetToWaves(t *testing.T) {
	tests := []struct {
		assetFee uint64
		rate     int64
		waves    uint64
	}{
		{100_000, 100_000, 100_000},
		{10, 5, 200_000},
		{1, 100_000, 1},
		{7, 3, 233_333},
	}
	for _, tc := range tests {
		waves, err := SponsoredAssetToWaves(tc.assetFee, tc.rate)
		require.NoError(t, err)
		assert.Equal(t, tc.waves, waves)
	}
}

func TestSponsoredAssetToWavesZeroRateSentinel(t *testing.T) {
	waves, err := SponsoredAssetToWaves(100, 0)
	require.NoError(t, err)
	assert.EqualValues(t, math.MaxInt64, waves)
}

func TestSponsoredAssetToWavesOverflow(t *testing.T) {
	_, err := SponsoredAssetToWaves(math.MaxUint64, 1)
	assert.Error(t, err)
}

func TestWavesToSponsoredAsset(t *testing.T) {
	asset, err := WavesToSponsoredAsset(100_000, 100_000)
	require.NoError(t, err)
	assert.EqualValues(t, 100_000, asset)

	asset, err = WavesToSponsoredAsset(200_000, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 10, asset)

	asset, err = WavesToSponsoredAsset(0, 5)
	require.NoError(t, err)
	assert.Zero(t, asset)
}

func TestSponsorshipRoundTrip(t *testing.T) {
	rates := []int64{1, 3, 100_000, 1_000_000}
	fees := []uint64{100_000, 500_000, 900_000}
	for _, rate := range rates {
		for _, fee := range fees {
			waves, err := SponsoredAssetToWaves(fee, rate)
			require.NoError(t, err)
			back, err := WavesToSponsoredAsset(waves, rate)
			require.NoError(t, err)
			assert.LessOrEqual(t, back, fee)
		}
	}
}
