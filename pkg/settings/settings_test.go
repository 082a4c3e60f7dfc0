package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSponsorshipDoubleActivationPeriod(t *testing.T) {
	s := &BlockchainSettings{FeeSponsorshipHeight: 1000, ActivationWindowSize: 100}
	assert.False(t, s.SponsorshipActivated(999))
	assert.False(t, s.SponsorshipActivated(1050))
	assert.True(t, s.SponsorshipActivated(1100))
}

func TestZeroHeightMeansNeverActivated(t *testing.T) {
	s := &BlockchainSettings{}
	assert.False(t, s.SponsorshipActivated(1))
	assert.False(t, s.SyncDAppCheckTransfers(1_000_000))
	assert.False(t, s.CheckTotalDataEntriesBytes(1_000_000))
}

func TestKeySizeByVersion(t *testing.T) {
	assert.Equal(t, 100, MaxKeySize(StdLibV3))
	assert.Equal(t, 400, MaxKeySize(StdLibV4))
	assert.Equal(t, 400, MaxKeySize(StdLibV5))
}

func TestCallableActionsByVersion(t *testing.T) {
	assert.Equal(t, 10, MaxCallableActions(StdLibV4))
	assert.Equal(t, 30, MaxCallableActions(StdLibV5))
}

func TestEstimatorVersion(t *testing.T) {
	assert.Equal(t, 1, EstimatorVersion(StdLibV3))
	assert.Equal(t, 2, EstimatorVersion(StdLibV4))
	assert.Equal(t, 3, EstimatorVersion(StdLibV5))
}
