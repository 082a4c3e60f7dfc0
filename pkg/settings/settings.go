package settings

// StdLibVersion selects the script standard library: available functions,
// limits and semantic fixes.
type StdLibVersion int

const (
	StdLibV3 StdLibVersion = 3
	StdLibV4 StdLibVersion = 4
	StdLibV5 StdLibVersion = 5
)

const (
	MainNetScheme byte = 'W'
	TestNetScheme byte = 'T'
	CustomScheme  byte = 'E'
)

// BlockchainSettings carries the network scheme, feature activation heights
// and semantic flags. All heights are injectable so the same engine can be
// run against any network configuration.
type BlockchainSettings struct {
	AddressSchemeCharacter byte

	// Feature activation heights.
	FeeSponsorshipHeight             uint64
	Ride4DAppsHeight                 uint64
	ReduceNFTFeeHeight               uint64
	CheckTotalDataEntriesBytesHeight uint64
	SyncDAppCheckTransfersHeight     uint64

	// Sponsorship becomes effective one activation window after the
	// feature height.
	ActivationWindowSize uint64

	// Semantic fixes surfaced as explicit options.
	FixUnicodeFunctions bool
	UseNewPowPrecision  bool
	DisallowSelfPayment bool
}

func (s *BlockchainSettings) SponsorshipActivated(height uint64) bool {
	if s.FeeSponsorshipHeight == 0 {
		return false
	}
	return height >= s.FeeSponsorshipHeight+s.ActivationWindowSize
}

func (s *BlockchainSettings) Ride4DAppsActivated(height uint64) bool {
	return s.Ride4DAppsHeight != 0 && height >= s.Ride4DAppsHeight
}

func (s *BlockchainSettings) ReducedNFTFee(height uint64) bool {
	return s.ReduceNFTFeeHeight != 0 && height >= s.ReduceNFTFeeHeight
}

func (s *BlockchainSettings) CheckTotalDataEntriesBytes(height uint64) bool {
	return s.CheckTotalDataEntriesBytesHeight != 0 && height >= s.CheckTotalDataEntriesBytesHeight
}

// SyncDAppCheckTransfers reports whether negative amounts and oversized
// write sets reject the transaction instead of failing it for fee.
func (s *BlockchainSettings) SyncDAppCheckTransfers(height uint64) bool {
	return s.SyncDAppCheckTransfersHeight != 0 && height >= s.SyncDAppCheckTransfersHeight
}

func MainNetSettings() *BlockchainSettings {
	return &BlockchainSettings{
		AddressSchemeCharacter:           MainNetScheme,
		FeeSponsorshipHeight:             1080000,
		Ride4DAppsHeight:                 1610000,
		ReduceNFTFeeHeight:               1610000,
		CheckTotalDataEntriesBytesHeight: 2342000,
		SyncDAppCheckTransfersHeight:     2792473,
		ActivationWindowSize:             10000,
		FixUnicodeFunctions:              true,
		UseNewPowPrecision:               true,
		DisallowSelfPayment:              true,
	}
}

// TestSettings returns settings with every feature active from the first
// block, suitable for unit tests.
func TestSettings() *BlockchainSettings {
	return &BlockchainSettings{
		AddressSchemeCharacter:           CustomScheme,
		FeeSponsorshipHeight:             1,
		Ride4DAppsHeight:                 1,
		ReduceNFTFeeHeight:               1,
		CheckTotalDataEntriesBytesHeight: 1,
		SyncDAppCheckTransfersHeight:     1,
		ActivationWindowSize:             0,
		FixUnicodeFunctions:              true,
		UseNewPowPrecision:               true,
		DisallowSelfPayment:              true,
	}
}
