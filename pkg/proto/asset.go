package proto

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/wavesplatform/txdiff/pkg/crypto"
)

const WavesAssetName = "WAVES"

// OptionalAsset is either the native asset (Present is false) or an issued
// asset identified by a 32-byte digest.
type OptionalAsset struct {
	Present bool
	ID      crypto.Digest
}

func NewOptionalAssetFromString(s string) (*OptionalAsset, error) {
	switch strings.ToUpper(s) {
	case WavesAssetName, "":
		return &OptionalAsset{Present: false}, nil
	default:
		a, err := crypto.NewDigestFromBase58(s)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create OptionalAsset from Base58 string")
		}
		return &OptionalAsset{Present: true, ID: a}, nil
	}
}

func NewOptionalAssetFromDigest(d crypto.Digest) OptionalAsset {
	return OptionalAsset{Present: true, ID: d}
}

func NewOptionalWaves() OptionalAsset {
	return OptionalAsset{}
}

func (a OptionalAsset) String() string {
	if a.Present {
		return a.ID.String()
	}
	return WavesAssetName
}

// ToID returns the asset digest bytes or nil for the native asset.
func (a *OptionalAsset) ToID() []byte {
	if a.Present {
		return a.ID.Bytes()
	}
	return nil
}

func (a OptionalAsset) Eq(b OptionalAsset) bool {
	return a.Present == b.Present && a.ID == b.ID
}
