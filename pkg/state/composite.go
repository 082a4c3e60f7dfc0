package state

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/ride"
	"github.com/wavesplatform/txdiff/pkg/util"
)

// BalanceProfile is the committed balance state of one address.
type BalanceProfile struct {
	Balance  uint64
	LeaseIn  int64
	LeaseOut int64
}

// AssetDescription is the committed description of an issued asset.
type AssetDescription struct {
	SourceTx         crypto.Digest
	IssuerPK         crypto.PublicKey
	Name             string
	Description      string
	Decimals         int32
	Reissuable       bool
	TotalVolume      big.Int
	LastUpdateHeight uint64
	ScriptInfo       *AssetScriptInfo
	SponsorshipRate  int64
	NFT              bool
}

// SnapshotReader is a consistent, read-only view of a committed blockchain
// snapshot. Absent entities are returned as nil values with a nil error.
type SnapshotReader interface {
	Height() (uint64, error)
	WavesBalanceProfile(addr proto.Address) (BalanceProfile, error)
	AssetBalance(addr proto.Address, asset crypto.Digest) (uint64, error)
	AssetDescription(asset crypto.Digest) (*AssetDescription, error)
	AddrByAlias(alias string) (*proto.Address, error)
	LeaseDetails(id crypto.Digest) (*LeaseDetails, error)
	AccountScript(addr proto.Address) (*AccountScriptInfo, error)
	AssetScript(asset crypto.Digest) (*AssetScriptInfo, error)
	DataEntry(addr proto.Address, key string) (proto.DataEntry, error)
}

// CompositeView overlays an in-flight Diff on a committed snapshot: every
// read returns the Diff's entry when present and falls back to the
// snapshot otherwise. Chained actions within one invocation observe their
// own writes through it.
type CompositeView struct {
	snap SnapshotReader
	diff *Diff
}

func NewCompositeView(snap SnapshotReader, diff *Diff) *CompositeView {
	return &CompositeView{snap: snap, diff: diff}
}

func (v *CompositeView) Diff() *Diff {
	return v.diff
}

func (v *CompositeView) Height() (uint64, error) {
	return v.snap.Height()
}

// WavesBalance is the committed balance plus the in-flight delta.
func (v *CompositeView) WavesBalance(addr proto.Address) (int64, error) {
	profile, err := v.snap.WavesBalanceProfile(addr)
	if err != nil {
		return 0, err
	}
	delta := v.diff.Portfolios[addr].Balance
	balance, err := util.AddInt64(int64(profile.Balance), delta)
	if err != nil {
		return 0, errs.NewOverflowError("waves balance overflow")
	}
	return balance, nil
}

func (v *CompositeView) LeaseBalances(addr proto.Address) (int64, int64, error) {
	profile, err := v.snap.WavesBalanceProfile(addr)
	if err != nil {
		return 0, 0, err
	}
	p := v.diff.Portfolios[addr]
	leaseIn, err := util.AddInt64(profile.LeaseIn, p.LeaseIn)
	if err != nil {
		return 0, 0, errs.NewOverflowError("lease-in balance overflow")
	}
	leaseOut, err := util.AddInt64(profile.LeaseOut, p.LeaseOut)
	if err != nil {
		return 0, 0, errs.NewOverflowError("lease-out balance overflow")
	}
	return leaseIn, leaseOut, nil
}

func (v *CompositeView) AssetBalance(addr proto.Address, asset crypto.Digest) (int64, error) {
	committed, err := v.snap.AssetBalance(addr, asset)
	if err != nil {
		return 0, err
	}
	delta := v.diff.Portfolios[addr].Assets[asset]
	balance, err := util.AddInt64(int64(committed), delta)
	if err != nil {
		return 0, errs.NewOverflowError("asset balance overflow")
	}
	return balance, nil
}

// AssetDescription combines the committed description with in-flight
// issues and updates.
func (v *CompositeView) AssetDescription(asset crypto.Digest) (*AssetDescription, error) {
	if issued, ok := v.diff.IssuedAssets[asset]; ok {
		desc := &AssetDescription{
			SourceTx:    issued.Static.SourceTx,
			IssuerPK:    issued.Static.IssuerPK,
			Name:        issued.Info.Name,
			Description: issued.Info.Description,
			Decimals:    issued.Static.Decimals,
			Reissuable:  issued.Volume.Reissuable,
			NFT:         issued.Static.NFT,
		}
		desc.TotalVolume.Set(&issued.Volume.TotalVolume)
		desc.LastUpdateHeight = issued.Info.LastUpdatedHeight
		v.applyAssetOverlays(asset, desc)
		return desc, nil
	}
	committed, err := v.snap.AssetDescription(asset)
	if err != nil {
		return nil, err
	}
	if committed == nil {
		return nil, nil
	}
	desc := *committed
	// The struct copy shares the big.Int words with the snapshot; detach
	// them before the overlays add to the volume.
	desc.TotalVolume = big.Int{}
	desc.TotalVolume.Set(&committed.TotalVolume)
	v.applyAssetOverlays(asset, &desc)
	return &desc, nil
}

func (v *CompositeView) applyAssetOverlays(asset crypto.Digest, desc *AssetDescription) {
	if update, ok := v.diff.UpdatedAssets[asset]; ok {
		if update.Info != nil {
			desc.Name = update.Info.Name
			desc.Description = update.Info.Description
			desc.LastUpdateHeight = update.Info.LastUpdatedHeight
		}
		if update.Volume != nil {
			desc.TotalVolume.Add(&desc.TotalVolume, &update.Volume.TotalVolume)
			desc.Reissuable = update.Volume.Reissuable
		}
	}
	if script, ok := v.diff.AssetScripts[asset]; ok {
		desc.ScriptInfo = script
	}
	if sponsorship, ok := v.diff.Sponsorships[asset]; ok && sponsorship.HasValue {
		desc.SponsorshipRate = sponsorship.MinFee
	}
}

func (v *CompositeView) AddrByAlias(alias string) (*proto.Address, error) {
	if addr, ok := v.diff.Aliases[alias]; ok {
		return &addr, nil
	}
	return v.snap.AddrByAlias(alias)
}

func (v *CompositeView) LeaseDetails(id crypto.Digest) (*LeaseDetails, error) {
	if lease, ok := v.diff.LeaseStates[id]; ok {
		return &lease, nil
	}
	return v.snap.LeaseDetails(id)
}

func (v *CompositeView) AccountScript(addr proto.Address) (*AccountScriptInfo, error) {
	if script, ok := v.diff.Scripts[addr]; ok {
		return script, nil
	}
	return v.snap.AccountScript(addr)
}

func (v *CompositeView) AssetScript(asset crypto.Digest) (*AssetScriptInfo, error) {
	if script, ok := v.diff.AssetScripts[asset]; ok {
		return script, nil
	}
	if _, ok := v.diff.IssuedAssets[asset]; ok {
		// An asset issued in this diff has no script unless one was set above.
		return nil, nil
	}
	return v.snap.AssetScript(asset)
}

// DataEntry resolves a key with last-write-wins over the snapshot; a
// Delete entry hides the committed value.
func (v *CompositeView) DataEntry(addr proto.Address, key string) (proto.DataEntry, error) {
	if entries, ok := v.diff.AccountData[addr]; ok {
		if entry, ok := entries[key]; ok {
			if entry.GetValueType() == proto.DataDelete {
				return nil, nil
			}
			return entry, nil
		}
	}
	return v.snap.DataEntry(addr, key)
}

// ResolveRecipient turns an address-or-alias into an address using the
// composite alias mapping.
func (v *CompositeView) ResolveRecipient(rcp proto.Recipient) (proto.Address, error) {
	if rcp.Address != nil {
		return *rcp.Address, nil
	}
	if rcp.Alias == nil {
		return proto.Address{}, errs.NewInvalidAddress("empty recipient")
	}
	addr, err := v.AddrByAlias(rcp.Alias.Alias)
	if err != nil {
		return proto.Address{}, err
	}
	if addr == nil {
		return proto.Address{}, errs.NewAliasDoesNotExist(fmt.Sprintf("alias '%s' does not exist", rcp.Alias.Alias))
	}
	return *addr, nil
}

// readerAdapter exposes the composite view to the script evaluator.
type readerAdapter struct {
	view *CompositeView
}

func (a readerAdapter) NewestTreeByRecipient(recipient proto.Recipient) (*ride.Tree, error) {
	addr, err := a.view.ResolveRecipient(recipient)
	if err != nil {
		return nil, err
	}
	script, err := a.view.AccountScript(addr)
	if err != nil {
		return nil, err
	}
	if script == nil || script.Script == nil {
		return nil, errors.Errorf("no script on address '%s'", addr.String())
	}
	return script.Script, nil
}

func (a readerAdapter) NewestDataEntry(addr proto.Address, key string) (proto.DataEntry, error) {
	return a.view.DataEntry(addr, key)
}

func (a readerAdapter) NewestWavesBalance(addr proto.Address) (uint64, error) {
	balance, err := a.view.WavesBalance(addr)
	if err != nil {
		return 0, err
	}
	if balance < 0 {
		return 0, nil
	}
	return uint64(balance), nil
}

func (a readerAdapter) NewestAssetBalance(addr proto.Address, asset crypto.Digest) (uint64, error) {
	balance, err := a.view.AssetBalance(addr, asset)
	if err != nil {
		return 0, err
	}
	if balance < 0 {
		return 0, nil
	}
	return uint64(balance), nil
}

func (a readerAdapter) NewestAddrByAlias(alias proto.Alias) (proto.Address, error) {
	addr, err := a.view.AddrByAlias(alias.Alias)
	if err != nil {
		return proto.Address{}, err
	}
	if addr == nil {
		return proto.Address{}, errors.Errorf("alias '%s' does not exist", alias.Alias)
	}
	return *addr, nil
}
