package state

import (
	"math/big"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/errs"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/ride"
	"github.com/wavesplatform/txdiff/pkg/util"
)

// Portfolio is the balance part of one address in a Diff: base-asset
// balance, lease balances and per-asset balances. All merges use checked
// addition.
type Portfolio struct {
	Balance  int64
	LeaseIn  int64
	LeaseOut int64
	Assets   map[crypto.Digest]int64
}

func NewWavesPortfolio(balance int64) Portfolio {
	return Portfolio{Balance: balance}
}

func NewAssetPortfolio(asset crypto.Digest, balance int64) Portfolio {
	return Portfolio{Assets: map[crypto.Digest]int64{asset: balance}}
}

func NewLeasePortfolio(leaseIn, leaseOut int64) Portfolio {
	return Portfolio{LeaseIn: leaseIn, LeaseOut: leaseOut}
}

// Add merges another portfolio into this one field-wise; overflow at any
// field is an error.
func (p *Portfolio) Add(other Portfolio) error {
	var err error
	if p.Balance, err = util.AddInt64(p.Balance, other.Balance); err != nil {
		return errs.NewOverflowError("waves balance overflow")
	}
	if p.LeaseIn, err = util.AddInt64(p.LeaseIn, other.LeaseIn); err != nil {
		return errs.NewOverflowError("lease-in balance overflow")
	}
	if p.LeaseOut, err = util.AddInt64(p.LeaseOut, other.LeaseOut); err != nil {
		return errs.NewOverflowError("lease-out balance overflow")
	}
	for asset, balance := range other.Assets {
		if p.Assets == nil {
			p.Assets = make(map[crypto.Digest]int64)
		}
		sum, err := util.AddInt64(p.Assets[asset], balance)
		if err != nil {
			return errs.NewOverflowError("asset balance overflow")
		}
		p.Assets[asset] = sum
	}
	return nil
}

// IsEmpty reports whether every field of the portfolio is zero.
func (p *Portfolio) IsEmpty() bool {
	if p.Balance != 0 || p.LeaseIn != 0 || p.LeaseOut != 0 {
		return false
	}
	for _, balance := range p.Assets {
		if balance != 0 {
			return false
		}
	}
	return true
}

func (p Portfolio) clone() Portfolio {
	out := p
	if p.Assets != nil {
		out.Assets = make(map[crypto.Digest]int64, len(p.Assets))
		for k, v := range p.Assets {
			out.Assets[k] = v
		}
	}
	return out
}

// NewTransactionInfo is the per-transaction record of a Diff; insertion
// order of records is preserved.
type NewTransactionInfo struct {
	Tx              proto.Transaction
	Affected        map[proto.Address]struct{}
	Applied         bool
	SpentComplexity uint64
}

// AssetStaticInfo never changes after the issue.
type AssetStaticInfo struct {
	SourceTx crypto.Digest
	IssuerPK crypto.PublicKey
	Decimals int32
	NFT      bool
}

// AssetInfo is the mutable description part of an asset.
type AssetInfo struct {
	Name              string
	Description       string
	LastUpdatedHeight uint64
}

// AssetVolumeInfo is the mutable volume part of an asset; the total volume
// is tracked in unbounded arithmetic.
type AssetVolumeInfo struct {
	TotalVolume big.Int
	Reissuable  bool
}

func (v AssetVolumeInfo) clone() AssetVolumeInfo {
	out := AssetVolumeInfo{Reissuable: v.Reissuable}
	out.TotalVolume.Set(&v.TotalVolume)
	return out
}

// NewAssetInfo describes an asset issued inside this Diff.
type NewAssetInfo struct {
	Static AssetStaticInfo
	Info   AssetInfo
	Volume AssetVolumeInfo
}

// UpdatedAssetInfo is an either-or-both update to an already committed
// asset: the info part, the volume part, or both.
type UpdatedAssetInfo struct {
	Info   *AssetInfo
	Volume *AssetVolumeInfo
}

// combine merges a later update into this one: volumes add field-wise, the
// newer info wins.
func (u *UpdatedAssetInfo) combine(other UpdatedAssetInfo) {
	if other.Info != nil {
		info := *other.Info
		u.Info = &info
	}
	if other.Volume != nil {
		if u.Volume == nil {
			v := other.Volume.clone()
			u.Volume = &v
		} else {
			v := u.Volume.clone()
			v.TotalVolume.Add(&v.TotalVolume, &other.Volume.TotalVolume)
			v.Reissuable = other.Volume.Reissuable
			u.Volume = &v
		}
	}
}

// LeaseStatus is the lifecycle state of a lease; Cancelled is terminal.
type LeaseStatus byte

const (
	LeaseActive LeaseStatus = iota
	LeaseCancelled
)

type LeaseDetails struct {
	SenderPK     crypto.PublicKey
	Recipient    proto.Recipient
	Amount       int64
	Status       LeaseStatus
	CancelHeight uint64
	CancelTx     crypto.Digest
	SourceTx     crypto.Digest
	Height       uint64
}

func (l LeaseDetails) IsActive() bool {
	return l.Status == LeaseActive
}

type OrderFillInfo struct {
	Volume int64
	Fee    int64
}

// AccountScriptInfo carries a set account script with the account public
// key and the per-estimator-version complexity map.
type AccountScriptInfo struct {
	PK           crypto.PublicKey
	Script       *ride.Tree
	Complexities map[int]ride.TreeEstimation
}

type AssetScriptInfo struct {
	Script     *ride.Tree
	Complexity uint64
}

// Sponsorship is a sponsorship state of an asset inside a Diff: either no
// information (identity on combine) or a declared rate.
type Sponsorship struct {
	HasValue bool
	MinFee   int64
}

// Diff is an immutable-by-convention description of every state mutation a
// transaction causes. Merging follows the precedence rules of the combine
// algebra; transaction records keep insertion order.
type Diff struct {
	Transactions      *orderedmap.OrderedMap[crypto.Digest, NewTransactionInfo]
	Portfolios        map[proto.Address]Portfolio
	IssuedAssets      map[crypto.Digest]NewAssetInfo
	UpdatedAssets     map[crypto.Digest]UpdatedAssetInfo
	Aliases           map[string]proto.Address
	OrderFills        map[crypto.Digest]OrderFillInfo
	LeaseStates       map[crypto.Digest]LeaseDetails
	Scripts           map[proto.Address]*AccountScriptInfo
	AssetScripts      map[crypto.Digest]*AssetScriptInfo
	AccountData       map[proto.Address]map[string]proto.DataEntry
	Sponsorships      map[crypto.Digest]Sponsorship
	ScriptsRun        uint32
	ScriptsComplexity uint64
	ScriptResults     map[crypto.Digest]*InvokeScriptResult
}

func NewDiff() *Diff {
	return &Diff{
		Transactions:  orderedmap.NewOrderedMap[crypto.Digest, NewTransactionInfo](),
		Portfolios:    make(map[proto.Address]Portfolio),
		IssuedAssets:  make(map[crypto.Digest]NewAssetInfo),
		UpdatedAssets: make(map[crypto.Digest]UpdatedAssetInfo),
		Aliases:       make(map[string]proto.Address),
		OrderFills:    make(map[crypto.Digest]OrderFillInfo),
		LeaseStates:   make(map[crypto.Digest]LeaseDetails),
		Scripts:       make(map[proto.Address]*AccountScriptInfo),
		AssetScripts:  make(map[crypto.Digest]*AssetScriptInfo),
		AccountData:   make(map[proto.Address]map[string]proto.DataEntry),
		Sponsorships:  make(map[crypto.Digest]Sponsorship),
		ScriptResults: make(map[crypto.Digest]*InvokeScriptResult),
	}
}

// AddPortfolio merges a portfolio delta for the address with checked
// addition; an entry that sums to all-zero is elided.
func (d *Diff) AddPortfolio(addr proto.Address, p Portfolio) error {
	current := d.Portfolios[addr].clone()
	if err := current.Add(p); err != nil {
		return err
	}
	if current.IsEmpty() {
		delete(d.Portfolios, addr)
		return nil
	}
	d.Portfolios[addr] = current
	return nil
}

// PutDataEntry writes a data entry with per-address last-write-wins
// semantics.
func (d *Diff) PutDataEntry(addr proto.Address, entry proto.DataEntry) {
	entries, ok := d.AccountData[addr]
	if !ok {
		entries = make(map[string]proto.DataEntry)
		d.AccountData[addr] = entries
	}
	entries[entry.GetKey()] = entry
}

// BindTransaction appends the transaction record; the affected address set
// must be computed after all mutations of the transaction are in the Diff.
func (d *Diff) BindTransaction(id crypto.Digest, tx proto.Transaction, affected []proto.Address, applied bool, spentComplexity uint64) {
	set := make(map[proto.Address]struct{}, len(affected))
	for _, a := range affected {
		set[a] = struct{}{}
	}
	d.Transactions.Set(id, NewTransactionInfo{
		Tx:              tx,
		Affected:        set,
		Applied:         applied,
		SpentComplexity: spentComplexity,
	})
}

// Merge folds other into d following the combine precedence rules. Only
// balance overflow can fail; on failure d must be discarded.
func (d *Diff) Merge(other *Diff) error {
	if other == nil {
		return nil
	}
	if other.Transactions != nil {
		for el := other.Transactions.Front(); el != nil; el = el.Next() {
			d.Transactions.Set(el.Key, el.Value)
		}
	}
	for addr, p := range other.Portfolios {
		if err := d.AddPortfolio(addr, p); err != nil {
			return err
		}
	}
	for id, info := range other.IssuedAssets {
		d.IssuedAssets[id] = info
	}
	for id, update := range other.UpdatedAssets {
		current, ok := d.UpdatedAssets[id]
		if !ok {
			d.UpdatedAssets[id] = update
			continue
		}
		current.combine(update)
		d.UpdatedAssets[id] = current
	}
	for alias, addr := range other.Aliases {
		d.Aliases[alias] = addr
	}
	for id, fill := range other.OrderFills {
		current := d.OrderFills[id]
		volume, err := util.AddInt64(current.Volume, fill.Volume)
		if err != nil {
			return errs.NewOverflowError("order fill volume overflow")
		}
		fee, err := util.AddInt64(current.Fee, fill.Fee)
		if err != nil {
			return errs.NewOverflowError("order fill fee overflow")
		}
		d.OrderFills[id] = OrderFillInfo{Volume: volume, Fee: fee}
	}
	for id, lease := range other.LeaseStates {
		d.LeaseStates[id] = lease
	}
	for addr, script := range other.Scripts {
		d.Scripts[addr] = script
	}
	for id, script := range other.AssetScripts {
		d.AssetScripts[id] = script
	}
	for addr, entries := range other.AccountData {
		for _, entry := range entries {
			d.PutDataEntry(addr, entry)
		}
	}
	for id, sponsorship := range other.Sponsorships {
		if !sponsorship.HasValue {
			// NoInfo is the identity of the sponsorship merge.
			if _, ok := d.Sponsorships[id]; !ok {
				d.Sponsorships[id] = sponsorship
			}
			continue
		}
		d.Sponsorships[id] = sponsorship
	}
	d.ScriptsRun += other.ScriptsRun
	d.ScriptsComplexity += other.ScriptsComplexity
	for id, res := range other.ScriptResults {
		d.ScriptResults[id] = res
	}
	return nil
}

// CombineDiffs is the non-destructive combine of the Diff monoid: the
// result is a fresh value, old and new are left intact.
func CombineDiffs(old, new *Diff) (*Diff, error) {
	res := NewDiff()
	if err := res.Merge(old); err != nil {
		return nil, err
	}
	if err := res.Merge(new); err != nil {
		return nil, err
	}
	return res, nil
}
