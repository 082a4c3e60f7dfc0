package proto

import (
	"encoding/binary"

	"github.com/wavesplatform/txdiff/pkg/crypto"
)

// ScriptAction is one element of the ordered list a dApp callable returns.
type ScriptAction interface {
	scriptAction()
}

type ScriptActions []ScriptAction

// DataEntryScriptAction writes one entry to the dApp account data storage.
type DataEntryScriptAction struct {
	Entry DataEntry
}

func (a DataEntryScriptAction) scriptAction() {}

// TransferScriptAction emits a transfer of an optional asset from the dApp.
type TransferScriptAction struct {
	Recipient Recipient
	Amount    int64
	Asset     OptionalAsset
}

func (a TransferScriptAction) scriptAction() {}

// IssueScriptAction issues a new asset; ID is computed deterministically
// from the invocation transaction id and the action payload.
type IssueScriptAction struct {
	ID          crypto.Digest
	Name        string
	Description string
	Quantity    int64
	Decimals    int32
	Reissuable  bool
	Nonce       int64
}

func (a IssueScriptAction) scriptAction() {}

type ReissueScriptAction struct {
	AssetID    crypto.Digest
	Quantity   int64
	Reissuable bool
}

func (a ReissueScriptAction) scriptAction() {}

type BurnScriptAction struct {
	AssetID  crypto.Digest
	Quantity int64
}

func (a BurnScriptAction) scriptAction() {}

// SponsorshipScriptAction declares the asset cost of one fee unit; a
// non-positive MinFee cancels sponsorship.
type SponsorshipScriptAction struct {
	AssetID crypto.Digest
	MinFee  int64
}

func (a SponsorshipScriptAction) scriptAction() {}

// LeaseScriptAction emits a lease from the dApp; ID is computed
// deterministically from the invocation transaction id, nonce, recipient
// and amount.
type LeaseScriptAction struct {
	ID        crypto.Digest
	Recipient Recipient
	Amount    int64
	Nonce     int64
}

func (a LeaseScriptAction) scriptAction() {}

type LeaseCancelScriptAction struct {
	LeaseID crypto.Digest
}

func (a LeaseCancelScriptAction) scriptAction() {}

// AttachedPaymentScriptAction is produced by sync dApp-to-dApp invocations
// to move attached payments between the caller and the callee.
type AttachedPaymentScriptAction struct {
	Sender    Address
	Recipient Recipient
	Amount    int64
	Asset     OptionalAsset
}

func (a AttachedPaymentScriptAction) scriptAction() {}

func putStringWithUInt32Len(buf []byte, s string) {
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	copy(buf[4:], s)
}

// GenerateIssueScriptActionID computes the asset id of an Issue action.
func GenerateIssueScriptActionID(name, description string, decimals, quantity int64, reissuable bool, nonce int64, txID crypto.Digest) crypto.Digest {
	nl := len(name)
	dl := len(description)
	buf := make([]byte, 4+nl+4+dl+4+8+2+8+crypto.DigestSize)
	pos := 0
	putStringWithUInt32Len(buf[pos:], name)
	pos += 4 + nl
	putStringWithUInt32Len(buf[pos:], description)
	pos += 4 + dl
	binary.BigEndian.PutUint32(buf[pos:], uint32(decimals))
	pos += 4
	binary.BigEndian.PutUint64(buf[pos:], uint64(quantity))
	pos += 8
	if reissuable {
		binary.BigEndian.PutUint16(buf[pos:], 1)
	} else {
		binary.BigEndian.PutUint16(buf[pos:], 0)
	}
	pos += 2
	binary.BigEndian.PutUint64(buf[pos:], uint64(nonce))
	pos += 8
	copy(buf[pos:], txID[:])
	return crypto.MustFastHash(buf)
}

// GenerateLeaseScriptActionID computes the lease id of a Lease action:
// blake2b256 of the invocation tx id, the little-endian nonce, the
// recipient bytes and the big-endian amount.
func GenerateLeaseScriptActionID(recipient Recipient, amount int64, nonce int64, txID crypto.Digest) crypto.Digest {
	rcpBytes := recipient.Bytes()
	buf := make([]byte, crypto.DigestSize+4+len(rcpBytes)+8)
	pos := 0
	copy(buf[pos:], txID[:])
	pos += crypto.DigestSize
	binary.LittleEndian.PutUint32(buf[pos:], uint32(nonce))
	pos += 4
	copy(buf[pos:], rcpBytes)
	pos += len(rcpBytes)
	binary.BigEndian.PutUint64(buf[pos:], uint64(amount))
	return crypto.MustFastHash(buf)
}

// PseudoTx is a synthetic transaction record handed to an asset script when
// a dApp action touches the scripted asset. It carries the real invocation
// transaction id and timestamp for log integrity.
type PseudoTx interface {
	pseudoTx()
	GetID() crypto.Digest
	GetTimestamp() uint64
}

type TransferPseudoTx struct {
	ID        crypto.Digest
	Sender    Address
	SenderPK  crypto.PublicKey
	Recipient Recipient
	Amount    int64
	Asset     OptionalAsset
	Timestamp uint64
}

func (t TransferPseudoTx) pseudoTx() {}

func (t TransferPseudoTx) GetID() crypto.Digest {
	return t.ID
}

func (t TransferPseudoTx) GetTimestamp() uint64 {
	return t.Timestamp
}

type ReissuePseudoTx struct {
	ID         crypto.Digest
	Sender     Address
	SenderPK   crypto.PublicKey
	AssetID    crypto.Digest
	Quantity   int64
	Reissuable bool
	Timestamp  uint64
}

func (t ReissuePseudoTx) pseudoTx() {}

func (t ReissuePseudoTx) GetID() crypto.Digest {
	return t.ID
}

func (t ReissuePseudoTx) GetTimestamp() uint64 {
	return t.Timestamp
}

type BurnPseudoTx struct {
	ID        crypto.Digest
	Sender    Address
	SenderPK  crypto.PublicKey
	AssetID   crypto.Digest
	Quantity  int64
	Timestamp uint64
}

func (t BurnPseudoTx) pseudoTx() {}

func (t BurnPseudoTx) GetID() crypto.Digest {
	return t.ID
}

func (t BurnPseudoTx) GetTimestamp() uint64 {
	return t.Timestamp
}

type SponsorFeePseudoTx struct {
	ID        crypto.Digest
	Sender    Address
	SenderPK  crypto.PublicKey
	AssetID   crypto.Digest
	MinFee    int64
	Timestamp uint64
}

func (t SponsorFeePseudoTx) pseudoTx() {}

func (t SponsorFeePseudoTx) GetID() crypto.Digest {
	return t.ID
}

func (t SponsorFeePseudoTx) GetTimestamp() uint64 {
	return t.Timestamp
}
