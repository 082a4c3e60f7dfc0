package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/txdiff/pkg/crypto"
	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/ride"
	"github.com/wavesplatform/txdiff/pkg/settings"
)

// testSnapshot is an in-memory committed snapshot used by state tests.
type testSnapshot struct {
	height        uint64
	profiles      map[proto.Address]BalanceProfile
	assetBalances map[proto.Address]map[crypto.Digest]uint64
	assets        map[crypto.Digest]*AssetDescription
	aliases       map[string]proto.Address
	leases        map[crypto.Digest]*LeaseDetails
	scripts       map[proto.Address]*AccountScriptInfo
	assetScripts  map[crypto.Digest]*AssetScriptInfo
	data          map[proto.Address]map[string]proto.DataEntry
}

func newTestSnapshot(height uint64) *testSnapshot {
	return &testSnapshot{
		height:        height,
		profiles:      make(map[proto.Address]BalanceProfile),
		assetBalances: make(map[proto.Address]map[crypto.Digest]uint64),
		assets:        make(map[crypto.Digest]*AssetDescription),
		aliases:       make(map[string]proto.Address),
		leases:        make(map[crypto.Digest]*LeaseDetails),
		scripts:       make(map[proto.Address]*AccountScriptInfo),
		assetScripts:  make(map[crypto.Digest]*AssetScriptInfo),
		data:          make(map[proto.Address]map[string]proto.DataEntry),
	}
}

func (s *testSnapshot) Height() (uint64, error) {
	return s.height, nil
}

func (s *testSnapshot) WavesBalanceProfile(addr proto.Address) (BalanceProfile, error) {
	return s.profiles[addr], nil
}

func (s *testSnapshot) AssetBalance(addr proto.Address, asset crypto.Digest) (uint64, error) {
	return s.assetBalances[addr][asset], nil
}

func (s *testSnapshot) AssetDescription(asset crypto.Digest) (*AssetDescription, error) {
	return s.assets[asset], nil
}

func (s *testSnapshot) AddrByAlias(alias string) (*proto.Address, error) {
	if addr, ok := s.aliases[alias]; ok {
		return &addr, nil
	}
	return nil, nil
}

func (s *testSnapshot) LeaseDetails(id crypto.Digest) (*LeaseDetails, error) {
	return s.leases[id], nil
}

func (s *testSnapshot) AccountScript(addr proto.Address) (*AccountScriptInfo, error) {
	return s.scripts[addr], nil
}

func (s *testSnapshot) AssetScript(asset crypto.Digest) (*AssetScriptInfo, error) {
	return s.assetScripts[asset], nil
}

func (s *testSnapshot) DataEntry(addr proto.Address, key string) (proto.DataEntry, error) {
	if entries, ok := s.data[addr]; ok {
		if entry, ok := entries[key]; ok {
			return entry, nil
		}
	}
	return nil, nil
}

func testAccount(t *testing.T, seed string) (crypto.PublicKey, proto.Address) {
	t.Helper()
	_, pk, err := crypto.GenerateKeyPair([]byte(seed))
	require.NoError(t, err)
	addr, err := proto.NewAddressFromPublicKey(settings.CustomScheme, pk)
	require.NoError(t, err)
	return pk, addr
}

func testDigest(seed string) crypto.Digest {
	return crypto.MustFastHash([]byte(seed))
}

func testDigestPtr(seed string) *crypto.Digest {
	d := testDigest(seed)
	return &d
}

// trueTree is an expression script that always evaluates to true.
func trueTree(lib settings.StdLibVersion) *ride.Tree {
	return &ride.Tree{LibVersion: lib, Verifier: ride.NewBooleanNode(true)}
}

// falseTree is an expression script that always evaluates to false.
func falseTree(lib settings.StdLibVersion) *ride.Tree {
	return &ride.Tree{LibVersion: lib, Verifier: ride.NewBooleanNode(false)}
}

// listOf builds a cons-list expression of the given item nodes.
func listOf(items ...ride.Node) ride.Node {
	var out ride.Node = ride.NewReferenceNode("nil")
	for i := len(items) - 1; i >= 0; i-- {
		out = ride.NewFunctionCallNode(ride.NativeFunction(ride.FunctionCreateList), []ride.Node{items[i], out})
	}
	return out
}

// dAppTree wraps a single callable returning the body expression.
func dAppTree(lib settings.StdLibVersion, callable string, body ride.Node) *ride.Tree {
	return &ride.Tree{
		LibVersion: lib,
		IsDApp:     true,
		Functions: []ride.Node{
			&ride.FunctionDeclarationNode{
				Name:                callable,
				Arguments:           []string{},
				Body:                body,
				InvocationParameter: "i",
			},
		},
	}
}

func dataTxWithPayload(t *testing.T, size int) *proto.DataTx {
	t.Helper()
	key := "k"
	require.Greater(t, size, len(key))
	tx := &proto.DataTx{
		Entries: proto.DataEntries{
			proto.BinaryDataEntry{Key: key, Value: make([]byte, size-len(key))},
		},
	}
	tx.ID = testDigestPtr("data tx " + key)
	tx.Fee = 10 * settings.FeeUnit
	pk, _ := testAccount(t, "data tx sender")
	tx.SenderPK = pk
	return tx
}
