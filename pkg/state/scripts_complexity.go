package state

import (
	"encoding/binary"

	"github.com/coocood/freecache"
	"github.com/pkg/errors"

	"github.com/wavesplatform/txdiff/pkg/proto"
	"github.com/wavesplatform/txdiff/pkg/ride"
)

const defaultEstimationCacheSize = 16 * 1024 * 1024

// ComplexityProvider resolves the complexity estimation of an account
// script. An address carries a map of estimations per estimator version;
// when the version is missing the script is re-estimated and the result is
// cached, so upgrading the estimator never re-evaluates old scripts.
type ComplexityProvider struct {
	cache *freecache.Cache
}

func NewComplexityProvider() *ComplexityProvider {
	return &ComplexityProvider{cache: freecache.NewCache(defaultEstimationCacheSize)}
}

func estimationCacheKey(addr proto.Address, estimatorVersion int) []byte {
	key := make([]byte, proto.AddressSize+1)
	copy(key, addr.Bytes())
	key[proto.AddressSize] = byte(estimatorVersion)
	return key
}

func marshalEstimation(est ride.TreeEstimation) []byte {
	size := 8 + 8 + 2
	for name := range est.Functions {
		size += 2 + len(name) + 8
	}
	out := make([]byte, size)
	pos := 0
	binary.BigEndian.PutUint64(out[pos:], est.Estimation)
	pos += 8
	binary.BigEndian.PutUint64(out[pos:], est.Verifier)
	pos += 8
	binary.BigEndian.PutUint16(out[pos:], uint16(len(est.Functions)))
	pos += 2
	for name, cost := range est.Functions {
		binary.BigEndian.PutUint16(out[pos:], uint16(len(name)))
		pos += 2
		copy(out[pos:], name)
		pos += len(name)
		binary.BigEndian.PutUint64(out[pos:], cost)
		pos += 8
	}
	return out
}

func unmarshalEstimation(data []byte) (ride.TreeEstimation, error) {
	var est ride.TreeEstimation
	if len(data) < 18 {
		return est, errors.New("invalid estimation record size")
	}
	pos := 0
	est.Estimation = binary.BigEndian.Uint64(data[pos:])
	pos += 8
	est.Verifier = binary.BigEndian.Uint64(data[pos:])
	pos += 8
	count := int(binary.BigEndian.Uint16(data[pos:]))
	pos += 2
	est.Functions = make(map[string]uint64, count)
	for i := 0; i < count; i++ {
		if len(data) < pos+2 {
			return est, errors.New("invalid estimation record")
		}
		nl := int(binary.BigEndian.Uint16(data[pos:]))
		pos += 2
		if len(data) < pos+nl+8 {
			return est, errors.New("invalid estimation record")
		}
		name := string(data[pos : pos+nl])
		pos += nl
		est.Functions[name] = binary.BigEndian.Uint64(data[pos:])
		pos += 8
	}
	return est, nil
}

// Estimation returns the estimation of the script set on addr for the
// given estimator version, preferring the stored map, then the cache, and
// finally a fresh run of the estimator.
func (p *ComplexityProvider) Estimation(addr proto.Address, estimatorVersion int, script *AccountScriptInfo) (ride.TreeEstimation, error) {
	if script == nil || script.Script == nil {
		return ride.TreeEstimation{}, errors.Errorf("no script on address '%s'", addr.String())
	}
	if est, ok := script.Complexities[estimatorVersion]; ok {
		return est, nil
	}
	key := estimationCacheKey(addr, estimatorVersion)
	if data, err := p.cache.Get(key); err == nil {
		if est, err := unmarshalEstimation(data); err == nil {
			return est, nil
		}
	}
	est, err := ride.EstimateTree(script.Script)
	if err != nil {
		return ride.TreeEstimation{}, err
	}
	_ = p.cache.Set(key, marshalEstimation(est), 0)
	return est, nil
}
