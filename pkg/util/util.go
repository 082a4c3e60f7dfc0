// Arithmetic helpers shared by the diff and ride packages.
package util

import (
	"github.com/pkg/errors"
)

// AddInt64 is a safe sum for int64.
func AddInt64(a, b int64) (int64, error) {
	c := a + b
	if (c > a) == (b > 0) {
		return c, nil
	}
	return 0, errors.New("64-bit signed integer overflow")
}

// AddUint64 is a safe sum for uint64.
func AddUint64(a, b uint64) (uint64, error) {
	c := a + b
	if c >= a {
		return c, nil
	}
	return 0, errors.New("64-bit unsigned integer overflow")
}

func MinOf(vars ...uint64) uint64 {
	min := vars[0]
	for _, i := range vars {
		if min > i {
			min = i
		}
	}
	return min
}
