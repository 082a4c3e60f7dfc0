package ride

import (
	"math/big"

	"github.com/ericlagergren/decimal"
	dmath "github.com/ericlagergren/decimal/math"
	"github.com/pkg/errors"
)

// maxIntScale is the largest decimal scale of Int values.
const maxIntScale = 8

var (
	decOne = decimal.New(1, 0)
	decTen = decimal.New(10, 0)
)

func roundingModeByName(name string) (decimal.RoundingMode, error) {
	switch name {
	case "Down":
		return decimal.ToZero, nil
	case "Up":
		return decimal.AwayFromZero, nil
	case "HalfUp":
		return decimal.ToNearestAway, nil
	case "HalfEven":
		return decimal.ToNearestEven, nil
	case "Ceiling":
		return decimal.ToPositiveInf, nil
	case "Floor":
		return decimal.ToNegativeInf, nil
	default:
		return 0, errors.Errorf("unsupported rounding mode '%s'", name)
	}
}

// fixedPoint interprets v as v*10^-scale in 128-bit decimal arithmetic.
func fixedPoint(v int64, scale int) (*decimal.Big, error) {
	if scale < 0 || scale > maxIntScale {
		return nil, errors.Errorf("scale %d is out of range [0, %d]", scale, maxIntScale)
	}
	return decimal.WithContext(decimal.Context128).SetMantScale(v, scale), nil
}

// fixedInt rounds r at the requested scale back to the integer wire form:
// the result is r*10^scale rounded by mode.
func fixedInt(r *decimal.Big, scale int, mode decimal.RoundingMode) (int64, error) {
	if scale < 0 || scale > maxIntScale {
		return 0, errors.Errorf("scale %d is out of range [0, %d]", scale, maxIntScale)
	}
	shifted := decimal.WithContext(decimal.Context128).Set(r)
	for i := 0; i < scale; i++ {
		shifted.Mul(shifted, decTen)
	}
	shifted.Context.RoundingMode = mode
	res, ok := shifted.RoundToInt().Int64()
	if !ok {
		return 0, errors.New("result out of int64 range")
	}
	return res, nil
}

// mathPow raises base*10^-baseScale to exponent*10^-exponentScale and
// renders the result at resultScale. The precise flag widens the working
// precision to 38 digits.
func mathPow(base int64, baseScale int, exponent int64, exponentScale int, resultScale int, mode string, precise bool) (int64, error) {
	rm, err := roundingModeByName(mode)
	if err != nil {
		return 0, err
	}
	b, err := fixedPoint(base, baseScale)
	if err != nil {
		return 0, err
	}
	e, err := fixedPoint(exponent, exponentScale)
	if err != nil {
		return 0, err
	}
	switch {
	case e.Sign() == 0 && b.IsInt():
		// An integer base to the zeroth power is exactly one.
		return fixedInt(decOne, resultScale, rm)
	case b.Sign() == 0 && e.Sign() < 0:
		return 0, errors.New("zero in negative power")
	}
	ctx := decimal.Context128
	if precise {
		ctx.Precision = 38
	}
	r := decimal.WithContext(ctx)
	dmath.Pow(r, b, e)
	if cerr := r.Context.Err(); cerr != nil {
		return 0, cerr
	}
	return fixedInt(r, resultScale, rm)
}

// mathLog computes the base-(base*10^-baseScale) logarithm of
// value*10^-valueScale as a quotient of natural logarithms, rendered at
// resultScale.
func mathLog(value int64, valueScale int, base int64, baseScale int, resultScale int, mode string) (int64, error) {
	rm, err := roundingModeByName(mode)
	if err != nil {
		return 0, err
	}
	v, err := fixedPoint(value, valueScale)
	if err != nil {
		return 0, err
	}
	b, err := fixedPoint(base, baseScale)
	if err != nil {
		return 0, err
	}
	if v.Sign() <= 0 || b.Sign() <= 0 {
		return 0, errors.New("logarithm of a non-positive number")
	}
	num := decimal.WithContext(decimal.Context128)
	dmath.Log(num, v)
	den := decimal.WithContext(decimal.Context128)
	dmath.Log(den, b)
	r := num.Quo(num, den)
	if cerr := r.Context.Err(); cerr != nil {
		return 0, cerr
	}
	return fixedInt(r, resultScale, rm)
}

// fraction computes floor(a*b/c) through a 128-bit intermediate product.
func fraction(a, b, c int64) (int64, error) {
	if c == 0 {
		return 0, errors.New("fraction: division by zero")
	}
	p := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	q := big.NewInt(c)
	res, rem := new(big.Int).QuoRem(p, q, new(big.Int))
	if rem.Sign() != 0 && (p.Sign() < 0) != (q.Sign() < 0) {
		res.Sub(res, big.NewInt(1))
	}
	if !res.IsInt64() {
		return 0, errors.New("fraction: result out of int64 range")
	}
	return res.Int64(), nil
}

// floorDiv is integer division with rounding toward negative infinity, the
// division semantics of the script runtime.
func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// floorMod is the modulus matching floorDiv.
func floorMod(x, y int64) int64 {
	r := x % y
	if r != 0 && ((x < 0) != (y < 0)) {
		r += y
	}
	return r
}
