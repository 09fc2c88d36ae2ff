package common

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// https://stackoverflow.com/questions/18390266/how-can-we-truncate-float64-type-to-a-particular-precision
func Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func DecimalToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(Round(num*output)) / output
}

// ExactDecimal returns the exact value of the binary float num.
// decimal.NewFromFloat uses the shortest representation instead,
// so 51.09545 would read as a tie when its binary value sits just below it.
// num must be finite.
func ExactDecimal(num float64) decimal.Decimal {
	frac, exp := math.Frexp(num)
	mant := big.NewInt(int64(math.Ldexp(frac, 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	// m * 2^e == m * 5^-e * 10^e
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, five), int32(exp))
}

// RoundHalfEven rounds the binary value of num to precision decimal places.
// Only exact ties, like 0.125, are rounded to even.
func RoundHalfEven(num float64, precision int32) float64 {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return num
	}
	return ExactDecimal(num).RoundBank(precision).InexactFloat64()
}
