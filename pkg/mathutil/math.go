package mathutil

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseRaw parses a non negative integer amount expressed in raw units.
func ParseRaw(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid raw amount %q: %w", raw, err)
	}
	if d.Sign() < 0 || !d.Equal(d.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("invalid raw amount %q", raw)
	}
	return d, nil
}

// MegaToRaw converts an amount in mega units to raw units, rounding to the
// nearest raw.
func MegaToRaw(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.Sign() < 0 {
		return "", fmt.Errorf("invalid amount %q: must not be negative", amount)
	}
	return d.Shift(decimals).StringFixed(0), nil
}

// RawToMega converts an amount in raw units to mega units, truncated to
// decimals places.
func RawToMega(raw string, decimals int32) (string, error) {
	d, err := ParseRaw(raw)
	if err != nil {
		return "", err
	}
	return d.Shift(-decimals).Truncate(decimals).StringFixed(decimals), nil
}

// AddRaw returns x + y.
func AddRaw(x, y string) (string, error) {
	X, Y, err := parsePair(x, y)
	if err != nil {
		return "", err
	}
	return X.Add(Y).String(), nil
}

// SubRaw returns x - y, failing if the result would be negative.
func SubRaw(x, y string) (string, error) {
	X, Y, err := parsePair(x, y)
	if err != nil {
		return "", err
	}
	if X.LessThan(Y) {
		return "", fmt.Errorf("%s is lower than %s", x, y)
	}
	return X.Sub(Y).String(), nil
}

// CmpRaw compares x and y like decimal.Decimal.Cmp.
func CmpRaw(x, y string) (int, error) {
	X, Y, err := parsePair(x, y)
	if err != nil {
		return 0, err
	}
	return X.Cmp(Y), nil
}

func parsePair(x, y string) (decimal.Decimal, decimal.Decimal, error) {
	X, err := ParseRaw(x)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	Y, err := ParseRaw(y)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return X, Y, nil
}
