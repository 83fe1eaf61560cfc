package domain

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	seedRgx      = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	rawAmountRgx = regexp.MustCompile(`^\d+$`)
)

// ValidateSeed accepts 64 hexadecimal characters in any case.
func ValidateSeed(seed string) error {
	if !seedRgx.MatchString(seed) {
		return NewInvalidSeedError()
	}
	return nil
}

// ValidateAddress checks that address carries prefix followed by a well
// formed base32 encoded public key and checksum.
func ValidateAddress(address, prefix string) error {
	if prefix == "" {
		prefix = DefaultAddressPrefix
	}
	if !strings.HasPrefix(address, prefix) {
		return NewInvalidAddressError(address)
	}

	encoded := address[len(prefix):]
	if len(encoded) != addressEncodedLength {
		return NewInvalidAddressError(address)
	}
	for _, c := range encoded {
		if !strings.ContainsRune(addressAlphabet, c) {
			return NewInvalidAddressError(address)
		}
	}
	return nil
}

// ValidateRawAmount accepts non-negative integers expressed in raw units.
func ValidateRawAmount(amount string) error {
	if !rawAmountRgx.MatchString(amount) {
		return NewInvalidAmountError(amount)
	}
	return nil
}

// ValidateBlockHash rejects blank block hashes.
func ValidateBlockHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return NewInvalidBlockHashError(hash)
	}
	return nil
}

// NewSeed returns 32 random bytes hex encoded in upper case.
func NewSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", NewCryptographicError("failed to generate seed", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
