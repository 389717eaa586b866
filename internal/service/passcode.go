package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	passcodeMin = 100000
	passcodeMax = 999999
)

// GeneratePasscode returns a 6-digit numeric passcode drawn uniformly from
// [100000, 999999], so it never needs zero-padding.
func GeneratePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(passcodeMax-passcodeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return strconv.FormatInt(passcodeMin+n.Int64(), 10), nil
}

// passcodesEqual compares two codes as trimmed strings. Comparison is never
// numeric, so leading zeros or type coercion can never produce a false match.
// An empty stored code (already consumed) never matches anything.
func passcodesEqual(stored, provided string) bool {
	stored = strings.TrimSpace(stored)
	provided = strings.TrimSpace(provided)
	if stored == "" {
		return false
	}
	return stored == provided
}
