package core

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestComputeCommitHash(t *testing.T) {
	value := decimal.NewFromInt(25)
	salt := "test_salt_456"

	hash := ComputeCommitHash(value, salt)

	// SHA256 hex encoding is 64 characters
	check.Equal(t, 64, len(hash))
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("ComputeCommitHash() contains non-hex character: %c", c)
		}
	}

	// Deterministic
	check.Equal(t, hash, ComputeCommitHash(value, salt))

	// Different value or salt produces a different hash
	check.NotEqual(t, hash, ComputeCommitHash(decimal.NewFromInt(26), salt))
	check.NotEqual(t, hash, ComputeCommitHash(value, "other_salt"))

	// Verify exact hash calculation against the documented formula
	expected := sha256.Sum256([]byte("25|test_salt_456"))
	check.Equal(t, fmt.Sprintf("%x", expected), hash)
}

func TestComputeCommitHash_CanonicalValueRendering(t *testing.T) {
	salt := "salt"

	// The same numeric value hashes identically regardless of how it was
	// originally written.
	fromInt := ComputeCommitHash(decimal.NewFromInt(25), salt)
	fromFloat := ComputeCommitHash(decimal.NewFromFloat(25.0), salt)
	fromString := ComputeCommitHash(decimal.RequireFromString("2.5e1"), salt)

	check.Equal(t, fromInt, fromFloat)
	check.Equal(t, fromInt, fromString)
}

func TestComputeCommitHash_FractionalValues(t *testing.T) {
	salt := "salt"

	a := ComputeCommitHash(decimal.RequireFromString("10.5"), salt)
	b := ComputeCommitHash(decimal.RequireFromString("10.50"), salt)

	// 10.5 and 10.50 are the same number and must commit identically
	check.Equal(t, a, b)
}
