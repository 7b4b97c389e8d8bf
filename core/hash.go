package core

import (
	"crypto/sha256"
	"fmt"

	"github.com/shopspring/decimal"
)

// NoCommit is the commit-hash sentinel meaning "no commitment present".
// A stored commitment is always a non-empty hex digest.
const NoCommit = ""

// ComputeCommitHash computes the hiding commitment for a sealed bid.
// This is used by bidders (off-band, before the commit window closes) to
// generate commitments and by the registry (during the reveal window) to
// verify them.
//
// Formula: SHA256(value + "|" + salt)
//
// The value is rendered through decimal.String so the digest is independent
// of how the amount was originally written ("25", "25.0" and "2.5e1" all
// hash identically).
func ComputeCommitHash(value decimal.Decimal, salt string) string {
	data := fmt.Sprintf("%s|%s", value.String(), salt)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
