// Command commit-hash computes a sealed-bid commitment off-band.
//
// Bidders run it before the commit window closes, submit the printed hash via
// commit_bid, and keep the salt secret until the reveal window opens.
//
// # Usage
//
//	go run ./cmd/commit-hash --value=25
//	go run ./cmd/commit-hash --value=25 --salt=mysecret --format=json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

func main() {
	var (
		rawValue     = flag.String("value", "", "Bid value to commit to")
		salt         = flag.String("salt", "", "Secret salt (generated when omitted)")
		outputFormat = flag.String("format", "text", "Output format: text or json")
	)
	flag.Parse()

	if *rawValue == "" {
		fmt.Fprintf(os.Stderr, "Error: --value is required\n")
		flag.Usage()
		os.Exit(1)
	}

	value, err := decimal.NewFromString(*rawValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid value %q: %v\n", *rawValue, err)
		os.Exit(2)
	}
	if !value.IsPositive() {
		fmt.Fprintf(os.Stderr, "Error: value must be positive\n")
		os.Exit(2)
	}

	if *salt == "" {
		*salt = uuid.NewString()
	}

	hash := core.ComputeCommitHash(value, *salt)

	switch *outputFormat {
	case "json":
		out := map[string]string{
			"value":       value.String(),
			"salt":        *salt,
			"commit_hash": hash,
		}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: encoding output: %v\n", err)
			os.Exit(2)
		}
	case "text":
		fmt.Printf("value:       %s\n", value)
		fmt.Printf("salt:        %s\n", *salt)
		fmt.Printf("commit hash: %s\n", hash)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want text or json)\n", *outputFormat)
		os.Exit(1)
	}
}
