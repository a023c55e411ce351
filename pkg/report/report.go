// Package report serializes verification results for downstream tooling
// (spec.md §6, SPEC_FULL.md §8 "--json-out"): one JSON-tagged struct per
// mode, adapted from the teacher's Credential/CredentialProof pattern in
// cmd/credgen/main.go (a plain tagged struct, marshaled with
// json.MarshalIndent, written straight to a file).
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cryptoexperts/vraps-go/internal/enum"
	"github.com/cryptoexperts/vraps-go/pkg/verifier"
)

// TProbingResult is the --json-out payload for the t-probing mode.
type TProbingResult struct {
	Mode    string   `json:"mode"`
	Order   int      `json:"order"`
	Secure  bool     `json:"secure"`
	Witness []string `json:"witness,omitempty"`
}

// HistogramResult is the --json-out payload for rp/rpc.
type HistogramResult struct {
	Mode      string         `json:"mode"`
	CoeffMax  int            `json:"coeffMax"`
	Threshold int            `json:"threshold,omitempty"`
	Histogram enum.Histogram `json:"histogram"`
}

// CategoryResult is the --json-out payload for one rpe1/rpe2 output table.
// Bit distinguishes the two tables a --copy gadget produces (one per output
// family); it is omitted for non-copy gadgets, which produce a single table.
type CategoryResult struct {
	Mode      string         `json:"mode"`
	Bit       *int           `json:"bit,omitempty"`
	CoeffMax  int            `json:"coeffMax"`
	Threshold int            `json:"threshold"`
	I1        enum.Histogram `json:"i1"`
	I2        enum.Histogram `json:"i2,omitempty"`
	I1And     enum.Histogram `json:"i1And,omitempty"`
	I1Or      enum.Histogram `json:"i1Or,omitempty"`
}

// NewCategoryResults adapts Expandability1/2's per-table results into their
// JSON form: one element for a non-copy gadget, two (bit-tagged) for a copy
// gadget.
func NewCategoryResults(mode string, coeffMax, threshold int, tables []verifier.PerSecretHistograms) []CategoryResult {
	out := make([]CategoryResult, len(tables))
	for i, h := range tables {
		r := CategoryResult{
			Mode:      mode,
			CoeffMax:  coeffMax,
			Threshold: threshold,
			I1:        h.I1,
			I2:        h.I2,
			I1And:     h.I1And,
			I1Or:      h.I1Or,
		}
		if len(tables) > 1 {
			bit := i
			r.Bit = &bit
		}
		out[i] = r
	}
	return out
}

// WriteJSON marshals v with indentation and writes it to path, matching
// the teacher's json.MarshalIndent + ioutil.WriteFile pairing in
// cmd/credgen/main.go.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result to JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result to %s: %w", path, err)
	}
	return nil
}
