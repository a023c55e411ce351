// Command gadgetbench times random-probing runs of a fixed gadget at one
// C_max over a list of batch sizes and reports wall-clock and the resulting
// histogram per run, structurally identical to the teacher's
// cmd/bench/main.go (name/messages/iterations flags become
// circuit/coeff_max/batch-sizes/iterations flags).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cryptoexperts/vraps-go/internal/circuit"
	"github.com/cryptoexperts/vraps-go/pkg/verifier"
)

func main() {
	circuitPath := flag.String("circuit", "", "gadget circuit file (required)")
	coeffMax := flag.Int("coeff_max", 2, "maximum tuple size C_max to sweep up to")
	batchSizes := flag.String("batch-sizes", "1024,65536,1048576", "comma-separated batch sizes to try")
	iterations := flag.Int("iterations", 3, "number of repetitions per batch size")
	flag.Parse()

	if *circuitPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --circuit is required")
		os.Exit(1)
	}
	if *coeffMax < 1 {
		fmt.Fprintln(os.Stderr, "Error: --coeff_max must be at least 1")
		os.Exit(1)
	}
	if *iterations < 1 {
		fmt.Fprintln(os.Stderr, "Error: --iterations must be at least 1")
		os.Exit(1)
	}

	sizes, err := parseIntList(*batchSizes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	src, err := os.ReadFile(*circuitPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading circuit file: %v\n", err)
		os.Exit(1)
	}
	g, err := circuit.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing circuit: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running gadgetbench over %s (n=%d shares, %d probeable wires)...\n", *circuitPath, g.NbShares, len(g.Probeable))
	fmt.Printf("%-12s %-10s %-16s %s\n", "batch_size", "run", "elapsed", "c[]")

	for _, bs := range sizes {
		for i := 1; i <= *iterations; i++ {
			cfg := verifier.Config{BatchSize: bs}
			start := time.Now()
			h, err := verifier.RandomProbing(cfg, g.Table, g.Probeable, *coeffMax)
			elapsed := time.Since(start)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running batch_size=%d: %v\n", bs, err)
				os.Exit(1)
			}
			fmt.Printf("%-12d %-10d %-16s %v\n", bs, i, elapsed, []int64(h))
		}
	}
}

func parseIntList(s string) ([]int, error) {
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				var n int
				if _, err := fmt.Sscanf(s[start:i], "%d", &n); err != nil {
					return nil, fmt.Errorf("invalid batch size %q: %w", s[start:i], err)
				}
				out = append(out, n)
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no batch sizes given")
	}
	return out, nil
}
