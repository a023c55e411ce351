// Command vraps verifies random probing security/composability/expandability
// of boolean masking gadgets described in the DSL of spec.md §6.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cryptoexperts/vraps-go/internal/circuit"
	"github.com/cryptoexperts/vraps-go/internal/enum"
	"github.com/cryptoexperts/vraps-go/internal/wire"
	"github.com/cryptoexperts/vraps-go/pkg/report"
	"github.com/cryptoexperts/vraps-go/pkg/verifier"
)

// Command represents a CLI subcommand (shape copied from the teacher's
// cmd/credgen/main.go dispatch table).
type Command struct {
	Name        string
	Description string
	Execute     func(args []string) error
}

func main() {
	commands := []Command{
		{Name: "probing", Description: "Check t-probing security", Execute: cmdProbing},
		{Name: "rp", Description: "Compute the random-probing leakage histogram", Execute: cmdRP},
		{Name: "rpc", Description: "Compute the composability (RPC) histogram", Execute: cmdRPC},
		{Name: "rpe1", Description: "Compute the RPE1 expandability per-secret histograms", Execute: cmdRPE1},
		{Name: "rpe2", Description: "Compute the RPE2 expandability per-secret histograms", Execute: cmdRPE2},
	}

	if len(os.Args) < 2 {
		showHelp(commands)
		os.Exit(1)
	}

	name := os.Args[1]
	for _, c := range commands {
		if c.Name == name {
			if err := c.Execute(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
	showHelp(commands)
	os.Exit(1)
}

func showHelp(commands []Command) {
	fmt.Println("vraps - random probing security/composability/expandability verifier")
	fmt.Println("\nUsage:")
	fmt.Println("  vraps <command> [options]")
	fmt.Println("\nAvailable Commands:")
	for _, c := range commands {
		fmt.Printf("  %-8s %s\n", c.Name, c.Description)
	}
	fmt.Println("\nRun 'vraps <command> -h' for flag details")
}

// commonFlags is the --circuit/--verbosity/--batch-size/--json-out/
// --chart-out flag set shared by every mode (spec.md §6, SPEC_FULL.md §8).
type commonFlags struct {
	circuitPath string
	verbosity   int
	batchSize   int
	jsonOut     string
	chartOut    string
}

func bindCommon(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.circuitPath, "circuit", "", "gadget circuit file (required)")
	fs.IntVar(&cf.verbosity, "verbosity", 0, "verbosity level {0,1,2}")
	fs.IntVar(&cf.batchSize, "batch-size", 0, "enumeration batch size (default 2^20)")
	fs.StringVar(&cf.jsonOut, "json-out", "", "optional: write the full result as JSON to this file")
	fs.StringVar(&cf.chartOut, "chart-out", "", "optional: render the histogram as a PNG bar chart to this file")
	return cf
}

func (cf *commonFlags) loadGadget() (*circuit.Gadget, error) {
	if cf.circuitPath == "" {
		return nil, fmt.Errorf("--circuit is required")
	}
	src, err := os.ReadFile(cf.circuitPath)
	if err != nil {
		return nil, fmt.Errorf("read circuit file: %w", err)
	}
	g, err := circuit.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse circuit: %w", err)
	}
	return g, nil
}

func (cf *commonFlags) verifierConfig() verifier.Config {
	return verifier.Config{BatchSize: cf.batchSize, Verbosity: cf.verbosity}
}

func cmdProbing(args []string) error {
	fs := flag.NewFlagSet("probing", flag.ExitOnError)
	order := fs.Int("order", 1, "probing order t")
	cf := bindCommon(fs)
	fs.Parse(args)

	g, err := cf.loadGadget()
	if err != nil {
		return err
	}

	secure, witness, err := verifier.TProbing(cf.verifierConfig(), g.Table, g.Probeable, *order)
	if err != nil {
		return err
	}

	if secure {
		fmt.Println("secure")
	} else {
		fmt.Println("not secure")
		fmt.Printf("witness: %v\n", witness)
	}

	if cf.jsonOut != "" {
		res := report.TProbingResult{Mode: "probing", Order: *order, Secure: secure, Witness: witness}
		if err := report.WriteJSON(cf.jsonOut, res); err != nil {
			return err
		}
	}
	if !secure {
		os.Exit(1)
	}
	return nil
}

func cmdRP(args []string) error {
	fs := flag.NewFlagSet("rp", flag.ExitOnError)
	coeffMax := fs.Int("coeff_max", 2, "maximum tuple size C_max")
	cf := bindCommon(fs)
	fs.Parse(args)

	g, err := cf.loadGadget()
	if err != nil {
		return err
	}

	h, err := verifier.RandomProbing(cf.verifierConfig(), g.Table, g.Probeable, *coeffMax)
	if err != nil {
		return err
	}
	printHistogram("c", h)

	if cf.jsonOut != "" {
		res := report.HistogramResult{Mode: "rp", CoeffMax: *coeffMax, Histogram: h}
		if err := report.WriteJSON(cf.jsonOut, res); err != nil {
			return err
		}
	}
	return renderChart(cf.chartOut, "Random Probing", h)
}

func cmdRPC(args []string) error {
	fs := flag.NewFlagSet("rpc", flag.ExitOnError)
	order := fs.Int("order", 1, "bounded Rule 1 threshold t")
	tOutput := fs.Int("t-output", 0, "output-subset size t' (defaults to --order)")
	coeffMax := fs.Int("coeff_max", 2, "maximum tuple size C_max")
	copyGadget := fs.Bool("copy", false, "treat --circuit's OUT list as two concatenated output families")
	cf := bindCommon(fs)
	fs.Parse(args)

	g, err := cf.loadGadget()
	if err != nil {
		return err
	}

	outputs, err := outputUnion(g, *copyGadget)
	if err != nil {
		return err
	}

	h, err := verifier.Composability(cf.verifierConfig(), g.Table, g.NonOutputProbeable, outputs, *order, *tOutput, *coeffMax, *copyGadget)
	if err != nil {
		return err
	}
	printHistogram("c", h)

	if cf.jsonOut != "" {
		res := report.HistogramResult{Mode: "rpc", CoeffMax: *coeffMax, Threshold: *order, Histogram: h}
		if err := report.WriteJSON(cf.jsonOut, res); err != nil {
			return err
		}
	}
	return renderChart(cf.chartOut, "Composability (RPC)", h)
}

func cmdRPE1(args []string) error {
	fs := flag.NewFlagSet("rpe1", flag.ExitOnError)
	order := fs.Int("order", 1, "bounded Rule 1 threshold t")
	coeffMax := fs.Int("coeff_max", 2, "maximum tuple size C_max")
	copyGadget := fs.Bool("copy", false, "use the copy-gadget variant (two output families)")
	cf := bindCommon(fs)
	fs.Parse(args)

	return runExpandability("rpe1", cf, *order, *coeffMax, *copyGadget, verifier.Expandability1)
}

func cmdRPE2(args []string) error {
	fs := flag.NewFlagSet("rpe2", flag.ExitOnError)
	order := fs.Int("order", 1, "output subset size t / bounded Rule 1 threshold")
	coeffMax := fs.Int("coeff_max", 2, "maximum tuple size C_max")
	copyGadget := fs.Bool("copy", false, "use the copy-gadget variant (two output families)")
	cf := bindCommon(fs)
	fs.Parse(args)

	return runExpandability("rpe2", cf, *order, *coeffMax, *copyGadget, verifier.Expandability2)
}

type expandabilityFunc func(cfg verifier.Config, tbl *wire.Table, probeable []wire.Index, outputs [2][]wire.Index, t, coeffMax int, copy bool) ([]verifier.PerSecretHistograms, error)

func runExpandability(mode string, cf *commonFlags, order, coeffMax int, copyGadget bool, fn expandabilityFunc) error {
	g, err := cf.loadGadget()
	if err != nil {
		return err
	}

	names := g.OutputOrder
	var outputs [2][]wire.Index
	if copyGadget {
		if len(names) != 2 {
			return fmt.Errorf("--copy requires exactly two OUT families, got %d", len(names))
		}
		outputs[0] = g.Outputs[names[0]]
		outputs[1] = g.Outputs[names[1]]
	} else {
		if len(names) == 0 {
			return fmt.Errorf("gadget declares no output families")
		}
		outputs[0] = g.Outputs[names[0]]
	}

	tables, err := fn(cf.verifierConfig(), g.Table, g.NonOutputProbeable, outputs, order, coeffMax, copyGadget)
	if err != nil {
		return err
	}

	for i, cats := range tables {
		if len(tables) > 1 {
			fmt.Printf("--- output family %d (%s) ---\n", i, names[i])
		}
		fmt.Println("I1:")
		printHistogram("c", cats.I1)
		if cats.I2 != nil {
			fmt.Println("I2:")
			printHistogram("c", cats.I2)
			fmt.Println("I1 AND I2:")
			printHistogram("c", cats.I1And)
			fmt.Println("I1 OR I2:")
			printHistogram("c", cats.I1Or)
		}
	}

	if cf.jsonOut != "" {
		res := report.NewCategoryResults(mode, coeffMax, order, tables)
		if err := report.WriteJSON(cf.jsonOut, res); err != nil {
			return err
		}
	}
	return renderChart(cf.chartOut, mode, tables[0].I1)
}

// outputUnion returns the output wires for RPC: a single family's shares,
// or (when copy is requested) the concatenation of exactly two families in
// declaration order, matching Composability's copy-gadget convention.
func outputUnion(g *circuit.Gadget, copyGadget bool) ([]wire.Index, error) {
	names := g.OutputOrder
	if !copyGadget {
		if len(names) == 0 {
			return nil, fmt.Errorf("gadget declares no output families")
		}
		return g.Outputs[names[0]], nil
	}
	if len(names) != 2 {
		return nil, fmt.Errorf("--copy requires exactly two OUT families, got %d", len(names))
	}
	return append(append([]wire.Index(nil), g.Outputs[names[0]]...), g.Outputs[names[1]]...), nil
}

func printHistogram(label string, h enum.Histogram) {
	fmt.Printf("%s = %v\n", label, []int64(h))
}

func renderChart(path, title string, h enum.Histogram) error {
	if path == "" {
		return nil
	}
	return report.WriteHistogramChart(path, title, h)
}
