// Package circuit is the DSL front-end: it parses the line-oriented gadget
// language of spec.md §6 directly into a wire.Table, without the
// eval/load side effects the SageMath original relies on
// (original_source/verif_files/read_gadget.py).
package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cryptoexperts/vraps-go/internal/algebra"
	"github.com/cryptoexperts/vraps-go/internal/common"
	"github.com/cryptoexperts/vraps-go/internal/wire"
)

// Gadget is the result of parsing one circuit file: a populated Wire
// Table plus the bookkeeping the verifier needs to drive enumeration.
type Gadget struct {
	Table     *wire.Table
	NbShares  int
	NbSecrets int

	// Probeable is the probeable index set I of spec.md §4.5: every
	// non-output wire — randoms, raw input shares, and intermediates.
	// Each wire is probed independently in the random-probing model, so
	// shares are probeable like any other non-output wire (they are not
	// folded in with Outputs: read_gadget.generate_list_inv_var_from_file
	// builds its enumerable index set from randoms + input shares +
	// non-output intermediates and keeps output wires in a separate
	// list_out_var, appended only by composability/expandability's
	// explicit output selections, never enumerated directly). This is
	// currently identical to NonOutputProbeable; kept as a separate field
	// since the two sets have historically diverged and callers name the
	// one that matches their mode.
	Probeable []wire.Index

	// NonOutputProbeable excludes every wire belonging to an output
	// family — randoms, raw input shares, and intermediates. Composability
	// and expandability enumerate over this set and append Outputs
	// selections explicitly (spec.md §4.6).
	NonOutputProbeable []wire.Index

	// Outputs maps an output family name (the OUT line's tokens) to its n
	// share wires in declaration order (share 0 first).
	Outputs map[string][]wire.Index

	// OutputOrder lists the OUT line's family names in declaration order —
	// map iteration over Outputs is unordered, and callers that need a
	// stable "first"/"second" family (RPC/RPE1/RPE2's --copy variants)
	// read this instead.
	OutputOrder []string
}

type parser struct {
	lines       []string
	lineNo      int
	universe    *algebra.Universe
	table       *wire.Table
	symbols     map[string]wire.Index
	outNames    map[string]bool
	outNameList []string
	outputs     map[string][]wire.Index
	nonOutput   []wire.Index
}

// Parse reads one circuit description and builds its Wire Table.
func Parse(src string) (*Gadget, error) {
	p := &parser{
		symbols:  make(map[string]wire.Index),
		outNames: make(map[string]bool),
		outputs:  make(map[string][]wire.Index),
	}
	for _, raw := range strings.Split(src, "\n") {
		p.lines = append(p.lines, raw)
	}

	nbShares, err := p.parseShares()
	if err != nil {
		return nil, err
	}
	secretNames, err := p.parseIn()
	if err != nil {
		return nil, err
	}

	randomNames, err := p.parseRandoms()
	if err != nil {
		return nil, err
	}

	// Every random is declared in the Universe before any wire is added,
	// so each wire's RandomDep has one entry per declared random.
	p.universe = algebra.NewUniverse()
	p.table = wire.NewTable(p.universe, len(secretNames), nbShares)
	randomVars := make([]algebra.VarID, len(randomNames))
	for ri, name := range randomNames {
		randomVars[ri] = p.universe.DeclareRandom(name, ri)
	}

	for si, name := range secretNames {
		for k := 0; k < nbShares; k++ {
			sym := name + strconv.Itoa(k)
			v := p.universe.DeclareShare(sym, si, k)
			idx := p.table.Declare(sym, algebra.FromVar(v), 0)
			p.symbols[sym] = idx
			p.nonOutput = append(p.nonOutput, idx)
		}
	}

	for ri, name := range randomNames {
		idx := p.table.Declare(name, algebra.FromVar(randomVars[ri]), 0)
		p.table.BindRandomWire(ri, idx)
		p.symbols[name] = idx
		p.nonOutput = append(p.nonOutput, idx)
	}

	outNames, err := p.parseOut()
	if err != nil {
		return nil, err
	}
	p.outNameList = outNames
	for _, n := range outNames {
		p.outNames[n] = true
	}

	if err := p.parseBody(); err != nil {
		return nil, err
	}

	p.table.DoubleOccurrences()
	p.table.Freeze()

	return &Gadget{
		Table:              p.table,
		NbShares:           nbShares,
		NbSecrets:          len(secretNames),
		Probeable:          p.nonOutput,
		NonOutputProbeable: p.nonOutput,
		Outputs:            p.outputs,
		OutputOrder:        p.outNameList,
	}, nil
}

func (p *parser) nextNonBlank() (int, []string, bool) {
	for p.lineNo < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.lineNo])
		p.lineNo++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return p.lineNo - 1, strings.Fields(line), true
	}
	return 0, nil, false
}

func (p *parser) parseShares() (int, error) {
	_, fields, ok := p.nextNonBlank()
	if !ok || len(fields) != 2 || fields[0] != "SHARES" {
		return 0, fmt.Errorf("expected SHARES <n>: %w", common.ErrMissingHeader)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid share count %q: %w", fields[1], common.ErrMalformedLine)
	}
	return n, nil
}

func (p *parser) parseIn() ([]string, error) {
	_, fields, ok := p.nextNonBlank()
	if !ok || len(fields) < 2 || fields[0] != "IN" {
		return nil, fmt.Errorf("expected IN <names...>: %w", common.ErrMissingHeader)
	}
	names := fields[1:]
	if len(names) != 1 && len(names) != 2 {
		return nil, fmt.Errorf("input arity %d: %w", len(names), common.ErrUnsupportedArity)
	}
	return names, nil
}

func (p *parser) parseRandoms() ([]string, error) {
	_, fields, ok := p.nextNonBlank()
	if !ok || len(fields) < 1 || fields[0] != "RANDOMS" {
		return nil, fmt.Errorf("expected RANDOMS [names...]: %w", common.ErrMissingHeader)
	}
	// An AND-only or pure-copy gadget may declare no randoms at all.
	return fields[1:], nil
}

func (p *parser) parseOut() ([]string, error) {
	_, fields, ok := p.nextNonBlank()
	if !ok || len(fields) < 2 || fields[0] != "OUT" {
		return nil, fmt.Errorf("expected OUT <names...>: %w", common.ErrMissingHeader)
	}
	return fields[1:], nil
}

func (p *parser) parseBody() error {
	for {
		lineNo, fields, ok := p.nextNonBlank()
		if !ok {
			return nil
		}
		if err := p.parseAssignment(lineNo, fields); err != nil {
			return err
		}
	}
}

// parseAssignment handles one "<lhs> = <rhs expression>" line.
func (p *parser) parseAssignment(lineNo int, fields []string) error {
	if len(fields) < 3 || fields[1] != "=" {
		return fmt.Errorf("line %d: expected '<name> = <expr>': %w", lineNo+1, common.ErrMalformedLine)
	}
	lhs := fields[0]
	rhs := strings.Join(fields[2:], " ")

	expr, err := parseExpr(rhs, p.resolveOperand)
	if err != nil {
		return fmt.Errorf("line %d: %w", lineNo+1, err)
	}

	base, _ := splitNameIndex(lhs)
	isOutput := p.outNames[base]

	if existing, already := p.symbols[lhs]; already {
		if !isOutput {
			// Reassignment of a plain intermediate name: this is the
			// "repeats are renamed to fresh temporaries" case (spec.md
			// §6) — keep the old wire live (earlier references already
			// resolved against it) and rebind the name to a new wire.
			idx := p.table.Declare(lhs, expr, 0)
			p.symbols[lhs] = idx
			p.nonOutput = append(p.nonOutput, idx)
			return nil
		}
		if !p.table.Get(existing).Expr.Equal(expr) {
			return fmt.Errorf("line %d: %q: %w", lineNo+1, lhs, common.ErrInconsistentOutput)
		}
		return nil
	}

	idx := p.table.Declare(lhs, expr, 0)
	p.symbols[lhs] = idx
	if isOutput {
		p.outputs[base] = append(p.outputs[base], idx)
	} else {
		p.nonOutput = append(p.nonOutput, idx)
	}
	return nil
}

func (p *parser) resolveOperand(name string) (algebra.Polynomial, error) {
	idx, ok := p.symbols[name]
	if !ok {
		return algebra.Polynomial{}, fmt.Errorf("%q: %w", name, common.ErrUnknownSymbol)
	}
	p.table.BumpOcc(idx)
	return p.table.Get(idx).Expr, nil
}

// splitNameIndex splits a symbol like "a0" into its letter base and
// trailing numeric index.
func splitNameIndex(s string) (base string, idx int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return s[:i], n
}
