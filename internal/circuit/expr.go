package circuit

import (
	"fmt"

	"github.com/cryptoexperts/vraps-go/internal/algebra"
	"github.com/cryptoexperts/vraps-go/internal/common"
)

// exprParser is a small recursive-descent parser for the `term (+ term)*`,
// `factor (* factor)*` grammar of spec.md §6, with '*' binding tighter than
// '+' (needed to read expressions like `a0*b0 + a0*r + r*b0` without
// parentheses, spec.md §8 scenario 6).
type exprParser struct {
	toks    []token
	pos     int
	resolve func(name string) (algebra.Polynomial, error)
}

func parseExpr(rhs string, resolve func(string) (algebra.Polynomial, error)) (algebra.Polynomial, error) {
	p := &exprParser{toks: lex(rhs), resolve: resolve}
	e, err := p.expr()
	if err != nil {
		return algebra.Polynomial{}, err
	}
	if p.cur().kind != tokEOF {
		return algebra.Polynomial{}, fmt.Errorf("trailing tokens after expression: %w", common.ErrMalformedLine)
	}
	return e, nil
}

func (p *exprParser) cur() token { return p.toks[p.pos] }

func (p *exprParser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *exprParser) expr() (algebra.Polynomial, error) {
	left, err := p.term()
	if err != nil {
		return algebra.Polynomial{}, err
	}
	for p.cur().kind == tokPlus {
		p.advance()
		right, err := p.term()
		if err != nil {
			return algebra.Polynomial{}, err
		}
		left = algebra.Add(left, right)
	}
	return left, nil
}

func (p *exprParser) term() (algebra.Polynomial, error) {
	left, err := p.factor()
	if err != nil {
		return algebra.Polynomial{}, err
	}
	for p.cur().kind == tokStar {
		p.advance()
		right, err := p.factor()
		if err != nil {
			return algebra.Polynomial{}, err
		}
		left = algebra.Mul(left, right)
	}
	return left, nil
}

func (p *exprParser) factor() (algebra.Polynomial, error) {
	switch p.cur().kind {
	case tokLParen:
		p.advance()
		e, err := p.expr()
		if err != nil {
			return algebra.Polynomial{}, err
		}
		if p.cur().kind != tokRParen {
			return algebra.Polynomial{}, fmt.Errorf("unbalanced parentheses: %w", common.ErrMalformedLine)
		}
		p.advance()
		return e, nil
	case tokIdent:
		name := p.advance().text
		if name == "0" {
			return algebra.Zero(), nil
		}
		if name == "1" {
			return algebra.One(), nil
		}
		return p.resolve(name)
	default:
		return algebra.Polynomial{}, fmt.Errorf("expected a term: %w", common.ErrMalformedLine)
	}
}
