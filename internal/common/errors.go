// Package common provides shared error definitions and constants used
// throughout the verifier.
//
// This is an internal package not intended for direct use by applications.
package common

import "errors"

// Configuration errors (spec.md §7 "Configuration")
var (
	// ErrOrderTooLarge is returned when t >= n (probing order exceeds shares).
	ErrOrderTooLarge = errors.New("probing order t must be strictly less than the number of shares n")

	// ErrUnsupportedArity is returned when a gadget has an input arity other than 1 or 2.
	ErrUnsupportedArity = errors.New("unsupported input arity: only 1 or 2 secret inputs are supported")

	// ErrInvalidCoeffMax is returned when C_max <= 0.
	ErrInvalidCoeffMax = errors.New("coeff_max must be strictly positive")

	// ErrInvalidBatchSize is returned when the batch size is non-positive.
	ErrInvalidBatchSize = errors.New("batch size must be strictly positive")

	// ErrNoOutputs is returned when a mode requiring output shares is given none.
	ErrNoOutputs = errors.New("no output shares declared for this gadget")

	// ErrMismatchedCopyOutputs is returned when --copy is requested but the
	// gadget does not declare exactly two output families.
	ErrMismatchedCopyOutputs = errors.New("copy-gadget modes require exactly two output share families")
)

// Parse errors (spec.md §7 "Parse")
var (
	// ErrMalformedLine indicates a DSL line that does not match the expected grammar.
	ErrMalformedLine = errors.New("malformed circuit line")

	// ErrDuplicateSymbol indicates a share, random, or output symbol declared twice.
	ErrDuplicateSymbol = errors.New("duplicate symbol declaration")

	// ErrUnknownSymbol indicates a reference to a variable never declared.
	ErrUnknownSymbol = errors.New("reference to undeclared symbol")

	// ErrMissingHeader indicates the SHARES/IN/RANDOMS/OUT preamble is incomplete.
	ErrMissingHeader = errors.New("missing circuit header line")

	// ErrInconsistentOutput indicates an output share assigned twice with
	// different expressions.
	ErrInconsistentOutput = errors.New("output share assigned inconsistent expressions")
)

// Invariant errors (spec.md §7 "Classifier invariant violation") — these
// indicate a program bug, not a user-facing condition, and are never
// expected to surface outside of tests.
var (
	// ErrUnknownVariable indicates a derived wire's expression referenced a
	// variable id no table or algebra construction ever assigned.
	ErrUnknownVariable = errors.New("internal: derived expression contains an unknown variable")

	// ErrSignatureExhausted indicates more wires were declared than the
	// configured signature capacity supports.
	ErrSignatureExhausted = errors.New("internal: wire table exceeded signature capacity")
)
