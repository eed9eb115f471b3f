package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type refKind int

const (
	refByName refKind = iota
	refByPosition
	refByNameOrPosition
)

// ContextRef addresses a context by name, by its 1-based display position, or,
// for a numeric token, by either of them.
type ContextRef struct {
	kind     refKind
	name     string
	position int
}

// ByName references the context with the given name.
func ByName(name string) ContextRef {
	return ContextRef{kind: refByName, name: name}
}

// ByPosition references the context shown at the given 1-based position.
func ByPosition(position int) ContextRef {
	return ContextRef{kind: refByPosition, position: position}
}

// ByNameOrPosition references the context named name or shown at position.
// A context called "2024" stays reachable by name even though the token is numeric.
func ByNameOrPosition(name string, position int) ContextRef {
	return ContextRef{kind: refByNameOrPosition, name: name, position: position}
}

// Name returns the referenced name, if the reference can match by name.
func (r ContextRef) Name() (string, bool) {
	return r.name, r.kind != refByPosition
}

// Position returns the referenced position, if the reference can match by position.
func (r ContextRef) Position() (int, bool) {
	return r.position, r.kind != refByName
}

// Matches reports whether ctx, displayed at the 1-based position, is the one referenced.
func (r ContextRef) Matches(position int, ctx Context) bool {
	switch r.kind {
	case refByPosition:
		return r.position == position
	case refByNameOrPosition:
		return r.name == ctx.Name || r.position == position
	default:
		return r.name == ctx.Name
	}
}

func (r ContextRef) String() string {
	if r.kind == refByPosition {
		return "#" + strconv.Itoa(r.position)
	}
	return r.name
}

// ParseArgs splits a comma-separated argument list, dropping empty tokens.
func ParseArgs(args string) []string {
	var out []string
	for _, tok := range strings.Split(args, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ParseIDs parses a comma-separated id list.
// Valid ids are always returned; every malformed token is reported in the joined error,
// each wrapping ErrMalformedInput, so callers can warn and still apply the valid ones.
func ParseIDs(args string) ([]int, error) {
	var (
		ids  []int
		errs []error
	)
	for _, tok := range ParseArgs(args) {
		id, err := strconv.Atoi(tok)
		if err != nil || id < 1 {
			errs = append(errs, fmt.Errorf("%w: you can only use ids, this is not one: %q", ErrMalformedInput, tok))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}

// ParseContextRefs parses a comma-separated list of context names or positions.
// Tokens that are positive integers match a context by name or by position;
// anything else is a name.
func ParseContextRefs(args string) []ContextRef {
	var refs []ContextRef
	for _, tok := range ParseArgs(args) {
		if n, err := strconv.Atoi(tok); err == nil && n > 0 {
			refs = append(refs, ByNameOrPosition(tok, n))
			continue
		}
		refs = append(refs, ByName(tok))
	}
	return refs
}
