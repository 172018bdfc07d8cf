package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Constraint names follow a fixed convention so tooling can discover
// exclusive-arc invariants generically across tables.

func ExclusiveActorConstraintName(table string) string {
	return "CK_" + table + "_exclusive_actor"
}

func ExclusiveTargetConstraintName(table string) string {
	return "CK_" + table + "_exclusive_target"
}

// ExclusiveArcExpr builds the CHECK expression requiring exactly one of the
// given columns to be populated.
func ExclusiveArcExpr(columns ...string) string {
	return arcExpr(columns, "= 1")
}

// OptionalArcExpr is the target variant: the whole arc may be absent, but
// never split across columns.
func OptionalArcExpr(columns ...string) string {
	return arcExpr(columns, "<= 1")
}

func arcExpr(columns []string, cmp string) string {
	terms := make([]string, len(columns))
	for i, col := range columns {
		terms[i] = fmt.Sprintf("(%s IS NOT NULL)", col)
	}
	return "(" + strings.Join(terms, " + ") + ") " + cmp
}

var ErrConstraintBeforeBackfill = errors.New("constraint ordered before its backfill")

// GuardedConstraintStep pairs a backfill pass with the constraint it makes
// safe. Statements() refuses the tempting-but-wrong order: adding the CHECK
// first fails mid-migration on any pre-existing violating row.
type GuardedConstraintStep struct {
	Backfill   []string
	Constraint []string
}

func (s GuardedConstraintStep) Statements() ([]string, error) {
	if len(s.Constraint) == 0 {
		return nil, fmt.Errorf("%w: no constraint statements", ErrConstraintBeforeBackfill)
	}
	if len(s.Backfill) == 0 {
		return nil, fmt.Errorf("%w: no backfill precedes the constraint", ErrConstraintBeforeBackfill)
	}
	out := make([]string, 0, len(s.Backfill)+len(s.Constraint))
	out = append(out, s.Backfill...)
	out = append(out, s.Constraint...)
	return out, nil
}
