// Package schema holds the reusable evolution procedures the migration
// sequence leans on: collision-free value renumbering, column consolidation
// with a documented best-effort inverse, table unification behind a
// discriminator, invariant-after-backfill ordering, and the directed version
// graph the runner consults before walking down.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidMapping rejects remap tables whose domain strays into the
// reserved temporary range.
var ErrInvalidMapping = errors.New("invalid remap mapping")

// RemapPlan renumbers a finite-domain integer column per an explicit mapping
// table. The mapping may be non-injective and its old/new ranges may overlap;
// correctness comes from routing every row through a disjoint temporary range
// first. Old and new values must be non-negative, the negative range is the
// temporary one.
type RemapPlan struct {
	mapping map[int64]int64
}

func NewRemapPlan(mapping map[int64]int64) (*RemapPlan, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrInvalidMapping)
	}
	for old, new_ := range mapping {
		if old < 0 {
			return nil, fmt.Errorf("%w: old value %d inside reserved temporary range", ErrInvalidMapping, old)
		}
		if new_ < 0 {
			return nil, fmt.Errorf("%w: new value %d inside reserved temporary range", ErrInvalidMapping, new_)
		}
	}
	return &RemapPlan{mapping: mapping}, nil
}

// Temp is the injective temporary encoding of an old value. Strictly negative
// for every valid old value, so it can collide with neither old nor new
// values.
func (p *RemapPlan) Temp(old int64) int64 {
	return -(old + 1)
}

// Phase1 moves a mapped value into the temporary range. Values already in the
// temporary range pass through untouched (the range check, not a blind
// predicate, is what makes a partially-applied remap safe to re-run), and
// unmapped values stay as they are.
func (p *RemapPlan) Phase1(v int64) int64 {
	if v < 0 {
		return v
	}
	if _, ok := p.mapping[v]; ok {
		return p.Temp(v)
	}
	return v
}

// Phase2 lands a temporary value on its final code. Non-temporary values pass
// through.
func (p *RemapPlan) Phase2(v int64) int64 {
	if v >= 0 {
		return v
	}
	old := -v - 1
	if new_, ok := p.mapping[old]; ok {
		return new_
	}
	return v
}

// Apply runs both phases over a value slice and returns the result. Equal to
// an idealized simultaneous remap for any overlap of old, new and temporary
// ranges.
func (p *RemapPlan) Apply(values []int64) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = p.Phase1(v)
	}
	for i, v := range out {
		out[i] = p.Phase2(v)
	}
	return out
}

// Statements emits the two UPDATE passes for one table column, phase 1 fully
// before phase 2. Deterministic order so re-runs and code review see the same
// script.
func (p *RemapPlan) Statements(table, column string) []string {
	olds := make([]int64, 0, len(p.mapping))
	for old := range p.mapping {
		olds = append(olds, old)
	}
	sort.Slice(olds, func(i, j int) bool { return olds[i] < olds[j] })

	stmts := make([]string, 0, 2*len(olds))
	for _, old := range olds {
		stmts = append(stmts, fmt.Sprintf(
			"UPDATE %s SET %s = %d WHERE %s = %d AND %s >= 0",
			table, column, p.Temp(old), column, old, column,
		))
	}
	for _, old := range olds {
		stmts = append(stmts, fmt.Sprintf(
			"UPDATE %s SET %s = %d WHERE %s = %d",
			table, column, p.mapping[old], column, p.Temp(old),
		))
	}
	return stmts
}

// Exec applies the plan to a live column inside the caller's transaction.
// Returns the number of rows moved by phase 2, i.e. rows that actually
// changed code.
func (p *RemapPlan) Exec(ctx context.Context, tx *sqlx.Tx, table, column string) (int64, error) {
	stmts := p.Statements(table, column)
	phase1 := stmts[:len(stmts)/2]
	phase2 := stmts[len(stmts)/2:]

	for _, stmt := range phase1 {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("remap phase 1 on %s.%s: %w", table, column, err)
		}
	}
	var moved int64
	for _, stmt := range phase2 {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return moved, fmt.Errorf("remap phase 2 on %s.%s: %w", table, column, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			moved += n
		}
	}
	log.WithField("table", table).WithField("column", column).WithField("rows", moved).Debugln("remapped column values")
	return moved, nil
}
