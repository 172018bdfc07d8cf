package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// StepKind orders a unification: the surviving table grows its discriminator
// and context columns, every retired row is copied under a NOT EXISTS guard,
// and only then does the retired table go away.
type StepKind int

const (
	StepAddColumns StepKind = iota
	StepCopyRows
	StepDropRetired
)

type Step struct {
	Kind StepKind
	Name string
	SQL  []string
}

var ErrMisorderedPlan = errors.New("unification steps out of order")

// UnifyPlan merges a retired table into a surviving polymorphic one behind a
// discriminator column. Data moves strictly between "new shape exists" and
// "old shape removed".
type UnifyPlan struct {
	Surviving     string
	Retired       string
	Discriminator string

	addColumns []string
	copyRows   []string
	drop       []string
}

func NewUnifyPlan(surviving, retired, discriminator string) *UnifyPlan {
	return &UnifyPlan{Surviving: surviving, Retired: retired, Discriminator: discriminator}
}

func (p *UnifyPlan) AddColumn(ddl string) *UnifyPlan {
	p.addColumns = append(p.addColumns, ddl)
	return p
}

// CopyRows registers the guarded INSERT...SELECT moving retired rows over.
// The statement must carry its own NOT EXISTS guard so a half-applied
// unification tolerates a re-run.
func (p *UnifyPlan) CopyRows(insert string) *UnifyPlan {
	p.copyRows = append(p.copyRows, insert)
	return p
}

func (p *UnifyPlan) DropRetired(ddl string) *UnifyPlan {
	p.drop = append(p.drop, ddl)
	return p
}

// Steps returns the ordered plan, refusing to emit one that would drop the
// retired table before its rows moved, or copy rows into columns that were
// never added.
func (p *UnifyPlan) Steps() ([]Step, error) {
	if len(p.addColumns) == 0 {
		return nil, fmt.Errorf("%w: no column additions on %s", ErrMisorderedPlan, p.Surviving)
	}
	if len(p.copyRows) == 0 {
		return nil, fmt.Errorf("%w: nothing copies %s into %s", ErrMisorderedPlan, p.Retired, p.Surviving)
	}
	if len(p.drop) == 0 {
		return nil, fmt.Errorf("%w: %s is never dropped", ErrMisorderedPlan, p.Retired)
	}
	return []Step{
		{Kind: StepAddColumns, Name: "extend " + p.Surviving, SQL: p.addColumns},
		{Kind: StepCopyRows, Name: "migrate " + p.Retired + " rows", SQL: p.copyRows},
		{Kind: StepDropRetired, Name: "drop " + p.Retired, SQL: p.drop},
	}, nil
}

// Exec runs the full ordered plan inside the caller's transaction.
func (p *UnifyPlan) Exec(ctx context.Context, tx *sqlx.Tx) error {
	steps, err := p.Steps()
	if err != nil {
		return err
	}
	for _, step := range steps {
		for _, stmt := range step.SQL {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("unify %s into %s, step %q: %w", p.Retired, p.Surviving, step.Name, err)
			}
		}
		log.WithField("step", step.Name).Debugln("unification step done")
	}
	return nil
}
