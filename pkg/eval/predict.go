package eval

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// Predict evaluates m on row in a fresh environment and converts the result
// back into a variable. The row is assumed to match the signature; a
// mismatch surfaces as an invariant panic.
func Predict(m *model.Model, row domain.Row) domain.Variable {
	return domain.FromConstant(Evaluate(m.Code, ForTree(row, m.Code)))
}

// PredictChecked validates row against the signature first and turns an
// invariant violation into an error. Outer surfaces use it on untrusted rows.
func PredictChecked(m *model.Model, row domain.Row) (v domain.Variable, err error) {
	if err := m.Signature.Check(row); err != nil {
		return domain.Variable{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*domain.InvariantError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("model %s: %w", m.Name, ie)
		}
	}()
	return Predict(m, row), nil
}

// PredictBatch predicts every row with at most workers concurrent
// evaluations. The tree is only read, so rows share it; each gets its own
// environment. The first failing row cancels the rest.
func PredictBatch(ctx context.Context, m *model.Model, rows []domain.Row, workers int) ([]domain.Variable, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]domain.Variable, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := PredictChecked(m, row)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Trace evaluates m on row and returns the result together with every node
// that was evaluated, each once, in first-visit order.
func Trace(m *model.Model, row domain.Row) (v domain.Variable, path []*ast.Node, err error) {
	if err := m.Signature.Check(row); err != nil {
		return domain.Variable{}, nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*domain.InvariantError)
			if !ok {
				panic(r)
			}
			v, path, err = domain.Variable{}, nil, fmt.Errorf("model %s: %w", m.Name, ie)
		}
	}()
	seen := make(map[*ast.Node]bool)
	env := ForTree(row, m.Code)
	env.Visit = func(n *ast.Node) {
		if !seen[n] {
			seen[n] = true
			path = append(path, n)
		}
	}
	return domain.FromConstant(Evaluate(m.Code, env)), path, nil
}
