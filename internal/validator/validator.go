// Package validator checks every model of a repository: it loads, it passes
// the structural checks and every backend can lower it.
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/arbor/internal/syntax"
	"github.com/aretw0/arbor/pkg/codegen"
	"github.com/aretw0/arbor/pkg/model"
)

// Source is the part of the engine validation reads from.
type Source interface {
	Models(ctx context.Context) ([]string, error)
	Model(ctx context.Context, name string) (*model.Model, error)
	GenerateModel(ctx context.Context, m *model.Model, lang string) (string, codegen.Diagnostics, error)
}

// Result is the outcome for one model. Problems is empty when it is valid.
type Result struct {
	Model    string
	Problems []string
}

// OK reports whether the model passed.
func (r Result) OK() bool { return len(r.Problems) == 0 }

// Option configures a validation run.
type Option func(*options)

type options struct {
	languages []string
	check     bool
}

// WithLanguages restricts code generation to langs (default: all).
func WithLanguages(langs ...string) Option {
	return func(o *options) { o.languages = langs }
}

// WithSyntaxCheck parses the generated code with the target grammar.
func WithSyntaxCheck(check bool) Option {
	return func(o *options) { o.check = check }
}

// ValidateModels checks the named models, or every model src lists when
// names is empty. The error is non-nil when any model has a problem.
func ValidateModels(ctx context.Context, src Source, names []string, opts ...Option) ([]Result, error) {
	o := options{languages: codegen.Languages()}
	for _, opt := range opts {
		opt(&o)
	}

	if len(names) == 0 {
		var err error
		if names, err = src.Models(ctx); err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
	}

	results := make([]Result, 0, len(names))
	var failed []string
	for _, name := range names {
		res := validateOne(ctx, src, name, o)
		if !res.OK() {
			failed = append(failed, name)
		}
		results = append(results, res)
	}

	if len(failed) > 0 {
		return results, fmt.Errorf("found %d invalid models: %s", len(failed), strings.Join(failed, ", "))
	}
	return results, nil
}

func validateOne(ctx context.Context, src Source, name string, o options) Result {
	res := Result{Model: name}
	m, err := src.Model(ctx, name)
	if err != nil {
		res.Problems = append(res.Problems, fmt.Sprintf("load: %v", err))
		return res
	}
	if err := m.Validate(); err != nil {
		res.Problems = append(res.Problems, err.Error())
		return res
	}

	for _, lang := range o.languages {
		code, _, err := src.GenerateModel(ctx, m, lang)
		if err != nil {
			res.Problems = append(res.Problems, fmt.Sprintf("%s: %v", lang, err))
			continue
		}
		if o.check {
			if err := syntax.Check(ctx, lang, code); err != nil {
				res.Problems = append(res.Problems, fmt.Sprintf("%s: %v", lang, err))
			}
		}
	}
	return res
}
