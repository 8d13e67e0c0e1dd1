// Package builder compiles an accumulated parameter bag into a SQL SELECT
// statement. It is the models-manager collaborator a criteria hands its
// parameters to.
package builder

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/errors"
	"github.com/querycraft/criteria/pkg/params"
	"github.com/querycraft/criteria/pkg/validation"
)

// Factory creates query builders seeded with a parameter bag. It implements
// core.BuilderFactory.
type Factory struct {
	metadata    core.MetadataProvider
	placeholder sq.PlaceholderFormat
}

// Option configures a Factory.
type Option func(*Factory)

// WithPlaceholderFormat sets the placeholder style of generated SQL.
// The default is question marks.
func WithPlaceholderFormat(format sq.PlaceholderFormat) Option {
	return func(f *Factory) {
		f.placeholder = format
	}
}

// NewFactory creates a builder factory resolving table names through the
// given metadata provider.
func NewFactory(metadata core.MetadataProvider, opts ...Option) *Factory {
	f := &Factory{
		metadata:    metadata,
		placeholder: sq.Question,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateBuilder returns a query builder seeded with the given parameter bag.
func (f *Factory) CreateBuilder(p *params.Params) (core.QueryBuilder, error) {
	if p == nil {
		p = &params.Params{}
	}
	return &Builder{factory: f, bag: p}, nil
}

// Builder compiles one parameter bag into a SELECT statement. It implements
// core.QueryBuilder.
type Builder struct {
	factory *Factory
	bag     *params.Params
	model   string
}

// From sets the source model of the query.
func (b *Builder) From(model string) core.QueryBuilder {
	b.model = model
	return b
}

// Params returns the parameter bag the builder was seeded with.
func (b *Builder) Params() *params.Params {
	return b.bag
}

// ToSQL renders the SELECT statement and its ordered argument list.
func (b *Builder) ToSQL() (string, []any, error) {
	if b.model == "" {
		return "", nil, errors.New("ToSQL", "", errors.ErrModelNotSet)
	}

	table, err := b.factory.metadata.TableName(b.model)
	if err != nil {
		return "", nil, err
	}

	columns := b.bag.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	query := sq.Select(columns...).From(table).PlaceholderFormat(b.factory.placeholder)

	if b.bag.Distinct != nil && *b.bag.Distinct {
		query = query.Distinct()
	}

	for _, join := range b.bag.Joins {
		clause, args, err := b.joinClause(join)
		if err != nil {
			return "", nil, err
		}
		query = query.JoinClause(sq.Expr(clause, args...))
	}

	if b.bag.Conditions != nil {
		if err := validation.Expression(*b.bag.Conditions); err != nil {
			return "", nil, err
		}
		where, args, err := translateMarkers(*b.bag.Conditions, b.bag.Bind)
		if err != nil {
			return "", nil, err
		}
		query = query.Where(sq.Expr(where, args...))
	}

	if b.bag.Group != nil {
		query = query.GroupBy(*b.bag.Group)
	}

	if b.bag.Having != nil {
		if err := validation.Expression(*b.bag.Having); err != nil {
			return "", nil, err
		}
		having, args, err := translateMarkers(*b.bag.Having, b.bag.Bind)
		if err != nil {
			return "", nil, err
		}
		query = query.Having(sq.Expr(having, args...))
	}

	if b.bag.Order != nil {
		query = query.OrderBy(*b.bag.Order)
	}

	if b.bag.Limit != nil {
		query = query.Limit(uint64(b.bag.Limit.Number))
		if b.bag.Limit.Offset != nil {
			query = query.Offset(uint64(*b.bag.Limit.Offset))
		}
	}

	if b.bag.ForUpdate != nil && *b.bag.ForUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	if b.bag.SharedLock != nil && *b.bag.SharedLock {
		query = query.Suffix("FOR SHARE")
	}

	return query.ToSql()
}

// joinClause renders one join descriptor as a raw join clause, resolving the
// joined model's table and translating any bind markers in its ON condition.
func (b *Builder) joinClause(join params.Join) (string, []any, error) {
	table, err := b.factory.metadata.TableName(join.Model)
	if err != nil {
		return "", nil, err
	}

	var clause strings.Builder
	if join.Kind != params.JoinDefault {
		clause.WriteString(string(join.Kind))
		clause.WriteByte(' ')
	}
	clause.WriteString("JOIN ")
	clause.WriteString(table)

	if join.Alias != "" {
		if err := validation.Identifier(join.Alias); err != nil {
			return "", nil, err
		}
		clause.WriteString(" AS ")
		clause.WriteString(join.Alias)
	}

	var args []any
	if join.Conditions != "" {
		on, onArgs, err := translateMarkers(join.Conditions, b.bag.Bind)
		if err != nil {
			return "", nil, fmt.Errorf("join %s: %w", join.Model, err)
		}
		clause.WriteString(" ON ")
		clause.WriteString(on)
		args = onArgs
	}

	return clause.String(), args, nil
}
