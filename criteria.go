// Package criteria provides a fluent accumulator for query parameters.
//
// A Criteria collects conditions, bind values, joins, ordering, limits and
// locking hints through chained calls, then hands the accumulated parameter
// bag to a query-builder factory or executes a find operation through the
// collaborators resolved from its dependency container.
package criteria

import (
	"context"
	"fmt"

	"github.com/querycraft/criteria/internal/expr"
	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/errors"
	"github.com/querycraft/criteria/pkg/params"
)

// Criteria is the accumulated, not-yet-compiled description of a query. It
// holds unsynchronized mutable state and must be owned by a single call
// chain; it is not safe for concurrent mutation.
type Criteria struct {
	model     string
	bag       params.Params
	allocator expr.Allocator
	container core.Container
	ctx       context.Context
}

// New creates an empty criteria bound to a dependency container. The
// container may be nil when the criteria is only accumulated and handed off
// by hand, but CreateBuilder and Execute require one.
func New(container core.Container) *Criteria {
	return &Criteria{container: container}
}

// SetContainer sets the dependency container the criteria resolves its
// collaborators from.
func (c *Criteria) SetContainer(container core.Container) *Criteria {
	c.container = container
	return c
}

// Container returns the dependency container, or nil when none was set.
func (c *Criteria) Container() core.Container {
	return c.container
}

// WithContext sets the context passed to collaborators at execution time.
func (c *Criteria) WithContext(ctx context.Context) *Criteria {
	c.ctx = ctx
	return c
}

// SetModel sets the target model of the query.
func (c *Criteria) SetModel(name string) *Criteria {
	c.model = name
	return c
}

// ModelName returns the target model of the query.
func (c *Criteria) ModelName() string {
	return c.model
}

// Bind stores bind values. With merge false any previously bound values are
// replaced outright; with merge true the incoming values are unioned in,
// incoming names winning on collision.
func (c *Criteria) Bind(values map[string]any, merge bool) *Criteria {
	c.bag.SetBind(values, merge)
	return c
}

// BindTypes replaces the bind type hints.
func (c *Criteria) BindTypes(values map[string]int) *Criteria {
	c.bag.SetBindTypes(values, false)
	return c
}

// Distinct sets the DISTINCT flag.
func (c *Criteria) Distinct(flag bool) *Criteria {
	c.bag.Distinct = &flag
	return c
}

// Columns sets the columns to be selected, replacing any previous choice.
func (c *Criteria) Columns(columns ...string) *Criteria {
	c.bag.Columns = columns
	return c
}

// Join appends a join clause. conditions, alias and kind may be left empty.
func (c *Criteria) Join(model, conditions, alias string, kind params.JoinKind) *Criteria {
	c.bag.AppendJoin(params.Join{
		Model:      model,
		Conditions: conditions,
		Alias:      alias,
		Kind:       kind,
	})
	return c
}

// InnerJoin appends an INNER join clause.
func (c *Criteria) InnerJoin(model, conditions, alias string) *Criteria {
	return c.Join(model, conditions, alias, params.JoinInner)
}

// LeftJoin appends a LEFT join clause.
func (c *Criteria) LeftJoin(model, conditions, alias string) *Criteria {
	return c.Join(model, conditions, alias, params.JoinLeft)
}

// RightJoin appends a RIGHT join clause.
func (c *Criteria) RightJoin(model, conditions, alias string) *Criteria {
	return c.Join(model, conditions, alias, params.JoinRight)
}

// Where sets the conditions, replacing any previous ones, and merges the
// supplied bind values and type hints into the bag. Both maps may be nil.
func (c *Criteria) Where(conditions string, bind map[string]any, bindTypes map[string]int) *Criteria {
	c.bag.MergeConditions(conditions, bind, bindTypes)
	return c
}

// AndWhere combines the supplied conditions with the current ones as
// "(current) AND (new)". With no current conditions it behaves like Where.
func (c *Criteria) AndWhere(conditions string, bind map[string]any, bindTypes map[string]int) *Criteria {
	if current := c.bag.Conditions; current != nil {
		conditions = expr.Conjoin("AND", *current, conditions)
	}
	return c.Where(conditions, bind, bindTypes)
}

// OrWhere combines the supplied conditions with the current ones as
// "(current) OR (new)". With no current conditions it behaves like Where.
func (c *Criteria) OrWhere(conditions string, bind map[string]any, bindTypes map[string]int) *Criteria {
	if current := c.bag.Conditions; current != nil {
		conditions = expr.Conjoin("OR", *current, conditions)
	}
	return c.Where(conditions, bind, bindTypes)
}

// BetweenWhere appends a BETWEEN condition over two auto-generated bind
// names.
func (c *Criteria) BetweenWhere(subject string, minimum, maximum any) *Criteria {
	return c.betweenWhere(subject, minimum, maximum, false)
}

// NotBetweenWhere appends a NOT BETWEEN condition over two auto-generated
// bind names.
func (c *Criteria) NotBetweenWhere(subject string, minimum, maximum any) *Criteria {
	return c.betweenWhere(subject, minimum, maximum, true)
}

func (c *Criteria) betweenWhere(subject string, minimum, maximum any, negate bool) *Criteria {
	minName := c.allocator.Next()
	maxName := c.allocator.Next()
	condition := expr.Between(subject, minName, maxName, negate)
	return c.AndWhere(condition, map[string]any{minName: minimum, maxName: maximum}, nil)
}

// InWhere appends an IN condition with one auto-generated bind name per
// value. An empty value list appends an always-false condition instead, so
// the query matches nothing rather than producing invalid SQL.
func (c *Criteria) InWhere(subject string, values ...any) *Criteria {
	if len(values) == 0 {
		return c.AndWhere(expr.NeverMatch(subject), nil, nil)
	}
	return c.inWhere(subject, values, false)
}

// NotInWhere appends a NOT IN condition with one auto-generated bind name
// per value. Unlike InWhere there is no empty-set guard: an empty list
// renders "NOT IN ()" and is left for the downstream translator to judge.
func (c *Criteria) NotInWhere(subject string, values ...any) *Criteria {
	return c.inWhere(subject, values, true)
}

func (c *Criteria) inWhere(subject string, values []any, negate bool) *Criteria {
	names := make([]string, len(values))
	bind := make(map[string]any, len(values))
	for i, value := range values {
		name := c.allocator.Next()
		names[i] = name
		bind[name] = value
	}
	return c.AndWhere(expr.In(subject, names, negate), bind, nil)
}

// Conditions sets the conditions directly, replacing any previous ones
// without touching bound values.
func (c *Criteria) Conditions(conditions string) *Criteria {
	c.bag.Conditions = &conditions
	return c
}

// OrderBy sets the ordering clause.
func (c *Criteria) OrderBy(order string) *Criteria {
	c.bag.Order = &order
	return c
}

// GroupBy sets the grouping clause.
func (c *Criteria) GroupBy(group string) *Criteria {
	c.bag.Group = &group
	return c
}

// Having sets the HAVING clause.
func (c *Criteria) Having(having string) *Criteria {
	c.bag.Having = &having
	return c
}

// Limit sets the row limit with an optional offset. Negative values are
// stored as their absolute value; a zero limit leaves the entry unset.
func (c *Criteria) Limit(limit int, offset ...int) *Criteria {
	if limit < 0 {
		limit = -limit
	}
	if limit == 0 {
		return c
	}

	stored := &params.Limit{Number: limit}
	if len(offset) > 0 {
		off := offset[0]
		if off < 0 {
			off = -off
		}
		stored.Offset = &off
	}
	c.bag.Limit = stored
	return c
}

// ForUpdate sets the FOR UPDATE locking hint.
func (c *Criteria) ForUpdate(flag bool) *Criteria {
	c.bag.ForUpdate = &flag
	return c
}

// SharedLock sets the shared-lock hint.
func (c *Criteria) SharedLock(flag bool) *Criteria {
	c.bag.SharedLock = &flag
	return c
}

// Cache sets the result-cache hints for the query.
func (c *Criteria) Cache(options params.CacheOptions) *Criteria {
	c.bag.Cache = &options
	return c
}

// GetWhere returns the current conditions.
func (c *Criteria) GetWhere() (string, bool) {
	if c.bag.Conditions == nil {
		return "", false
	}
	return *c.bag.Conditions, true
}

// GetConditions returns the current conditions.
func (c *Criteria) GetConditions() (string, bool) {
	return c.GetWhere()
}

// GetColumns returns the selected columns.
func (c *Criteria) GetColumns() ([]string, bool) {
	if c.bag.Columns == nil {
		return nil, false
	}
	return c.bag.Columns, true
}

// GetLimit returns the stored limit.
func (c *Criteria) GetLimit() (params.Limit, bool) {
	if c.bag.Limit == nil {
		return params.Limit{}, false
	}
	return *c.bag.Limit, true
}

// GetOrderBy returns the ordering clause.
func (c *Criteria) GetOrderBy() (string, bool) {
	if c.bag.Order == nil {
		return "", false
	}
	return *c.bag.Order, true
}

// GetGroupBy returns the grouping clause.
func (c *Criteria) GetGroupBy() (string, bool) {
	if c.bag.Group == nil {
		return "", false
	}
	return *c.bag.Group, true
}

// GetHaving returns the HAVING clause.
func (c *Criteria) GetHaving() (string, bool) {
	if c.bag.Having == nil {
		return "", false
	}
	return *c.bag.Having, true
}

// GetParams returns the entire parameter bag.
func (c *Criteria) GetParams() *params.Params {
	return &c.bag
}

// CreateBuilder asks the container's models manager for a query builder
// seeded with a copy of the parameter bag and sets its source model.
func (c *Criteria) CreateBuilder() (core.QueryBuilder, error) {
	if c.model == "" {
		return nil, errors.New("CreateBuilder", "", errors.ErrModelNotSet)
	}
	if c.container == nil {
		return nil, errors.New("CreateBuilder", c.model, errors.ErrNoContainer)
	}

	manager := c.container.ModelsManager()
	if manager == nil {
		return nil, errors.New("CreateBuilder", c.model,
			fmt.Errorf("%w: modelsManager", errors.ErrServiceNotResolved))
	}

	builder, err := manager.CreateBuilder(c.bag.Clone())
	if err != nil {
		return nil, err
	}
	return builder.From(c.model), nil
}

// Execute runs the find operation for the accumulated parameters through the
// container's finder and returns its result set. Collaborator failures
// propagate unchanged.
func (c *Criteria) Execute() (core.ResultSet, error) {
	if c.model == "" {
		return nil, errors.New("Execute", "", errors.ErrModelNotSet)
	}
	if c.container == nil {
		return nil, errors.New("Execute", c.model, errors.ErrNoContainer)
	}

	finder := c.container.Finder()
	if finder == nil {
		return nil, errors.New("Execute", c.model,
			fmt.Errorf("%w: finder", errors.ErrServiceNotResolved))
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return finder.Find(ctx, c.model, c.bag.Clone())
}
