// Package params provides typed, mergeable storage for accumulated query
// parameters. A Params value is the bag a criteria builder fills and finally
// hands off to a query-builder factory or a finder.
package params

import "time"

// JoinKind identifies the join variant for a Join descriptor. The zero value
// leaves the choice to the downstream SQL translator.
type JoinKind string

const (
	JoinDefault JoinKind = ""
	JoinInner   JoinKind = "INNER"
	JoinLeft    JoinKind = "LEFT"
	JoinRight   JoinKind = "RIGHT"
)

// Bind type hints for values in the BindTypes map. The builder never
// interprets these; they travel with the bag for the downstream translator.
const (
	BindTypeNull = iota
	BindTypeInt
	BindTypeString
	BindTypeDecimal
	BindTypeBool
	BindTypeBlob
)

// Join describes a single join clause: target model, optional ON condition,
// optional alias and the join kind.
type Join struct {
	Model      string
	Conditions string
	Alias      string
	Kind       JoinKind
}

// Limit holds a row limit with an optional offset.
type Limit struct {
	Number int
	Offset *int
}

// CacheOptions carries result-cache hints. An empty Key asks the executor to
// derive one from the compiled statement.
type CacheOptions struct {
	Key      string
	Lifetime time.Duration
}

// Params is the parameter bag. Every entry is absent until a builder method
// sets it: nil pointers and nil maps/slices mean "not set", never a default.
type Params struct {
	Conditions *string
	Bind       map[string]any
	BindTypes  map[string]int
	Columns    []string
	Distinct   *bool
	Joins      []Join
	Order      *string
	Group      *string
	Having     *string
	Limit      *Limit
	ForUpdate  *bool
	SharedLock *bool
	Cache      *CacheOptions
}

// SetBind stores bind values. With merge false the existing map is replaced
// outright; with merge true the incoming values are unioned into the existing
// map, incoming keys winning on collision.
func (p *Params) SetBind(values map[string]any, merge bool) {
	if !merge || p.Bind == nil {
		p.Bind = values
		return
	}
	for name, value := range values {
		p.Bind[name] = value
	}
}

// SetBindTypes stores bind type hints with the same replace/union rule as
// SetBind.
func (p *Params) SetBindTypes(values map[string]int, merge bool) {
	if !merge || p.BindTypes == nil {
		p.BindTypes = values
		return
	}
	for name, kind := range values {
		p.BindTypes[name] = kind
	}
}

// MergeConditions overwrites the conditions entry and unions any supplied
// bind values and type hints into the bag. Combining the new condition with a
// previous one is the caller's job; this method never concatenates.
func (p *Params) MergeConditions(conditions string, bind map[string]any, bindTypes map[string]int) {
	p.Conditions = &conditions
	if bind != nil {
		p.SetBind(bind, true)
	}
	if bindTypes != nil {
		p.SetBindTypes(bindTypes, true)
	}
}

// AppendJoin appends a join descriptor, preserving insertion order.
func (p *Params) AppendJoin(j Join) {
	p.Joins = append(p.Joins, j)
}

// Clone returns a deep copy of the bag so a consumer can hold the parameters
// without seeing later mutations of the builder.
func (p *Params) Clone() *Params {
	out := &Params{}
	if p.Conditions != nil {
		c := *p.Conditions
		out.Conditions = &c
	}
	if p.Bind != nil {
		out.Bind = make(map[string]any, len(p.Bind))
		for k, v := range p.Bind {
			out.Bind[k] = v
		}
	}
	if p.BindTypes != nil {
		out.BindTypes = make(map[string]int, len(p.BindTypes))
		for k, v := range p.BindTypes {
			out.BindTypes[k] = v
		}
	}
	if p.Columns != nil {
		out.Columns = append([]string(nil), p.Columns...)
	}
	if p.Distinct != nil {
		d := *p.Distinct
		out.Distinct = &d
	}
	if p.Joins != nil {
		out.Joins = append([]Join(nil), p.Joins...)
	}
	if p.Order != nil {
		o := *p.Order
		out.Order = &o
	}
	if p.Group != nil {
		g := *p.Group
		out.Group = &g
	}
	if p.Having != nil {
		h := *p.Having
		out.Having = &h
	}
	if p.Limit != nil {
		l := Limit{Number: p.Limit.Number}
		if p.Limit.Offset != nil {
			off := *p.Limit.Offset
			l.Offset = &off
		}
		out.Limit = &l
	}
	if p.ForUpdate != nil {
		f := *p.ForUpdate
		out.ForUpdate = &f
	}
	if p.SharedLock != nil {
		s := *p.SharedLock
		out.SharedLock = &s
	}
	if p.Cache != nil {
		c := *p.Cache
		out.Cache = &c
	}
	return out
}
