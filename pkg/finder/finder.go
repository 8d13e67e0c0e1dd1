// Package finder executes find operations against a relational database,
// compiling parameter bags through the query-builder factory and scanning
// rows into generic result sets.
package finder

import (
	"context"
	"database/sql"

	"github.com/querycraft/criteria/pkg/cache"
	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/params"
)

// Finder runs find operations over a *sql.DB. It implements core.Finder.
type Finder struct {
	db      *sql.DB
	factory core.BuilderFactory
	results *cache.ResultCache
}

// New creates a finder. The result cache may be nil, in which case cache
// hints in the bag are ignored.
func New(db *sql.DB, factory core.BuilderFactory, results *cache.ResultCache) *Finder {
	return &Finder{db: db, factory: factory, results: results}
}

// Find compiles the parameter bag for model, executes the statement and
// returns the materialized rows. When the bag carries a cache hint and a
// cache is configured, results are served from and stored into the cache.
func (f *Finder) Find(ctx context.Context, model string, p *params.Params) (core.ResultSet, error) {
	builder, err := f.factory.CreateBuilder(p)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.From(model).ToSQL()
	if err != nil {
		return nil, err
	}

	var key string
	if p != nil && p.Cache != nil && f.results != nil {
		key = p.Cache.Key
		if key == "" {
			key = cache.Key(query, args)
		}
		if result, ok := f.results.Get(key); ok {
			return result, nil
		}
	}

	result, err := f.query(ctx, query, args)
	if err != nil {
		return nil, err
	}

	if key != "" {
		f.results.Set(key, result, p.Cache.Lifetime)
	}
	return result, nil
}

// query runs the compiled statement and scans every row into a column-keyed
// map.
func (f *Finder) query(ctx context.Context, query string, args []any) (core.ResultSet, error) {
	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make(core.ResultSet, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(columns))
		for i, column := range columns {
			value := values[i]
			// Drivers hand back []byte for text columns; normalize to string
			// so result rows compare naturally.
			if raw, ok := value.([]byte); ok {
				value = string(raw)
			}
			row[column] = value
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
