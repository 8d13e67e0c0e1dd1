package finder_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/querycraft/criteria/pkg/builder"
	"github.com/querycraft/criteria/pkg/cache"
	"github.com/querycraft/criteria/pkg/errors"
	"github.com/querycraft/criteria/pkg/finder"
	"github.com/querycraft/criteria/pkg/model"
	"github.com/querycraft/criteria/pkg/params"
)

type Robot struct {
	ID   int64
	Name string
	Year int
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// In-memory SQLite is per-connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE robot (id INTEGER PRIMARY KEY, name TEXT, year INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO robot (id, name, year) VALUES
		(1, 'C-3PO', 1977),
		(2, 'R2-D2', 1977),
		(3, 'T-800', 1984)`)
	require.NoError(t, err)
	return db
}

func newFinder(t *testing.T, db *sql.DB) *finder.Finder {
	t.Helper()

	registry := model.NewRegistry()
	require.NoError(t, registry.Register(&Robot{}))

	results, err := cache.New(8)
	require.NoError(t, err)

	return finder.New(db, builder.NewFactory(registry), results)
}

func strPtr(s string) *string { return &s }

func TestFindAllRows(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	result, err := f.Find(context.Background(), "Robot", &params.Params{
		Order: strPtr("id ASC"),
	})
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "C-3PO", result[0]["name"])
	assert.Equal(t, int64(3), result[2]["id"])
}

func TestFindWithConditions(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	result, err := f.Find(context.Background(), "Robot", &params.Params{
		Conditions: strPtr("year = :year:"),
		Bind:       map[string]any{"year": 1977},
		Order:      strPtr("name ASC"),
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "C-3PO", result[0]["name"])
	assert.Equal(t, "R2-D2", result[1]["name"])
}

func TestFindUnknownModel(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	_, err := f.Find(context.Background(), "Ghost", &params.Params{})
	assert.ErrorIs(t, err, errors.ErrModelNotRegistered)
}

func TestFindMissingBindParameter(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	_, err := f.Find(context.Background(), "Robot", &params.Params{
		Conditions: strPtr("year = :year:"),
	})
	assert.ErrorIs(t, err, errors.ErrMissingBindParameter)
}

func TestFindServesCachedResult(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	bag := &params.Params{
		Cache: &params.CacheOptions{Key: "robots-all", Lifetime: time.Minute},
	}

	first, err := f.Find(context.Background(), "Robot", bag)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Mutate the table; the cached result must still be served.
	_, err = db.Exec(`DELETE FROM robot`)
	require.NoError(t, err)

	second, err := f.Find(context.Background(), "Robot", bag)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindDerivesCacheKeyFromStatement(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	bag := &params.Params{
		Conditions: strPtr("year = :year:"),
		Bind:       map[string]any{"year": 1984},
		Cache:      &params.CacheOptions{Lifetime: time.Minute},
	}

	first, err := f.Find(context.Background(), "Robot", bag)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = db.Exec(`DELETE FROM robot`)
	require.NoError(t, err)

	second, err := f.Find(context.Background(), "Robot", bag)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A different statement misses the cache and sees the empty table.
	fresh, err := f.Find(context.Background(), "Robot", &params.Params{
		Cache: &params.CacheOptions{Lifetime: time.Minute},
	})
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestFindWithoutCacheHintAlwaysQueries(t *testing.T) {
	db := openDB(t)
	f := newFinder(t, db)

	first, err := f.Find(context.Background(), "Robot", &params.Params{})
	require.NoError(t, err)
	require.Len(t, first, 3)

	_, err = db.Exec(`DELETE FROM robot`)
	require.NoError(t, err)

	second, err := f.Find(context.Background(), "Robot", &params.Params{})
	require.NoError(t, err)
	assert.Empty(t, second)
}
