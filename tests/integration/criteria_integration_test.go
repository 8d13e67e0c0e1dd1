package integration

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/querycraft/criteria"
	"github.com/querycraft/criteria/pkg/params"
	"github.com/querycraft/criteria/pkg/session"
)

type Robot struct {
	ID      string
	Name    string
	Year    int
	Price   float64
	TheType string `db:"type"`
}

type RobotPart struct {
	ID      string
	RobotID string
	Kind    string
}

func newSession(t *testing.T) *session.Session {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	sess, err := session.NewSessionWithDB(&session.Config{
		Driver:       "sqlite",
		MaxOpenConns: 1,
		CacheSize:    16,
	}, db)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })

	require.NoError(t, sess.Register(&Robot{}, &RobotPart{}))

	_, err = db.Exec(`CREATE TABLE robot (
		id TEXT PRIMARY KEY, name TEXT, year INTEGER, price REAL, type TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE robot_part (
		id TEXT PRIMARY KEY, robot_id TEXT, kind TEXT)`)
	require.NoError(t, err)

	robots := []Robot{
		{ID: uuid.NewString(), Name: "C-3PO", Year: 1977, Price: 3000, TheType: "protocol"},
		{ID: uuid.NewString(), Name: "R2-D2", Year: 1977, Price: 5000, TheType: "astromech"},
		{ID: uuid.NewString(), Name: "T-800", Year: 1984, Price: 9000, TheType: "infiltrator"},
	}
	for _, r := range robots {
		_, err = db.Exec(`INSERT INTO robot (id, name, year, price, type) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Year, r.Price, r.TheType)
		require.NoError(t, err)

		_, err = db.Exec(`INSERT INTO robot_part (id, robot_id, kind) VALUES (?, ?, ?)`,
			uuid.NewString(), r.ID, "arm")
		require.NoError(t, err)
	}
	return sess
}

func TestExecuteFluentChain(t *testing.T) {
	sess := newSession(t)

	result, err := criteria.New(sess).
		SetModel("Robot").
		Columns("name", "year").
		Where("year = :year:", map[string]any{"year": 1977}, nil).
		OrderBy("name ASC").
		Execute()
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "C-3PO", result[0]["name"])
	assert.Equal(t, "R2-D2", result[1]["name"])
	_, hasPrice := result[0]["price"]
	assert.False(t, hasPrice)
}

func TestExecuteBetweenAndIn(t *testing.T) {
	sess := newSession(t)

	result, err := criteria.New(sess).
		SetModel("Robot").
		BetweenWhere("price", 4000, 10000).
		InWhere("type", "astromech", "infiltrator").
		OrderBy("price ASC").
		Execute()
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "R2-D2", result[0]["name"])
	assert.Equal(t, "T-800", result[1]["name"])
}

func TestExecuteEmptyInMatchesNothing(t *testing.T) {
	sess := newSession(t)

	result, err := criteria.New(sess).
		SetModel("Robot").
		InWhere("type").
		Execute()
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestExecuteWithJoin(t *testing.T) {
	sess := newSession(t)

	result, err := criteria.New(sess).
		SetModel("Robot").
		Columns("robot.name", "p.kind").
		InnerJoin("RobotPart", "p.robot_id = robot.id", "p").
		Where("robot.year = :year:", map[string]any{"year": 1984}, nil).
		Execute()
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "T-800", result[0]["name"])
	assert.Equal(t, "arm", result[0]["kind"])
}

func TestExecuteLimitAndOffset(t *testing.T) {
	sess := newSession(t)

	result, err := criteria.New(sess).
		SetModel("Robot").
		OrderBy("year ASC, name ASC").
		Limit(2, 1).
		Execute()
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "R2-D2", result[0]["name"])
	assert.Equal(t, "T-800", result[1]["name"])
}

func TestExecuteGroupHaving(t *testing.T) {
	sess := newSession(t)

	result, err := criteria.New(sess).
		SetModel("Robot").
		Columns("year", "COUNT(*) AS total").
		GroupBy("year").
		Having("COUNT(*) > :min:").
		Bind(map[string]any{"min": 1}, true).
		Execute()
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, int64(1977), result[0]["year"])
	assert.Equal(t, int64(2), result[0]["total"])
}

func TestExecuteCachedResultSurvivesDelete(t *testing.T) {
	sess := newSession(t)

	build := func() *criteria.Criteria {
		return criteria.New(sess).
			SetModel("Robot").
			Cache(params.CacheOptions{Key: "all-robots", Lifetime: time.Minute})
	}

	first, err := build().Execute()
	require.NoError(t, err)
	require.Len(t, first, 3)

	_, err = sess.DB().Exec(`DELETE FROM robot`)
	require.NoError(t, err)

	second, err := build().Execute()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFromInputEndToEnd(t *testing.T) {
	sess := newSession(t)

	c, err := criteria.FromInput(sess, "Robot", map[string]any{
		"name": "D",
		"year": 1977,
	}, "AND")
	require.NoError(t, err)

	result, err := c.Execute()
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "R2-D2", result[0]["name"])
}

func TestCreateBuilderCompilesSQL(t *testing.T) {
	sess := newSession(t)

	qb, err := criteria.New(sess).
		SetModel("Robot").
		Where("year = :year:", map[string]any{"year": 1977}, nil).
		Limit(5).
		CreateBuilder()
	require.NoError(t, err)

	query, args, err := qb.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM robot WHERE year = ? LIMIT 5", query)
	assert.Equal(t, []any{1977}, args)
}

func TestExecuteManyCriteriaReuseSession(t *testing.T) {
	sess := newSession(t)

	for year, want := range map[int]int{1977: 2, 1984: 1, 2000: 0} {
		result, err := criteria.New(sess).
			SetModel("Robot").
			Where(fmt.Sprintf("year = :y%d:", year), map[string]any{fmt.Sprintf("y%d", year): year}, nil).
			Execute()
		require.NoError(t, err)
		assert.Len(t, result, want, "year %d", year)
	}
}
