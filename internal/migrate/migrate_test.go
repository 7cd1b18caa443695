package migrate

import (
	"database/sql"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sqlite stands in for postgres here; the runner itself is what is
// under test, so the steps use portable DDL.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	db, err := gdb.DB()
	require.NoError(t, err)
	return db
}

var testSteps = []Step{
	{
		Name: "20250101000000_create_things",
		Up:   `CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT NOT NULL);`,
		Down: `DROP TABLE things;`,
	},
	{
		Name: "20250102000000_add_color",
		Up:   `ALTER TABLE things ADD COLUMN color TEXT NOT NULL DEFAULT '';`,
		Down: `ALTER TABLE things DROP COLUMN color;`,
	},
	{
		Name: "20250103000000_create_others",
		Up:   `CREATE TABLE others (id INTEGER PRIMARY KEY);`,
		Down: `DROP TABLE others;`,
	},
}

func TestUpAppliesInOrder(t *testing.T) {
	db := testDB(t)

	// deliberately shuffled input; order must come from names
	shuffled := []Step{testSteps[2], testSteps[0], testSteps[1]}
	n, err := Up(db, shuffled)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = db.Exec(`INSERT INTO things (name, color) VALUES ('mat', 'blue')`)
	require.NoError(t, err)

	rows, err := db.Query(`SELECT name FROM schema_migrations ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{
		"20250101000000_create_things",
		"20250102000000_add_color",
		"20250103000000_create_others",
	}, names)
}

func TestUpIsIdempotent(t *testing.T) {
	db := testDB(t)

	n, err := Up(db, testSteps)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = Up(db, testSteps)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDownRevertsInReverse(t *testing.T) {
	db := testDB(t)

	_, err := Up(db, testSteps)
	require.NoError(t, err)

	n, err := Down(db, testSteps, 2)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// color column and others table are gone, things remains
	_, err = db.Exec(`INSERT INTO things (name) VALUES ('mat')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO things (name, color) VALUES ('mat', 'blue')`)
	require.Error(t, err)
	_, err = db.Exec(`INSERT INTO others (id) VALUES (1)`)
	require.Error(t, err)
}

func TestUpDownUpReplay(t *testing.T) {
	db := testDB(t)

	_, err := Up(db, testSteps)
	require.NoError(t, err)

	n, err := Down(db, testSteps, -1)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = Up(db, testSteps)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = db.Exec(`INSERT INTO things (name, color) VALUES ('mat', 'blue')`)
	require.NoError(t, err)
}

func TestRealStepsHaveInverses(t *testing.T) {
	seen := map[string]bool{}
	last := ""
	for _, s := range Steps {
		require.NotEmpty(t, s.Name)
		require.NotEmpty(t, s.Up, "step %s", s.Name)
		require.NotEmpty(t, s.Down, "step %s", s.Name)
		require.False(t, seen[s.Name], "duplicate step %s", s.Name)
		require.Greater(t, s.Name, last, "steps out of order at %s", s.Name)
		seen[s.Name] = true
		last = s.Name
	}
}
