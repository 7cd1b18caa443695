package migrate

import (
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/lib/pq"
)

// Step is one schema migration. Name carries a timestamp prefix and
// decides the apply order; Down must be the working inverse of Up.
type Step struct {
	Name string
	Up   string
	Down string
}

// Open dials postgres for the migration connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping migration connection: %w", err)
	}
	return db, nil
}

func ensureTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func applied(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(`SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

// Up applies every pending step in name order, one transaction per
// step, and returns how many ran.
func Up(db *sql.DB, steps []Step) (int, error) {
	if err := ensureTable(db); err != nil {
		return 0, err
	}
	done, err := applied(db)
	if err != nil {
		return 0, err
	}

	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	n := 0
	for _, s := range ordered {
		if done[s.Name] {
			continue
		}
		if err := runInTx(db, s.Up, s.Name, true); err != nil {
			return n, fmt.Errorf("migration %s up: %w", s.Name, err)
		}
		n++
	}
	return n, nil
}

// Down reverts the last count applied steps in reverse order. A
// negative count reverts everything.
func Down(db *sql.DB, steps []Step, count int) (int, error) {
	if err := ensureTable(db); err != nil {
		return 0, err
	}
	done, err := applied(db)
	if err != nil {
		return 0, err
	}

	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name > ordered[j].Name })

	n := 0
	for _, s := range ordered {
		if count >= 0 && n >= count {
			break
		}
		if !done[s.Name] {
			continue
		}
		if err := runInTx(db, s.Down, s.Name, false); err != nil {
			return n, fmt.Errorf("migration %s down: %w", s.Name, err)
		}
		n++
	}
	return n, nil
}

func runInTx(db *sql.DB, stmts, name string, up bool) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(stmts); err != nil {
		tx.Rollback()
		return err
	}
	// step names are compile-time constants, so interpolation keeps
	// the bookkeeping portable across the postgres and sqlite drivers
	record := fmt.Sprintf(`DELETE FROM schema_migrations WHERE name = '%s'`, name)
	if up {
		record = fmt.Sprintf(`INSERT INTO schema_migrations (name) VALUES ('%s')`, name)
	}
	if _, err := tx.Exec(record); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
