// Package results stores simulation statistics keyed by lattice size and
// anisotropy angle.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableRuns = "runs"
)

// Statistics is the aggregated result of one simulated configuration.
type Statistics struct {
	L         int
	Theta     float64
	M2        float64
	M2Err     float64
	Binder    float64
	BinderErr float64
}

type Store struct {
	db *sql.DB
}

// Open opens the store at dbPath, creating it if needed.
// Existing rows are kept, so that interrupted runs can be resumed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or overwrites the statistics of one configuration.
func (s *Store) Put(stats Statistics) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (l, theta, m2, m2err, binder, bindererr) VALUES (?, ?, ?, ?, ?, ?)`, tableRuns)
	args := []any{stats.L, stats.Theta, stats.M2, stats.M2Err, stats.Binder, stats.BinderErr}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %#v", sqlStr, args))
	}
	return nil
}

// Has reports whether a configuration has already been simulated.
func (s *Store) Has(l int, theta float64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT 1 FROM %s WHERE l=? AND theta=?`, tableRuns)
	var one int
	err := s.db.QueryRowContext(ctx, sqlStr, l, theta).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "")
	default:
		return true, nil
	}
}

// Gather returns all stored statistics ordered by lattice size and angle.
func (s *Store) Gather() ([]Statistics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT l, theta, m2, m2err, binder, bindererr FROM %s ORDER BY l, theta`, tableRuns)
	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	all := make([]Statistics, 0)
	for rows.Next() {
		var st Statistics
		if err := rows.Scan(&st.L, &st.Theta, &st.M2, &st.M2Err, &st.Binder, &st.BinderErr); err != nil {
			return nil, errors.Wrap(err, "")
		}
		all = append(all, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	return all, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (l INTEGER, theta REAL, m2 REAL, m2err REAL, binder REAL, bindererr REAL, PRIMARY KEY (l, theta)) STRICT`, tableRuns)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
