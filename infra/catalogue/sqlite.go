package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	corecat "github.com/kilianp07/menucycle/core/catalogue"
	"github.com/kilianp07/menucycle/core/model"
)

// DefaultTable is the table read by SQLiteSource when none is configured.
const DefaultTable = "dishes"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads dishes from a table with name and category columns,
// in insertion order.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource opens the database at path.
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteSource{db: db, table: table}, nil
}

// Load implements catalogue.Provider.
func (s *SQLiteSource) Load(ctx context.Context) ([]model.Dish, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, category FROM `+s.table+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query catalogue: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var dishes []model.Dish
	for rows.Next() {
		var d model.Dish
		var cat string
		if err := rows.Scan(&d.Name, &cat); err != nil {
			return nil, err
		}
		d.Category = model.Category(cat)
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := corecat.Validate(dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

// Replace overwrites the table content with dishes in a single transaction.
func (s *SQLiteSource) Replace(ctx context.Context, dishes []model.Dish) error {
	if err := corecat.Validate(dishes); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	schema := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
        name TEXT PRIMARY KEY,
        category TEXT NOT NULL
    );`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.table); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+s.table+` (name, category) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, d := range dishes {
		if _, err := stmt.ExecContext(ctx, d.Name, string(d.Category)); err != nil {
			return fmt.Errorf("insert %q: %w", d.Name, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
