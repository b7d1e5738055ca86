package dictionary

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// sqliteDriver is the database/sql name registered by modernc.org/sqlite.
const sqliteDriver = "sqlite"

// Source produces raw corpus entries for the index builder.
type Source interface {
	Load(ctx context.Context) ([]string, error)
	Name() string
}

// TextSource reads one entry per line from a file. Blank lines and lines
// starting with '#' are skipped.
type TextSource struct {
	Path string
}

// Name implements Source.
func (s TextSource) Name() string { return "text:" + s.Path }

// Load implements Source.
func (s TextSource) Load(ctx context.Context) ([]string, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file %s: %w", s.Path, err)
	}
	defer file.Close()
	return ReadLines(ctx, file)
}

// ReadLines reads non-blank, non-comment lines from r.
func ReadLines(ctx context.Context, r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus lines: %w", err)
	}
	return entries, nil
}

// JSONSource reads a JSON array of objects and takes the string found under
// Field in each object. Field defaults to "name".
type JSONSource struct {
	Path  string
	Field string
}

// Name implements Source.
func (s JSONSource) Name() string { return "json:" + s.Path }

// Load implements Source.
func (s JSONSource) Load(ctx context.Context) ([]string, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file %s: %w", s.Path, err)
	}
	defer file.Close()
	return ReadJSON(ctx, file, s.Field)
}

// ReadJSON decodes a JSON array of objects from r and returns the string
// values stored under field. Objects missing the field are skipped.
func ReadJSON(ctx context.Context, r io.Reader, field string) ([]string, error) {
	if field == "" {
		field = "name"
	}
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode corpus JSON: %w", err)
	}

	entries := make([]string, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, ok := rec[field].(string)
		if !ok {
			log.Debugf("Skipping JSON record %d without string field '%s'", i, field)
			continue
		}
		entries = append(entries, val)
	}
	return entries, nil
}

// SQLiteSource runs Query against the database at Path. The query must
// select a single text column.
type SQLiteSource struct {
	Path  string
	Query string
}

// Name implements Source.
func (s SQLiteSource) Name() string { return "sqlite:" + s.Path }

// Load implements Source.
func (s SQLiteSource) Load(ctx context.Context) ([]string, error) {
	db, err := sql.Open(sqliteDriver, s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", s.Path, err)
	}
	defer db.Close()
	return ReadSQL(ctx, db, s.Query)
}

// ReadSQL returns the values of the single column selected by query. NULL
// values are skipped.
func ReadSQL(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var val sql.NullString
		if err := rows.Scan(&val); err != nil {
			return nil, fmt.Errorf("failed to scan corpus row: %w", err)
		}
		if val.Valid {
			entries = append(entries, val.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corpus rows: %w", err)
	}
	return entries, nil
}
