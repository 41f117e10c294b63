// Package db manages the embedded DuckDB database backing the catalog's
// ad-hoc query endpoints and bulk feature imports.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Get returns the singleton DuckDB connection, creating the database file
// under DataDir/duckdb on first use.
func Get(cfg Config) (*sql.DB, error) {
	once.Do(func() {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create duckdb directory: %w", err)
			return
		}

		dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
		instance, initErr = sql.Open("duckdb", dbPath)
		if initErr != nil {
			return
		}

		// Spatial for geometry columns, parquet for feature imports.
		extensions := []string{"spatial", "parquet"}
		for _, ext := range extensions {
			if _, err := instance.Exec(fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
				// Extensions might already be installed, continue
			}
		}
	})
	return instance, initErr
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// Import loads a feature file into a table, replacing any existing table
// of the same name. Parquet and GeoParquet go through read_parquet;
// GeoJSON goes through the spatial extension's ST_Read.
func Import(db *sql.DB, table, path string) (int64, error) {
	if !validTableName(table) {
		return 0, fmt.Errorf("invalid table name: %q", table)
	}

	var reader string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".geoparquet":
		reader = "read_parquet(?)"
	case ".geojson", ".json":
		reader = "ST_Read(?)"
	default:
		return 0, fmt.Errorf("unsupported feature file: %s", path)
	}

	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s", table, reader)
	if _, err := db.Exec(stmt, path); err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}

	var count int64
	if err := db.QueryRow(fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func validTableName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
