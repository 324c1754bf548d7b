package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"finopschat/models"

	_ "github.com/lib/pq"
)

// maxResultRows is appended as a hard outer LIMIT regardless of what the
// planner's own query requests.
const maxResultRows = 100

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is not configured")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		// Log a warning but do not fail service initialization, so the
		// application can start even if Postgres is temporarily unavailable.
		log.Printf("Warning: failed to ping Postgres during initialization: %v", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) IsConnected() bool {
	if s.db == nil {
		return false
	}
	return s.db.Ping() == nil
}

// RunQuery executes an already-validated SELECT. The caller's query is
// wrapped as a subquery with an outer LIMIT so the result is bounded even if
// the inner query's own LIMIT is wrong or absent.
func (s *Store) RunQuery(ctx context.Context, query string) (*models.ResultSet, error) {
	if s.db == nil {
		return nil, fmt.Errorf("postgres connection is not initialized")
	}

	wrapped := fmt.Sprintf("SELECT * FROM (%s) AS subquery LIMIT %d", query, maxResultRows)

	rows, err := s.db.QueryContext(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	result := &models.ResultSet{Columns: columns, Rows: []map[string]interface{}{}}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("query execution failed: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case []byte:
				// lib/pq returns numerics and text as raw bytes
				row[col] = string(v)
			default:
				row[col] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	return result, nil
}
