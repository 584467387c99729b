package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/infrastructure/parser"
	"github.com/lib/pq"
)

// PostgresTables katalog jadvallari nomlari
type PostgresTables struct {
	Orders    string
	Prices    string
	Portfolio string
}

// DefaultPostgresTables returns the table names used when none are configured.
func DefaultPostgresTables() PostgresTables {
	return PostgresTables{Orders: "pedidos", Prices: "precos", Portfolio: "portfolio"}
}

// PostgresCatalogSource reads the catalog tables from PostgreSQL. It never writes.
type PostgresCatalogSource struct {
	db     *sql.DB
	tables PostgresTables
	dsn    postgresDSNInfo
}

// NewPostgresCatalogSource connects (with retries) and returns a read-only source.
func NewPostgresCatalogSource(ctx context.Context, dsn string, tables PostgresTables) (*PostgresCatalogSource, error) {
	db, err := openPostgresWithRetry(ctx, dsn, postgresConnectAttemptsDefault, postgresConnectDelayDefault)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	info, _ := parsePostgresDSNInfo(dsn)
	return &PostgresCatalogSource{db: db, tables: tables, dsn: info}, nil
}

func (s *PostgresCatalogSource) Name() string { return "postgres" }

// Location describes the database without credentials.
func (s *PostgresCatalogSource) Location() string { return s.dsn.String() }

func (s *PostgresCatalogSource) Load(ctx context.Context) (*entity.Catalog, error) {
	orders, err := s.readTable(ctx, s.tables.Orders)
	if err != nil {
		return nil, err
	}
	prices, err := s.readTable(ctx, s.tables.Prices)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.readTable(ctx, s.tables.Portfolio)
	if err != nil {
		return nil, err
	}
	return buildCatalog(s.Name(), orders, prices, portfolio), nil
}

func (s *PostgresCatalogSource) Close() error {
	return s.db.Close()
}

func (s *PostgresCatalogSource) readTable(ctx context.Context, name string) (*parser.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+pq.QuoteIdentifier(name))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", name, err)
	}
	records, err := scanStringRows(rows, len(header))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return parser.NewTable(name, header, records)
}

// rowScanner is the part of *sql.Rows used by scanStringRows.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanStringRows(rows rowScanner, width int) ([][]string, error) {
	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, width)
		dest := make([]any, width)
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		record := make([]string, width)
		for i, c := range cells {
			if c.Valid {
				record[i] = c.String
			}
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
