// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/tomtom215/menurec/internal/ingest"
	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/metrics"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
	DriverSQLite   = "sqlite"
)

const (
	// DefaultTable is the upstream orders table.
	DefaultTable = "orders"

	// DefaultQueryTimeout bounds one full table read.
	DefaultQueryTimeout = 60 * time.Second
)

// tablePattern accepts identifiers and schema-qualified identifiers. The
// table name is interpolated into SQL, so anything else is rejected.
var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SourceConfig configures an SQLSource.
type SourceConfig struct {
	Driver       string
	DSN          string
	Table        string
	QueryTimeout time.Duration
}

// SQLSource loads orders with database/sql.
type SQLSource struct {
	db      *sql.DB
	driver  string
	query   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewSQLSource opens the database and verifies the configuration. The
// connection itself is established lazily by database/sql, so an
// unreachable server surfaces on the first LoadOrders or Ping.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSQLSource(cfg SourceConfig, logger zerolog.Logger) (*SQLSource, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverDuckDB, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", cfg.Driver, err)
	}
	configurePool(db, cfg.Driver)

	s := &SQLSource{
		db:      db,
		driver:  cfg.Driver,
		query:   buildOrdersQuery(table),
		timeout: timeout,
		logger:  logger.With().Str("component", "order-source").Str("driver", cfg.Driver).Logger(),
	}

	s.logger.Info().
		Str("table", table).
		Str("dsn", logging.SanitizeDSN(cfg.DSN)).
		Dur("query_timeout", timeout).
		Msg("Order source configured")

	return s, nil
}

// configurePool sizes the pool for a reader that runs one query at a time.
func configurePool(db *sql.DB, driver string) {
	switch driver {
	case DriverSQLite, DriverDuckDB:
		// An in-memory database is private to its connection, so tables
		// created through DB() are only visible on that same connection.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(4)
	}
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)
}

func buildOrdersQuery(table string) string {
	return `SELECT cliente_telefono, items, "Total_monto", restaurant_id, created_at FROM ` +
		table + ` ORDER BY created_at`
}

// Name implements ingest.OrderSource.
func (s *SQLSource) Name() string {
	return s.driver
}

// DB exposes the underlying handle for schema setup in tests and tools.
func (s *SQLSource) DB() *sql.DB {
	return s.db
}

// Ping checks connectivity within the query timeout.
func (s *SQLSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// LoadOrders implements ingest.OrderSource. Rows come back in created_at
// order; OrderID is the row position since the query carries no key.
func (s *SQLSource) LoadOrders(ctx context.Context) ([]ingest.OrderRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	orders, err := s.loadOrders(ctx)
	metrics.RecordDBQuery("load_orders", s.driver, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.logger.Debug().Int("orders", len(orders)).Dur("duration", time.Since(start)).Msg("Orders loaded")
	return orders, nil
}

func (s *SQLSource) loadOrders(ctx context.Context) ([]ingest.OrderRow, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer closeQuietly(rows)

	var orders []ingest.OrderRow
	for rows.Next() {
		var customer, items, ticket, restaurant, created interface{}
		if err := rows.Scan(&customer, &items, &ticket, &restaurant, &created); err != nil {
			return nil, fmt.Errorf("scan order row %d: %w", len(orders)+1, err)
		}

		restaurantID, _ := asString(restaurant)
		order := ingest.OrderRow{
			OrderID:      "row-" + strconv.Itoa(len(orders)+1),
			RestaurantID: strings.TrimSpace(restaurantID),
			Customer:     optionalString(customer),
			Items:        optionalString(items),
			Ticket:       optionalString(ticket),
		}
		if ts, ok := asTime(created); ok {
			order.CreatedAt = &ts
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func optionalString(v interface{}) *string {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	return &s
}

// asString renders a scanned column as text. NULL reports false.
func asString(v interface{}) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	default:
		return fmt.Sprint(x), true
	}
}

// timestampLayouts are tried in order for textual timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// asTime converts a scanned created_at value. Integers are Unix seconds.
func asTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case int64:
		return time.Unix(x, 0).UTC(), true
	case []byte:
		return parseTimestamp(string(x))
	case string:
		return parseTimestamp(x)
	default:
		return time.Time{}, false
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
