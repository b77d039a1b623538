package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// entitySchema is the per-entity configuration of the shared upsert engine:
// table name, natural-key column and the insert column list. The first two
// columns are always shop_domain and the natural key; that pair carries the
// uniqueness constraint.
type entitySchema struct {
	table     string
	keyColumn string
	columns   []string
}

// upsertStatement builds one multi-row INSERT ... ON CONFLICT statement for
// rowCount rows. Every non-conflict column is overwritten from EXCLUDED, so a
// re-ingested key replaces the row in place.
func (s entitySchema) upsertStatement(rowCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", s.table, strings.Join(s.columns, ", "))

	arg := 1
	for row := 0; row < rowCount; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for col := range s.columns {
			if col > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", arg)
			arg++
		}
		b.WriteString(")")
	}

	fmt.Fprintf(&b, " ON CONFLICT (shop_domain, %s) DO UPDATE SET ", s.keyColumn)
	first := true
	for _, col := range s.columns[2:] {
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = EXCLUDED.%s", col, col)
		first = false
	}
	return b.String()
}

// upsertRow one normalized row prepared for the bulk write. values is aligned
// with entitySchema.columns.
type upsertRow struct {
	key    int64
	values []any
}

// dbExecutor the database/sql surface the upsert engine needs. *sql.DB
// satisfies it; tests inject failures through it.
type dbExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// existingKeys returns the subset of keys already present for the shop.
// A failed lookup degrades to the empty set: the insert/update split becomes
// an approximation but the write still proceeds.
func existingKeys(ctx context.Context, db dbExecutor, s entitySchema, shopDomain string, keys []int64, logger *zap.Logger) map[int64]struct{} {
	existing := make(map[int64]struct{}, len(keys))

	query := fmt.Sprintf("SELECT %s FROM %s WHERE shop_domain = $1 AND %s = ANY($2)",
		s.keyColumn, s.table, s.keyColumn)
	rows, err := db.QueryContext(ctx, query, shopDomain, pq.Array(keys))
	if err != nil {
		logger.Warn("existing-key lookup failed, counting all rows as inserts",
			zap.String("table", s.table),
			zap.String("shop_domain", shopDomain),
			zap.Error(err),
		)
		return existing
	}
	defer rows.Close()

	for rows.Next() {
		var key int64
		if err := rows.Scan(&key); err != nil {
			logger.Warn("existing-key scan failed", zap.String("table", s.table), zap.Error(err))
			continue
		}
		existing[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		logger.Warn("existing-key iteration failed", zap.String("table", s.table), zap.Error(err))
	}
	return existing
}

// bulkUpsert classifies the batch against existing keys and performs a single
// set-based conflict-aware write. An empty batch returns {0, 0} without
// touching the database. Counts always satisfy inserted+updated == len(rows).
func bulkUpsert(ctx context.Context, db dbExecutor, s entitySchema, shopDomain string, rows []upsertRow, logger *zap.Logger) (inserted, updated int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	keys := make([]int64, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.key]; ok {
			continue
		}
		seen[row.key] = struct{}{}
		keys = append(keys, row.key)
	}

	existing := existingKeys(ctx, db, s, shopDomain, keys, logger)

	// Postgres rejects a statement whose ON CONFLICT clause would touch the
	// same row twice, so collapse duplicate keys to their last occurrence.
	// Counts below still cover every input row.
	writeIdx := make(map[int64]int, len(keys))
	for i, row := range rows {
		writeIdx[row.key] = i
	}
	writeRows := make([]upsertRow, 0, len(keys))
	for i, row := range rows {
		if writeIdx[row.key] == i {
			writeRows = append(writeRows, row)
		}
	}

	args := make([]any, 0, len(writeRows)*len(s.columns))
	for _, row := range writeRows {
		args = append(args, row.values...)
	}

	if _, err := db.ExecContext(ctx, s.upsertStatement(len(writeRows)), args...); err != nil {
		return 0, 0, fmt.Errorf("%w: %s upsert failed: %v", domain.ErrUpstream, s.table, err)
	}

	for _, row := range rows {
		if _, ok := existing[row.key]; !ok {
			inserted++
		}
	}
	updated = len(rows) - inserted
	return inserted, updated, nil
}
