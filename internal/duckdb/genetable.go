package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/pengfang11/Chloroplot/internal/feature"
	"github.com/pengfang11/Chloroplot/internal/genetable"
)

// ReplaceGeneTable replaces the stored gene table and its provenance with t
// and b in a single transaction. On error the previous contents are kept.
func (s *Store) ReplaceGeneTable(t *genetable.Table, b Build) error {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	for _, table := range []string{"gene_table", "sources", "build_info"} {
		if _, err := conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := appendRows(conn, t.Rows); err != nil {
		return err
	}
	if err := recordBuild(ctx, conn, b); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit gene table: %w", err)
	}
	committed = true
	return nil
}

// appendRows batch-inserts gene table rows on conn using the Appender API.
func appendRows(conn *sql.Conn, rows []genetable.Row) error {
	if len(rows) == 0 {
		return nil
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "gene_table")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for _, r := range rows {
		if err := appender.AppendRow(
			r.Chrom, r.Start, r.End, r.Strand.String(), r.Gene, r.Pseudo,
			optional(r.CUBias), optional(r.GC),
		); err != nil {
			appender.Close()
			return fmt.Errorf("append gene table row: %w", err)
		}
	}

	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush gene table: %w", err)
	}
	return nil
}

// ReadGeneTable returns the stored rows ordered by start, then end descending.
func (s *Store) ReadGeneTable() ([]genetable.Row, error) {
	rows, err := s.db.Query(`SELECT chr, "start", "end", strand, gene, pseudo, cu_bias, gc
		FROM gene_table
		ORDER BY "start", "end" DESC, strand, gene`)
	if err != nil {
		return nil, fmt.Errorf("query gene table: %w", err)
	}
	defer rows.Close()

	var out []genetable.Row
	for rows.Next() {
		var (
			r        genetable.Row
			strand   string
			bias, gc sql.NullFloat64
		)
		if err := rows.Scan(&r.Chrom, &r.Start, &r.End, &strand, &r.Gene, &r.Pseudo, &bias, &gc); err != nil {
			return nil, fmt.Errorf("scan gene table row: %w", err)
		}
		r.Strand = feature.ParseStrand(strand)
		r.CUBias = fromNull(bias)
		r.GC = fromNull(gc)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene table: %w", err)
	}
	return out, nil
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
