package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a source file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Build describes the inputs a stored gene table was derived from.
type Build struct {
	Mode    string
	Sources []FileFingerprint
}

func recordBuild(ctx context.Context, conn *sql.Conn, b Build) error {
	if _, err := conn.ExecContext(ctx, `INSERT INTO build_info VALUES (?)`, b.Mode); err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	for _, fp := range b.Sources {
		if _, err := conn.ExecContext(ctx, `INSERT INTO sources VALUES (?, ?, ?)`,
			fp.Path, fp.Size, fp.ModTime.UTC().Truncate(time.Microsecond)); err != nil {
			return fmt.Errorf("record source %s: %w", fp.Path, err)
		}
	}
	return nil
}

// Sources returns the recorded source fingerprints ordered by path.
func (s *Store) Sources() ([]FileFingerprint, error) {
	rows, err := s.db.Query(`SELECT path, size, mod_time FROM sources ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var out []FileFingerprint
	for rows.Next() {
		var fp FileFingerprint
		if err := rows.Scan(&fp.Path, &fp.Size, &fp.ModTime); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return out, nil
}

// UpToDate reports whether the stored gene table was built in b.Mode from
// exactly the files in b.Sources, each unchanged since it was recorded.
func (s *Store) UpToDate(b Build) (bool, error) {
	var mode string
	err := s.db.QueryRow(`SELECT mode FROM build_info`).Scan(&mode)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query build: %w", err)
	}
	if mode != b.Mode {
		return false, nil
	}

	recorded, err := s.Sources()
	if err != nil {
		return false, err
	}
	if len(recorded) != len(b.Sources) {
		return false, nil
	}
	for _, fp := range b.Sources {
		if !matches(recorded, fp) {
			return false, nil
		}
	}
	return true, nil
}

// matches reports whether recorded holds fp.Path with the same size and
// modification time, at the microsecond precision DuckDB keeps.
func matches(recorded []FileFingerprint, fp FileFingerprint) bool {
	for _, r := range recorded {
		if r.Path == fp.Path {
			return r.Size == fp.Size && r.ModTime.Equal(fp.ModTime.Truncate(time.Microsecond))
		}
	}
	return false
}
