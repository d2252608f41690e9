package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const workfileColumns = "id, show_code, target, target_kind, kind, version, path, placeholder, created_at"

// RecordWorkfile appends a ledger row. Recording the same path twice keeps the
// first row.
func (s *Store) RecordWorkfile(ctx context.Context, wf Workfile) (*Workfile, error) {
	if strings.TrimSpace(wf.Path) == "" {
		return nil, errors.New("record workfile: path is required")
	}
	if wf.Version < 1 {
		return nil, fmt.Errorf("record workfile: invalid version %d", wf.Version)
	}
	createdAt := s.timestamp()
	if !wf.CreatedAt.IsZero() {
		createdAt = formatTime(wf.CreatedAt)
	}
	placeholder := 0
	if wf.Placeholder {
		placeholder = 1
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO workfiles (show_code, target, target_kind, kind, version, path, placeholder, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO NOTHING`,
		strings.ToUpper(strings.TrimSpace(wf.ShowCode)), wf.Target, wf.TargetKind, wf.Kind, wf.Version, wf.Path, placeholder, createdAt,
	); err != nil {
		return nil, fmt.Errorf("insert workfile: %w", err)
	}

	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+workfileColumns+" FROM workfiles WHERE path = ?", wf.Path)
	recorded, err := scanWorkfile(row)
	if err != nil {
		return nil, fmt.Errorf("reload workfile: %w", err)
	}
	return recorded, nil
}

// Workfiles lists ledger rows matching filter, newest first.
func (s *Store) Workfiles(ctx context.Context, filter Filter) ([]*Workfile, error) {
	var (
		clauses []string
		args    []any
	)
	if code := strings.TrimSpace(filter.ShowCode); code != "" {
		clauses = append(clauses, "show_code = ?")
		args = append(args, strings.ToUpper(code))
	}
	if target := strings.TrimSpace(filter.Target); target != "" {
		clauses = append(clauses, "target = ?")
		args = append(args, target)
	}
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, kind)
	}

	query := "SELECT " + workfileColumns + " FROM workfiles"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workfiles: %w", err)
	}
	defer rows.Close()

	var out []*Workfile
	for rows.Next() {
		wf, err := scanWorkfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workfile: %w", err)
		}
		out = append(out, wf)
	}
	return out, rows.Err()
}

// Latest returns the highest recorded version for a show, target and kind, or
// nil when nothing was recorded.
func (s *Store) Latest(ctx context.Context, showCode, target, kind string) (*Workfile, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+workfileColumns+` FROM workfiles
        WHERE show_code = ? AND target = ? AND kind = ?
        ORDER BY version DESC, id DESC LIMIT 1`,
		strings.ToUpper(strings.TrimSpace(showCode)), target, kind,
	)
	wf, err := scanWorkfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest workfile: %w", err)
	}
	return wf, nil
}

func scanWorkfile(scanner interface{ Scan(dest ...any) error }) (*Workfile, error) {
	var (
		wf          Workfile
		placeholder int
		createdRaw  string
	)
	if err := scanner.Scan(&wf.ID, &wf.ShowCode, &wf.Target, &wf.TargetKind, &wf.Kind, &wf.Version, &wf.Path, &placeholder, &createdRaw); err != nil {
		return nil, err
	}
	wf.Placeholder = placeholder != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		wf.CreatedAt = created
	}
	return &wf, nil
}
