package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const showColumns = "code, name, template, root, created_at, updated_at"

// RegisterShow inserts a show or updates its name, template and root when the
// code is already known. Codes are stored upper-cased.
func (s *Store) RegisterShow(ctx context.Context, show Show) (*Show, error) {
	code := strings.ToUpper(strings.TrimSpace(show.Code))
	if code == "" {
		return nil, errors.New("register show: code is required")
	}
	if strings.TrimSpace(show.Root) == "" {
		return nil, errors.New("register show: root is required")
	}
	ts := s.timestamp()
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO shows (code, name, template, root, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(code) DO UPDATE SET
            name = excluded.name,
            template = excluded.template,
            root = excluded.root,
            updated_at = excluded.updated_at`,
		code, show.Name, show.Template, show.Root, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("insert show: %w", err)
	}
	return s.Show(ctx, code)
}

// Show returns the show registered under code.
func (s *Store) Show(ctx context.Context, code string) (*Show, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+showColumns+" FROM shows WHERE code = ?",
		strings.ToUpper(strings.TrimSpace(code)),
	)
	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("show %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return show, nil
}

// Shows lists every registered show ordered by code.
func (s *Store) Shows(ctx context.Context) ([]*Show, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), "SELECT "+showColumns+" FROM shows ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []*Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, show)
	}
	return shows, rows.Err()
}

func scanShow(scanner interface{ Scan(dest ...any) error }) (*Show, error) {
	var (
		show       Show
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&show.Code, &show.Name, &show.Template, &show.Root, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		show.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		show.UpdatedAt = updated
	}
	return &show, nil
}
