package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/diegoclair/qotd-bot/internal/domain/entity"
)

type queueRepository struct {
	db dbConn
}

func newQueueRepo(db dbConn) *queueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) List(ctx context.Context, store entity.StoreName) ([]string, error) {
	query := `
		SELECT content
		FROM queue_lines
		WHERE store = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, string(store))
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}

		content = strings.TrimSpace(content)
		if content != "" {
			lines = append(lines, content)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lines: %w", err)
	}

	return lines, nil
}

func (r *queueRepository) Insert(ctx context.Context, store entity.StoreName, content string) error {
	query := `INSERT INTO queue_lines (store, content) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, string(store), content); err != nil {
		return fmt.Errorf("failed to insert line: %w", err)
	}

	return nil
}

func (r *queueRepository) InsertMany(ctx context.Context, store entity.StoreName, lines []string) error {
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO queue_lines (store, content) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, string(store), line); err != nil {
			return fmt.Errorf("failed to insert line: %w", err)
		}
	}

	return nil
}

func (r *queueRepository) DeleteAll(ctx context.Context, store entity.StoreName) error {
	query := `DELETE FROM queue_lines WHERE store = ?`

	if _, err := r.db.ExecContext(ctx, query, string(store)); err != nil {
		return fmt.Errorf("failed to delete lines: %w", err)
	}

	return nil
}
