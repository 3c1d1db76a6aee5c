package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/mtorres/slate/internal/model"
)

// SQLiteGateway persists items in a local SQLite database. This is the
// default backend for single-machine use.
type SQLiteGateway struct {
	db *sql.DB
}

// OpenSQLite creates a gateway backed by the database at dbPath, creating
// the schema if needed. Pass ":memory:" for an ephemeral database (tests).
func OpenSQLite(dbPath string) (*SQLiteGateway, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	g := &SQLiteGateway{db: db}
	if err := g.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return g, nil
}

func (g *SQLiteGateway) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		platform TEXT NOT NULL,
		stage TEXT NOT NULL,
		due_date DATETIME,
		tags TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id);
	CREATE INDEX IF NOT EXISTS idx_items_user_stage ON items(user_id, stage);
	CREATE INDEX IF NOT EXISTS idx_items_due ON items(due_date);
	`
	if _, err := g.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// CreateItem inserts a new item row.
func (g *SQLiteGateway) CreateItem(ctx context.Context, userID string, item model.ContentItem) error {
	tags, err := marshalTags(item.Tags)
	if err != nil {
		return err
	}
	_, err = g.db.ExecContext(ctx, `
		INSERT INTO items (id, user_id, title, description, platform, stage, due_date, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, userID, item.Title, item.Description, string(item.Platform), string(item.Stage),
		item.DueDate, tags, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// UpdateItem rewrites the mutable fields of an existing row.
func (g *SQLiteGateway) UpdateItem(ctx context.Context, item model.ContentItem) error {
	tags, err := marshalTags(item.Tags)
	if err != nil {
		return err
	}
	result, err := g.db.ExecContext(ctx, `
		UPDATE items
		SET title = ?, description = ?, platform = ?, stage = ?, due_date = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, item.Title, item.Description, string(item.Platform), string(item.Stage),
		item.DueDate, tags, time.Now().UTC(), item.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return requireRow(result, item.ID)
}

// UpdateStatus moves an item to a new stage.
func (g *SQLiteGateway) UpdateStatus(ctx context.Context, id string, stage model.Stage) error {
	result, err := g.db.ExecContext(ctx,
		"UPDATE items SET stage = ?, updated_at = ? WHERE id = ?",
		string(stage), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireRow(result, id)
}

// DeleteItem removes an item row permanently.
func (g *SQLiteGateway) DeleteItem(ctx context.Context, id string) error {
	result, err := g.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireRow(result, id)
}

// ListItemsForUser reads all of a user's items, grouped by stage. Within a
// stage, items come back in creation order.
func (g *SQLiteGateway) ListItemsForUser(ctx context.Context, userID string) (map[model.Stage][]model.ContentItem, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, title, description, platform, stage, due_date, tags, created_at, updated_at
		FROM items
		WHERE user_id = ?
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	return groupByStage(items), nil
}

// Close closes the database connection.
func (g *SQLiteGateway) Close() error {
	return g.db.Close()
}

func scanItems(rows *sql.Rows) ([]model.ContentItem, error) {
	var items []model.ContentItem
	for rows.Next() {
		var item model.ContentItem
		var platform, stage string
		var due sql.NullTime
		var tags sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&platform,
			&stage,
			&due,
			&tags,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Platform = model.Platform(platform)
		item.Stage = model.Stage(stage)
		if due.Valid {
			item.DueDate = due.Time
		}
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &item.Tags); err != nil {
				return nil, fmt.Errorf("decode tags for %s: %w", item.ID, err)
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}

func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
