package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finmodel/pkg/models"
)

// SnapshotRepo stores whole models as named snapshots. The model is a single
// unit of consistency, so it is persisted as one JSONB blob rather than
// normalized across tables.
type SnapshotRepo struct{}

// NewSnapshotRepo creates a new repository instance.
func NewSnapshotRepo() *SnapshotRepo {
	return &SnapshotRepo{}
}

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (r *SnapshotRepo) EnsureSchema(ctx context.Context) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	query := `
		CREATE TABLE IF NOT EXISTS model_snapshots (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			model_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

// Save persists the model under a new snapshot id and returns it.
func (r *SnapshotRepo) Save(ctx context.Context, name string, m *models.Model) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model: %w", err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO model_snapshots (id, name, model_json, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := pool.Exec(ctx, query, id, name, jsonData, time.Now()); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	return id, nil
}

// Load retrieves a snapshot by id. The returned model is normalized and
// ready to evaluate.
func (r *SnapshotRepo) Load(ctx context.Context, id string) (*models.Model, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT model_json FROM model_snapshots WHERE id = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no snapshot found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var m models.Model
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	m.Normalize()
	return &m, nil
}

// List returns snapshot metadata, newest first.
func (r *SnapshotRepo) List(ctx context.Context) ([]SnapshotInfo, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT id, name, created_at FROM model_snapshots ORDER BY created_at DESC`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
