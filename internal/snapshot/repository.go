package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Filter narrows List results. Zero values mean no restriction.
type Filter struct {
	Provider string
	Device   string
	Limit    int
}

// defaultListLimit bounds unfiltered list queries.
const defaultListLimit = 100

// Repository defines the interface for snapshot persistence operations.
type Repository interface {
	Save(ctx context.Context, s *Snapshot) error
	List(ctx context.Context, f Filter) ([]Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	Latest(ctx context.Context, providerName, deviceName string) (*Snapshot, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed snapshot repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save inserts a snapshot. Snapshots are immutable; there is no update path.
func (r *SQLiteRepository) Save(ctx context.Context, s *Snapshot) error {
	const query = `INSERT INTO calibration_snapshots
		(id, provider, device, num_qubits, sanitized, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Provider, s.Device, s.NumQubits, boolToInt(s.Sanitized),
		string(s.Payload), s.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting snapshot %s: %w", s.ID, err)
	}
	return nil
}

// List returns snapshot metadata (without payloads), newest first.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]Snapshot, error) {
	query := `SELECT id, provider, device, num_qubits, sanitized, created_at
		FROM calibration_snapshots WHERE 1=1`
	var args []any
	if f.Provider != "" {
		query += " AND provider = ?"
		args = append(args, f.Provider)
	}
	if f.Device != "" {
		query += " AND device = ?"
		args = append(args, f.Device)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var sanitized int
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Provider, &s.Device, &s.NumQubits, &sanitized, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		s.Sanitized = sanitized != 0
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// Get returns a single snapshot including its payload.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	const query = `SELECT id, provider, device, num_qubits, sanitized, payload, created_at
		FROM calibration_snapshots WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// Latest returns the most recent snapshot for a device, payload included.
func (r *SQLiteRepository) Latest(ctx context.Context, providerName, deviceName string) (*Snapshot, error) {
	const query = `SELECT id, provider, device, num_qubits, sanitized, payload, created_at
		FROM calibration_snapshots WHERE provider = ? AND device = ?
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, providerName, deviceName))
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var sanitized int
	var payload, createdAt string
	err := row.Scan(&s.ID, &s.Provider, &s.Device, &s.NumQubits, &sanitized, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	s.Sanitized = sanitized != 0
	s.Payload = []byte(payload)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	return &s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
