package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"parkspotter-admin/internal/entities"
)

var (
	ErrItemNotFound  = errors.New("management item not found")
	ErrDuplicateItem = errors.New("management item already exists")
)

// ManagementRepository stores the roles, permissions and settings shown on the admin
// management page.
type ManagementRepository interface {
	List(ctx context.Context, kind entities.ManagementKind) ([]entities.ManagementItem, error)
	Create(ctx context.Context, item entities.ManagementItem) (entities.ManagementItem, error)
	Update(ctx context.Context, item entities.ManagementItem) (entities.ManagementItem, error)
	Delete(ctx context.Context, kind entities.ManagementKind, id int64) error
}

type postgresManagementRepository struct {
	db *sql.DB
}

func NewManagementRepository(db *sql.DB) ManagementRepository {
	return &postgresManagementRepository{db: db}
}

func (r *postgresManagementRepository) List(ctx context.Context, kind entities.ManagementKind) ([]entities.ManagementItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, name, description, value, created_at, updated_at FROM management_items WHERE kind = $1 ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("error querying management items: %w", err)
	}
	defer rows.Close()

	var items []entities.ManagementItem
	for rows.Next() {
		var it entities.ManagementItem
		var k string
		if err := rows.Scan(&it.ID, &k, &it.Name, &it.Description, &it.Value, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning management item: %w", err)
		}
		it.Kind = entities.ManagementKind(k)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return items, nil
}

func (r *postgresManagementRepository) Create(ctx context.Context, item entities.ManagementItem) (entities.ManagementItem, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO management_items (kind, name, description, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		string(item.Kind), item.Name, item.Description, item.Value).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return entities.ManagementItem{}, mapPQError(err, "error creating management item")
	}
	return item, nil
}

func (r *postgresManagementRepository) Update(ctx context.Context, item entities.ManagementItem) (entities.ManagementItem, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE management_items SET name = $1, description = $2, value = $3, updated_at = NOW()
		WHERE id = $4 AND kind = $5
		RETURNING created_at, updated_at`,
		item.Name, item.Description, item.Value, item.ID, string(item.Kind)).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.ManagementItem{}, ErrItemNotFound
	}
	if err != nil {
		return entities.ManagementItem{}, mapPQError(err, "error updating management item")
	}
	return item, nil
}

func (r *postgresManagementRepository) Delete(ctx context.Context, kind entities.ManagementKind, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM management_items WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return fmt.Errorf("error deleting management item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func mapPQError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateItem
	}
	return fmt.Errorf("%s: %w", msg, err)
}

type memoryManagementRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]entities.ManagementItem
}

// NewMemoryManagementRepository is used when no DATABASE_URL is configured.
func NewMemoryManagementRepository(seed ...entities.ManagementItem) ManagementRepository {
	r := &memoryManagementRepository{items: make(map[int64]entities.ManagementItem)}
	for _, it := range seed {
		r.Create(context.Background(), it)
	}
	return r
}

func (r *memoryManagementRepository) List(_ context.Context, kind entities.ManagementKind) ([]entities.ManagementItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.ManagementItem
	for _, it := range r.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryManagementRepository) Create(_ context.Context, item entities.ManagementItem) (entities.ManagementItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.Kind == item.Kind && it.Name == item.Name {
			return entities.ManagementItem{}, ErrDuplicateItem
		}
	}
	r.nextID++
	now := time.Now().UTC()
	item.ID, item.CreatedAt, item.UpdatedAt = r.nextID, now, now
	r.items[item.ID] = item
	return item, nil
}

func (r *memoryManagementRepository) Update(_ context.Context, item entities.ManagementItem) (entities.ManagementItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[item.ID]
	if !ok || cur.Kind != item.Kind {
		return entities.ManagementItem{}, ErrItemNotFound
	}
	for _, it := range r.items {
		if it.ID != item.ID && it.Kind == item.Kind && it.Name == item.Name {
			return entities.ManagementItem{}, ErrDuplicateItem
		}
	}
	item.CreatedAt = cur.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = item
	return item, nil
}

func (r *memoryManagementRepository) Delete(_ context.Context, kind entities.ManagementKind, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[id]
	if !ok || cur.Kind != kind {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// DefaultManagementItems seeds the in-memory repository.
var DefaultManagementItems = []entities.ManagementItem{
	{Kind: entities.KindRole, Name: "Admin"},
	{Kind: entities.KindRole, Name: "User"},
	{Kind: entities.KindRole, Name: "Guest"},
	{Kind: entities.KindPermission, Name: "View Dashboard"},
	{Kind: entities.KindPermission, Name: "Edit Profile"},
	{Kind: entities.KindPermission, Name: "Delete User"},
	{Kind: entities.KindSetting, Name: "Notification Settings"},
	{Kind: entities.KindSetting, Name: "Privacy Settings"},
	{Kind: entities.KindSetting, Name: "Account Settings"},
}
