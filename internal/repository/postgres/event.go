package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// EventRepository is a PostgreSQL implementation of repository.EventRepository.
type EventRepository struct {
	q Querier
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{q: db}
}

// NewEventRepositoryWithTx creates an event repository using a transaction.
func NewEventRepositoryWithTx(tx *sql.Tx) *EventRepository {
	return &EventRepository{q: tx}
}

// Record appends a domain event. Financial kinds carry a unique constraint
// on (load_id, kind); a violation surfaces as repository.ErrConflict.
func (r *EventRepository) Record(ctx context.Context, event *domain.DomainEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO domain_events (id, load_id, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.q.ExecContext(ctx, query,
		event.ID, event.LoadID, event.Kind, payload, event.CreatedAt,
	)

	return translateError(err)
}

// Exists reports whether an event of the given kind exists for the load.
func (r *EventRepository) Exists(ctx context.Context, loadID string, kind domain.EventKind) (bool, error) {
	query := `SELECT COUNT(1) FROM domain_events WHERE load_id = $1 AND kind = $2`

	var count int
	if err := r.q.QueryRowContext(ctx, query, loadID, kind).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

// ListByLoadID retrieves all events for a load in record order.
func (r *EventRepository) ListByLoadID(ctx context.Context, loadID string) ([]*domain.DomainEvent, error) {
	query := `
		SELECT id, load_id, kind, payload, created_at
		FROM domain_events WHERE load_id = $1 ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.DomainEvent
	for rows.Next() {
		var event domain.DomainEvent
		var payload []byte
		if err := rows.Scan(&event.ID, &event.LoadID, &event.Kind, &payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &event.Payload); err != nil {
				return nil, err
			}
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
