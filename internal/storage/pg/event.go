package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charitymap/charitymap/internal/domain"
	internal_errors "github.com/charitymap/charitymap/internal/errors"
)

const (
	queryInsertEvent = "INSERT INTO events (name, host, date, location, latitude, longitude, description, user_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id"
	queryEventById   = "SELECT id, name, host, date, location, latitude, longitude, description, user_id FROM events WHERE id = $1"
	queryEvents      = "SELECT id, name, host, date, location, latitude, longitude, description, user_id FROM events"
	queryEventsByUsr = "SELECT id, name, host, date, location, latitude, longitude, description, user_id FROM events WHERE user_id = $1"
	queryUpdateEvent = "UPDATE events SET name = $1, host = $2, date = $3, location = $4, latitude = $5, longitude = $6, description = $7 WHERE id = $8"
	queryDeleteEvent = "DELETE FROM events WHERE id = $1"
)

func (s *Storage) CreateEvent(event domain.Event) (domain.Event, error) {
	err := s.db.QueryRow(queryInsertEvent,
		event.Name, event.Host, event.Date, event.Location,
		event.Latitude, event.Longitude, nullableString(event.Description), event.UserId,
	).Scan(&event.Id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

func (s *Storage) Event(id domain.EventId) (domain.Event, error) {
	row := s.db.QueryRow(queryEventById, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, internal_errors.NotFound("Event not found")
		}
		return domain.Event{}, fmt.Errorf("failed to query event: %w", err)
	}
	return event, nil
}

func (s *Storage) Events() ([]domain.Event, error) {
	rows, err := s.db.Query(queryEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *Storage) EventsByUser(userId domain.UserId) ([]domain.Event, error) {
	rows, err := s.db.Query(queryEventsByUsr, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query user events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// UpdateEvent overwrites the stored row with the given event. Merge
// semantics are applied by the service before calling this.
func (s *Storage) UpdateEvent(event domain.Event) error {
	result, err := s.db.Exec(queryUpdateEvent,
		event.Name, event.Host, event.Date, event.Location,
		event.Latitude, event.Longitude, nullableString(event.Description), event.Id)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated event: %w", err)
	}
	if rows == 0 {
		return internal_errors.NotFound("Event not found")
	}
	return nil
}

func (s *Storage) DeleteEvent(id domain.EventId) error {
	result, err := s.db.Exec(queryDeleteEvent, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted event: %w", err)
	}
	if rows == 0 {
		return internal_errors.NotFound("Event not found")
	}
	return nil
}

// =========================================================================
// Scan helpers
// =========================================================================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var event domain.Event
	var latitude, longitude sql.NullFloat64
	var description sql.NullString
	var userId sql.NullInt64

	err := row.Scan(&event.Id, &event.Name, &event.Host, &event.Date, &event.Location,
		&latitude, &longitude, &description, &userId)
	if err != nil {
		return domain.Event{}, err
	}

	if latitude.Valid {
		event.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		event.Longitude = &longitude.Float64
	}
	event.Description = description.String
	if userId.Valid {
		event.UserId = &userId.Int64
	}
	return event, nil
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	events := []domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
