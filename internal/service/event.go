package service

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/charitymap/charitymap/internal/domain"
	"github.com/charitymap/charitymap/internal/errors"
)

const defaultDescription = "No description provided."

type EventService interface {
	List() ([]domain.Event, error)
	Get(id domain.EventId) (domain.Event, error)
	ListByUser(userId domain.UserId) ([]domain.Event, error)
	Create(actor *domain.User, input domain.Event) (domain.Event, error)
	Update(actor *domain.User, id domain.EventId, patch domain.EventPatch) (domain.Event, error)
	Delete(actor *domain.User, id domain.EventId) error
}

type EventStorage interface {
	CreateEvent(event domain.Event) (domain.Event, error)
	Event(id domain.EventId) (domain.Event, error)
	Events() ([]domain.Event, error)
	EventsByUser(userId domain.UserId) ([]domain.Event, error)
	UpdateEvent(event domain.Event) error
	DeleteEvent(id domain.EventId) error
}

// UserLookup resolves the actor's stored account, needed to default the
// host field to the organization name (token claims don't carry it).
type UserLookup interface {
	UserById(id domain.UserId) (domain.User, error)
}

type Event struct {
	storage   EventStorage
	users     UserLookup
	sanitizer *bluemonday.Policy
}

func NewEvent(storage EventStorage, users UserLookup) *Event {
	// Events are plain text; strip all markup from free-text fields.
	return &Event{storage: storage, users: users, sanitizer: bluemonday.StrictPolicy()}
}

func (e *Event) List() ([]domain.Event, error) {
	return e.storage.Events()
}

func (e *Event) Get(id domain.EventId) (domain.Event, error) {
	return e.storage.Event(id)
}

func (e *Event) ListByUser(userId domain.UserId) ([]domain.Event, error) {
	return e.storage.EventsByUser(userId)
}

// Create stores a new event owned by the actor. Host defaults to the
// actor's organization name, description to a placeholder. The owner is
// always the actor, never client-supplied.
func (e *Event) Create(actor *domain.User, input domain.Event) (domain.Event, error) {
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return domain.Event{}, err
	}

	if input.Host == "" {
		user, err := e.users.UserById(actor.Id)
		if err != nil {
			if errors.IsNotFound(err) {
				return domain.Event{}, errors.Unauthorized("User not found")
			}
			return domain.Event{}, err
		}
		input.Host = user.OrganizationName
	}
	if input.Description == "" {
		input.Description = defaultDescription
	}

	input.Name = e.sanitizer.Sanitize(input.Name)
	input.Host = e.sanitizer.Sanitize(input.Host)
	input.Location = e.sanitizer.Sanitize(input.Location)
	input.Description = e.sanitizer.Sanitize(input.Description)
	input.UserId = &actor.Id

	return e.storage.CreateEvent(input)
}

// Update applies a partial update to an event owned by the actor.
// Fields absent from the patch are left unchanged.
func (e *Event) Update(actor *domain.User, id domain.EventId, patch domain.EventPatch) (domain.Event, error) {
	event, err := e.storage.Event(id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := e.checkOwnership(actor, event, "You can only edit your own events"); err != nil {
		return domain.Event{}, err
	}

	if patch.Name != nil {
		event.Name = e.sanitizer.Sanitize(*patch.Name)
	}
	if patch.Host != nil {
		event.Host = e.sanitizer.Sanitize(*patch.Host)
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Location != nil {
		event.Location = e.sanitizer.Sanitize(*patch.Location)
	}
	if patch.Latitude != nil {
		event.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		event.Longitude = patch.Longitude
	}
	if patch.Description != nil {
		event.Description = e.sanitizer.Sanitize(*patch.Description)
	}

	if err := validateCoordinates(event.Latitude, event.Longitude); err != nil {
		return domain.Event{}, err
	}

	if err := e.storage.UpdateEvent(event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// Delete removes an event owned by the actor. Hard delete.
func (e *Event) Delete(actor *domain.User, id domain.EventId) error {
	event, err := e.storage.Event(id)
	if err != nil {
		return err
	}
	if err := e.checkOwnership(actor, event, "You can only delete your own events"); err != nil {
		return err
	}
	return e.storage.DeleteEvent(id)
}

func (e *Event) checkOwnership(actor *domain.User, event domain.Event, message string) error {
	if event.UserId == nil || *event.UserId != actor.Id {
		return errors.Forbidden(message)
	}
	return nil
}

func validateCoordinates(latitude, longitude *float64) error {
	if latitude != nil && (*latitude < -90 || *latitude > 90) {
		return errors.BadRequest("Latitude must be between -90 and 90")
	}
	if longitude != nil && (*longitude < -180 || *longitude > 180) {
		return errors.BadRequest("Longitude must be between -180 and 180")
	}
	return nil
}
