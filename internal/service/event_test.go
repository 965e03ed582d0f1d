package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charitymap/charitymap/internal/domain"
	internal_errors "github.com/charitymap/charitymap/internal/errors"
)

type MockEventStorage struct {
	CreateEventFunc  func(event domain.Event) (domain.Event, error)
	EventFunc        func(id domain.EventId) (domain.Event, error)
	EventsFunc       func() ([]domain.Event, error)
	EventsByUserFunc func(userId domain.UserId) ([]domain.Event, error)
	UpdateEventFunc  func(event domain.Event) error
	DeleteEventFunc  func(id domain.EventId) error
}

func (m *MockEventStorage) CreateEvent(event domain.Event) (domain.Event, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(event)
	}
	event.Id = 1
	return event, nil
}

func (m *MockEventStorage) Event(id domain.EventId) (domain.Event, error) {
	if m.EventFunc != nil {
		return m.EventFunc(id)
	}
	return domain.Event{}, notFound("Event not found")
}

func (m *MockEventStorage) Events() ([]domain.Event, error) {
	if m.EventsFunc != nil {
		return m.EventsFunc()
	}
	return []domain.Event{}, nil
}

func (m *MockEventStorage) EventsByUser(userId domain.UserId) ([]domain.Event, error) {
	if m.EventsByUserFunc != nil {
		return m.EventsByUserFunc(userId)
	}
	return []domain.Event{}, nil
}

func (m *MockEventStorage) UpdateEvent(event domain.Event) error {
	if m.UpdateEventFunc != nil {
		return m.UpdateEventFunc(event)
	}
	return nil
}

func (m *MockEventStorage) DeleteEvent(id domain.EventId) error {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(id)
	}
	return nil
}

type MockUserLookup struct {
	UserByIdFunc func(id domain.UserId) (domain.User, error)
}

func (m *MockUserLookup) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{Id: id, Email: "org@example.com", OrganizationName: "Org"}, nil
}

func ptr[T any](v T) *T { return &v }

func statusOf(t *testing.T, err error) int {
	t.Helper()
	e, ok := err.(*internal_errors.ErrorWithStatusCode)
	require.True(t, ok, "expected *ErrorWithStatusCode, got %T", err)
	return e.StatusCode
}

func testDate(t *testing.T) domain.Date {
	t.Helper()
	d, err := domain.ParseDate("2026-09-15")
	require.NoError(t, err)
	return d
}

func TestEventCreate(t *testing.T) {
	actor := &domain.User{Id: 7, Email: "org@example.com"}

	t.Run("defaults host and description, stamps owner", func(t *testing.T) {
		var stored domain.Event
		storage := &MockEventStorage{
			CreateEventFunc: func(event domain.Event) (domain.Event, error) {
				stored = event
				event.Id = 3
				return event, nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{})

		created, err := service.Create(actor, domain.Event{
			Name:     "Food Drive",
			Date:     testDate(t),
			Location: "Main St 1",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.EventId(3), created.Id)
		assert.Equal(t, "Org", stored.Host)
		assert.Equal(t, "No description provided.", stored.Description)
		require.NotNil(t, stored.UserId)
		assert.Equal(t, domain.UserId(7), *stored.UserId)
	})

	t.Run("keeps explicit host and description", func(t *testing.T) {
		var stored domain.Event
		storage := &MockEventStorage{
			CreateEventFunc: func(event domain.Event) (domain.Event, error) {
				stored = event
				return event, nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{
			UserByIdFunc: func(domain.UserId) (domain.User, error) {
				t.Fatal("must not look up the user when host is given")
				return domain.User{}, nil
			},
		})

		_, err := service.Create(actor, domain.Event{
			Name:        "Food Drive",
			Host:        "Helping Hands",
			Date:        testDate(t),
			Location:    "Main St 1",
			Description: "Bring canned goods",
		})
		require.NoError(t, err)
		assert.Equal(t, "Helping Hands", stored.Host)
		assert.Equal(t, "Bring canned goods", stored.Description)
	})

	t.Run("strips markup from free-text fields", func(t *testing.T) {
		var stored domain.Event
		storage := &MockEventStorage{
			CreateEventFunc: func(event domain.Event) (domain.Event, error) {
				stored = event
				return event, nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{})

		_, err := service.Create(actor, domain.Event{
			Name:        "<script>alert(1)</script>Food Drive",
			Host:        "<b>Helping Hands</b>",
			Date:        testDate(t),
			Location:    "Main St 1",
			Description: "<img src=x onerror=alert(1)>Bring canned goods",
		})
		require.NoError(t, err)
		assert.Equal(t, "Food Drive", stored.Name)
		assert.Equal(t, "Helping Hands", stored.Host)
		assert.Equal(t, "Bring canned goods", stored.Description)
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		service := NewEvent(&MockEventStorage{}, &MockUserLookup{})

		_, err := service.Create(actor, domain.Event{
			Name:     "Food Drive",
			Date:     testDate(t),
			Location: "Main St 1",
			Latitude: ptr(91.0),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		_, err = service.Create(actor, domain.Event{
			Name:      "Food Drive",
			Date:      testDate(t),
			Location:  "Main St 1",
			Longitude: ptr(-180.5),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestEventUpdate(t *testing.T) {
	owner := &domain.User{Id: 7}
	stranger := &domain.User{Id: 8}

	existing := func() domain.Event {
		uid := domain.UserId(7)
		return domain.Event{
			Id:          4,
			Name:        "Food Drive",
			Host:        "Org",
			Location:    "Main St 1",
			Description: "Bring canned goods",
			Latitude:    ptr(52.5),
			Longitude:   ptr(13.4),
			UserId:      &uid,
		}
	}

	t.Run("applies only present fields", func(t *testing.T) {
		var updated domain.Event
		storage := &MockEventStorage{
			EventFunc: func(id domain.EventId) (domain.Event, error) {
				assert.Equal(t, domain.EventId(4), id)
				return existing(), nil
			},
			UpdateEventFunc: func(event domain.Event) error {
				updated = event
				return nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{})

		result, err := service.Update(owner, 4, domain.EventPatch{
			Name:     ptr("Winter Food Drive"),
			Latitude: ptr(48.1),
		})
		require.NoError(t, err)
		assert.Equal(t, "Winter Food Drive", updated.Name)
		assert.Equal(t, 48.1, *updated.Latitude)
		// untouched fields survive
		assert.Equal(t, "Org", updated.Host)
		assert.Equal(t, "Main St 1", updated.Location)
		assert.Equal(t, 13.4, *updated.Longitude)
		assert.Equal(t, result, updated)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		storage := &MockEventStorage{
			EventFunc: func(domain.EventId) (domain.Event, error) { return existing(), nil },
			UpdateEventFunc: func(domain.Event) error {
				t.Fatal("must not update someone else's event")
				return nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{})

		_, err := service.Update(stranger, 4, domain.EventPatch{Name: ptr("Hijacked")})
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
		assert.Equal(t, "You can only edit your own events", err.Error())
	})

	t.Run("orphaned event is forbidden for everyone", func(t *testing.T) {
		orphan := existing()
		orphan.UserId = nil
		storage := &MockEventStorage{
			EventFunc: func(domain.EventId) (domain.Event, error) { return orphan, nil },
		}
		service := NewEvent(storage, &MockUserLookup{})

		_, err := service.Update(owner, 4, domain.EventPatch{Name: ptr("X")})
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("missing event", func(t *testing.T) {
		service := NewEvent(&MockEventStorage{}, &MockUserLookup{})

		_, err := service.Update(owner, 99, domain.EventPatch{Name: ptr("X")})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("patched coordinates are validated", func(t *testing.T) {
		storage := &MockEventStorage{
			EventFunc: func(domain.EventId) (domain.Event, error) { return existing(), nil },
		}
		service := NewEvent(storage, &MockUserLookup{})

		_, err := service.Update(owner, 4, domain.EventPatch{Latitude: ptr(123.0)})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestEventDelete(t *testing.T) {
	owner := &domain.User{Id: 7}
	uid := domain.UserId(7)
	event := domain.Event{Id: 4, Name: "Food Drive", UserId: &uid}

	t.Run("owner deletes", func(t *testing.T) {
		deleted := false
		storage := &MockEventStorage{
			EventFunc: func(domain.EventId) (domain.Event, error) { return event, nil },
			DeleteEventFunc: func(id domain.EventId) error {
				assert.Equal(t, domain.EventId(4), id)
				deleted = true
				return nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{})

		require.NoError(t, service.Delete(owner, 4))
		assert.True(t, deleted)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		storage := &MockEventStorage{
			EventFunc: func(domain.EventId) (domain.Event, error) { return event, nil },
			DeleteEventFunc: func(domain.EventId) error {
				t.Fatal("must not delete someone else's event")
				return nil
			},
		}
		service := NewEvent(storage, &MockUserLookup{})

		err := service.Delete(&domain.User{Id: 8}, 4)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
		assert.Equal(t, "You can only delete your own events", err.Error())
	})

	t.Run("missing event", func(t *testing.T) {
		service := NewEvent(&MockEventStorage{}, &MockUserLookup{})

		err := service.Delete(owner, 99)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
