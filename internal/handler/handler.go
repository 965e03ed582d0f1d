package handler

import (
	"context"

	"github.com/charitymap/charitymap/internal/service"
)

// Pinger reports database reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth   service.AuthService
	events service.EventService
	health Pinger
}

func New(auth service.AuthService, events service.EventService, health Pinger) *Handler {
	return &Handler{auth: auth, events: events, health: health}
}
