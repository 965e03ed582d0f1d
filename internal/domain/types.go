package domain

type (
	Email   = string
	UserId  = int64
	EventId = int64
)
