package domain

// Event is a public calendar listing owned by the user that created it.
// Latitude/longitude are independently nullable; UserId is nullable so
// listings imported without an owning account keep working.
type Event struct {
	Id          EventId  `json:"id"`
	Name        string   `json:"name"`
	Host        string   `json:"host"`
	Date        Date     `json:"date"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Description string   `json:"description"`
	UserId      *UserId  `json:"user_id"`
}

// EventPatch carries a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Name        *string
	Host        *string
	Date        *Date
	Location    *string
	Latitude    *float64
	Longitude   *float64
	Description *string
}
