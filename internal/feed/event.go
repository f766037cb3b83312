package feed

import "storefront/internal/models"

type EventType string

const (
	EventInsert EventType = "insert"
	EventDelete EventType = "delete"
)

// Event is one address change on the wire. Delete events only need the
// address id and owner; insert events carry the full record.
type Event struct {
	Type    EventType      `json:"type"`
	Address models.Address `json:"address"`
}
