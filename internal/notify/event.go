package notify

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAllowed Kind = "allowed"
	KindDenied  Kind = "denied"
)

// Event describes one admission decision. It is passed by value and owned by
// the sink once enqueued.
type Event struct {
	ID            string
	Kind          Kind
	Username      string
	Hostname      string
	RemoteAddress string
	Timestamp     time.Time
}

func NewEvent(kind Kind, username, hostname, remoteAddress string) Event {
	return Event{
		ID:            uuid.NewString(),
		Kind:          kind,
		Username:      username,
		Hostname:      hostname,
		RemoteAddress: remoteAddress,
		Timestamp:     time.Now().UTC(),
	}
}
