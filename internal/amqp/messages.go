package amqp

import (
	"encoding/json"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// EntryMessage is the wire form of one audit entry.
type EntryMessage struct {
	Group       string    `json:"group"`
	Seq         int       `json:"seq"`
	Kind        string    `json:"kind"`
	Text        string    `json:"text"`
	At          int64     `json:"at"`
	PublishedAt time.Time `json:"published_at"`
}

// NewEntryMessage wraps an audit entry of group for publishing.
func NewEntryMessage(group string, entry models.Entry) *EntryMessage {
	return &EntryMessage{
		Group:       group,
		Seq:         entry.Seq,
		Kind:        string(entry.Kind),
		Text:        entry.Text,
		At:          entry.At,
		PublishedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RoutingKey returns the topic routing key for an entry kind, e.g.
// "ledger.expense".
func RoutingKey(kind models.EntryKind) string {
	return "ledger." + string(kind)
}
