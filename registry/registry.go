package registry

import (
	"fmt"

	"github.com/anirudhraja/jsonproto/schema"
)

// Registry allows us to store the inferred message schemas of one conversion, keyed by fingerprint.
// The first schema registered under a fingerprint is canonical; later structurally identical ones collapse onto it.
type Registry struct {
	messages map[string]*schema.MessageSchema // fingerprint -> message
	order    []string                         // fingerprints in registration order
}

func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]*schema.MessageSchema),
	}
}

// Register stores msg unless a schema with the same fingerprint exists. It
// returns the canonical schema and whether msg itself was stored.
func (r *Registry) Register(msg *schema.MessageSchema) (*schema.MessageSchema, bool) {
	if existing, ok := r.messages[msg.Fingerprint]; ok {
		return existing, false
	}
	r.messages[msg.Fingerprint] = msg
	r.order = append(r.order, msg.Fingerprint)
	return msg, true
}

// GetMessage retrieves a message schema by fingerprint or by its generated name
func (r *Registry) GetMessage(name string) (*schema.MessageSchema, error) {
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}
	for _, fp := range r.order {
		msg := r.messages[fp]
		if msg.Name() == name || msg.FullName() == name {
			return msg, nil
		}
	}
	return nil, fmt.Errorf("message not found: %s", name)
}

// ListMessages returns all registered fingerprints in registration order
func (r *Registry) ListMessages() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of distinct schemas.
func (r *Registry) Len() int {
	return len(r.order)
}
