package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productcatalog/internal/platform/messaging"
)

// ProductEvent describes a change in a product's lifecycle.
// The subject is one of the messaging.Products*Subject constants.
type ProductEvent struct {
	Carrier    map[string]string `json:"carrier,omitempty"`
	ProductID  int64             `json:"product_id"`
	Name       string            `json:"name"`
	Deleted    bool              `json:"deleted"`
	OccurredAt time.Time         `json:"occurred_at"`
	subject    string
}

// NewProductCreated builds the event published after a product row is inserted.
func NewProductCreated(id int64, name string, carrier map[string]string) ProductEvent {
	return newProductEvent(messaging.ProductsCreatedSubject, id, name, false, carrier)
}

// NewProductUpdated builds the event published after a product name changes.
func NewProductUpdated(id int64, name string, carrier map[string]string) ProductEvent {
	return newProductEvent(messaging.ProductsUpdatedSubject, id, name, false, carrier)
}

// NewProductDeleted builds the event published after a product is soft-deleted.
func NewProductDeleted(id int64, name string, carrier map[string]string) ProductEvent {
	return newProductEvent(messaging.ProductsDeletedSubject, id, name, true, carrier)
}

func newProductEvent(subject string, id int64, name string, deleted bool, carrier map[string]string) ProductEvent {
	return ProductEvent{
		Carrier:    carrier,
		ProductID:  id,
		Name:       name,
		Deleted:    deleted,
		OccurredAt: time.Now().UTC(),
		subject:    subject,
	}
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// Headers returns the propagated trace context.
func (e ProductEvent) Headers() map[string]string {
	return e.Carrier
}
