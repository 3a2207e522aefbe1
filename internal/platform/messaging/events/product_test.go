package events

import (
	"encoding/json"
	"testing"

	"github.com/abgdnv/productcatalog/internal/platform/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEvents(t *testing.T) {
	testCases := []struct {
		name            string
		event           ProductEvent
		expectedSubject string
		expectedDeleted bool
	}{
		{name: "created", event: NewProductCreated(1, "Widget", nil), expectedSubject: messaging.ProductsCreatedSubject},
		{name: "updated", event: NewProductUpdated(1, "Widget", nil), expectedSubject: messaging.ProductsUpdatedSubject},
		{name: "deleted", event: NewProductDeleted(1, "Widget", nil), expectedSubject: messaging.ProductsDeletedSubject, expectedDeleted: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedSubject, tc.event.Subject())

			data, err := tc.event.Payload()
			require.NoError(t, err)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.EqualValues(t, 1, decoded["product_id"])
			assert.Equal(t, "Widget", decoded["name"])
			assert.Equal(t, tc.expectedDeleted, decoded["deleted"])
			assert.NotContains(t, decoded, "carrier", "empty carrier is omitted")
		})
	}
}

func TestProductEvent_Headers(t *testing.T) {
	carrier := map[string]string{"traceparent": "00-abc-def-01"}
	event := NewProductUpdated(2, "Gadget", carrier)

	var hc messaging.HeaderCarrier = event
	assert.Equal(t, carrier, hc.Headers())
}
