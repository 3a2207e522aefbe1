package service

import (
	"testing"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name      string
		product   *store.Product
		expectErr bool
	}{
		{name: "non-empty name", product: &store.Product{Name: "Widget"}},
		{name: "whitespace-only name is accepted", product: &store.Product{Name: "  "}},
		{name: "empty name", product: &store.Product{Name: ""}, expectErr: true},
		{name: "nil product", product: nil, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.product)
			if !tc.expectErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, perrors.ErrInvalidName)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "failed on rule: required", validationErr.Fields["Name"])
			assert.Equal(t, "product name is invalid, it cannot be empty", err.Error())
		})
	}
}
