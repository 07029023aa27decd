package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrder(t *testing.T) {
	t.Run("ValidPayload", func(t *testing.T) {
		payload, err := DecodeOrder(`{"order_id":"123","customer":"A","order_revenue":10}`)
		require.NoError(t, err)
		assert.Equal(t, "123", payload.OrderID())
		assert.Equal(t, json.Number("10"), payload["order_revenue"])
	})

	t.Run("ExtraFieldsPassThrough", func(t *testing.T) {
		payload, err := DecodeOrder(`{"order_id":"1","customer":{"id":"c1","email":"a@b.co"},"order_revenue":10.50,"currency":"AUD","line_items":[{"sku":"x"}]}`)
		require.NoError(t, err)
		assert.Equal(t, "AUD", payload["currency"])
		assert.Len(t, payload["line_items"], 1)

		body, err := payload.Marshal()
		require.NoError(t, err)
		assert.Contains(t, string(body), `"order_revenue":10.50`)
	})

	t.Run("NumericZeroIsPresent", func(t *testing.T) {
		_, err := DecodeOrder(`{"order_id":0,"customer":"A","order_revenue":0}`)
		assert.NoError(t, err)
	})

	malformed := []struct {
		name string
		raw  string
	}{
		{"Empty", ""},
		{"NotJSON", "order_id=1"},
		{"Truncated", `{"order_id":"1"`},
		{"TrailingData", `{"order_id":"1"} {}`},
		{"InvalidUTF8", "{\"order_id\":\"\xff\",\"customer\":\"A\",\"order_revenue\":10}"},
	}
	for _, tc := range malformed {
		t.Run("Malformed"+tc.name, func(t *testing.T) {
			_, err := DecodeOrder(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPayload), "got %v", err)
		})
	}

	missing := []struct {
		name   string
		raw    string
		fields []string
	}{
		{"AllMissing", `{}`, []string{"customer", "order_id", "order_revenue"}},
		{"NoOrderID", `{"customer":"A","order_revenue":10}`, []string{"order_id"}},
		{"NullCustomer", `{"order_id":"1","customer":null,"order_revenue":10}`, []string{"customer"}},
		{"EmptyRevenue", `{"order_id":"1","customer":"A","order_revenue":""}`, []string{"order_revenue"}},
		{"ArrayBody", `[1,2,3]`, []string{"order_id", "customer", "order_revenue"}},
		{"NullBody", `null`, []string{"order_id", "customer", "order_revenue"}},
	}
	for _, tc := range missing {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeOrder(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingFields), "got %v", err)

			var mfe *MissingFieldsError
			require.True(t, errors.As(err, &mfe))
			assert.Equal(t, tc.fields, mfe.Fields)
		})
	}
}

func TestMissingFieldsErrorMessage(t *testing.T) {
	err := &MissingFieldsError{Fields: []string{"customer", "order_id"}}
	assert.Equal(t, "missing required fields in payload: customer, order_id", err.Error())
}
