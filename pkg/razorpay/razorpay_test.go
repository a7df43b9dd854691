package razorpay_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"luxe/pkg/razorpay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var in razorpay.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, int64(6000), in.Amount)
		assert.Equal(t, "INR", in.Currency)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(razorpay.Order{
			ID:       "order_123",
			Entity:   "order",
			Amount:   in.Amount,
			Currency: in.Currency,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := razorpay.NewClient(razorpay.Config{BaseURL: server.URL, KeyID: "key_id", KeySecret: "key_secret"})
	order, err := client.CreateOrder(context.Background(), razorpay.OrderRequest{Amount: 6000, Currency: "INR"})

	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(6000), order.Amount)
}

func TestClient_CreateOrder_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer server.Close()

	client := razorpay.NewClient(razorpay.Config{BaseURL: server.URL})
	_, err := client.CreateOrder(context.Background(), razorpay.OrderRequest{Amount: 100, Currency: "INR"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_VerifySignature(t *testing.T) {
	client := razorpay.NewClient(razorpay.Config{KeySecret: "secret"})
	sig := razorpay.Sign("secret", "order_1", "pay_1")

	assert.True(t, client.VerifySignature("order_1", "pay_1", sig))
	assert.False(t, client.VerifySignature("order_1", "pay_2", sig))
	assert.False(t, client.VerifySignature("order_1", "pay_1", razorpay.Sign("other", "order_1", "pay_1")))
	assert.False(t, client.VerifySignature("order_1", "pay_1", ""))
}
