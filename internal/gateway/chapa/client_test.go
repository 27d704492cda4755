package chapa_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/gateway/chapa"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/config"
)

func newTestClient(baseURL string) *chapa.Client {
	return chapa.NewClient(config.Chapa{
		SecretKey: "test-secret",
		BaseURL:   baseURL,
		Currency:  "ETB",
		ReturnURL: "http://localhost:8000/api/payments/",
		Timeout:   2 * time.Second,
	}, zap.NewNop())
}

func initRequest() chapa.InitializeRequest {
	return chapa.InitializeRequest{
		Amount:      1500.50,
		Email:       "guest@example.com",
		FirstName:   "Abel",
		LastName:    "Tesfaye",
		TxRef:       "tx-123",
		CallbackURL: "http://localhost:8000/payments/verify-payment/tx-123",
		Title:       "Booking Payment",
		Description: "Payment for booking 1",
	}
}

func TestInitializeTransaction_Success(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"ok","data":{"checkout_url":"https://checkout.chapa.co/pay/abc"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	checkoutURL, err := client.InitializeTransaction(context.Background(), initRequest())
	require.NoError(t, err)
	require.Equal(t, "https://checkout.chapa.co/pay/abc", checkoutURL)
	require.Equal(t, "Bearer test-secret", gotAuth)
}

func TestInitializeTransaction_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"failed","message":"invalid currency"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.InitializeTransaction(context.Background(), initRequest())
	require.Error(t, err)

	var rejected *chapa.RejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	require.Equal(t, "invalid currency", rejected.Message)
}

func TestInitializeTransaction_ProviderStatusNotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"failed","message":"insufficient merchant balance"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.InitializeTransaction(context.Background(), initRequest())

	var rejected *chapa.RejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, http.StatusOK, rejected.StatusCode)
	require.Equal(t, "failed", rejected.Status)
}

func TestInitializeTransaction_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.InitializeTransaction(context.Background(), initRequest())
	require.ErrorIs(t, err, chapa.ErrMalformedResponse)
}

func TestInitializeTransaction_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)

	_, err := client.InitializeTransaction(context.Background(), initRequest())
	require.ErrorIs(t, err, chapa.ErrUnreachable)
}

func TestVerifyTransaction_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/tx-123", r.URL.Path)

		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"success"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	status, err := client.VerifyTransaction(context.Background(), "tx-123")
	require.NoError(t, err)
	require.Equal(t, "success", status)
}

func TestVerifyTransaction_FailedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"status":"failed"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	status, err := client.VerifyTransaction(context.Background(), "tx-123")
	require.NoError(t, err)
	require.Equal(t, "failed", status)
}

func TestVerifyTransaction_MissingStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.VerifyTransaction(context.Background(), "tx-123")
	require.ErrorIs(t, err, chapa.ErrMalformedResponse)
}

func TestVerifyTransaction_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"failed","message":"transaction not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.VerifyTransaction(context.Background(), "tx-unknown")

	var rejected *chapa.RejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, http.StatusNotFound, rejected.StatusCode)
}

func TestInitializeTransaction_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://checkout.chapa.co/pay/abc"}}`))
	}))
	defer server.Close()

	client := chapa.NewClient(config.Chapa{
		SecretKey: "test-secret",
		BaseURL:   server.URL,
		Currency:  "ETB",
		Timeout:   50 * time.Millisecond,
	}, zap.NewNop())

	_, err := client.InitializeTransaction(context.Background(), initRequest())
	require.ErrorIs(t, err, chapa.ErrUnreachable)
}
