package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/config"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/utils"
)

const statusSuccess = "success"

// InitializeRequest carries the per-transaction fields of a checkout
// initialization. Currency and return URL come from configuration.
type InitializeRequest struct {
	Amount      float64
	Email       string
	FirstName   string
	LastName    string
	TxRef       string
	CallbackURL string
	Title       string
	Description string
}

type initializePayload struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
	Customization struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"customization"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

type rawResponse struct {
	statusCode int
	body       []byte
}

// Client talks to the Chapa REST API. Outbound calls go through a
// circuit breaker; only transport-level failures count against it.
type Client struct {
	cfg        config.Chapa
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg config.Chapa, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    utils.NewBreaker("chapa", logger),
		logger:     logger,
	}
}

// InitializeTransaction registers a checkout session with the provider
// and returns the hosted checkout URL.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (string, error) {
	ctx, span := otel.Tracer("chapa.client").Start(ctx, "Chapa.InitializeTransaction")
	defer span.End()

	payload := initializePayload{
		Amount:      fmt.Sprintf("%.2f", req.Amount),
		Currency:    c.cfg.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   c.cfg.ReturnURL,
	}
	payload.Customization.Title = req.Title
	payload.Customization.Description = req.Description

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal initialize payload: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		applog.Error(ctx, c.logger, "chapa initialize transport failure", zap.Error(err), zap.String("tx_ref", req.TxRef))
		return "", err
	}

	var resp initializeResponse
	if raw.statusCode < 200 || raw.statusCode >= 300 {
		_ = json.Unmarshal(raw.body, &resp)

		applog.Warn(ctx, c.logger, "chapa rejected initialization",
			zap.Int("http_status", raw.statusCode),
			zap.String("provider_status", resp.Status),
			zap.String("tx_ref", req.TxRef))
		return "", &RejectedError{StatusCode: raw.statusCode, Status: resp.Status, Message: resp.Message}
	}

	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.Status != statusSuccess {
		applog.Warn(ctx, c.logger, "chapa rejected initialization",
			zap.Int("http_status", raw.statusCode),
			zap.String("provider_status", resp.Status),
			zap.String("tx_ref", req.TxRef))
		return "", &RejectedError{StatusCode: raw.statusCode, Status: resp.Status, Message: resp.Message}
	}

	if resp.Data.CheckoutURL == "" {
		return "", fmt.Errorf("%w: missing checkout_url", ErrMalformedResponse)
	}

	return resp.Data.CheckoutURL, nil
}

// VerifyTransaction asks the provider for the final state of a
// transaction and returns its status string ("success" means paid).
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (string, error) {
	ctx, span := otel.Tracer("chapa.client").Start(ctx, "Chapa.VerifyTransaction")
	defer span.End()

	raw, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		applog.Error(ctx, c.logger, "chapa verify transport failure", zap.Error(err), zap.String("tx_ref", txRef))
		return "", err
	}

	if raw.statusCode < 200 || raw.statusCode >= 300 {
		var resp verifyResponse
		_ = json.Unmarshal(raw.body, &resp)
		return "", &RejectedError{StatusCode: raw.statusCode, Status: resp.Status, Message: resp.Message}
	}

	var resp verifyResponse
	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Data.Status == "" {
		return "", fmt.Errorf("%w: missing data.status", ErrMalformedResponse)
	}

	return resp.Data.Status, nil
}

// do performs a single HTTP attempt through the breaker. The breaker
// sees only transport errors; HTTP-level outcomes are returned to the
// caller for classification.
func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*rawResponse, error) {
	raw, err := utils.ExecuteWithBreaker(c.breaker, func() (*rawResponse, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		return &rawResponse{statusCode: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrUnreachable)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return raw, nil
}
