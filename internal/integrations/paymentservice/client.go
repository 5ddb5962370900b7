package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrDepositDeclined возвращается, когда платёжный сервис отклонил депозит
	ErrDepositDeclined = errors.New("deposit authorization declined")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DepositRequest запрос на авторизацию депозита.
// Движок вычисляет только сумму; списание и возврат выполняет PaymentService.
type DepositRequest struct {
	UserID        int64   `json:"user_id"`
	RestaurantID  int64   `json:"restaurant_id"`
	ReservationID int64   `json:"reservation_id,omitempty"`
	Amount        float64 `json:"amount"`
}

// DepositAuthorization результат авторизации депозита
type DepositAuthorization struct {
	AuthorizationID string  `json:"authorization_id"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
}

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// AuthorizeDeposit авторизует депозит за бронирование
func (c *Client) AuthorizeDeposit(ctx context.Context, depositReq DepositRequest) (*DepositAuthorization, error) {
	url := fmt.Sprintf("%s/internal/deposits", c.baseURL)

	body, err := json.Marshal(depositReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return nil, ErrDepositDeclined
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var auth DepositAuthorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &auth, nil
}
