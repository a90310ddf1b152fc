// Package api предоставляет клиент для внешнего REST API магазина.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmeshcher/storefront-client/internal/model"
)

// Error описывает отказ API с человекочитаемым сообщением из поля detail.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsNotFound сообщает, означает ли ошибка отсутствие запрошенного ресурса.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized сообщает, отклонил ли сервер запрос как неавторизованный.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client инкапсулирует HTTP-взаимодействие с API магазина.
// Каждый запрос выполняется ровно один раз, без повторных попыток.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient создаёт HTTP-клиент для обращения к API магазина по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// SetToken устанавливает токен доступа для последующих запросов.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken сбрасывает токен доступа.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return errors.New("api client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &Error{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login выполняет вход и возвращает токен доступа с данными пользователя.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	var res TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Username: username, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DashboardSummary запрашивает сводку показателей панели.
func (c *Client) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var res DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LowStockAlerts запрашивает текущий список товаров с низким остатком.
func (c *Client) LowStockAlerts(ctx context.Context) ([]model.LowStockAlert, error) {
	var res []model.LowStockAlert
	if err := c.do(ctx, http.MethodGet, "/inventory/alerts/low-stock", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// InventoryItems запрашивает полный список инвентаря.
func (c *Client) InventoryItems(ctx context.Context) ([]InventoryItem, error) {
	var res []InventoryItem
	if err := c.do(ctx, http.MethodGet, "/inventory/items", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// VariantByCode ищет вариант товара по отсканированному коду.
func (c *Client) VariantByCode(ctx context.Context, code string) (*Variant, error) {
	var res Variant
	if err := c.do(ctx, http.MethodGet, "/inventory/by-code/"+url.PathEscape(code), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ScanIncrease увеличивает остаток существующего товара по коду.
func (c *Client) ScanIncrease(ctx context.Context, req StockIncreaseRequest) (*StockIncreaseResponse, error) {
	var res StockIncreaseResponse
	if err := c.do(ctx, http.MethodPost, "/inventory/scan-increase", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ScanUpsert создаёт товар, вариант и начальный остаток по новому коду.
func (c *Client) ScanUpsert(ctx context.Context, req ScanUpsertRequest) (*ScanUpsertResponse, error) {
	var res ScanUpsertResponse
	if err := c.do(ctx, http.MethodPost, "/catalog/scan-upsert", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateInventoryItem частично обновляет позицию инвентаря.
func (c *Client) UpdateInventoryItem(ctx context.Context, variantID string, upd InventoryUpdate) (*InventoryItem, error) {
	var res InventoryItem
	if err := c.do(ctx, http.MethodPatch, "/inventory/items/"+url.PathEscape(variantID), upd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteInventoryItem удаляет позицию инвентаря.
func (c *Client) DeleteInventoryItem(ctx context.Context, variantID string) error {
	var res DeleteResponse
	return c.do(ctx, http.MethodDelete, "/inventory/items/"+url.PathEscape(variantID), nil, &res)
}

// Checkout оформляет продажу по содержимому корзины.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var res CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/sales/checkout", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
