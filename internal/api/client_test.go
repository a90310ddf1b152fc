package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLogin_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/auth/login" {
			t.Fatalf("path = %s, want /auth/login", r.URL.Path)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Username != "maria" || req.Password != "secret" {
			t.Fatalf("unexpected credentials: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "token-123",
			UserID:      "u1",
			Username:    "maria",
			FullName:    "Maria G",
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := client.Login(ctx, "maria", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.AccessToken != "token-123" || res.Username != "maria" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestVariantByCode_SendsBearerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Fatalf("authorization = %q, want bearer token", got)
		}
		if r.URL.Path != "/inventory/by-code/A001" {
			t.Fatalf("path = %s, want /inventory/by-code/A001", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Variant{
			Code:        "A001",
			VariantID:   "v1",
			ProductName: "Soap",
			SalePrice:   decimal.NewFromFloat(10.5),
			QtyOnHand:   5,
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	client.SetToken("token-123")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := client.VariantByCode(ctx, "A001")
	if err != nil {
		t.Fatalf("VariantByCode error: %v", err)
	}
	if res.ProductName != "Soap" || res.QtyOnHand != 5 {
		t.Fatalf("unexpected variant: %+v", res)
	}
	if !res.SalePrice.Equal(decimal.NewFromFloat(10.5)) {
		t.Fatalf("sale price = %s, want 10.5", res.SalePrice)
	}
}

func TestVariantByCode_NotFoundDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Code not found"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.VariantByCode(ctx, "NOPE")
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound = false for %v", err)
	}
	if err.Error() != "Code not found" {
		t.Fatalf("error message = %q, want server detail", err.Error())
	}
}

func TestCheckout_SendsItemsAndDecodesTicket(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sales/checkout" {
			t.Fatalf("path = %s, want /sales/checkout", r.URL.Path)
		}

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Items) != 1 || req.Items[0].Code != "A001" || req.Items[0].Qty != 2 {
			t.Fatalf("unexpected items: %+v", req.Items)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CheckoutResponse{
			SaleID:       "s1",
			TicketNumber: 7,
			Subtotal:     decimal.NewFromInt(20),
			Total:        decimal.NewFromInt(20),
			Currency:     "USD",
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := client.Checkout(ctx, CheckoutRequest{
		Items: []SaleItem{{Code: "A001", Qty: 2}},
	})
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if res.TicketNumber != 7 {
		t.Fatalf("ticket = %d, want 7", res.TicketNumber)
	}
	if !res.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("total = %s, want 20", res.Total)
	}
}

func TestCheckout_ErrorWithoutDetailBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Checkout(ctx, CheckoutRequest{Items: []SaleItem{{Code: "A001", Qty: 1}}})
	if err == nil {
		t.Fatalf("expected error for 500")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Error() == "" {
		t.Fatalf("error message must not be empty")
	}
}

func TestLowStockAlerts_DecodesList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inventory/alerts/low-stock" {
			t.Fatalf("path = %s, want /inventory/alerts/low-stock", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"variant_id":"v1","product_name":"Soap","variant_name":null,"qty_on_hand":1,"primary_code":"A001"}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	alerts, err := client.LowStockAlerts(ctx)
	if err != nil {
		t.Fatalf("LowStockAlerts error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	if alerts[0].VariantID != "v1" || alerts[0].QtyOnHand != 1 {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
	if alerts[0].VariantName != nil {
		t.Fatalf("variant name should decode null as nil")
	}
}
