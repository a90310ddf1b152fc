package stub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-client/internal/api"
)

// Server связывает состояние склада с HTTP-маршрутами API.
type Server struct {
	state  *State
	signer *tokenSigner
	logger *zap.Logger
}

// NewServer создаёт учебный сервер поверх указанного состояния.
func NewServer(state *State, secret string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		state:  state,
		signer: newTokenSigner(secret),
		logger: logger,
	}
}

// Router настраивает HTTP-маршруты учебного сервера.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.signer.middleware)

		r.Get("/dashboard/summary", s.dashboardSummary)

		r.Get("/inventory/alerts/low-stock", s.lowStock)
		r.Get("/inventory/items", s.inventoryItems)
		r.Get("/inventory/by-code/{code}", s.variantByCode)
		r.Patch("/inventory/items/{variantID}", s.updateItem)
		r.Delete("/inventory/items/{variantID}", s.deleteItem)
		r.Post("/inventory/scan-increase", s.scanIncrease)

		r.Post("/catalog/scan-upsert", s.scanUpsert)

		r.Post("/sales/checkout", s.checkout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := s.state.authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: s.signer.sign(u.id),
		UserID:      u.id,
		Username:    u.username,
		FullName:    u.fullName,
	})
}

func (s *Server) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.summary())
}

func (s *Server) lowStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.lowStock())
}

func (s *Server) inventoryItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.listItems())
}

func (s *Server) variantByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	v, err := s.state.variantByCode(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "Code not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var upd api.InventoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.state.updateItem(chi.URLParam(r, "variantID"), upd)
	if err != nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantID")

	if err := s.state.deleteItem(variantID); err != nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, api.DeleteResponse{OK: true, DeletedVariantID: variantID})
}

func (s *Server) scanIncrease(w http.ResponseWriter, r *http.Request) {
	var req api.StockIncreaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Qty <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	updated, err := s.state.scanIncrease(req.Code, req.Qty)
	if err != nil {
		writeError(w, http.StatusNotFound, "Code not found")
		return
	}
	writeJSON(w, http.StatusOK, api.StockIncreaseResponse{OK: true, UpdatedStock: &updated})
}

func (s *Server) scanUpsert(w http.ResponseWriter, r *http.Request) {
	var req api.ScanUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" || req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "Code and product name are required")
		return
	}

	res, err := s.state.scanUpsert(req)
	if err != nil {
		s.logger.Error("scan upsert error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req api.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Sale must contain at least one item")
		return
	}

	res, err := s.state.checkout(req.Items)
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			writeError(w, http.StatusBadRequest, stockErr.Error())
		case errors.Is(err, ErrCodeNotFound):
			writeError(w, http.StatusNotFound, "Code not found")
		default:
			s.logger.Error("checkout error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
