package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/handlers"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

type MockIdentityService struct {
	CreateFunc      func(ctx context.Context, caller string, params identity.CreateParams) (*identity.Identity, error)
	VerifyFunc      func(ctx context.Context, caller, id string) (*identity.Identity, error)
	UpdateEmailFunc func(ctx context.Context, caller, id string, email *string) (*identity.Identity, error)
	GetByIDFunc     func(ctx context.Context, id string) (*identity.Identity, error)
}

func (m *MockIdentityService) Create(ctx context.Context, caller string, params identity.CreateParams) (*identity.Identity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, caller, params)
	}
	return nil, nil
}

func (m *MockIdentityService) Verify(ctx context.Context, caller, id string) (*identity.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, caller, id)
	}
	return nil, nil
}

func (m *MockIdentityService) UpdateEmail(ctx context.Context, caller, id string, email *string) (*identity.Identity, error) {
	if m.UpdateEmailFunc != nil {
		return m.UpdateEmailFunc(ctx, caller, id, email)
	}
	return nil, nil
}

func (m *MockIdentityService) GetByID(ctx context.Context, id string) (*identity.Identity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func setupIdentityTestRouter(handler *handlers.IdentityHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1/identities")
	{
		v1.POST("", handler.Create)
		v1.GET("/:id", handler.Get)
		v1.POST("/:id/verify", handler.Verify)
		v1.PUT("/:id/email", handler.UpdateEmail)
	}
	return r
}

func TestIdentityHandler_Create(t *testing.T) {
	mockService := &MockIdentityService{
		CreateFunc: func(ctx context.Context, caller string, params identity.CreateParams) (*identity.Identity, error) {
			return &identity.Identity{
				ID:         "idn_01h2xcejqtf2nbrexx3vqjhp41",
				Owner:      caller,
				Provider:   params.Provider,
				ProviderID: params.ProviderID,
				CreatedAt:  1000,
				UpdatedAt:  1000,
			}, nil
		},
	}

	handler := handlers.NewIdentityHandler(mockService, zerolog.Nop())
	router := setupIdentityTestRouter(handler)

	body, _ := json.Marshal(map[string]string{"provider": "google", "provider_id": "g-123"})
	req, _ := http.NewRequest("POST", "/v1/identities", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Address", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["owner"] != "owner-1" {
		t.Errorf("Expected owner 'owner-1', got %v", response["owner"])
	}
	if response["is_verified"] != false {
		t.Errorf("Expected is_verified false, got %v", response["is_verified"])
	}
}

func TestIdentityHandler_CreateRequiresCaller(t *testing.T) {
	handler := handlers.NewIdentityHandler(&MockIdentityService{}, zerolog.Nop())
	router := setupIdentityTestRouter(handler)

	body, _ := json.Marshal(map[string]string{"provider": "google", "provider_id": "g-123"})
	req, _ := http.NewRequest("POST", "/v1/identities", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestIdentityHandler_CreateRejectsBadBody(t *testing.T) {
	handler := handlers.NewIdentityHandler(&MockIdentityService{}, zerolog.Nop())
	router := setupIdentityTestRouter(handler)

	req, _ := http.NewRequest("POST", "/v1/identities", bytes.NewReader([]byte(`{"provider":"google"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Address", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestIdentityHandler_VerifyMapsForbidden(t *testing.T) {
	mockService := &MockIdentityService{
		VerifyFunc: func(ctx context.Context, caller, id string) (*identity.Identity, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeForbidden, "caller is not the identity owner", nil,
				"identity-verify-owner-001")
		},
	}

	handler := handlers.NewIdentityHandler(mockService, zerolog.Nop())
	router := setupIdentityTestRouter(handler)

	req, _ := http.NewRequest("POST", "/v1/identities/idn_x/verify", nil)
	req.Header.Set("X-Caller-Address", "intruder")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestIdentityHandler_GetMapsNotFound(t *testing.T) {
	mockService := &MockIdentityService{
		GetByIDFunc: func(ctx context.Context, id string) (*identity.Identity, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeNotFound, "identity not found", nil,
				"identity-repo-get-001")
		},
	}

	handler := handlers.NewIdentityHandler(mockService, zerolog.Nop())
	router := setupIdentityTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/identities/idn_missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestIdentityHandler_UpdateEmail(t *testing.T) {
	email := "new@example.com"
	mockService := &MockIdentityService{
		UpdateEmailFunc: func(ctx context.Context, caller, id string, got *string) (*identity.Identity, error) {
			return &identity.Identity{
				ID:    id,
				Owner: caller,
				Email: got,
			}, nil
		},
	}

	handler := handlers.NewIdentityHandler(mockService, zerolog.Nop())
	router := setupIdentityTestRouter(handler)

	body, _ := json.Marshal(map[string]string{"email": email})
	req, _ := http.NewRequest("PUT", "/v1/identities/idn_x/email", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Address", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["email"] != email {
		t.Errorf("Expected email %q, got %v", email, response["email"])
	}
}
