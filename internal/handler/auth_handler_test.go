package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/middleware"
	"github.com/pennyflow/pennyflow-backend/internal/service"
	"github.com/pennyflow/pennyflow-backend/internal/testutil"
)

// Helper to set up auth context
func setupAuthContext(c echo.Context, auth0ID string, email, name string) {
	setupAuthContextWithAccount(c, auth0ID, email, name, 0)
}

// Helper to set up auth context with account ID
func setupAuthContextWithAccount(c echo.Context, auth0ID string, email, name string, accountID int32) {
	customClaims := &middleware.CustomClaims{
		Email: email,
		Name:  name,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if accountID > 0 {
		ctx = context.WithValue(ctx, middleware.AccountIDKey, accountID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func newAuthHandlerFixture() (*AuthHandler, *testutil.MockUserRepository, *testutil.MockAccountRepository) {
	userRepo := testutil.NewMockUserRepository()
	accountRepo := testutil.NewMockAccountRepository()
	walletRepo := testutil.NewMockWalletRepository()
	authService := service.NewAuthService(userRepo, accountRepo, walletRepo)
	return NewAuthHandler(authService), userRepo, accountRepo
}

func TestCallback_NewUser(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|newuser123", "new@example.com", "New User")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !response.IsNewUser {
		t.Error("Expected IsNewUser to be true for new user")
	}

	if response.User.Email != "new@example.com" {
		t.Errorf("Expected email 'new@example.com', got %s", response.User.Email)
	}

	if response.Account.Name != "Personal" {
		t.Errorf("Expected account name 'Personal', got %s", response.Account.Name)
	}
}

func TestCallback_ExistingUser(t *testing.T) {
	e := echo.New()
	handler, userRepo, accountRepo := newAuthHandlerFixture()

	auth0ID := "auth0|existing123"
	existingUser := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   "existing@example.com",
	}
	userRepo.AddUser(existingUser)

	existingAccount := &domain.Account{
		ID:     1,
		UserID: existingUser.ID,
		Name:   "Personal",
	}
	accountRepo.LinkAuth0ID(auth0ID, existingAccount)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, auth0ID, "existing@example.com", "Existing User")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.IsNewUser {
		t.Error("Expected IsNewUser to be false for existing user")
	}

	if response.User.ID != existingUser.ID.String() {
		t.Errorf("Expected user ID %s, got %s", existingUser.ID, response.User.ID)
	}
}

func TestCallback_MissingAuth(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// No auth context set
	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCallback_MissingEmail(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|noemail", "", "No Email")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	handler, userRepo, accountRepo := newAuthHandlerFixture()

	auth0ID := "auth0|me123"
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   "me@example.com",
	}
	userRepo.AddUser(user)

	account := &domain.Account{
		ID:     3,
		UserID: user.ID,
		Name:   "Personal",
	}
	accountRepo.LinkAuth0ID(auth0ID, account)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, auth0ID, "me@example.com", "Me", 3)

	err := handler.Me(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.User.Email != "me@example.com" {
		t.Errorf("Expected email 'me@example.com', got %s", response.User.Email)
	}

	if response.Account.ID != 3 {
		t.Errorf("Expected account ID 3, got %d", response.Account.ID)
	}
}

func TestLogout_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithAccount(c, "auth0|bye", "bye@example.com", "Bye", 1)

	err := handler.Logout(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
