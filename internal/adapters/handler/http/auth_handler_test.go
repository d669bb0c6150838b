package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type staticIssuer struct{}

func (staticIssuer) GenerateToken(userID string) (string, error) {
	return "token-for-" + userID, nil
}

func setupHandler() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, staticIssuer{})
	authHandler := NewAuthHandler(authService)

	router := gin.New()
	authHandler.RegisterRoutes(router.Group(""))

	return router, mockRepo
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success: Should return 201 and created user (No Password)", func(t *testing.T) {
		router, mockRepo := setupHandler()

		payload := map[string]string{
			"email":      "api_test@kanso.app",
			"password":   "PasswordSuperSegreta1!",
			"first_name": "Ada",
			"last_name":  "Lovelace",
		}

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		w := postJSON(router, "/auth/register", payload)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response userResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, payload["email"], response.Email)
		assert.Equal(t, "Ada", response.FirstName)
		assert.Equal(t, "Ada Lovelace", response.Display)
		assert.NotEmpty(t, response.ID)

		assert.NotContains(t, w.Body.String(), "password")

		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Should return 400 for Bad JSON (Invalid Email)", func(t *testing.T) {
		router, mockRepo := setupHandler()

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "not-an-email",
			"password": "Password123!",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return 400 for Bad JSON (Password too short)", func(t *testing.T) {
		router, mockRepo := setupHandler()

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "valid@email.com",
			"password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return 409 Conflict if email exists", func(t *testing.T) {
		router, mockRepo := setupHandler()

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "duplicate@kanso.app",
			"password": "PasswordValidissima!",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already exists")
	})

	t.Run("Fail: Should return 500 Internal Server Error on DB failure", func(t *testing.T) {
		router, mockRepo := setupHandler()

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db connection lost"))

		w := postJSON(router, "/auth/register", map[string]string{
			"email":    "crash@kanso.app",
			"password": "PasswordValidissima!",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	user, err := domain.NewUser("user-1", "login@kanso.app")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("CorrectHorse1"))

	t.Run("Success: Should return token and user", func(t *testing.T) {
		router, mockRepo := setupHandler()
		mockRepo.On("GetByEmail", mock.Anything, "login@kanso.app").Return(user, nil)

		w := postJSON(router, "/auth/login", map[string]string{
			"email":    "Login@Kanso.app",
			"password": "CorrectHorse1",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var response loginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "token-for-user-1", response.Token)
		assert.Equal(t, "user-1", response.User.ID)
	})

	t.Run("Fail: Wrong password is 401", func(t *testing.T) {
		router, mockRepo := setupHandler()
		mockRepo.On("GetByEmail", mock.Anything, "login@kanso.app").Return(user, nil)

		w := postJSON(router, "/auth/login", map[string]string{
			"email":    "login@kanso.app",
			"password": "WrongHorse1",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("Fail: Unknown email is indistinguishable", func(t *testing.T) {
		router, mockRepo := setupHandler()
		mockRepo.On("GetByEmail", mock.Anything, "ghost@kanso.app").Return(nil, domain.ErrUserNotFound)

		w := postJSON(router, "/auth/login", map[string]string{
			"email":    "ghost@kanso.app",
			"password": "whatever1",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("Fail: Missing fields is 400", func(t *testing.T) {
		router, mockRepo := setupHandler()

		w := postJSON(router, "/auth/login", map[string]string{"email": "login@kanso.app"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "GetByEmail")
	})
}
