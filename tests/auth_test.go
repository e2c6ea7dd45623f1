package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedly/schedly-backend/internal/user"
	userHttp "github.com/schedly/schedly-backend/internal/user/http"
)

func TestAuthFlow(t *testing.T) {
	clearTables()

	// Variable shared between sub-tests
	var accessToken string

	t.Run("Register User", func(t *testing.T) {
		registerPayload := userHttp.RegisterBody{
			Name:     "Tester",
			Email:    "test@example.com",
			Password: "password123",
		}
		w := executeRequest("POST", "/v1/auth/register", registerPayload, "")
		require.Equal(t, http.StatusCreated, w.Code, "Register should succeed")

		var resp userHttp.TokenResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err, "Should parse register response")
		assert.NotEmpty(t, resp.Token, "Register should return a token")
		assert.Equal(t, user.RoleUser, resp.User.Role, "Self registration never grants admin")
	})

	t.Run("Duplicate Register", func(t *testing.T) {
		registerPayload := userHttp.RegisterBody{
			Name:     "Tester",
			Email:    "test@example.com",
			Password: "password123",
		}
		wDuplicate := executeRequest("POST", "/v1/auth/register", registerPayload, "")
		assert.Equal(t, http.StatusConflict, wDuplicate.Code, "Duplicate email should return 409")
	})

	t.Run("Login", func(t *testing.T) {
		loginPayload := userHttp.LoginBody{
			Email:    "test@example.com",
			Password: "password123",
		}
		wLogin := executeRequest("POST", "/v1/auth/login", loginPayload, "")

		// Use require because we need the token for the next step
		require.Equal(t, http.StatusOK, wLogin.Code, "Login should succeed")

		var loginResp userHttp.TokenResponse
		err := json.Unmarshal(wLogin.Body.Bytes(), &loginResp)
		require.NoError(t, err, "Should parse login response")
		assert.NotEmpty(t, loginResp.Token, "Access token should not be empty")

		// Save token for next step
		accessToken = loginResp.Token
	})

	t.Run("Get Current User", func(t *testing.T) {
		wMe := executeRequest("GET", "/v1/auth/me", nil, accessToken)
		require.Equal(t, http.StatusOK, wMe.Code, "Get Me should succeed")

		var me userHttp.UserResponse
		err := json.Unmarshal(wMe.Body.Bytes(), &me)
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", me.Email)
	})

	t.Run("Login with Wrong Password", func(t *testing.T) {
		payload := userHttp.LoginBody{
			Email:    "test@example.com",
			Password: "wrongpassword",
		}
		w := executeRequest("POST", "/v1/auth/login", payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Should return 401 for wrong password")
	})

	t.Run("Login with Non-existent Email", func(t *testing.T) {
		payload := userHttp.LoginBody{
			Email:    "ghost@example.com",
			Password: "password123",
		}
		w := executeRequest("POST", "/v1/auth/login", payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Should return 401 for non-existent user")
	})

	t.Run("Get Me with Invalid Token", func(t *testing.T) {
		w := executeRequest("GET", "/v1/auth/me", nil, "invalid-token-string")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Should return 401 for invalid token")
	})

	t.Run("Get Me without Token", func(t *testing.T) {
		w := executeRequest("GET", "/v1/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Should return 401 without token")
	})
}

func TestRegisterValidation(t *testing.T) {
	clearTables()

	tests := []struct {
		name    string
		payload userHttp.RegisterBody
	}{
		{"missing name", userHttp.RegisterBody{Email: "a@b.com", Password: "password123"}},
		{"bad email", userHttp.RegisterBody{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"short password", userHttp.RegisterBody{Name: "A", Email: "a@b.com", Password: "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeRequest("POST", "/v1/auth/register", tt.payload, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
