package server

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "fatima_s",
				"email":    "fatima@alnoor-metals.sa",
				"password": "Sup3r-Secret-Pw!",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"username": "fatima_two",
				"email":    "fatima@alnoor-metals.sa",
				"password": "Sup3r-Secret-Pw!",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Duplicate Username",
			body: map[string]string{
				"username": "fatima_s",
				"email":    "other@alnoor-metals.sa",
				"password": "Sup3r-Secret-Pw!",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "weak_pw",
				"email":    "weak@alnoor-metals.sa",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid Email",
			body: map[string]string{
				"username": "bad_email",
				"email":    "not-an-email",
				"password": "Sup3r-Secret-Pw!",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestSignup_ReturnsToken(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "khalid_m",
		"email":    "khalid@dammam-plastics.sa",
		"password": "Sup3r-Secret-Pw!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body AuthResponse
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	require.NotNil(t, body.User)
	assert.Equal(t, "khalid_m", body.User.Username)
	assert.NotZero(t, body.User.ID)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	app, _, db := setupTestApp(t)
	seedTestUser(t, db, "sara_h", "sara@riyadh-valves.sa")

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"email":    "sara@riyadh-valves.sa",
				"password": "Sup3r-Secret-Pw!",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{
				"email":    "sara@riyadh-valves.sa",
				"password": "Wrong-Password-1!",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown Email",
			body: map[string]string{
				"email":    "nobody@riyadh-valves.sa",
				"password": "Sup3r-Secret-Pw!",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Fields",
			body:           map[string]string{"email": "sara@riyadh-valves.sa"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	app, s, db := setupTestApp(t)
	user := seedTestUser(t, db, "auth_user", "auth@jeddah-pumps.sa")

	t.Run("Missing Token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Malformed Token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", "Bearer not-a-jwt", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid Token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", bearerToken(t, s, user), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var me map[string]any
		decodeBody(t, resp, &me)
		assert.Equal(t, "auth_user", me["username"])
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	app, s, db := setupTestApp(t)
	user := seedTestUser(t, db, "refresh_user", "refresh@jeddah-pumps.sa")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/refresh", bearerToken(t, s, user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body AuthResponse
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)

	// The fresh token must itself be usable.
	meResp := doJSON(t, app, http.MethodGet, "/api/users/me", "Bearer "+body.Token, nil)
	defer func() { _ = meResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestLogout_WithoutRedisStillSucceeds(t *testing.T) {
	t.Parallel()

	app, s, db := setupTestApp(t)
	user := seedTestUser(t, db, "logout_user", "logout@jeddah-pumps.sa")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", bearerToken(t, s, user), nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout_RevokesToken(t *testing.T) {
	t.Parallel()

	s, db := setupTestServer(t)

	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	s.SetupRoutes(app)

	user := seedTestUser(t, db, "revoke_user", "revoke@jeddah-pumps.sa")
	token := bearerToken(t, s, user)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// The blacklisted token must be rejected from now on.
	meResp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	defer func() { _ = meResp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
}
