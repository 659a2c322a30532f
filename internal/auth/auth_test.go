package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T) (*AuthService, string) {
	t.Helper()
	t.Setenv("OMDIB_AUTH_TEST_SECRET", testSecret)

	hash, err := NewPasswordHasherWithParams(64, 1, 1).HashPassword("s3cret")
	require.NoError(t, err)
	machine, machineHash, err := NewMachineTokenGenerator().GenerateMachineToken()
	require.NoError(t, err)

	svc, err := NewAuthService(config.AuthConfig{
		JWTSecretEnv:   "OMDIB_AUTH_TEST_SECRET",
		AccessTokenTTL: time.Hour,
		Issuer:         "openmdib",
		Users:          []config.UserConfig{{Username: "nurse", PasswordHash: hash, Role: RoleOperator}},
		MachineTokens:  []config.MachineTokenConfig{{Name: "gateway", TokenHash: machineHash, Role: RoleViewer}},
	}, zap.NewNop())
	require.NoError(t, err)
	return svc, machine
}

func TestPasswordHashing(t *testing.T) {
	h := NewPasswordHasherWithParams(64, 1, 1)
	hash, err := h.HashPassword("pw")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=64,t=1,p=1$")

	ok, err := h.VerifyPassword("pw", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.VerifyPassword("other", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.VerifyPassword("pw", "$bcrypt$x")
	assert.Error(t, err)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.LoginUser("nurse", "wrong", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.LoginUser("nobody", "s3cret", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, expires, err := svc.LoginUser("nurse", "s3cret", "127.0.0.1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	p, err := svc.Authenticate(token, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "nurse", p.Name)
	assert.False(t, p.Machine)
	assert.True(t, p.Can(PermWrite))
	assert.False(t, p.Can(PermAdmin))
}

func TestMachineToken(t *testing.T) {
	svc, machine := newService(t)
	p, err := svc.Authenticate(machine, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, p.Machine)
	assert.Equal(t, "gateway", p.Name)
	assert.True(t, p.Can(PermRead))
	assert.False(t, p.Can(PermWrite))

	_, err = svc.Authenticate(machine+"0", "10.0.0.1")
	assert.Error(t, err)
}

func TestTokenValidation(t *testing.T) {
	j := NewJWTHandler(testSecret, "openmdib", time.Minute)
	token, _, err := j.GenerateAccessToken("nurse", RoleViewer)
	require.NoError(t, err)

	_, err = NewJWTHandler(testSecret, "someone-else", time.Minute).ValidateAccessToken(token)
	assert.Error(t, err, "issuer must match")
	_, err = NewJWTHandler("another-secret-another-secret-xx", "openmdib", time.Minute).ValidateAccessToken(token)
	assert.Error(t, err, "signature must match")

	late := NewJWTHandler(testSecret, "openmdib", time.Minute)
	late.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = late.ValidateAccessToken(token)
	assert.Error(t, err, "token must expire")

	claims, err := j.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, claims.Role)
	assert.Equal(t, "nurse", claims.Subject)
}

func TestNewAuthServiceRejectsUnknownRoles(t *testing.T) {
	_, err := NewAuthService(config.AuthConfig{
		Users: []config.UserConfig{{Username: "x", Role: "root"}},
	}, zap.NewNop())
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, machine := newService(t)
	token, _, err := svc.LoginUser("nurse", "s3cret", "")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/read", svc.AuthMiddleware(), RequirePermission(PermRead), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.String(http.StatusOK, p.Name)
	})
	r.GET("/admin", svc.AuthMiddleware(), RequirePermission(PermAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
		body   string
	}{
		{name: "no token", path: "/read", want: http.StatusUnauthorized},
		{name: "bad scheme", path: "/read", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", path: "/read", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "user", path: "/read", header: "Bearer " + token, want: http.StatusOK, body: "nurse"},
		{name: "machine", path: "/read", header: "Bearer " + machine, want: http.StatusOK, body: "gateway"},
		{name: "query token", path: "/read?token=" + token, want: http.StatusOK, body: "nurse"},
		{name: "forbidden", path: "/admin", header: "Bearer " + token, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
