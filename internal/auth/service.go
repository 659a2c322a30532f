package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/config"
	"go.uber.org/zap"
)

type Permission string

const (
	// PermRead covers the inspection routes and the change feed.
	PermRead Permission = "mdib:read"
	// PermWrite covers state changes.
	PermWrite Permission = "mdib:write"
	// PermAdmin covers description changes.
	PermAdmin Permission = "mdib:admin"
)

const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Principal is the authenticated caller of a request.
type Principal struct {
	Name        string
	Role        string
	Machine     bool
	Permissions []Permission
}

func (p Principal) Can(required Permission) bool {
	for _, perm := range p.Permissions {
		if perm == required {
			return true
		}
	}
	return false
}

type user struct {
	passwordHash string
	role         string
}

type machineToken struct {
	name string
	role string
}

// AuthService authenticates configured users and machine tokens. Users
// receive short lived JWTs; machine tokens are presented as is.
type AuthService struct {
	jwtHandler      *JWTHandler
	passwordHasher  *PasswordHasher
	machineTokenGen *MachineTokenGenerator
	users           map[string]user
	machineTokens   map[string]machineToken
	logger          *zap.Logger
}

func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) (*AuthService, error) {
	a := &AuthService{
		jwtHandler:      NewJWTHandler(cfg.GetJWTSecret(), cfg.Issuer, cfg.AccessTokenTTL),
		passwordHasher:  NewPasswordHasher(),
		machineTokenGen: NewMachineTokenGenerator(),
		users:           make(map[string]user),
		machineTokens:   make(map[string]machineToken),
		logger:          logger,
	}
	for _, u := range cfg.Users {
		if roleToPermissions(u.Role) == nil {
			return nil, fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
		if _, dup := a.users[u.Username]; dup {
			return nil, fmt.Errorf("user %s configured twice", u.Username)
		}
		a.users[u.Username] = user{passwordHash: u.PasswordHash, role: u.Role}
	}
	for _, t := range cfg.MachineTokens {
		if roleToPermissions(t.Role) == nil {
			return nil, fmt.Errorf("machine token %s: unknown role %q", t.Name, t.Role)
		}
		a.machineTokens[t.TokenHash] = machineToken{name: t.Name, role: t.Role}
	}
	if !cfg.IsProductionReady() {
		logger.Warn("JWT secret is not production ready", zap.String("env", cfg.JWTSecretEnv))
	}
	return a, nil
}

// LoginUser checks a password and returns an access token with its expiry.
func (a *AuthService) LoginUser(username, password, ipAddress string) (string, time.Time, error) {
	u, ok := a.users[username]
	if !ok {
		a.logAuthEvent("user_login_failed", username, ipAddress, "user not found")
		return "", time.Time{}, ErrInvalidCredentials
	}

	valid, err := a.passwordHasher.VerifyPassword(password, u.passwordHash)
	if err != nil || !valid {
		reason := "invalid password"
		if err != nil {
			reason = err.Error()
		}
		a.logAuthEvent("user_login_failed", username, ipAddress, reason)
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expires, err := a.jwtHandler.GenerateAccessToken(username, u.role)
	if err != nil {
		return "", time.Time{}, err
	}
	a.logger.Info("User logged in", zap.String("username", username), zap.String("role", u.role))
	return token, expires, nil
}

// Authenticate resolves a bearer token, trying JWT first and machine
// tokens second.
func (a *AuthService) Authenticate(token, ipAddress string) (Principal, error) {
	if claims, err := a.jwtHandler.ValidateAccessToken(token); err == nil {
		return Principal{Name: claims.Username, Role: claims.Role, Permissions: roleToPermissions(claims.Role)}, nil
	}

	if a.machineTokenGen.ValidateTokenFormat(token) {
		if mt, ok := a.machineTokens[a.machineTokenGen.HashToken(token)]; ok {
			return Principal{Name: mt.name, Role: mt.role, Machine: true, Permissions: roleToPermissions(mt.role)}, nil
		}
	}

	a.logAuthEvent("token_rejected", "", ipAddress, "invalid or expired token")
	return Principal{}, fmt.Errorf("invalid or expired token")
}

func roleToPermissions(role string) []Permission {
	switch role {
	case RoleAdmin:
		return []Permission{PermRead, PermWrite, PermAdmin}
	case RoleOperator:
		return []Permission{PermRead, PermWrite}
	case RoleViewer:
		return []Permission{PermRead}
	default:
		return nil
	}
}

func (a *AuthService) logAuthEvent(eventType, subject, ip, reason string) {
	a.logger.Warn("Authentication failed",
		zap.String("event", eventType),
		zap.String("subject", subject),
		zap.String("ip", ip),
		zap.String("reason", reason))
}
