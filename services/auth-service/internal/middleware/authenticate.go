// Package middleware holds the HTTP authentication gate.
package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/token"
	"github.com/vasapolrittideah/account-api/shared/apperror"
	"github.com/vasapolrittideah/account-api/shared/response"
)

const maxCredentialBodySize = 1 << 20

var (
	ErrUnauthorizedAccess = apperror.New(apperror.KindUnauthorized, apperror.CodeUnauthorizedAccess, "Unauthorized access")
	ErrForbiddenAccess    = apperror.New(apperror.KindForbidden, apperror.CodeForbiddenAccess, "Forbidden access")

	errMissingBearerToken = errors.New("missing bearer token")
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// GateConfig holds the process-wide switches read once at startup.
type GateConfig struct {
	// RoleBasedAuth enables the allowed-roles check.
	RoleBasedAuth bool

	// AltCredentialsInBody lets trusted callers send `_id` and `role` in the
	// JSON body instead of a bearer token. No signature is checked on that path.
	AltCredentialsInBody bool
}

// Gate authenticates requests and enforces route roles.
type Gate struct {
	verifier TokenVerifier
	cfg      GateConfig
	logger   *zerolog.Logger
}

func NewGate(verifier TokenVerifier, cfg GateConfig, logger *zerolog.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// Authenticate returns a middleware admitting callers whose role is one of
// roles. With no roles every known role is allowed.
func (g *Gate) Authenticate(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := roles
	if len(allowed) == 0 {
		allowed = model.Roles()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := g.resolve(r)
			if err != nil {
				g.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
				response.WriteError(w, r, ErrUnauthorizedAccess)
				return
			}

			if g.cfg.RoleBasedAuth && !slices.Contains(allowed, principal.Role) {
				response.WriteError(w, r, ErrForbiddenAccess)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// resolve never lets a failure through as a principal. Panics while reading
// or verifying credentials are reported as errors.
func (g *Gate) resolve(r *http.Request) (principal Principal, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			principal = Principal{}
			err = fmt.Errorf("credential resolution panicked: %v", rec)
		}
	}()

	if g.cfg.AltCredentialsInBody {
		if p, ok := credentialsFromBody(r); ok {
			return p, nil
		}
	}

	tokenString, ok := bearerToken(r)
	if !ok {
		return Principal{}, errMissingBearerToken
	}

	claims, err := g.verifier.Verify(tokenString)
	if err != nil {
		return Principal{}, err
	}
	if claims == nil || claims.UserID == "" || !claims.Role.IsValid() {
		return Principal{}, token.ErrTokenMalformed
	}

	return Principal{UserID: claims.UserID, Role: claims.Role}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	tokenString = strings.TrimSpace(tokenString)
	return tokenString, tokenString != ""
}

// credentialsFromBody reads `_id` and `role` from a JSON body and restores the
// body for the next handler.
func credentialsFromBody(r *http.Request) (Principal, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return Principal{}, false
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCredentialBodySize))
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return Principal{}, false
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return Principal{}, false
	}

	userID, ok := fields["_id"].(string)
	if !ok || userID == "" {
		return Principal{}, false
	}

	rawRole, ok := fields["role"].(string)
	if !ok {
		return Principal{}, false
	}

	role, ok := model.ParseRole(rawRole)
	if !ok {
		return Principal{}, false
	}

	return Principal{UserID: userID, Role: role}, true
}
