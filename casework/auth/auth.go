package auth

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type JwtManager struct {
	auth *jwtauth.JWTAuth
}

func NewJwtManager() *JwtManager {
	return &JwtManager{auth: jwtauth.New("HS256", getSecret(), nil)}
}

func (m *JwtManager) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(m.auth)
}

func (m *JwtManager) Authenticator() func(http.Handler) http.Handler {
	return jwtauth.Authenticator(m.auth)
}

const userIdKey = "user_id"

func (m *JwtManager) CreateUserJwt(userId uint) (string, error) {
	claims := map[string]interface{}{
		userIdKey: strconv.FormatUint(uint64(userId), 10),
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(12 * time.Hour),
	}
	_, token, err := m.auth.Encode(claims)
	if err != nil {
		slog.Error("error generating jwt", "error", err)
		return "", fmt.Errorf("error generating access token: %w", err)
	}
	return token, nil
}

func UserIdFromContext(r *http.Request) (uint, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, fmt.Errorf("error retrieving auth claims: %w", err)
	}

	valueUncasted, ok := claims[userIdKey]
	if !ok {
		return 0, fmt.Errorf("invalid token: unable to locate key %v in claims", userIdKey)
	}

	value, ok := valueUncasted.(string)
	if !ok {
		return 0, fmt.Errorf("invalid token: value for key %v has invalid type", userIdKey)
	}

	userId, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token: user id is not an integer: %w", err)
	}

	return uint(userId), nil
}

func getSecret() []byte {
	// This is only used for jwt secrets, if the server restarts the only issue is any
	// tokens issued before the restart (that aren't yet expired) will be invalidated.
	b := make([]byte, 16)

	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}

	return b
}
