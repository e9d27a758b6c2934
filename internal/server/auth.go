package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ButyrinIA/blogapi/internal/graphql"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	codeBadRequest = "BAD_REQUEST"
	codeInternal   = "INTERNAL"
)

var errEmptyToken = errors.New("empty token")

// Authenticator выпускает и проверяет HS256-токены с claim user_id
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (a *Authenticator) GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     a.now().Add(a.ttl).Unix(),
	})
	return token.SignedString(a.secret)
}

func (a *Authenticator) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errEmptyToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token has no user_id")
	}
	return userID, nil
}

// middleware кладет пользователя из Bearer-токена в контекст. Запросы без токена
// или с негодным токеном проходят анонимно: мутации отклонит резолвер, чтение остается открытым.
func (a *Authenticator) middleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := a.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Debug("Токен отклонен, запрос обрабатывается анонимно", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(graphql.WithUser(r.Context(), userID)))
	})
}

func (a *Authenticator) tokenHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeJSONError(w, http.StatusBadRequest, codeBadRequest, "user is required")
		return
	}

	token, err := a.GenerateToken(userID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, codeInternal, "failed to generate token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
