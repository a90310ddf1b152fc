package stub

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// tokenSigner выпускает и проверяет bearer-токены вида
// "<userID>.<hex-подпись HMAC-SHA256>".
type tokenSigner struct {
	secretKey []byte
}

func newTokenSigner(secret string) *tokenSigner {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &tokenSigner{
		secretKey: key,
	}
}

func (t *tokenSigner) sign(userID string) string {
	mac := hmac.New(sha256.New, t.secretKey)
	mac.Write([]byte(userID))
	signature := mac.Sum(nil)
	return userID + "." + hex.EncodeToString(signature)
}

func (t *tokenSigner) parse(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", false
	}

	mac := hmac.New(sha256.New, t.secretKey)
	mac.Write([]byte(parts[0]))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return "", false
	}
	return parts[0], true
}

// middleware проверяет заголовок Authorization и добавляет идентификатор
// пользователя в контекст запроса.
func (t *tokenSigner) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, ok := t.parse(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
