package auth

import (
	"crypto/sha256"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const bearerPrefix = "Bearer "

// Auth проверяет общий API-токен по bcrypt-хешу из конфигурации.
// Пустой хеш отключает проверку.
type Auth struct {
	api  huma.API
	hash []byte
	log  *slog.Logger

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

func New(api huma.API, tokenHash string, log *slog.Logger) *Auth {
	return &Auth{
		api:      api,
		hash:     []byte(tokenHash),
		log:      log.With("component", "auth_middleware"),
		verified: make(map[[sha256.Size]byte]struct{}),
	}
}

// Enabled сообщает, включена ли проверка токена
func (a *Auth) Enabled() bool {
	return len(a.hash) > 0
}

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !a.Enabled() {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || token == "" {
			a.log.Warn("missing bearer token", "path", ctx.URL().Path)
			a.unauthorized(ctx)
			return
		}

		if !a.verify(token) {
			a.log.Warn("invalid bearer token", "path", ctx.URL().Path)
			a.unauthorized(ctx)
			return
		}

		next(ctx)
	}
}

func (a *Auth) verify(token string) bool {
	digest := sha256.Sum256([]byte(token))

	a.mu.RLock()
	_, ok := a.verified[digest]
	a.mu.RUnlock()
	if ok {
		return true
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(token)); err != nil {
		return false
	}

	a.mu.Lock()
	a.verified[digest] = struct{}{}
	a.mu.Unlock()
	return true
}

func (a *Auth) unauthorized(ctx huma.Context) {
	if err := huma.WriteErr(a.api, ctx, http.StatusUnauthorized, "Unauthorized"); err != nil {
		a.log.Error("write unauthorized response", "error", err)
	}
}
