package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/botfleet/console/internal/bots"
)

type contextKey string

const actorKey contextKey = "actor"

// Claims are the console's HMAC-signed JWT claims. The role and accessible
// bot list are minted at sign-in by the platform.
type Claims struct {
	jwt.RegisteredClaims
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	BotIDs []string `json:"bot_ids"`
}

// Auth enforces a bearer JWT on console endpoints and puts the resolved
// actor on the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := Claims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			actor := bots.Actor{
				ID:               claims.Subject,
				Email:            claims.Email,
				Role:             bots.Role(claims.Role),
				AccessibleBotIDs: claims.BotIDs,
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose actor does not hold the admin role.
// It must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "missing actor", http.StatusUnauthorized)
			return
		}
		if !actor.IsAdmin() {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithActor returns a context carrying the actor, as Auth would
// produce it.
func ContextWithActor(ctx context.Context, actor bots.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor if present.
func ActorFromContext(ctx context.Context) (bots.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(bots.Actor)
	return actor, ok
}
