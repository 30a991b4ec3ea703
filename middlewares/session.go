package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "neon_session"
	sessionKey    = "sessionID"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session gives every browser a cookie backed session id. The cart and the
// last order summary are keyed by it.
func Session() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := ctx.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		ctx.Set(sessionKey, id)
		ctx.Next()
	}
}

func SessionID(ctx *gin.Context) string {
	return ctx.GetString(sessionKey)
}
