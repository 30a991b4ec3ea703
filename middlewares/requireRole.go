package middlewares

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// RequireRole lets through tokens whose "role" claim is one of roles and
// records who is acting. It must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ctx.Value("user").(jwt.MapClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid user claims"})
			return
		}
		role, _ := claims["role"].(string)
		if !slices.Contains(roles, role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient role for this operation"})
			return
		}

		actor := role
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			actor = role + ":" + sub
		} else if id, ok := claims["user_id"]; ok {
			actor = fmt.Sprintf("%s:%v", role, id)
		}
		ctx.Set(actorKey, actor)
		ctx.Next()
	}
}

// Actor names the authenticated caller, or "" outside RequireRole.
func Actor(ctx *gin.Context) string {
	return ctx.GetString(actorKey)
}
