// gestion-multi-profs/internal/middleware/auth_middleware.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// CachedUserData is the identity snapshot cached per user in Redis so
// request authorization does not hit the database every time.
type CachedUserData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	CanWrite bool   `json:"can_write"`
}

const userCacheTTL = 15 * time.Minute

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:data", userID)
}

// AuthMiddleware validates the JWT (cookie first, Authorization header as
// fallback) and loads the caller's identity, from the Redis cache when
// warm, from the database otherwise.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "Jeton d'authentification manquant")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				abortUnauthorized(c, "Format d'en-tete Authorization invalide")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			abortUnauthorized(c, "Jeton invalide ou expire")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Jeton invalide")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "Jeton invalide")
			return
		}
		userID := uint(userIDFloat)

		if config.RDB != nil {
			if cached, err := config.RDB.Get(config.Ctx, userCacheKey(userID)).Result(); err == nil {
				var data CachedUserData
				if json.Unmarshal([]byte(cached), &data) == nil {
					setIdentity(c, &data)
					return
				}
			}
		}

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			abortUnauthorized(c, "Compte introuvable")
			return
		}
		data := CachedUserData{
			UserID:   user.ID,
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
			CanWrite: user.CanWrite == nil || *user.CanWrite,
		}

		if config.RDB != nil {
			if payload, err := json.Marshal(data); err == nil {
				if err := config.RDB.Set(config.Ctx, userCacheKey(userID), payload, userCacheTTL).Err(); err != nil {
					slog.Warn("failed to cache user identity", "user_id", userID, "error", err)
				}
			}
		}
		setIdentity(c, &data)
	}
}

// WriteRequired rejects read-only accounts on mutating endpoints.
func WriteRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("can_write") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Compte en lecture seule."})
			return
		}
		c.Next()
	}
}

// AdminRequired restricts an endpoint to administrator accounts.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acces reserve a l'administrateur."})
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, data *CachedUserData) {
	c.Set("user_id", data.UserID)
	c.Set("username", data.Username)
	c.Set("is_admin", data.IsAdmin)
	c.Set("can_write", data.CanWrite)
	c.Next()
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
