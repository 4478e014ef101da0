// gestion-multi-profs/internal/handlers/helpers.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// currentUserID reads the authenticated user id placed in the context by
// the auth middleware.
func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func isAdmin(c *gin.Context) bool {
	return c.GetBool("is_admin")
}

// parseTrimester validates a raw trimester value, falling back to 1.
func parseTrimester(raw string) int {
	switch strings.TrimSpace(raw) {
	case "2":
		return 2
	case "3":
		return 3
	default:
		return 1
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
