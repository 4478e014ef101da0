// gestion-multi-profs/internal/handlers/audit.go
package handlers

import (
	"log/slog"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// logChange records one business action in the audit trail. Audit is
// best-effort: a failed write is logged, never surfaced to the user.
func logChange(userID uint, action, details string, subjectID *uint) {
	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		SubjectID: subjectID,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		slog.Error("failed to write audit log", "action", action, "user_id", userID, "error", err)
		return
	}
	slog.Info("audit", "action", action, "user_id", userID, "details", details)
}
