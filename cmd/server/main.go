// gestion-multi-profs/cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/internal/handlers"
	"github.com/alibelharet/gestion-multi-profs/internal/routes"
	"github.com/alibelharet/gestion-multi-profs/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on environment variables")
	}

	config.Load()
	config.ConnectDB()
	config.ConnectRedis()

	err := config.DB.AutoMigrate(
		&models.User{},
		&models.SchoolYear{},
		&models.Subject{},
		&models.Student{},
		&models.GradeRecord{},
		&models.Appreciation{},
		&models.TeacherAssignment{},
		&models.AuditLog{},
	)
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	if err := handlers.InitStaging(config.ImportTmpDir); err != nil {
		slog.Error("failed to prepare import staging directory", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	r.MaxMultipartMemory = 16 << 20

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
