// gestion-multi-profs/internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/alibelharet/gestion-multi-profs/internal/handlers"
	"github.com/alibelharet/gestion-multi-profs/internal/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.POST("/api/auth/login", handlers.LoginHandler)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/auth/logout", handlers.LogoutHandler)

		api.GET("/students", handlers.ListStudentsHandler)
		api.GET("/students/:id", handlers.GetStudentHandler)
		api.POST("/students", middleware.WriteRequired(), handlers.CreateStudentHandler)
		api.PUT("/students/:id", middleware.WriteRequired(), handlers.UpdateStudentHandler)
		api.DELETE("/students/:id", middleware.WriteRequired(), handlers.DeleteStudentHandler)

		api.GET("/subjects", handlers.ListSubjectsHandler)
		api.POST("/subjects", middleware.WriteRequired(), handlers.CreateSubjectHandler)
		api.DELETE("/subjects/:id", middleware.WriteRequired(), handlers.DeleteSubjectHandler)

		api.GET("/appreciations", handlers.ListAppreciationsHandler)
		api.PUT("/appreciations", middleware.WriteRequired(), handlers.ReplaceAppreciationsHandler)

		api.GET("/school-years", handlers.ListSchoolYearsHandler)

		api.GET("/grades", handlers.ListGradesHandler)
		api.POST("/grades/save-all", middleware.WriteRequired(), handlers.SaveAllGradesHandler)

		imports := api.Group("/imports")
		imports.Use(middleware.WriteRequired())
		{
			imports.POST("/excel", handlers.ImportExcelHandler)
			imports.POST("/excel/apply", handlers.ImportApplyHandler)
			imports.POST("/excel/cancel/:token", handlers.ImportCancelHandler)
			imports.POST("/bulletin", handlers.FillBulletinHandler)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("/school-years/:id/activate", handlers.ActivateSchoolYearHandler)
			admin.GET("/assignments", handlers.ListAssignmentsHandler)
			admin.POST("/assignments", handlers.CreateAssignmentHandler)
			admin.DELETE("/assignments/:id", handlers.DeleteAssignmentHandler)
		}
	}
}
