package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type HandlerManager struct {
	takeExamHandler *TakeExamHandler
	gradingHandler  *GradingHandler
	authMiddleware  *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	return &HandlerManager{
		takeExamHandler: NewTakeExamHandler(serviceManager.TakeExam(), validator, logger),
		gradingHandler:  NewGradingHandler(serviceManager.Grading(), validator, logger),
		authMiddleware:  NewCasdoorAuthMiddleware(casdoorConfig),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Take-exam routes - all authenticated users
		takeExam := v1.Group("/take-exam")
		{
			takeExam.GET("/duration/:exam_code", hm.takeExamHandler.GetExamDuration)
			takeExam.GET("/availability/:exam_code", hm.takeExamHandler.CheckExamAvailability)
			takeExam.GET("/validate-time/:exam_code", hm.takeExamHandler.ValidateSubmissionTime)
			takeExam.GET("/check-submission/:exam_code/:user_id", hm.takeExamHandler.CheckSubmission)
			takeExam.GET("/questions/:exam_code", hm.takeExamHandler.GetQuestions)
			takeExam.POST("/submit", hm.takeExamHandler.SubmitExam)
		}

		// Grading routes - Teachers and Admins only
		grading := v1.Group("/grading")
		grading.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin))
		{
			grading.GET("/submissions/:exam_id", hm.gradingHandler.ListSubmissionsByExam)
			grading.GET("/submission/:submission_id", hm.gradingHandler.GetSubmissionForGrading)
			grading.POST("/save", hm.gradingHandler.SaveGrades)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exam-service",
		})
	})
}
