package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	validator      *validator.Validator
}

func NewGradingHandler(
	gradingService services.GradingService,
	validator *validator.Validator,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		validator:      validator,
	}
}

// ListSubmissionsByExam returns the submissions overview for an exam
// @Summary List submissions for an exam
// @Description Returns one row per submission with student identity and grading state, filterable by status
// @Tags grading
// @Produce json
// @Param exam_id path uint true "Exam ID"
// @Param status query string false "Filter by status" Enums(pending, graded)
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.ExamSubmissionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /grading/submissions/{exam_id} [get]
func (h *GradingHandler) ListSubmissionsByExam(c *gin.Context) {
	examID := h.parseIDParam(c, "exam_id")
	if examID == 0 {
		return
	}

	h.LogRequest(c, "Listing submissions for exam", "exam_id", examID)

	opts := services.SubmissionListOptions{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.SubmissionStatus(raw)
		if status != models.SubmissionPending && status != models.SubmissionGraded {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid status filter",
				Details: raw,
			})
			return
		}
		opts.Status = &status
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		opts.Offset = v
	}

	result, err := h.gradingService.ListSubmissionsByExam(c.Request.Context(), examID, opts)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSubmissionForGrading returns a submission prepared for manual grading
// @Summary Get submission for grading
// @Description Returns the submission with student info, questions, correct options, and answers
// @Tags grading
// @Produce json
// @Param submission_id path uint true "Submission ID"
// @Success 200 {object} services.SubmissionForGradingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /grading/submission/{submission_id} [get]
func (h *GradingHandler) GetSubmissionForGrading(c *gin.Context) {
	submissionID := h.parseIDParam(c, "submission_id")
	if submissionID == 0 {
		return
	}

	h.LogRequest(c, "Getting submission for grading", "submission_id", submissionID)

	submission, err := h.gradingService.GetSubmissionForGrading(c.Request.Context(), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// SaveGrades records manual essay grades and finalizes the submission
// @Summary Save grades
// @Description Saves essay grades and the final score, marking the submission graded
// @Tags grading
// @Accept json
// @Produce json
// @Param grades body services.SaveGradesRequest true "Grading data"
// @Success 200 {object} services.SaveGradesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /grading/save [post]
func (h *GradingHandler) SaveGrades(c *gin.Context) {
	h.LogRequest(c, "Saving grades")

	var req services.SaveGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	gradedBy, _ := GetUserIDFromContext(c)

	result, err := h.gradingService.SaveGrades(c.Request.Context(), req, gradedBy)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
