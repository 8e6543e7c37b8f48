package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type TakeExamHandler struct {
	BaseHandler
	takeExamService services.TakeExamService
	validator       *validator.Validator
}

func NewTakeExamHandler(
	takeExamService services.TakeExamService,
	validator *validator.Validator,
	logger utils.Logger,
) *TakeExamHandler {
	return &TakeExamHandler{
		BaseHandler:     NewBaseHandler(logger),
		takeExamService: takeExamService,
		validator:       validator,
	}
}

// SubmitExam submits a completed exam for grading
// @Summary Submit exam
// @Description Submits exam answers; MCQs are graded immediately, essays go to manual review
// @Tags take-exam
// @Accept json
// @Produce json
// @Param submission body services.SubmitExamRequest true "Submission data"
// @Success 201 {object} services.SubmitExamResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /take-exam/submit [post]
func (h *TakeExamHandler) SubmitExam(c *gin.Context) {
	h.LogRequest(c, "Submitting exam")

	var req services.SubmitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.takeExamService.SubmitExam(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetExamDuration returns the countdown data for the exam screen
// @Summary Get exam duration
// @Description Returns total and remaining seconds for the exam window
// @Tags take-exam
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {object} services.ExamDurationResponse
// @Failure 404 {object} ErrorResponse
// @Router /take-exam/duration/{exam_code} [get]
func (h *TakeExamHandler) GetExamDuration(c *gin.Context) {
	examCode := c.Param("exam_code")
	h.LogRequest(c, "Getting exam duration", "exam_code", examCode)

	duration, err := h.takeExamService.GetExamDuration(c.Request.Context(), examCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, duration)
}

// CheckExamAvailability reports whether the exam can be taken right now
// @Summary Check exam availability
// @Description Returns not_started, available, or ended with a message
// @Tags take-exam
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {object} services.ExamAvailability
// @Failure 404 {object} ErrorResponse
// @Router /take-exam/availability/{exam_code} [get]
func (h *TakeExamHandler) CheckExamAvailability(c *gin.Context) {
	examCode := c.Param("exam_code")
	h.LogRequest(c, "Checking exam availability", "exam_code", examCode)

	availability, err := h.takeExamService.CheckExamAvailability(c.Request.Context(), examCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

// CheckSubmission reports whether a student already submitted this exam
// @Summary Check submission
// @Description Returns whether the student has already submitted
// @Tags take-exam
// @Produce json
// @Param exam_code path string true "Exam code"
// @Param user_id path uint true "Student ID"
// @Success 200 {object} services.CheckSubmissionResponse
// @Failure 404 {object} ErrorResponse
// @Router /take-exam/check-submission/{exam_code}/{user_id} [get]
func (h *TakeExamHandler) CheckSubmission(c *gin.Context) {
	examCode := c.Param("exam_code")
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	h.LogRequest(c, "Checking submission", "exam_code", examCode, "user_id", userID)

	result, err := h.takeExamService.CheckIfStudentSubmitted(c.Request.Context(), examCode, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetQuestions returns the exam questions for a student taking the exam
// @Summary Get exam questions
// @Description Returns questions and options without correct answer flags
// @Tags take-exam
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {object} services.ExamQuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /take-exam/questions/{exam_code} [get]
func (h *TakeExamHandler) GetQuestions(c *gin.Context) {
	examCode := c.Param("exam_code")
	h.LogRequest(c, "Getting exam questions", "exam_code", examCode)

	questions, err := h.takeExamService.GetQuestionsByExamCode(c.Request.Context(), examCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// ValidateSubmissionTime checks the exam window without submitting
// @Summary Validate submission time
// @Description Rejects when the exam has not started or has already ended
// @Tags take-exam
// @Produce json
// @Param exam_code path string true "Exam code"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /take-exam/validate-time/{exam_code} [get]
func (h *TakeExamHandler) ValidateSubmissionTime(c *gin.Context) {
	examCode := c.Param("exam_code")
	h.LogRequest(c, "Validating submission time", "exam_code", examCode)

	if err := h.takeExamService.ValidateSubmissionTime(c.Request.Context(), examCode); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Submission window is open"})
}
