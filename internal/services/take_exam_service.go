package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type takeExamService struct {
	repo            repositories.Repository
	cacheManager    *cache.CacheManager
	logger          utils.Logger
	validator       *validator.Validator
	timeConverter   *TimeConverter
	timeValidator   *SubmissionTimeValidator
	availability    *ExamAvailabilityChecker
	processor       *AnswerProcessor
	gradeCalculator *GradeCalculator
	publisher       events.EventPublisher
}

// NewTakeExamService wires the student-facing exam flow.
func NewTakeExamService(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	logger utils.Logger,
	v *validator.Validator,
	timeConverter *TimeConverter,
	publisher events.EventPublisher,
) TakeExamService {
	timeValidator := NewSubmissionTimeValidator(timeConverter)
	return &takeExamService{
		repo:            repo,
		cacheManager:    cacheManager,
		logger:          logger,
		validator:       v,
		timeConverter:   timeConverter,
		timeValidator:   timeValidator,
		availability:    NewExamAvailabilityChecker(timeValidator),
		processor:       NewAnswerProcessor(NewMCQAnswerGrader()),
		gradeCalculator: NewGradeCalculator(),
		publisher:       publisher,
	}
}

func (s *takeExamService) getExamByCode(ctx context.Context, code string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByCode(ctx, nil, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &ExamNotFoundError{Code: code}
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

// SubmitExam validates the time window, grades every answer, and records
// the submission in one transaction. MCQs are graded immediately; if any
// essay is present the submission stays pending for manual review.
func (s *takeExamService) SubmitExam(ctx context.Context, req SubmitExamRequest) (*SubmitExamResponse, error) {
	logger := utils.LoggerFromContext(ctx, s.logger)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.getExamByCode(ctx, req.ExamCode)
	if err != nil {
		return nil, err
	}

	now := s.timeConverter.Now()
	if err := s.timeValidator.Validate(exam, now); err != nil {
		return nil, err
	}

	// Pre-check before opening the transaction. The unique index on
	// (exam_id, user_id) still catches concurrent submits below.
	exists, err := s.repo.Submission().Exists(ctx, nil, exam.ID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}
	if exists {
		return nil, &AlreadySubmittedError{ExamCode: req.ExamCode, UserID: req.UserID}
	}

	var (
		submissionID uint
		totalScore   float64
		maxScore     int
		hasEssay     bool
		results      []AnswerResult
	)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		submission := &models.Submission{
			ExamID:         exam.ID,
			UserID:         req.UserID,
			SubmissionDate: now.Format(dateLayout),
			SubmissionTime: now.Format(timeLayout),
			Status:         models.SubmissionPending,
			SessionData:    datatypes.JSON(req.SessionData),
		}
		if err := txRepo.Submission().Create(ctx, nil, submission); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return &AlreadySubmittedError{ExamCode: req.ExamCode, UserID: req.UserID}
			}
			return fmt.Errorf("failed to create submission: %w", err)
		}
		submissionID = submission.ID

		for _, answer := range req.Answers {
			question, err := txRepo.Question().GetByIDForExam(ctx, nil, answer.QuestionID, exam.ID)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return &QuestionNotFoundError{QuestionID: answer.QuestionID}
				}
				return fmt.Errorf("failed to get question %d: %w", answer.QuestionID, err)
			}

			maxScore += question.Marks

			var result AnswerResult
			switch question.Type {
			case models.QuestionMCQ:
				selectedOptionID, err := parseMCQOptionID(answer.Answer)
				if err != nil {
					return NewBusinessRuleError("mcq_answer_format",
						fmt.Sprintf("Invalid answer for question %d: expected an option id", question.ID))
				}
				result, err = s.processor.ProcessMCQ(ctx, txRepo, submissionID, question, selectedOptionID)
				if err != nil {
					return err
				}
				totalScore += *result.Score
			case models.QuestionEssay:
				essayText, err := parseEssayText(answer.Answer)
				if err != nil {
					return NewBusinessRuleError("essay_answer_format",
						fmt.Sprintf("Invalid answer for question %d: expected essay text", question.ID))
				}
				result, err = s.processor.ProcessEssay(ctx, txRepo, submissionID, question, essayText)
				if err != nil {
					return err
				}
				hasEssay = true
			default:
				return NewBusinessRuleError("question_type",
					fmt.Sprintf("Unsupported question type for question %d", question.ID))
			}

			results = append(results, result)
		}

		status := models.SubmissionGraded
		grade := s.gradeCalculator.Calculate(totalScore, maxScore)
		if hasEssay {
			status = models.SubmissionPending
			grade = models.GradePending
		}

		return txRepo.Submission().UpdateFinal(ctx, nil, submissionID, totalScore, status, grade)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cacheManager.InvalidateSubmissionExists(ctx, exam.ID, req.UserID); err != nil {
		logger.Warn("failed to invalidate submission cache",
			"exam_id", exam.ID, "user_id", req.UserID, "error", err)
	}

	status := string(models.SubmissionGraded)
	grade := s.gradeCalculator.Calculate(totalScore, maxScore)
	message := "Exam submitted and graded successfully."
	if hasEssay {
		status = string(models.SubmissionPending)
		grade = models.GradePending
		message = "Exam submitted successfully. Essays are pending teacher review."
	}

	event := events.NewEvent(events.EventSubmissionSubmitted, events.SubmissionSubmittedEvent{
		SubmissionID: submissionID,
		ExamID:       exam.ID,
		ExamCode:     exam.Code,
		UserID:       req.UserID,
		Status:       status,
		TotalScore:   totalScore,
		MaxScore:     maxScore,
		Grade:        grade,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish submission event",
			"submission_id", submissionID, "error", err)
	}

	logger.Info("exam submitted",
		"submission_id", submissionID,
		"exam_code", exam.Code,
		"user_id", req.UserID,
		"status", status,
		"total_score", totalScore,
		"max_score", maxScore)

	return &SubmitExamResponse{
		SubmissionID: submissionID,
		Status:       status,
		TotalScore:   totalScore,
		MaxScore:     maxScore,
		Grade:        grade,
		Message:      message,
		Results:      results,
	}, nil
}

// ValidateSubmissionTime checks the window without submitting anything.
func (s *takeExamService) ValidateSubmissionTime(ctx context.Context, examCode string) error {
	exam, err := s.getExamByCode(ctx, examCode)
	if err != nil {
		return err
	}
	return s.timeValidator.Validate(exam, s.timeConverter.Now())
}

func (s *takeExamService) CheckIfStudentSubmitted(ctx context.Context, examCode string, userID uint) (*CheckSubmissionResponse, error) {
	exam, err := s.getExamByCode(ctx, examCode)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Submission().Exists(ctx, nil, exam.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}

	return &CheckSubmissionResponse{Submitted: exists}, nil
}

func (s *takeExamService) GetExamDuration(ctx context.Context, examCode string) (*ExamDurationResponse, error) {
	exam, err := s.getExamByCode(ctx, examCode)
	if err != nil {
		return nil, err
	}

	window, err := s.timeValidator.WindowFor(exam)
	if err != nil {
		return nil, err
	}

	return &ExamDurationResponse{
		DurationSeconds:  window.DurationSeconds(),
		RemainingSeconds: window.RemainingSeconds(s.timeConverter.Now()),
		Date:             exam.Date,
		StartTime:        exam.StartTime,
		EndTime:          exam.EndTime,
	}, nil
}

func (s *takeExamService) CheckExamAvailability(ctx context.Context, examCode string) (*ExamAvailability, error) {
	exam, err := s.getExamByCode(ctx, examCode)
	if err != nil {
		return nil, err
	}

	availability, err := s.availability.Check(exam, s.timeConverter.Now())
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

func (s *takeExamService) GetQuestionsByExamCode(ctx context.Context, examCode string) (*ExamQuestionsResponse, error) {
	exam, err := s.getExamByCode(ctx, examCode)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().GetByExam(ctx, nil, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		view := QuestionView{
			ID:    q.ID,
			Text:  q.Text,
			Type:  string(q.Type),
			Marks: q.Marks,
		}
		if q.Type == models.QuestionMCQ {
			for _, opt := range q.Options {
				view.Options = append(view.Options, OptionView{ID: opt.ID, Text: opt.Text})
			}
		}
		views = append(views, view)
	}

	return &ExamQuestionsResponse{
		ExamID:    exam.ID,
		ExamCode:  exam.Code,
		Title:     exam.Title,
		Questions: views,
	}, nil
}

// parseMCQOptionID accepts a JSON number or a numeric string; clients
// have sent both forms.
func parseMCQOptionID(raw json.RawMessage) (uint, error) {
	var asNumber uint
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return 0, fmt.Errorf("answer is neither a number nor a string")
	}

	id, err := strconv.ParseUint(strings.TrimSpace(asString), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("answer string is not a valid option id")
	}
	return uint(id), nil
}

func parseEssayText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("answer is not a string")
	}
	return text, nil
}
