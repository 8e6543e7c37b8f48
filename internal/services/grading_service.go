package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type gradingService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

// NewGradingService wires the teacher-facing manual grading flow.
func NewGradingService(
	repo repositories.Repository,
	logger utils.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
) GradingService {
	return &gradingService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// ListSubmissionsByExam returns the submissions overview the grading screen
// starts from: one row per submission with the student's identity and the
// grading state so far.
func (s *gradingService) ListSubmissionsByExam(ctx context.Context, examID uint, opts SubmissionListOptions) (*ExamSubmissionsResponse, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &ExamIDNotFoundError{ExamID: examID}
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	filters := repositories.SubmissionFilters{
		ExamID:    &exam.ID,
		Status:    opts.Status,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
	}
	submissions, total, err := s.repo.Submission().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	// One lookup per distinct student; a submission whose user row was
	// deleted keeps its place in the list with blank identity fields.
	students := make(map[uint]*models.User)
	items := make([]SubmissionListItem, 0, len(submissions))
	for _, submission := range submissions {
		item := SubmissionListItem{
			SubmissionID:    submission.ID,
			StudentID:       submission.UserID,
			Status:          string(submission.Status),
			SubmissionDate:  submission.SubmissionDate,
			SubmissionTime:  submission.SubmissionTime,
			Score:           submission.Score,
			ScoreGrade:      submission.ScoreGrade,
			OverallFeedback: submission.OverallFeedback,
		}

		student, seen := students[submission.UserID]
		if !seen {
			student, err = s.repo.User().GetByID(ctx, nil, submission.UserID)
			if err != nil && !repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("failed to get student %d: %w", submission.UserID, err)
			}
			students[submission.UserID] = student
		}
		if student != nil {
			item.StudentName = student.FullName
			item.StudentEmail = student.Email
		}

		items = append(items, item)
	}

	return &ExamSubmissionsResponse{
		ExamID:      exam.ID,
		ExamCode:    exam.Code,
		Total:       total,
		Submissions: items,
	}, nil
}

// GetSubmissionForGrading assembles everything the grading screen needs:
// student identity, the exam, every question with its options (correct
// flags included, this view is teacher-only), and the student's answers.
func (s *gradingService) GetSubmissionForGrading(ctx context.Context, submissionID uint) (*SubmissionForGradingResponse, error) {
	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &SubmissionNotFoundError{SubmissionID: submissionID}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	questions, err := s.repo.Question().GetByExam(ctx, nil, submission.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	currentScore, err := s.repo.SubmissionAnswer().SumScores(ctx, nil, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum answer scores: %w", err)
	}

	answersByQuestion := make(map[uint]*models.SubmissionAnswer, len(submission.Answers))
	for i := range submission.Answers {
		answer := &submission.Answers[i]
		answersByQuestion[answer.QuestionID] = answer
	}

	questionViews := make([]GradingQuestionView, 0, len(questions))
	for _, q := range questions {
		view := GradingQuestionView{
			ID:     q.ID,
			Text:   q.Text,
			Type:   string(q.Type),
			Marks:  q.Marks,
			Rubric: q.Rubric,
		}
		if q.Type == models.QuestionMCQ {
			for _, opt := range q.Options {
				view.Options = append(view.Options, GradingOptionView{
					ID:        opt.ID,
					Text:      opt.Text,
					IsCorrect: opt.IsCorrect,
				})
			}
		}
		if answer, ok := answersByQuestion[q.ID]; ok {
			studentAnswer := &GradingAnswerView{
				SubmissionAnswerID: answer.ID,
				SelectedOptionID:   answer.SelectedOptionID,
				Score:              answer.Score,
				Feedback:           answer.Feedback,
			}
			if answer.Essay != nil {
				studentAnswer.EssayText = &answer.Essay.EssayText
			}
			view.StudentAnswer = studentAnswer
		}
		questionViews = append(questionViews, view)
	}

	return &SubmissionForGradingResponse{
		Submission: GradingSubmissionView{
			ID:              submission.ID,
			StudentID:       submission.UserID,
			StudentName:     submission.User.FullName,
			StudentEmail:    submission.User.Email,
			SubmittedAt:     fmt.Sprintf("%s %s", submission.SubmissionDate, submission.SubmissionTime),
			CurrentScore:    currentScore,
			ScoreGrade:      submission.ScoreGrade,
			OverallFeedback: submission.OverallFeedback,
		},
		Exam: GradingExamView{
			ID:        submission.Exam.ID,
			Title:     submission.Exam.Title,
			Date:      submission.Exam.Date,
			StartTime: submission.Exam.StartTime,
			EndTime:   submission.Exam.EndTime,
		},
		Questions: questionViews,
	}, nil
}

// SaveGrades records manual essay grades and the final score in one
// transaction, then marks the submission graded.
func (s *gradingService) SaveGrades(ctx context.Context, req SaveGradesRequest, gradedBy string) (*SaveGradesResponse, error) {
	logger := utils.LoggerFromContext(ctx, s.logger)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Submission().GetByID(ctx, nil, req.SubmissionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &SubmissionNotFoundError{SubmissionID: req.SubmissionID}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, essayGrade := range req.EssayGrades {
			err := txRepo.SubmissionAnswer().UpdateGrade(ctx, nil, essayGrade.SubmissionAnswerID, essayGrade.Score, essayGrade.Feedback)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return NewBusinessRuleError("essay_grade",
						fmt.Sprintf("Answer %d not found for this submission", essayGrade.SubmissionAnswerID))
				}
				return fmt.Errorf("failed to update essay grade: %w", err)
			}
		}

		err := txRepo.Submission().UpdateGrades(ctx, nil, req.SubmissionID, req.TotalScore, req.ScoreGrade, req.OverallFeedback)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return &SubmissionNotFoundError{SubmissionID: req.SubmissionID}
			}
			return fmt.Errorf("failed to update submission grades: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID: req.SubmissionID,
		TotalScore:   req.TotalScore,
		Grade:        req.ScoreGrade,
		GradedBy:     gradedBy,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish grading event",
			"submission_id", req.SubmissionID, "error", err)
	}

	logger.Info("grades saved",
		"submission_id", req.SubmissionID,
		"total_score", req.TotalScore,
		"graded_by", gradedBy)

	return &SaveGradesResponse{
		Success: true,
		Message: "Grades saved successfully",
	}, nil
}
