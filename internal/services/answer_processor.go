package services

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

// AnswerResult is the per-question outcome returned to the student right
// after submitting. MCQ results carry the score, essays only a pending
// status.
type AnswerResult struct {
	QuestionID uint                `json:"question_id"`
	Type       models.QuestionType `json:"type"`
	IsCorrect  *bool               `json:"is_correct,omitempty"`
	Score      *float64            `json:"score,omitempty"`
	Status     string              `json:"status,omitempty"`
	MaxScore   int                 `json:"max_score"`
}

// AnswerProcessor grades and persists individual answers inside the
// submit transaction. MCQs are auto-graded immediately; essays are
// stored ungraded for manual review.
type AnswerProcessor struct {
	mcqGrader *MCQAnswerGrader
}

func NewAnswerProcessor(mcqGrader *MCQAnswerGrader) *AnswerProcessor {
	return &AnswerProcessor{mcqGrader: mcqGrader}
}

// ProcessMCQ grades the selected option against the question's correct
// option and writes the answer rows. A question with no correct option
// is authoring corruption and aborts the submission.
func (p *AnswerProcessor) ProcessMCQ(ctx context.Context, repo repositories.Repository, submissionID uint, question *models.Question, selectedOptionID uint) (AnswerResult, error) {
	correctOptionID, err := repo.Question().GetCorrectOptionID(ctx, nil, question.ID)
	if err != nil {
		return AnswerResult{}, err
	}
	if correctOptionID == nil {
		return AnswerResult{}, &NoCorrectOptionError{QuestionID: question.ID}
	}

	decision := p.mcqGrader.Grade(selectedOptionID, *correctOptionID, question.Marks)

	answer := &models.SubmissionAnswer{
		SubmissionID:     submissionID,
		QuestionID:       question.ID,
		SelectedOptionID: &selectedOptionID,
		Score:            &decision.Score,
		Feedback:         &decision.Feedback,
	}
	if err := repo.SubmissionAnswer().Create(ctx, nil, answer); err != nil {
		return AnswerResult{}, err
	}

	mcq := &models.MCQAnswer{
		SubmissionAnswerID: answer.ID,
		SelectedOptionID:   selectedOptionID,
	}
	if err := repo.SubmissionAnswer().CreateMCQ(ctx, nil, mcq); err != nil {
		return AnswerResult{}, err
	}

	isCorrect := decision.IsCorrect
	score := decision.Score
	return AnswerResult{
		QuestionID: question.ID,
		Type:       models.QuestionMCQ,
		IsCorrect:  &isCorrect,
		Score:      &score,
		MaxScore:   question.Marks,
	}, nil
}

// ProcessEssay stores the essay text with no score. The answer stays
// ungraded until a teacher reviews it.
func (p *AnswerProcessor) ProcessEssay(ctx context.Context, repo repositories.Repository, submissionID uint, question *models.Question, essayText string) (AnswerResult, error) {
	feedback := FeedbackPendingReview
	answer := &models.SubmissionAnswer{
		SubmissionID: submissionID,
		QuestionID:   question.ID,
		Feedback:     &feedback,
	}
	if err := repo.SubmissionAnswer().Create(ctx, nil, answer); err != nil {
		return AnswerResult{}, err
	}

	essay := &models.EssayAnswer{
		SubmissionAnswerID: answer.ID,
		EssayText:          essayText,
	}
	if err := repo.SubmissionAnswer().CreateEssay(ctx, nil, essay); err != nil {
		return AnswerResult{}, err
	}

	return AnswerResult{
		QuestionID: question.ID,
		Type:       models.QuestionEssay,
		Status:     "pending",
		MaxScore:   question.Marks,
	}, nil
}
