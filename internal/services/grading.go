package services

// Feedback strings stored on submission answers and returned to students.
const (
	FeedbackCorrect       = "Correct"
	FeedbackIncorrect     = "Incorrect"
	FeedbackPendingReview = "Pending teacher review"
)

// GradeDecision is the outcome of grading one answer. It carries no
// persistence concerns so it can be unit tested in isolation.
type GradeDecision struct {
	IsCorrect bool
	Score     float64
	Feedback  string
}

// MCQAnswerGrader grades multiple choice answers by strict option
// identity. Full marks or nothing, no partial credit.
type MCQAnswerGrader struct{}

func NewMCQAnswerGrader() *MCQAnswerGrader {
	return &MCQAnswerGrader{}
}

func (g *MCQAnswerGrader) Grade(selectedOptionID, correctOptionID uint, marks int) GradeDecision {
	if selectedOptionID == correctOptionID {
		return GradeDecision{
			IsCorrect: true,
			Score:     float64(marks),
			Feedback:  FeedbackCorrect,
		}
	}
	return GradeDecision{
		IsCorrect: false,
		Score:     0,
		Feedback:  FeedbackIncorrect,
	}
}

// GradeCalculator maps a percentage score to a letter grade.
type GradeCalculator struct{}

func NewGradeCalculator() *GradeCalculator {
	return &GradeCalculator{}
}

// Calculate returns the letter grade for score out of maxScore.
// A zero maxScore means the exam has no gradable marks, so "N/A".
func (c *GradeCalculator) Calculate(score float64, maxScore int) string {
	if maxScore == 0 {
		return "N/A"
	}

	percentage := score / float64(maxScore) * 100

	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}
