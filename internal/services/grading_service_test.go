package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

type gradingFixture struct {
	db        *gorm.DB
	repo      repositories.Repository
	service   GradingService
	takeExam  TakeExamService
	publisher *events.MockEventPublisher
}

func setupGrading(t *testing.T) *gradingFixture {
	t.Helper()

	db := newTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	v := validator.New()

	fixed := at(t, "2025-03-10 10:00:00")
	timeConverter := NewTimeConverter(8 * 3600).WithClock(func() time.Time { return fixed })

	return &gradingFixture{
		db:        db,
		repo:      repo,
		service:   NewGradingService(repo, testLogger(), v, publisher),
		takeExam:  NewTakeExamService(repo, cache.NewCacheManager(nil), testLogger(), v, timeConverter, publisher),
		publisher: publisher,
	}
}

// submitWithEssay seeds a student, an exam with two MCQs and one essay,
// and submits answers so the submission sits in pending.
func submitWithEssay(t *testing.T, f *gradingFixture) *SubmitExamResponse {
	t.Helper()

	student := &models.User{FullName: "Linh Tran", Email: "linh.tran@example.com"}
	if err := f.db.Create(student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}

	exam, questionIDs, correctIDs := seedExam(t, f.repo, "MATH101")
	essayID := seedEssayQuestion(t, f.repo, exam.ID, 10)

	resp, err := f.takeExam.SubmitExam(context.Background(), SubmitExamRequest{
		ExamCode: "MATH101",
		UserID:   student.ID,
		Answers: []SubmitAnswerRequest{
			{QuestionID: questionIDs[0], Answer: optionAnswer(correctIDs[0])},
			{QuestionID: questionIDs[1], Answer: optionAnswer(correctIDs[0])},
			{QuestionID: essayID, Answer: []byte(`"My reasoning."`)},
		},
	})
	if err != nil {
		t.Fatalf("SubmitExam failed: %v", err)
	}
	return resp
}

func TestListSubmissionsByExam(t *testing.T) {
	f := setupGrading(t)
	ctx := context.Background()

	first := &models.User{FullName: "Linh Tran", Email: "linh.tran@example.com"}
	second := &models.User{FullName: "Minh Pham", Email: "minh.pham@example.com"}
	for _, student := range []*models.User{first, second} {
		if err := f.db.Create(student).Error; err != nil {
			t.Fatalf("failed to create student: %v", err)
		}
	}

	exam, questionIDs, correctIDs := seedExam(t, f.repo, "MATH101")
	essayID := seedEssayQuestion(t, f.repo, exam.ID, 10)

	withEssay, err := f.takeExam.SubmitExam(ctx, SubmitExamRequest{
		ExamCode: "MATH101",
		UserID:   first.ID,
		Answers: []SubmitAnswerRequest{
			{QuestionID: questionIDs[0], Answer: optionAnswer(correctIDs[0])},
			{QuestionID: questionIDs[1], Answer: optionAnswer(correctIDs[1])},
			{QuestionID: essayID, Answer: []byte(`"My reasoning."`)},
		},
	})
	if err != nil {
		t.Fatalf("first SubmitExam failed: %v", err)
	}

	mcqOnly, err := f.takeExam.SubmitExam(ctx, SubmitExamRequest{
		ExamCode: "MATH101",
		UserID:   second.ID,
		Answers: []SubmitAnswerRequest{
			{QuestionID: questionIDs[0], Answer: optionAnswer(correctIDs[0])},
			{QuestionID: questionIDs[1], Answer: optionAnswer(correctIDs[1])},
		},
	})
	if err != nil {
		t.Fatalf("second SubmitExam failed: %v", err)
	}

	resp, err := f.service.ListSubmissionsByExam(ctx, exam.ID, SubmissionListOptions{})
	if err != nil {
		t.Fatalf("ListSubmissionsByExam returned error: %v", err)
	}

	if resp.ExamID != exam.ID || resp.ExamCode != "MATH101" {
		t.Errorf("exam fields = %+v", resp)
	}
	if resp.Total != 2 || len(resp.Submissions) != 2 {
		t.Fatalf("got total %d with %d rows, want 2/2", resp.Total, len(resp.Submissions))
	}

	rows := make(map[uint]SubmissionListItem, len(resp.Submissions))
	for _, row := range resp.Submissions {
		rows[row.SubmissionID] = row
	}

	pendingRow, ok := rows[withEssay.SubmissionID]
	if !ok {
		t.Fatalf("submission %d missing from list", withEssay.SubmissionID)
	}
	if pendingRow.Status != "pending" {
		t.Errorf("Status = %q, want pending", pendingRow.Status)
	}
	if pendingRow.StudentName != "Linh Tran" || pendingRow.StudentEmail != "linh.tran@example.com" {
		t.Errorf("student fields = %+v", pendingRow)
	}
	if pendingRow.SubmissionDate != "2025-03-10" || pendingRow.SubmissionTime != "10:00:00" {
		t.Errorf("submitted at = %s %s", pendingRow.SubmissionDate, pendingRow.SubmissionTime)
	}

	gradedRow, ok := rows[mcqOnly.SubmissionID]
	if !ok {
		t.Fatalf("submission %d missing from list", mcqOnly.SubmissionID)
	}
	if gradedRow.Status != "graded" {
		t.Errorf("Status = %q, want graded", gradedRow.Status)
	}
	if gradedRow.StudentName != "Minh Pham" {
		t.Errorf("StudentName = %q", gradedRow.StudentName)
	}
	if gradedRow.Score != mcqOnly.TotalScore {
		t.Errorf("Score = %v, want %v", gradedRow.Score, mcqOnly.TotalScore)
	}
	if gradedRow.ScoreGrade == nil || *gradedRow.ScoreGrade != mcqOnly.Grade {
		t.Errorf("ScoreGrade = %v, want %q", gradedRow.ScoreGrade, mcqOnly.Grade)
	}

	pending := models.SubmissionPending
	filtered, err := f.service.ListSubmissionsByExam(ctx, exam.ID, SubmissionListOptions{Status: &pending})
	if err != nil {
		t.Fatalf("filtered ListSubmissionsByExam returned error: %v", err)
	}
	if filtered.Total != 1 || len(filtered.Submissions) != 1 {
		t.Fatalf("got total %d with %d rows, want 1/1", filtered.Total, len(filtered.Submissions))
	}
	if filtered.Submissions[0].SubmissionID != withEssay.SubmissionID {
		t.Errorf("filtered row = %+v, want submission %d", filtered.Submissions[0], withEssay.SubmissionID)
	}

	paged, err := f.service.ListSubmissionsByExam(ctx, exam.ID, SubmissionListOptions{Limit: 1})
	if err != nil {
		t.Fatalf("paged ListSubmissionsByExam returned error: %v", err)
	}
	if paged.Total != 2 || len(paged.Submissions) != 1 {
		t.Errorf("got total %d with %d rows, want total 2 with 1 row", paged.Total, len(paged.Submissions))
	}
}

func TestListSubmissionsByExam_UnknownExam(t *testing.T) {
	f := setupGrading(t)

	_, err := f.service.ListSubmissionsByExam(context.Background(), 9999, SubmissionListOptions{})
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("returned %v, want ErrExamNotFound", err)
	}
	if err.Error() != "Exam not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGetSubmissionForGrading(t *testing.T) {
	f := setupGrading(t)
	submitted := submitWithEssay(t, f)

	resp, err := f.service.GetSubmissionForGrading(context.Background(), submitted.SubmissionID)
	if err != nil {
		t.Fatalf("GetSubmissionForGrading returned error: %v", err)
	}

	if resp.Submission.StudentName != "Linh Tran" {
		t.Errorf("StudentName = %q", resp.Submission.StudentName)
	}
	if resp.Submission.StudentEmail != "linh.tran@example.com" {
		t.Errorf("StudentEmail = %q", resp.Submission.StudentEmail)
	}
	if resp.Submission.SubmittedAt != "2025-03-10 10:00:00" {
		t.Errorf("SubmittedAt = %q", resp.Submission.SubmittedAt)
	}
	if resp.Submission.CurrentScore != submitted.TotalScore {
		t.Errorf("CurrentScore = %v, want %v", resp.Submission.CurrentScore, submitted.TotalScore)
	}
	if resp.Exam.Title != "Algebra Midterm" {
		t.Errorf("Exam.Title = %q", resp.Exam.Title)
	}
	if len(resp.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(resp.Questions))
	}

	var sawCorrectFlag, sawEssayText bool
	for _, q := range resp.Questions {
		if q.StudentAnswer == nil {
			t.Errorf("question %d has no student answer", q.ID)
			continue
		}
		for _, opt := range q.Options {
			if opt.IsCorrect {
				sawCorrectFlag = true
			}
		}
		if q.Type == "essay" {
			if q.StudentAnswer.EssayText == nil {
				t.Error("essay answer text missing")
			} else {
				sawEssayText = true
			}
			if q.StudentAnswer.Score != nil {
				t.Error("essay should be ungraded")
			}
		}
	}
	if !sawCorrectFlag {
		t.Error("grading view should expose correct options")
	}
	if !sawEssayText {
		t.Error("grading view should include essay text")
	}
}

func TestGetSubmissionForGrading_NotFound(t *testing.T) {
	f := setupGrading(t)

	_, err := f.service.GetSubmissionForGrading(context.Background(), 9999)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("returned %v, want ErrSubmissionNotFound", err)
	}
	if err.Error() != "Submission not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSaveGrades(t *testing.T) {
	f := setupGrading(t)
	submitted := submitWithEssay(t, f)

	view, err := f.service.GetSubmissionForGrading(context.Background(), submitted.SubmissionID)
	if err != nil {
		t.Fatalf("GetSubmissionForGrading returned error: %v", err)
	}

	var essayAnswerID uint
	for _, q := range view.Questions {
		if q.Type == "essay" {
			essayAnswerID = q.StudentAnswer.SubmissionAnswerID
		}
	}
	if essayAnswerID == 0 {
		t.Fatal("no essay answer found")
	}

	feedback := "Good reasoning, missing the edge case."
	grade := "B"
	overall := "Solid work overall."
	resp, err := f.service.SaveGrades(context.Background(), SaveGradesRequest{
		SubmissionID: submitted.SubmissionID,
		EssayGrades: []EssayGradeRequest{
			{SubmissionAnswerID: essayAnswerID, Score: 8, Feedback: &feedback},
		},
		TotalScore:      submitted.TotalScore + 8,
		ScoreGrade:      &grade,
		OverallFeedback: &overall,
	}, "teacher-7")
	if err != nil {
		t.Fatalf("SaveGrades returned error: %v", err)
	}

	if !resp.Success || resp.Message != "Grades saved successfully" {
		t.Errorf("response = %+v", resp)
	}

	var submission models.Submission
	if err := f.db.First(&submission, submitted.SubmissionID).Error; err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if submission.Status != models.SubmissionGraded {
		t.Errorf("Status = %q, want graded", submission.Status)
	}
	if submission.Score != submitted.TotalScore+8 {
		t.Errorf("Score = %v, want %v", submission.Score, submitted.TotalScore+8)
	}
	if submission.ScoreGrade == nil || *submission.ScoreGrade != "B" {
		t.Errorf("ScoreGrade = %v, want B", submission.ScoreGrade)
	}

	var answer models.SubmissionAnswer
	if err := f.db.First(&answer, essayAnswerID).Error; err != nil {
		t.Fatalf("failed to reload essay answer: %v", err)
	}
	if answer.Score == nil || *answer.Score != 8 {
		t.Errorf("essay Score = %v, want 8", answer.Score)
	}
	if answer.Feedback == nil || *answer.Feedback != feedback {
		t.Errorf("essay Feedback = %v", answer.Feedback)
	}

	graded := false
	for _, event := range f.publisher.GetPublishedEvents() {
		if event.Type == events.EventSubmissionGraded {
			graded = true
		}
	}
	if !graded {
		t.Error("submission.graded event not published")
	}
}

func TestSaveGrades_SubmissionNotFound(t *testing.T) {
	f := setupGrading(t)

	_, err := f.service.SaveGrades(context.Background(), SaveGradesRequest{
		SubmissionID: 9999,
		TotalScore:   10,
	}, "teacher-7")
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("returned %v, want ErrSubmissionNotFound", err)
	}
}
