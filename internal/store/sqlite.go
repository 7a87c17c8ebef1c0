// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	examsession "github.com/hamforge/backend/internal/domain/exam_session"
	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/domain/srs"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id TEXT NOT NULL,
    level TEXT NOT NULL,
    subelement TEXT NOT NULL,
    group_letter TEXT NOT NULL,
    question TEXT NOT NULL,
    answers TEXT NOT NULL,
    correct_answer INTEGER NOT NULL,
    reference TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (level, id)
);

CREATE TABLE IF NOT EXISTS question_progress (
    question_id TEXT PRIMARY KEY,
    level TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    correct_count INTEGER NOT NULL DEFAULT 0,
    ease_factor REAL NOT NULL,
    interval_days INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    next_review INTEGER NOT NULL DEFAULT 0,
    last_attempt INTEGER NOT NULL DEFAULT 0,
    confidence_history TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS flagged_questions (
    question_id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS study_days (
    day TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS progress_counters (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    answered INTEGER NOT NULL DEFAULT 0,
    correct INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS exam_attempts (
    id TEXT PRIMARY KEY,
    level TEXT NOT NULL,
    score INTEGER NOT NULL,
    passed INTEGER NOT NULL,
    time_spent_seconds INTEGER NOT NULL,
    taken_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exam_attempt_answers (
    attempt_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    selected_answer INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (attempt_id, question_id),
    FOREIGN KEY (attempt_id) REFERENCES exam_attempts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS session_snapshots (
    storage_key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLiteStore is the process-wide persistence layer: the question pool,
// per-question progress records, the flagged set, the study-day log, the
// exam attempt archive, and the recoverable exam-session snapshot.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Question pool
// ============================================================================

// ImportQuestions upserts a batch of questions into a level's pool and
// returns how many rows were written.
func (s *SQLiteStore) ImportQuestions(ctx context.Context, level question.Level, questions []question.Question) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count := 0
	for _, q := range questions {
		answersJSON, err := json.Marshal(q.Answers)
		if err != nil {
			return 0, fmt.Errorf("encoding answers for %s: %w", q.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO questions (id, level, subelement, group_letter, question, answers, correct_answer, reference)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (level, id) DO UPDATE SET
				question = excluded.question,
				answers = excluded.answers,
				correct_answer = excluded.correct_answer,
				reference = excluded.reference
		`, q.ID, level, q.Subelement, q.Group, q.Text, string(answersJSON), q.CorrectAnswer, q.Reference)
		if err != nil {
			return 0, err
		}
		count++
	}

	return count, tx.Commit()
}

func (s *SQLiteStore) GetQuestionsForLevel(ctx context.Context, level question.Level) ([]question.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT id, subelement, group_letter, question, answers, correct_answer, reference
		FROM questions WHERE level = ? ORDER BY id
	`, level)
}

// GetPracticeQuestions samples up to count questions in random order.
// A non-positive count returns the whole pool.
func (s *SQLiteStore) GetPracticeQuestions(ctx context.Context, level question.Level, count int) ([]question.Question, error) {
	if count <= 0 {
		count = -1
	}
	return s.queryQuestions(ctx, `
		SELECT id, subelement, group_letter, question, answers, correct_answer, reference
		FROM questions WHERE level = ? ORDER BY RANDOM() LIMIT ?
	`, level, count)
}

func (s *SQLiteStore) GetQuestionsBySubelement(ctx context.Context, level question.Level, subelement string) ([]question.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT id, subelement, group_letter, question, answers, correct_answer, reference
		FROM questions WHERE level = ? AND subelement = ? ORDER BY id
	`, level, subelement)
}

// GetQuestionsByStatus returns the questions whose progress record has the
// given status. Questions never attempted count as new.
func (s *SQLiteStore) GetQuestionsByStatus(ctx context.Context, level question.Level, status question.Status) ([]question.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT q.id, q.subelement, q.group_letter, q.question, q.answers, q.correct_answer, q.reference
		FROM questions q
		LEFT JOIN question_progress p ON p.question_id = q.id
		WHERE q.level = ? AND COALESCE(p.status, 'new') = ?
		ORDER BY q.id
	`, level, status)
}

func (s *SQLiteStore) queryQuestions(ctx context.Context, query string, args ...any) ([]question.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		var q question.Question
		var answersJSON string
		if err := rows.Scan(&q.ID, &q.Subelement, &q.Group, &q.Text, &answersJSON, &q.CorrectAnswer, &q.Reference); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answersJSON), &q.Answers); err != nil {
			return nil, fmt.Errorf("decoding answers for %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ============================================================================
// Question progress
// ============================================================================

func (s *SQLiteStore) GetProgress(ctx context.Context, questionID string) (*srs.QuestionProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT question_id, attempts, correct_count, ease_factor, interval_days, status, next_review, last_attempt, confidence_history
		FROM question_progress WHERE question_id = ?
	`, questionID)

	p, err := scanProgress(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) SaveProgress(ctx context.Context, level question.Level, p *srs.QuestionProgress) error {
	historyJSON, err := json.Marshal(p.ConfidenceHistory)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question_progress (question_id, level, attempts, correct_count, ease_factor, interval_days, status, next_review, last_attempt, confidence_history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (question_id) DO UPDATE SET
			attempts = excluded.attempts,
			correct_count = excluded.correct_count,
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			status = excluded.status,
			next_review = excluded.next_review,
			last_attempt = excluded.last_attempt,
			confidence_history = excluded.confidence_history
	`, p.QuestionID, level, p.Attempts, p.CorrectCount, p.EaseFactor, p.Interval, p.Status,
		unixOrZero(p.NextReview), unixOrZero(p.LastAttempt), string(historyJSON))
	return err
}

// ListProgress returns every progress record for a level.
func (s *SQLiteStore) ListProgress(ctx context.Context, level question.Level) ([]srs.QuestionProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, attempts, correct_count, ease_factor, interval_days, status, next_review, last_attempt, confidence_history
		FROM question_progress WHERE level = ? ORDER BY question_id
	`, level)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []srs.QuestionProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *p)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (*srs.QuestionProgress, error) {
	var p srs.QuestionProgress
	var nextReview, lastAttempt int64
	var historyJSON string
	err := row.Scan(&p.QuestionID, &p.Attempts, &p.CorrectCount, &p.EaseFactor, &p.Interval, &p.Status, &nextReview, &lastAttempt, &historyJSON)
	if err != nil {
		return nil, err
	}
	if nextReview > 0 {
		p.NextReview = time.Unix(nextReview, 0)
	}
	if lastAttempt > 0 {
		p.LastAttempt = time.Unix(lastAttempt, 0)
	}
	if err := json.Unmarshal([]byte(historyJSON), &p.ConfidenceHistory); err != nil {
		return nil, fmt.Errorf("decoding confidence history for %s: %w", p.QuestionID, err)
	}
	return &p, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// ============================================================================
// Counters, flags, study days
// ============================================================================

func (s *SQLiteStore) IncrementAnswered(ctx context.Context, correct bool) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_counters (id, answered, correct) VALUES (1, 1, ?)
		ON CONFLICT (id) DO UPDATE SET
			answered = answered + 1,
			correct = correct + excluded.correct
	`, correctDelta)
	return err
}

func (s *SQLiteStore) GetCounters(ctx context.Context) (Counters, error) {
	var c Counters
	err := s.db.QueryRowContext(ctx, `SELECT answered, correct FROM progress_counters WHERE id = 1`).Scan(&c.Answered, &c.Correct)
	if err == sql.ErrNoRows {
		return Counters{}, nil
	}
	return c, err
}

// ToggleFlagQuestion flips a question's membership in the flagged set and
// reports the new state.
func (s *SQLiteStore) ToggleFlagQuestion(ctx context.Context, questionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flagged_questions WHERE question_id = ?`, questionID)
	if err != nil {
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		return false, nil
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO flagged_questions (question_id) VALUES (?)`, questionID)
	return true, err
}

func (s *SQLiteStore) FlaggedQuestions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_id FROM flagged_questions ORDER BY question_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) RecordStudyDay(ctx context.Context) error {
	day := time.Now().Format("2006-01-02")
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO study_days (day) VALUES (?)`, day)
	return err
}

// StudyDayStreak counts consecutive study days ending today or yesterday.
func (s *SQLiteStore) StudyDayStreak(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day FROM study_days ORDER BY day DESC`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	days := make(map[string]struct{})
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return 0, err
		}
		days[day] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	cursor := now
	if _, ok := days[cursor.Format("2006-01-02")]; !ok {
		// Today not studied yet; a streak ending yesterday still counts.
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[cursor.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}

// ResetProgress wipes every progress record, flag, counter, and study day.
// The question pool and archived attempts are untouched.
func (s *SQLiteStore) ResetProgress(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM question_progress`,
		`DELETE FROM flagged_questions`,
		`DELETE FROM progress_counters`,
		`DELETE FROM study_days`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ============================================================================
// Exam attempt archive
// ============================================================================

func (s *SQLiteStore) SaveExamAttempt(ctx context.Context, level question.Level, score int, passed bool, timeSpentSeconds int, answers []examsession.SavedAnswer) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	attemptID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO exam_attempts (id, level, score, passed, time_spent_seconds, taken_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, attemptID, level, score, boolToInt(passed), timeSpentSeconds, time.Now().Unix())
	if err != nil {
		return "", err
	}

	for i, a := range answers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO exam_attempt_answers (attempt_id, question_id, selected_answer, correct, position)
			VALUES (?, ?, ?, ?, ?)
		`, attemptID, a.QuestionID, a.SelectedAnswer, boolToInt(a.Correct), i)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return attemptID, nil
}

// ListExamAttempts returns archived attempts newest first, optionally
// filtered by level (empty level means all).
func (s *SQLiteStore) ListExamAttempts(ctx context.Context, level question.Level) ([]AttemptSummary, error) {
	query := `SELECT id, level, score, passed, time_spent_seconds, taken_at FROM exam_attempts`
	args := []any{}
	if level != "" {
		query += ` WHERE level = ?`
		args = append(args, level)
	}
	query += ` ORDER BY taken_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []AttemptSummary
	for rows.Next() {
		var a AttemptSummary
		var passed int
		var takenAt int64
		if err := rows.Scan(&a.ID, &a.Level, &a.Score, &passed, &a.TimeSpentSeconds, &takenAt); err != nil {
			return nil, err
		}
		a.Passed = passed != 0
		a.TakenAt = time.Unix(takenAt, 0)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// GetAttemptAnswers returns the per-question answers of one archived attempt.
func (s *SQLiteStore) GetAttemptAnswers(ctx context.Context, attemptID string) ([]examsession.SavedAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, selected_answer, correct
		FROM exam_attempt_answers WHERE attempt_id = ? ORDER BY position
	`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []examsession.SavedAnswer
	for rows.Next() {
		var a examsession.SavedAnswer
		var correct int
		if err := rows.Scan(&a.QuestionID, &a.SelectedAnswer, &correct); err != nil {
			return nil, err
		}
		a.Correct = correct != 0
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ============================================================================
// Exam session snapshot
// ============================================================================

func (s *SQLiteStore) SaveExamSession(ctx context.Context, snap *examsession.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_snapshots (storage_key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (storage_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, examsession.StorageKey, string(payload), time.Now().Unix())
	return err
}

func (s *SQLiteStore) LoadExamSession(ctx context.Context) (*examsession.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM session_snapshots WHERE storage_key = ?
	`, examsession.StorageKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap examsession.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decoding exam session snapshot: %w", err)
	}
	return &snap, nil
}

func (s *SQLiteStore) ClearExamSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_snapshots WHERE storage_key = ?`, examsession.StorageKey)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
