package srs

import (
	"math"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
)

const (
	// DefaultEaseFactor is the ease assigned to a question never seen before.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor below which no adjustment may push the ease.
	MinEaseFactor = 1.3
	// DefaultConfidence is assumed when the caller supplies no rating.
	DefaultConfidence = 3
	// MaxConfidenceHistory bounds the per-question confidence ring.
	MaxConfidenceHistory = 10

	// Ease penalty applied for a correct answer the user was not sure about
	// ("lucky guess") and, doubled at confidence 5, for a wrong answer the
	// user was sure about ("overconfidence").
	confidencePenalty = 0.15
)

// SM2Input carries the state needed to schedule one review.
// A zero Now means time.Now().
type SM2Input struct {
	Quality     int // 0..5 recall quality
	Repetitions int // consecutive successful reviews so far
	EaseFactor  float64
	Interval    int // previous interval in days
	Now         time.Time
}

// SM2Result is the engine's scheduling decision for a single answer.
type SM2Result struct {
	Interval    int // days until the next review
	EaseFactor  float64
	Repetitions int
	NextReview  time.Time // start of day, local
	Status      question.Status
}

// CalculateSM2 runs one step of the SM-2 schedule.
//
// Failure (quality < 3) resets the interval to one day and the repetition
// count to zero but deliberately leaves the ease factor untouched: the
// textbook formula would lower it here too, and combined with the interval
// reset that double-penalizes a lapse.
func CalculateSM2(in SM2Input) SM2Result {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	ease := in.EaseFactor
	if ease == 0 {
		ease = DefaultEaseFactor
	}

	if in.Quality < 3 {
		return SM2Result{
			Interval:    1,
			EaseFactor:  ease,
			Repetitions: 0,
			NextReview:  startOfDay(now).AddDate(0, 0, 1),
			Status:      statusForInterval(1),
		}
	}

	reps := in.Repetitions + 1
	var interval int
	switch reps {
	case 1:
		interval = 1
	case 2:
		interval = 6
	default:
		// Interval grows from the pre-update ease so the confidence
		// corrections in ProcessAnswer cannot retroactively shrink it.
		interval = int(math.Round(float64(in.Interval) * ease))
	}

	q := float64(in.Quality)
	ease = clampEase(ease + (0.1 - (5-q)*(0.08+(5-q)*0.02)))

	return SM2Result{
		Interval:    interval,
		EaseFactor:  ease,
		Repetitions: reps,
		NextReview:  startOfDay(now).AddDate(0, 0, interval),
		Status:      statusForInterval(interval),
	}
}

// ProcessAnswer maps an answer outcome plus a 1-5 confidence rating onto an
// SM-2 step. A nil progress means the question has never been answered; a
// confidence of 0 means "not rated" and defaults to neutral.
//
// The confidence corrections intentionally depart from textbook SM-2:
//
//   - correct at confidence ≤2 is treated as a lucky guess: the interval is
//     held at one day and the ease dips below where it started;
//   - correct at confidence 3 leaves the ease exactly as it was;
//   - incorrect at confidence ≤3 is an ordinary lapse, no ease penalty;
//   - incorrect at confidence ≥4 is overconfidence and lowers the ease,
//     twice as hard at confidence 5.
func ProcessAnswer(correct bool, progress *QuestionProgress, confidence int, now time.Time) SM2Result {
	conf := normalizeConfidence(confidence)

	ease := DefaultEaseFactor
	interval := 0
	if progress != nil {
		if progress.EaseFactor > 0 {
			ease = progress.EaseFactor
		}
		interval = progress.Interval
	}

	res := CalculateSM2(SM2Input{
		Quality:     qualityFor(correct, conf),
		Repetitions: estimateRepetitions(progress),
		EaseFactor:  ease,
		Interval:    interval,
		Now:         now,
	})

	if now.IsZero() {
		now = time.Now()
	}

	switch {
	case correct && conf <= 2:
		res.Interval = 1
		res.EaseFactor = clampEase(ease - confidencePenalty)
		res.NextReview = startOfDay(now).AddDate(0, 0, 1)
		res.Status = statusForInterval(1)
	case correct && conf == 3:
		res.EaseFactor = ease
	case !correct && conf == 4:
		res.EaseFactor = clampEase(ease - confidencePenalty)
	case !correct && conf == 5:
		res.EaseFactor = clampEase(ease - 2*confidencePenalty)
	}

	return res
}

// qualityFor derives an SM-2 quality grade from outcome and confidence.
func qualityFor(correct bool, confidence int) int {
	if correct {
		switch {
		case confidence >= 5:
			return 5
		case confidence == 4:
			return 4
		default:
			return 3
		}
	}
	switch {
	case confidence >= 5:
		return 0
	case confidence == 4:
		return 1
	default:
		return 2
	}
}

// estimateRepetitions infers the repetition count from the stored interval,
// since the progress record does not persist it directly.
func estimateRepetitions(progress *QuestionProgress) int {
	if progress == nil || progress.Interval < 1 {
		return 0
	}
	if progress.Interval < 6 {
		return 1
	}
	return 2
}

func normalizeConfidence(confidence int) int {
	if confidence == 0 {
		return DefaultConfidence
	}
	if confidence < 1 {
		return 1
	}
	if confidence > 5 {
		return 5
	}
	return confidence
}

func clampEase(ease float64) float64 {
	if ease < MinEaseFactor {
		return MinEaseFactor
	}
	return ease
}

func statusForInterval(interval int) question.Status {
	switch {
	case interval < 7:
		return question.StatusLearning
	case interval < 21:
		return question.StatusReview
	default:
		return question.StatusMastered
	}
}

// startOfDay normalizes t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
