// Package insights derives engagement and compatibility snapshots from a
// chat's recent messages.
//
// The scoring below is a deterministic heuristic inherited from the legacy
// system, not a validated model. It is kept formula-for-formula compatible
// and hidden behind the Generator interface so a real analytics engine can
// replace it without touching callers.
package insights

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"soulmatch-service/internal/models"
)

// MinMessages is the smallest conversation an insight can be derived from.
const MinMessages = 5

// ErrNotEnoughMessages is returned for conversations below MinMessages.
var ErrNotEnoughMessages = errors.New("not enough messages to generate insights")

// Result holds the derived aggregate values for one generation run.
type Result struct {
	TotalMessages      int
	AvgMessageLength   int
	AvgResponseTime    int
	EngagementScore    int
	CompatibilityScore int
	EmotionalTone      string
	EditFrequency      float64
	Observations       []string
}

// Generator turns a window of recent messages into a Result.
type Generator interface {
	Generate(msgs []models.Message) (Result, error)
}

// HeuristicGenerator is the legacy-compatible implementation. The jitter
// source is injectable so tests can pin the compatibility score.
type HeuristicGenerator struct {
	jitter func() float64
}

// NewHeuristicGenerator builds a generator using the default random source.
func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{jitter: rand.Float64}
}

// NewHeuristicGeneratorWithJitter builds a generator with a fixed jitter
// source, for deterministic tests.
func NewHeuristicGeneratorWithJitter(jitter func() float64) *HeuristicGenerator {
	return &HeuristicGenerator{jitter: jitter}
}

// Generate computes the aggregate scores over the message window.
// Formulas:
//
//	engagement    = min(100, round(n*2 + avgLen/2))
//	compatibility = min(100, round(engagement*0.8 + jitter*20))
func (g *HeuristicGenerator) Generate(msgs []models.Message) (Result, error) {
	n := len(msgs)
	if n < MinMessages {
		return Result{}, ErrNotEnoughMessages
	}

	var lengthSum, typingSum int
	for _, m := range msgs {
		lengthSum += len(m.Content)
		if m.TypingDuration != nil {
			typingSum += *m.TypingDuration
		}
	}
	avgLength := int(math.Round(float64(lengthSum) / float64(n)))
	avgResponse := int(math.Round(float64(typingSum) / float64(n)))

	engagement := int(math.Round(float64(n*2) + float64(avgLength)/2))
	if engagement > 100 {
		engagement = 100
	}

	compatibility := int(math.Round(float64(engagement)*0.8 + g.jitter()*20))
	if compatibility > 100 {
		compatibility = 100
	}

	pattern := "quick, natural flow"
	if avgResponse > 5000 {
		pattern = "careful consideration"
	}
	observations := []string{
		fmt.Sprintf("You've exchanged %d messages, showing strong engagement", n),
		fmt.Sprintf("Average message length of %d characters indicates thoughtful communication", avgLength),
		fmt.Sprintf("Response patterns suggest %s", pattern),
	}
	if avgLength > 50 {
		observations = append(observations, "Your detailed responses show genuine interest in the conversation")
	}
	if n > 20 {
		observations = append(observations, "The conversation length indicates mutual compatibility")
	}

	return Result{
		TotalMessages:      n,
		AvgMessageLength:   avgLength,
		AvgResponseTime:    avgResponse,
		EngagementScore:    engagement,
		CompatibilityScore: compatibility,
		EmotionalTone:      "positive",
		EditFrequency:      0.1,
		Observations:       observations,
	}, nil
}
