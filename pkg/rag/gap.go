package rag

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/taysluxe/tayai/pkg/types"
)

// GapReport is produced when a chat turn exposed a hole in the knowledge
// base, either because the model said so or because retrieval came back thin.
type GapReport struct {
	MissingDetail      string
	SuggestedNamespace string
	RagScore           *float64
}

const gapScoreThreshold = 0.7

var missingIndicators = []*regexp.Regexp{
	regexp.MustCompile(`isn't in my brain`),
	regexp.MustCompile(`not in my brain`),
	regexp.MustCompile(`don't have that`),
	regexp.MustCompile(`don't have this`),
	regexp.MustCompile(`don't have the`),
	regexp.MustCompile(`can't find`),
	regexp.MustCompile(`don't have access to`),
	regexp.MustCompile(`isn't available`),
	regexp.MustCompile(`not available in`),
}

// detailPatterns pull the specific missing thing out of the model's own
// wording when possible.
var detailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`isn't in my brain[^.]*\.\s*([^.]*)`),
	regexp.MustCompile(`don't have that[^.]*\.\s*([^.]*)`),
	regexp.MustCompile(`don't have the ([^.]*)`),
}

// DetectGap inspects a completed exchange and reports whether the knowledge
// base failed to cover it. Returns nil when the turn looked well grounded.
func DetectGap(question, aiResponse string, bundle types.ContextBundle) *GapReport {
	responseLower := strings.ToLower(aiResponse)

	hasIndicator := false
	for _, pattern := range missingIndicators {
		if pattern.MatchString(responseLower) {
			hasIndicator = true
			break
		}
	}

	minScore, hasMatches := bundle.MinScore()
	weakRetrieval := !hasMatches || minScore < gapScoreThreshold

	if !hasIndicator && !weakRetrieval {
		return nil
	}

	missingDetail := question
	for _, pattern := range detailPatterns {
		if m := pattern.FindStringSubmatch(responseLower); m != nil {
			missingDetail = fmt.Sprintf("%s - Specifically: %s", question, m[1])
			break
		}
	}

	report := &GapReport{
		MissingDetail:      strings.TrimSpace(missingDetail),
		SuggestedNamespace: SuggestNamespace(question),
	}
	if hasMatches {
		score := minScore
		report.RagScore = &score
	}
	return report
}
