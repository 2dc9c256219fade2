package rubric

import (
	"regexp"
	"strings"

	"github.com/snow-ghost/evalbench/core"
)

var (
	confidenceRe    = regexp.MustCompile(`(?i)CONFIDENCE:\s*(HIGH|MEDIUM|LOW)`)
	blankLineRe     = regexp.MustCompile(`\n\s*\n`)
	justificationRe = regexp.MustCompile(`(?i)JUSTIFICATION:`)

	scoreRes  = make(map[string]*regexp.Regexp, NumDimensions)
	markerRes = make(map[string]*regexp.Regexp, NumDimensions)
)

func init() {
	for _, dim := range Dimensions {
		scoreRes[dim] = regexp.MustCompile(`(?i)` + dim + `:[^0-9\n]*([0-9])`)
		markerRes[dim] = regexp.MustCompile(`(?i)` + dim + `:`)
	}
}

// ParseReply extracts the five dimension scores, their justifications,
// and the confidence tier from a judge reply. It is pure and total:
// malformed input degrades to defaults (score 0, empty justification,
// medium confidence) rather than failing. Scores are clamped to [0,5].
func ParseReply(text string) Result {
	res := Result{
		Scores:         make(map[string]int, NumDimensions),
		Justifications: make(map[string]string, NumDimensions),
		Confidence:     core.ConfidenceMedium,
	}

	for _, dim := range Dimensions {
		res.Scores[dim] = parseScore(dim, text)
		res.Justifications[dim] = parseJustification(dim, text)
	}

	if m := confidenceRe.FindStringSubmatch(text); m != nil {
		res.Confidence = core.Confidence(strings.ToLower(m[1]))
	}

	return res
}

// parseScore returns the first digit on the "DIMENSION:" line, or 0
// when the line is absent. Values above the scale are clamped to it.
func parseScore(dim, text string) int {
	m := scoreRes[dim].FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	score := int(m[1][0] - '0')
	if score > MaxScorePerDimension {
		score = MaxScorePerDimension
	}
	return score
}

// parseJustification returns the text between the dimension's own
// JUSTIFICATION marker and the next blank line (or end of text).
// A justification belonging to a different dimension is never claimed:
// if another dimension header appears before the marker, the result is
// empty.
func parseJustification(dim, text string) string {
	loc := markerRes[dim].FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]

	jloc := justificationRe.FindStringIndex(rest)
	if jloc == nil {
		return ""
	}
	for _, other := range Dimensions {
		if other == dim {
			continue
		}
		if oloc := markerRes[other].FindStringIndex(rest[:jloc[0]]); oloc != nil {
			return ""
		}
	}

	body := rest[jloc[1]:]
	if end := blankLineRe.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return strings.TrimSpace(body)
}
