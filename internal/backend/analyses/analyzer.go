package analyses

import (
	"regexp"
	"strings"
)

// Feedback is the output of the scoring pipeline.
type Feedback struct {
	OverallScore    float64
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

var (
	sectionHeadings = []string{"experience", "education", "skills", "projects", "summary"}
	actionVerbs     = []string{
		"achieved", "built", "created", "delivered", "designed", "developed",
		"implemented", "improved", "launched", "led", "managed", "optimized",
		"reduced", "shipped",
	}
	quantifiedPattern = regexp.MustCompile(`\d+\s*(%|percent|users|customers|projects|years|months|k\b|m\b)`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// Analyze scores resume text with a deterministic heuristic. The same text
// always produces the same feedback.
func Analyze(text string) Feedback {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	fb := Feedback{OverallScore: 40}

	var foundSections []string
	for _, heading := range sectionHeadings {
		if strings.Contains(lower, heading) {
			foundSections = append(foundSections, heading)
		}
	}
	fb.OverallScore += float64(len(foundSections)) * 5
	if len(foundSections) >= 3 {
		fb.Strengths = append(fb.Strengths, "Clear structure with well-labeled sections")
	} else {
		fb.Weaknesses = append(fb.Weaknesses, "Missing common sections such as experience, education or skills")
		fb.Recommendations = append(fb.Recommendations, "Organize the resume into labeled sections (summary, experience, education, skills)")
	}

	verbCount := 0
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			verbCount++
		}
	}
	switch {
	case verbCount >= 5:
		fb.OverallScore += 15
		fb.Strengths = append(fb.Strengths, "Strong use of action verbs to describe accomplishments")
	case verbCount >= 2:
		fb.OverallScore += 8
	default:
		fb.Weaknesses = append(fb.Weaknesses, "Few action verbs, accomplishments read as passive descriptions")
		fb.Recommendations = append(fb.Recommendations, "Start bullet points with action verbs like \"led\", \"built\" or \"improved\"")
	}

	quantified := len(quantifiedPattern.FindAllString(lower, -1))
	switch {
	case quantified >= 3:
		fb.OverallScore += 15
		fb.Strengths = append(fb.Strengths, "Accomplishments are backed by concrete numbers")
	case quantified >= 1:
		fb.OverallScore += 7
	default:
		fb.Weaknesses = append(fb.Weaknesses, "No quantified results to support claims")
		fb.Recommendations = append(fb.Recommendations, "Quantify impact where possible, for example \"reduced load time by 40%\"")
	}

	switch {
	case len(words) < 120:
		fb.Weaknesses = append(fb.Weaknesses, "Content is too short to give a full picture")
		fb.Recommendations = append(fb.Recommendations, "Expand on recent roles with responsibilities and outcomes")
	case len(words) > 1200:
		fb.Weaknesses = append(fb.Weaknesses, "Content is long enough that key points may be buried")
		fb.Recommendations = append(fb.Recommendations, "Trim older or less relevant entries to keep the resume focused")
	default:
		fb.OverallScore += 10
	}

	if emailPattern.MatchString(text) {
		fb.OverallScore += 5
		fb.Strengths = append(fb.Strengths, "Contact information is present")
	} else {
		fb.Recommendations = append(fb.Recommendations, "Include an email address so recruiters can reach you")
	}

	if fb.OverallScore > 100 {
		fb.OverallScore = 100
	}
	return fb
}

// fallbackFeedback is used when text extraction fails. The analysis still
// completes so the client stops polling.
func fallbackFeedback() Feedback {
	return Feedback{
		Weaknesses:      []string{"The file could not be read for detailed feedback"},
		Recommendations: []string{"Re-export the resume as a standard PDF or DOCX and upload it again"},
	}
}
