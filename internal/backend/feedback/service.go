// Package feedback aggregates a user's analyses into a dashboard summary.
package feedback

import (
	"context"

	"resume-insights/internal/backend/analyses"
	"resume-insights/internal/backend/resumes"
)

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Summary is the aggregate payload shown on the dashboard overview.
type Summary struct {
	TotalResumes     int                      `json:"total_resumes"`
	ImprovementTrend string                   `json:"improvement_trend"`
	AvgScore         *float64                 `json:"avg_score"`
	LatestAnalysis   *analyses.ResultResponse `json:"latest_analysis"`
}

// Service computes summaries from stored resumes and analyses.
type Service struct {
	Resumes  resumes.Repo
	Analyses analyses.Repo
}

// Summarize builds the dashboard summary for a user. The trend compares the
// two most recent scored analyses; with fewer than two it is stable.
func (s *Service) Summarize(ctx context.Context, userID string) (Summary, error) {
	total, err := s.Resumes.CountByUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	completed, err := s.Analyses.CompletedByUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalResumes:     total,
		ImprovementTrend: TrendStable,
	}

	var scores []float64
	for _, a := range completed {
		if a.OverallScore != nil {
			scores = append(scores, *a.OverallScore)
		}
	}
	if len(scores) > 0 {
		sum := 0.0
		for _, score := range scores {
			sum += score
		}
		avg := sum / float64(len(scores))
		summary.AvgScore = &avg
	}
	if len(scores) >= 2 {
		prev, last := scores[len(scores)-2], scores[len(scores)-1]
		switch {
		case last > prev:
			summary.ImprovementTrend = TrendImproving
		case last < prev:
			summary.ImprovementTrend = TrendDeclining
		}
	}
	if len(completed) > 0 {
		latest := analyses.ToResultResponse(completed[len(completed)-1])
		summary.LatestAnalysis = &latest
	}
	return summary, nil
}
