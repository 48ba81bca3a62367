package analyses

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is the stored result of running the scoring pipeline over a resume.
type Analysis struct {
	ID              string
	ResumeID        string
	UserID          string
	Status          string
	OverallScore    *float64
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
	AnalyzedAt      *time.Time
	CreatedAt       time.Time
}

// JobResponse acknowledges a trigger request.
type JobResponse struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
}

// ResultResponse is the completed-analysis payload.
type ResultResponse struct {
	OverallScore    *float64 `json:"overall_score"`
	AnalyzedAt      string   `json:"analyzed_at"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

func toJobResponse(a Analysis) JobResponse {
	return JobResponse{AnalysisID: a.ID, Status: a.Status}
}

// ToResultResponse converts a stored analysis into its response form.
// List fields are never null in the payload.
func ToResultResponse(a Analysis) ResultResponse {
	resp := ResultResponse{
		OverallScore:    a.OverallScore,
		Strengths:       a.Strengths,
		Weaknesses:      a.Weaknesses,
		Recommendations: a.Recommendations,
	}
	if a.AnalyzedAt != nil {
		resp.AnalyzedAt = a.AnalyzedAt.UTC().Format(time.RFC3339)
	}
	if resp.Strengths == nil {
		resp.Strengths = []string{}
	}
	if resp.Weaknesses == nil {
		resp.Weaknesses = []string{}
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []string{}
	}
	return resp
}
