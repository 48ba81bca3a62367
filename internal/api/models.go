package api

import "time"

// User is the profile attached to an authenticated session.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AuthPayload is returned by login and register.
type AuthPayload struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// ResumeUpload acknowledges an accepted resume upload.
type ResumeUpload struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
	Status     string    `json:"status"`
}

// AnalysisJob acknowledges a triggered analysis.
type AnalysisJob struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
}

// AnalysisResult is the terminal output of analyzing one resume. OverallScore
// is nil when the backend produced no numeric score.
type AnalysisResult struct {
	OverallScore    *float64  `json:"overall_score"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses"`
	Recommendations []string  `json:"recommendations"`
}

// FeedbackSummary aggregates analysis statistics. It is replaced wholesale on
// every fetch, never merged field by field.
type FeedbackSummary struct {
	TotalResumes     int             `json:"total_resumes"`
	ImprovementTrend string          `json:"improvement_trend"`
	AvgScore         *float64        `json:"avg_score"`
	LatestAnalysis   *AnalysisResult `json:"latest_analysis"`
}
