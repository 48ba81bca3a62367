package resumes

import "time"

const (
	StatusUploaded  = "uploaded"
	StatusAnalyzing = "analyzing"
	StatusAnalyzed  = "analyzed"
)

// Resume represents an uploaded resume owned by a user.
type Resume struct {
	ID         string
	UserID     string
	Filename   string
	FilePath   string
	MimeType   string
	SizeBytes  int64
	Status     string
	UploadedAt time.Time
}

// Response is the outward-facing representation of a resume upload.
type Response struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
	Status     string    `json:"status"`
}

func toResponse(r Resume) Response {
	return Response{
		ID:         r.ID,
		Filename:   r.Filename,
		FilePath:   r.FilePath,
		UploadedAt: r.UploadedAt,
		Status:     r.Status,
	}
}
