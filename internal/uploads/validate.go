// Package uploads validates resume files before any collaborator is
// contacted. All failures here are local validation errors; nothing in this
// package touches the network.
package uploads

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-insights/internal/api"
	"resume-insights/internal/shared/util"
)

// MaxSizeBytes is the upload size limit.
const MaxSizeBytes = 10 << 20

var acceptedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
}

// Validate checks the file name and payload against the upload rules:
// extension in {pdf, doc, docx}, at most 10 MB, and for pdf/docx a payload
// the corresponding parser can open. Legacy .doc is accepted on extension
// and size alone.
func Validate(fileName string, data []byte) error {
	if fileName == "" || len(data) == 0 {
		return api.ValidationError("Please select a file.")
	}

	ext := util.FileExtension(fileName)
	if _, ok := acceptedExtensions[ext]; !ok {
		if ext == "" {
			ext = "unknown"
		}
		return api.ValidationError(fmt.Sprintf("Unsupported file type %q. Please upload PDF/DOC/DOCX.", "."+ext))
	}

	if len(data) > MaxSizeBytes {
		return api.ValidationError("File is too large. Please upload a file smaller than 10MB.")
	}

	switch ext {
	case "pdf":
		if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
			return api.ValidationError("File does not look like a valid PDF.")
		}
	case "docx":
		doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return api.ValidationError("File does not look like a valid DOCX.")
		}
		_ = doc.Close()
	}

	return nil
}
