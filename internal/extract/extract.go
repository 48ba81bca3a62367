// Package extract pulls plain text out of uploaded resume files.
// Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX).
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-insights/internal/shared/util"
)

// ErrUnsupported marks file types this package cannot extract text from.
var ErrUnsupported = errors.New("unsupported file type")

// TextFromBytes extracts text from an in-memory payload, dispatching on the
// file extension. Legacy .doc is not supported; callers are expected to
// degrade gracefully.
func TextFromBytes(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch util.FileExtension(fileName) {
	case "pdf":
		return textFromPDF(data)
	case "docx":
		return textFromDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, fileName)
	}
}

func textFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func textFromDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML flattens document.xml markup, inserting newlines at paragraph
// boundaries so section headings stay detectable.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
