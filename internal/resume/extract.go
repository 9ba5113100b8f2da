package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxResumeChars caps the text sent to the parsing model. Longer resumes
// are truncated, not rejected.
const MaxResumeChars = 20000

var ErrNoContent = errors.New("no resume content provided")

// ExtractText pulls plain text out of an uploaded resume. The format is
// decided by MIME type first, file extension second; anything unrecognized
// is treated as plain text.
func ExtractText(filename, contentType string, data []byte) (string, error) {
	lower := strings.ToLower(filename)
	switch {
	case contentType == "application/pdf" || strings.HasSuffix(lower, ".pdf"):
		return extractPDFText(data)
	case contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		strings.HasSuffix(lower, ".docx"):
		return extractDocxText(data)
	default:
		return string(data), nil
	}
}

// ClampText trims and truncates resume text to MaxResumeChars.
func ClampText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoContent
	}
	if len(text) > MaxResumeChars {
		text = text[:MaxResumeChars]
	}
	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, bytes.NewReader(data)); err != nil {
		return "", err
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
