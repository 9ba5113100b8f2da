package resume

import (
	"bytes"
	"errors"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"jobprep/interview/internal/models"
)

var ErrBadPDFOutput = errors.New("generated file is not a valid PDF")

// BuildPDF renders the resume sections, with the optional profile header,
// into a single-column PDF. The output is checked for the PDF signature
// before it is handed out.
func BuildPDF(req models.ExportResumeRequest) ([]byte, string, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = "resume.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		fileName += ".pdf"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	if req.Profile != nil {
		writeProfile(pdf, req.Profile)
	}

	for i, section := range req.Sections {
		title := strings.TrimSpace(section.Title)
		if title == "" {
			title = "Section"
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
		pdf.SetDrawColor(180, 180, 180)
		x, y := pdf.GetX(), pdf.GetY()
		pdf.Line(x, y, 210-18, y)
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 10)
		for _, line := range strings.Split(section.Content, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				pdf.Ln(2)
				continue
			}
			pdf.MultiCell(0, 5, trimmed, "", "L", false)
		}

		if i < len(req.Sections)-1 {
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		return nil, "", ErrBadPDFOutput
	}
	return out, fileName, nil
}

func writeProfile(pdf *gofpdf.Fpdf, profile *models.Profile) {
	if name := strings.TrimSpace(profile.Name); name != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 9, name, "", 1, "C", false, 0, "")
	}
	if title := strings.TrimSpace(profile.Title); title != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 6, title, "", 1, "C", false, 0, "")
	}

	var contact []string
	for _, part := range []string{profile.Email, profile.Phone, profile.Location, profile.Links} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			contact = append(contact, trimmed)
		}
	}
	if len(contact) > 0 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, strings.Join(contact, "  |  "), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}
