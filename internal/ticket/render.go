package ticket

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrgen "github.com/skip2/go-qrcode"
)

// Holder is the human-readable block printed next to the QR so volunteers
// can verify a ticket manually when scanning is impractical.
type Holder struct {
	Name   string `json:"name"`
	USN    string `json:"usn"`
	Year   string `json:"year"`
	Course string `json:"course"`
}

// Artifact is the rendered ticket: the scannable code plus the plaintext
// fallback payload.
type Artifact struct {
	TokenID string `json:"token_id"`
	QRPng   []byte `json:"-"`
	DataURL string `json:"qr_data_url"`
	Holder  Holder `json:"holder"`
}

const qrSize = 512

// ===========================
// 🎟 Render ticket artifact
//
// Rendering is deterministic for a given token string, so re-rendering an
// already-issued credential returns a byte-identical artifact.
func Render(tokenID, token string, holder Holder) (*Artifact, error) {
	png, err := qrgen.Encode(token, qrgen.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("qr encode failed: %w", err)
	}

	return &Artifact{
		TokenID: tokenID,
		QRPng:   png,
		DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Holder:  holder,
	}, nil
}

// ===========================
// 🖨 Printable ticket (PDF)
func RenderPDF(a *Artifact, eventTitle string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "TechNova Event Ticket", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 10, eventTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+a.TokenID, opt, bytes.NewReader(a.QRPng))
	pdf.ImageOptions("qr-"+a.TokenID, 65, pdf.GetY(), 80, 80, false, opt, 0, "")
	pdf.SetY(pdf.GetY() + 86)

	pdf.SetFont("Arial", "", 12)
	rows := [][2]string{
		{"Name", a.Holder.Name},
		{"USN", a.Holder.USN},
		{"Year", a.Holder.Year},
		{"Course", a.Holder.Course},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Present this code at the venue. Each ticket admits one attendee once.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}
