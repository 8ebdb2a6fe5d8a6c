package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"
)

const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
)

// AssemblePDF lays out one full-bleed JPEG per A4 portrait page.
func AssemblePDF(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
	for i, img := range pages {
		name := fmt.Sprintf("page-%d", i+1)
		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
		doc.ImageOptions(name, 0, 0, a4WidthMM, a4HeightMM, false, opts, 0, "")
		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("add page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// VerifyPDF parses data and checks it has want pages.
func VerifyPDF(data []byte, want int) error {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parse pdf: %w", err)
	}
	if got := r.NumPage(); got != want {
		return fmt.Errorf("pdf has %d pages, want %d", got, want)
	}
	return nil
}
