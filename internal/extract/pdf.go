package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFDocument holds the extracted text and document metadata of a PDF file.
type PDFDocument struct {
	Text   string
	Title  string
	Author string
	Pages  int
}

// PDFText extracts the plain text and metadata from a PDF on disk. Page
// texts are joined with blank lines so downstream paragraph chunking can see
// page boundaries.
func PDFText(path string) (*PDFDocument, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc := &PDFDocument{Pages: reader.NumPage()}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the book.
			continue
		}
		if pageText == "" {
			continue
		}
		if doc.Text != "" {
			doc.Text += "\n\n"
		}
		doc.Text += pageText
	}

	if doc.Text == "" {
		// Fall back to the whole-document reader for PDFs whose pages
		// fail individual extraction.
		var buf bytes.Buffer
		b, err := reader.GetPlainText()
		if err != nil {
			return nil, fmt.Errorf("failed to read pdf text: %w", err)
		}
		if _, err := io.Copy(&buf, b); err != nil {
			return nil, fmt.Errorf("failed to read pdf buffer: %w", err)
		}
		doc.Text = buf.String()
	}

	if t := reader.Trailer(); !t.IsNull() {
		info := t.Key("Info")
		if !info.IsNull() {
			doc.Title = info.Key("Title").Text()
			doc.Author = info.Key("Author").Text()
		}
	}

	return doc, nil
}
