// Package ingestion turns uploaded résumé files into cleaned plain text.
package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/fetch"
	"github.com/jonathan/ats-scorer/internal/sections"
	"github.com/jonathan/ats-scorer/internal/textnorm"
	"github.com/jonathan/ats-scorer/internal/types"
)

// Format is a supported input format.
type Format string

// Supported formats.
const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// MinPDFChars is the least text a PDF must yield before it is treated as a
// scanned image.
const MinPDFChars = 50

// Document is an extracted résumé.
type Document struct {
	Filename string             `json:"filename"`
	Format   Format             `json:"format"`
	Text     string             `json:"text"`
	Flags    types.SectionFlags `json:"flags"`
	Hash     string             `json:"hash"` // SHA256 hex digest of Text
	Words    int                `json:"words"`
}

// DetectFormat picks a format from the file extension, falling back to
// content sniffing when the extension is missing or unknown.
func DetectFormat(filename string, data []byte) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDOCX, true
	case ".txt", ".text":
		return FormatText, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".html", ".htm":
		return FormatHTML, true
	case "":
	default:
		return "", false
	}

	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return FormatPDF, true
	case strings.HasPrefix(contentType, "text/html"):
		return FormatHTML, true
	case strings.HasPrefix(contentType, "application/zip"):
		return FormatDOCX, true
	case strings.HasPrefix(contentType, "text/plain"):
		return FormatText, true
	}
	return "", false
}

// Extract converts an uploaded file into a Document.
func Extract(filename string, data []byte) (Document, error) {
	format, ok := DetectFormat(filename, data)
	if !ok {
		return Document{}, &ExtractionError{
			Kind:    KindUnsupported,
			Message: fmt.Sprintf("unsupported file type %q (use PDF, DOCX, TXT, MD or HTML)", filepath.Ext(filename)),
		}
	}

	var (
		raw string
		err error
	)
	switch format {
	case FormatPDF:
		raw, err = pdfText(data)
	case FormatDOCX:
		raw, err = docxText(data)
	case FormatHTML:
		raw, err = fetch.DocumentText(string(data))
		if err != nil {
			err = &ExtractionError{Kind: KindUnreadable, Message: "could not parse HTML", Cause: err}
		}
	default:
		if !utf8.Valid(data) {
			err = &ExtractionError{Kind: KindUnreadable, Message: "text file is not valid UTF-8"}
		}
		raw = string(data)
	}
	if err != nil {
		return Document{}, err
	}

	text := CleanText(raw)
	if format == FormatPDF && utf8.RuneCountInString(text) < MinPDFChars {
		return Document{}, &ExtractionError{
			Kind:    KindScannedPDF,
			Message: "very little text extracted; this PDF looks like a scanned image, upload a text-based PDF or DOCX",
		}
	}
	if text == "" {
		return Document{}, &ExtractionError{Kind: KindEmpty, Message: "no text found in document"}
	}

	return Document{
		Filename: filepath.Base(filename),
		Format:   format,
		Text:     text,
		Flags:    sections.DetectFlags(text),
		Hash:     computeHash(text),
		Words:    textnorm.WordCount(text),
	}, nil
}

// ExtractFile reads path and extracts it.
func ExtractFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, fmt.Errorf("file not found: %w", err)
		}
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(path, data)
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
