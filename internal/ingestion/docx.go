package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// docxText reads the paragraphs of word/document.xml, one per line. Tabs and
// breaks inside a paragraph become spaces and newlines.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: KindUnreadable, Message: "DOCX is not a valid archive", Cause: err}
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", &ExtractionError{Kind: KindUnreadable, Message: "DOCX has no " + docxBody}
	}

	rc, err := body.Open()
	if err != nil {
		return "", &ExtractionError{Kind: KindUnreadable, Message: "could not open " + docxBody, Cause: err}
	}
	defer func() { _ = rc.Close() }()

	text, err := paragraphs(rc)
	if err != nil {
		return "", &ExtractionError{Kind: KindUnreadable, Message: "could not parse " + docxBody, Cause: err}
	}
	return text, nil
}

// paragraphs streams WordprocessingML tokens and collects w:t runs.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString(" ")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
