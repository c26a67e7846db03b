package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// pdfText extracts the text layer page by page. The parser panics on some
// malformed files, so panics are reported as unreadable documents.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Kind: KindUnreadable, Message: "could not parse PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: KindUnreadable, Message: "could not open PDF", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Kind: KindUnreadable, Message: fmt.Sprintf("could not read page %d", i), Cause: err}
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
