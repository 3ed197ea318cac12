package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

// ExtractText extracts plain text from raw PDF bytes, page by page.
// Each page's text is prefixed with a "[Página N]" marker; pages with
// no extractable text are skipped.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &domain.ExtractionError{Err: fmt.Errorf("empty file")}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &domain.ExtractionError{Err: err}
	}

	var out bytes.Buffer
	for i := 1; i <= reader.NumPage(); i++ {
		content := pageText(reader, i)
		if content == "" {
			continue
		}
		fmt.Fprintf(&out, "\n[Página %d]\n%s\n", i, content)
	}
	return out.String(), nil
}

// pageText returns the plain text of page i, or "" if the page has
// none or cannot be decoded. ledongthuc/pdf panics on some malformed
// content streams, so extraction is fenced per page.
func pageText(reader *pdf.Reader, i int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}
