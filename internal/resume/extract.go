// Package resume handles uploaded resume files: detecting the format and
// pulling plain text out of PDF, DOCX and plain-text uploads.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MIME types accepted by the upload endpoint.
const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
	MIMEDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedType is returned for uploads in a format the extractor does
// not handle.
var ErrUnsupportedType = errors.New("unsupported file type")

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// ExtractText pulls the plain text out of an uploaded resume based on its
// declared MIME type.
func ExtractText(mime string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	switch normalizeMIME(mime) {
	case MIMEPlainText:
		if !utf8.Valid(data) {
			return "", errors.New("text file is not valid utf-8")
		}
		return strings.TrimSpace(string(data)), nil
	case MIMEPDF:
		return extractPDFText(data)
	case MIMEDocx:
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
}

// normalizeMIME drops parameters like "; charset=utf-8".
func normalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	out := strings.TrimSpace(builder.String())
	if out == "" {
		return "", errors.New("pdf contains no extractable text")
	}
	return out, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the document XML; strip the markup down to text.
	content := xmlTag.ReplaceAllString(doc.Editable().GetContent(), " ")
	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return "", errors.New("docx contains no extractable text")
	}
	return content, nil
}
