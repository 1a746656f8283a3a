package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"hiring-backend/internal/shared/storage/object"
)

// Source kinds reported alongside extracted text. The resume parser
// keys its format confidence bonus on these.
const (
	KindPDF  = "pdf"
	KindDOCX = "docx"
	KindTXT  = "txt"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Text pulls plain text from a stored resume and reports the source
// kind. A derived <key>.extracted.txt copy is persisted next to the
// original so reparses and support can read exactly what the parser saw.
// Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX).
func Text(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", "", fmt.Errorf("open object key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", "", fmt.Errorf("read object key=%s: %w", fileKey, err)
	}

	text, kind, err := FromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", "", fmt.Errorf("extract key=%s: %w", fileKey, err)
	}

	if err := saveExtracted(ctx, store, fileKey+".extracted.txt", text); err != nil {
		return "", "", fmt.Errorf("persist extracted text key=%s: %w", fileKey, err)
	}
	return text, kind, nil
}

// FromBytes extracts text from an in-memory resume payload.
func FromBytes(ctx context.Context, data []byte, mimeType, fileName string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	switch kind := detectKind(mimeType, fileName, data); kind {
	case KindPDF:
		text, err := extractPDF(data)
		return text, kind, err
	case KindDOCX:
		text, err := extractDOCX(data)
		return text, kind, err
	case KindTXT:
		if !utf8.Valid(data) {
			return "", "", errors.New("text file is not valid UTF-8")
		}
		return string(data), kind, nil
	default:
		return "", "", fmt.Errorf("unsupported resume format: mime=%q name=%q", mimeType, fileName)
	}
}

// detectKind decides the resume format from mime type, then file
// extension, then content sniffing. Uploads often arrive with a
// generic or missing content type, so no single signal is trusted.
func detectKind(mimeType, fileName string, data []byte) string {
	switch clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])); clean {
	case mimePDF:
		return KindPDF
	case mimeDOCX:
		return KindDOCX
	case "text/plain", "text/markdown":
		return KindTXT
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return KindPDF
	case ".docx", ".doc":
		return KindDOCX
	case ".txt", ".md":
		return KindTXT
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return KindPDF
	}
	if bytes.HasPrefix(data, []byte("PK")) && zipHasWordDocument(data) {
		return KindDOCX
	}
	return ""
}

func zipHasWordDocument(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func saveExtracted(ctx context.Context, store object.ObjectStore, key, text string) error {
	saver, ok := store.(keySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	_, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text))
	return err
}

func extractPDF(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML flattens document.xml to plain text, turning paragraph
// and line-break ends into newlines.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
