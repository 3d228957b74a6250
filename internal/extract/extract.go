// Package extract converts uploaded documents into plain text.
//
// Dispatch happens on the declared MIME type of the input. The input
// stream is consumed exactly once; callers must not assume it stays
// readable. Extraction failures never escape as panics.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/dslipak/pdf"
	"github.com/gabriel-vasile/mimetype"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedType marks declared content types the extractor cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

const (
	TypePDF  = "application/pdf"
	TypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"

	ocrLanguage = "eng"
)

// Service extracts plain text from documents.
type Service struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// TypeFromFilename maps a file extension to the declared content type.
// Returns an empty string when the extension is not recognized; Extract
// then falls back to content sniffing.
func TypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDocx
	case ".txt", ".md":
		return "text/plain"
	case ".png":
		return TypePNG
	case ".jpg", ".jpeg":
		return TypeJPEG
	default:
		return ""
	}
}

// Extract reads the input once and converts it to plain text according to the
// declared content type. An empty declaredType triggers content sniffing.
// On any failure the returned text is empty and the error describes the cause;
// ErrUnsupportedType is returned for types outside the supported set.
func (s *Service) Extract(ctx context.Context, r io.Reader, declaredType string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	mediaType := normalizeType(declaredType)
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
		if idx := strings.IndexByte(mediaType, ';'); idx != -1 {
			mediaType = mediaType[:idx]
		}
		s.logger.Debug("detected content type", zap.String("type", mediaType))
	}

	// Third-party parsers are not trusted to stay panic-free on
	// malformed input.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extraction panic: %v", r)
		}
	}()

	switch {
	case mediaType == TypePDF:
		return extractPDF(data)
	case mediaType == TypeDocx:
		return extractDocx(data)
	case strings.HasPrefix(mediaType, "text/"):
		return string(data), nil
	case mediaType == TypePNG || mediaType == TypeJPEG:
		return extractImage(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
}

func normalizeType(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(declared)
	}
	return mediaType
}

// extractPDF returns the visible text of every page joined with newlines,
// in page order.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", n, err)
		}
		pages = append(pages, content)
	}

	return strings.Join(pages, "\n"), nil
}

// extractDocx returns every paragraph's text joined with newlines, in
// document order.
func extractDocx(data []byte) (string, error) {
	content, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("extract docx: %w", err)
	}
	return content, nil
}

// extractImage runs English-only OCR and joins the detected fragments with
// single spaces in the order the engine reports them.
func extractImage(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(ocrLanguage); err != nil {
		return "", fmt.Errorf("configure ocr language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("load image for ocr: %w", err)
	}

	content, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}

	return strings.Join(strings.Fields(content), " "), nil
}
