package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// RasterizerService converts an uploaded PDF into Base64-encoded JPEG
// page images, in document page order.
type RasterizerService struct {
	quality int
}

func NewRasterizerService(jpegQuality int) *RasterizerService {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 85
	}
	return &RasterizerService{quality: jpegQuality}
}

// Rasterize returns one Base64 string per page. The returned slice is a
// fresh allocation on every call; callers replace any previously held
// sequence rather than appending to it.
func (s *RasterizerService) Rasterize(ctx context.Context, pdfPath string) ([]string, error) {
	if err := validatePDFPath(pdfPath); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages: %s", pdfPath)
	}

	encoded := make([]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", pageNum+1, err)
		}

		buf := &bytes.Buffer{}
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", pageNum+1, err)
		}

		encoded = append(encoded, base64.StdEncoding.EncodeToString(buf.Bytes()))
	}

	return encoded, nil
}

func validatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("pdf path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat pdf: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a pdf: %s", path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return fmt.Errorf("file is not a pdf: %s", path)
	}
	return nil
}
