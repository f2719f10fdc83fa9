package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf/v2"
)

func writeFixturePDF(t *testing.T, pages int) string {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(0, 10, fmt.Sprintf("Clinical notes page %d", i+1))
	}

	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return path
}

func TestRasterizePageCountAndOrder(t *testing.T) {
	svc := NewRasterizerService(85)

	path := writeFixturePDF(t, 3)
	pages, err := svc.Rasterize(context.Background(), path)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("expected 3 encoded pages, got %d", len(pages))
	}

	for i, encoded := range pages {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			t.Fatalf("page %d is not valid base64: %v", i+1, err)
		}
		if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
			t.Fatalf("page %d is not a jpeg", i+1)
		}
	}
}

func TestRasterizeFreshSequencePerCall(t *testing.T) {
	svc := NewRasterizerService(85)

	twoPager := writeFixturePDF(t, 2)
	first, err := svc.Rasterize(context.Background(), twoPager)
	if err != nil {
		t.Fatalf("rasterize first upload: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(first))
	}

	onePager := writeFixturePDF(t, 1)
	second, err := svc.Rasterize(context.Background(), onePager)
	if err != nil {
		t.Fatalf("rasterize second upload: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("second upload must not accumulate prior pages, got %d", len(second))
	}
}

func TestRasterizeRejectsMissingFile(t *testing.T) {
	svc := NewRasterizerService(85)

	if _, err := svc.Rasterize(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRasterizeRejectsNonPDF(t *testing.T) {
	svc := NewRasterizerService(85)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := svc.Rasterize(context.Background(), path); err == nil {
		t.Fatalf("expected error for non-pdf file")
	}
}

func TestRasterizeCancelled(t *testing.T) {
	svc := NewRasterizerService(85)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Rasterize(ctx, writeFixturePDF(t, 2)); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
