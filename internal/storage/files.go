package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileManager persists uploaded clinical-notes documents under the
// asset directory. Files are written once, read once by the rasterizer,
// and never touched again.
type FileManager struct {
	assetDir       string
	maxUploadBytes int64
}

func NewFileManager(assetDir string, maxUploadBytes int64) (*FileManager, error) {
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", assetDir, err)
	}

	return &FileManager{assetDir: assetDir, maxUploadBytes: maxUploadBytes}, nil
}

// SaveUploadedPDF stores the upload under a random name, so rapid
// concurrent uploads cannot collide the way timestamp names do.
func (fm *FileManager) SaveUploadedPDF(file multipart.File, filename string) (string, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return "", fmt.Errorf("file must be a pdf")
	}

	name := fmt.Sprintf("%s.pdf", uuid.NewString())
	path := filepath.Join(fm.assetDir, name)

	if err := fm.writeWithLimit(path, file); err != nil {
		return "", err
	}

	return path, nil
}

func (fm *FileManager) writeWithLimit(path string, file multipart.File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	cleanup := func(err error) error {
		out.Close()
		os.Remove(path)
		return err
	}

	total := int64(0)
	buf := make([]byte, 32*1024)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			total += int64(n)
			if fm.maxUploadBytes > 0 && total > fm.maxUploadBytes {
				return cleanup(fmt.Errorf("uploaded file exceeds maximum size"))
			}
			if _, werr := out.Write(buf[:n]); werr != nil {
				return cleanup(fmt.Errorf("write upload file: %w", werr))
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return cleanup(fmt.Errorf("read upload content: %w", err))
		}
	}

	if total == 0 {
		return cleanup(fmt.Errorf("uploaded file is empty"))
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close upload file: %w", err)
	}

	return nil
}
