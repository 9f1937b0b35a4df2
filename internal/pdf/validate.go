package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfSignature is the magic number every PDF file starts with.
var pdfSignature = []byte("%PDF")

// InvalidDocumentError reports a file that failed structural validation.
type InvalidDocumentError struct {
	Path   string
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid PDF file %s: %s", filepath.Base(e.Path), e.Reason)
}

// ValidateFile checks that a file exists, carries the .pdf extension, and
// starts with the PDF signature. This is the cheap structural check used
// to filter batch inputs.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &InvalidDocumentError{Path: path, Reason: "file does not exist"}
	}
	if info.IsDir() {
		return &InvalidDocumentError{Path: path, Reason: "path is a directory"}
	}
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return &InvalidDocumentError{Path: path, Reason: "not a .pdf file"}
	}

	f, err := os.Open(path)
	if err != nil {
		return &InvalidDocumentError{Path: path, Reason: fmt.Sprintf("cannot open: %v", err)}
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(pdfSignature))
	if _, err := f.Read(header); err != nil {
		return &InvalidDocumentError{Path: path, Reason: "file too short"}
	}
	if !bytes.Equal(header, pdfSignature) {
		return &InvalidDocumentError{Path: path, Reason: "missing %PDF signature"}
	}
	return nil
}

// ValidateStructure parses the file's cross-reference structure and
// returns its page count. Deeper than ValidateFile; used in single-file
// mode where an invalid document is a fatal error.
func ValidateStructure(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, &InvalidDocumentError{Path: path, Reason: err.Error()}
	}
	return ctx.PageCount, nil
}

// FileSizeMB returns the file size in megabytes rounded to two decimals.
func FileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	mb := float64(info.Size()) / (1024 * 1024)
	return float64(int(mb*100+0.5)) / 100
}
