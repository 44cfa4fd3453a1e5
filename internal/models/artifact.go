package models

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UploadedArtifact is a file handed to the pipeline. Size is the size declared
// by the caller; the body is only opened after the input gate has passed.
type UploadedArtifact struct {
	FileName string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Extension returns the lower-cased extension including the dot.
func (a *UploadedArtifact) Extension() string {
	return strings.ToLower(filepath.Ext(a.FileName))
}

// NewBytesArtifact wraps an in-memory body.
func NewBytesArtifact(fileName string, data []byte) *UploadedArtifact {
	return &UploadedArtifact{
		FileName: fileName,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewFileArtifact describes a file on local disk.
func NewFileArtifact(path string) (*UploadedArtifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &UploadedArtifact{
		FileName: filepath.Base(path),
		Size:     info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
