package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StagedArtifact is the request-scoped view of an upload handed to extractors.
// Path is empty when staging on disk is disabled.
type StagedArtifact struct {
	FileName string
	Data     []byte
	Path     string
}

// Stager writes a transient on-disk copy of each upload under a unique name.
type Stager struct {
	dir     string
	enabled bool
	logger  *zap.Logger
}

func NewStager(dir string, enabled bool, logger *zap.Logger) *Stager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Stager{dir: dir, enabled: enabled, logger: logger}
}

// Stage returns the staged artifact and a release func that must be called on
// every exit path. Release never fails; cleanup errors are only logged.
func (s *Stager) Stage(fileName string, data []byte) (*StagedArtifact, func(), error) {
	artifact := &StagedArtifact{FileName: fileName, Data: data}
	if !s.enabled {
		return artifact, func() {}, nil
	}

	path := filepath.Join(s.dir, uuid.NewString()+"-"+filepath.Base(fileName))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create staging file: %w", err)
	}

	release := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to remove staging file", zap.String("path", path), zap.Error(err))
			return
		}
		s.logger.Debug("Staging file removed", zap.String("path", path))
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		release()
		return nil, func() {}, fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		release()
		return nil, func() {}, fmt.Errorf("failed to close staging file: %w", err)
	}

	artifact.Path = path
	s.logger.Debug("Upload staged", zap.String("path", path), zap.Int("bytes", len(data)))
	return artifact, release, nil
}
