// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/metrics"
	"github.com/tomtom215/eventpulse/internal/models"
)

const (
	keyPrefix          = "file:"
	defaultContentType = "application/octet-stream"
	maxBaseNameLength  = 100
)

// Store saves uploads under a directory and indexes them in BadgerDB.
type Store struct {
	dir     string
	baseURL string
	maxSize int64
	index   *badger.DB
	now     func() time.Time
}

// NewStore creates the upload directory and opens the index. An empty
// IndexPath keeps the index in memory.
func NewStore(cfg *config.UploadsConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	opts := badger.DefaultOptions(cfg.IndexPath).WithLogger(badgerLogger{})
	if cfg.IndexPath == "" {
		opts = opts.WithInMemory(true)
	}
	index, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open upload index: %w", err)
	}

	return &Store{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		maxSize: cfg.MaxSize,
		index:   index,
		now:     time.Now,
	}, nil
}

// Close closes the index.
func (s *Store) Close() error {
	return s.index.Close()
}

// MaxSize returns the largest accepted upload in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save writes r to a new uniquely named file and indexes it. Uploads larger
// than the configured maximum are rejected with a validation error and
// leave nothing behind.
func (s *Store) Save(ctx context.Context, originalName, contentType, uploadedBy string, r io.Reader) (info *models.FileInfo, err error) {
	defer func() {
		var size int64
		if info != nil {
			size = info.FileSize
		}
		metrics.RecordFileUpload(size, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := uniqueName(originalName)
	if contentType == "" {
		contentType = guessContentType(name)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	written, err := io.Copy(tmp, io.LimitReader(r, s.maxSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxSize {
		return nil, models.NewValidationError("file", fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxSize))
	}

	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	info = &models.FileInfo{
		FileName:   name,
		FileURL:    s.baseURL + "/" + url.PathEscape(name),
		FileSize:   written,
		FileType:   contentType,
		UploadedBy: uploadedBy,
		UploadedAt: s.now().UTC(),
	}
	if err = s.putRecord(info); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("file_name", name).
		Int64("file_size", written).
		Str("file_type", contentType).
		Msg("file uploaded")
	return info, nil
}

// Open returns the stored file and its metadata. The caller closes the file.
// Names containing path separators or dot segments are a validation error.
func (s *Store) Open(ctx context.Context, name string) (*os.File, *models.FileInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, models.NotFound("file", name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}

	info, err := s.getRecord(name)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if info == nil {
		// Present on disk but never indexed, e.g. copied in by hand.
		stat, statErr := f.Stat()
		if statErr != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("stat upload: %w", statErr)
		}
		info = &models.FileInfo{
			FileName:   name,
			FileURL:    s.baseURL + "/" + url.PathEscape(name),
			FileSize:   stat.Size(),
			FileType:   guessContentType(name),
			UploadedAt: stat.ModTime().UTC(),
		}
	}
	return f, info, nil
}

// ValidateName rejects anything other than a bare file name.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return models.NewValidationError("name", "invalid file name")
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."), strings.ContainsRune(name, 0):
		return models.NewValidationError("name", "invalid file name")
	case filepath.Base(name) != name:
		return models.NewValidationError("name", "invalid file name")
	}
	return nil
}

func (s *Store) putRecord(info *models.FileInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal file record: %w", err)
	}
	err = s.index.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+info.FileName), data)
	})
	if err != nil {
		return fmt.Errorf("index upload: %w", err)
	}
	return nil
}

// getRecord returns nil, nil when name is not indexed.
func (s *Store) getRecord(name string) (*models.FileInfo, error) {
	var info *models.FileInfo
	err := s.index.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			info = &models.FileInfo{}
			return json.Unmarshal(val, info)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load file record: %w", err)
	}
	return info, nil
}

// uniqueName turns "photo.png" into "photo_<hex>.png".
func uniqueName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '.':
			return '_'
		}
		return -1
	}, stem)
	if len(stem) > maxBaseNameLength {
		stem = stem[:maxBaseNameLength]
	}
	if stem == "" {
		stem = "file"
	}
	if ext == "." || strings.ContainsAny(ext, `/\`) || len(ext) > 16 {
		ext = ""
	}

	return stem + "_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

func guessContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}

// badgerLogger routes BadgerDB's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "upload-index").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "upload-index").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "upload-index").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Str("component", "upload-index").Msgf(strings.TrimSpace(format), args...)
}
