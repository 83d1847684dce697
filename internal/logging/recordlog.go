// Package logging keeps a daily-rotated, gzip-compressed log of decoded
// Remote ID records.
package logging

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	filePrefix    = "odid_"
	fileExtension = ".log"
	dateLayout    = "2006-01-02"

	// RotationCheckInterval is how often Start looks for a date change
	RotationCheckInterval = time.Minute
)

// ErrClosed is returned when writing to a closed record log
var ErrClosed = errors.New("record log closed")

// RecordLog is an io.Writer over one file per day. When the date changes
// the previous file is compressed to .log.gz in the background.
type RecordLog struct {
	dir    string
	useUTC bool
	logger *logrus.Logger
	now    func() time.Time

	mutex       sync.Mutex
	currentFile *os.File // nil after a failed open until the next retry
	currentDate string
	closed      bool

	compressing sync.WaitGroup
}

// NewRecordLog creates the log directory and opens today's file
func NewRecordLog(dir string, useUTC bool, logger *logrus.Logger) (*RecordLog, error) {
	return newRecordLog(dir, useUTC, logger, time.Now)
}

func newRecordLog(dir string, useUTC bool, logger *logrus.Logger, now func() time.Time) (*RecordLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	r := &RecordLog{
		dir:    dir,
		useUTC: useUTC,
		logger: logger,
		now:    now,
	}

	r.mutex.Lock()
	err := r.openLocked(r.today())
	r.mutex.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log file: %w", err)
	}

	return r, nil
}

// Start checks for a date change every minute until ctx is done
func (r *RecordLog) Start(ctx context.Context) {
	r.logger.Info("Starting record log rotation")

	ticker := time.NewTicker(RotationCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Record log rotation stopping")
			return
		case <-ticker.C:
			if err := r.Rotate(); err != nil {
				r.logger.WithError(err).Error("Failed to rotate record log")
			}
		}
	}
}

// Write appends p to today's file, rotating first if the date changed
func (r *RecordLog) Write(p []byte) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.ensureOpenLocked(); err != nil {
		return 0, err
	}

	return r.currentFile.Write(p)
}

// Rotate switches to a new file if the date changed
func (r *RecordLog) Rotate() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.ensureOpenLocked()
}

// ensureOpenLocked makes currentFile today's file. A file that failed to
// open earlier is retried here.
func (r *RecordLog) ensureOpenLocked() error {
	if r.closed {
		return ErrClosed
	}

	date := r.today()
	if r.currentFile == nil {
		return r.openLocked(date)
	}
	if date == r.currentDate {
		return nil
	}
	return r.rotateLocked(date)
}

// CurrentFile returns the path of the file being written
func (r *RecordLog) CurrentFile() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate == "" {
		return ""
	}
	return r.path(r.currentDate)
}

// Files lists every record log file, compressed or not
func (r *RecordLog) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, filePrefix+"*"+fileExtension+"*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	return files, nil
}

// Cleanup removes files last modified more than maxDays ago
func (r *RecordLog) Cleanup(maxDays int) (int, error) {
	if maxDays <= 0 {
		return 0, fmt.Errorf("maxDays must be positive")
	}

	files, err := r.Files()
	if err != nil {
		return 0, err
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	current := r.CurrentFile()

	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat log file")
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				r.logger.WithError(err).WithField("file", file).Error("Failed to remove old log file")
				continue
			}
			removed++
		}
	}

	r.logger.WithField("count", removed).Info("Cleaned up old record logs")
	return removed, nil
}

// Close closes the current file and waits for pending compression
func (r *RecordLog) Close() error {
	r.mutex.Lock()
	var err error
	r.closed = true
	if r.currentFile != nil {
		err = r.currentFile.Close()
		r.currentFile = nil
	}
	r.mutex.Unlock()

	r.compressing.Wait()
	return err
}

func (r *RecordLog) today() string {
	now := r.now()
	if r.useUTC {
		now = now.UTC()
	}
	return now.Format(dateLayout)
}

func (r *RecordLog) path(date string) string {
	return filepath.Join(r.dir, filePrefix+date+fileExtension)
}

// rotateLocked closes the current file, schedules its compression and opens date's file
func (r *RecordLog) rotateLocked(date string) error {
	oldDate := r.currentDate

	r.logger.WithFields(logrus.Fields{
		"old_date": oldDate,
		"new_date": date,
	}).Info("Rotating record log")

	if err := r.currentFile.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close old log file")
	}
	r.currentFile = nil

	r.compressing.Add(1)
	go func() {
		defer r.compressing.Done()
		if err := compressFile(r.path(oldDate)); err != nil {
			r.logger.WithError(err).WithField("date", oldDate).Error("Failed to compress record log")
			return
		}
		r.logger.WithField("date", oldDate).Info("Record log compressed")
	}()

	return r.openLocked(date)
}

func (r *RecordLog) openLocked(date string) error {
	path := r.path(date)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = date

	r.logger.WithField("file", path).Info("Opened record log")
	return nil
}

// compressFile gzips path to path.gz and removes the original
func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("failed to create %s.gz: %w", path, err)
	}

	gz := gzip.NewWriter(dst)
	gz.Name = filepath.Base(path)
	gz.ModTime = time.Now()

	if _, err := io.Copy(gz, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err := gz.Close(); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to flush %s.gz: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s.gz: %w", path, err)
	}

	return os.Remove(path)
}
