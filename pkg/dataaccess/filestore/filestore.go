// Package filestore holds the JSON file backed implementations of the
// durable stores. The file layouts are a contract: the web panel and older
// tooling read the same files, so shapes and key names must not change.
//
// Every mutation loads the whole file, changes it in memory and writes it
// back atomically while holding an exclusive lock on a .lock sidecar file.
// Read paths that hit a missing or undecodable file substitute the empty
// default; write failures are always surfaced.
package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/natefinch/atomic"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/dataaccess/monitoring"
)

const (
	// lockTimeout is the timeout for acquiring a file lock.
	lockTimeout = 5 * time.Second

	// lockRetryInterval is the wait between lock attempts.
	lockRetryInterval = 10 * time.Millisecond

	filePerms = 0o644
	dirPerms  = 0o755
)

var (
	errLockTimeout  = errors.New("lock timeout")
	errLockFileOpen = errors.New("failed to open lock file")
)

// fileLock represents an exclusive lock on a file, held through a .lock
// sidecar so the data file itself can be atomically replaced.
type fileLock struct {
	file *os.File
}

// acquireLock tries to acquire an exclusive lock for the given data file.
// The file's directory is created first so stores work on a fresh data
// directory.
func acquireLock(path string) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return nil, fmt.Errorf("%w: %w", errLockFileOpen, err)
	}

	lockPath := path + ".lock"

	file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
	if openErr != nil {
		return nil, fmt.Errorf("%w: %w", errLockFileOpen, openErr)
	}

	deadline := time.Now().Add(lockTimeout)
	for {
		flockErr := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if flockErr == nil {
			return &fileLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
		}

		time.Sleep(lockRetryInterval)
	}
}

// release releases the lock.
func (l *fileLock) release() {
	if l.file != nil {
		_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
		_ = l.file.Close()
	}
}

// observe records metrics for one store operation and returns the latency
// timer.
func observe(store, op string) *prometheus.Timer {
	monitoring.FileStoreTotalRequests.WithLabelValues(store, op).Inc()
	return prometheus.NewTimer(monitoring.FileStoreLatency.WithLabelValues(store, op))
}

// loadJSON reads and decodes the file at path into v. A missing file or a
// decode failure leaves v untouched so the caller keeps its empty default;
// decode failures are logged, never returned. Only genuine read errors are
// returned.
func loadJSON(l *slog.Logger, path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		l.Warn("Undecodable store file, substituting empty default",
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// writeJSON encodes v and atomically replaces the file at path. Failures wrap
// dataaccess.ErrStorage.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return fmt.Errorf("error creating store directory: %w", errors.Join(dataaccess.ErrStorage, err))
	}

	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, errors.Join(dataaccess.ErrStorage, err))
	}

	if err := atomic.WriteFile(path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("error writing %s: %w", path, errors.Join(dataaccess.ErrStorage, err))
	}
	return nil
}
