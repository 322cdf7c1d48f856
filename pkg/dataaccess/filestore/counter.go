package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	counterStoreName = "counter"

	// CounterFileName is the name of the counter file inside the data
	// directory. The file holds the last issued number as decimal text.
	CounterFileName = "ticket_counter.txt"
)

// Counter is the file backed ticket number counter. The read-increment-write
// cycle runs under an exclusive lock, so concurrent allocations are
// serialized.
type Counter struct {
	// l is the logger.
	l *slog.Logger

	// path is the counter file path.
	path string
}

// NewCounter creates a counter stored in the given data directory.
func NewCounter(dataDir string) dataaccess.CounterDal {
	return &Counter{
		l:    slog.Default().With(slog.String(logging.KeyStore, counterStoreName)),
		path: dataDir + string(os.PathSeparator) + CounterFileName,
	}
}

func (c *Counter) Next(ctx context.Context) (int, error) {
	t := observe(counterStoreName, "next")
	defer t.ObserveDuration()

	lock, err := acquireLock(c.path)
	if err != nil {
		return 0, fmt.Errorf("error locking counter: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	last := 0
	raw, err := os.ReadFile(c.path)
	switch {
	case err == nil:
		// Non-numeric content restarts the sequence from zero.
		if n, convErr := strconv.Atoi(strings.TrimSpace(string(raw))); convErr == nil && n > 0 {
			last = n
		} else {
			c.l.Warn("Counter file is not a number, restarting from zero",
				slog.String("content", strings.TrimSpace(string(raw))))
		}
	case os.IsNotExist(err):
		// First allocation: last stays 0, the first issued number is 1.
	default:
		return 0, fmt.Errorf("error reading counter: %w", errors.Join(dataaccess.ErrStorage, err))
	}

	next := last + 1
	if err := atomic.WriteFile(c.path, bytes.NewReader([]byte(strconv.Itoa(next)))); err != nil {
		return 0, fmt.Errorf("error writing counter: %w", errors.Join(dataaccess.ErrStorage, err))
	}

	return next, nil
}
