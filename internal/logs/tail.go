package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	maxLineBytes = 1024 * 1024
	pollInterval = 250 * time.Millisecond
)

// TailOptions controls Tail. A negative Offset starts from the last Limit
// lines; otherwise reading resumes at Offset.
type TailOptions struct {
	Offset int64
	Limit  int
	Follow bool
	// Wait bounds how long a follow read waits for new lines.
	Wait time.Duration
}

// TailResult carries the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from the log at path. A missing file yields no lines and
// offset zero so callers can poll before the first command has logged.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return TailResult{}, nil
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}
	wait := max(opts.Wait, 0)

	var res TailResult
	if opts.Offset < 0 {
		res.Lines, res.Offset, err = lastLines(path, opts.Limit)
	} else {
		offset := opts.Offset
		if offset > info.Size() {
			offset = info.Size()
		}
		res.Lines, res.Offset, err = linesFrom(path, offset)
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, err
	}
	if opts.Follow && wait > 0 && len(res.Lines) == 0 {
		return awaitLines(ctx, path, res.Offset, wait)
	}
	return res, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// lastLines keeps a ring of the final limit lines. limit <= 0 only reports
// the end offset.
func lastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, end, nil
	}

	ring := make([]string, 0, limit)
	next := 0
	scanner := newScanner(file)
	for scanner.Scan() {
		if len(ring) < limit {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[next] = scanner.Text()
		next = (next + 1) % limit
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	lines := make([]string, 0, len(ring))
	lines = append(lines, ring[next:]...)
	lines = append(lines, ring[:next]...)
	return lines, end, nil
}

func linesFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}
	var lines []string
	scanner := newScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}
	end, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}
	return lines, end, nil
}

// awaitLines polls the file until new lines arrive or wait elapses. An
// fsnotify watch on the log directory wakes it early; polling still runs for
// filesystems that do not deliver events.
func awaitLines(ctx context.Context, path string, offset int64, wait time.Duration) (TailResult, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	if watcher, err := fsnotify.NewWatcher(); err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(path)); err == nil {
			events = watcher.Events
		}
	}

	expired := false
	for {
		lines, end, err := linesFrom(path, offset)
		if err != nil {
			return TailResult{Offset: offset}, err
		}
		if len(lines) > 0 || expired {
			return TailResult{Lines: lines, Offset: end}, nil
		}
		select {
		case <-ctx.Done():
			return TailResult{Offset: end}, ctx.Err()
		case <-timer.C:
			expired = true
		case <-ticker.C:
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
		}
	}
}
