// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package auditlog is a small rotating, asynchronous file writer. overlaydb
// uses it as an optional sink to record one line per Commit/Revert - a
// cheap audit trail an operator can tail, independent of the structured
// log.Logger output used on the hot path.
package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// backupTimeFormat names rotated files as "<path>.<timestamp>".
const backupTimeFormat = "2006010215"

// Writer asynchronously appends to filePath, rotating to a timestamped
// backup when the file grows past maxSizeMB or when a rotateHours
// boundary is crossed, and pruning backups older than
// maxBackups*rotateHours.
type Writer struct {
	filePath    string
	maxSizeMB   uint
	maxBackups  uint
	rotateHours uint

	mu        sync.Mutex
	file      *os.File
	size      uint
	nextCheck time.Time

	queue chan []byte
	done  chan struct{}
}

// NewAsyncFileWriter constructs a Writer. Nothing is opened or started
// until Start is called.
func NewAsyncFileWriter(filePath string, maxSizeMB, maxBackups, rotateHours uint) *Writer {
	return &Writer{
		filePath:    filePath,
		maxSizeMB:   maxSizeMB,
		maxBackups:  maxBackups,
		rotateHours: rotateHours,
		queue:       make(chan []byte, 256),
		done:        make(chan struct{}),
	}
}

// Start opens the file and begins the background writer goroutine.
func (w *Writer) Start() error {
	if err := os.MkdirAll(filepath.Dir(w.filePath), 0o755); err != nil && !os.IsNotExist(err) {
		return err
	}
	f, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.file = f
	w.size = uint(info.Size())
	w.nextCheck = nextRotationBoundary(time.Now(), w.rotateHours)

	go w.loop()
	return nil
}

// Write enqueues p to be appended asynchronously. It never blocks on disk
// I/O; a full queue blocks only on the channel send.
func (w *Writer) Write(p []byte) (int, error) {
	buf := append([]byte(nil), p...)
	w.queue <- buf
	return len(p), nil
}

// Stop drains the queue and closes the file.
func (w *Writer) Stop() {
	close(w.queue)
	<-w.done
}

func (w *Writer) loop() {
	defer close(w.done)
	for p := range w.queue {
		w.mu.Lock()
		w.writeLocked(p)
		w.mu.Unlock()
	}
	w.mu.Lock()
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	w.mu.Unlock()
}

func (w *Writer) writeLocked(p []byte) {
	now := time.Now()
	if (w.maxSizeMB != 0 && w.size+uint(len(p)) > w.maxSizeMB<<20) || !now.Before(w.nextCheck) {
		w.rotateLocked(now)
	}
	n, err := w.file.Write(p)
	if err == nil {
		w.size += uint(n)
	}
	w.removeExpiredFile()
}

func (w *Writer) rotateLocked(now time.Time) {
	backup := w.filePath + "." + now.Format(backupTimeFormat)
	os.Rename(w.filePath, backup)

	f, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// Keep going with the old handle rather than losing audit lines.
		return
	}
	if w.file != nil {
		w.file.Close()
	}
	w.file = f
	w.size = 0
	w.nextCheck = nextRotationBoundary(now, w.rotateHours)
}

// nextRotationBoundary returns the next wall-clock instant at which a time
// based rotation should occur, delta hours after now.
func nextRotationBoundary(now time.Time, delta uint) time.Time {
	return now.Add(time.Duration(delta) * time.Hour)
}

// getNextRotationHour returns the hour-of-day (0-23) delta hours after
// now, wrapping at midnight.
func getNextRotationHour(now time.Time, delta uint) int {
	return (now.Hour() + int(delta)) % 24
}

// backupFiles lists every rotated backup of filePath with its parsed
// timestamp, oldest first.
func backupFiles(filePath string) []struct {
	path string
	when time.Time
} {
	dir := filepath.Dir(filePath)
	prefix := filepath.Base(filePath) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []struct {
		path string
		when time.Time
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		ts := strings.TrimPrefix(name, prefix)
		when, err := time.ParseInLocation(backupTimeFormat, ts, time.Local)
		if err != nil {
			continue
		}
		out = append(out, struct {
			path string
			when time.Time
		}{path: filepath.Join(dir, name), when: when})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].when.Before(out[j].when) })
	return out
}

// getExpiredFile returns the oldest backup of filePath that has aged past
// maxBackups*rotateHours, or "" if none has.
func (w *Writer) getExpiredFile(filePath string, maxBackups, rotateHours uint) string {
	cutoff := time.Now().Add(-time.Duration(maxBackups*rotateHours) * time.Hour)
	for _, f := range backupFiles(filePath) {
		if f.when.Before(cutoff) {
			return f.path
		}
	}
	return ""
}

// removeExpiredFile deletes every backup older than the retention window.
func (w *Writer) removeExpiredFile() {
	cutoff := time.Now().Add(-time.Duration(w.maxBackups*w.rotateHours) * time.Hour)
	for _, f := range backupFiles(w.filePath) {
		if f.when.Before(cutoff) {
			os.Remove(f.path)
		} else {
			break
		}
	}
}

// Line formats a single audit entry the way overlaydb writes one per
// Commit/Revert call.
func Line(op string, touched int, err error) []byte {
	if err != nil {
		return []byte(fmt.Sprintf("%s op=%s touched=%d err=%q\n", time.Now().Format(time.RFC3339), op, touched, err))
	}
	return []byte(fmt.Sprintf("%s op=%s touched=%d\n", time.Now().Format(time.RFC3339), op, touched))
}
