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

package auditlog

import (
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriterHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewAsyncFileWriter(dir+"/hello.log", 100, 1, 1)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Write([]byte("hello\n"))
	w.Write([]byte("world\n"))
	w.Stop()

	files, _ := os.ReadDir(dir)
	var found bool
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "hello") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a log file starting with hello.log in %s", dir)
	}
}

func TestGetNextRotationHour(t *testing.T) {
	tcs := []struct {
		now          time.Time
		delta        uint
		expectedHour int
	}{
		{
			now:          time.Date(1980, 1, 6, 15, 34, 0, 0, time.UTC),
			delta:        3,
			expectedHour: 18,
		},
		{
			now:          time.Date(1980, 1, 6, 23, 59, 0, 0, time.UTC),
			delta:        1,
			expectedHour: 0,
		},
		{
			now:          time.Date(1980, 1, 6, 22, 15, 0, 0, time.UTC),
			delta:        2,
			expectedHour: 0,
		},
		{
			now:          time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC),
			delta:        1,
			expectedHour: 1,
		},
	}

	test := func(now time.Time, delta uint, expectedHour int) func(*testing.T) {
		return func(t *testing.T) {
			got := getNextRotationHour(now, delta)
			if got != expectedHour {
				t.Fatalf("Expected %d, found: %d\n", expectedHour, got)
			}
		}
	}

	for i, tc := range tcs {
		t.Run("TestGetNextRotationHour_"+strconv.Itoa(i), test(tc.now, tc.delta, tc.expectedHour))
	}
}

func TestRemoveExpiredFile(t *testing.T) {
	dir := t.TempDir()
	w := NewAsyncFileWriter(dir+"/core.log", 100, 1, 1)

	fakeCurrentTime := time.Now()
	var name string
	for i := 0; i < 5; i++ {
		name = w.filePath + "." + fakeCurrentTime.Format(backupTimeFormat)
		if err := os.WriteFile(name, []byte("data"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		fakeCurrentTime = fakeCurrentTime.Add(-time.Hour)
	}

	oldFile := w.getExpiredFile(w.filePath, w.maxBackups, w.rotateHours)
	w.removeExpiredFile()

	_, err := os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
}
