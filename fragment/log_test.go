// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fragment

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogEntries(t *testing.T, count int, start time.Time) []LogEntry {
	t.Helper()
	ret := make([]LogEntry, 0, count)
	for i := range count {
		tx := NewAccountVoteCast(
			testAccount(byte(i)),
			testVotePlan(1),
			uint8(i),
			1,
			counter(uint32(i)),
		)
		ret = append(ret, LogEntry{
			Time:     start.Add(time.Duration(i) * time.Second),
			Fragment: mustVoteCast(t, tx),
		})
	}
	return ret
}

func requireSameEntries(t *testing.T, expected, actual []LogEntry) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.True(
			t,
			expected[i].Time.Equal(actual[i].Time),
			"entry %d: expected time %s, got %s",
			i,
			expected[i].Time,
			actual[i].Time,
		)
		expectedID, err := expected[i].Fragment.ID()
		require.NoError(t, err)
		actualID, err := actual[i].Fragment.ID()
		require.NoError(t, err)
		require.Equal(t, expectedID, actualID, "entry %d", i)
	}
}

func TestLogRoundTrip(t *testing.T) {
	entries := testLogEntries(t, 5, time.Unix(1600000000, 500).UTC())
	// Raw fragment without sequencing metadata
	entries = append(entries, LogEntry{Fragment: New(KindTransaction, []byte{0x01})})

	var buf bytes.Buffer
	require.NoError(t, WriteLog(&buf, entries))

	decoded, err := ReadLog(&buf, nil)
	require.NoError(t, err)
	requireSameEntries(t, entries, decoded)
	require.True(t, decoded[5].Time.IsZero())
	require.Equal(t, KindTransaction, decoded[5].Fragment.Kind)
}

func TestReadLogTruncated(t *testing.T) {
	entries := testLogEntries(t, 3, time.Unix(1600000000, 0).UTC())
	var buf bytes.Buffer
	require.NoError(t, WriteLog(&buf, entries))
	data := buf.Bytes()

	decoded, err := ReadLog(bytes.NewReader(data[:len(data)-3]), nil)
	require.ErrorIs(t, err, ErrCorruptLogEntry)
	requireSameEntries(t, entries[:2], decoded)
}

func TestLoadLogs(t *testing.T) {
	dir := t.TempDir()
	start := time.Unix(1600000000, 0).UTC()
	entries := testLogEntries(t, 6, start)

	writeFile := func(name string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	var first, second bytes.Buffer
	require.NoError(t, WriteLog(&first, entries[:3]))
	require.NoError(t, WriteLog(&second, entries[3:]))
	// Written out of order to check that files are read by name
	secondData := second.Bytes()
	writeFile("0002", secondData[:len(secondData)-1])
	writeFile("0001", first.Bytes())
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	loaded, err := LoadLogs(dir, nil)
	require.NoError(t, err)
	requireSameEntries(t, entries[:5], loaded)
}

func TestLoadLogsMissingDir(t *testing.T) {
	_, err := LoadLogs(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}
