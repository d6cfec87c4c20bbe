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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// LogEntry is a fragment as recorded in the persistent fragment log. Raw
// fragments without sequencing metadata have a zero Time.
type LogEntry struct {
	Time     time.Time
	Fragment *Fragment
}

type logRecord struct {
	cbor.StructAsArray
	Seconds  uint64
	Nanos    uint32
	Fragment []byte
}

// EncodeLogEntry returns the on-disk encoding of a log entry
func EncodeLogEntry(entry LogEntry) ([]byte, error) {
	fragmentCbor, err := entry.Fragment.Cbor()
	if err != nil {
		return nil, err
	}
	record := logRecord{
		Fragment: fragmentCbor,
	}
	if !entry.Time.IsZero() {
		unix := entry.Time.Unix()
		if unix < 0 {
			return nil, fmt.Errorf("log entry time %s before unix epoch", entry.Time)
		}
		record.Seconds = uint64(unix)
		record.Nanos = uint32(entry.Time.Nanosecond()) //nolint:gosec
	}
	return cbor.Encode(&record)
}

// DecodeLogEntry decodes a single log entry from the start of data and
// returns the number of bytes consumed
func DecodeLogEntry(data []byte) (LogEntry, int, error) {
	var ret LogEntry
	var record logRecord
	n, err := cbor.Decode(data, &record)
	if err != nil {
		return ret, n, fmt.Errorf("%w: %w", ErrCorruptLogEntry, err)
	}
	if record.Seconds > 0 || record.Nanos > 0 {
		if record.Seconds > uint64(1<<62) {
			return ret, n, fmt.Errorf(
				"%w: time %d out of range",
				ErrCorruptLogEntry,
				record.Seconds,
			)
		}
		ret.Time = time.Unix(int64(record.Seconds), int64(record.Nanos)).UTC()
	}
	ret.Fragment, err = Decode(record.Fragment)
	if err != nil {
		return ret, n, err
	}
	return ret, n, nil
}

// WriteLog writes entries to a persistent fragment log
func WriteLog(w io.Writer, entries []LogEntry) error {
	for idx, entry := range entries {
		data, err := EncodeLogEntry(entry)
		if err != nil {
			return fmt.Errorf("encode log entry %d: %w", idx, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write log entry %d: %w", idx, err)
		}
	}
	return nil
}

// ReadLog reads all entries of a persistent fragment log. Entries whose
// fragment cannot be decoded are skipped. A corrupt record stops the read and
// is returned along with the entries read so far, since the following record
// boundary is unknown.
func ReadLog(r io.Reader, logger *slog.Logger) ([]LogEntry, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fragment log: %w", err)
	}
	var ret []LogEntry
	var offset int
	for offset < len(data) {
		entry, n, err := DecodeLogEntry(data[offset:])
		if err != nil {
			if errors.Is(err, ErrMalformedFragment) && n > 0 {
				logger.Warn(
					"skipping undecodable fragment",
					"component", "fragment",
					"offset", offset,
					"error", err,
				)
				offset += n
				continue
			}
			return ret, fmt.Errorf("offset %d: %w", offset, err)
		}
		ret = append(ret, entry)
		offset += n
	}
	return ret, nil
}

// LoadLogs reads every fragment log in a directory, in file name order. A
// corrupt record ends the file it appears in with a warning, as happens when
// a node is stopped while writing.
func LoadLogs(dir string, logger *slog.Logger) ([]LogEntry, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fragment log dir: %w", err)
	}
	var fileNames []string
	for _, dirEntry := range dirEntries {
		if !dirEntry.Type().IsRegular() {
			continue
		}
		fileNames = append(fileNames, dirEntry.Name())
	}
	slices.Sort(fileNames)
	var ret []LogEntry
	for _, fileName := range fileNames {
		filePath := filepath.Join(dir, fileName)
		entries, err := readLogFile(filePath, logger)
		if err != nil {
			if !errors.Is(err, ErrCorruptLogEntry) {
				return nil, err
			}
			logger.Warn(
				"fragment log ended with a corrupt entry",
				"component", "fragment",
				"file", filePath,
				"error", err,
			)
		}
		logger.Debug(
			"loaded fragment log",
			"component", "fragment",
			"file", filePath,
			"entries", len(entries),
		)
		ret = append(ret, entries...)
	}
	return ret, nil
}

func readLogFile(path string, logger *slog.Logger) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fragment log %s disappeared: %w", path, err)
		}
		return nil, fmt.Errorf("open fragment log: %w", err)
	}
	defer f.Close()
	entries, err := ReadLog(f, logger)
	if err != nil {
		return entries, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
