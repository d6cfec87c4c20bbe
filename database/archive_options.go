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

package database

import (
	"log/slog"
)

type ArchiveOptionFunc func(*Archive)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ArchiveOptionFunc {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithDataDir specifies the data directory to use for storage. An empty data
// dir keeps the archive in memory.
func WithDataDir(dataDir string) ArchiveOptionFunc {
	return func(a *Archive) {
		a.dataDir = dataDir
	}
}
