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
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// badgerLogger adapts a slog.Logger to the badger.Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger(logger *slog.Logger) badger.Logger {
	return &badgerLogger{logger: logger}
}

func (b *badgerLogger) Errorf(msg string, args ...any) {
	b.logger.Error(
		fmt.Sprintf("archive: "+msg, args...),
		"component", "database",
	)
}

func (b *badgerLogger) Warningf(msg string, args ...any) {
	b.logger.Warn(
		fmt.Sprintf("archive: "+msg, args...),
		"component", "database",
	)
}

func (b *badgerLogger) Infof(msg string, args ...any) {
	b.logger.Info(
		fmt.Sprintf("archive: "+msg, args...),
		"component", "database",
	)
}

func (b *badgerLogger) Debugf(msg string, args ...any) {
	b.logger.Debug(
		fmt.Sprintf("archive: "+msg, args...),
		"component", "database",
	)
}
