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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/voteaudit/database"
	"github.com/blinklabs-io/voteaudit/fragment"
	"github.com/blinklabs-io/voteaudit/internal/config"
	"github.com/spf13/cobra"
)

var errNoArchive = errors.New("archive path required (via --archive or config)")

func importRun(cfg *config.Config, logsPath string) error {
	logger := commonRun()
	if cfg.ArchivePath == "" {
		return errNoArchive
	}
	entries, err := fragment.LoadLogs(logsPath, logger)
	if err != nil {
		return fmt.Errorf("failed to load fragment logs: %w", err)
	}
	archive, err := database.NewArchive(
		database.WithDataDir(cfg.ArchivePath),
		database.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := archive.Append(entries); err != nil {
		_ = archive.Close()
		return err
	}
	count, err := archive.Len()
	if err != nil {
		_ = archive.Close()
		return err
	}
	logger.Info(
		fmt.Sprintf(
			"imported %d fragments, archive holds %d",
			len(entries),
			count,
		),
		"component", programName,
		"archive", cfg.ArchivePath,
	)
	return archive.Close()
}

func importCommand() *cobra.Command {
	var archivePath string
	cmd := &cobra.Command{
		Use:   "import [logs-path]",
		Short: "Import persistent fragment logs into a fragment archive",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			if cmd.Flags().Changed("archive") {
				cfg.ArchivePath = archivePath
			}
			// CLI argument takes priority over config
			logsPath := cfg.LogsPath
			if len(args) == 1 {
				logsPath = args[0]
			}
			if logsPath == "" {
				slog.Error(
					"path to fragment logs required (via argument or logsPath config)",
				)
				os.Exit(1)
			}
			if err := importRun(cfg, logsPath); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().
		StringVar(&archivePath, "archive", "", "path to the fragment archive")
	return cmd
}
