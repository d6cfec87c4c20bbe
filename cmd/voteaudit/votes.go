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
	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/blinklabs-io/voteaudit/recovery"
	"github.com/blinklabs-io/voteaudit/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var errNoFragmentSource = errors.New(
	"fragment logs required (via --logs, --archive or config)",
)

var votesFlags = struct {
	block0          string
	logs            string
	archive         string
	output          string
	format          string
	metricsFile     string
	blockRangeStart uint32
	blockRangeEnd   uint32
}{}

// applyVotesFlags overrides config values with explicitly set flags
func applyVotesFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("block0") {
		cfg.Block0Path = votesFlags.block0
	}
	if flags.Changed("logs") {
		cfg.LogsPath = votesFlags.logs
	}
	if flags.Changed("archive") {
		cfg.ArchivePath = votesFlags.archive
	}
	if flags.Changed("output") {
		cfg.OutputPath = votesFlags.output
	}
	if flags.Changed("format") {
		cfg.OutputFormat = votesFlags.format
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = votesFlags.metricsFile
	}
	if flags.Changed("block-range-start") {
		cfg.BlockRangeStart = votesFlags.blockRangeStart
	}
	if flags.Changed("block-range-end") {
		cfg.BlockRangeEnd = votesFlags.blockRangeEnd
	}
}

// loadEntries reads logged fragments from the archive when one is configured
// and from the persistent log directory otherwise
func loadEntries(
	cfg *config.Config,
	logger *slog.Logger,
) ([]fragment.LogEntry, error) {
	if cfg.ArchivePath != "" {
		if cfg.LogsPath != "" {
			logger.Warn(
				"both archive and logs path configured, ignoring logs path",
				"component", programName,
				"archive", cfg.ArchivePath,
				"logs", cfg.LogsPath,
			)
		}
		logger.Info(
			"reading fragments from archive",
			"component", programName,
			"archive", cfg.ArchivePath,
		)
		archive, err := database.NewArchive(
			database.WithDataDir(cfg.ArchivePath),
			database.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		defer archive.Close()
		return archive.Entries()
	}
	if cfg.LogsPath == "" {
		return nil, errNoFragmentSource
	}
	logger.Info(
		"reading fragments from persistent logs",
		"component", programName,
		"logs", cfg.LogsPath,
	)
	return fragment.LoadLogs(cfg.LogsPath, logger)
}

func votesRun(cfg *config.Config) error {
	logger := commonRun()
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}
	genesis, err := ledger.LoadGenesis(cfg.Block0Path)
	if err != nil {
		return err
	}
	entries, err := loadEntries(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load fragments: %w", err)
	}
	logger.Info(
		fmt.Sprintf("loaded %d logged fragments", len(entries)),
		"component", programName,
	)
	promRegistry := prometheus.NewRegistry()
	filter, err := recovery.NewFilter(recovery.FilterConfig{
		Genesis: genesis,
		BlockRange: recovery.BlockRange{
			Start: cfg.BlockRangeStart,
			End:   cfg.BlockRangeEnd,
		},
		Logger:       logger,
		PromRegistry: promRegistry,
	})
	if err != nil {
		return err
	}
	result, err := filter.Run(entries)
	if err != nil {
		return err
	}
	original, err := recovery.GroupByVoter(recovery.Unfiltered(entries))
	if err != nil {
		return err
	}
	filtered, err := recovery.GroupByVoter(result.Entries())
	if err != nil {
		return err
	}
	out, err := report.OpenOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	err = report.WriteVotes(
		out,
		&report.VotesReport{
			Original: original,
			Filtered: filtered,
			Rejected: result.RejectionCounts(),
		},
		format,
	)
	if err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, promRegistry); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}
	return out.Close()
}

func votesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "votes",
		Short: "Recover the votes cast by each voter from the fragment logs",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			applyVotesFlags(cmd, cfg)
			if err := votesRun(cfg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().
		StringVar(&votesFlags.block0, "block0", "", "path to the genesis block0 configuration")
	cmd.Flags().
		StringVar(&votesFlags.logs, "logs", "", "path to the persistent fragment log directory")
	cmd.Flags().
		StringVar(&votesFlags.archive, "archive", "", "path to a fragment archive created by import")
	cmd.Flags().
		StringVarP(&votesFlags.output, "output", "o", "", "report output file, stdout if empty")
	cmd.Flags().
		StringVar(&votesFlags.format, "format", config.DefaultOutputFormat, "report format (json or yaml)")
	cmd.Flags().
		StringVar(&votesFlags.metricsFile, "metrics-file", "", "write filter metrics to this file")
	cmd.Flags().
		Uint32Var(&votesFlags.blockRangeStart, "block-range-start", config.DefaultBlockRangeStart, "first epoch replayed")
	cmd.Flags().
		Uint32Var(&votesFlags.blockRangeEnd, "block-range-end", config.DefaultBlockRangeEnd, "epoch at which replay stops")
	return cmd
}
