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
	"log/slog"
	"os"

	"github.com/blinklabs-io/voteaudit/internal/config"
	"github.com/blinklabs-io/voteaudit/ledger"
	"github.com/blinklabs-io/voteaudit/report"
	"github.com/blinklabs-io/voteaudit/rewards"
	"github.com/spf13/cobra"
)

var errNoRewards = errors.New("total rewards required (via --total-rewards or config)")

var rewardsFlags = struct {
	block0          string
	output          string
	totalRewards    uint64
	subunitsPerUnit uint64
}{}

func rewardsRun(cfg *config.Config) error {
	logger := commonRun()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.TotalRewards == 0 {
		return errNoRewards
	}
	genesis, err := ledger.LoadGenesis(cfg.Block0Path)
	if err != nil {
		return err
	}
	table, err := rewards.StakeFromGenesis(genesis)
	if err != nil {
		return err
	}
	allocator := &rewards.Allocator{
		Logger:          logger,
		SubunitsPerUnit: cfg.SubunitsPerUnit,
	}
	allocation, err := allocator.Allocate(table, cfg.TotalRewards)
	if err != nil {
		return err
	}
	out, err := report.OpenOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := report.WriteRewards(out, allocation); err != nil {
		return err
	}
	return out.Close()
}

func rewardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Calculate voter rewards from the genesis stake",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			flags := cmd.Flags()
			if flags.Changed("block0") {
				cfg.Block0Path = rewardsFlags.block0
			}
			if flags.Changed("output") {
				cfg.OutputPath = rewardsFlags.output
			}
			if flags.Changed("total-rewards") {
				cfg.TotalRewards = rewardsFlags.totalRewards
			}
			if flags.Changed("subunits-per-unit") {
				cfg.SubunitsPerUnit = rewardsFlags.subunitsPerUnit
			}
			if err := rewardsRun(cfg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().
		StringVar(&rewardsFlags.block0, "block0", "", "path to the genesis block0 configuration")
	cmd.Flags().
		StringVarP(&rewardsFlags.output, "output", "o", "", "CSV output file, stdout if empty")
	cmd.Flags().
		Uint64Var(&rewardsFlags.totalRewards, "total-rewards", 0, "reward pool (in lovelace) to distribute")
	cmd.Flags().
		Uint64Var(&rewardsFlags.subunitsPerUnit, "subunits-per-unit", rewards.DefaultSubunitsPerUnit, "lovelace per ADA")
	return cmd
}
