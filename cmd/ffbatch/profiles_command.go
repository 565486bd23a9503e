// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/ffbatch/internal/config"
	"github.com/ZSC714725/ffbatch/internal/report"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the encoding profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			profiles, err := config.Resolve(cfg)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, profiles.Len())
			for i, p := range profiles.All() {
				rows = append(rows, []string{strconv.Itoa(i + 1), p.Label(), p.Suffix, p.Params})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Table(
				[]string{"#", "Profile", "Suffix", "Params"},
				rows,
				[]report.Align{report.AlignRight},
			))
			return nil
		},
	}
}
