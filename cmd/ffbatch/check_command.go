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

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the ffmpeg binary and the encoders each profile needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger(cfg)

			ff, err := ctx.newFFmpeg(cfg, log)
			if err != nil {
				return err
			}
			sk, err := ff.Skills()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ffmpeg:  %s\n", ff.Binary())
			fmt.Fprintf(out, "version: %s\n\n", sk.FFmpeg.Version)

			profiles, err := config.Resolve(cfg)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, profiles.Len())
			for i, p := range profiles.All() {
				enc := p.VideoEncoder()
				status := "unknown"
				if enc != "" {
					status = "missing"
					if sk.HasEncoder(enc) {
						status = "ok"
					}
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), p.Label(), enc, status})
			}
			fmt.Fprintln(out, report.Table(
				[]string{"#", "Profile", "Encoder", "Status"},
				rows,
				[]report.Align{report.AlignRight},
			))
			return nil
		},
	}
}
