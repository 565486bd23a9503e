// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/ffbatch/internal/api"
	"github.com/ZSC714725/ffbatch/internal/batch"
	"github.com/ZSC714725/ffbatch/internal/config"
	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
	"github.com/ZSC714725/ffbatch/internal/logger"
	"github.com/ZSC714725/ffbatch/internal/report"
	"github.com/ZSC714725/ffbatch/internal/task"
)

// errUsage ends a run that was given no paths; the usage text has already
// been printed.
var errUsage = errors.New("no input paths")

const usageText = `Provide at least one file or folder path.

ffbatch converts video files in bulk. Drop files or folders onto the
program, or pass them as arguments; several can be given at once.

ffmpeg must sit next to this program or be on PATH.
Builds for Windows: https://www.gyan.dev/ffmpeg/builds/`

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	ctx := newCommandContext(in, out, errOut)

	rootCmd := &cobra.Command{
		Use:           "ffbatch [paths...]",
		Short:         "Batch-convert video files with ffmpeg",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(ctx, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (YAML or TOML)")
	flags.StringVar(&ctx.ffmpegFlag, "ffmpeg", "", "FFmpeg binary path (overrides config)")
	flags.StringVar(&ctx.bindFlag, "bind", "", "Serve the status API on this address (overrides config)")
	flags.BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().IntVarP(&ctx.profileFlag, "profile", "p", 0, "Profile number; negative shuts down when done")

	rootCmd.AddCommand(newProfilesCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}

func runBatch(ctx *commandContext, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(ctx.errOut, usageText)
		if hold, _ := cfg.HoldDuration(); hold > 0 {
			time.Sleep(hold)
		}
		return errUsage
	}

	log := ctx.logger(cfg)

	profiles, err := config.Resolve(cfg)
	if err != nil {
		return err
	}
	profile, shutdown, err := chooseProfile(ctx.in, ctx.out, profiles, ctx.profileFlag)
	if err != nil {
		return err
	}
	if shutdown {
		fmt.Fprintln(ctx.out, "The computer will shut down 30 seconds after the batch finishes.")
	}

	validator, err := ffmpeg.NewValidator(nil, cfg.Batch.Exclude)
	if err != nil {
		return fmt.Errorf("%w: batch.exclude: %v", config.ErrInvalidConfig, err)
	}
	found, err := batch.Discover(args, cfg.Batch.Extensions, validator)
	for _, p := range found.Missing {
		log.Warn("path does not exist: %s", p)
	}
	for _, p := range found.Skipped {
		log.Warn("skipping non-video file: %s", p)
	}
	for _, p := range found.Excluded {
		log.Info("skipping already converted file: %s", p)
	}

	fmt.Fprintf(ctx.out, "\nFound %d video files to process\n", len(found.Files))
	if errors.Is(err, batch.ErrNoInputs) {
		return nil
	}
	for i, f := range found.Files {
		fmt.Fprintf(ctx.out, "%-2d: %s\n", i+1, f)
	}
	fmt.Fprintln(ctx.out)

	ff, err := ctx.newFFmpeg(cfg, log)
	if err != nil {
		return err
	}

	store := task.NewStore(log)
	if cfg.Server.Bind != "" {
		stop := serveStatus(cfg.Server.Bind, api.NewHandler(store, ff), log)
		defer stop()
	}

	runner := batch.NewRunner(batch.Config{
		Transcoder: ff,
		Store:      store,
		Sink:       report.NewConsoleWriter(ctx.out),
		Journal:    batch.NewJournal(cfg.JournalPath(), nil),
		Logger:     log,
	})
	stats, err := runner.Run(found.Files, profile)
	fmt.Fprintln(ctx.out)
	fmt.Fprintln(ctx.out, stats.Summary())
	if err != nil {
		return err
	}

	if shutdown {
		if err := scheduleShutdown(); err != nil {
			log.Error("%v", err)
		}
	}
	return nil
}

// serveStatus runs the status API in the background and returns a function
// that shuts it down.
func serveStatus(bind string, h *api.Handler, log logger.Logger) func() {
	srv := api.NewServer(bind, h)
	go func() {
		log.Info("status API listening on %s", bind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("status API: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
