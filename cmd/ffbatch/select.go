// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZSC714725/ffbatch/internal/config"
	"github.com/ZSC714725/ffbatch/internal/report"
)

var errNoSelection = errors.New("no profile selected")

// chooseProfile returns the profile picked by preset, or prompts for one
// when preset is zero. A negative number selects the same profile and
// requests a shutdown after the batch.
func chooseProfile(in *bufio.Reader, out io.Writer, profiles *config.Profiles, preset int) (config.Profile, bool, error) {
	if preset != 0 {
		n, shutdown := splitChoice(preset)
		p, err := profiles.Select(n)
		return p, shutdown, err
	}

	fmt.Fprintln(out, "Choose the target encoding. A negative number shuts the computer down 30 seconds after the batch.")
	fmt.Fprintln(out, profileTable(profiles))
	fmt.Fprintln(out)

	for {
		fmt.Fprint(out, "Profile number: ")
		line, err := in.ReadString('\n')
		if text := strings.TrimSpace(line); text != "" {
			if choice, convErr := strconv.Atoi(text); convErr == nil && choice != 0 {
				n, shutdown := splitChoice(choice)
				if p, selErr := profiles.Select(n); selErr == nil {
					return p, shutdown, nil
				}
			}
			fmt.Fprintf(out, "invalid choice %q\n", text)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return config.Profile{}, false, errNoSelection
			}
			return config.Profile{}, false, err
		}
	}
}

func splitChoice(n int) (int, bool) {
	if n < 0 {
		return -n, true
	}
	return n, false
}

func profileTable(profiles *config.Profiles) string {
	rows := make([][]string, 0, profiles.Len())
	for i, p := range profiles.All() {
		rows = append(rows, []string{strconv.Itoa(i + 1), p.Label(), p.Suffix})
	}
	return report.Table(
		[]string{"#", "Profile", "Suffix"},
		rows,
		[]report.Align{report.AlignRight},
	)
}
