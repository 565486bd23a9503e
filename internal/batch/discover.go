// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg"
)

// Discovery is the outcome of expanding command-line paths into inputs.
type Discovery struct {
	// Files are absolute, unique and in natural order.
	Files []string
	// Missing are arguments that do not exist.
	Missing []string
	// Skipped are file arguments without a video extension.
	Skipped []string
	// Excluded are video files whose stem the validator rejected.
	Excluded []string
}

// Discover expands paths into video files. Directories are walked
// recursively; unreadable subdirectories are ignored. A nil validator
// admits every video file. ErrNoInputs is returned with the populated
// Discovery when nothing is left to process.
func Discover(paths []string, extensions []string, v ffmpeg.Validator) (Discovery, error) {
	d := Discovery{}
	exts := extensionSet(extensions)
	seen := make(map[string]struct{})

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		if v != nil && !v.IsValid(stem(abs)) {
			d.Excluded = append(d.Excluded, abs)
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		d.Files = append(d.Files, abs)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			d.Missing = append(d.Missing, path)
			continue
		}

		if !info.IsDir() {
			if isVideo(path, exts) {
				add(path)
			} else {
				d.Skipped = append(d.Skipped, path)
			}
			continue
		}

		filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				if entry != nil && entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !entry.IsDir() && isVideo(p, exts) {
				add(p)
			}
			return nil
		})
	}

	sort.Slice(d.Files, func(i, j int) bool {
		return natural.Less(d.Files[i], d.Files[j])
	})

	if len(d.Files) == 0 {
		return d, ErrNoInputs
	}
	return d, nil
}

func extensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

func isVideo(path string, exts map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := exts[ext]
	return ok
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
