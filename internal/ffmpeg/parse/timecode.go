// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned by ParseTime for anything that is not an
// "H:MM:SS(.fraction)" token.
var ErrInvalidTime = errors.New("invalid time token")

// ParseTime converts an FFmpeg clock token such as "01:02:03.50" into a
// duration. Hours and minutes must be unsigned integers, seconds an unsigned
// decimal. Sub-second digits beyond nanoseconds are truncated.
func ParseTime(token string) (time.Duration, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
	}

	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: hours in %q", ErrInvalidTime, token)
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes in %q", ErrInvalidTime, token)
	}
	seconds, err := parseSeconds(parts[2])
	if err != nil {
		return 0, fmt.Errorf("%w: seconds in %q", ErrInvalidTime, token)
	}

	whole, frac := math.Modf(seconds)
	if whole > float64(math.MaxInt64/int64(time.Second)) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, token)
	}
	var d time.Duration
	for _, c := range []struct {
		n    uint64
		unit time.Duration
	}{
		{hours, time.Hour},
		{minutes, time.Minute},
		{uint64(whole), time.Second},
		{uint64(frac * float64(time.Second)), 1},
	} {
		next, ok := addClock(d, c.n, c.unit)
		if !ok {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, token)
		}
		d = next
	}
	return d, nil
}

// addClock returns d + n*unit, or false when the sum does not fit a Duration.
func addClock(d time.Duration, n uint64, unit time.Duration) (time.Duration, bool) {
	if n > uint64((math.MaxInt64-int64(d))/int64(unit)) {
		return 0, false
	}
	return d + time.Duration(n)*unit, true
}

func parseSeconds(s string) (float64, error) {
	// ParseFloat accepts signs, exponents, "inf" and "nan"; none of them are
	// a clock value.
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseFloat(s, 64)
}

// FormatClock renders d as zero-padded "HH:MM:SS", dropping the sub-second
// part. Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
