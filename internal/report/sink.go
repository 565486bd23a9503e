// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Color is a text color for subsequent Println output.
type Color int

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	}
	return "default"
}

// Sink receives all user-facing progress output.
type Sink interface {
	// SetTitle sets the terminal window title.
	SetTitle(title string)
	// SetColor applies c to subsequent Println calls.
	SetColor(c Color)
	// Status rewrites the current status line in place.
	Status(line string)
	// Println ends any open status line and prints a full line.
	Println(line string)
}

// Console writes to a terminal. Title and color escapes are only emitted
// when the output is a TTY.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	fd      uintptr
	tty     bool
	color   *color.Color
	open    bool
	lastLen int
}

// NewConsole returns a sink for os.Stdout.
func NewConsole() *Console {
	return NewConsoleWriter(os.Stdout)
}

// NewConsoleWriter returns a sink writing to out. Terminal features are
// enabled when out is an *os.File attached to a terminal.
func NewConsoleWriter(out io.Writer) *Console {
	c := &Console{out: out}
	if f, ok := out.(*os.File); ok {
		c.fd = f.Fd()
		c.tty = isatty.IsTerminal(c.fd) || isatty.IsCygwinTerminal(c.fd)
	}
	return c
}

func (c *Console) SetTitle(title string) {
	if !c.tty {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\033]0;%s\007", title)
}

func (c *Console) SetColor(col Color) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var attr color.Attribute
	switch col {
	case ColorRed:
		attr = color.FgHiRed
	case ColorGreen:
		attr = color.FgHiGreen
	case ColorBlue:
		attr = color.FgHiBlue
	default:
		c.color = nil
		return
	}
	c.color = color.New(attr)
	if !c.tty {
		c.color.DisableColor()
	}
}

func (c *Console) Status(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w := c.width(); w > 0 && utf8.RuneCountInString(line) >= w {
		line = string([]rune(line)[:w-1])
	}
	n := utf8.RuneCountInString(line)
	pad := ""
	if n < c.lastLen {
		pad = strings.Repeat(" ", c.lastLen-n)
	}
	fmt.Fprint(c.out, "\r"+line+pad)
	c.lastLen = n
	c.open = true
}

func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		fmt.Fprintln(c.out)
		c.open = false
		c.lastLen = 0
	}
	if c.color != nil {
		c.color.Fprintln(c.out, line)
		return
	}
	fmt.Fprintln(c.out, line)
}

func (c *Console) width() int {
	if !c.tty {
		return 0
	}
	w, _, err := term.GetSize(int(c.fd))
	if err != nil {
		return 0
	}
	return w
}

// Recorder keeps every call in memory.
type Recorder struct {
	mu     sync.Mutex
	Titles []string
	Colors []Color
	States []string
	Lines  []string
	// Current is the color in effect for the next Println.
	Current Color
	// Colored maps printed lines to the color they were printed with.
	Colored map[string]Color
}

func (r *Recorder) SetTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Titles = append(r.Titles, title)
}

func (r *Recorder) SetColor(c Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Colors = append(r.Colors, c)
	r.Current = c
}

func (r *Recorder) Status(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, line)
}

func (r *Recorder) Println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, line)
	if r.Colored == nil {
		r.Colored = make(map[string]Color)
	}
	r.Colored[line] = r.Current
}
