package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/thomashk0/wave/vcd"
)

// stdout returns a writer that translates ANSI color codes on platforms
// (namely Windows consoles) that need it, and otherwise passes bytes
// straight through.
func stdout() io.Writer {
	return colorable.NewColorableStdout()
}

// colorEnabled mirrors the common CLI convention of only emitting color
// when stdout is actually a terminal, so piping vcdstate's output to a
// file or another process doesn't leave escape codes in it.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

// printHeaderTable renders a loaded header as a table of id/name/kind/width/scope.
func printHeaderTable(h *vcd.Header) {
	table := tablewriter.NewWriter(stdout())
	table.SetHeader([]string{"ID", "Name", "Kind", "Width", "Scope"})
	table.SetAutoWrapText(false)
	for _, v := range h.Variables {
		scope := ""
		for i, s := range v.Scope {
			if i > 0 {
				scope += "."
			}
			scope += s.Name
		}
		table.Append([]string{
			v.ID,
			v.Name,
			v.Kind.String(),
			fmt.Sprintf("%d", v.Width),
			scope,
		})
	}
	table.Render()
	if colorEnabled() {
		headerColor.Fprintf(stdout(), "%d variables declared\n", len(h.Variables))
	} else {
		fmt.Fprintf(stdout(), "%d variables declared\n", len(h.Variables))
	}
}

// printCycle prints one simulation step as "cycle <n>: <len> bytes", or, in
// -verbose mode, a full spew dump of the state slice for debugging.
func printCycle(cycle int64, state []int8, verbose bool) {
	if verbose {
		spew.Fdump(stdout(), struct {
			Cycle int64
			State []int8
		}{cycle, state})
		return
	}
	fmt.Fprintf(stdout(), "cycle %d: %d bytes\n", cycle, len(state))
}

func warnf(format string, args ...interface{}) {
	if colorEnabled() {
		warnColor.Fprintf(os.Stderr, format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
