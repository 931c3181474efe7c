package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerRows = []struct {
	text string
	hex  string
}{
	{"     _         _       ", "#818cf8"},
	{"    / \\   _ __(_) __ _ ", "#a78bfa"},
	{"   / _ \\ | '__| |/ _` |", "#c084fc"},
	{"  / ___ \\| |  | | (_| |", "#e879f9"},
	{" /_/   \\_\\_|  |_|\\__,_|", "#f472b6"},
}

// PrintBanner writes the Aria logo to w in a violet-to-pink gradient.
// Colours degrade to plain text when w is not a colour terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, row := range bannerRows {
		fmt.Fprintln(w, out.String(row.text).Foreground(out.Color(row.hex)))
	}
	fmt.Fprintln(w)
}
