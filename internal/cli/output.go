package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func syncedLabel(synced bool) string {
	if synced {
		return color.New(color.FgGreen).Sprint("synced")
	}
	return color.New(color.FgYellow).Sprint("pending")
}

func onlineLabel(online bool) string {
	if online {
		return color.New(color.FgGreen).Sprint("online")
	}
	return color.New(color.FgRed).Sprint("offline")
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
