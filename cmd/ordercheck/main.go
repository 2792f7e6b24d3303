// Command ordercheck flags production orders that are released but never
// finished, or whose goods receipt and goods issue were posted in different
// months. It reads the ERP header and material exports from disk and serves
// the results over HTTP or prints them as a report.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

func main() {
	// Overload lets a local .env win over the shell, matching how the
	// exports are usually tested by hand.
	if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ordercheck:", errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the mapped user message and falls back to the raw
// error for failures no message covers, such as bad flags.
func errorText(err error) string {
	msg := core.MapError(err)
	if msg.Code == "ERR000" {
		return err.Error()
	}
	return core.FormatUserError(msg) + ": " + err.Error()
}
