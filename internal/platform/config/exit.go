package config

import (
	"fmt"
	"os"
)

// Exitf reports a fatal startup error on stderr and terminates with
// exit code 1. Tool mains such as the catalog seeder use it for flag
// and bootstrap failures that happen before logging is wired.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
