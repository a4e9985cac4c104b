package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// PrintError prints a user-facing error message, or the full technical
// error when --verbose is set, without exiting (spec.md §7).
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// HandleFatalError prints the error via PrintError and exits with status 1.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}
