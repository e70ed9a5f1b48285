// tk2000 is a reference terminal harness for the TK2000 emulation core.
// It demonstrates the machine's external interfaces from a real main
// package: power control, tape transport, keyboard input and audio
// capture. It is deliberately thin -- a host with a display surface would
// replace it wholesale.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tk2000",
	Short: "TK2000 II emulator core harness",
	Long: `tk2000 runs the TK2000 II emulation core against a ROM image,
optionally with a .ct2 tape loaded into the transport. Keyboard input is
read raw from the controlling terminal; ESC quits.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
