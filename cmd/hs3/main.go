// Command hs3 runs committees of the ordering engine and manages their keys.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hs3",
	Short: "Leaderless asynchronous BFT ordering of units",
	Long:  "hs3 runs committees of processes that build a dag of signed units and agree on a single linear order of them.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(keysCmd)
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
