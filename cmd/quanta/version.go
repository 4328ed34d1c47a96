// Version command for the quanta CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quanta/pkg/quanta"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quanta version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("quanta", quanta.Version)
	},
}
