// Version command for the shorewrap CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coastalkit/shorewrap/pkg/shorewrap"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shorewrap version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shorewrap", shorewrap.Version)
	},
}
