package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compliance",
	Short: "compliance document management tool",
	Example: `compliance serve
compliance doc create -e <establishment-id> -n <name>
compliance doc get -d <doc-id>
compliance doc versions -d <doc-id>
compliance doc upload -d <doc-id> -f <file>
compliance doc activate -d <doc-id> -v <version-id>
compliance doc archive -d <doc-id> -v <version-id>
compliance rel add -d <doc-id> -t <target-id> -r EVIDENCE`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(contextCommand)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
