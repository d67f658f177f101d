package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "compliance"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context is the client configuration saved in ~/.config/compliance.
type Context struct {
	Server      string `json:"server"`
	PrincipalID string `json:"principal_id"`
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", configFileName)
}

func loadContext() Context {
	viper.SetConfigName(configFileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir())
	_ = viper.ReadInConfig()

	return Context{
		Server:      viper.GetString("server"),
		PrincipalID: viper.GetString("principal_id"),
	}
}

func saveContext(ctx Context) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	viper.Set("server", ctx.Server)
	viper.Set("principal_id", ctx.PrincipalID)

	return viper.WriteConfigAs(filepath.Join(dir, configFileName+".json"))
}

func setContextCommand() *cobra.Command {
	var server string
	var principal string

	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := loadContext()
			if server != "" {
				ctx.Server = server
			}
			if principal != "" {
				ctx.PrincipalID = principal
			}

			if err := saveContext(ctx); err != nil {
				color.Red("failed to save context: %v", err)
				os.Exit(1)
			}

			color.Green("context saved")
		},
	}

	command.Flags().StringVarP(&server, "server", "s", "", "api server base url")
	command.Flags().StringVarP(&principal, "principal", "u", "", "principal id")

	return command
}

func currentContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "show current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := loadContext()
			fmt.Printf("server: %s\n", ctx.Server)
			fmt.Printf("principal: %s\n", ctx.PrincipalID)
		},
	}
}

func resetContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			if err := saveContext(Context{}); err != nil {
				color.Red("failed to reset context: %v", err)
				os.Exit(1)
			}
			color.Green("context reset")
		},
	}
}
