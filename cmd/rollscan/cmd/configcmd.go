package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rollscan/rollscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("file", config.ConfigFileName+".yaml", "path of the config file to create")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
