package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/linerelay/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize linerelay configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the completion provider and port, and writes a .linerelay.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
