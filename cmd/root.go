package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "linerelay",
	Short: "Relay LINE messages to a language model and reply with its answer",
	Long: `linerelay receives LINE Messaging API webhooks, asks a completion
service for an answer to each text message, and sends that answer back
to the conversation through the event's reply token.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".linerelay.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
