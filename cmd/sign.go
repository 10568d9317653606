package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/linerelay/internal/bots"
)

var signFile string

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the X-Line-Signature for a request body",
	Long: `Computes the signature LINE would send with a webhook body, using
LINE_CHANNEL_SECRET from the environment. Handy for exercising a local
relay with curl. Reads standard input when --file is omitted or "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("LINE_CHANNEL_SECRET")
		if secret == "" {
			return fmt.Errorf("LINE_CHANNEL_SECRET environment variable is required")
		}

		var body []byte
		var err error
		if signFile == "" || signFile == "-" {
			body, err = io.ReadAll(cmd.InOrStdin())
		} else {
			body, err = os.ReadFile(signFile)
		}
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), bots.Sign(body, secret))
		return nil
	},
}

func init() {
	signCmd.Flags().StringVarP(&signFile, "file", "f", "", "file containing the request body")
	rootCmd.AddCommand(signCmd)
}
