package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	env := newEnv()

	rootCmd := &cobra.Command{
		Use:           "bacgw",
		Short:         "BAC / Credomatic payment gateway client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("env-file", ".env", "dotenv file, ignored when missing")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("test", false, "use the processor's test endpoint")
	flags.String("key-id", "", "merchant key id (BAC_KEY_ID)")
	flags.String("currency", "", "default currency (BAC_CURRENCY)")
	env.bindFlags(flags)

	rootCmd.AddCommand(serveCmd(env))
	rootCmd.AddCommand(cardCmd(env, "purchase", "Authorize and capture in one step", runPurchase))
	rootCmd.AddCommand(cardCmd(env, "authorize", "Authorize an amount on a card", runAuthorize))
	rootCmd.AddCommand(cardCmd(env, "verify", "Verify a card with an authorization followed by a void", runVerify))
	rootCmd.AddCommand(referenceCmd(env, "capture", "Capture an earlier authorization", runCapture))
	rootCmd.AddCommand(referenceCmd(env, "refund", "Refund a settled transaction", runRefund))
	rootCmd.AddCommand(referenceCmd(env, "credit", "Credit against an earlier transaction", runCredit))
	rootCmd.AddCommand(voidCmd(env))
	rootCmd.AddCommand(signCmd(env))

	return rootCmd
}
