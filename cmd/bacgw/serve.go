package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/merchant"
	"github.com/spf13/cobra"
)

func serveCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the merchant payments API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := env.merchantConfig()
			if addr, _ := cmd.Flags().GetString("http-addr"); addr != "" {
				cfg.HTTPAddr = addr
			}

			d, done, err := newDigester(env.v, env.logger)
			if err != nil {
				return err
			}
			defer done()

			app := merchant.NewApp(env.logger, cfg, gateway.WithDigester(d))
			if err := app.Start(); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			app.Shutdown()
			return nil
		},
	}

	cmd.Flags().String("http-addr", "", "listen address, overrides BAC_HTTP_ADDR")

	return cmd
}
