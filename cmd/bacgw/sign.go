package main

import (
	"fmt"
	"time"

	"github.com/alovak/bacgateway/gateway"
	"github.com/spf13/cobra"
)

func signCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the request signature for an order, amount and time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, _ := cmd.Flags().GetString("order-id")
			amount, _ := cmd.Flags().GetString("amount")
			ts, _ := cmd.Flags().GetInt64("time")
			if ts == 0 {
				ts = time.Now().Unix()
			}

			secret := env.v.GetString("hash_key")
			if secret == "" {
				return fmt.Errorf("%w: hash_key is required", gateway.ErrConfig)
			}

			d, done, err := newDigester(env.v, env.logger)
			if err != nil {
				return err
			}
			defer done()

			hash, err := gateway.Sign(d, orderID, amount, ts, secret)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "time=%d\nhash=%s\n", ts, hash)
			return nil
		},
	}

	cmd.Flags().String("order-id", "", "order id")
	cmd.Flags().String("amount", "", "amount exactly as sent, e.g. 12.34 (empty for voids)")
	cmd.Flags().Int64("time", 0, "unix timestamp, defaults to now")

	return cmd
}
