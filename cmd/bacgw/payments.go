package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/gateway/models"
	"github.com/alovak/bacgateway/internal/expiry"
	"github.com/spf13/cobra"
)

type cardRunner func(ctx context.Context, gw *gateway.Gateway, amount int64, card models.CreditCard, opts models.Options) (models.Result, error)

type referenceRunner func(ctx context.Context, gw *gateway.Gateway, amount int64, authorization string, opts models.Options) (models.Result, error)

func runPurchase(ctx context.Context, gw *gateway.Gateway, amount int64, card models.CreditCard, opts models.Options) (models.Result, error) {
	return gw.Purchase(ctx, amount, card, opts)
}

func runAuthorize(ctx context.Context, gw *gateway.Gateway, amount int64, card models.CreditCard, opts models.Options) (models.Result, error) {
	return gw.Authorize(ctx, amount, card, opts)
}

func runVerify(ctx context.Context, gw *gateway.Gateway, _ int64, card models.CreditCard, opts models.Options) (models.Result, error) {
	return gw.Verify(ctx, card, opts)
}

func runCapture(ctx context.Context, gw *gateway.Gateway, amount int64, authorization string, opts models.Options) (models.Result, error) {
	return gw.Capture(ctx, amount, authorization, opts)
}

func runRefund(ctx context.Context, gw *gateway.Gateway, amount int64, authorization string, opts models.Options) (models.Result, error) {
	return gw.Refund(ctx, amount, authorization, opts)
}

func runCredit(ctx context.Context, gw *gateway.Gateway, amount int64, authorization string, opts models.Options) (models.Result, error) {
	return gw.Credit(ctx, amount, authorization, opts)
}

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().String("order-id", "", "merchant order id")
	cmd.Flags().String("order-currency", "", "currency for this call, defaults to the configured currency")
}

func optionsFromFlags(cmd *cobra.Command) models.Options {
	orderID, _ := cmd.Flags().GetString("order-id")
	currency, _ := cmd.Flags().GetString("order-currency")
	opts := models.Options{OrderID: orderID, Currency: currency}
	if cmd.Flags().Lookup("ip") != nil {
		opts.IP, _ = cmd.Flags().GetString("ip")
		opts.Email, _ = cmd.Flags().GetString("email")
	}
	return opts
}

func cardCmd(env *env, use, short string, run cardRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			number, _ := cmd.Flags().GetString("number")
			face, _ := cmd.Flags().GetString("expiry")
			cvv, _ := cmd.Flags().GetString("cvv")
			amount, _ := cmd.Flags().GetInt64("amount")
			first, _ := cmd.Flags().GetString("first-name")
			last, _ := cmd.Flags().GetString("last-name")

			month, year, err := expiry.ParseCardFace(face)
			if err != nil {
				return fmt.Errorf("%w: %v", gateway.ErrInvalidCard, err)
			}
			card := models.CreditCard{
				Number:            number,
				Month:             month,
				Year:              year,
				VerificationValue: cvv,
				FirstName:         first,
				LastName:          last,
			}

			gw, done, err := env.gateway()
			if err != nil {
				return err
			}
			defer done()

			res, err := run(cmd.Context(), gw, amount, card, optionsFromFlags(cmd))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().Int64("amount", 0, "amount in minor units")
	cmd.Flags().String("number", "", "card number")
	cmd.Flags().String("expiry", "", "card expiry, MM/YY or MM/YYYY")
	cmd.Flags().String("cvv", "", "card verification value")
	cmd.Flags().String("first-name", "", "cardholder first name")
	cmd.Flags().String("last-name", "", "cardholder last name")
	cmd.Flags().String("ip", "", "customer ip address")
	cmd.Flags().String("email", "", "customer email")
	addOptionFlags(cmd)
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("expiry")

	return cmd
}

func referenceCmd(env *env, use, short string, run referenceRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [authorization]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, _ := cmd.Flags().GetInt64("amount")

			gw, done, err := env.gateway()
			if err != nil {
				return err
			}
			defer done()

			res, err := run(cmd.Context(), gw, amount, args[0], optionsFromFlags(cmd))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().Int64("amount", 0, "amount in minor units")
	addOptionFlags(cmd)
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func voidCmd(env *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "void [authorization]",
		Short: "Void an earlier transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, done, err := env.gateway()
			if err != nil {
				return err
			}
			defer done()

			res, err := gw.Void(cmd.Context(), args[0], optionsFromFlags(cmd))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	addOptionFlags(cmd)
	return cmd
}

func printResult(w io.Writer, res models.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
