package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmeshcher/atelier/internal/pricing"
)

func newPriceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Compute taxed and discounted prices locally",
		Long: `Compute taxed and discounted prices locally.

Negative amounts look like flags, so put them after "--":
  atelierctl price taxed -- -5
  atelierctl price discount -- -100 10`,
	}

	svc := pricing.NewService()

	cmd.AddCommand(&cobra.Command{
		Use:   "taxed <price>",
		Short: "Apply the 20% tax to a base price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseAmount("price", args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.Quote(base))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "discount <price> <percent>",
		Short: "Apply a percentage discount to a price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parseAmount("price", args[0])
			if err != nil {
				return err
			}
			percent, err := parseAmount("percent", args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.Discount(price, percent))
		},
	})

	return cmd
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s must be a number: %q", name, s)
	}
	return d, nil
}
