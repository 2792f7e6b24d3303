package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/report"
)

func newOrderCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "order <order-number>",
		Short: "Show one analyzed order with its material movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			service, _ := a.newService(nil)
			o, ok, err := service.GetAnalyzedOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %q", core.ErrOrderNotFound, args[0])
			}
			return report.WriteOrder(cmd.OutOrStdout(), f, o)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json, csv")
	return cmd
}
