package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/report"
)

type reportOptions struct {
	filter  string
	plant   string
	from    string
	to      string
	format  string
	summary bool
}

func newReportCmd(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print analyzed orders",
		Long: `Loads the header and material exports, classifies every order and
prints the result. Use --filter to list only unfinished orders or orders
whose goods receipt and goods issue fall in different months.`,
		Example: `  ordercheck report --filter error
  ordercheck report --plant P100 --from 2024-01-01 --format csv > orders.csv
  ordercheck report --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.filter, "filter", "", "only unfinished or error (cross-month) orders")
	cmd.Flags().StringVar(&opts.plant, "plant", "", "only orders of this plant")
	cmd.Flags().StringVar(&opts.from, "from", "", "earliest basic start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.to, "to", "", "latest basic start date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&opts.format, "format", "o", "table", "output format: table, json, csv")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print counts instead of orders")

	return cmd
}

func (a *app) runReport(cmd *cobra.Command, opts reportOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	f, err := opts.toFilter()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	service, _ := a.newService(nil)
	logger := logging.WithFields(ctx, "filter", f.Kind, "plant", f.Plant)

	orders, err := service.FindOrders(ctx, f)
	if err != nil {
		return err
	}
	logger.Debug("report ready", "orders", len(orders))

	if opts.summary {
		return report.WriteSummary(cmd.OutOrStdout(), format, core.Summarize(orders))
	}
	return report.WriteOrders(cmd.OutOrStdout(), format, orders)
}

func (o reportOptions) toFilter() (core.Filter, error) {
	kind, err := core.ParseFilterKind(o.filter)
	if err != nil {
		return core.Filter{}, err
	}
	f := core.Filter{Kind: kind, Plant: strings.TrimSpace(o.plant)}
	if f.StartFrom, err = parseDateFlag(o.from); err != nil {
		return core.Filter{}, err
	}
	if f.StartTo, err = parseDateFlag(o.to); err != nil {
		return core.Filter{}, err
	}
	return f, nil
}

func parseDateFlag(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	t, ok := core.ParseDate(v)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	return t, nil
}
