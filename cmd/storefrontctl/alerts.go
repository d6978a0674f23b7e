package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storefront-state-api/internal/app"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/service"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/clock"
)

func alertsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alert engine commands",
	}

	cmd.AddCommand(alertsCheckCmd(e))
	return cmd
}

func alertsCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one low-stock and price-drop cycle against the persisted wishlist",
		Long: `Run one reconciliation cycle of both alert engines against the persisted
wishlist and the configured catalog. Nothing is written and no notification
ledger is kept, so every qualifying product is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, closeCatalog, err := app.OpenCatalog(e.cfg.Catalog)
			if err != nil {
				return err
			}
			e.closers = append(e.closers, closeCatalog)

			wishlist := store.NewWishlist(cmd.Context(), e.storage, notify.Discard{}, clock.RealClock{})
			if wishlist.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.HiBlackString("Wishlist is empty, nothing to check"))
				return nil
			}

			lowStock := service.NewEngine[model.LowStockAlert](
				wishlist, catalog, notify.Discard{},
				service.LowStockDetector{Threshold: e.cfg.Alerts.LowStockThreshold},
				e.cfg.Catalog.FetchTimeout,
			)
			priceDrops := service.NewEngine[model.PriceDropAlert](
				wishlist, catalog, notify.Discard{},
				service.PriceDropDetector{},
				e.cfg.Catalog.FetchTimeout,
			)

			start := time.Now()
			stock, err := lowStock.Reconcile(cmd.Context())
			if err != nil {
				return fmt.Errorf("low-stock cycle: %w", err)
			}
			drops, err := priceDrops.Reconcile(cmd.Context())
			if err != nil {
				return fmt.Errorf("price-drop cycle: %w", err)
			}

			renderAlerts(cmd, wishlist.Len(), stock, drops, time.Since(start))
			return nil
		},
	}
}

func renderAlerts(cmd *cobra.Command, wishlisted int, stock []model.LowStockAlert, drops []model.PriceDropAlert, took time.Duration) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, color.CyanString("Alert check"), color.HiBlackString("(%d wishlisted, %v)", wishlisted, took.Round(time.Millisecond)))

	fmt.Fprintf(out, "\nLow stock: %d\n", len(stock))
	for _, a := range stock {
		fmt.Fprintf(out, "  %s %-24s %s\n", color.YellowString("!"), a.Title, color.YellowString("%d left", a.Stock))
	}

	fmt.Fprintf(out, "\nPrice drops: %d\n", len(drops))
	for _, a := range drops {
		fmt.Fprintf(out, "  %s %-24s %s -> %s %s\n",
			color.GreenString("↓"), a.Title,
			a.OldPrice.StringFixed(2), a.NewPrice.StringFixed(2),
			color.GreenString("(%d%%)", a.DropPercent))
	}
}
