package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Apurer/go-cart-store/internal/app/api"
	"github.com/Apurer/go-cart-store/internal/domains/cart/adapters/notify"
	"github.com/Apurer/go-cart-store/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-store/internal/domains/cart/ports"
)

func showCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart lines and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, svc ports.Service) error {
				printCart(cmd.OutOrStdout(), svc.GetCart(ctx))
				return nil
			})
		},
	}
}

func addCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, svc ports.Service) error {
				return report(cmd.OutOrStdout(), svc.AddProduct(ctx, id))
			})
		},
	}
}

func removeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, svc ports.Service) error {
				return report(cmd.OutOrStdout(), svc.RemoveProduct(ctx, id))
			})
		},
	}
}

func setCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <amount>",
		Short: "Set the amount of a product already in the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be an integer: %q", args[1])
			}
			return withSession(cmd, opts, func(ctx context.Context, svc ports.Service) error {
				return report(cmd.OutOrStdout(), svc.UpdateProductAmount(ctx, ports.UpdateProductAmount{ProductID: id, Amount: amount}))
			})
		},
	}
}

func withSession(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, ports.Service) error) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}
	if cfg.StorageDir != "" {
		if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := api.OpenSession(ctx, cfg, opts.logger(cmd), notify.NewWriterNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(ctx, session.Service)
}

func report(out io.Writer, outcome ports.Outcome) error {
	if outcome.Failed() {
		return errOperationFailed
	}
	if outcome.Kind == ports.OutcomeIgnored {
		fmt.Fprintln(out, "nothing to do: amount must be at least 1")
	}
	printCart(out, outcome.Cart)
	return nil
}

func printCart(out io.Writer, cart domain.Cart) {
	if len(cart) == 0 {
		fmt.Fprintln(out, "(cart is empty)")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tAMOUNT\tSUBTOTAL")
	for _, line := range cart {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", line.ID, line.Title, line.Price.StringFixed(2), line.Amount, line.Subtotal().StringFixed(2))
	}
	_ = tw.Flush()
	summary := cart.Summary()
	fmt.Fprintf(out, "\n%d line(s), %d unit(s), total %s\n", summary.Lines, summary.Units, summary.Subtotal.StringFixed(2))
}

func parseProductID(raw string) (domain.ProductID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("product id must be a positive integer: %q", raw)
	}
	return domain.ProductID(id), nil
}

func parsePositiveDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}
