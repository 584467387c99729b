package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   `quote "<quantidade> unidades de <produto>"`,
	Short: "Price an order from the catalog without calling the LLM",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		return printQuote(ctx, a.Catalog, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

// printQuote writes the priced order to out. A product or price miss is not an error.
func printQuote(ctx context.Context, catalog repository.CatalogRepository, text string, out io.Writer) error {
	order, ok := usecase.ParseOrderRequest(text)
	if !ok {
		return fmt.Errorf("no order found in %q", text)
	}

	quote, err := catalog.QuoteOrder(ctx, order)
	switch {
	case err == nil:
		fmt.Fprintf(out, "%d x %s (sku %s) a R$ %.2f = R$ %.2f (frete não incluso)\n",
			quote.Quantity, quote.ProductName, quote.CodSKU, quote.UnitPrice, quote.Total)
		return nil
	case errors.Is(err, entity.ErrProductNotFound), errors.Is(err, entity.ErrPriceNotFound):
		fmt.Fprintf(out, "Produto ou preço não encontrado: %s\n", order.ProductName)
		return nil
	default:
		return err
	}
}
