package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/footwear-wholesale/client/catalogview"
	"github.com/example/footwear-wholesale/domain/product"
	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	var (
		season  string
		gender  string
		newOnly bool
		sortBy  string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog with optional filters and sort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := catalogview.ParseSortMode(sortBy)
			if err != nil {
				return err
			}
			s := sessionFrom(cmd)
			products, err := s.catalog.Products(cmd.Context())
			if err != nil {
				return err
			}

			view := catalogview.Apply(products, catalogview.Filter{
				Season:  product.Season(season),
				Gender:  product.Gender(gender),
				NewOnly: newOnly,
			}, mode)
			return printProducts(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVar(&season, "season", "", "winter, summer or all_season")
	cmd.Flags().StringVar(&gender, "gender", "", "unisex, women, men or children")
	cmd.Flags().BoolVar(&newOnly, "new-only", false, "only new arrivals")
	cmd.Flags().StringVar(&sortBy, "sort", string(catalogview.SortDefault), "default, new_first or popular_first")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sessionFrom(cmd).client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProduct(cmd.OutOrStdout(), p)
			return nil
		},
	})
	return cmd
}

func printProducts(out io.Writer, products []product.Product) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tMOQ\tSEASON\tGENDER\tFLAGS")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Price, p.MinOrderQuantity, p.Season, p.Gender, flags(&p))
	}
	return w.Flush()
}

func printProduct(out io.Writer, p *product.Product) {
	fmt.Fprintf(out, "%s  %s (%s)\n", p.ID, p.Name, p.SKU)
	fmt.Fprintf(out, "  category:    %s\n", p.Category)
	fmt.Fprintf(out, "  price:       %d\n", p.Price)
	fmt.Fprintf(out, "  sizes:       %s\n", p.Sizes)
	fmt.Fprintf(out, "  colors:      %s\n", p.Colors)
	fmt.Fprintf(out, "  status:      %s\n", p.Status)
	fmt.Fprintf(out, "  min order:   %d\n", p.MinOrderQuantity)
	if p.PairsPerBox != nil {
		fmt.Fprintf(out, "  pairs/box:   %d\n", *p.PairsPerBox)
	}
	for i, photo := range p.Photos() {
		fmt.Fprintf(out, "  photo %d:     %s\n", i+1, photo)
	}
	if p.Comment != nil && *p.Comment != "" {
		fmt.Fprintf(out, "  comment:     %s\n", *p.Comment)
	}
}

func flags(p *product.Product) string {
	var f []string
	if p.IsBestseller {
		f = append(f, "bestseller")
	}
	if p.IsNew {
		f = append(f, "new")
	}
	return strings.Join(f, ",")
}
