package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/example/footwear-wholesale/modules/orders"
	"github.com/spf13/cobra"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}
	cmd.AddCommand(
		newCartAddCmd(),
		newCartRemoveCmd(),
		newCartDecrementCmd(),
		newCartShowCmd(),
		newCartClearCmd(),
		newCartCheckoutCmd(),
	)
	return cmd
}

func newCartAddCmd() *cobra.Command {
	var (
		qty   int
		color string
	)
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product; quantity defaults to its minimum order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			p, err := s.client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if qty < 1 {
				qty = p.MinOrderQuantity
			}
			if err := s.cart.Add(*p, qty, color); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d x %s. Cart: %d pairs, total %d\n",
				qty, p.Name, s.cart.TotalQuantity(), s.cart.TotalPrice())
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity")
	cmd.Flags().StringVar(&color, "color", "", "selected color")
	return cmd
}

func newCartRemoveCmd() *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sessionFrom(cmd).cart.RemoveLine(args[0], color)
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "color of the line")
	return cmd
}

func newCartDecrementCmd() *cobra.Command {
	var (
		step  int
		color string
	)
	cmd := &cobra.Command{
		Use:   "decrement <product-id>",
		Short: "Lower a line's quantity; the line is removed below one pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sessionFrom(cmd).cart.DecrementQuantity(args[0], step, color)
		},
	}
	cmd.Flags().IntVar(&step, "step", 1, "pairs to remove")
	cmd.Flags().StringVar(&color, "color", "", "color of the line")
	return cmd
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tQTY\tPRICE\tSUM")
			for _, it := range s.cart.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
					it.Product.ID, it.Product.Name, it.SelectedColor, it.Quantity, it.Product.Price, it.LineTotal())
			}
			fmt.Fprintf(w, "\t\t\t%d\t\t%d\n", s.cart.TotalQuantity(), s.cart.TotalPrice())
			return w.Flush()
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionFrom(cmd).cart.Clear()
		},
	}
}

func newCartCheckoutCmd() *cobra.Command {
	var name, phone string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Send the cart as an order and clear it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			items := s.cart.Items()
			if len(items) == 0 {
				return errors.New("cart is empty")
			}

			req := &orders.PlaceOrderRequest{
				Items: make([]orders.OrderItem, 0, len(items)),
				Name:  name,
				Phone: phone,
				Total: s.cart.TotalPrice(),
			}
			for _, it := range items {
				req.Items = append(req.Items, orders.OrderItem{
					Name:     it.Product.Name,
					Quantity: it.Quantity,
					Price:    it.Product.Price,
					Color:    it.SelectedColor,
					Photo:    it.Product.MainPhoto,
				})
			}

			if err := s.client.PlaceOrder(cmd.Context(), req); err != nil {
				return err
			}
			if err := s.cart.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order sent: %d pairs, total %d\n", sumQuantity(req.Items), req.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "customer phone")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newQuickOrderCmd() *cobra.Command {
	var (
		name, phone, color string
		qty                int
	)
	cmd := &cobra.Command{
		Use:   "quick-order <product-id>",
		Short: "Order one product directly; the server computes the total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := sessionFrom(cmd).client.QuickOrder(cmd.Context(), &orders.QuickOrderRequest{
				ProductID: args[0],
				Name:      name,
				Phone:     phone,
				Color:     color,
				Quantity:  qty,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s sent, total %d\n", res.Reference, res.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&color, "color", "", "selected color")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity (defaults to the minimum order)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func sumQuantity(items []orders.OrderItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
