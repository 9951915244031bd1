package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/footwear-wholesale/client/admin"
	"github.com/example/footwear-wholesale/domain/product"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator actions behind the admin secret",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login <secret>",
		Short: "Unlock admin commands for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessionFrom(cmd).gate.Login(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Admin session started")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionFrom(cmd).gate.Logout()
		},
	})

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFrom(cmd)
			if err := s.gate.Require(); err != nil {
				return err
			}
			form := admin.NewForm()
			if err := applyFormFlags(cmd, form); err != nil {
				return err
			}
			p, err := form.Submit(cmd.Context(), s.catalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", p.ID)
			return nil
		},
	}
	addFormFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a product; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			if err := s.gate.Require(); err != nil {
				return err
			}
			current, err := s.client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			form := admin.EditForm(current)
			if err := applyFormFlags(cmd, form); err != nil {
				return err
			}
			p, err := form.Submit(cmd.Context(), s.catalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", p.ID)
			return nil
		},
	}
	addFormFlags(update)

	cmd.AddCommand(create, update, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			if err := s.gate.Require(); err != nil {
				return err
			}
			if err := s.catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func addFormFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "product name")
	f.String("sku", "", "SKU")
	f.String("category", "", "category")
	f.String("description", "", "description")
	f.Int("price", 0, "price per pair")
	f.String("sizes", "", "size range, e.g. 36-41")
	f.String("colors", "", "available colors")
	f.String("status", "", "in_stock, out_of_stock or expected")
	f.String("season", "", "winter, summer or all_season")
	f.String("gender", "", "unisex, women, men or children")
	f.Int("min-order", 0, "minimum order quantity")
	f.Int("pairs-per-box", 0, "pairs per box")
	f.StringSlice("photo", nil, "photo URLs, main photo first (replaces the list)")
	f.String("comment", "", "free-text comment")
	f.Bool("bestseller", false, "mark as bestseller")
	f.Bool("new", false, "mark as new arrival")
}

// applyFormFlags copies the flags the user set onto the form.
func applyFormFlags(cmd *cobra.Command, form *admin.Form) error {
	f := cmd.Flags()
	strs := map[string]*string{
		"name":        &form.Name,
		"sku":         &form.SKU,
		"category":    &form.Category,
		"description": &form.Description,
		"sizes":       &form.Sizes,
		"colors":      &form.Colors,
		"comment":     &form.Comment,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			v, err := f.GetString(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	ints := map[string]*int{
		"price":         &form.Price,
		"min-order":     &form.MinOrderQuantity,
		"pairs-per-box": &form.PairsPerBox,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			v, err := f.GetInt(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	bools := map[string]*bool{
		"bestseller": &form.IsBestseller,
		"new":        &form.IsNew,
	}
	for name, dst := range bools {
		if f.Changed(name) {
			v, err := f.GetBool(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	if f.Changed("status") {
		v, _ := f.GetString("status")
		form.Status = product.Status(v)
	}
	if f.Changed("season") {
		v, _ := f.GetString("season")
		form.Season = product.Season(v)
	}
	if f.Changed("gender") {
		v, _ := f.GetString("gender")
		form.Gender = product.Gender(v)
	}
	if f.Changed("photo") {
		photos, err := f.GetStringSlice("photo")
		if err != nil {
			return err
		}
		form.Photos = nil
		for _, p := range photos {
			form.AddPhoto(p)
		}
	}
	return nil
}

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its hosted URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			url, err := sessionFrom(cmd).client.Upload(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
