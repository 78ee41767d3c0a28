package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/categories"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

func newCategoriesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage playground categories",
	}
	cmd.AddCommand(newCategoriesListCmd(rt), newCategoriesCreateCmd(rt), newCategoriesDeleteCmd(rt))
	return cmd
}

func newCategoriesListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageCategories); err != nil {
				return err
			}
			list, err := categories.NewService(rt.client).List(rt.ctx(cmd))
			if err != nil {
				return err
			}
			if rt.opts.json {
				return rt.printJSON(list)
			}
			if len(list) == 0 {
				rt.printf("No categories found.\n")
				return nil
			}
			t := newTable(rt.streams.Out, "id", "name", "color", "image")
			for _, c := range list {
				t.row(itoa(c.ID), c.Name, orNA(c.Color), orNA(c.Image))
			}
			return t.flush()
		},
	}
}

func newCategoriesCreateCmd(rt *runtime) *cobra.Command {
	var (
		in    categories.Input
		image string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.require(rbac.PermManageCategories); err != nil {
				return err
			}
			if err := checkStruct(in); err != nil {
				return err
			}
			file, err := readUpload(image)
			if err != nil {
				return err
			}
			created, err := categories.NewService(rt.client).Create(rt.ctx(cmd), in, file)
			if err != nil {
				return failed("create category", err)
			}
			rt.printf("Category created successfully (id %d).\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Category name")
	cmd.Flags().StringVar(&in.Color, "color", "", "Hex colour, default "+categories.DefaultColor)
	cmd.Flags().StringVar(&image, "image", "", "Image file to upload")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := rt.require(rbac.PermManageCategories); err != nil {
				return err
			}
			if err := rt.confirm(fmt.Sprintf("Delete category %d?", categoryID)); err != nil {
				return err
			}
			if err := categories.NewService(rt.client).Delete(rt.ctx(cmd), categoryID); err != nil {
				return failed("delete category", err)
			}
			rt.printf("Category deleted successfully.\n")
			return nil
		},
	}
}
