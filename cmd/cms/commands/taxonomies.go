package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTaxonomiesCommand creates the taxonomies command group
func NewTaxonomiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "taxonomies",
		Aliases: []string{"taxonomy"},
		Short:   "Manage taxonomies",
		Long:    "List taxonomies and browse their categories",
	}

	cmd.AddCommand(newTaxonomiesListCommand())
	cmd.AddCommand(newTaxonomiesCategoriesCommand())

	return cmd
}

func newTaxonomiesListCommand() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List taxonomies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			page, err := client.Taxonomies().List(context.Background(), itemsRequest(preview))
			if err != nil {
				return fmt.Errorf("failed to list taxonomies: %w", err)
			}

			done, err := renderStructured(page.Items)
			if done {
				return err
			}

			if len(page.Items) == 0 {
				_, _ = os.Stdout.WriteString("No taxonomies found\n")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Short Name", "Updated")

			for _, taxonomy := range page.Items {
				_ = table.Append([]string{
					taxonomy.ID,
					taxonomy.Name,
					taxonomy.ShortName,
					formatDate(taxonomy.UpdatedDate),
				})
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "read from the preview scope")

	return cmd
}

func newTaxonomiesCategoriesCommand() *cobra.Command {
	var (
		preview  bool
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "categories TAXONOMY_ID",
		Short: "List a taxonomy's categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			req := itemsRequest(preview)

			var categories []cms.Category

			if allPages {
				pager, err := client.Taxonomies().PaginateCategories(args[0], req)
				if err != nil {
					return fmt.Errorf("failed to list categories: %w", err)
				}

				for pager.HasMore() {
					page, err := pager.FetchNext(ctx)
					if err != nil {
						return fmt.Errorf("failed to list categories: %w", err)
					}

					categories = append(categories, page.Items...)
				}
			} else {
				page, err := client.Taxonomies().Categories(ctx, args[0], req)
				if err != nil {
					return fmt.Errorf("failed to list categories: %w", err)
				}

				categories = page.Items
			}

			done, err := renderStructured(categories)
			if done {
				return err
			}

			if len(categories) == 0 {
				_, _ = os.Stdout.WriteString("No categories found\n")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "API Name", "Position", "Parent")

			for _, category := range categories {
				parent := NotAvailable
				if category.Parent != nil {
					parent = category.Parent.ID
				}

				_ = table.Append([]string{
					category.ID,
					category.Name,
					category.APIName,
					fmt.Sprintf("%d", category.Position),
					parent,
				})
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "read from the preview scope")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch every page")

	return cmd
}
