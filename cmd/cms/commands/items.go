package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewItemsCommand creates the items command group
func NewItemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Manage content items",
		Long:    "List and read published or preview content items",
	}

	cmd.AddCommand(newItemsListCommand())
	cmd.AddCommand(newItemsGetCommand())

	return cmd
}

func newItemsListCommand() *cobra.Command {
	var (
		preview  bool
		filter   string
		fields   string
		orderBy  string
		limit    int
		offset   int
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content items",
		Long:  "List content items in the delivery channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			req := itemsRequest(preview)
			if filter != "" {
				req = req.WithParameter("q", filter)
			}

			if fields != "" {
				req = req.WithFields(fields)
			}

			if orderBy != "" {
				req = req.WithSortBy(orderBy)
			}

			if limit > 0 {
				req = req.WithLimit(limit)
			}

			if offset > 0 {
				req = req.WithOffset(offset)
			}

			ctx := context.Background()

			var allItems []cms.Item

			if allPages {
				pager := client.Items().Paginate(req)
				for pager.HasMore() {
					page, err := pager.FetchNext(ctx)
					if err != nil {
						return fmt.Errorf("failed to list items: %w", err)
					}

					allItems = append(allItems, page.Items...)
				}
			} else {
				page, err := client.Items().List(ctx, req)
				if err != nil {
					return fmt.Errorf("failed to list items: %w", err)
				}

				allItems = page.Items
			}

			return renderItems(allItems)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "read from the preview scope")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "query filter expression")
	cmd.Flags().StringVar(&fields, "fields", "", "fields selector (e.g. ALL)")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "sort expression")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "starting offset")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch every page")

	return cmd
}

func newItemsGetCommand() *cobra.Command {
	var (
		preview bool
		bySlug  bool
		expand  string
	)

	cmd := &cobra.Command{
		Use:   "get ITEM_ID",
		Short: "Get a content item",
		Long:  "Display a single content item by id or slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			req := itemsRequest(preview)
			if expand != "" {
				req = req.WithParameter("expand", expand)
			}

			ctx := context.Background()

			var item *cms.Item
			if bySlug {
				item, err = client.Items().GetBySlug(ctx, args[0], req)
			} else {
				item, err = client.Items().Get(ctx, args[0], req)
			}

			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}

			done, err := renderStructured(item)
			if done {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append([]string{"ID", item.ID})
			_ = table.Append([]string{"Name", item.Name})
			_ = table.Append([]string{"Slug", item.Slug})
			_ = table.Append([]string{"Type", item.Type})
			_ = table.Append([]string{"Language", item.Language})
			_ = table.Append([]string{"Status", item.Status})
			_ = table.Append([]string{"Updated", formatDate(item.UpdatedDate)})
			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "read from the preview scope")
	cmd.Flags().BoolVar(&bySlug, "by-slug", false, "treat the argument as a slug")
	cmd.Flags().StringVar(&expand, "expand", "", "expansion selector (e.g. all)")

	return cmd
}

func itemsRequest(preview bool) *cms.Request {
	req := cms.NewRequest()
	if preview {
		req = req.WithScope(cms.ScopePreview)
	}

	return req
}

func renderItems(allItems []cms.Item) error {
	done, err := renderStructured(allItems)
	if done {
		return err
	}

	if len(allItems) == 0 {
		_, _ = os.Stdout.WriteString("No items found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Slug", "Type", "Language", "Updated")

	for _, item := range allItems {
		_ = table.Append([]string{
			item.ID,
			item.Name,
			item.Slug,
			item.Type,
			item.Language,
			formatDate(item.UpdatedDate),
		})
	}

	_ = table.Render()

	return nil
}
