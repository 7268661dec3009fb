package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/receiptscan/internal/models"
	"github.com/dmitrijs2005/receiptscan/internal/receipts"
)

// List fetches and renders the current page of receipts.
func (a *App) List(ctx context.Context) error {
	a.lister.Refresh(ctx)
	a.renderList(a.waitList(ctx))
	return nil
}

// Filter sets the category filter ("all" clears it) and re-renders.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: filter <category|all>. Categories:", strings.Join(models.Categories, ", "))
		return nil
	}

	a.lister.SetFilter(ctx, strings.Join(args, " "))
	a.renderList(a.waitList(ctx))
	return nil
}

// Page changes the listing page: an explicit number, or next/prev relative
// to the current page. Page changes are only offered when the data spans
// more than one page.
func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: page <n|next|prev>")
		return nil
	}

	snap := a.lister.Snapshot()
	if !snap.CanPaginate() {
		printlnFn("Only one page of results.")
		return nil
	}

	var n int
	switch args[0] {
	case "next":
		n = snap.Page.CurrentPage + 1
	case "prev":
		n = snap.Page.CurrentPage - 1
	default:
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			printlnFn("Usage: page <n|next|prev>")
			return nil
		}
		n = parsed
	}

	if err := a.lister.SetPage(ctx, n); err != nil {
		printlnFn(fmt.Sprintf("Page must be between 1 and %d.", snap.Page.TotalPages))
		return err
	}

	a.renderList(a.waitList(ctx))
	return nil
}

// Show fetches and renders a single receipt by id.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <id>")
		return nil
	}

	detail, err := a.client.Receipt(ctx, args[0])
	if err != nil {
		printlnFn("Error fetching receipt:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s  %s  %s  %s",
		detail.StoreName,
		detail.Category,
		models.FormatDate(detail.DateOfPurchase),
		models.FormatAmount(detail.TotalAmount),
	))
	if detail.User.Email != "" {
		printlnFn("Owner:", detail.User.Name, "<"+detail.User.Email+">")
	}
	if len(detail.Items) == 0 {
		printlnFn("No items found.")
		return nil
	}
	for _, item := range detail.Items {
		printlnFn(fmt.Sprintf("  %s - %s", item.Name, models.FormatAmount(item.Price)))
	}
	return nil
}

func (a *App) renderList(s receipts.Snapshot) {
	if s.Err != nil {
		printlnFn("Error fetching receipts:", s.Err.Error())
		return
	}
	if s.Empty() {
		printlnFn("No receipts found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTORE\tCATEGORY\tDATE\tTOTAL")
	for _, r := range s.Page.Receipts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StoreName, r.Category,
			models.FormatDate(r.DateOfPurchase),
			models.FormatAmount(r.TotalAmount),
		)
	}
	w.Flush()

	if s.CanPaginate() {
		printlnFn(fmt.Sprintf("Page %d of %d (%d receipts). Use 'page <n|next|prev>'.",
			s.Page.CurrentPage, s.Page.TotalPages, s.Page.TotalCount))
	}
}
