package upload

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/receiptscan/internal/models"
)

// renderText lays out an extraction result as display-ready text. The layout
// is fixed: store line, optional date line, total line, a blank line, the
// items header, then one line per item or the no-items marker.
func renderText(r models.ExtractedReceipt) string {
	var b strings.Builder

	store := r.StoreName
	if store == "" {
		store = "N/A"
	}
	fmt.Fprintf(&b, "Store: %s\n", store)

	if r.DateOfPurchase != "" {
		fmt.Fprintf(&b, "Date: %s\n", models.FormatDate(r.DateOfPurchase))
	}

	fmt.Fprintf(&b, "Total: $%.2f\n\n", r.TotalAmount)
	b.WriteString("--- Items ---\n")

	if len(r.Items) == 0 {
		b.WriteString("No items found.\n")
	} else {
		for _, item := range r.Items {
			fmt.Fprintf(&b, "%s - $%.2f\n", item.Name, item.Price)
		}
	}

	return strings.TrimSpace(b.String())
}
