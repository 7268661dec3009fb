// Package models defines the read-only domain records returned by the
// receipt service. The server owns these; the client holds copies scoped to
// the query that produced them.
package models

import (
	"fmt"
	"strconv"
	"time"
)

// User is the minimal profile of an authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Item is a single line item of a receipt.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Receipt is one structured receipt record.
type Receipt struct {
	ID             string  `json:"id"`
	StoreName      string  `json:"storeName"`
	DateOfPurchase string  `json:"dateOfPurchase"` // epoch millis as string
	TotalAmount    float64 `json:"totalAmount"`
	Category       string  `json:"category"`
	Items          []Item  `json:"items"`
}

// Page is one page of the receipts listing.
type Page struct {
	Receipts    []Receipt `json:"receipts"`
	TotalCount  int       `json:"totalCount"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// Detail is a single receipt with its owner attached.
type Detail struct {
	Receipt
	User User `json:"user"`
}

// ExtractedItem is a line item as returned by the OCR extraction, before the
// server assigns it an identifier.
type ExtractedItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ExtractedReceipt is the OCR result of an uploaded receipt image.
type ExtractedReceipt struct {
	StoreName      string          `json:"storeName"`
	DateOfPurchase string          `json:"dateOfPurchase"`
	TotalAmount    float64         `json:"totalAmount"`
	Items          []ExtractedItem `json:"items"`
}

// Categories is the fixed vocabulary accepted by the category filter and the
// upload hint.
var Categories = []string{
	"Groceries",
	"Clothing & Apparel",
	"Electronics",
	"Dining",
	"Utilities",
	"Other",
}

// FormatDate renders an epoch-millisecond timestamp string as a short local
// date. Empty or malformed input renders as "N/A".
func FormatDate(epochMillis string) string {
	if epochMillis == "" {
		return "N/A"
	}
	ms, err := strconv.ParseInt(epochMillis, 10, 64)
	if err != nil {
		return "N/A"
	}
	return time.UnixMilli(ms).Format("1/2/2006")
}

// FormatAmount renders a monetary amount as dollars with two decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
