// Package document renders invoices into printable documents. Rendering is a
// pure projection of an Invoice value plus a product lookup; it never touches
// storage.
package document

import (
	"fmt"
	"strings"
	"text/template"

	"om-traders/internal/model"
)

// Shop identity printed on every invoice.
const (
	shopName     = "Om Traders"
	shopTagline  = "PVC, Hardware & Electronics"
	shopAddress1 = "Nandurdi, Devpur-Panchkeshwer Road"
	shopAddress2 = "Niphad, Nashik"
	shopPincode  = "Pin Code - 422308"
)

// invoiceTemplate lays out the printable invoice: shop header, invoice
// number and date, customer block, line table, total and amount in words.
var invoiceTemplate = template.Must(template.New("invoice").Parse(`{{.ShopName}}
{{.ShopTagline}}
{{.ShopAddress1}}
{{.ShopAddress2}}
{{.ShopPincode}}

INVOICE
Invoice No: {{.Number}}
Invoice Date: {{.Date}}

Name: {{.CustomerName}}
Address: {{.Address}}
Phone Number: {{.Phone}}

Sl.No.  Description                      Qty.      Rate        Amount
---------------------------------------------------------------------
{{range .Lines}}{{printf "%-7d %-32s %-9d %-11s %s" .Number .Description .Quantity .Rate .Amount}}
{{end}}---------------------------------------------------------------------
{{printf "%-61s %s" "Total" .Total}}

Rupees in words: {{.TotalInWords}}

Terms & Conditions:

Signature
`))

type invoiceLine struct {
	Number      int
	Description string
	Quantity    int
	Rate        string
	Amount      string
}

type invoiceView struct {
	ShopName     string
	ShopTagline  string
	ShopAddress1 string
	ShopAddress2 string
	ShopPincode  string
	Number       string
	Date         string
	CustomerName string
	Address      string
	Phone        string
	Lines        []invoiceLine
	Total        string
	TotalInWords string
}

// RenderInvoice produces the printable plain-text form of an invoice.
// Products supply the line descriptions; a line whose product has since been
// deleted falls back to the product ID.
func RenderInvoice(invoice *model.Invoice, products []model.Product) (string, error) {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	lines := make([]invoiceLine, 0, len(invoice.Items))
	for i, item := range invoice.Items {
		description := names[item.ProductID]
		if description == "" {
			description = item.ProductID
		}
		lines = append(lines, invoiceLine{
			Number:      i + 1,
			Description: description,
			Quantity:    item.Quantity,
			Rate:        FormatAmount(item.Price),
			Amount:      FormatAmount(item.Amount()),
		})
	}

	number := invoice.ID
	if len(number) > 8 {
		number = number[:8]
	}

	view := invoiceView{
		ShopName:     shopName,
		ShopTagline:  shopTagline,
		ShopAddress1: shopAddress1,
		ShopAddress2: shopAddress2,
		ShopPincode:  shopPincode,
		Number:       number,
		Date:         invoice.Date.Format("02/01/2006"),
		CustomerName: invoice.CustomerName,
		Address:      invoice.Address,
		Phone:        invoice.Phone,
		Lines:        lines,
		Total:        FormatAmount(invoice.Total),
		TotalInWords: AmountInWords(invoice.Total),
	}

	var b strings.Builder
	if err := invoiceTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render invoice %s: %w", invoice.ID, err)
	}
	return b.String(), nil
}
