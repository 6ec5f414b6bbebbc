package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/hoversale/internal/models"
)

type InvoiceLine struct {
	Name     string
	Quantity int
	Total    decimal.Decimal
}

type Invoice struct {
	OrderID       uint
	Date          time.Time
	Name          string
	Email         string
	Phone         string
	Address       string
	PaymentMethod string
	Status        models.OrderStatus
	Lines         []InvoiceLine
	Total         decimal.Decimal
}

// NewInvoice sums line totals from the stored unit prices.
func NewInvoice(o *models.Order, at time.Time) *Invoice {
	inv := &Invoice{
		OrderID:       o.ID,
		Date:          at,
		Name:          o.Name,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Total:         decimal.Zero,
	}
	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("Product #%d", it.ProductID)
		}
		line := InvoiceLine{Name: name, Quantity: it.Quantity, Total: it.LineTotal()}
		inv.Lines = append(inv.Lines, line)
		inv.Total = inv.Total.Add(line.Total)
	}
	return inv
}

type Renderer interface {
	// Body is the email HTML, Document the attached invoice.
	Body(inv *Invoice) (string, error)
	Document(inv *Invoice) ([]byte, error)
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("02 Jan 2006") },
}

var bodyTmpl = template.Must(template.New("body").Funcs(funcs).Parse(`<h2>HoverSale Invoice</h2>
<p><strong>Status:</strong> {{.Status}}</p>
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Thank you for shopping with <strong>HoverSale</strong>!</p>
<table cellpadding="8" cellspacing="0" width="100%" style="border-collapse: collapse; font-size: 14px;">
<tr style="background-color: #f8f8f8;"><th align="left">Product</th><th align="center">Quantity</th><th align="right">Price</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .Total}}</td></tr>
{{end}}<tr><td colspan="2" align="right"><strong>Total:</strong></td><td align="right"><strong>{{money .Total}}</strong></td></tr>
</table>
<p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
<p><strong>Address:</strong><br />{{.Address}}</p>
<p>Your invoice is attached to this email.</p>
<p>The HoverSale Team</p>
`))

var documentTmpl = template.Must(template.New("document").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Invoice #{{.OrderID}}</title></head>
<body>
<h1>HoverSale Invoice</h1>
<p>Invoice #: {{.OrderID}}<br />Date: {{date .Date}}</p>
<h3>Customer Information</h3>
<p>Name: {{.Name}}<br />Email: {{.Email}}<br />Phone: {{.Phone}}<br />Address: {{.Address}}<br />
Payment Method: {{.PaymentMethod}}<br />Order Status: {{.Status}}</p>
<h3>Order Summary</h3>
<table>
<tr><th>Product</th><th>Qty</th><th>Price</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{money .Total}}</td></tr>
{{end}}<tr><td></td><td><strong>Grand Total:</strong></td><td><strong>{{money .Total}}</strong></td></tr>
</table>
<p>Thank you for shopping with HoverSale!</p>
</body></html>
`))

type HTMLRenderer struct{}

func (HTMLRenderer) Body(inv *Invoice) (string, error) {
	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, inv); err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return buf.String(), nil
}

func (HTMLRenderer) Document(inv *Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, inv); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
