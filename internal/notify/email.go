package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/candlegrove/storefront/internal/catalog"
	"github.com/candlegrove/storefront/internal/checkout"
)

// orderEmailTmpl renders the order notification body. Layout mirrors the
// storefront's order summary: customer block, delivery address, item table,
// then the pricing breakdown.
var orderEmailTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html{{if .RTL}} dir="rtl"{{end}}>
<head><meta charset="utf-8"><title>New Order - {{.Order.Cart.ItemCount}} Items</title></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>{{.T.Title}}</h1>
  <p>{{.T.OrderID}}: {{.Order.ID}}<br>{{.T.OrderDate}}: {{.Order.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>

  <h2>{{.T.Customer}}</h2>
  <p>
    {{.T.Name}}: {{.Order.Customer.Name}}<br>
    {{if .Order.Customer.Email}}{{.T.Email}}: {{.Order.Customer.Email}}<br>{{end}}
    {{.T.Mobile}}: {{.Order.Customer.Mobile}}
  </p>

  <h2>{{.T.Address}}</h2>
  <p>
    {{.Order.Customer.Address.Address1}}<br>
    {{if .Order.Customer.Address.Address2}}{{.Order.Customer.Address.Address2}}<br>{{end}}
    {{.Order.Customer.Address.City}}, {{.Order.Customer.Address.State}}{{if .Order.Customer.Address.ZipCode}} {{.Order.Customer.Address.ZipCode}}{{end}}{{if .Order.Customer.Address.Country}}<br>{{.Order.Customer.Address.Country}}{{end}}
  </p>

  <h2>{{.T.Items}}</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <thead>
      <tr style="background: #f3f4f6;">
        <th style="padding: 8px; text-align: left;">{{.T.Product}}</th>
        <th style="padding: 8px; text-align: center;">{{.T.Qty}}</th>
        <th style="padding: 8px; text-align: right;">{{.T.Price}}</th>
        <th style="padding: 8px; text-align: right;">{{.T.LineTotal}}</th>
      </tr>
    </thead>
    <tbody>
      {{- $currency := .Order.Summary.Currency}}
      {{- $rtl := .RTL}}
      {{- range .Order.Cart.Items}}
      <tr>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{if $rtl}}{{.Product.NameAr}}{{else}}{{.Product.Name}}{{end}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: center;">{{.Quantity}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{money .Product.Price}} {{$currency}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{money .Subtotal}} {{$currency}}</td>
      </tr>
      {{- end}}
    </tbody>
  </table>

  <table style="width: 100%; margin-top: 16px;">
    <tr><td>{{.T.Subtotal}}:</td><td style="text-align: right;">{{money .Order.Summary.Subtotal}} {{.Order.Summary.Currency}}</td></tr>
    <tr><td>{{.T.Shipping}}:</td><td style="text-align: right;">{{if .Order.Summary.FreeShipping}}{{.T.Free}}{{else}}{{money .Order.Summary.Shipping}} {{.Order.Summary.Currency}}{{end}}</td></tr>
    <tr><td>{{.T.Tax}}:</td><td style="text-align: right;">{{money .Order.Summary.Tax}} {{.Order.Summary.Currency}}</td></tr>
    <tr><td style="font-weight: bold;">{{.T.Total}}:</td><td style="text-align: right; font-weight: bold;">{{money .Order.Summary.GrandTotal}} {{.Order.Summary.Currency}}</td></tr>
  </table>

  <p style="color: #6b7280; font-size: 13px;">{{.T.Footer}}</p>
</body>
</html>`))

// labels holds the localized strings used by the email template.
type labels struct {
	Title, OrderID, OrderDate, Customer, Name, Email, Mobile, Address string
	Items, Product, Qty, Price, LineTotal                             string
	Subtotal, Shipping, Tax, Total, Free, Footer                      string
}

var labelsByLocale = map[string]labels{
	catalog.LocaleEn: {
		Title: "New Order Received", OrderID: "Order ID", OrderDate: "Order Date",
		Customer: "Customer Information", Name: "Name", Email: "Email", Mobile: "Mobile",
		Address: "Delivery Address", Items: "Order Items", Product: "Product", Qty: "Qty",
		Price: "Price", LineTotal: "Total", Subtotal: "Subtotal", Shipping: "Shipping",
		Tax: "Tax (10%)", Total: "Total", Free: "FREE",
		Footer: "This is an automated order notification.",
	},
	catalog.LocaleAr: {
		Title: "تم استلام طلب جديد", OrderID: "رقم الطلب", OrderDate: "تاريخ الطلب",
		Customer: "بيانات العميل", Name: "الاسم", Email: "البريد الإلكتروني", Mobile: "الموبايل",
		Address: "عنوان التوصيل", Items: "عناصر الطلب", Product: "المنتج", Qty: "الكمية",
		Price: "السعر", LineTotal: "الإجمالي", Subtotal: "المجموع الفرعي", Shipping: "الشحن",
		Tax: "الضريبة (10٪)", Total: "المجموع الكلي", Free: "مجاني",
		Footer: "هذه رسالة إشعار تلقائية بالطلب.",
	},
}

// renderOrderEmail produces the localized subject and HTML body for an order.
func renderOrderEmail(order checkout.Order) (subject, body string, err error) {
	locale := order.Locale
	t, ok := labelsByLocale[locale]
	if !ok {
		t = labelsByLocale[catalog.LocaleEn]
	}

	var sb strings.Builder
	data := struct {
		Order checkout.Order
		T     labels
		RTL   bool
	}{Order: order, T: t, RTL: locale == catalog.LocaleAr}

	if err := orderEmailTmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("notify: render order email: %w", err)
	}

	subject = fmt.Sprintf("New Order - %d Items - %s", order.Cart.ItemCount, order.Customer.Name)
	return subject, sb.String(), nil
}
