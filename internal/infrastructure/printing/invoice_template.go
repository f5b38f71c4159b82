package printing

// DefaultInvoiceTemplate is the built-in sale invoice layout
const DefaultInvoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Sale.InvoiceNumber}}</title>
<style>
  body { font-family: "Noto Sans Bengali", "Noto Sans", sans-serif; font-size: {{if .Receipt}}11px{{else}}12px{{end}}; color: #222; }
  h1 { font-size: 18px; margin: 0; }
  .muted { color: #666; }
  .header, .meta { display: flex; justify-content: space-between; margin-bottom: 12px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { padding: 4px 6px; border-bottom: 1px solid #ddd; text-align: left; }
  td.num, th.num { text-align: right; }
  .totals td { border: none; }
  .grand td { font-weight: bold; border-top: 2px solid #222; }
  .status { font-weight: bold; text-transform: uppercase; }
  .footer { margin-top: 16px; text-align: center; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{.Organization.Name}}</h1>
    {{with .Organization.Address}}<div class="muted">{{.}}</div>{{end}}
    {{with .Organization.Phone}}<div class="muted">Phone: {{.}}</div>{{end}}
  </div>
  <div>
    <div><strong>Invoice</strong> {{.Sale.InvoiceNumber}}</div>
    <div>{{formatDateTime .Sale.SaleDate}}</div>
    <div class="status">{{statusText .Sale.PaymentStatus}}</div>
  </div>
</div>

<div class="meta">
  <div>
    {{with .Customer}}
      <div><strong>Bill to</strong> {{.Name}}</div>
      {{with .Company}}<div>{{.}}</div>{{end}}
      {{with .Phone}}<div>{{.}}</div>{{end}}
      {{with .Address}}<div class="muted">{{.}}</div>{{end}}
    {{else}}
      <div><strong>Walk-in customer</strong></div>
    {{end}}
  </div>
  <div class="muted">Paid by {{title (print .Sale.PaymentMethod)}}</div>
</div>

<table>
  <thead>
    <tr><th>#</th><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Discount</th><th class="num">Total</th></tr>
  </thead>
  <tbody>
  {{range $i, $item := .Sale.Items}}
    <tr>
      <td>{{inc $i}}</td>
      <td>{{$item.ProductName}}</td>
      <td class="num">{{formatQty $item.Quantity}}</td>
      <td class="num">{{formatMoneyRaw $item.UnitPrice}}</td>
      <td class="num">{{if positive $item.Discount}}{{formatMoneyRaw $item.Discount}}{{end}}</td>
      <td class="num">{{formatMoneyRaw $item.Total}}</td>
    </tr>
  {{end}}
  </tbody>
</table>

<table class="totals">
  <tr><td class="num">Subtotal</td><td class="num">{{formatMoney .Sale.Subtotal}}</td></tr>
  {{if positive .Sale.DiscountAmount}}<tr><td class="num">Discount{{if positive .Sale.DiscountPercentage}} ({{.Sale.DiscountPercentage}}%){{end}}</td><td class="num">-{{formatMoney .Sale.DiscountAmount}}</td></tr>{{end}}
  {{if positive .Sale.TaxAmount}}<tr><td class="num">Tax</td><td class="num">{{formatMoney .Sale.TaxAmount}}</td></tr>{{end}}
  <tr class="grand"><td class="num">Grand total</td><td class="num">{{formatMoney .Sale.GrandTotal}}</td></tr>
  <tr><td class="num">Paid</td><td class="num">{{formatMoney .Sale.PaidAmount}}</td></tr>
  {{if positive .Sale.ChangeAmount}}<tr><td class="num">Change</td><td class="num">{{formatMoney .Sale.ChangeAmount}}</td></tr>{{end}}
  {{if positive .Sale.DueAmount}}<tr><td class="num">Due</td><td class="num">{{formatMoney .Sale.DueAmount}}</td></tr>{{end}}
  {{if positive .TotalDiscount}}<tr><td class="num muted">You saved</td><td class="num muted">{{formatMoney .TotalDiscount}}</td></tr>{{end}}
</table>

{{if .Payments}}
<h3>Payments</h3>
<table>
  <thead><tr><th>Date</th><th>Method</th><th>Reference</th><th class="num">Amount</th></tr></thead>
  <tbody>
  {{range .Payments}}
    <tr>
      <td>{{formatDate .PaymentDate}}</td>
      <td>{{title (print .PaymentMethod)}}</td>
      <td>{{.Reference}}</td>
      <td class="num">{{formatMoneyRaw .Amount}}</td>
    </tr>
  {{end}}
  </tbody>
</table>
{{end}}

{{with .Sale.Notes}}<p class="muted">{{.}}</p>{{end}}

<div class="footer">
  {{with .Footer}}<div>{{.}}</div>{{end}}
  <div class="muted">Printed {{formatDateTime .PrintedAt}}</div>
</div>
</body>
</html>
`
