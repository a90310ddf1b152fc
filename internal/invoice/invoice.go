// Package invoice формирует HTML-счёт по завершённой продаже.
package invoice

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/storefront-client/internal/model"
)

const defaultCustomerName = "Final consumer"

var tmpl = template.Must(template.New("invoice").Parse(`<html>
  <body style="font-family: Arial, sans-serif; padding: 20px;">
    <h1>Invoice</h1>
    <p><strong>Ticket:</strong> {{.TicketNumber}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Customer:</strong> {{.CustomerName}}</p>
    <table style="width:100%; border-collapse: collapse;" border="1" cellpadding="8">
      <thead>
        <tr>
          <th>Product</th>
          <th>Quantity</th>
          <th>Price</th>
          <th>Total</th>
        </tr>
      </thead>
      <tbody>
{{- range .Rows}}
        <tr>
          <td>{{.ProductName}}</td>
          <td>{{.Qty}}</td>
          <td>{{.Price}}</td>
          <td>{{.Total}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
    <h2 style="text-align:right; margin-top: 20px;">Total: {{.Total}}</h2>
  </body>
</html>
`))

// Data содержит данные для формирования счёта.
type Data struct {
	TicketNumber int64
	Date         time.Time
	CustomerName string
	Items        []model.CartLine
	Total        decimal.Decimal
}

type row struct {
	ProductName string
	Qty         int
	Price       string
	Total       string
}

type view struct {
	TicketNumber int64
	Date         string
	CustomerName string
	Rows         []row
	Total        string
}

// Render записывает HTML-счёт в указанный поток.
func Render(w io.Writer, data Data) error {
	name := data.CustomerName
	if name == "" {
		name = defaultCustomerName
	}

	rows := make([]row, 0, len(data.Items))
	for _, it := range data.Items {
		rows = append(rows, row{
			ProductName: it.ProductName,
			Qty:         it.Qty,
			Price:       money(it.SalePrice),
			Total:       money(it.LineTotal),
		})
	}

	v := view{
		TicketNumber: data.TicketNumber,
		Date:         data.Date.Format("02 Jan 2006 15:04"),
		CustomerName: name,
		Rows:         rows,
		Total:        money(data.Total),
	}

	if err := tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return nil
}

// WriteFile формирует счёт и сохраняет его в файл внутри указанного каталога.
// Возвращает путь к созданному файлу. Печать и отправка счёта остаются за
// внешним инструментом.
func WriteFile(dir string, data Data) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("invoice-%d.html", data.TicketNumber))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create invoice file: %w", err)
	}
	defer f.Close()

	if err := Render(f, data); err != nil {
		return "", err
	}
	return path, nil
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}
