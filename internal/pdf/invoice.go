// server/internal/pdf/invoice.go

// Package pdf renders invoices to PDF with maroto.
package pdf

import (
	"fmt"

	"garage-ops-api-server/internal/models"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func dollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// RenderInvoice produces the PDF bytes for an invoice.
func RenderInvoice(inv *models.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Invoice "+inv.InvoiceID, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, inv.CreatedAt.Format("2006-01-02"), props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(6, "Work Order: "+inv.WorkOrderID, props.Text{Size: 10}),
		text.NewCol(6, "Customer: "+inv.CustomerID, props.Text{Size: 10}),
	)

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, "Parts", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Labor", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, line := range inv.Lines {
		m.AddRow(6,
			text.NewCol(6, line.Description, props.Text{Size: 9}),
			text.NewCol(2, dollars(line.PartCents), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, dollars(line.LaborCents), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, dollars(line.TotalCents), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(6,
		text.NewCol(10, "Subtotal", props.Text{Size: 10, Align: align.Right}),
		text.NewCol(2, dollars(inv.SubtotalCents), props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(10, "VAT (5%)", props.Text{Size: 10, Align: align.Right}),
		text.NewCol(2, dollars(inv.VATCents), props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(10, "Total", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, dollars(inv.TotalCents), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return doc.GetBytes(), nil
}
