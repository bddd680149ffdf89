// Package pdf renders the Request for Change Order document attached to
// outbound RFCO emails.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// RFCOLine is one priced line in a document section
type RFCOLine struct {
	Description string
	Detail      string
	Subtotal    decimal.Decimal
}

// RFCOSection groups the lines of one cost category with its marked-up total
type RFCOSection struct {
	Title      string
	OHPPercent decimal.Decimal
	Lines      []RFCOLine
	Total      decimal.Decimal
}

// RFCOData is everything needed to render the document
type RFCOData struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string

	TNMNumber   string
	Title       string
	Description string
	ProjectName string
	WorkDate    string

	Sections       []RFCOSection
	ProposalAmount decimal.Decimal
}

// GenerateRFCO renders the Request for Change Order document and returns the
// raw PDF bytes.
func GenerateRFCO(data *RFCOData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTicketBlock(m, data)
	for i := range data.Sections {
		addSection(m, &data.Sections[i])
	}
	addProposalTotal(m, data)
	addSignatureBlock(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate RFCO PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data *RFCOData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("REQUEST FOR CHANGE ORDER", props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 26, Green: 60, Blue: 94},
				}),
			),
		),
	)

	contact := data.CompanyAddress
	if data.CompanyEmail != "" {
		if contact != "" {
			contact += " | "
		}
		contact += data.CompanyEmail
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(contact, props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Ticket #: %s", data.TNMNumber), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

func addTicketBlock(m core.Maroto, data *RFCOData) {
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	valueStyle := props.Text{
		Size:  9,
		Align: align.Left,
	}

	fields := []struct{ label, value string }{
		{"Project", data.ProjectName},
		{"Title", data.Title},
		{"Work Date", data.WorkDate},
		{"Description", data.Description},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		m.AddRows(
			row.New(7).Add(
				col.New(2).Add(text.New(f.label, labelStyle)),
				col.New(10).Add(text.New(f.value, valueStyle)),
			),
		)
	}

	m.AddRows(row.New(3))
}

func addSection(m core.Maroto, section *RFCOSection) {
	if len(section.Lines) == 0 {
		return
	}

	headerBg := &props.Color{Red: 26, Green: 60, Blue: 94}
	headerCell := &props.Cell{BackgroundColor: headerBg}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextRight := headerText
	headerTextRight.Align = align.Right

	title := fmt.Sprintf("%s  (OH&P %s%%)", section.Title, section.OHPPercent.String())
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New(title, headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("Subtotal", headerTextRight)).WithStyle(headerCell),
		),
	)

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	for i, line := range section.Lines {
		bodyLeft := props.Text{Size: 8, Align: align.Left}
		bodyRight := props.Text{Size: 8, Align: align.Right}
		detailStyle := props.Text{Size: 7, Align: align.Left, Color: &props.Color{Red: 100, Green: 100, Blue: 100}}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		colDesc := col.New(6).Add(text.New(line.Description, bodyLeft))
		colDetail := col.New(3).Add(text.New(line.Detail, detailStyle))
		colAmount := col.New(3).Add(text.New(formatUSD(line.Subtotal), bodyRight))

		if cellStyle != nil {
			colDesc = colDesc.WithStyle(cellStyle)
			colDetail = colDetail.WithStyle(cellStyle)
			colAmount = colAmount.WithStyle(cellStyle)
		}

		m.AddRows(row.New(7).Add(colDesc, colDetail, colAmount))
	}

	totalBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	totalCell := &props.Cell{BackgroundColor: totalBg}
	m.AddRows(
		row.New(7).Add(
			col.New(9).Add(text.New(section.Title+" Total with OH&P", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: align.Right,
			})).WithStyle(totalCell),
			col.New(3).Add(text.New(formatUSD(section.Total), props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: align.Right,
			})).WithStyle(totalCell),
		),
	)

	m.AddRows(row.New(2))
}

func addProposalTotal(m core.Maroto, data *RFCOData) {
	grandBg := &props.Color{Red: 26, Green: 60, Blue: 94}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	white := &props.Color{Red: 255, Green: 255, Blue: 255}

	m.AddRows(
		row.New(9).Add(
			col.New(9).Add(text.New("PROPOSAL AMOUNT", props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: white,
			})).WithStyle(grandCell),
			col.New(3).Add(text.New(formatUSD(data.ProposalAmount), props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: white,
			})).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(4))
}

func addSignatureBlock(m core.Maroto) {
	lineStyle := props.Text{
		Size:  8,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	m.AddRows(row.New(10))
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("____________________________", lineStyle)),
			col.New(6).Add(text.New("____________________________", lineStyle)),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("General Contractor Signature", labelStyle)),
			col.New(6).Add(text.New("Date", labelStyle)),
		),
	)
}

func formatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
