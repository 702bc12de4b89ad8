package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type BillData struct {
	BillNumber    string
	Month         string
	IssuedOn      string
	CustomerName  string
	CustomerID    string
	MilkType      string
	RatePerLiter  string
	TotalMilk     string
	TotalAmount   string
	PaymentStatus string

	Days []BillDay
}

type BillDay struct {
	Day         int
	MorningMilk string
	EveningMilk string
	TotalMilk   string
}

type billProvider struct{}

func New() Provider {
	return &billProvider{}
}

func (p *billProvider) GenerateBill(ctx context.Context, bill BillData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(12, "Milk Bill", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Bill number: "+bill.BillNumber, props.Text{Top: 0}),
			text.New("Billing month: "+bill.Month, props.Text{Top: 4}),
			text.New("Issued on: "+bill.IssuedOn, props.Text{Top: 8}),
			text.New("Status: "+bill.PaymentStatus, props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New(bill.CustomerName, props.Text{Style: fontstyle.Bold}),
			text.New(bill.CustomerID, props.Text{Top: 5}),
			text.New("Milk: "+bill.MilkType, props.Text{Top: 9}),
			text.New("Rate per liter: "+bill.RatePerLiter, props.Text{Top: 13}),
		),
	)

	m.AddRow(10,
		text.NewCol(3, "Day", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Morning (L)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Evening (L)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Total (L)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, day := range bill.Days {
		m.AddRow(8,
			text.NewCol(3, fmt.Sprintf("%d", day.Day), props.Text{Size: 9}),
			text.NewCol(3, day.MorningMilk, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, day.EveningMilk, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, day.TotalMilk, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total milk", props.Text{Size: 9}),
		text.NewCol(3, bill.TotalMilk, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Amount due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, bill.TotalAmount, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
