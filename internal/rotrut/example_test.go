package rotrut_test

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"exporter/internal/clock"
	"exporter/internal/rotrut"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// Example demonstrates a RUT request for a single cleaning invoice.
func Example() {
	labor := decimal.NewFromInt(2500)
	deduction := decimal.NewFromInt(1250)

	invoices := []models.Invoice{{
		ID:            "c0ffee",
		InvoiceNumber: 2041,
		IssueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Status:        models.StatusPaid,
		Amount:        decimal.NewFromInt(3750),
		RotRutType:    models.DeductionRUT,
		RotRutAmount:  &deduction,
		LaborCost:     &labor,
		Customer:      &models.Customer{Name: "Berit Berg", OrgNumber: "19800101-1234"},
	}}

	exporter := rotrut.NewExporter(
		clock.Fixed(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)),
		services.ExportOptions{},
	)

	res, err := exporter.Generate(invoices, models.DeductionRUT, "556677-8899")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Filename)
	fmt.Print(string(res.Content))
	// Output:
	// skatteverket_rut_2026-10-18.xml
	// <?xml version="1.0" encoding="UTF-8"?>
	// <Begaran xmlns="http://xmls.skatteverket.se/se/skatteverket/husarbete/begaran/6.0">
	//   <NamnPaBegaran>RUT 2026-10-18</NamnPaBegaran>
	//   <Hushall>
	//     <Pnr>198001011234</Pnr>
	//     <Arende>
	//       <PrisTjanster>2500</PrisTjanster>
	//       <BetaltBelopp>2500</BetaltBelopp>
	//       <BegartBelopp>1250</BegartBelopp>
	//       <BetalningsDatum>2026-09-30</BetalningsDatum>
	//       <AntalTimmar>4</AntalTimmar>
	//     </Arende>
	//   </Hushall>
	// </Begaran>
}
