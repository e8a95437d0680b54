package sie_test

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"exporter/internal/clock"
	"exporter/internal/sie"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// Example books one ROT invoice for September.
func Example() {
	deduction := decimal.NewFromInt(300)
	labor := decimal.NewFromInt(600)

	invoices := []models.Invoice{{
		ID:            "b00k",
		InvoiceNumber: 1002,
		IssueDate:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:        models.StatusPaid,
		Amount:        decimal.NewFromInt(1000),
		RotRutType:    models.DeductionROT,
		RotRutAmount:  &deduction,
		LaborCost:     &labor,
		Customer:      &models.Customer{Name: "Anna Andersson"},
	}}

	exporter := sie.NewExporter(
		clock.Fixed(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)),
		services.ExportOptions{ProgramName: "Hantverkarappen", ProgramVersion: "1.0"},
	)

	company := models.CompanyInfo{Name: "Bygg AB", OrgNumber: "556677-8899", ContactPerson: "Erik"}
	res, err := exporter.Generate(invoices, company,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Filename)
	fmt.Print(string(res.Content))
	// Output:
	// bokforing_2026_09.se
	// #FLAGGA 0
	// #PROGRAM "Hantverkarappen" "1.0"
	// #FORMAT PC8
	// #GEN 20261018 120000 "ERI"
	// #SIETYP 4
	// #FNAMN "Bygg AB"
	// #ORGNR 5566778899
	// #RAR 0 20260901 20260930
	// #KONTO 1510 "Kundfordringar"
	// #KONTO 3001 "Försäljning inom Sverige, 25 % moms"
	// #KONTO 3041 "Försäljning tjänster ROT/RUT, 25 % moms"
	// #KONTO 2611 "Utgående moms försäljning, 25 %"
	// #KONTO 1513 "Fordran Skatteverket ROT/RUT"
	// #VER A 1002 20260915 "Faktura 1002 Anna Andersson"
	// {
	// #TRANS 1510 {} 700.00 20260915 "Faktura 1002 Anna Andersson"
	// #TRANS 1513 {} 300.00 20260915 "Faktura 1002 Anna Andersson"
	// #TRANS 3041 {} -800.00 20260915 "Faktura 1002 Anna Andersson"
	// #TRANS 2611 {} -200.00 20260915 "Faktura 1002 Anna Andersson"
	// }
}
