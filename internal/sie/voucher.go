package sie

import (
	"fmt"

	"exporter/internal/money"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// BuildVoucher turns one invoice into a balanced voucher:
//
//	debit  1510  amount - deduction   (what the customer pays)
//	debit  1513  deduction            (only if > 0, claimed from Skatteverket)
//	credit 3001/3041  net of amount   (3041 when a deduction is present)
//	credit 2611  VAT of amount
//
// Amounts are cent-rounded before splitting and VAT is the remainder, so the lines
// always sum to exactly zero.
func BuildVoucher(inv *models.Invoice) services.VoucherSummary {
	amount := money.Cents(inv.Amount)
	deduction := money.Cents(inv.RotRutAmountOrZero())
	customerToPay := amount.Sub(deduction)
	net, vat := money.SplitVAT(amount)

	salesAccount := AccountSalesGoods
	if deduction.IsPositive() {
		salesAccount = AccountSalesLabor
	}

	lines := []services.TransactionLine{{Account: AccountReceivables, Amount: customerToPay}}
	if deduction.IsPositive() {
		lines = append(lines, services.TransactionLine{Account: AccountDeductionReceivable, Amount: deduction})
	}
	lines = append(lines,
		services.TransactionLine{Account: salesAccount, Amount: net.Neg()},
		services.TransactionLine{Account: AccountOutputVAT, Amount: vat.Neg()},
	)

	return services.VoucherSummary{
		Number: inv.InvoiceNumber,
		Date:   inv.IssueDate,
		Text:   voucherText(inv),
		Lines:  lines,
	}
}

func voucherText(inv *models.Invoice) string {
	if name := inv.CustomerName(); name != "" {
		return fmt.Sprintf("Faktura %d %s", inv.InvoiceNumber, name)
	}
	return fmt.Sprintf("Faktura %d", inv.InvoiceNumber)
}
