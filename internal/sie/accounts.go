package sie

// BAS accounts used by the export. Only a single VAT rate is supported, so the chart
// is fixed and always declared in full.
const (
	AccountReceivables         = "1510"
	AccountSalesGoods          = "3001"
	AccountSalesLabor          = "3041"
	AccountOutputVAT           = "2611"
	AccountDeductionReceivable = "1513"
)

// Account is one #KONTO declaration.
type Account struct {
	Number string
	Name   string
}

// ChartOfAccounts lists the declared accounts in file order.
var ChartOfAccounts = []Account{
	{AccountReceivables, "Kundfordringar"},
	{AccountSalesGoods, "Försäljning inom Sverige, 25 % moms"},
	{AccountSalesLabor, "Försäljning tjänster ROT/RUT, 25 % moms"},
	{AccountOutputVAT, "Utgående moms försäljning, 25 %"},
	{AccountDeductionReceivable, "Fordran Skatteverket ROT/RUT"},
}
