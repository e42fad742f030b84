package model

import "github.com/shopspring/decimal"

// AccountType classifies an account by the leading digit of its code.
// Values are the display names used in reports.
type AccountType string

const (
	TypeAsset            AccountType = "Activo"
	TypeLiability        AccountType = "Pasivo"
	TypeEquity           AccountType = "Patrimonio"
	TypeRevenue          AccountType = "Ingreso"
	TypeExpense          AccountType = "Gasto"
	TypeCost             AccountType = "Costo"
	TypeProductionCost   AccountType = "Costo de producción"
	TypeMemorandumDebit  AccountType = "Cuentas de orden deudoras"
	TypeMemorandumCredit AccountType = "Cuentas de orden acreedoras"
	TypeUnclassified     AccountType = "No clasificado"
)

// Category is the business grouping of an account, orthogonal to its
// accounting type. Values are the display names used in reports.
type Category string

const (
	CategoryLivestock    Category = "animales"
	CategoryPastures     Category = "praderas"
	CategoryOffice       Category = "oficina"
	CategoryLegal        Category = "legal"
	CategoryImprovements Category = "mejoras"
	CategoryOther        Category = "otros"
)

// Categories lists all categories in report order.
var Categories = []Category{
	CategoryLivestock,
	CategoryPastures,
	CategoryOffice,
	CategoryLegal,
	CategoryImprovements,
	CategoryOther,
}

// AccountRecord is one classified row of a trial-balance statement.
// Records are immutable after extraction.
type AccountRecord struct {
	Code        string
	Description string
	Value       decimal.Decimal
	Type        AccountType
	Category    Category
}
