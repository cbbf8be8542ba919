package models

// Currency represents a currency row (e.g., USD, EUR).
type Currency struct {
	CurrencyCode string `db:"currency_code"` // Primary Key, ISO 4217
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	Precision    int    `db:"precision"`
	AuditFields
}
