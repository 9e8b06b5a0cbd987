package sqlstore

import "github.com/shopspring/decimal"

// moneyScale matches the NUMERIC(12,2) revenue columns. SQLite keeps them as REAL,
// so values and sums are rounded back to the column scale after scanning.
const moneyScale = 2

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

func moneySum(d decimal.NullDecimal) decimal.NullDecimal {
	if d.Valid {
		d.Decimal = money(d.Decimal)
	}
	return d
}
