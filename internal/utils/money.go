package utils

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of every money column.
const MoneyPlaces = 2

// IsMoneyAmount reports whether d is positive, has at most MoneyPlaces decimal places and has no more
// than integerDigits digits before the decimal point, so it is stored exactly.
func IsMoneyAmount(d decimal.Decimal, integerDigits int32) bool {
	return d.IsPositive() &&
		d.Equal(d.Truncate(MoneyPlaces)) &&
		d.LessThan(decimal.New(1, integerDigits))
}
