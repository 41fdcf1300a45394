package cryptofolio

import "github.com/shopspring/decimal"

// D is a convenient factory for decimal.Decimal in tests.
func D[T float64 | int | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	default:
		panic("unsupported type")
	}
}
