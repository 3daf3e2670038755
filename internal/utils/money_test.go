package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsMoneyAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", true},
		{"1500", true},
		{"1500.50", true},
		{"999999999999.99", true},
		{"0", false},
		{"-5", false},
		{"0.001", false},
		{"10.125", false},
		{"1000000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMoneyAmount(decimal.RequireFromString(tt.amount), 12))
		})
	}
}
