package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    decimal.Decimal
		expected string
	}{
		{
			name:     "zero",
			value:    decimal.Zero,
			expected: "R$ 0,00",
		},
		{
			name:     "default ticket value",
			value:    decimal.NewFromInt(10),
			expected: "R$ 10,00",
		},
		{
			name:     "cents are rounded to two places",
			value:    decimal.RequireFromString("2.5"),
			expected: "R$ 2,50",
		},
		{
			name:     "thousands are grouped",
			value:    decimal.RequireFromString("1234.5"),
			expected: "R$ 1.234,50",
		},
		{
			name:     "negative value",
			value:    decimal.RequireFromString("-3.75"),
			expected: "-R$ 3,75",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.value))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1.000", FormatCount(1000))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "20/12/2026", FormatDate(time.Date(2026, 12, 20, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain ascii", input: "Rifa 2026", expected: "Rifa 2026"},
		{name: "accents stripped", input: "Prêmio São João", expected: "Premio Sao Joao"},
		{name: "cedilla", input: "Ação", expected: "Acao"},
		{name: "emoji dropped", input: "Rifa 🎉 top", expected: "Rifa  top"},
		{name: "control characters dropped and trimmed", input: "  Linha\nnova ", expected: "Linhanova"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestFileSlug(t *testing.T) {
	assert.Equal(t, "RIFA-DA-ESCOLA-SAO-JOSE", FileSlug("Rifa da Escola  São José"))
	assert.Equal(t, "SORTEIO", FileSlug("  "))
}

func TestT(t *testing.T) {
	assert.Equal(t, "VENCEDOR: 42", T(MsgWinner, "42"))
	assert.Equal(t, "7 números restantes no globo", T(MsgRemaining, 7))
	assert.Equal(t, "ESGOTADO", T(MsgSoldOut))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 15/03/2025 ")
	assert.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())

	_, err = ParseDate("2025-03-15")
	assert.Error(t, err)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "10", expected: "10"},
		{input: "10,50", expected: "10.5"},
		{input: "R$ 1.234,50", expected: "1234.5"},
		{input: "2.5", expected: "2.5"},
		{input: "dez", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}
