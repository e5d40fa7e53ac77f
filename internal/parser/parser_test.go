package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return New([]string{"зарплата", "аванс", "пополнение", "доход", "премия"})
}

func TestParse(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		input    string
		category string
		amount   string
		isIncome bool
	}{
		{"expense", "Еда, 150", "еда", "150", false},
		{"income", "Зарплата, 1000", "зарплата", "1000", true},
		{"lowercase category", "ТАКСИ, 250", "такси", "250", false},
		{"decimal point", "еда, 99.90", "еда", "99.9", false},
		{"integer amount", "еда, 99", "еда", "99", false},
		{"spaces in amount", "еда, 1 500", "еда", "1500", false},
		{"negative amount", "USD, -30", "usd", "-30", false},
		{"padded parts", "  премия ,  500  ", "премия", "500", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.category, op.Category)
			assert.True(t, op.Amount.Equal(decimal.RequireFromString(tt.amount)),
				"amount: got %s, want %s", op.Amount, tt.amount)
			assert.Equal(t, tt.isIncome, op.IsIncome)
		})
	}
}

func TestParseErrors(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"no comma", "еда 150", ErrBadFormat},
		{"too many commas", "еда, 150, 200", ErrBadFormat},
		{"empty category", ", 150", ErrBadFormat},
		{"empty input", "", ErrBadFormat},
		{"amount not a number", "еда, сто", ErrBadAmount},
		{"empty amount", "еда, ", ErrBadAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseDoesNotMutateCase(t *testing.T) {
	p := newTestParser()

	// категория из списка доходов распознается независимо от регистра
	op, err := p.Parse("ЗарПлата, 100")
	require.NoError(t, err)
	assert.True(t, op.IsIncome)
	assert.Equal(t, "зарплата", op.Category)
}

func TestIsIncome(t *testing.T) {
	p := newTestParser()

	assert.True(t, p.IsIncome("зарплата"))
	assert.True(t, p.IsIncome(" Аванс "))
	assert.False(t, p.IsIncome("еда"))
	assert.False(t, p.IsIncome(""))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"100", "100"},
		{"1500.50", "1500.5"},
		{"1500,50", "1500.5"},
		{"1 500", "1500"},
		{"-30", "-30"},
		{"0", "0"},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"input %q: got %s, want %s", tt.input, got, tt.want)
	}

	_, err := ParseAmount("abc")
	assert.ErrorIs(t, err, ErrBadAmount)

	_, err = ParseAmount("")
	assert.ErrorIs(t, err, ErrBadAmount)
}
