package normalization

import (
	"errors"
	"testing"
)

// Тесты разбора цен в разных локалях
func TestParsePrice(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		// Точка как десятичный разделитель
		{"1234.56", 123456},
		{"0.99", 99},
		{"10", 1000},
		{"10.5", 1050},

		// Оба разделителя: последний - десятичный
		{"1,234.56", 123456},
		{"1.234,56", 123456},
		{"12,345,678.90", 1234567890},
		{"12.345.678,90", 1234567890},

		// Один разделитель: 1-2 цифры после - десятичный
		{"1234,56", 123456},
		{"5,5", 550},

		// Один разделитель: ровно 3 цифры после - разделитель тысяч
		{"1,234", 123400},
		{"12.345", 1234500},

		// Повторяющийся одиночный разделитель - тысячи
		{"1,234,567", 123456700},

		// Валютные символы и пробелы
		{"$1,234.56", 123456},
		{"1 250,50 руб", 125050},
		{"€99.00", 9900},
		{"1234.56 USD", 123456},

		// Ноль
		{"0", 0},
		{"0.00", 0},
	}

	for _, tt := range tests {
		result, err := ParsePrice(tt.input)
		if err != nil {
			t.Errorf("ParsePrice(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("ParsePrice(%q) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

// Тесты отклонения неразбираемых цен
func TestParsePrice_Invalid(t *testing.T) {
	tests := []string{
		"",
		"бесплатно",
		"n/a",
		"-10.00",
		"1.2345",  // больше двух знаков после десятичного разделителя
		"12,3456", // то же с запятой
		"..",
	}

	for _, input := range tests {
		_, err := ParsePrice(input)
		if err == nil {
			t.Errorf("ParsePrice(%q) expected error, got nil", input)
			continue
		}
		if !errors.Is(err, ErrUnparseablePrice) {
			t.Errorf("ParsePrice(%q) error = %v, want ErrUnparseablePrice", input, err)
		}
	}
}

// Тесты форматирования цены из минорных единиц
func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents    int64
		expected string
	}{
		{123456, "1234.56"},
		{99, "0.99"},
		{1000, "10.00"},
		{0, "0.00"},
		{5, "0.05"},
	}

	for _, tt := range tests {
		result := FormatPrice(tt.cents)
		if result != tt.expected {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.cents, result, tt.expected)
		}
	}
}
