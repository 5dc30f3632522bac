package normalization

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnparseablePrice цена не распознана как число или запись неоднозначна
var ErrUnparseablePrice = errors.New("price is not parseable")

// currencySymbols символы валют, отбрасываемые перед разбором числа
var currencySymbols = []string{"$", "€", "£", "₽", "¥", "₴", "₸"}

// ParsePrice разбирает строку цены в канонические минорные единицы (копейки/центы).
// Поддерживает запятую и точку как десятичный разделитель:
//   - оба разделителя в строке: последний из них десятичный, другой тысячный;
//   - единственный разделитель с 1-2 цифрами после него - десятичный;
//   - единственный разделитель с ровно 3 цифрами после - тысячный;
//   - повторяющийся разделитель - тысячный.
//
// Отрицательные, нечисловые и неоднозначные записи отклоняются.
func ParsePrice(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrUnparseablePrice)
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}

	// Буквенные коды валют и единицы ("USD 12.50", "12.50 руб") отбрасываем
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) || r == ' ' {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return 0, fmt.Errorf("%w: no digits in %q", ErrUnparseablePrice, raw)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative price %q", ErrUnparseablePrice, raw)
	}

	intPart, fracPart, err := splitDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v (raw %q)", ErrUnparseablePrice, err, raw)
	}

	var cents int64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: unexpected character %q in %q", ErrUnparseablePrice, r, raw)
		}
		cents = cents*10 + int64(r-'0')
		if cents > (1<<62)/100 {
			return 0, fmt.Errorf("%w: value overflow in %q", ErrUnparseablePrice, raw)
		}
	}
	cents *= 100

	switch len(fracPart) {
	case 0:
	case 1:
		cents += int64(fracPart[0]-'0') * 10
	case 2:
		cents += int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	default:
		return 0, fmt.Errorf("%w: too many decimal digits in %q", ErrUnparseablePrice, raw)
	}

	return cents, nil
}

// splitDecimal выделяет целую и дробную части, разрешая роль "," и "."
func splitDecimal(s string) (intPart, fracPart string, err error) {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var decimalSep rune
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Оба разделителя: десятичный - тот, что правее
		if lastComma > lastDot {
			decimalSep = ','
		} else {
			decimalSep = '.'
		}
	case lastComma >= 0:
		decimalSep = resolveSingleSeparator(s, ',')
	case lastDot >= 0:
		decimalSep = resolveSingleSeparator(s, '.')
	}

	if decimalSep != 0 {
		idx := strings.LastIndexByte(s, byte(decimalSep))
		intPart = s[:idx]
		fracPart = s[idx+1:]
	} else {
		intPart = s
	}

	// Оставшийся (тысячный) разделитель удаляем из целой части
	intPart = strings.ReplaceAll(intPart, ",", "")
	intPart = strings.ReplaceAll(intPart, ".", "")
	intPart = strings.ReplaceAll(intPart, "'", "")

	if intPart == "" && fracPart == "" {
		return "", "", errors.New("no digits")
	}
	if intPart == "" {
		intPart = "0"
	}

	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("non-digit %q in fraction", r)
		}
	}

	return intPart, fracPart, nil
}

// resolveSingleSeparator решает роль единственного типа разделителя в строке
func resolveSingleSeparator(s string, sep rune) rune {
	if strings.Count(s, string(sep)) > 1 {
		return 0 // повторяется - тысячный
	}
	idx := strings.LastIndexByte(s, byte(sep))
	digitsAfter := len(s) - idx - 1
	if digitsAfter == 3 {
		return 0 // "1,234" - тысячный
	}
	return sep
}

// FormatPrice форматирует минорные единицы обратно в каноническую запись "1234.56".
// Разбор результата ParsePrice дает то же значение (round-trip).
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
