package billing

import (
	"fmt"
	"strconv"
)

// FormatAmountBRL renders an integer amount in cents as a pt-BR currency
// string for email variable substitution, e.g. 215880 -> "R$ 2.158,80".
func FormatAmountBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	reais := cents / 100
	centavos := cents % 100

	digits := strconv.FormatInt(reais, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped, centavos)
}
