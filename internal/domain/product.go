package domain

import "fmt"

// Product is an immutable catalog entry.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	ImageRef       string `json:"imageRef"`
	Category       string `json:"category,omitempty"`
}

// FormatCents renders a cent amount as a two decimal string, e.g. 23997 -> "239.97".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
