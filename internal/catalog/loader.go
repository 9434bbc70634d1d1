package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"driphorizon/internal/domain"
)

// LoadCSV reads a product table with header columns id,name,price and optional image,category.
// Prices are decimal strings ("79.99").
func LoadCSV(r io.Reader) (*Catalog, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true

	headers, err := csvr.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"id", "name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("catalog csv: missing %q column", required)
		}
	}

	var products []domain.Product
	line := 1
	for {
		record, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		id := pick(record, index, "id")
		if id == "" {
			continue
		}
		cents, err := parseCents(pick(record, index, "price"))
		if err != nil {
			return nil, fmt.Errorf("catalog csv line %d: %w", line, err)
		}
		image := pick(record, index, "image")
		if image == "" {
			image = id + ".jpg"
		}
		products = append(products, domain.Product{
			ID:             id,
			Name:           pick(record, index, "name"),
			UnitPriceCents: cents,
			ImageRef:       image,
			Category:       strings.ToLower(pick(record, index, "category")),
		})
	}
	return New(products)
}

// LoadFile opens path and delegates to LoadCSV.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// parseCents converts "79.99", "80" or "5.5" into cents without going through float64.
func parseCents(raw string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(raw), ".")
	if !digitsOnly(whole) || len(frac) > 2 || (hasFrac && !digitsOnly(frac)) {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return units*100 + cents, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
