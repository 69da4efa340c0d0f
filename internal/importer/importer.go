package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cart-operations/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Columns the importer understands. name, category and price are required.
var requiredColumns = []string{"name", "category", "price"}

// CSVImporter reads a product catalog in CSV form and upserts each row by
// product name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses every row and upserts it. It stops at the first bad row and
// returns how many products were written before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	name := pick(record, index, "name")
	if name == "" {
		return domain.Product{}, errors.New("name is required")
	}
	category, err := domain.ParseCategory(pick(record, index, "category"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %q: %w", name, err)
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %q: invalid price: %w", name, err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("product %q: price must not be negative", name)
	}

	p := domain.Product{
		Name:        name,
		Description: pick(record, index, "description"),
		Category:    category,
		Price:       price.Round(2),
	}
	if raw := pick(record, index, "available_quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 0 {
			return domain.Product{}, fmt.Errorf("product %q: invalid available_quantity %q", name, raw)
		}
		p.AvailableQuantity = qty
	}
	if raw := pick(record, index, "employee_discount"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %q: invalid employee_discount %q", name, raw)
		}
		p.EmployeeDiscountEnabled = enabled
	}
	return p, nil
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

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
