// Package importer loads a parts list from CSV into a client's cart, so a
// workshop can hand over a quote and have the buyer check it out.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"autoparts-storefront/internal/domain"
)

// CartWriter receives the imported lines.
type CartWriter interface {
	Add(ctx context.Context, item domain.CartLineItem) (domain.Cart, error)
}

// CSVImporter reads parts-list rows and adds them to a cart. Lines for the
// same listing id merge their quantities.
type CSVImporter struct {
	reader *csv.Reader
	cart   CartWriter
}

func NewCSVImporter(r io.Reader, cart CartWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // spreadsheets export ragged rows
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		cart:   cart,
	}
}

// Run adds every row and reports how many lines were added.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, errors.New("read headers: missing id column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		item, ok, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		if _, err := i.cart.Add(ctx, item); err != nil {
			return imported, fmt.Errorf("line %d: add listing %d: %w", line, item.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow reports false for blank rows. Quantity defaults to one.
func parseRow(record []string, index map[string]int) (domain.CartLineItem, bool, error) {
	idStr := pick(record, index, "id")
	if idStr == "" {
		return domain.CartLineItem{}, false, nil
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return domain.CartLineItem{}, false, fmt.Errorf("invalid id %q", idStr)
	}

	name := pick(record, index, "name")
	if name == "" {
		name = pick(record, index, "title")
	}
	if name == "" {
		return domain.CartLineItem{}, false, fmt.Errorf("listing %d has no name", id)
	}

	price, err := strconv.ParseFloat(pick(record, index, "price"), 64)
	if err != nil || price < 0 {
		return domain.CartLineItem{}, false, fmt.Errorf("listing %d has an invalid price", id)
	}

	qty := 1
	if raw := pick(record, index, "quantity"); raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil || qty < 1 {
			return domain.CartLineItem{}, false, fmt.Errorf("listing %d has an invalid quantity %q", id, raw)
		}
	}

	return domain.CartLineItem{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: qty,
		Image:    pick(record, index, "image"),
		Seller:   pick(record, index, "seller"),
		SKU:      pick(record, index, "sku"),
	}, true, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
