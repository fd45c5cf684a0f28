// Package catalogcsv lee catálogos de productos en CSV (cabecera sku,name,category,price,stock,
// id opcional). Acepta archivos UTF-8 o ISO-8859-1, la codificación habitual de las
// exportaciones de hojas de cálculo antiguas.
package catalogcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var required = []string{"sku", "name", "price", "stock"}

// Parse lee el CSV completo. charset: "utf-8" (por defecto), "latin1" o "iso-8859-1".
// Los productos sin id reciben un UUID nuevo.
func Parse(r io.Reader, charset string) ([]entity.Product, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("catalogcsv: charset no soportado %q", charset)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalogcsv: leer cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("catalogcsv: falta la columna %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var products []entity.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalogcsv: línea %d: %w", line, err)
		}
		price, err := decimal.NewFromString(field(rec, "price"))
		if err != nil {
			return nil, fmt.Errorf("catalogcsv: línea %d: precio inválido: %w", line, err)
		}
		stock, err := strconv.Atoi(field(rec, "stock"))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("catalogcsv: línea %d: stock inválido %q", line, field(rec, "stock"))
		}
		p := entity.Product{
			ID:       field(rec, "id"),
			SKU:      field(rec, "sku"),
			Name:     field(rec, "name"),
			Category: field(rec, "category"),
			Price:    price,
			Stock:    stock,
			Status:   "active",
		}
		if p.SKU == "" || p.Name == "" {
			return nil, fmt.Errorf("catalogcsv: línea %d: sku y name son obligatorios", line)
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		products = append(products, p)
	}
	return products, nil
}
