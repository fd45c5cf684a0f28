package catalogcsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/catalogcsv"
)

func TestParse_UTF8(t *testing.T) {
	in := "id,sku,name,category,price,stock\np1,SKU001,Filtro,Parts,12.50,10\n,SKU002,Llave,Tools,3,0\n"
	products, err := catalogcsv.Parse(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "12.5", products[0].Price.String())
	assert.Equal(t, 10, products[0].Stock)
	assert.NotEmpty(t, products[1].ID, "se asigna un id")
	assert.Equal(t, "Tools", products[1].Category)
}

func TestParse_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("sku,name,price,stock\nSKU9,Bujía,4,1\n")
	require.NoError(t, err)

	products, err := catalogcsv.Parse(bytes.NewReader([]byte(raw)), "latin1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Bujía", products[0].Name)
}

func TestParse_Errores(t *testing.T) {
	cases := map[string]string{
		"falta columna":  "sku,name,price\nA,B,1\n",
		"precio":         "sku,name,price,stock\nA,B,x,1\n",
		"stock negativo": "sku,name,price,stock\nA,B,1,-2\n",
		"sin nombre":     "sku,name,price,stock\nA,,1,2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalogcsv.Parse(strings.NewReader(in), "utf-8")
			assert.Error(t, err)
		})
	}

	_, err := catalogcsv.Parse(strings.NewReader("sku,name,price,stock\n"), "ebcdic")
	assert.Error(t, err)
}
