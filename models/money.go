package models

import "github.com/shopspring/decimal"

func init() {
	// Harga dikirim sebagai angka JSON (15300), bukan string ("15300")
	decimal.MarshalJSONWithoutQuotes = true
}
