package entity

import "errors"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrProductNotFound    = errors.New("product not found")
	ErrPriceNotFound      = errors.New("price not found")
	ErrClientNotFound     = errors.New("client not found")
)
