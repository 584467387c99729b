package entity

// Route says which lookup path produced the LLM context.
type Route string

const (
	RouteQuote          Route = "quote"
	RouteQuoteNotFound  Route = "quote_not_found"
	RouteRecommendation Route = "recommendation"
	RouteDefault        Route = "default"
)

// OrderRequest is what the order-text parser extracts from a message.
type OrderRequest struct {
	Quantity    int    `json:"quantity"`
	ProductName string `json:"product_name"`
}

// Quote is a priced order line. Freight is never included.
type Quote struct {
	OrderRequest
	CodSKU    string  `json:"cod_sku"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Reply is the outcome of one processed chat message.
type Reply struct {
	Text    string    `json:"text"`
	Route   Route     `json:"route"`
	Context string    `json:"context"`
	Crop    string    `json:"crop,omitempty"`
	Quote   *Quote    `json:"quote,omitempty"`
	Items   []Product `json:"items,omitempty"`
}
