package model

// Wire types for the external product catalog API. Prices arrive as floats
// in major units; services convert to cents before anything is persisted.

type Product struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Rating      float64  `json:"rating"`
	Stock       int64    `json:"stock"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Skip     int64     `json:"skip"`
	Limit    int64     `json:"limit"`
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
