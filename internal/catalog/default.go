package catalog

import "driphorizon/internal/domain"

var defaultProducts = []domain.Product{
	{ID: "21", Name: "Womens Sneaker 1", UnitPriceCents: 7999, ImageRef: "21.jpg", Category: "women"},
	{ID: "22", Name: "Womens Sandal 1", UnitPriceCents: 5999, ImageRef: "22.jpg", Category: "women"},
	{ID: "23", Name: "Womens Heel 1", UnitPriceCents: 10999, ImageRef: "23.jpg", Category: "women"},
	{ID: "24", Name: "Womens Loafer 1", UnitPriceCents: 8999, ImageRef: "24.jpg", Category: "women"},
	{ID: "25", Name: "Womens Trainer 1", UnitPriceCents: 9499, ImageRef: "25.jpg", Category: "women"},
	{ID: "26", Name: "Mens Loafer 1", UnitPriceCents: 8999, ImageRef: "26.jpg", Category: "men"},
	{ID: "27", Name: "Mens Boot 1", UnitPriceCents: 12999, ImageRef: "27.jpg", Category: "men"},
	{ID: "28", Name: "Mens Sneaker 1", UnitPriceCents: 7999, ImageRef: "28.jpg", Category: "men"},
	{ID: "29", Name: "Mens Casual 1", UnitPriceCents: 6999, ImageRef: "29.jpg", Category: "men"},
	{ID: "30", Name: "Kids Trainer 1", UnitPriceCents: 4999, ImageRef: "30.jpg", Category: "kid"},
	{ID: "31", Name: "Kids Sneaker 1", UnitPriceCents: 5499, ImageRef: "31.jpg", Category: "kid"},
	{ID: "32", Name: "Kids Sandal 1", UnitPriceCents: 3999, ImageRef: "32.jpg", Category: "kid"},
	{ID: "33", Name: "Kids Boot 1", UnitPriceCents: 6499, ImageRef: "33.jpg", Category: "kid"},
	{ID: "34", Name: "Kids Loafer 1", UnitPriceCents: 4499, ImageRef: "34.jpg", Category: "kid"},
	{ID: "35", Name: "Sport Shoe 1", UnitPriceCents: 9999, ImageRef: "35.jpg", Category: "sport"},
	{ID: "36", Name: "Sport Shoe 2", UnitPriceCents: 11999, ImageRef: "36.jpg", Category: "sport"},
	{ID: "37", Name: "Sport Shoe 3", UnitPriceCents: 8999, ImageRef: "37.jpg", Category: "sport"},
	{ID: "38", Name: "Sport Accessory 1", UnitPriceCents: 2999, ImageRef: "38.jpg", Category: "sport"},
}

// Default returns the storefront's built-in product table.
func Default() *Catalog {
	c, err := New(defaultProducts)
	if err != nil {
		panic(err)
	}
	return c
}
