package catalog

func rate(v float64) *float64 { return &v }

// Built-in dataset covering every tax category. Prices are in INR.
var seedProducts = []Product{
	{ID: 1, Name: "Samsung Galaxy S24 Ultra", Category: "electronics", Subcategory: "Smartphones", Brand: "Samsung", Price: 124999, DiscountPrice: 109999, Rating: 4.5, Reviews: 2847, Stock: 45, IsPrime: true, Description: "Flagship smartphone with 200MP camera and S Pen"},
	{ID: 2, Name: "Apple MacBook Pro 14\"", Category: "electronics", Subcategory: "Laptops", Brand: "Apple", Price: 199900, DiscountPrice: 189900, Rating: 4.8, Reviews: 1523, Stock: 23, IsPrime: true, Description: "M3 Pro chip with up to 22 hours battery life"},
	{ID: 3, Name: "Sony WH-1000XM5 Headphones", Category: "electronics", Subcategory: "Audio", Brand: "Sony", Price: 34990, DiscountPrice: 27990, Rating: 4.6, Reviews: 5210, Stock: 8, IsPrime: true},
	{ID: 4, Name: "Levi's 511 Slim Fit Jeans", Category: "fashion", Subcategory: "Men", Brand: "Levi's", Price: 3499, DiscountPrice: 2099, Rating: 4.2, Reviews: 8934, Stock: 120, IsPrime: false},
	{ID: 5, Name: "Nike Air Zoom Pegasus 40", Category: "sports", Subcategory: "Running", Brand: "Nike", Price: 11895, DiscountPrice: 9516, Rating: 4.4, Reviews: 3127, Stock: 34, IsPrime: true},
	{ID: 6, Name: "Atomic Habits", Category: "books", Subcategory: "Self Help", Brand: "Penguin", Price: 899, DiscountPrice: 499, Rating: 4.7, Reviews: 45231, Stock: 300, IsPrime: true},
	{ID: 7, Name: "The Psychology of Money", Category: "books", Subcategory: "Finance", Brand: "Jaico", Price: 399, DiscountPrice: 279, Rating: 4.6, Reviews: 28456, Stock: 250, IsPrime: false},
	{ID: 8, Name: "Prestige Induction Cooktop", Category: "home-kitchen", Subcategory: "Appliances", Brand: "Prestige", Price: 3195, DiscountPrice: 2449, Rating: 4.1, Reviews: 12045, Stock: 67, IsPrime: true},
	{ID: 9, Name: "LEGO Classic Bricks Box", Category: "toys", Subcategory: "Building", Brand: "LEGO", Price: 2999, DiscountPrice: 2399, Rating: 4.8, Reviews: 6754, Stock: 42, IsPrime: true},
	{ID: 10, Name: "Tata Sampann Toor Dal 1kg", Category: "grocery", Subcategory: "Pulses", Brand: "Tata", Price: 210, DiscountPrice: 185, Rating: 4.3, Reviews: 9876, Stock: 500, IsPrime: false},
	{ID: 11, Name: "Maybelline Fit Me Foundation", Category: "beauty", Subcategory: "Makeup", Brand: "Maybelline", Price: 549, DiscountPrice: 384, Rating: 4.2, Reviews: 15623, Stock: 89, IsPrime: true},
	{ID: 12, Name: "Wakefit Orthopedic Mattress", Category: "furniture", Subcategory: "Bedroom", Brand: "Wakefit", Price: 12499, DiscountPrice: 8749, Rating: 4.4, Reviews: 21345, Stock: 15, IsPrime: false},
	{ID: 13, Name: "Bosch Car Wiper Blades", Category: "automotive", Subcategory: "Accessories", Brand: "Bosch", Price: 899, DiscountPrice: 649, Rating: 4.0, Reviews: 4532, Stock: 73, IsPrime: false},
	// Handloom goods carry a concessional rate regardless of category.
	{ID: 14, Name: "Handloom Cotton Saree", Category: "fashion", Subcategory: "Women", Brand: "FabIndia", Price: 2999, DiscountPrice: 2249, GSTRate: rate(5), Rating: 4.5, Reviews: 1876, Stock: 28, IsPrime: false},
}
