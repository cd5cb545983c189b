package orders

import "time"

type Order struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userID"`
	Items           []LineItem `json:"items"`
	Status          Status     `json:"orderStatus"`
	TotalPrice      float64    `json:"totalPrice"`
	ShippingAddress Address    `json:"shippingAddress"`
	PaymentMethod   string     `json:"paymentMethod"`
	CouponCode      string     `json:"couponCode,omitempty"`
	OrderTotal      float64    `json:"orderTotal"`
	TrackingURL     string     `json:"trackingUrl,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// LineItem is a price snapshot taken at order time; it never changes after
// the order is created.
type LineItem struct {
	ProductID   string  `json:"productID"`
	ProductName string  `json:"productName,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Address struct {
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}
