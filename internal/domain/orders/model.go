package orders

import "time"

type PriceHistoryEntry struct {
	Price       float64 `firestore:"price" json:"price"`
	PriceChange float64 `firestore:"priceChange" json:"priceChange"`
	PropPath    string  `firestore:"propPath" json:"propPath"`
	Timestamp   string  `firestore:"timestamp" json:"timestamp"`
}

type Spec struct {
	Name  string `firestore:"name" json:"name"`
	Value string `firestore:"value" json:"value"`
}

// Order is one purchased item inside a user's orders document.
type Order struct {
	OrderID           string              `firestore:"orderId" json:"orderId"`
	OrderDate         time.Time           `firestore:"orderDate" json:"orderDate"`
	Status            string              `firestore:"status" json:"status"`
	ItemID            string              `firestore:"itemId" json:"itemId"`
	ItemURL           string              `firestore:"itemUrl" json:"itemUrl"`
	SkuID             string              `firestore:"skuId" json:"skuId"`
	PropPath          string              `firestore:"propPath" json:"propPath"`
	ProductName       string              `firestore:"productName" json:"productName"`
	ImageURL          string              `firestore:"imageUrl" json:"imageUrl"`
	Seller            string              `firestore:"seller" json:"seller"`
	Specs             []Spec              `firestore:"specs" json:"specs"`
	Quantity          int64               `firestore:"quantity" json:"quantity"`
	Price             float64             `firestore:"price" json:"price"`
	CurrentPrice      float64             `firestore:"currentPrice" json:"currentPrice"`
	PriceChange       float64             `firestore:"priceChange" json:"priceChange"`
	PriceHistory      []PriceHistoryEntry `firestore:"priceHistory" json:"priceHistory"`
	ShippingFee       float64             `firestore:"shippingFee" json:"shippingFee"`
	TotalOrderPrice   float64             `firestore:"totalOrderPrice" json:"totalOrderPrice"`
	LastPriceUpdateAt string              `firestore:"lastPriceUpdateAt" json:"lastPriceUpdateAt"`
	CreatedAt         time.Time           `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `firestore:"updatedAt" json:"updatedAt"`

	// Manual price override, set by a signed-in user.
	ManualPrice          *float64   `firestore:"manualPrice,omitempty" json:"manualPrice,omitempty"`
	ManualPriceUpdatedAt *time.Time `firestore:"manualPriceUpdatedAt,omitempty" json:"manualPriceUpdatedAt,omitempty"`
	ManualPriceUpdateUID string     `firestore:"manualPriceUpdateUid,omitempty" json:"manualPriceUpdateUid,omitempty"`
}

// OrdersDoc is one document of the orders collection; its ID is the owner's uid.
type OrdersDoc struct {
	UserID          string  `json:"userId"`
	Orders          []Order `json:"orders"`
	UserDisplayName string  `json:"userDisplayName"`
}

// View is the state published by a Watch.
type View struct {
	Orders  []OrdersDoc `json:"orders"`
	UserIDs []string    `json:"userIds"`
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
}

func (v View) clone() View {
	out := v
	out.Orders = make([]OrdersDoc, len(v.Orders))
	copy(out.Orders, v.Orders)
	out.UserIDs = make([]string, len(v.UserIDs))
	copy(out.UserIDs, v.UserIDs)
	return out
}

type ManualPriceResult struct {
	UserID      string    `json:"userId"`
	OrderID     string    `json:"orderId"`
	ManualPrice float64   `json:"manualPrice"`
	UpdatedAt   time.Time `json:"manualPriceUpdatedAt"`
	UpdatedBy   string    `json:"manualPriceUpdateUid"`
	Matched     int       `json:"matched"`
}

// Field names of the override inside an order entry.
const (
	fieldOrderID              = "orderId"
	fieldManualPrice          = "manualPrice"
	fieldManualPriceUpdatedAt = "manualPriceUpdatedAt"
	fieldManualPriceUpdateUID = "manualPriceUpdateUid"
)
