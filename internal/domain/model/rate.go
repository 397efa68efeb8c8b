package model

// ShippingService is a service level offered by a shipping method.
type ShippingService struct {
	ID    string `json:"id" example:"standard"`
	Label string `json:"label" example:"Standard"`
}

// ShippingRate is a priced offer for a shipment.
type ShippingRate struct {
	ID               string          `json:"id" example:"flat_rate--standard"`
	ShippingMethodID string          `json:"shipping_method_id" example:"flat_rate"`
	Service          ShippingService `json:"service"`
	Amount           Money           `json:"amount"`
	Description      string          `json:"description,omitempty"`
	DeliveryDays     int             `json:"delivery_days,omitempty" example:"3"`
}
