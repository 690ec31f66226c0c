package validation

// OrderItemInput is a single cart line submitted by the buyer. The price
// is never taken from the client; it is resolved server-side at placement.
type OrderItemInput struct {
	ProductID   uint   `json:"productId"   validate:"required,gt=0"`
	ProductName string `json:"productName" validate:"required"`
	Quantity    uint   `json:"quantity"    validate:"required,min=1"`
}

type AddressInput struct {
	Taluk       string `json:"taluk"       validate:"required"`
	District    string `json:"district"    validate:"required"`
	Pincode     string `json:"pincode"     validate:"required,pincode"`
	VillageTown string `json:"villageTown" validate:"required"`
}

// PlaceOrderRequest is the payload for POST /buyer/placeorder.
type PlaceOrderRequest struct {
	OrderItems []OrderItemInput `json:"orderItems" validate:"required,min=1,dive"`
	Address    AddressInput     `json:"address"    validate:"required"`
}

// EditOrderRequest is the payload for PUT /buyer/editorder/:orderId.
// Status is restricted to the buyer-visible transitions; the address may
// be replaced while the order is still in motion.
type EditOrderRequest struct {
	Status  string        `json:"status"            validate:"omitempty,oneof=shipped delivered"`
	Address *AddressInput `json:"address,omitempty" validate:"omitempty"`
}

// EditOrderStatusRequest is the payload for PUT /admin/editorders/:id.
type EditOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

// SignupRequest binds from JSON or from the multipart form the client
// sends when a profile picture is attached.
type SignupRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Role     string `json:"role"     form:"role"     validate:"omitempty,oneof=customer admin"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PayRequest struct {
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

type EditProductRequest struct {
	Name       *string  `json:"name,omitempty"       validate:"omitempty,min=1"`
	Quantity   *uint    `json:"quantity,omitempty"`
	PricePerKg *float64 `json:"pricePerKg,omitempty" validate:"omitempty,gte=0"`
}
