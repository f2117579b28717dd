package domain

import "time"

// Product is a marketplace listing as returned by the catalog endpoints.
type Product struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Price         float64           `json:"price"`
	Image         string            `json:"image,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Brand         string            `json:"brand,omitempty"`
	Category      string            `json:"category,omitempty"`
	Condition     string            `json:"condition,omitempty"`
	SKU           string            `json:"sku,omitempty"`
	StockQuantity int               `json:"stockQuantity"`
	SellerName    string            `json:"sellerName,omitempty"`
	Specs         map[string]string `json:"specifications,omitempty"`
	CreatedAt     time.Time         `json:"createdAt,omitempty"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Content    []Product `json:"content"`
	TotalPages int       `json:"totalPages"`
}

// ProductQuery filters the catalog listing.
type ProductQuery struct {
	Page     int
	Size     int
	Search   string
	Category string
	Brand    string
	Make     string
	Model    string
	Year     int
}

// Vehicle is an entry in the buyer's garage, used to narrow part searches.
type Vehicle struct {
	ID                 int64  `json:"id"`
	Make               string `json:"make" validate:"required"`
	Model              string `json:"model" validate:"required"`
	Year               int    `json:"year" validate:"required,min=1900,notfuture"`
	Variant            string `json:"variant,omitempty"`
	VIN                string `json:"vin" validate:"required,alphanum,max=17"`
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	EngineSize         string `json:"engineSize,omitempty"`
	Transmission       string `json:"transmission,omitempty"`
	FuelType           string `json:"fuelType,omitempty"`
}

// DashboardMetrics summarises a seller's activity.
type DashboardMetrics struct {
	TotalSales    float64       `json:"totalSales"`
	TotalOrders   int           `json:"totalOrders"`
	TotalProducts int           `json:"totalProducts"`
	RecentOrders  []RecentOrder `json:"recentOrders"`
	TopProducts   []TopProduct  `json:"topProducts"`
}

// RecentOrder is a short order row on the seller dashboard.
type RecentOrder struct {
	ID           int64       `json:"id"`
	OrderNumber  string      `json:"orderNumber"`
	CustomerName string      `json:"customerName"`
	Total        float64     `json:"total"`
	Status       OrderStatus `json:"status"`
	Date         time.Time   `json:"date"`
}

// TopProduct is a best-selling listing on the seller dashboard.
type TopProduct struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	SKU     string  `json:"sku"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// CompatibleVehicle names a vehicle a listing fits.
type CompatibleVehicle struct {
	Make  string `json:"make" validate:"required"`
	Model string `json:"model" validate:"required"`
	Year  string `json:"year,omitempty" validate:"omitempty,numeric,len=4"`
}

// ListingStatusActive is the status a new listing is published with.
const ListingStatusActive = "ACTIVE"

// ProductForm is the seller's create or edit input for a listing.
// ExistingImages keeps already uploaded image URLs on an edit.
type ProductForm struct {
	Title              string              `json:"title" validate:"required"`
	SKU                string              `json:"sku" validate:"required"`
	Description        string              `json:"description" validate:"required"`
	Category           string              `json:"category" validate:"required"`
	Price              float64             `json:"price" validate:"gt=0"`
	Stock              int                 `json:"stock" validate:"gte=0"`
	Status             string              `json:"status,omitempty"`
	ExistingImages     []string            `json:"existingImages,omitempty" validate:"dive,url"`
	CompatibleVehicles []CompatibleVehicle `json:"compatibleVehicles,omitempty" validate:"dive"`
}

// ImageUpload is a new image file attached to a ProductForm.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
