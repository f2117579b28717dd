package checkout

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/pricing"
)

// DefaultCountry pre-fills the shipping country.
const DefaultCountry = "South Africa"

// Form is the shipping and payment input collected at checkout.
type Form struct {
	ShippingAddress string                `json:"shippingAddress" validate:"required"`
	ShippingCity    string                `json:"shippingCity" validate:"required"`
	ShippingState   string                `json:"shippingState" validate:"required"`
	ShippingZip     string                `json:"shippingZip" validate:"required"`
	ShippingCountry string                `json:"shippingCountry" validate:"required"`
	ShippingMethod  domain.ShippingMethod `json:"shippingMethod"`
	PaymentMethod   domain.PaymentMethod  `json:"paymentMethod"`
	Notes           string                `json:"notes"`
}

// DefaultForm is the form shown before the buyer types anything.
func DefaultForm() Form {
	return Form{
		ShippingCountry: DefaultCountry,
		ShippingMethod:  domain.ShippingStandard,
		PaymentMethod:   domain.PaymentCreditCard,
	}
}

// FieldError names a form field that failed validation.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every failing field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid checkout form: " + strings.Join(names, ", ")
}

// normalize trims text fields, maps unknown shipping methods to Standard and
// fills an unset payment method. Any payment method other than Credit Card
// completes without a provider hand-off.
func (f Form) normalize() Form {
	f.ShippingAddress = strings.TrimSpace(f.ShippingAddress)
	f.ShippingCity = strings.TrimSpace(f.ShippingCity)
	f.ShippingState = strings.TrimSpace(f.ShippingState)
	f.ShippingZip = strings.TrimSpace(f.ShippingZip)
	f.ShippingCountry = strings.TrimSpace(f.ShippingCountry)
	f.Notes = strings.TrimSpace(f.Notes)
	f.ShippingMethod = pricing.NormalizeMethod(domain.ShippingMethod(strings.TrimSpace(string(f.ShippingMethod))))
	f.PaymentMethod = domain.PaymentMethod(strings.TrimSpace(string(f.PaymentMethod)))
	if f.PaymentMethod == "" {
		f.PaymentMethod = domain.PaymentCreditCard
	}
	return f
}

func validateForm(v *validator.Validate, f Form) error {
	err := v.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: jsonName(fe.Field()), Rule: fe.Tag()})
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// orderRequest turns the cart and form into the one-shot creation request.
func orderRequest(cart domain.Cart, f Form) domain.OrderCreationRequest {
	items := make([]domain.OrderItemRequest, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, domain.OrderItemRequest{ListingID: it.ID, Quantity: it.Quantity})
	}
	return domain.OrderCreationRequest{
		Items:           items,
		ShippingAddress: f.ShippingAddress,
		ShippingCity:    f.ShippingCity,
		ShippingState:   f.ShippingState,
		ShippingZip:     f.ShippingZip,
		ShippingCountry: f.ShippingCountry,
		ShippingMethod:  f.ShippingMethod,
		PaymentMethod:   f.PaymentMethod,
		Notes:           f.Notes,
	}
}
