// Package garage manages the buyer's saved vehicles, used to narrow part
// searches.
package garage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/service/session"
)

// DeletePrompt is asked before a vehicle is removed.
const DeletePrompt = "Are you sure you want to remove this vehicle from your garage?"

// ErrInvalidVehicle wraps validation failures.
var ErrInvalidVehicle = errors.New("invalid vehicle")

type vehicleAPI interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

// Confirmer asks the user a yes/no question.
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// Service wraps the vehicle endpoints.
type Service struct {
	api      vehicleAPI
	validate *validator.Validate
	now      func() time.Time
}

// New builds a Service.
func New(api vehicleAPI) *Service {
	s := &Service{api: api, now: time.Now}
	v := validator.New(validator.WithRequiredStructEnabled())
	// Next year's models go on sale before the calendar turns.
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return int(fl.Field().Int()) <= s.now().Year()+1
	})
	s.validate = v
	return s
}

// List returns the caller's vehicles.
func (s *Service) List(ctx context.Context, p session.Principal) ([]domain.Vehicle, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	vs, err := s.api.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	if vs == nil {
		vs = []domain.Vehicle{}
	}
	return vs, nil
}

// Save creates v, or updates it when it already has an id.
func (s *Service) Save(ctx context.Context, p session.Principal, v domain.Vehicle) (domain.Vehicle, error) {
	if !p.Authenticated() {
		return domain.Vehicle{}, domain.ErrUnauthenticated
	}
	v = normalize(v)
	if err := s.validate.Struct(v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("%w: %v", ErrInvalidVehicle, err)
	}
	if v.ID == 0 {
		out, err := s.api.CreateVehicle(ctx, v)
		if err != nil {
			return domain.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
		}
		return out, nil
	}
	out, err := s.api.UpdateVehicle(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return out, nil
}

// Delete removes vehicle id once confirm agrees. It reports whether the
// vehicle was removed.
func (s *Service) Delete(ctx context.Context, p session.Principal, id int64, confirm Confirmer) (bool, error) {
	if !p.Authenticated() {
		return false, domain.ErrUnauthenticated
	}
	if confirm != nil {
		ok, err := confirm(ctx, DeletePrompt)
		if err != nil || !ok {
			return false, err
		}
	}
	if err := s.api.DeleteVehicle(ctx, id); err != nil {
		return false, fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	return true, nil
}

// VIN and registration are stored upper-case, as the form types them.
func normalize(v domain.Vehicle) domain.Vehicle {
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	v.Variant = strings.TrimSpace(v.Variant)
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	v.RegistrationNumber = strings.ToUpper(strings.TrimSpace(v.RegistrationNumber))
	return v
}
