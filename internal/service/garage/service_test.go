package garage

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/service/session"
)

type stubVehicles struct {
	list        []domain.Vehicle
	err         error
	lastCreated domain.Vehicle
	lastUpdated domain.Vehicle
	deletedID   int64
}

func (s *stubVehicles) ListVehicles(context.Context) ([]domain.Vehicle, error) {
	return s.list, s.err
}

func (s *stubVehicles) CreateVehicle(_ context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	s.lastCreated = v
	v.ID = 100
	return v, s.err
}

func (s *stubVehicles) UpdateVehicle(_ context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	s.lastUpdated = v
	return v, s.err
}

func (s *stubVehicles) DeleteVehicle(_ context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

var owner = session.Principal{ClientID: "c", Token: "t"}

func fixedService(api vehicleAPI) *Service {
	svc := New(api)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func corolla() domain.Vehicle {
	return domain.Vehicle{Make: " Toyota ", Model: "Corolla", Year: 2018, VIN: "abc123xyz456789", RegistrationNumber: "ca123456"}
}

func TestSaveCreatesNormalizedVehicle(t *testing.T) {
	api := &stubVehicles{}
	out, err := fixedService(api).Save(context.Background(), owner, corolla())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if out.ID != 100 {
		t.Fatalf("expected created id, got %d", out.ID)
	}
	if api.lastCreated.Make != "Toyota" || api.lastCreated.VIN != "ABC123XYZ456789" || api.lastCreated.RegistrationNumber != "CA123456" {
		t.Fatalf("unexpected vehicle %+v", api.lastCreated)
	}
}

func TestSaveUpdatesExisting(t *testing.T) {
	api := &stubVehicles{}
	v := corolla()
	v.ID = 7
	if _, err := fixedService(api).Save(context.Background(), owner, v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if api.lastUpdated.ID != 7 {
		t.Fatalf("expected update of vehicle 7, got %+v", api.lastUpdated)
	}
}

func TestSaveValidation(t *testing.T) {
	cases := map[string]func(*domain.Vehicle){
		"missing make":    func(v *domain.Vehicle) { v.Make = "  " },
		"too old":         func(v *domain.Vehicle) { v.Year = 1899 },
		"future model":    func(v *domain.Vehicle) { v.Year = 2028 },
		"vin too long":    func(v *domain.Vehicle) { v.VIN = "ABCDEFGHJKLMNPRSTU" },
		"vin symbols":     func(v *domain.Vehicle) { v.VIN = "ABC-123" },
		"no registration": func(v *domain.Vehicle) { v.RegistrationNumber = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			api := &stubVehicles{}
			v := corolla()
			mutate(&v)
			_, err := fixedService(api).Save(context.Background(), owner, v)
			if !errors.Is(err, ErrInvalidVehicle) {
				t.Fatalf("expected ErrInvalidVehicle, got %v", err)
			}
			if api.lastCreated.Model != "" {
				t.Fatalf("invalid vehicle reached the backend")
			}
		})
	}
}

func TestNextYearModelAccepted(t *testing.T) {
	v := corolla()
	v.Year = 2027
	if _, err := fixedService(&stubVehicles{}).Save(context.Background(), owner, v); err != nil {
		t.Fatalf("next year's model should be accepted, got %v", err)
	}
}

func TestDeleteAsksFirst(t *testing.T) {
	api := &stubVehicles{}
	svc := fixedService(api)
	var prompt string
	decline := func(_ context.Context, p string) (bool, error) {
		prompt = p
		return false, nil
	}

	removed, err := svc.Delete(context.Background(), owner, 3, decline)
	if err != nil || removed {
		t.Fatalf("declined delete: removed=%v err=%v", removed, err)
	}
	if prompt != DeletePrompt || api.deletedID != 0 {
		t.Fatalf("unexpected prompt %q or delete call %d", prompt, api.deletedID)
	}

	accept := func(context.Context, string) (bool, error) { return true, nil }
	removed, err = svc.Delete(context.Background(), owner, 3, accept)
	if err != nil || !removed || api.deletedID != 3 {
		t.Fatalf("accepted delete: removed=%v err=%v id=%d", removed, err, api.deletedID)
	}
}

func TestListRequiresLogin(t *testing.T) {
	if _, err := fixedService(&stubVehicles{}).List(context.Background(), session.Principal{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
