package backend

import (
	"context"
	"fmt"
	"net/http"

	"autoparts-storefront/internal/domain"
)

// ListVehicles returns the vehicles in the caller's garage.
func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := c.do(ctx, http.MethodGet, "/vehicles", nil, nil, &out)
	return out, err
}

// CreateVehicle adds a vehicle to the caller's garage.
func (c *Client) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.do(ctx, http.MethodPost, "/vehicles", nil, v, &out)
	return out, err
}

// UpdateVehicle replaces the stored vehicle with v.
func (c *Client) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/vehicles/%d", v.ID), nil, v, &out)
	return out, err
}

// DeleteVehicle removes a vehicle from the garage.
func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/vehicles/%d", id), nil, nil, nil)
}
