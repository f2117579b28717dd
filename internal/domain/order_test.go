package domain

import "testing"

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus(" shipped ")
	if err != nil || got != OrderStatusShipped {
		t.Fatalf("unexpected parse %q err=%v", got, err)
	}
	if _, err := ParseOrderStatus("LOST"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestNewPaymentRequest(t *testing.T) {
	req := NewPaymentRequest(Order{ID: 12, OrderNumber: "ORD-0012", Total: 305}, "https://shop.example/", "ZAR")
	if req.OrderID != 12 || req.Amount != 305 || req.Currency != "ZAR" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Description != "Payment for Order #ORD-0012" {
		t.Fatalf("unexpected description %q", req.Description)
	}
	if req.ReturnURL != "https://shop.example/orders/12?status=success" {
		t.Fatalf("unexpected return url %q", req.ReturnURL)
	}
	if req.CancelURL != "https://shop.example/orders/12?status=cancel" {
		t.Fatalf("unexpected cancel url %q", req.CancelURL)
	}
}
