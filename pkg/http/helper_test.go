package http

import (
	"net/http/httptest"
	"testing"

	"styledecor/pkg/config"
)

func TestExtractPageLimit(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{
			name:      "defaults when absent",
			url:       "/api/v1/services",
			wantPage:  1,
			wantLimit: config.DefaultPaginationLimit,
		},
		{
			name:      "explicit values",
			url:       "/api/v1/services?page=3&limit=10",
			wantPage:  3,
			wantLimit: 10,
		},
		{
			name:      "limit capped at the configured maximum",
			url:       "/api/v1/services?limit=5000",
			wantPage:  1,
			wantLimit: config.DefaultPaginationLimit,
		},
		{
			name:      "zero page normalized to first",
			url:       "/api/v1/services?page=0",
			wantPage:  1,
			wantLimit: config.DefaultPaginationLimit,
		},
		{
			name:    "non-numeric page rejected",
			url:     "/api/v1/services?page=abc",
			wantErr: true,
		},
		{
			name:    "non-numeric limit rejected",
			url:     "/api/v1/services?limit=ten",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit, err := ExtractPageLimit(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestExtractFloatFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/services?min_cost=99.5", nil)

	v, err := ExtractFloatFilter(r, "min_cost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil || *v != 99.5 {
		t.Errorf("expected 99.5, got %v", v)
	}

	absent, err := ExtractFloatFilter(r, "max_cost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if absent != nil {
		t.Error("absent parameter must return nil")
	}

	r = httptest.NewRequest("GET", "/api/v1/services?min_cost=cheap", nil)
	if _, err := ExtractFloatFilter(r, "min_cost"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestExtractBoolFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/bookings?assigned=true", nil)

	v, err := ExtractBoolFilter(r, "assigned")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil || !*v {
		t.Errorf("expected true, got %v", v)
	}

	absent, err := ExtractBoolFilter(r, "paid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if absent != nil {
		t.Error("absent parameter must return nil")
	}

	r = httptest.NewRequest("GET", "/api/v1/bookings?assigned=maybe", nil)
	if _, err := ExtractBoolFilter(r, "assigned"); err == nil {
		t.Error("expected error for non-boolean value")
	}
}
