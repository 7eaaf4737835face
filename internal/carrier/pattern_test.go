package carrier_test

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

func mustPredicate(t *testing.T, raw string) carrier.Predicate {
	t.Helper()
	var p carrier.Predicate
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshalling predicate %s: %v", raw, err)
	}
	return p
}

func TestPredicateEmptyMatchesEverything(t *testing.T) {
	t.Parallel()

	p := mustPredicate(t, `{}`)

	if !p.Matches(map[string]any{"termsOfDelivery": "DDP"}) {
		t.Error("expected empty pattern to match")
	}
	if !p.Matches(map[string]any{}) {
		t.Error("expected empty pattern to match empty record")
	}
}

func TestPredicateExactValueSet(t *testing.T) {
	t.Parallel()

	p := mustPredicate(t, `{"termsOfDelivery": ["DDP", "DAP"]}`)

	tests := []struct {
		name   string
		record map[string]any
		want   bool
	}{
		{"first value", map[string]any{"termsOfDelivery": "DDP"}, true},
		{"second value", map[string]any{"termsOfDelivery": "DAP"}, true},
		{"other value", map[string]any{"termsOfDelivery": "EXW"}, false},
		{"field missing", map[string]any{"incoterms": "DDP"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := p.Matches(tt.record); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPredicateNumbersAndBooleans(t *testing.T) {
	t.Parallel()

	p := mustPredicate(t, `{"deliverToPickUpPoint": [true], "priority": [1, 2]}`)

	if !p.Matches(map[string]any{"deliverToPickUpPoint": true, "priority": float64(2)}) {
		t.Error("expected match on boolean and number")
	}
	if p.Matches(map[string]any{"deliverToPickUpPoint": false, "priority": float64(1)}) {
		t.Error("expected non-match on boolean")
	}
}

func TestPredicateNested(t *testing.T) {
	t.Parallel()

	p := mustPredicate(t, `{"deliveryAddress": {"countryCode": ["NO", "SE"]}}`)

	record := map[string]any{
		"deliveryAddress": map[string]any{"countryCode": "NO"},
	}
	if !p.Matches(record) {
		t.Error("expected nested match")
	}

	record["deliveryAddress"] = map[string]any{"countryCode": "DK"}
	if p.Matches(record) {
		t.Error("expected nested non-match")
	}
}

func TestPredicateNestedOverMissingFieldFailsClosed(t *testing.T) {
	t.Parallel()

	p := mustPredicate(t, `{"deliveryAddress": {"countryCode": ["NO"]}}`)

	if p.Matches(map[string]any{}) {
		t.Error("expected non-match when field is missing")
	}
	if p.Matches(map[string]any{"deliveryAddress": "Oslo"}) {
		t.Error("expected non-match when field is not a record")
	}
	if p.Matches(map[string]any{"deliveryAddress": nil}) {
		t.Error("expected non-match when field is null")
	}
}

func TestPredicateRejectsScalarLeaf(t *testing.T) {
	t.Parallel()

	var p carrier.Predicate
	if err := json.Unmarshal([]byte(`{"termsOfDelivery": "DDP"}`), &p); err == nil {
		t.Error("expected error for scalar leaf")
	}
}

func TestFindInstructionFirstMatchWins(t *testing.T) {
	t.Parallel()

	instructions := []carrier.Instruction{
		{
			ShipmentPattern: mustPredicate(t, `{"termsOfDelivery": ["EXW"]}`),
			Product:         carrier.Product{ID: "first"},
		},
		{
			ShipmentPattern: mustPredicate(t, `{"termsOfDelivery": ["DDP"]}`),
			Product:         carrier.Product{ID: "second"},
		},
		{
			ShipmentPattern: mustPredicate(t, `{}`),
			Product:         carrier.Product{ID: "fallback"},
		},
	}

	shipment := &ims.Shipment{ShipmentNumber: "S-1", TermsOfDelivery: "DDP"}

	instruction, err := carrier.FindInstruction(instructions, shipment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instruction.Product.ID != "second" {
		t.Errorf("expected product second, got %s", instruction.Product.ID)
	}
}

func TestFindInstructionNoMatch(t *testing.T) {
	t.Parallel()

	instructions := []carrier.Instruction{
		{
			ShipmentPattern: mustPredicate(t, `{"termsOfDelivery": ["EXW"]}`),
			Product:         carrier.Product{ID: "only"},
		},
	}

	_, err := carrier.FindInstruction(instructions, &ims.Shipment{TermsOfDelivery: "DDP"})
	if !errors.Is(err, carrier.ErrNoInstruction) {
		t.Errorf("expected ErrNoInstruction, got %v", err)
	}
}

func TestFindInstructionMatchesZeroValuedFields(t *testing.T) {
	t.Parallel()

	// Zero values are members like any other: a shipment that is not for a
	// pickup point must still satisfy a [false] constraint, and an empty
	// terms-of-delivery an [""] one.
	instructions := []carrier.Instruction{
		{
			ShipmentPattern: mustPredicate(t, `{"deliverToPickUpPoint": [false], "termsOfDelivery": [""]}`),
			Product:         carrier.Product{ID: "plain"},
		},
	}

	shipment := &ims.Shipment{
		ShipmentNumber:       "S-1",
		DeliverToPickUpPoint: false,
	}

	instruction, err := carrier.FindInstruction(instructions, shipment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instruction.Product.ID != "plain" {
		t.Errorf("expected product plain, got %s", instruction.Product.ID)
	}
}

func TestFindInstructionMatchesWireFieldNames(t *testing.T) {
	t.Parallel()

	// Patterns are written against the API's JSON field names, not Go
	// identifiers.
	instructions := []carrier.Instruction{
		{
			ShipmentPattern: mustPredicate(t, `{"deliveryAddress": {"countryCode": ["NO"]}}`),
			Product:         carrier.Product{ID: "domestic"},
		},
	}

	shipment := &ims.Shipment{
		DeliveryAddress: ims.Address{CountryCode: "NO"},
	}

	instruction, err := carrier.FindInstruction(instructions, shipment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instruction.Product.ID != "domestic" {
		t.Errorf("expected product domestic, got %s", instruction.Product.ID)
	}
}
