package carrier_test

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

const setupDocument = `{
	"BringTransport": {
		"apiKey": "key",
		"apiUid": "uid@example.com",
		"customerNumber": "PARCELS_NORWAY-10001",
		"testIndicator": true,
		"instructions": [
			{
				"shipmentPattern": {"termsOfDelivery": ["DDP"]},
				"product": {
					"id": "SERVICEPAKKE",
					"additionalServices": [{"id": "EVARSLING"}]
				}
			}
		]
	}
}`

func TestParseSetup(t *testing.T) {
	t.Parallel()

	setup, err := carrier.ParseSetup(setupDocument, "BringTransport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if setup.APIKey != "key" {
		t.Errorf("expected apiKey key, got %s", setup.APIKey)
	}
	if setup.CustomerNumber != "PARCELS_NORWAY-10001" {
		t.Errorf("expected customer number PARCELS_NORWAY-10001, got %s", setup.CustomerNumber)
	}
	if !setup.TestIndicator {
		t.Error("expected test indicator set")
	}
	if len(setup.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(setup.Instructions))
	}
	if setup.Instructions[0].Product.ID != "SERVICEPAKKE" {
		t.Errorf("expected product SERVICEPAKKE, got %s", setup.Instructions[0].Product.ID)
	}
}

func TestParseSetupMissingKey(t *testing.T) {
	t.Parallel()

	_, err := carrier.ParseSetup(`{"OtherCarrier": {}}`, "BringTransport")
	if err == nil {
		t.Error("expected error for missing setup entry")
	}
}

func TestParseSetupMissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := carrier.ParseSetup(`{"BringTransport": {"apiKey": "key"}}`, "BringTransport")
	if err == nil {
		t.Error("expected validation error for incomplete setup")
	}
}

func TestParseSetupMalformedDocument(t *testing.T) {
	t.Parallel()

	_, err := carrier.ParseSetup(`not json`, "BringTransport")
	if err == nil {
		t.Error("expected error for malformed data document")
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	carriers := []ims.Carrier{
		{CarrierName: "GLS", DataDocument: "{}"},
		{CarrierName: "Bring", DataDocument: setupDocument},
	}

	record, err := carrier.Lookup(carriers, "Bring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.DataDocument != setupDocument {
		t.Error("expected the Bring record's data document")
	}

	_, err = carrier.Lookup(carriers, "PostNord")
	if !errors.Is(err, carrier.ErrCarrierNotFound) {
		t.Errorf("expected ErrCarrierNotFound, got %v", err)
	}
}

func TestProductCloneIsIndependent(t *testing.T) {
	t.Parallel()

	template := carrier.Product{
		ID: "SERVICEPAKKE",
		AdditionalServices: []carrier.AdditionalService{
			{ID: "EVARSLING"},
		},
	}

	clone := template.Clone()
	clone.IncotermRule = "DDP"
	clone.AdditionalServices[0].Email = "recipient@example.com"

	if template.IncotermRule != "" {
		t.Errorf("expected template incoterm untouched, got %s", template.IncotermRule)
	}
	if template.AdditionalServices[0].Email != "" {
		t.Errorf("expected template service untouched, got %s", template.AdditionalServices[0].Email)
	}
}
