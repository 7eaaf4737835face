package carrier

import (
	"encoding/json"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/parcelport/carriertransport/internal/ims"
)

// Setup is the carrier configuration stored on the IMS carrier record's data
// document. It is shared across invocations and must be treated as
// immutable; customize bookings on a Product clone, never in place.
type Setup struct {
	APIKey         string        `json:"apiKey" validate:"required"`
	APIUID         string        `json:"apiUid" validate:"required"`
	CustomerNumber string        `json:"customerNumber" validate:"required"`
	TestIndicator  bool          `json:"testIndicator"`
	Instructions   []Instruction `json:"instructions,omitempty"`
}

// Instruction maps a shipment-matching pattern to a product template. The
// configured order is significant: the first matching instruction wins.
type Instruction struct {
	ShipmentPattern Predicate `json:"shipmentPattern"`
	Product         Product   `json:"product"`
}

// Product is the carrier product template of an instruction. IncotermRule
// and CustomerNumber are filled per booking.
type Product struct {
	ID                 string              `json:"id"`
	CustomerNumber     string              `json:"customerNumber,omitempty"`
	IncotermRule       string              `json:"incotermRule,omitempty"`
	AdditionalServices []AdditionalService `json:"additionalServices,omitempty"`
}

// AdditionalService is one service on a product. Message, Email, and Mobile
// are filled per booking for the service ids that carry them; unrecognized
// ids pass through untouched.
type AdditionalService struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
	Email   string `json:"email,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
}

// Clone returns a copy safe to customize for a single booking.
func (p Product) Clone() Product {
	clone := p
	clone.AdditionalServices = slices.Clone(p.AdditionalServices)
	return clone
}

var (
	// ErrCarrierNotFound means the IMS has no carrier record with the
	// expected name. There is no valid booking path without it.
	ErrCarrierNotFound = errors.New("carrier is not registered")
	// ErrNoInstruction means no configured instruction matches the
	// shipment. Callers must treat this as a booking failure, not a
	// silent default.
	ErrNoInstruction = errors.New("no transport instruction matches the shipment")
)

var validate = validator.New()

// ParseSetup extracts and validates the setup stored under key in a
// carrier's data document.
func ParseSetup(dataDocument, key string) (Setup, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal([]byte(dataDocument), &document); err != nil {
		return Setup{}, errors.Wrap(err, "decoding carrier data document")
	}

	raw, ok := document[key]
	if !ok {
		return Setup{}, errors.Newf("carrier data document has no %q entry", key)
	}

	var setup Setup
	if err := json.Unmarshal(raw, &setup); err != nil {
		return Setup{}, errors.Wrapf(err, "decoding %s setup", key)
	}
	if err := validate.Struct(setup); err != nil {
		return Setup{}, errors.Wrapf(err, "invalid %s setup", key)
	}

	return setup, nil
}

// Lookup returns the carrier record with the given name. A missing carrier
// is fatal for the invocation; callers must propagate the error.
func Lookup(carriers []ims.Carrier, name string) (ims.Carrier, error) {
	for _, candidate := range carriers {
		if candidate.CarrierName == name {
			return candidate, nil
		}
	}
	return ims.Carrier{}, errors.Wrapf(ErrCarrierNotFound, "no carrier by the name %s", name)
}

// FindInstruction returns the first instruction whose pattern matches the
// shipment, or ErrNoInstruction.
func FindInstruction(instructions []Instruction, shipment any) (Instruction, error) {
	record, err := asRecord(shipment)
	if err != nil {
		return Instruction{}, err
	}
	for _, instruction := range instructions {
		if instruction.ShipmentPattern.Matches(record) {
			return instruction, nil
		}
	}
	return Instruction{}, ErrNoInstruction
}
