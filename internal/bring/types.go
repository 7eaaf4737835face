// Package bring books transport with the Bring booking API. It is the
// canonical carrier.Adapter implementation.
package bring

import "github.com/parcelport/carriertransport/internal/carrier"

const (
	// CarrierName is the name of the carrier record in the IMS.
	CarrierName = "Bring"
	// SetupKey is the entry of the carrier data document holding the
	// Bring setup.
	SetupKey = "BringTransport"

	// DefaultBaseURL is the Bring booking API endpoint.
	DefaultBaseURL = "https://api.bring.com/booking-api/api/"

	// schemaVersion is pinned to the booking API schema this adapter
	// produces.
	schemaVersion = 1
)

// Additional-service ids that receive booking-specific data.
const (
	// ServiceFlexDelivery carries the shipment's delivery notes.
	ServiceFlexDelivery = "FLEX_DELIVERY"
	// ServiceNotification carries the recipient's email and phone for
	// SMS/email alerting.
	ServiceNotification = "EVARSLING"
)

// BookingRequest is the payload POSTed to the booking endpoint.
type BookingRequest struct {
	SchemaVersion int           `json:"schemaVersion"`
	TestIndicator bool          `json:"testIndicator"`
	Consignments  []Consignment `json:"consignments"`
}

// Consignment is one booking unit. The correlation id is the shipment
// number so the response can be tied back to the shipment.
type Consignment struct {
	CorrelationID    string          `json:"correlationId"`
	ShippingDateTime int64           `json:"shippingDateTime"`
	Parties          Parties         `json:"parties"`
	Packages         []Package       `json:"packages"`
	Product          carrier.Product `json:"product"`
}

// Parties of a consignment. PickupPoint is present only for
// deliver-to-pickup-point shipments.
type Parties struct {
	PickupPoint *PickupPoint `json:"pickupPoint,omitempty"`
	Sender      Address      `json:"sender"`
	Recipient   Address      `json:"recipient"`
}

// PickupPoint identifies the pickup location in the delivery country.
type PickupPoint struct {
	CountryCode string `json:"countryCode"`
	ID          string `json:"id"`
}

// Address is a carrier party record.
type Address struct {
	Name                  string   `json:"name"`
	AddressLine           string   `json:"addressLine"`
	AddressLine2          string   `json:"addressLine2"`
	City                  string   `json:"city"`
	CountryCode           string   `json:"countryCode"`
	PostalCode            string   `json:"postalCode"`
	Reference             string   `json:"reference,omitempty"`
	AdditionalAddressInfo string   `json:"additionalAddressInfo,omitempty"`
	Contact               *Contact `json:"contact,omitempty"`
}

// Contact is the notification contact of a party.
type Contact struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Package is one parcel of a consignment. WeightInKg is null when the
// container has no gross weight; absent dimensions stay absent.
type Package struct {
	CorrelationID string      `json:"correlationId"`
	WeightInKg    *float64    `json:"weightInKg"`
	Dimensions    *Dimensions `json:"dimensions,omitempty"`
}

// Dimensions of a parcel, in centimeters.
type Dimensions struct {
	HeightInCm *float64 `json:"heightInCm,omitempty"`
	LengthInCm *float64 `json:"lengthInCm,omitempty"`
	WidthInCm  *float64 `json:"widthInCm,omitempty"`
}

// BookingResponse is the carrier's answer, one result per consignment.
type BookingResponse struct {
	Consignments []ConsignmentResult `json:"consignments"`
}

// ConsignmentResult carries either a confirmation or a list of errors.
type ConsignmentResult struct {
	CorrelationID string             `json:"correlationId,omitempty"`
	Confirmation  *Confirmation      `json:"confirmation,omitempty"`
	Errors        []ConsignmentError `json:"errors,omitempty"`
}

// Confirmation of a booked consignment.
type Confirmation struct {
	ConsignmentNumber string          `json:"consignmentNumber"`
	Links             Links           `json:"links"`
	Packages          []PackageResult `json:"packages"`
}

// Links published with a confirmation.
type Links struct {
	Tracking string `json:"tracking,omitempty"`
	Labels   string `json:"labels,omitempty"`
}

// PackageResult correlates a booked package with its tracking number.
type PackageResult struct {
	CorrelationID string `json:"correlationId"`
	PackageNumber string `json:"packageNumber"`
}

// ConsignmentError is one validation failure with nested messages.
type ConsignmentError struct {
	Code     string         `json:"code,omitempty"`
	Messages []ErrorMessage `json:"messages"`
}

// ErrorMessage is one human-readable failure text.
type ErrorMessage struct {
	Lang    string `json:"lang,omitempty"`
	Message string `json:"message"`
}
