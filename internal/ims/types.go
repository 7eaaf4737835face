// Package ims is the client for the inventory-management system that owns
// shipments, contexts, carriers, documents, and event logs. The adapter
// reads booking input from it and writes booking results back.
package ims

// WorkStatus is the lifecycle state of an IMS document.
type WorkStatus string

const (
	WorkStatusOnGoing WorkStatus = "ON_GOING"
	WorkStatusDone    WorkStatus = "DONE"
	WorkStatusFailed  WorkStatus = "FAILED"
)

// Address is an immutable address snapshot. No omitempty: nested predicates
// match on the address's wire form, and empty fields must stay visible.
type Address struct {
	Addressee           string `json:"addressee"`
	StreetNameAndNumber string `json:"streetNameAndNumber"`
	DistrictOrCityArea  string `json:"districtOrCityArea"`
	CityTownOrVillage   string `json:"cityTownOrVillage"`
	CountryCode         string `json:"countryCode"`
	PostalCode          string `json:"postalCode"`
}

// ContactPerson is an immutable contact snapshot.
type ContactPerson struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// Dimensions of a shipping container, in meters. Absent dimensions stay
// absent; they are never defaulted to zero.
type Dimensions struct {
	Height *float64 `json:"height,omitempty"`
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
}

// ShippingContainer is one physical package of a shipment. TrackingNumber
// and TrackingURL are write targets filled after a successful booking.
type ShippingContainer struct {
	ID             int64       `json:"id"`
	GrossWeight    *float64    `json:"grossWeight,omitempty"`
	Dimensions     *Dimensions `json:"dimensions,omitempty"`
	TrackingNumber string      `json:"trackingNumber,omitempty"`
	TrackingURL    string      `json:"trackingUrl,omitempty"`
}

// Shipment as read from the IMS. CarriersShipmentNumber is a write target;
// everything else is input to the booking. Scalar fields carry no omitempty:
// transport instructions match on the shipment's wire form, and a zero value
// (false, "") must stay visible to the matcher.
type Shipment struct {
	ShipmentNumber         string              `json:"shipmentNumber"`
	DeliveryAddress        Address             `json:"deliveryAddress"`
	ContactPerson          *ContactPerson      `json:"contactPerson,omitempty"`
	NotesOnDelivery        string              `json:"notesOnDelivery"`
	CustomersReference     string              `json:"customersReference"`
	OurReference           string              `json:"ourReference"`
	Incoterms              string              `json:"incoterms"`
	TermsOfDelivery        string              `json:"termsOfDelivery"`
	ShippingContainers     []ShippingContainer `json:"shippingContainers"`
	DeliverToPickUpPoint   bool                `json:"deliverToPickUpPoint"`
	PickUpPointID          string              `json:"pickUpPointId"`
	CarriersShipmentNumber string              `json:"carriersShipmentNumber"`
}

// Context is the sender-side master data for a booking.
type Context struct {
	Address       Address        `json:"address"`
	ContactPerson *ContactPerson `json:"contactPerson,omitempty"`
	Reference     string         `json:"reference,omitempty"`
}

// Carrier is a named carrier record with an opaque configuration document.
type Carrier struct {
	CarrierName  string `json:"carrierName"`
	DataDocument string `json:"dataDocument"`
}

// EventMessage is one entry appended to an IMS event log.
type EventMessage struct {
	Time        int64  `json:"time"`
	Source      string `json:"source"`
	MessageType string `json:"messageType"`
	MessageText string `json:"messageText"`
	DeviceName  string `json:"deviceName,omitempty"`
	UserID      string `json:"userId,omitempty"`
}

// Attachment attaches a file to a document, either by presigned URL or as
// inline content.
type Attachment struct {
	PresignedURL         string `json:"presignedUrl,omitempty"`
	Base64EncodedContent string `json:"base64EncodedContent,omitempty"`
	FileName             string `json:"fileName"`
}
