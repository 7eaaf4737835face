package bring

import (
	"strconv"
	"time"

	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

// MapAddress converts an IMS address and optional contact into a carrier
// party record. notes and reference are caller overlays: the sender carries
// the shipment's own reference and no notes, the recipient the customer's
// reference and the delivery notes.
func MapAddress(address ims.Address, contact *ims.ContactPerson, notes, reference string) Address {
	mapped := Address{
		Name:                  address.Addressee,
		AddressLine:           address.StreetNameAndNumber,
		AddressLine2:          address.DistrictOrCityArea,
		City:                  address.CityTownOrVillage,
		CountryCode:           address.CountryCode,
		PostalCode:            address.PostalCode,
		Reference:             reference,
		AdditionalAddressInfo: notes,
	}

	if contact != nil {
		mapped.Contact = &Contact{
			Name:        contact.Name,
			Email:       contact.Email,
			PhoneNumber: contact.MobileNumber,
		}
	}

	return mapped
}

// MapParcel converts one shipping container into a carrier package. Meters
// become centimeters; a container without dimensions yields a package
// without dimensions, never zeroed ones.
func MapParcel(container ims.ShippingContainer) Package {
	parcel := Package{
		CorrelationID: strconv.FormatInt(container.ID, 10),
		WeightInKg:    container.GrossWeight,
	}

	if d := container.Dimensions; d != nil {
		parcel.Dimensions = &Dimensions{
			HeightInCm: metersToCentimeters(d.Height),
			LengthInCm: metersToCentimeters(d.Length),
			WidthInCm:  metersToCentimeters(d.Width),
		}
	}

	return parcel
}

func metersToCentimeters(m *float64) *float64 {
	if m == nil {
		return nil
	}
	cm := *m * 100
	return &cm
}

// BuildRequest assembles the one-consignment booking request for a
// shipment. The instruction's product template is cloned before it is
// customized; the shared setup is never mutated.
func BuildRequest(setup carrier.Setup, instruction carrier.Instruction, shipment *ims.Shipment, origin *ims.Context, at time.Time) *BookingRequest {
	recipient := MapAddress(shipment.DeliveryAddress, shipment.ContactPerson,
		shipment.NotesOnDelivery, shipment.CustomersReference)
	sender := MapAddress(origin.Address, origin.ContactPerson, "", shipment.OurReference)

	var pickupPoint *PickupPoint
	if shipment.DeliverToPickUpPoint {
		pickupPoint = &PickupPoint{
			CountryCode: shipment.DeliveryAddress.CountryCode,
			ID:          shipment.PickUpPointID,
		}
	}

	packages := make([]Package, 0, len(shipment.ShippingContainers))
	for _, container := range shipment.ShippingContainers {
		packages = append(packages, MapParcel(container))
	}

	product := instruction.Product.Clone()
	product.IncotermRule = shipment.Incoterms
	product.CustomerNumber = setup.CustomerNumber
	for i, service := range product.AdditionalServices {
		switch service.ID {
		case ServiceFlexDelivery:
			product.AdditionalServices[i].Message = shipment.NotesOnDelivery
		case ServiceNotification:
			if contact := recipient.Contact; contact != nil {
				product.AdditionalServices[i].Email = contact.Email
				product.AdditionalServices[i].Mobile = contact.PhoneNumber
			}
		}
	}

	return &BookingRequest{
		SchemaVersion: schemaVersion,
		TestIndicator: setup.TestIndicator,
		Consignments: []Consignment{{
			CorrelationID:    shipment.ShipmentNumber,
			ShippingDateTime: at.UnixMilli(),
			Parties: Parties{
				PickupPoint: pickupPoint,
				Sender:      sender,
				Recipient:   recipient,
			},
			Packages: packages,
			Product:  product,
		}},
	}
}
