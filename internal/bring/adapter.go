package bring

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

// Adapter implements carrier.Adapter for Bring.
type Adapter struct {
	client *Client
}

// NewAdapter creates the Bring adapter around a booking client.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

var _ carrier.Adapter = (*Adapter)(nil)

func (a *Adapter) Name() string { return CarrierName }

func (a *Adapter) SetupKey() string { return SetupKey }

// Book selects the matching instruction, assembles the consignment, and
// submits it. Failure texts on the outcome are complete sentences ready for
// the IMS event log.
func (a *Adapter) Book(ctx context.Context, setup carrier.Setup, shipment *ims.Shipment, origin *ims.Context, at time.Time) (*carrier.Outcome, error) {
	instruction, err := carrier.FindInstruction(setup.Instructions, shipment)
	if err != nil {
		return nil, errors.Wrapf(err, "shipment %s", shipment.ShipmentNumber)
	}

	booking := BuildRequest(setup, instruction, shipment, origin, at)

	outcome, err := a.client.Submit(ctx, setup, booking)
	if err != nil {
		return nil, err
	}

	switch outcome.Status {
	case carrier.Rejected:
		outcome.FailureText = fmt.Sprintf(
			"Failed to register shipment %s with %s. %s says: %s",
			shipment.ShipmentNumber, CarrierName, CarrierName, outcome.FailureText)
	case carrier.ServerFailure:
		outcome.FailureText = fmt.Sprintf(
			"Call to %s failed with status code %d when trying to book transport for shipment %s",
			CarrierName, outcome.StatusCode, shipment.ShipmentNumber)
	}

	return outcome, nil
}
