// Package carrier defines the contract between the booking flow and a
// concrete carrier integration: the configuration model, the
// shipment-matching predicate, and the booking outcome.
package carrier

import (
	"context"
	"time"

	"github.com/parcelport/carriertransport/internal/ims"
)

// Status classifies the terminal result of one booking attempt.
type Status int

const (
	// Accepted means the carrier confirmed the consignment.
	Accepted Status = iota
	// Rejected means the carrier refused the payload.
	Rejected
	// ServerFailure means the carrier failed on its side. The attempt is
	// over; re-booking requires a new triggering event.
	ServerFailure
)

// Outcome is the classified result of one booking submission.
type Outcome struct {
	Status       Status
	StatusCode   int
	Confirmation *Confirmation // set when Status is Accepted
	FailureText  string        // human-readable, set otherwise
}

// Confirmation carries the identifiers the IMS needs after a successful
// booking.
type Confirmation struct {
	ConsignmentNumber string
	TrackingURL       string
	LabelURL          string
	Packages          []PackageConfirmation
}

// PackageConfirmation correlates one booked package back to the shipping
// container it was mapped from.
type PackageConfirmation struct {
	CorrelationID string
	PackageNumber string
}

// Adapter books transport with one carrier.
type Adapter interface {
	// Name is the carrier name as registered in the IMS.
	Name() string
	// SetupKey is the entry in the carrier's data document that holds
	// this carrier's Setup.
	SetupKey() string
	// Book builds one booking request for the shipment and submits it.
	// Returns ErrNoInstruction when no configured instruction matches;
	// other errors mean the carrier could not be reached.
	Book(ctx context.Context, setup Setup, shipment *ims.Shipment, origin *ims.Context, at time.Time) (*Outcome, error)
}
