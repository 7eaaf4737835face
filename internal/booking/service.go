// Package booking runs one transport booking end to end: fetch the shipment
// and its context from the IMS, book with the carrier, and write the result
// back.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

// API is the slice of the IMS surface the booking flow needs.
type API interface {
	GetShipment(ctx context.Context, id int64) (*ims.Shipment, error)
	GetContext(ctx context.Context, id int64) (*ims.Context, error)
	GetCarriers(ctx context.Context) ([]ims.Carrier, error)
	UpdateDocumentStatus(ctx context.Context, documentID int64, status ims.WorkStatus) error
	UpdateShippingContainer(ctx context.Context, id int64, trackingNumber, trackingURL string) error
	UpdateCarriersShipmentNumber(ctx context.Context, shipmentID int64, number string) error
	AddDocumentAttachment(ctx context.Context, documentID int64, attachment ims.Attachment) error
	AddEventMessage(ctx context.Context, eventID int64, message ims.EventMessage) error
}

// Detail identifies the work item a booking event refers to.
type Detail struct {
	DocumentID int64  `json:"documentId"`
	ShipmentID int64  `json:"shipmentId"`
	ContextID  int64  `json:"contextId"`
	EventID    int64  `json:"eventId"`
	DeviceName string `json:"deviceName"`
	UserID     string `json:"userId"`
}

// Service processes booking events for one carrier.
type Service struct {
	ims     API
	adapter carrier.Adapter
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates the booking service.
func NewService(imsAPI API, adapter carrier.Adapter, log *zap.Logger) *Service {
	return &Service{ims: imsAPI, adapter: adapter, log: log, now: time.Now}
}

// Handle processes one booking event. Booking failures are terminal for the
// invocation: they surface as an IMS event message and a FAILED work
// status, never silently. Missing carrier configuration aborts the
// invocation without advancing the work status.
//
// When the carrier cannot be reached at all, the document is failed and the
// error is surfaced so the event gets redelivered; the retry's ON_GOING
// patch re-opens the document before the next attempt.
func (s *Service) Handle(ctx context.Context, event events.CloudWatchEvent) (string, error) {
	var detail Detail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return "", errors.Wrap(err, "decoding event detail")
	}

	log := s.log.With(
		zap.Int64("document_id", detail.DocumentID),
		zap.Int64("shipment_id", detail.ShipmentID))
	log.Info("booking transport", zap.String("carrier", s.adapter.Name()))

	if err := s.ims.UpdateDocumentStatus(ctx, detail.DocumentID, ims.WorkStatusOnGoing); err != nil {
		return "", err
	}

	shipment, err := s.ims.GetShipment(ctx, detail.ShipmentID)
	if err != nil {
		return "", err
	}
	origin, err := s.ims.GetContext(ctx, detail.ContextID)
	if err != nil {
		return "", err
	}
	carriers, err := s.ims.GetCarriers(ctx)
	if err != nil {
		return "", err
	}

	record, err := carrier.Lookup(carriers, s.adapter.Name())
	if err != nil {
		log.Error("carrier configuration missing", zap.Error(err))
		return "", err
	}
	setup, err := carrier.ParseSetup(record.DataDocument, s.adapter.SetupKey())
	if err != nil {
		log.Error("carrier configuration invalid", zap.Error(err))
		return "", err
	}

	outcome, err := s.adapter.Book(ctx, setup, shipment, origin, s.now())
	if errors.Is(err, carrier.ErrNoInstruction) {
		return "", s.fail(ctx, detail, fmt.Sprintf(
			"No transport instruction found matching shipment %s", shipment.ShipmentNumber))
	}
	if err != nil {
		// The carrier could not be reached at all. Still terminal for
		// this invocation: record the failure in the IMS, then surface
		// the cause to the runtime.
		text := fmt.Sprintf("Call to %s failed when trying to book transport for shipment %s",
			s.adapter.Name(), shipment.ShipmentNumber)
		if failErr := s.fail(ctx, detail, text); failErr != nil {
			return "", errors.CombineErrors(err, failErr)
		}
		return "", err
	}

	switch outcome.Status {
	case carrier.Accepted:
		if err := s.applyConfirmation(ctx, detail, shipment, outcome.Confirmation); err != nil {
			return "", err
		}
		log.Info("transport booked",
			zap.String("consignment_number", outcome.Confirmation.ConsignmentNumber))
	default:
		if err := s.fail(ctx, detail, outcome.FailureText); err != nil {
			return "", err
		}
	}

	return "done", nil
}

// applyConfirmation writes the booking result back: tracking data per
// container, the carrier's consignment number on the shipment, the shipping
// label on the document, and the DONE status last.
func (s *Service) applyConfirmation(ctx context.Context, detail Detail, shipment *ims.Shipment, confirmation *carrier.Confirmation) error {
	for _, pkg := range confirmation.Packages {
		for _, container := range shipment.ShippingContainers {
			if strconv.FormatInt(container.ID, 10) != pkg.CorrelationID {
				continue
			}
			if err := s.ims.UpdateShippingContainer(ctx, container.ID,
				pkg.PackageNumber, confirmation.TrackingURL); err != nil {
				return err
			}
		}
	}

	if err := s.ims.UpdateCarriersShipmentNumber(ctx, detail.ShipmentID, confirmation.ConsignmentNumber); err != nil {
		return err
	}

	label := ims.Attachment{
		PresignedURL: confirmation.LabelURL,
		FileName:     fmt.Sprintf("SHIPPING_LABEL_%d.pdf", detail.DocumentID),
	}
	if err := s.ims.AddDocumentAttachment(ctx, detail.DocumentID, label); err != nil {
		return err
	}

	return s.ims.UpdateDocumentStatus(ctx, detail.DocumentID, ims.WorkStatusDone)
}

// fail records a terminal booking failure: one event message, then one
// FAILED work-status patch.
func (s *Service) fail(ctx context.Context, detail Detail, text string) error {
	s.log.Warn("booking failed", zap.String("reason", text))

	message := ims.EventMessage{
		Time:        s.now().UnixMilli(),
		Source:      s.adapter.Name() + "Transport",
		MessageType: "ERROR",
		MessageText: text,
		DeviceName:  detail.DeviceName,
		UserID:      detail.UserID,
	}
	if err := s.ims.AddEventMessage(ctx, detail.EventID, message); err != nil {
		return err
	}

	return s.ims.UpdateDocumentStatus(ctx, detail.DocumentID, ims.WorkStatusFailed)
}
