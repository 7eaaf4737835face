// Package provision registers the carrier configuration in the IMS when the
// stack is created, and acknowledges CloudFormation custom-resource
// lifecycle requests.
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/parcelport/carriertransport/internal/carrier"
	"github.com/parcelport/carriertransport/internal/ims"
)

// Registrar is the slice of the IMS surface carrier registration needs.
type Registrar interface {
	AddCarrier(ctx context.Context, carrier ims.Carrier) error
}

// Registration is the carrier record written on stack creation.
type Registration struct {
	CarrierName string
	SetupKey    string
	Setup       carrier.Setup
}

// Handler services CloudFormation custom-resource lifecycle events.
type Handler struct {
	registrar    Registrar
	registration Registration
	httpClient   *http.Client
	log          *zap.Logger
}

// NewHandler creates the initializer handler.
func NewHandler(registrar Registrar, registration Registration, httpClient *http.Client, log *zap.Logger) *Handler {
	return &Handler{
		registrar:    registrar,
		registration: registration,
		httpClient:   httpClient,
		log:          log,
	}
}

// physicalResourceID is stable across updates so CloudFormation never
// replaces the resource.
const physicalResourceID = "CarrierRegistration"

// Handle registers the carrier on Create and acknowledges every lifecycle
// request. It always reports SUCCESS: a failed registration must not block
// or roll back the stack, so the error detail travels in the reason text.
func (h *Handler) Handle(ctx context.Context, event cfn.Event) (string, error) {
	reason := "OK"
	if err := h.run(ctx, event); err != nil {
		h.log.Error("carrier registration failed", zap.Error(err))
		reason = err.Error()
	}

	if err := h.respond(ctx, event, reason); err != nil {
		return "", errors.Wrap(err, "reporting provisioning status")
	}

	return "done", nil
}

func (h *Handler) run(ctx context.Context, event cfn.Event) error {
	if event.RequestType != cfn.RequestCreate {
		h.log.Info("nothing to do", zap.String("request_type", string(event.RequestType)))
		return nil
	}

	document, err := json.Marshal(map[string]carrier.Setup{
		h.registration.SetupKey: h.registration.Setup,
	})
	if err != nil {
		return errors.Wrap(err, "encoding carrier data document")
	}

	record := ims.Carrier{
		CarrierName:  h.registration.CarrierName,
		DataDocument: string(document),
	}

	return h.registrar.AddCarrier(ctx, record)
}

// respond PUTs the status report to the caller-supplied callback URL.
func (h *Handler) respond(ctx context.Context, event cfn.Event, reason string) error {
	report := struct {
		Status             string `json:"Status"`
		PhysicalResourceID string `json:"PhysicalResourceId"`
		StackID            string `json:"StackId"`
		RequestID          string `json:"RequestId"`
		LogicalResourceID  string `json:"LogicalResourceId"`
		Reason             string `json:"Reason"`
	}{
		Status:             string(cfn.StatusSuccess),
		PhysicalResourceID: physicalResourceID,
		StackID:            event.StackID,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
		Reason:             reason,
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "encoding status report")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, event.ResponseURL, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "building status report request")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending status report")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf("status report answered status %d", resp.StatusCode)
	}

	return nil
}
