package bring

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/parcelport/carriertransport/internal/carrier"
)

// Client calls the Bring booking API. API credentials travel with the setup
// per call, since they come from the carrier record, not the process
// environment.
type Client struct {
	baseURL    string
	clientURL  string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a booking client. clientURL identifies the integrating
// system to Bring via the X-Bring-Client-URL header.
func NewClient(baseURL, clientURL string, httpClient *http.Client, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		clientURL:  clientURL,
		httpClient: httpClient,
		log:        log,
	}
}

// Submit posts the booking and classifies the carrier's answer. 2xx carries
// a confirmation, 400 a structured rejection; anything else is a
// carrier-side failure terminal for this attempt.
func (c *Client) Submit(ctx context.Context, setup carrier.Setup, booking *BookingRequest) (*carrier.Outcome, error) {
	raw, err := json.Marshal(booking)
	if err != nil {
		return nil, errors.Wrap(err, "encoding booking request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"booking", bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "building booking request")
	}
	req.Header.Set("X-Mybring-API-Key", setup.APIKey)
	req.Header.Set("X-Mybring-API-Uid", setup.APIUID)
	req.Header.Set("X-Bring-Client-URL", c.clientURL)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "posting booking")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading booking response")
	}

	c.log.Debug("carrier answered",
		zap.Int("status", resp.StatusCode), zap.ByteString("body", body))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return accepted(resp.StatusCode, body)
	case resp.StatusCode == http.StatusBadRequest:
		return rejected(resp.StatusCode, body)
	default:
		return &carrier.Outcome{
			Status:     carrier.ServerFailure,
			StatusCode: resp.StatusCode,
		}, nil
	}
}

func accepted(status int, body []byte) (*carrier.Outcome, error) {
	var response BookingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "decoding booking confirmation")
	}
	if len(response.Consignments) == 0 || response.Consignments[0].Confirmation == nil {
		return nil, errors.New("booking confirmation carries no consignment")
	}

	confirmation := response.Consignments[0].Confirmation
	packages := make([]carrier.PackageConfirmation, 0, len(confirmation.Packages))
	for _, pkg := range confirmation.Packages {
		packages = append(packages, carrier.PackageConfirmation{
			CorrelationID: pkg.CorrelationID,
			PackageNumber: pkg.PackageNumber,
		})
	}

	return &carrier.Outcome{
		Status:     carrier.Accepted,
		StatusCode: status,
		Confirmation: &carrier.Confirmation{
			ConsignmentNumber: confirmation.ConsignmentNumber,
			TrackingURL:       confirmation.Links.Tracking,
			LabelURL:          confirmation.Links.Labels,
			Packages:          packages,
		},
	}, nil
}

func rejected(status int, body []byte) (*carrier.Outcome, error) {
	var response BookingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "decoding booking rejection")
	}

	var texts []string
	for _, consignment := range response.Consignments {
		for _, consignmentError := range consignment.Errors {
			for _, message := range consignmentError.Messages {
				texts = append(texts, message.Message)
			}
		}
	}

	return &carrier.Outcome{
		Status:      carrier.Rejected,
		StatusCode:  status,
		FailureText: strings.Join(texts, " "),
	}, nil
}
