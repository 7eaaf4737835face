package ims

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Client calls the IMS REST API with bearer-style auth and an API key.
type Client struct {
	baseURL    string
	apiKey     string
	tokens     *TokenSource
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates an IMS client for the given API endpoint.
func NewClient(baseURL, apiKey string, tokens *TokenSource, httpClient *http.Client, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		apiKey:     apiKey,
		tokens:     tokens,
		httpClient: httpClient,
		log:        log,
	}
}

// GetShipment fetches one shipment by id.
func (c *Client) GetShipment(ctx context.Context, id int64) (*Shipment, error) {
	var shipment Shipment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("shipments/%d", id), nil, &shipment); err != nil {
		return nil, errors.Wrapf(err, "fetching shipment %d", id)
	}
	return &shipment, nil
}

// GetContext fetches one context by id.
func (c *Client) GetContext(ctx context.Context, id int64) (*Context, error) {
	var imsContext Context
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("contexts/%d", id), nil, &imsContext); err != nil {
		return nil, errors.Wrapf(err, "fetching context %d", id)
	}
	return &imsContext, nil
}

// GetCarriers fetches all registered carriers.
func (c *Client) GetCarriers(ctx context.Context) ([]Carrier, error) {
	var carriers []Carrier
	if err := c.do(ctx, http.MethodGet, "carriers", nil, &carriers); err != nil {
		return nil, errors.Wrap(err, "fetching carriers")
	}
	return carriers, nil
}

// AddCarrier registers a new carrier record.
func (c *Client) AddCarrier(ctx context.Context, carrier Carrier) error {
	if err := c.do(ctx, http.MethodPost, "carriers", carrier, nil); err != nil {
		return errors.Wrapf(err, "registering carrier %s", carrier.CarrierName)
	}
	return nil
}

// UpdateDocumentStatus advances the work status of a document.
func (c *Client) UpdateDocumentStatus(ctx context.Context, documentID int64, status WorkStatus) error {
	body := struct {
		WorkStatus WorkStatus `json:"workStatus"`
	}{status}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("documents/%d", documentID), body, nil); err != nil {
		return errors.Wrapf(err, "setting document %d to %s", documentID, status)
	}
	return nil
}

// UpdateShippingContainer persists the tracking number and tracking URL a
// booking produced for one container.
func (c *Client) UpdateShippingContainer(ctx context.Context, id int64, trackingNumber, trackingURL string) error {
	body := struct {
		TrackingNumber string `json:"trackingNumber"`
		TrackingURL    string `json:"trackingUrl"`
	}{trackingNumber, trackingURL}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("shippingContainers/%d", id), body, nil); err != nil {
		return errors.Wrapf(err, "updating shipping container %d", id)
	}
	return nil
}

// UpdateCarriersShipmentNumber persists the carrier's consignment number on
// the shipment.
func (c *Client) UpdateCarriersShipmentNumber(ctx context.Context, shipmentID int64, number string) error {
	body := struct {
		CarriersShipmentNumber string `json:"carriersShipmentNumber"`
	}{number}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("shipments/%d", shipmentID), body, nil); err != nil {
		return errors.Wrapf(err, "updating shipment %d", shipmentID)
	}
	return nil
}

// AddDocumentAttachment attaches a file to a document.
func (c *Client) AddDocumentAttachment(ctx context.Context, documentID int64, attachment Attachment) error {
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("documents/%d/attachments", documentID), attachment, nil); err != nil {
		return errors.Wrapf(err, "attaching %s to document %d", attachment.FileName, documentID)
	}
	return nil
}

// AddEventMessage appends a message to an event log.
func (c *Client) AddEventMessage(ctx context.Context, eventID int64, message EventMessage) error {
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("events/%d/messages", eventID), message, nil); err != nil {
		return errors.Wrapf(err, "adding message to event %d", eventID)
	}
	return nil
}

// do sends one authenticated request, retrying exactly once with a fresh
// token when the API answers 401 (the cached token has expired).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return errors.Wrap(err, "obtaining IMS token")
	}

	retried := false
	for {
		status, err := c.send(ctx, method, path, token, body, out)
		if err != nil {
			return err
		}

		if status == http.StatusUnauthorized && !retried {
			c.tokens.Invalidate(token)
			token, err = c.tokens.Token(ctx)
			if err != nil {
				return errors.Wrap(err, "refreshing IMS token")
			}
			retried = true
			continue
		}

		if status < 200 || status >= 300 {
			return errors.Newf("%s %s answered status %d", method, path, status)
		}

		return nil
	}
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, errors.Wrapf(err, "building %s %s", method, path)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s %s response", method, path)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.log.Debug("SUCCESS",
			zap.String("method", method), zap.String("path", path),
			zap.ByteString("body", raw))
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, errors.Wrapf(err, "decoding %s %s response", method, path)
			}
		}
	} else {
		c.log.Warn("FAILURE",
			zap.String("method", method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
	}

	return resp.StatusCode, nil
}
