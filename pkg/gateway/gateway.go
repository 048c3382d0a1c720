// Package gateway simulates the external payment provider the engine
// proxies to. Request validation is real; the approval is not.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stubdock/stubdock/internal/id"
)

// Provider is the upstream name reported in the X-Gateway-Provider
// response header, so callers can tell a simulated charge from a real one.
const Provider = "simupay-sandbox"

// ChargeRequest is the body accepted by the charge endpoint.
type ChargeRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,alpha,len=3"`
	// Reference is an optional caller correlation id, echoed back verbatim.
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

// ChargeResult is the success envelope for an approved charge.
type ChargeResult struct {
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reference     string  `json:"reference,omitempty"`
}

// InvalidRequestError reports which fields failed validation.
type InvalidRequestError struct {
	Fields []string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid charge request: %s", strings.Join(e.Fields, ", "))
}

// StatusCode returns the HTTP status code for this error.
func (e *InvalidRequestError) StatusCode() int {
	return http.StatusBadRequest
}

// Client is the simulated upstream. It holds no per-charge state.
type Client struct {
	validate *validator.Validate
}

// NewClient creates a gateway client.
func NewClient() *Client {
	return &Client{validate: validator.New()}
}

// Charge validates the request body and, when it passes, fabricates an
// approved transaction with a fresh transaction id. Every valid request
// is approved; declines are the realm of the canned error endpoints.
func (c *Client) Charge(body map[string]any) (ChargeResult, error) {
	var req ChargeRequest
	raw, err := json.Marshal(body)
	if err == nil {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return ChargeResult{}, &InvalidRequestError{Fields: []string{"body"}}
	}

	if err := c.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return ChargeResult{}, &InvalidRequestError{Fields: fields}
		}
		return ChargeResult{}, &InvalidRequestError{Fields: []string{"body"}}
	}

	return ChargeResult{
		Status:        "approved",
		TransactionID: id.UUID(),
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		Reference:     req.Reference,
	}, nil
}
