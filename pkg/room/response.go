package room

import (
	"errors"

	"holdem-server/pkg/texasholdem"
)

// Response is a message sent to a client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`

	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

// isUserError returns true if the error was caused by the request rather than the server
func isUserError(err error) bool {
	var userErr texasholdem.UserError
	return errors.As(err, &userErr)
}

type playerEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type potEvent struct {
	Pot int `json:"pot"`
}

type balanceEvent struct {
	Chips int `json:"chips"`
}
