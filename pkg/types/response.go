// Package types holds the JSON envelopes shared by every API response. The
// Mini App client relies on the {"data": ...} / {"error": ...} split to route
// payloads, so handlers never write bare objects.
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
