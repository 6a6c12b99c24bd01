package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hvacdesk/hv/internal/domain"
)

type failureMessages struct {
	networkUnavailable string
	noResponse         string
	rejected           string
	generic            string
}

var loginFailureMessages = failureMessages{
	networkUnavailable: "Cannot connect to server. Please check if backend is running on the correct port.",
	noResponse:         "Server not responding. Please check your backend connection.",
	rejected:           "Invalid email or password",
	generic:            "Login failed. Please try again.",
}

var registerFailureMessages = failureMessages{
	networkUnavailable: "Cannot connect to server. Please check if backend is running.",
	noResponse:         "Server not responding. Please check your backend connection.",
	rejected:           "Registration failed",
	generic:            "Registration failed. Please try again.",
}

const loginSupersededMessage = "Login cancelled by a newer session action."

// describeFailure turns any error into the message shown next to a form.
func describeFailure(err error, messages failureMessages) string {
	backendErr, ok := domain.AsBackendError(err)
	if !ok {
		return messages.generic
	}

	switch backendErr.Kind {
	case domain.FailureNetworkUnavailable:
		return messages.networkUnavailable
	case domain.FailureNoResponse:
		return messages.noResponse
	case domain.FailureRejected:
		if message := messageFromPayload(backendErr.Payload); message != "" {
			return message
		}
		return messages.rejected
	default:
		return messages.generic
	}
}

// messageFromPayload extracts a human readable reason from an error body:
// the message field, the flattened validation errors, the problem title,
// or else the raw body.
func messageFromPayload(payload []byte) string {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '{':
		var body struct {
			Message string          `json:"message"`
			Errors  json.RawMessage `json:"errors"`
			Title   string          `json:"title"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return string(trimmed)
		}
		if message := strings.TrimSpace(body.Message); message != "" {
			return message
		}
		if flattened := flattenValidationErrors(body.Errors); len(flattened) > 0 {
			return strings.Join(flattened, ", ")
		}
		if title := strings.TrimSpace(body.Title); title != "" {
			return title
		}
		return string(trimmed)
	case '"':
		var message string
		if err := json.Unmarshal(trimmed, &message); err != nil {
			return string(trimmed)
		}
		return strings.TrimSpace(message)
	case '[':
		var messages []string
		if err := json.Unmarshal(trimmed, &messages); err != nil {
			return string(trimmed)
		}
		if joined := strings.Join(nonEmpty(messages), ", "); joined != "" {
			return joined
		}
		return string(trimmed)
	default:
		return string(trimmed)
	}
}

// flattenValidationErrors keeps the payload order of a {"field": ["msg"]} map.
func flattenValidationErrors(raw json.RawMessage) []string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	start, err := dec.Token()
	if err != nil {
		return nil
	}

	var out []string
	switch start {
	case json.Delim('{'):
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return out
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return out
			}
			out = append(out, flattenValue(value)...)
		}
	case json.Delim('['):
		for dec.More() {
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return out
			}
			out = append(out, flattenValue(value)...)
		}
	}

	return out
}

func flattenValue(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return nonEmpty([]string{single})
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return nonEmpty(many)
	}

	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isSecretNotFound(err error) bool {
	return errors.Is(err, domain.ErrSecretNotFound)
}
