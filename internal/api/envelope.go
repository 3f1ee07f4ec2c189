package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind tells the two failure shapes of an Envelope apart.
type ErrorKind int

const (
	// KindRemoteStatus means the server answered with a status other than 200.
	KindRemoteStatus ErrorKind = iota + 1
	// KindTransportFault means the exchange never produced a usable response:
	// DNS, TLS, connection, cancellation, body read or JSON decode failures.
	KindTransportFault
)

func (k ErrorKind) String() string {
	switch k {
	case KindRemoteStatus:
		return "remote_status"
	case KindTransportFault:
		return "transport_fault"
	default:
		return "unknown"
	}
}

// CallError describes why a call produced an error envelope.
type CallError struct {
	Kind        ErrorKind
	StatusCode  int    // set for KindRemoteStatus
	Description string // set for KindTransportFault
}

// Message renders the wire message: "HTTP Error: <code>" or "Exception: <description>".
func (e *CallError) Message() string {
	if e == nil {
		return ""
	}
	if e.Kind == KindRemoteStatus {
		return "HTTP Error: " + strconv.Itoa(e.StatusCode)
	}
	return "Exception: " + e.Description
}

// Envelope is the uniform result of every call. Exactly one of Payload or Err is meaningful.
type Envelope struct {
	// Payload is the decoded JSON body of a 200 response.
	Payload any
	// Raw is the undecoded body of a 200 response.
	Raw json.RawMessage
	// Err is nil on success.
	Err *CallError
}

// OK reports whether the envelope carries a success payload.
func (e Envelope) OK() bool {
	return e.Err == nil
}

// Error returns the failure as a typed error (*RemoteStatusError or *TransportFault),
// or nil for a success envelope.
func (e Envelope) Error() error {
	if e.Err == nil {
		return nil
	}
	if e.Err.Kind == KindRemoteStatus {
		return &RemoteStatusError{StatusCode: e.Err.StatusCode}
	}
	return &TransportFault{Description: e.Err.Description}
}

// StatusCode returns 200 for success, the upstream status for remote errors
// and 0 for transport faults.
func (e Envelope) StatusCode() int {
	switch {
	case e.Err == nil:
		return 200
	case e.Err.Kind == KindRemoteStatus:
		return e.Err.StatusCode
	default:
		return 0
	}
}

// Decode unmarshals the success payload into v.
func (e Envelope) Decode(v any) error {
	if e.Err != nil {
		return e.Error()
	}
	if len(e.Raw) == 0 {
		return errors.New("empty payload")
	}
	if err := json.Unmarshal(e.Raw, v); err != nil {
		return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// MarshalJSON writes the raw upstream payload on success and
// {"error": "<message>", "success": false} otherwise.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Err != nil {
		return json.Marshal(errorBody{Error: e.Err.Message(), Success: false})
	}
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(e.Payload)
}

func successEnvelope(body []byte) (Envelope, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Envelope{}, err
	}
	raw := make(json.RawMessage, len(body))
	copy(raw, body)
	return Envelope{Payload: payload, Raw: raw}, nil
}

func statusEnvelope(code int) Envelope {
	return Envelope{Err: &CallError{Kind: KindRemoteStatus, StatusCode: code}}
}

func faultEnvelope(err error) Envelope {
	return Envelope{Err: &CallError{Kind: KindTransportFault, Description: err.Error()}}
}
