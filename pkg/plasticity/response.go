package plasticity

import (
	"github.com/athapong/plasticity-go/pkg/keypath"
	"github.com/athapong/plasticity-go/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Data         gjson.Result
	Error        bool
	ErrorCode    *int
	ErrorMessage *string
}

// Parse validates that raw is a JSON object.
func Parse(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		metrics.MalformedPayloads.Inc()
		return gjson.Result{}, errors.Wrap(ErrMalformedPayload, "response is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		metrics.MalformedPayloads.Inc()
		return gjson.Result{}, errors.Wrap(ErrMalformedPayload, "response is not a JSON object")
	}
	return doc, nil
}

// ResponseFromJSON reads the envelope fields of an already parsed body.
func ResponseFromJSON(doc gjson.Result) Response {
	return Response{
		Data:         keypath.Get(doc, "data"),
		Error:        keypath.BoolOr(keypath.Get(doc, "error"), false),
		ErrorCode:    keypath.Int(keypath.Get(doc, "errorCode")),
		ErrorMessage: keypath.String(keypath.Get(doc, "message")),
	}
}

// DecodeResponse parses raw and reads its envelope.
func DecodeResponse(raw []byte) (Response, error) {
	doc, err := Parse(raw)
	if err != nil {
		return Response{}, err
	}
	return ResponseFromJSON(doc), nil
}

// Err returns a *ServiceError when the API flagged the response as failed.
func (r Response) Err() error {
	if !r.Error {
		return nil
	}
	se := &ServiceError{}
	if r.ErrorCode != nil {
		se.Code = *r.ErrorCode
	}
	if r.ErrorMessage != nil {
		se.Message = *r.ErrorMessage
	}
	return se
}
