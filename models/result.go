package models

import (
	"bytes"
	"encoding/json"
)

const (
	CodeOK          = 200
	CodeBadRequest  = 400
	CodeNotFound    = 404
	CodeServerError = 500
)

// JobResult is the envelope emitted for one requested URL.
type JobResult struct {
	Code       int             `json:"code"`
	Data       []ProductRecord `json:"data"`
	Count      int             `json:"count"`
	CategoryID string          `json:"categoryId,omitempty"`
	URL        string          `json:"url"`
	Error      string          `json:"error,omitempty"`
}

func SuccessResult(job Job, products []ProductRecord) JobResult {
	if products == nil {
		products = []ProductRecord{}
	}
	return JobResult{
		Code:       CodeOK,
		Data:       products,
		Count:      len(products),
		CategoryID: job.CategoryID,
		URL:        job.URL,
	}
}

func FailedResult(job Job, err error) JobResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return JobResult{
		Code:       CodeNotFound,
		Data:       []ProductRecord{},
		Count:      0,
		CategoryID: job.CategoryID,
		URL:        job.URL,
		Error:      msg,
	}
}

// CategoryResult serialises as a singleton {"<categoryId>": JobResult} object.
type CategoryResult struct {
	CategoryID string
	Result     JobResult
}

func (c CategoryResult) MarshalJSON() ([]byte, error) {
	return marshalRaw(map[string]JobResult{c.CategoryID: c.Result})
}

// Response is the document written for one run: a bare JobResult in
// single mode, a list of CategoryResult in batch mode.
type Response struct {
	Single *JobResult
	Batch  []CategoryResult
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Single != nil {
		return marshalRaw(r.Single)
	}
	batch := r.Batch
	if batch == nil {
		batch = []CategoryResult{}
	}
	return marshalRaw(batch)
}

// marshalRaw is json.Marshal without HTML escaping, so URLs keep their "&".
// An outer encoder cannot undo escaping done inside MarshalJSON.
func marshalRaw(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Results flattens the response into its job envelopes, in order.
func (r Response) Results() []JobResult {
	if r.Single != nil {
		return []JobResult{*r.Single}
	}
	out := make([]JobResult, 0, len(r.Batch))
	for _, c := range r.Batch {
		out = append(out, c.Result)
	}
	return out
}

// ErrorEnvelope is the top-level document for input (400) and
// unexpected (500) failures.
type ErrorEnvelope struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func NewErrorEnvelope(code int, err error) ErrorEnvelope {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return ErrorEnvelope{Code: code, Error: msg}
}
