package models

import (
	"errors"
	"testing"
)

func TestParseRequestBatchKeepsOrder(t *testing.T) {
	req, err := ParseRequest(`{"50000003": "https://a.example/3", "50000000": "https://a.example/0", "10": " https://a.example/10 "}`)
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if req.Single {
		t.Fatal("expected batch mode")
	}

	want := []Job{
		{CategoryID: "50000003", URL: "https://a.example/3"},
		{CategoryID: "50000000", URL: "https://a.example/0"},
		{CategoryID: "10", URL: "https://a.example/10"},
	}
	if len(req.Jobs) != len(want) {
		t.Fatalf("unexpected jobs: %+v", req.Jobs)
	}
	for i := range want {
		if req.Jobs[i] != want[i] {
			t.Fatalf("job %d = %+v, want %+v", i, req.Jobs[i], want[i])
		}
	}
}

func TestParseRequestDuplicateKeys(t *testing.T) {
	req, err := ParseRequest(`{"A": "https://a.example/1", "B": "https://b.example", "A": "https://a.example/2"}`)
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}

	want := []Job{
		{CategoryID: "A", URL: "https://a.example/2"},
		{CategoryID: "B", URL: "https://b.example"},
	}
	if len(req.Jobs) != len(want) {
		t.Fatalf("unexpected jobs: %+v", req.Jobs)
	}
	for i := range want {
		if req.Jobs[i] != want[i] {
			t.Fatalf("job %d = %+v, want %+v", i, req.Jobs[i], want[i])
		}
	}
}

func TestParseRequestSingle(t *testing.T) {
	req, err := ParseRequest(`{"url": "https://search.shopping.naver.com/best/category/click?categoryCategoryId=50000003"}`)
	if err != nil {
		t.Fatalf("ParseRequest error: %v", err)
	}
	if !req.Single || req.URL != "https://search.shopping.naver.com/best/category/click?categoryCategoryId=50000003" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestParseRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "missing", raw: "", want: ErrMissingPayload},
		{name: "blank", raw: "   ", want: ErrMissingPayload},
		{name: "malformed", raw: `{"a": `, want: ErrInvalidJSON},
		{name: "not an object", raw: `["https://a.example"]`, want: ErrInvalidJSON},
		{name: "null", raw: `null`, want: ErrInvalidJSON},
		{name: "trailing data", raw: `{"a": "b"} {"c": "d"}`, want: ErrInvalidJSON},
		{name: "non-string url value", raw: `{"a": 12}`, want: ErrInvalidJSON},
		{name: "empty object", raw: `{}`, want: ErrEmptyPayload},
		{name: "empty single url", raw: `{"url": ""}`, want: ErrMissingURL},
		{name: "non-string single url", raw: `{"url": 3}`, want: ErrMissingURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseRequest(%q) error = %v, want %v", tt.raw, err, tt.want)
			}
			if err.Error() == "" {
				t.Fatal("error message must not be empty")
			}
		})
	}
}

func TestParseJobs(t *testing.T) {
	jobs, err := ParseJobs([]byte(`{"b": "https://b.example", "a": "https://a.example"}`))
	if err != nil {
		t.Fatalf("ParseJobs error: %v", err)
	}
	if len(jobs) != 2 || jobs[0].CategoryID != "b" || jobs[1].CategoryID != "a" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	if _, err := ParseJobs([]byte(`{}`)); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}
