package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// singleURLKey switches a payload into single mode.
const singleURLKey = "url"

var (
	ErrMissingPayload = errors.New("URL data is required")
	ErrInvalidJSON    = errors.New("invalid JSON format")
	ErrEmptyPayload   = errors.New("URL data is empty")
	ErrMissingURL     = errors.New("url is required")
)

// Request is a parsed crawl payload.
//
// Batch payloads look like {"<categoryId>": "<url>", ...} and keep the key
// order of the document. Single payloads look like {"url": "<url>"}.
type Request struct {
	Single bool
	URL    string
	Jobs   []Job
}

func SingleRequest(url string) Request {
	return Request{Single: true, URL: url}
}

func BatchRequest(jobs []Job) Request {
	return Request{Jobs: jobs}
}

// ParseRequest decodes the process argument. Any error it returns is an
// input error and maps to code 400.
func ParseRequest(raw string) (Request, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Request{}, ErrMissingPayload
	}

	pairs, err := decodeOrderedObject([]byte(raw))
	if err != nil {
		return Request{}, err
	}
	if len(pairs) == 0 {
		return Request{}, ErrEmptyPayload
	}

	for _, p := range pairs {
		if p.key != singleURLKey {
			continue
		}
		var url string
		if err := json.Unmarshal(p.value, &url); err != nil || strings.TrimSpace(url) == "" {
			return Request{}, ErrMissingURL
		}
		return SingleRequest(strings.TrimSpace(url)), nil
	}

	jobs, err := jobsFromPairs(pairs)
	if err != nil {
		return Request{}, err
	}
	return BatchRequest(jobs), nil
}

// ParseJobs decodes a {"<categoryId>": "<url>"} object, preserving key order.
func ParseJobs(data []byte) ([]Job, error) {
	pairs, err := decodeOrderedObject(data)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, ErrEmptyPayload
	}
	return jobsFromPairs(pairs)
}

type rawPair struct {
	key   string
	value json.RawMessage
}

func jobsFromPairs(pairs []rawPair) ([]Job, error) {
	jobs := make([]Job, 0, len(pairs))
	for _, p := range pairs {
		var url string
		if err := json.Unmarshal(p.value, &url); err != nil {
			return nil, fmt.Errorf("%w: category %q must map to a URL string", ErrInvalidJSON, p.key)
		}
		jobs = append(jobs, Job{CategoryID: p.key, URL: strings.TrimSpace(url)})
	}
	return jobs, nil
}

// decodeOrderedObject reads a flat JSON object without losing key order,
// which a map would. A repeated key keeps its first position and its last
// value.
func decodeOrderedObject(data []byte) ([]rawPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: payload must be a JSON object", ErrInvalidJSON)
	}

	var pairs []rawPair
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidJSON, tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if i, ok := seen[key]; ok {
			pairs[i].value = value
			continue
		}
		seen[key] = len(pairs)
		pairs = append(pairs, rawPair{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidJSON)
	}

	return pairs, nil
}
