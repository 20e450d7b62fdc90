package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"naver-shop-crawler/models"
)

const maxBodyBytes = 1 << 20

type crawlBody struct {
	URL  string          `json:"url"`
	URLs json.RawMessage `json:"urls"`
}

type crawlResponse struct {
	Success   bool            `json:"success"`
	Data      models.Response `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// handleCrawl runs ?type=single or ?type=multi (the default). URLs come
// from the query or a JSON body, falling back to the configured defaults.
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	req, err := s.buildRequest(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.limiter.Wait(r.Context()); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "request cancelled while waiting for crawl slot")
		return
	}

	s.crawlMu.Lock()
	defer s.crawlMu.Unlock()

	resp, err := s.executor.Execute(r.Context(), req)
	if err != nil {
		s.log.Error("Crawl failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "crawl failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, crawlResponse{
		Success:   true,
		Data:      resp,
		Timestamp: s.now().Format(timestampLayout),
	})
}

func (s *Server) buildRequest(r *http.Request) (models.Request, error) {
	body, err := readBody(r)
	if err != nil {
		return models.Request{}, err
	}

	crawlType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	switch crawlType {
	case "single":
		url := strings.TrimSpace(r.URL.Query().Get("url"))
		if url == "" {
			url = strings.TrimSpace(body.URL)
		}
		if url == "" {
			url = s.cfg.SingleURL
		}
		if url == "" {
			return models.Request{}, models.ErrMissingURL
		}
		return models.SingleRequest(url), nil

	case "", "multi":
		if len(body.URLs) > 0 && string(body.URLs) != "null" {
			jobs, err := models.ParseJobs(body.URLs)
			if err != nil {
				return models.Request{}, err
			}
			return models.BatchRequest(jobs), nil
		}
		if len(s.cfg.Categories) == 0 {
			return models.Request{}, models.ErrEmptyPayload
		}
		jobs := make([]models.Job, len(s.cfg.Categories))
		copy(jobs, s.cfg.Categories)
		return models.BatchRequest(jobs), nil

	default:
		return models.Request{}, fmt.Errorf("unknown crawl type %q", crawlType)
	}
}

func readBody(r *http.Request) (crawlBody, error) {
	var body crawlBody
	if r.Method != http.MethodPost || r.Body == nil {
		return body, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return body, fmt.Errorf("read body: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return body, nil
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return body, fmt.Errorf("%w: %v", models.ErrInvalidJSON, err)
	}
	return body, nil
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{
		Success:   false,
		Error:     message,
		Timestamp: s.now().Format(timestampLayout),
	})
}
