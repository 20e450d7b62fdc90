package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"naver-shop-crawler/config"
	"naver-shop-crawler/scraper/naver"
	"naver-shop-crawler/utils"
)

func runCrawl(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()

	var stdout, stderr bytes.Buffer
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("stdout is not one JSON object: %v (%q)", err, stdout.String())
	}
	return doc
}

func TestRunMalformedPayload(t *testing.T) {
	doc := runCrawl(t, `{"50000003": `)
	if doc["code"] != float64(400) || doc["error"] == "" {
		t.Fatalf("expected 400 envelope, got %v", doc)
	}
}

func TestRunMissingPayload(t *testing.T) {
	doc := runCrawl(t)
	if doc["code"] != float64(400) || doc["error"] == "" {
		t.Fatalf("expected 400 envelope, got %v", doc)
	}
}

func TestRunHelpStillEmitsDocument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("usage not written to stderr: %q", stderr.String())
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("stdout is not one JSON object: %v (%q)", err, stdout.String())
	}
	if doc["code"] != float64(400) {
		t.Fatalf("expected 400 envelope, got %v", doc)
	}
}

func TestRunMissingURLKey(t *testing.T) {
	doc := runCrawl(t, `{"url": ""}`)
	if doc["code"] != float64(400) {
		t.Fatalf("expected 400 envelope, got %v", doc)
	}
}

func TestRunBrowserLaunchFailure(t *testing.T) {
	orig := sessionFactory
	t.Cleanup(func() { sessionFactory = orig })
	sessionFactory = func(*config.Config, *utils.Logger) naver.SessionFactory {
		return func(context.Context) (naver.Session, error) {
			return nil, errors.New("chrome executable not found")
		}
	}

	doc := runCrawl(t, `{"url": "https://search.shopping.naver.com/best/category/click"}`)
	if doc["code"] != float64(500) || doc["error"] == "" {
		t.Fatalf("expected 500 envelope, got %v", doc)
	}
}
