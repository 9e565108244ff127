package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClientComplete(t *testing.T) {
	respBody := `{"choices":[{"message":{"content":"Pack a rain jacket."}}]}`

	var capturedURL string
	var capturedAuth string
	var capturedPayload map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")

		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &capturedPayload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://ai.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "You are a travel assistant."},
		{Role: "user", Content: "What should I pack for Reykjavik?"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Pack a rain jacket." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if capturedURL != "http://ai.test/v1/chat/completions" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", capturedAuth)
	}
	if capturedPayload["model"] != "google/gemini-2.0-flash-001" {
		t.Fatalf("unexpected model %v", capturedPayload["model"])
	}
	if _, hasFormat := capturedPayload["response_format"]; hasFormat {
		t.Fatal("plain completion should not carry response_format")
	}
}

func TestClientCompleteJSON(t *testing.T) {
	respBody := `{"choices":[{"message":{"content":"{\"notes\":\"Arrive early.\",\"categories\":[\"museum\"]}"}}]}`

	var capturedPayload map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &capturedPayload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://ai.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	schema := JSONSchema{
		Name:   "autofill",
		Strict: true,
		Schema: json.RawMessage(`{"type":"object","properties":{"notes":{"type":"string"},"categories":{"type":"array","items":{"type":"string"}}}}`),
	}

	var out struct {
		Notes      string   `json:"notes"`
		Categories []string `json:"categories"`
	}
	err = client.CompleteJSON(context.Background(), []Message{{Role: "user", Content: "Fill in details"}}, schema, &out)
	if err != nil {
		t.Fatalf("complete json: %v", err)
	}
	if out.Notes != "Arrive early." {
		t.Fatalf("unexpected notes %q", out.Notes)
	}
	if len(out.Categories) != 1 || out.Categories[0] != "museum" {
		t.Fatalf("unexpected categories %+v", out.Categories)
	}

	format, ok := capturedPayload["response_format"].(map[string]any)
	if !ok {
		t.Fatalf("response_format missing from payload: %+v", capturedPayload)
	}
	if format["type"] != "json_schema" {
		t.Fatalf("unexpected response_format type %v", format["type"])
	}
}

func TestClientCompleteRetriesRateLimit(t *testing.T) {
	attempts := 0
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		attempts++
		if attempts < 2 {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(strings.NewReader("slow down")),
				Header:     http.Header{},
			}, nil
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"choices":[{"message":{"content":"ok"}}]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://ai.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	reply, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("complete after retry: %v", err)
	}
	if reply != "ok" || attempts != 2 {
		t.Fatalf("unexpected state reply=%q attempts=%d", reply, attempts)
	}
}

func TestClientCompleteNoChoices(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"choices":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://ai.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
