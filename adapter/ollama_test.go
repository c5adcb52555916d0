// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-a2a/agenthub"
)

func TestOllamaExecute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"response": "local answer", "done": true}`)
	}))
	defer srv.Close()

	o := NewOllama(WithOllamaHost(srv.URL))
	result, err := o.Execute(t.Context(), "hello", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Content != "local answer" {
		t.Errorf("content = %q, want %q", result.Content, "local answer")
	}
}

func TestOllamaExecuteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "model not found"}`)
	}))
	defer srv.Close()

	o := NewOllama(WithOllamaHost(srv.URL))
	_, err := o.Execute(t.Context(), "hello", nil)

	var execErr *agenthub.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
}

func TestOllamaExecuteStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response": "Hel", "done": false}`)
		fmt.Fprintln(w, `{"response": "lo", "done": false}`)
		fmt.Fprintln(w, `{"response": "", "done": true}`)
	}))
	defer srv.Close()

	o := NewOllama(WithOllamaHost(srv.URL))
	chunks, err := o.ExecuteStream(t.Context(), "hello", nil)
	if err != nil {
		t.Fatalf("ExecuteStream failed: %v", err)
	}

	var text string
	var sawFinal bool
	for chunk := range chunks {
		text += chunk.Content
		if chunk.Final {
			sawFinal = true
		}
	}
	if text != "Hello" {
		t.Errorf("streamed text = %q, want %q", text, "Hello")
	}
	if !sawFinal {
		t.Error("expected a final chunk")
	}
}

func TestOllamaHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"models": []}`)
	}))
	defer srv.Close()

	o := NewOllama(WithOllamaHost(srv.URL))
	if err := o.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	srv.Close()
	if err := o.HealthCheck(t.Context()); err == nil {
		t.Error("expected error against closed server")
	}
}
