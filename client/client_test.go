// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/agenthub"
)

// rpcTestServer answers every JSON-RPC call through respond, keyed by
// method.
func rpcTestServer(t *testing.T, respond func(method string, req *agenthub.JSONRPCRequest) *agenthub.JSONRPCResponse) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(agenthub.RPCPath, func(w http.ResponseWriter, r *http.Request) {
		var req agenthub.JSONRPCRequest
		if err := json.UnmarshalRead(r.Body, &req); err != nil {
			t.Errorf("decoding request: %v", err)
			return
		}
		resp := respond(req.Method, &req)
		resp.ID = req.ID
		data, err := json.Marshal(resp)
		if err != nil {
			t.Errorf("marshaling response: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func completedTask(t *testing.T, text string) *agenthub.Task {
	t.Helper()
	task, err := agenthub.NewTask(agenthub.NewUserTextMessage("hi"))
	if err != nil {
		t.Fatalf("NewTask failed: %v", err)
	}
	task.TransitionTo(agenthub.TaskStateWorking)
	task.Artifacts = append(task.Artifacts, agenthub.NewTextArtifact("response", text))
	task.TransitionTo(agenthub.TaskStateCompleted)
	return task
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestSendMessage(t *testing.T) {
	want := completedTask(t, "hello back")
	srv := rpcTestServer(t, func(method string, req *agenthub.JSONRPCRequest) *agenthub.JSONRPCResponse {
		if method != agenthub.MethodMessageSend {
			t.Errorf("method = %q, want %q", method, agenthub.MethodMessageSend)
		}
		var params agenthub.MessageSendParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("decoding params: %v", err)
		}
		if params.Message.Text() != "hi" {
			t.Errorf("message text = %q, want hi", params.Message.Text())
		}
		return agenthub.NewSuccessResponse(nil, want)
	})

	c := newTestClient(t, srv.URL)
	got, err := c.SendMessage(t.Context(), &agenthub.MessageSendParams{
		Message: agenthub.NewUserTextMessage("hi"),
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got.ID != want.ID || got.Status.State != agenthub.TaskStateCompleted {
		t.Errorf("unexpected task: %+v", got)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].Text() != "hello back" {
		t.Errorf("unexpected artifacts: %+v", got.Artifacts)
	}
}

func TestSendMessageRPCError(t *testing.T) {
	srv := rpcTestServer(t, func(method string, req *agenthub.JSONRPCRequest) *agenthub.JSONRPCResponse {
		return agenthub.NewErrorResponse(nil, agenthub.ErrorCodeNoCapableAgent, "no capable agent")
	})

	c := newTestClient(t, srv.URL)
	_, err := c.SendMessage(t.Context(), &agenthub.MessageSendParams{
		Message: agenthub.NewUserTextMessage("hi"),
	})

	var rpcErr *agenthub.JSONRPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected JSONRPCError, got %v", err)
	}
	if rpcErr.Code != agenthub.ErrorCodeNoCapableAgent {
		t.Errorf("code = %d, want %d", rpcErr.Code, agenthub.ErrorCodeNoCapableAgent)
	}
}

func TestGetTask(t *testing.T) {
	want := completedTask(t, "done")
	srv := rpcTestServer(t, func(method string, req *agenthub.JSONRPCRequest) *agenthub.JSONRPCResponse {
		if method != agenthub.MethodTasksGet {
			t.Errorf("method = %q, want %q", method, agenthub.MethodTasksGet)
		}
		var params agenthub.TaskQueryParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("decoding params: %v", err)
		}
		if params.ID != want.ID || params.HistoryLength != 5 {
			t.Errorf("unexpected params: %+v", params)
		}
		return agenthub.NewSuccessResponse(nil, want)
	})

	c := newTestClient(t, srv.URL)
	got, err := c.GetTask(t.Context(), want.ID, 5)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("task ID = %q, want %q", got.ID, want.ID)
	}
}

func TestCancelTask(t *testing.T) {
	task, err := agenthub.NewTask(agenthub.NewUserTextMessage("hi"))
	if err != nil {
		t.Fatalf("NewTask failed: %v", err)
	}
	task.TransitionTo(agenthub.TaskStateWorking)
	task.TransitionTo(agenthub.TaskStateCanceled)

	srv := rpcTestServer(t, func(method string, req *agenthub.JSONRPCRequest) *agenthub.JSONRPCResponse {
		if method != agenthub.MethodTasksCancel {
			t.Errorf("method = %q, want %q", method, agenthub.MethodTasksCancel)
		}
		return agenthub.NewSuccessResponse(nil, task)
	})

	c := newTestClient(t, srv.URL)
	got, err := c.CancelTask(t.Context(), task.ID)
	if err != nil {
		t.Fatalf("CancelTask failed: %v", err)
	}
	if got.Status.State != agenthub.TaskStateCanceled {
		t.Errorf("state = %s, want canceled", got.Status.State)
	}
}

func TestFetchAgentCard(t *testing.T) {
	card := &agenthub.AgentCard{
		ProtocolVersion: agenthub.ProtocolVersion,
		Name:            "agenthub",
		URL:             "http://example.com/a2a",
		Version:         "0.1.0",
	}

	mux := http.NewServeMux()
	mux.HandleFunc(agenthub.AgentCardWellKnownPath, func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(card)
		if err != nil {
			t.Errorf("marshaling card: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	got, err := c.FetchAgentCard(t.Context())
	if err != nil {
		t.Fatalf("FetchAgentCard failed: %v", err)
	}
	if got.Name != "agenthub" || got.ProtocolVersion != agenthub.ProtocolVersion {
		t.Errorf("unexpected card: %+v", got)
	}
}

func TestFetchAgentCardServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	if _, err := c.FetchAgentCard(t.Context()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestStreamMessage(t *testing.T) {
	frames := []string{
		`event: status` + "\n" + `data: {"kind":"status-update","taskId":"t1","status":{"state":"working","timestamp":"2026-01-01T00:00:00Z"},"final":false}`,
		`event: artifact` + "\n" + `data: {"kind":"artifact-update","taskId":"t1","artifact":{"artifactId":"a1","parts":[{"kind":"text","text":"Hello"}]},"append":false,"lastChunk":true}`,
		`event: status` + "\n" + `data: {"kind":"status-update","taskId":"t1","status":{"state":"completed","timestamp":"2026-01-01T00:00:01Z"},"final":true}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(agenthub.StreamPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range frames {
			fmt.Fprintf(w, "%s\n\n", frame)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	events, err := c.StreamMessage(t.Context(), &agenthub.MessageSendParams{
		Message: agenthub.NewUserTextMessage("hi"),
	})
	if err != nil {
		t.Fatalf("StreamMessage failed: %v", err)
	}

	var got []StreamEvent
	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("stream error: %v", ev.Err)
		}
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("received %d events, want 3", len(got))
	}
	if got[0].Status == nil || got[0].Status.Status.State != agenthub.TaskStateWorking {
		t.Errorf("event 0 = %+v, want working status", got[0])
	}
	if got[1].Artifact == nil || got[1].Artifact.Artifact.Text() != "Hello" {
		t.Errorf("event 1 = %+v, want artifact Hello", got[1])
	}
	if got[2].Status == nil || !got[2].Status.Final {
		t.Errorf("event 2 = %+v, want final status", got[2])
	}
}

func TestStreamMessageRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(agenthub.StreamPath, func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(agenthub.NewErrorResponse(nil, agenthub.ErrorCodeInvalidRequest, "bad request"))
		if err != nil {
			t.Errorf("marshaling response: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := c.StreamMessage(t.Context(), &agenthub.MessageSendParams{
		Message: agenthub.NewUserTextMessage("hi"),
	})

	var rpcErr *agenthub.JSONRPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected JSONRPCError, got %v", err)
	}
}
