// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/go-a2a/agenthub"
)

// maxRequestBody bounds JSON-RPC request bodies.
const maxRequestBody = 4 * 1024 * 1024

// Handler dispatches A2A JSON-RPC requests to the task manager.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates a Handler over the given manager.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// decodeRequest reads and validates a JSON-RPC envelope from the body.
func decodeRequest(r *http.Request) (*agenthub.JSONRPCRequest, *agenthub.JSONRPCError) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, &agenthub.JSONRPCError{Code: agenthub.ErrorCodeInvalidRequest, Message: "cannot read request body"}
	}

	var req agenthub.JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &agenthub.JSONRPCError{Code: agenthub.ErrorCodeParse, Message: "invalid JSON payload"}
	}
	if err := req.Validate(); err != nil {
		return nil, &agenthub.JSONRPCError{Code: agenthub.ErrorCodeInvalidRequest, Message: err.Error()}
	}
	return &req, nil
}

// decodeParams decodes request params into the method's parameter type.
func decodeParams(req *agenthub.JSONRPCRequest, v interface{ Validate() error }) *agenthub.JSONRPCError {
	if len(req.Params) == 0 {
		return &agenthub.JSONRPCError{Code: agenthub.ErrorCodeInvalidParams, Message: "params are required"}
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		return &agenthub.JSONRPCError{Code: agenthub.ErrorCodeInvalidParams, Message: err.Error()}
	}
	if err := v.Validate(); err != nil {
		return &agenthub.JSONRPCError{Code: agenthub.ErrorCodeInvalidParams, Message: err.Error()}
	}
	return nil
}

// errorCode maps a dispatch error to its JSON-RPC code.
func errorCode(err error) int {
	var coded agenthub.CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return agenthub.ErrorCodeInternal
}

func (h *Handler) writeResponse(w http.ResponseWriter, resp *agenthub.JSONRPCResponse) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("marshaling response", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

func (h *Handler) writeError(w http.ResponseWriter, id jsontext.Value, code int, message string) {
	h.writeResponse(w, agenthub.NewErrorResponse(id, code, message))
}

// ServeHTTP handles the blocking JSON-RPC endpoint: message/send,
// tasks/get and tasks/cancel.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, rpcErr := decodeRequest(r)
	if rpcErr != nil {
		h.writeResponse(w, &agenthub.JSONRPCResponse{JSONRPC: agenthub.JSONRPCVersion, Error: rpcErr})
		return
	}

	switch req.Method {
	case agenthub.MethodMessageSend:
		h.handleMessageSend(w, r, req)
	case agenthub.MethodTasksGet:
		h.handleTasksGet(w, r, req)
	case agenthub.MethodTasksCancel:
		h.handleTasksCancel(w, r, req)
	case agenthub.MethodMessageStream:
		h.writeError(w, req.ID, agenthub.ErrorCodeInvalidRequest,
			fmt.Sprintf("%s must be sent to %s", agenthub.MethodMessageStream, agenthub.StreamPath))
	default:
		h.writeError(w, req.ID, agenthub.ErrorCodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method))
	}
}

// handleMessageSend submits the message and blocks until the task reaches
// a terminal state or pauses for input, then returns the snapshot.
func (h *Handler) handleMessageSend(w http.ResponseWriter, r *http.Request, req *agenthub.JSONRPCRequest) {
	var params agenthub.MessageSendParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		h.writeResponse(w, &agenthub.JSONRPCResponse{JSONRPC: agenthub.JSONRPCVersion, ID: req.ID, Error: rpcErr})
		return
	}

	handle, err := h.manager.Submit(r.Context(), &params)
	if err != nil {
		h.writeError(w, req.ID, errorCode(err), err.Error())
		return
	}

	snapshot, err := handle.Wait(r.Context())
	if err != nil {
		h.writeError(w, req.ID, errorCode(err), err.Error())
		return
	}
	h.writeResponse(w, agenthub.NewSuccessResponse(req.ID, snapshot))
}

func (h *Handler) handleTasksGet(w http.ResponseWriter, r *http.Request, req *agenthub.JSONRPCRequest) {
	var params agenthub.TaskQueryParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		h.writeResponse(w, &agenthub.JSONRPCResponse{JSONRPC: agenthub.JSONRPCVersion, ID: req.ID, Error: rpcErr})
		return
	}

	snapshot, err := h.manager.Get(r.Context(), params.ID)
	if err != nil {
		h.writeError(w, req.ID, errorCode(err), err.Error())
		return
	}

	// A positive historyLength trims the history to its most recent
	// entries.
	if params.HistoryLength > 0 && len(snapshot.History) > params.HistoryLength {
		snapshot.History = snapshot.History[len(snapshot.History)-params.HistoryLength:]
	}
	h.writeResponse(w, agenthub.NewSuccessResponse(req.ID, snapshot))
}

func (h *Handler) handleTasksCancel(w http.ResponseWriter, r *http.Request, req *agenthub.JSONRPCRequest) {
	var params agenthub.TaskIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		h.writeResponse(w, &agenthub.JSONRPCResponse{JSONRPC: agenthub.JSONRPCVersion, ID: req.ID, Error: rpcErr})
		return
	}

	snapshot, err := h.manager.Cancel(r.Context(), params.ID)
	if err != nil {
		h.writeError(w, req.ID, errorCode(err), err.Error())
		return
	}
	h.writeResponse(w, agenthub.NewSuccessResponse(req.ID, snapshot))
}

// ServeStream handles the message/stream endpoint, answering with an SSE
// stream of the task's events.
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, rpcErr := decodeRequest(r)
	if rpcErr != nil {
		h.writeResponse(w, &agenthub.JSONRPCResponse{JSONRPC: agenthub.JSONRPCVersion, Error: rpcErr})
		return
	}
	if req.Method != agenthub.MethodMessageStream {
		h.writeError(w, req.ID, agenthub.ErrorCodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method))
		return
	}

	var params agenthub.MessageSendParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		h.writeResponse(w, &agenthub.JSONRPCResponse{JSONRPC: agenthub.JSONRPCVersion, ID: req.ID, Error: rpcErr})
		return
	}

	_, events, err := h.manager.SubmitStream(r.Context(), &params)
	if err != nil {
		h.writeError(w, req.ID, errorCode(err), err.Error())
		return
	}

	stream := NewStream(w)
	if stream == nil {
		h.writeError(w, req.ID, agenthub.ErrorCodeInternal, "streaming unsupported by connection")
		return
	}

	for ev := range events {
		if err := stream.Send(ev); err != nil {
			h.logger.Warn("writing SSE event", slog.Any("error", err))
			return
		}
	}
}
