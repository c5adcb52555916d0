// Copyright 2025 The Go A2A Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package agenthub

// HTTP path constants for the A2A surface.
const (
	// AgentCardWellKnownPath is the standard path for retrieving the
	// aggregated AgentCard of this hub.
	//
	// Example usage: https://hub.example.com/.well-known/agent.json
	AgentCardWellKnownPath = "/.well-known/agent.json"

	// RPCPath is the path handling JSON-RPC POST requests for the blocking
	// methods (message/send, tasks/get, tasks/cancel).
	RPCPath = "/a2a"

	// StreamPath is the path handling message/stream requests answered with
	// a Server-Sent Events response.
	StreamPath = "/a2a/stream"

	// HealthPath reports liveness of the hub and its registered adapters.
	HealthPath = "/health"
)
