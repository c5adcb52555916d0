// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/catalog"
)

// CardBuilder assembles the hub's AgentCard from the agents registered in
// the catalog. The card advertises the union of all agent skills; callers
// target a specific agent through skill tags or an explicit agent ID.
type CardBuilder struct {
	Name        string
	Description string
	URL         string
	Version     string
	Provider    *agenthub.AgentProvider
}

// Build produces the aggregated card for the current catalog contents.
func (b *CardBuilder) Build(c *catalog.Catalog) *agenthub.AgentCard {
	card := &agenthub.AgentCard{
		ProtocolVersion: agenthub.ProtocolVersion,
		Name:            b.Name,
		Description:     b.Description,
		URL:             b.URL,
		Version:         b.Version,
		Provider:        b.Provider,
		Capabilities: agenthub.AgentCapabilities{
			Streaming: true,
		},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
	}
	for desc := range c.List() {
		card.Skills = append(card.Skills, desc.Skills...)
	}
	return card
}

// cardHandler serves the card at the well-known discovery path. The card
// is rebuilt per request so late registrations are reflected.
func cardHandler(b *CardBuilder, c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		data, err := json.Marshal(b.Build(c))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
