// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog maintains the registry of agents exposed by the hub. Each
// entry pairs an immutable descriptor (identity, skills, capabilities) with
// the adapter that executes work for that agent.
package catalog

import (
	"fmt"
	"iter"
	"sync"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/adapter"
)

// Descriptor describes one registered agent. Descriptors are immutable once
// registered; re-registration under the same ID is an error.
type Descriptor struct {
	// ID uniquely identifies the agent within the catalog.
	ID string
	// Name is the human-readable agent name.
	Name string
	// Description summarizes what the agent does.
	Description string
	// Skills the agent advertises. Their tags form the routing vocabulary.
	Skills []agenthub.AgentSkill
	// Capabilities declares protocol feature support.
	Capabilities agenthub.AgentCapabilities
	// Adapter executes tasks routed to this agent.
	Adapter adapter.Adapter
}

// Validate ensures the Descriptor is valid.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("descriptor ID cannot be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("descriptor name cannot be empty")
	}
	if d.Adapter == nil {
		return fmt.Errorf("descriptor adapter cannot be nil")
	}
	for i, skill := range d.Skills {
		if err := skill.Validate(); err != nil {
			return fmt.Errorf("descriptor skill at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// SkillTags returns the deduplicated union of all skill tags, preserving
// first-seen order.
func (d *Descriptor) SkillTags() []string {
	var tags []string
	seen := make(map[string]bool)
	for _, skill := range d.Skills {
		for _, tag := range skill.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// CoversTags reports whether the descriptor's skill tags are a superset of
// the required tags. An empty requirement is covered by every descriptor.
func (d *Descriptor) CoversTags(required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]bool)
	for _, skill := range d.Skills {
		for _, tag := range skill.Tags {
			have[tag] = true
		}
	}
	for _, tag := range required {
		if !have[tag] {
			return false
		}
	}
	return true
}

// Catalog is a concurrency-safe agent registry. Reads vastly outnumber
// writes: registration happens at startup, lookups on every routed task.
type Catalog struct {
	mu      sync.RWMutex
	byID    map[string]*Descriptor
	ordered []*Descriptor
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID: make(map[string]*Descriptor),
	}
}

// Register adds an agent to the catalog. It returns a DuplicateAgentError
// if the descriptor's ID is already registered.
func (c *Catalog) Register(desc *Descriptor) error {
	if desc == nil {
		return fmt.Errorf("descriptor cannot be nil")
	}
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[desc.ID]; exists {
		return &agenthub.DuplicateAgentError{AgentID: desc.ID}
	}
	c.byID[desc.ID] = desc
	c.ordered = append(c.ordered, desc)
	return nil
}

// Get returns the descriptor registered under id, or an UnknownAgentError.
func (c *Catalog) Get(id string) (*Descriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	desc, ok := c.byID[id]
	if !ok {
		return nil, &agenthub.UnknownAgentError{AgentID: id}
	}
	return desc, nil
}

// List returns the registered descriptors in registration order. The
// sequence is restartable; iteration works over a snapshot so registrations
// during iteration are not observed.
func (c *Catalog) List() iter.Seq[*Descriptor] {
	return func(yield func(*Descriptor) bool) {
		c.mu.RLock()
		snapshot := make([]*Descriptor, len(c.ordered))
		copy(snapshot, c.ordered)
		c.mu.RUnlock()

		for _, desc := range snapshot {
			if !yield(desc) {
				return
			}
		}
	}
}

// Len returns the number of registered agents.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}

// Tags returns the deduplicated union of every registered agent's skill
// tags, preserving first-seen order across agents.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var tags []string
	seen := make(map[string]bool)
	for _, desc := range c.ordered {
		for _, tag := range desc.SkillTags() {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
