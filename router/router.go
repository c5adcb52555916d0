// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package router selects which registered agent executes a task. Candidates
// are the catalog entries whose skill tags cover the task's requirements;
// ties are broken by the configured policy.
package router

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/catalog"
)

// Policy names a tie-breaking strategy among capable agents.
type Policy string

// Tie-breaking policies.
const (
	// PolicyFirstRegistered picks the earliest-registered capable agent.
	PolicyFirstRegistered Policy = "first-registered"
	// PolicyRoundRobin rotates through capable agents with a process-wide
	// cursor.
	PolicyRoundRobin Policy = "round-robin"
)

// Validate ensures the Policy is one of the defined strategies.
func (p Policy) Validate() error {
	switch p {
	case PolicyFirstRegistered, PolicyRoundRobin:
		return nil
	default:
		return fmt.Errorf("invalid routing policy: %s", p)
	}
}

// Requirements constrain agent selection for one task.
type Requirements struct {
	// SkillTags the selected agent must cover. Empty means any agent.
	SkillTags []string
	// AgentID pins selection to a specific agent. The pinned agent must
	// still cover the skill tags.
	AgentID string
}

// Router picks an agent from the catalog for each incoming task.
type Router struct {
	catalog *catalog.Catalog
	policy  Policy

	// cursor advances once per round-robin selection, process-wide, so
	// concurrent selections never skip or double-assign an agent.
	cursor atomic.Uint64
}

// Option configures a Router.
type Option func(*Router)

// WithPolicy sets the tie-breaking policy. The default is first-registered.
func WithPolicy(policy Policy) Option {
	return func(r *Router) { r.policy = policy }
}

// New creates a router over the given catalog.
func New(c *catalog.Catalog, opts ...Option) *Router {
	r := &Router{
		catalog: c,
		policy:  PolicyFirstRegistered,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the router selects from, for direct lookups
// that need no selection policy.
func (r *Router) Catalog() *catalog.Catalog {
	return r.catalog
}

// Select returns the agent that should execute a task with the given
// requirements. It returns a NoCapableAgentError when no registered agent
// covers the required skill tags, and an UnknownAgentError when a pinned
// agent does not exist.
func (r *Router) Select(ctx context.Context, req Requirements) (*catalog.Descriptor, error) {
	if req.AgentID != "" {
		desc, err := r.catalog.Get(req.AgentID)
		if err != nil {
			return nil, err
		}
		if !desc.CoversTags(req.SkillTags) {
			return nil, &agenthub.NoCapableAgentError{Tags: req.SkillTags}
		}
		return desc, nil
	}

	var candidates []*catalog.Descriptor
	for desc := range r.catalog.List() {
		if desc.CoversTags(req.SkillTags) {
			candidates = append(candidates, desc)
		}
	}
	if len(candidates) == 0 {
		return nil, &agenthub.NoCapableAgentError{Tags: req.SkillTags}
	}

	switch r.policy {
	case PolicyRoundRobin:
		// Add returns the incremented value; subtract one for the
		// pre-increment index.
		n := r.cursor.Add(1) - 1
		return candidates[n%uint64(len(candidates))], nil
	default:
		return candidates[0], nil
	}
}

// Policy returns the router's tie-breaking policy.
func (r *Router) Policy() Policy {
	return r.policy
}
