// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the hub's task orchestration core and its A2A
// HTTP surface: the task manager driving adapter executions through the
// task lifecycle, the JSON-RPC dispatcher, SSE streaming and the agent
// card endpoint.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/adapter"
	"github.com/go-a2a/agenthub/catalog"
	"github.com/go-a2a/agenthub/router"
	"github.com/go-a2a/agenthub/server/event"
	"github.com/go-a2a/agenthub/server/task"
)

// DefaultRetention is how long terminal tasks stay queryable before the
// sweeper evicts them.
const DefaultRetention = time.Hour

// entry is the managed state of one task. The entry mutex serializes every
// mutation of the task and every event publication for it; no manager-wide
// lock is held during task work, so tasks never contend with each other.
type entry struct {
	mu   sync.Mutex
	task *agenthub.Task
	log  *event.Log

	// cancelExec stops the running execution goroutine, nil while no
	// execution is in flight.
	cancelExec context.CancelFunc

	// resting is closed when the task reaches a terminal state or pauses
	// in input-required; Continue replaces it before resuming work.
	resting chan struct{}

	// terminalAt is set when the task enters a terminal state, for
	// retention sweeping.
	terminalAt time.Time
}

// restingLocked marks the task resting. Callers must hold e.mu.
func (e *entry) restingLocked() {
	select {
	case <-e.resting:
	default:
		close(e.resting)
	}
}

// Manager owns the full task lifecycle: it routes incoming messages to
// agents, drives adapter executions, records history and artifacts, and
// fans lifecycle events out to subscribers.
type Manager struct {
	router    *router.Router
	store     task.Store
	logger    *slog.Logger
	tracer    trace.Tracer
	retention time.Duration

	mu      sync.RWMutex
	entries map[string]*entry
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the [*slog.Logger] for the Manager.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithManagerTracer sets the [trace.Tracer] for the Manager.
func WithManagerTracer(tracer trace.Tracer) ManagerOption {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithStore sets the task store. The default is an in-memory store.
func WithStore(store task.Store) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// WithRetention sets how long terminal tasks stay queryable before
// eviction.
func WithRetention(retention time.Duration) ManagerOption {
	return func(m *Manager) {
		m.retention = retention
	}
}

// NewManager creates a Manager routing through the given router.
func NewManager(r *router.Router, opts ...ManagerOption) *Manager {
	m := &Manager{
		router:    r,
		store:     task.NewInMemoryStore(),
		logger:    slog.Default(),
		tracer:    otel.GetTracerProvider().Tracer("github.com/go-a2a/agenthub/server"),
		retention: DefaultRetention,
		entries:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TaskHandle is a reference to a managed task.
type TaskHandle struct {
	id string
	m  *Manager
}

// ID returns the task ID.
func (h *TaskHandle) ID() string {
	return h.id
}

// Task returns a snapshot of the task.
func (h *TaskHandle) Task(ctx context.Context) (*agenthub.Task, error) {
	return h.m.Get(ctx, h.id)
}

// Events subscribes to the task's lifecycle events from now on.
func (h *TaskHandle) Events(ctx context.Context) (<-chan event.Event, error) {
	return h.m.Subscribe(ctx, h.id)
}

// Wait blocks until the task reaches a terminal state or pauses in
// input-required, then returns a snapshot.
func (h *TaskHandle) Wait(ctx context.Context) (*agenthub.Task, error) {
	for {
		e, err := h.m.entry(h.id)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		state := e.task.Status.State
		resting := e.resting
		e.mu.Unlock()

		if state.IsTerminal() || state == agenthub.TaskStateInputRequired {
			return h.m.Get(ctx, h.id)
		}

		select {
		case <-resting:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (m *Manager) entry(taskID string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[taskID]
	if !ok {
		return nil, &agenthub.TaskNotFoundError{TaskID: taskID}
	}
	return e, nil
}

// Submit routes a message into the task lifecycle. A message referencing a
// known task continues it from input-required; anything else creates a new
// task. A routing failure does not surface as an error: the returned
// handle refers to a task already in the failed state.
func (m *Manager) Submit(ctx context.Context, params *agenthub.MessageSendParams) (*TaskHandle, error) {
	handle, _, err := m.submit(ctx, params, false)
	return handle, err
}

// SubmitStream is Submit plus a subscription opened before execution
// starts, so the caller observes every event the submission produces.
func (m *Manager) SubmitStream(ctx context.Context, params *agenthub.MessageSendParams) (*TaskHandle, <-chan event.Event, error) {
	return m.submit(ctx, params, true)
}

func (m *Manager) submit(ctx context.Context, params *agenthub.MessageSendParams, subscribe bool) (*TaskHandle, <-chan event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "agenthub.manager.Submit")
	defer span.End()

	if params == nil {
		return nil, nil, errors.New("params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	if params.Message.TaskID != "" {
		if _, err := m.entry(params.Message.TaskID); err == nil {
			return m.continueTask(ctx, params.Message.TaskID, params.Message, subscribe)
		}
	}
	return m.create(ctx, params, subscribe)
}

func (m *Manager) create(ctx context.Context, params *agenthub.MessageSendParams, subscribe bool) (*TaskHandle, <-chan event.Event, error) {
	t, err := agenthub.NewTask(params.Message)
	if err != nil {
		return nil, nil, err
	}

	e := &entry{
		task:    t,
		log:     event.NewLog(),
		resting: make(chan struct{}),
	}

	m.mu.Lock()
	if _, exists := m.entries[t.ID]; exists {
		m.mu.Unlock()
		return nil, nil, &agenthub.InvalidTaskStateError{
			TaskID: t.ID,
			State:  agenthub.TaskStateSubmitted,
			Want:   agenthub.TaskStateInputRequired,
		}
	}
	m.entries[t.ID] = e
	m.mu.Unlock()

	var events <-chan event.Event
	if subscribe {
		events = e.log.Subscribe(ctx)
	}

	cfg := params.Configuration
	if cfg == nil {
		cfg = &agenthub.MessageSendConfiguration{}
	}

	desc, err := m.router.Select(ctx, router.Requirements{
		SkillTags: cfg.RequiredSkills,
		AgentID:   cfg.AgentID,
	})
	if err != nil {
		// Routing failures fold into the task lifecycle instead of
		// surfacing as call errors: the handle points at a failed task.
		m.logger.WarnContext(ctx, "routing failed",
			slog.String("task_id", t.ID), slog.Any("error", err))
		e.mu.Lock()
		m.failLocked(e, agenthub.ErrorKindNoCapableAgent, err.Error())
		e.mu.Unlock()
		return &TaskHandle{id: t.ID, m: m}, events, nil
	}

	e.mu.Lock()
	e.task.AgentID = desc.ID
	m.transitionLocked(e, agenthub.TaskStateWorking, nil)
	e.mu.Unlock()

	m.logger.InfoContext(ctx, "task routed",
		slog.String("task_id", t.ID),
		slog.String("agent", desc.ID),
		slog.String("state", string(agenthub.TaskStateWorking)))

	m.startExecution(e, desc, params.Message.Text(), nil, cfg)

	return &TaskHandle{id: t.ID, m: m}, events, nil
}

// Continue resumes a task paused in input-required with a new user
// message. The message lands in the history before any further event is
// published.
func (m *Manager) Continue(ctx context.Context, taskID string, msg *agenthub.Message) (*TaskHandle, error) {
	handle, _, err := m.continueTask(ctx, taskID, msg, false)
	return handle, err
}

func (m *Manager) continueTask(ctx context.Context, taskID string, msg *agenthub.Message, subscribe bool) (*TaskHandle, <-chan event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "agenthub.manager.Continue",
		trace.WithAttributes(attribute.String("a2a.task_id", taskID)))
	defer span.End()

	if msg == nil {
		return nil, nil, errors.New("message cannot be nil")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, err
	}

	e, err := m.entry(taskID)
	if err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	if e.task.Status.State != agenthub.TaskStateInputRequired {
		state := e.task.Status.State
		e.mu.Unlock()
		return nil, nil, &agenthub.InvalidTaskStateError{
			TaskID: taskID,
			State:  state,
			Want:   agenthub.TaskStateInputRequired,
		}
	}

	var events <-chan event.Event
	if subscribe {
		events = e.log.Subscribe(ctx)
	}

	msg.TaskID = e.task.ID
	msg.ContextID = e.task.ContextID
	e.task.History = append(e.task.History, msg)
	e.resting = make(chan struct{})
	m.transitionLocked(e, agenthub.TaskStateWorking, nil)
	history := make([]*agenthub.Message, len(e.task.History)-1)
	copy(history, e.task.History[:len(e.task.History)-1])
	agentID := e.task.AgentID
	e.mu.Unlock()

	desc, err := m.router.Catalog().Get(agentID)
	if err != nil {
		e.mu.Lock()
		m.failLocked(e, agenthub.ErrorKindExecution, err.Error())
		e.mu.Unlock()
		return &TaskHandle{id: taskID, m: m}, events, nil
	}

	m.logger.InfoContext(ctx, "task resumed",
		slog.String("task_id", taskID), slog.String("agent", agentID))

	m.startExecution(e, desc, msg.Text(), history, &agenthub.MessageSendConfiguration{})

	return &TaskHandle{id: taskID, m: m}, events, nil
}

// Get returns a deep snapshot of a task.
func (m *Manager) Get(ctx context.Context, taskID string) (*agenthub.Task, error) {
	_, span := m.tracer.Start(ctx, "agenthub.manager.Get",
		trace.WithAttributes(attribute.String("a2a.task_id", taskID)))
	defer span.End()

	e, err := m.entry(taskID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.task.Clone(), nil
}

// Cancel requests cancellation of a task. Canceling a task already in a
// terminal state is a no-op returning the task unchanged. A running
// execution is interrupted; its late results are discarded.
func (m *Manager) Cancel(ctx context.Context, taskID string) (*agenthub.Task, error) {
	_, span := m.tracer.Start(ctx, "agenthub.manager.Cancel",
		trace.WithAttributes(attribute.String("a2a.task_id", taskID)))
	defer span.End()

	e, err := m.entry(taskID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.task.Status.State.IsTerminal() {
		return e.task.Clone(), nil
	}

	if e.cancelExec != nil {
		e.cancelExec()
		e.cancelExec = nil
	}
	m.transitionLocked(e, agenthub.TaskStateCanceled, nil)

	m.logger.InfoContext(ctx, "task canceled", slog.String("task_id", taskID))
	return e.task.Clone(), nil
}

// Subscribe returns the task's event stream from this moment on. Every
// subscriber gets an independent, ordered, lossless copy. Subscribing to a
// task already in a terminal state yields an immediately closed channel.
func (m *Manager) Subscribe(ctx context.Context, taskID string) (<-chan event.Event, error) {
	e, err := m.entry(taskID)
	if err != nil {
		return nil, err
	}
	return e.log.Subscribe(ctx), nil
}

// transitionLocked applies a state transition, publishes exactly one
// status event for it, and persists the task. msg, when non-nil, becomes
// the agent-facing status message carried by the new status and its event:
// the error text on a failure, the clarification request on a pause for
// input. Callers must hold e.mu. Invalid transitions are returned without
// mutating anything.
func (m *Manager) transitionLocked(e *entry, target agenthub.TaskState, msg *agenthub.Message) error {
	if err := e.task.TransitionTo(target); err != nil {
		return err
	}
	e.task.Status.Message = msg

	ev := event.NewStatusUpdate(e.task)
	if err := e.log.Publish(ev); err != nil {
		m.logger.Warn("publishing status event", slog.String("task_id", e.task.ID), slog.Any("error", err))
	}

	if target.IsTerminal() {
		e.terminalAt = time.Now()
		e.log.Close()
		e.restingLocked()
	} else if target == agenthub.TaskStateInputRequired {
		e.restingLocked()
	}

	if err := m.store.Save(context.Background(), e.task); err != nil {
		m.logger.Warn("persisting task", slog.String("task_id", e.task.ID), slog.Any("error", err))
	}
	return nil
}

// failLocked moves the task to failed with a normalized error detail. The
// failure text rides along as the status message so subscribers learn the
// reason from the event itself. Artifacts produced before the failure stay
// on the task. Callers must hold e.mu.
func (m *Manager) failLocked(e *entry, kind, message string) {
	e.task.Error = &agenthub.ErrorDetail{Kind: kind, Message: message}
	m.transitionLocked(e, agenthub.TaskStateFailed,
		agenthub.NewAgentTextMessage(message, e.task.ID, e.task.ContextID))
}

// pauseForInputLocked pauses the task for more user input. The adapter's
// clarification request, when present, is appended to the history and
// carried on the input-required status so the caller sees the question.
// Callers must hold e.mu.
func (m *Manager) pauseForInputLocked(e *entry, question string) {
	var msg *agenthub.Message
	if question != "" {
		msg = agenthub.NewAgentTextMessage(question, e.task.ID, e.task.ContextID)
		e.task.History = append(e.task.History, msg)
	}
	m.transitionLocked(e, agenthub.TaskStateInputRequired, msg)
}

// completeStreamLocked records the assembled response as an agent turn in
// the history and finishes the task. Callers must hold e.mu.
func (m *Manager) completeStreamLocked(e *entry, artifact *agenthub.Artifact) {
	if artifact != nil {
		e.task.History = append(e.task.History,
			agenthub.NewAgentTextMessage(artifact.Text(), e.task.ID, e.task.ContextID))
	}
	m.transitionLocked(e, agenthub.TaskStateCompleted, nil)
}

// startExecution launches the adapter execution goroutine for a task in
// the working state.
func (m *Manager) startExecution(e *entry, desc *catalog.Descriptor, prompt string, history []*agenthub.Message, cfg *agenthub.MessageSendConfiguration) {
	var execCtx context.Context
	var cancel context.CancelFunc
	if cfg.TimeoutSeconds > 0 {
		execCtx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	} else {
		execCtx, cancel = context.WithCancel(context.Background())
	}

	e.mu.Lock()
	e.cancelExec = cancel
	e.mu.Unlock()

	streaming := desc.Adapter.SupportsStreaming() && !cfg.Blocking
	go func() {
		defer cancel()
		if streaming {
			m.runStreaming(execCtx, e, desc, prompt, history)
		} else {
			m.runBlocking(execCtx, e, desc, prompt, history)
		}
	}()
}

// executionDead reports whether the task already reached a terminal state,
// meaning any late execution result must be discarded. The check and any
// follow-up mutation happen under the same entry lock hold.
func executionDead(e *entry) bool {
	return e.task.Status.State.IsTerminal()
}

// runBlocking executes the adapter's blocking path: one artifact event,
// then a terminal status.
func (m *Manager) runBlocking(ctx context.Context, e *entry, desc *catalog.Descriptor, prompt string, history []*agenthub.Message) {
	result, err := desc.Adapter.Execute(ctx, prompt, history)

	e.mu.Lock()
	defer e.mu.Unlock()

	if executionDead(e) {
		// Canceled while the adapter was running; the late result is
		// discarded.
		return
	}

	if err != nil {
		m.failExecLocked(ctx, e, err)
		return
	}

	if result.InputRequired {
		m.pauseForInputLocked(e, result.Content)
		return
	}

	artifact := &agenthub.Artifact{
		ArtifactID: uuid.NewString(),
		Name:       "response",
		Parts:      []agenthub.Part{agenthub.NewTextPart(result.Content)},
		Metadata:   result.Metadata,
	}
	e.task.Artifacts = append(e.task.Artifacts, artifact)
	m.publishArtifactLocked(e, artifact, false, true)
	e.task.History = append(e.task.History,
		agenthub.NewAgentTextMessage(result.Content, e.task.ID, e.task.ContextID))
	m.transitionLocked(e, agenthub.TaskStateCompleted, nil)
}

// runStreaming executes the adapter's streaming path, growing one artifact
// chunk by chunk.
func (m *Manager) runStreaming(ctx context.Context, e *entry, desc *catalog.Descriptor, prompt string, history []*agenthub.Message) {
	chunks, err := desc.Adapter.ExecuteStream(ctx, prompt, history)
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !executionDead(e) {
			m.failExecLocked(ctx, e, err)
		}
		return
	}

	var artifact *agenthub.Artifact

	for chunk := range chunks {
		e.mu.Lock()
		if executionDead(e) {
			e.mu.Unlock()
			return
		}

		switch {
		case chunk.Kind == adapter.ChunkKindError:
			err := chunk.Err
			if err == nil {
				err = &agenthub.ExecutionError{AgentID: desc.ID, Err: errors.New("adapter reported an error")}
			}
			m.failExecLocked(ctx, e, err)
			e.mu.Unlock()
			return

		case chunk.Kind == adapter.ChunkKindInputRequired:
			m.pauseForInputLocked(e, chunk.Content)
			e.mu.Unlock()
			return

		case chunk.Content != "":
			part := agenthub.NewTextPart(chunk.Content)
			if artifact == nil {
				artifact = &agenthub.Artifact{
					ArtifactID: uuid.NewString(),
					Name:       "response",
					Parts:      []agenthub.Part{part},
				}
				e.task.Artifacts = append(e.task.Artifacts, artifact)
				m.publishArtifactLocked(e, artifact, false, chunk.Final)
			} else {
				artifact.Parts = append(artifact.Parts, part)
				m.publishArtifactLocked(e, artifact, true, chunk.Final)
			}
		}

		if chunk.Final {
			// A final chunk without content publishes no artifact event.
			m.completeStreamLocked(e, artifact)
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
	}

	// Channel closed without a final chunk: treat context expiry as a
	// deadline failure, anything else as a completed stream.
	e.mu.Lock()
	defer e.mu.Unlock()
	if executionDead(e) {
		return
	}
	if ctx.Err() != nil {
		m.failExecLocked(ctx, e, ctx.Err())
		return
	}
	m.completeStreamLocked(e, artifact)
}

// failExecLocked normalizes an execution failure into the task's error
// detail. Deadline expiry is distinguished from other failures. Callers
// must hold e.mu.
func (m *Manager) failExecLocked(ctx context.Context, e *entry, err error) {
	kind := agenthub.ErrorKindExecution
	message := err.Error()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = agenthub.ErrorKindDeadlineExceeded
		message = (&agenthub.DeadlineExceededError{TaskID: e.task.ID}).Error()
	}
	m.logger.Warn("execution failed",
		slog.String("task_id", e.task.ID),
		slog.String("agent", e.task.AgentID),
		slog.String("kind", kind),
		slog.Any("error", err))
	m.failLocked(e, kind, message)
}

// publishArtifactLocked publishes an artifact update carrying a snapshot
// of the artifact. Callers must hold e.mu.
func (m *Manager) publishArtifactLocked(e *entry, artifact *agenthub.Artifact, appendParts, lastChunk bool) {
	snapshot := *artifact
	snapshot.Parts = make([]agenthub.Part, len(artifact.Parts))
	copy(snapshot.Parts, artifact.Parts)

	ev := event.NewArtifactUpdate(e.task, &snapshot, appendParts, lastChunk)
	if err := e.log.Publish(ev); err != nil {
		m.logger.Warn("publishing artifact event", slog.String("task_id", e.task.ID), slog.Any("error", err))
	}
}

// EvictTerminal removes terminal tasks older than the retention window
// from the manager and the store. It returns how many were evicted.
func (m *Manager) EvictTerminal(ctx context.Context) int {
	cutoff := time.Now().Add(-m.retention)

	m.mu.Lock()
	var evict []string
	for id, e := range m.entries {
		e.mu.Lock()
		if e.task.Status.State.IsTerminal() && !e.terminalAt.IsZero() && e.terminalAt.Before(cutoff) {
			evict = append(evict, id)
		}
		e.mu.Unlock()
	}
	for _, id := range evict {
		delete(m.entries, id)
	}
	m.mu.Unlock()

	for _, id := range evict {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("evicting task from store", slog.String("task_id", id), slog.Any("error", err))
		}
	}
	if len(evict) > 0 {
		m.logger.InfoContext(ctx, "evicted terminal tasks", slog.Int("count", len(evict)))
	}
	return len(evict)
}

// StartSweeper runs periodic eviction until ctx is canceled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.retention / 4
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.EvictTerminal(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
