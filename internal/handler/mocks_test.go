package handler

import (
	"context"
	"sync"
	"time"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/ai"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/queue"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/store"
)

// stubAnalyzer is a hand-rolled ClinicalTextAnalyzer double. Each hook is
// optional; call counters record what the handler actually invoked.
type stubAnalyzer struct {
	extractFn   func(document string) (ai.ExtractionResult, error)
	detectFn    func(meds []string) ([]model.InteractionFinding, error)
	recommendFn func(condition string, meds []string) (ai.Recommendation, error)

	extractCalls   int
	detectCalls    int
	recommendCalls int
}

func (s *stubAnalyzer) ExtractStructuredData(_ context.Context, document string) (ai.ExtractionResult, error) {
	s.extractCalls++
	if s.extractFn != nil {
		return s.extractFn(document)
	}
	return ai.ExtractionResult{Data: map[string]any{}}, nil
}

func (s *stubAnalyzer) DetectInteractions(_ context.Context, meds []string) ([]model.InteractionFinding, error) {
	s.detectCalls++
	if s.detectFn != nil {
		return s.detectFn(meds)
	}
	return nil, nil
}

func (s *stubAnalyzer) RecommendTreatment(_ context.Context, condition string, meds []string) (ai.Recommendation, error) {
	s.recommendCalls++
	if s.recommendFn != nil {
		return s.recommendFn(condition, meds)
	}
	return ai.Recommendation{}, nil
}

// saveCtxSpy wraps a Store and records the context state seen by
// CreateInteractionCheck so tests can assert how much of the store
// budget was left when the write started.
type saveCtxSpy struct {
	store.Store
	saveDeadline time.Time
	saveCtxErr   error
}

func (s *saveCtxSpy) CreateInteractionCheck(ctx context.Context, in model.NewInteractionCheck) (model.InteractionCheck, error) {
	s.saveDeadline, _ = ctx.Deadline()
	s.saveCtxErr = ctx.Err()
	return s.Store.CreateInteractionCheck(ctx, in)
}

// recordingPublisher captures audit events instead of dialing a broker.
type recordingPublisher struct {
	mu       sync.Mutex
	patients []queue.PatientCreatedEvent
	checks   []queue.InteractionCheckedEvent
}

func (r *recordingPublisher) PatientCreated(_ context.Context, ev queue.PatientCreatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients = append(r.patients, ev)
	return nil
}

func (r *recordingPublisher) InteractionChecked(_ context.Context, ev queue.InteractionCheckedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, ev)
	return nil
}
