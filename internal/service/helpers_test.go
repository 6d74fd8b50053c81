package service

import (
	"context"
	"sync"
	"testing"

	"digestly-be/internal/dto"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/internal/testutil"
	"digestly-be/pkg/events"

	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []dto.DigestChangedMessage
}

func (p *recordingPublisher) PublishDigestChanged(ctx context.Context, msg dto.DigestChangedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Reason
	}
	return out
}

type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEvents) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	fx        *testutil.Fixtures
	factory   unitofwork.RepositoryFactory
	publisher *recordingPublisher
	events    *recordingEvents
	log       logger.ILogger
}

func newTestEnv(t *testing.T) *testEnv {
	db := testutil.NewTestDB(t)
	return &testEnv{
		db:        db,
		fx:        testutil.NewFixtures(t, db),
		factory:   unitofwork.NewRepositoryFactory(db),
		publisher: &recordingPublisher{},
		events:    &recordingEvents{},
		log:       logger.NewNopLogger(),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
