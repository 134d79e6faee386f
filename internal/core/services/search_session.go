package services

import (
	"context"
	"log/slog"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driving"
)

var _ driving.SearchSession = (*searchSession)(nil)

// searchSession wires the dispatcher, aggregator and ledger into the
// driving port for the comparison flow
type searchSession struct {
	dispatcher *QueryDispatcher
	agg        *ResultAggregator
	ledger     *ConversationLedger
}

// NewSearchSession creates a comparison session over the given backend
func NewSearchSession(backend driven.SearchBackend, logger *slog.Logger) driving.SearchSession {
	agg := NewResultAggregator()
	ledger := NewConversationLedger()
	return &searchSession{
		dispatcher: NewQueryDispatcher(backend, agg, ledger, logger),
		agg:        agg,
		ledger:     ledger,
	}
}

func (s *searchSession) SubmitText(ctx context.Context, query string) (*domain.ConversationEntry, error) {
	return s.dispatcher.DispatchText(ctx, query)
}

func (s *searchSession) SubmitAudio(ctx context.Context, audio []byte, ref string) (*domain.ConversationEntry, error) {
	return s.dispatcher.DispatchAudio(ctx, audio, ref)
}

func (s *searchSession) SubmitImage(ctx context.Context, image []byte, ref string) (*domain.ConversationEntry, error) {
	return s.dispatcher.DispatchImage(ctx, image, ref)
}

func (s *searchSession) Results() map[domain.Method]domain.PerMethodResult {
	return s.agg.Results()
}

func (s *searchSession) QueryMetadata() domain.QueryMetadata {
	return s.agg.Metadata()
}

func (s *searchSession) IsBusy() bool {
	return s.agg.IsBusy()
}

func (s *searchSession) History() []*domain.ConversationEntry {
	return s.ledger.Entries()
}

func (s *searchSession) RefinedQuery() string {
	return s.ledger.RefinedQuery()
}

func (s *searchSession) ClearConversation() {
	s.ledger.Clear()
}

func (s *searchSession) Wait() {
	s.dispatcher.Wait()
}
