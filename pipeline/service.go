package pipeline

import (
	"context"
	"log/slog"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

// Runner is the minimal interface the query Service needs from the
// compiled graph engine, letting tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, state *State) error
}

// Service runs one query through the compiled node graph and shapes the
// result into the persisted QueryRecord.
type Service struct {
	engine Runner
	logger *slog.Logger
}

func NewService(engine Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, logger: logger}
}

// Answer is what the API layer returns for one question.
type Answer struct {
	Answer           string
	Action           domain.Action
	Confidence       float64
	Sources          []domain.SourceRef
	DialogState      domain.DialogState
	EscalationReason string
	Telemetry        domain.Telemetry
}

// Ask runs the graph for one question and returns the shaped Answer plus
// the record the API layer persists for telemetry and the cache.
func (s *Service) Ask(ctx context.Context, userID, sessionID, question, language string, dialogState domain.DialogState) (Answer, State, error) {
	state := &State{
		UserID:      userID,
		SessionID:   sessionID,
		Question:    question,
		Language:    language,
		DialogState: dialogState,
	}

	if err := s.engine.Run(ctx, state); err != nil {
		return Answer{}, *state, err
	}

	return Answer{
		Answer:           state.Answer,
		Action:           state.Action,
		Confidence:       state.Confidence,
		Sources:          state.Sources,
		DialogState:      state.DialogState,
		EscalationReason: state.EscalationReason,
		Telemetry:        state.Telemetry,
	}, *state, nil
}
