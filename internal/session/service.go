// Package session owns each browser's category list and applies transitions to it:
// load, reduce, save, then publish and count.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/hermes"
	"github.com/MikeSquared-Agency/Apportion/internal/metrics"
	"github.com/MikeSquared-Agency/Apportion/internal/store"
)

var ErrNotFound = errors.New("session not found")

// Model is the category list and comparison matrix every new session starts from.
type Model struct {
	Categories []string
	Matrix     ahp.Matrix
	Rescale    bool
}

type Service struct {
	store   store.Store
	hermes  hermes.Client
	metrics *metrics.Metrics
	model   Model
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires a Service. A nil hermes client disables events and a nil metrics
// value records nothing.
func NewService(s store.Store, h hermes.Client, m *metrics.Metrics, model Model, logger *slog.Logger) *Service {
	if h == nil {
		h = hermes.Nop{}
	}
	return &Service{
		store:   s,
		hermes:  h,
		metrics: m,
		model:   model,
		logger:  logger,
		now:     time.Now,
	}
}

// Model returns the configured model.
func (s *Service) Model() Model { return s.model }

// Create starts a session with the model's categories ranked 1..N.
func (s *Service) Create(ctx context.Context) (*store.Session, error) {
	sess := &store.Session{State: budget.NewState(s.model.Categories)}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.metrics.IncSessionCreated()
	s.publish(hermes.SubjectSessionCreated(sess.ID.String()), hermes.SessionCreatedEvent{
		SessionID:  sess.ID.String(),
		Categories: s.model.Categories,
		Timestamp:  s.now().UTC(),
	})
	s.logger.Debug("session created", "session_id", sess.ID)
	return sess, nil
}

// Get returns the session or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Open returns the session for id, creating a fresh one when id is nil or unknown.
func (s *Service) Open(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	if id != uuid.Nil {
		sess, err := s.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return s.Create(ctx)
}

// EditRank sets a category's rank and re-sorts the session's list.
func (s *Service) EditRank(ctx context.Context, id uuid.UUID, name string, rank int) (*store.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldRank := 0
	if i := sess.State.Find(name); i >= 0 {
		oldRank = sess.State.Categories[i].Rank
	}

	next, err := budget.Reduce(sess.State, budget.EditRank{Name: name, Rank: rank})
	if err != nil {
		s.metrics.IncRankEdit(outcome(err))
		return nil, err
	}
	sess.State = next
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		s.metrics.IncRankEdit(metrics.OutcomeError)
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.metrics.IncRankEdit(metrics.OutcomeOK)

	order := make([]string, next.Len())
	for i, c := range next.Categories {
		order[i] = c.Name
	}
	s.publish(hermes.SubjectRankChanged(id.String()), hermes.RankChangedEvent{
		SessionID: id.String(),
		Category:  name,
		OldRank:   oldRank,
		NewRank:   rank,
		Order:     order,
		Timestamp: s.now().UTC(),
	})
	return sess, nil
}

// Calculate attaches weights from the model's matrix to the session's categories.
func (s *Service) Calculate(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := budget.Reduce(sess.State, budget.CalculateWeights{
		Matrix:  s.model.Matrix,
		Rescale: s.model.Rescale,
	})
	if err != nil {
		s.metrics.IncCalculation("session", outcome(err))
		return nil, err
	}
	sess.State = next
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		s.metrics.IncCalculation("session", metrics.OutcomeError)
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.metrics.IncCalculation("session", metrics.OutcomeOK)

	weights := make([]hermes.CategoryWeight, next.Len())
	for i, c := range next.Categories {
		weights[i] = hermes.CategoryWeight{Name: c.Name, Rank: c.Rank, Weight: *c.Weight}
	}
	s.publish(hermes.SubjectWeightsCalculated(id.String()), hermes.WeightsCalculatedEvent{
		SessionID: id.String(),
		Rescaled:  s.model.Rescale,
		Weights:   weights,
		Timestamp: s.now().UTC(),
	})
	return sess, nil
}

// ComputeResult is the outcome of a stateless calculation.
type ComputeResult struct {
	Weights []float64 `json:"weights"`
	Raw     []float64 `json:"raw"`
	Sum     float64   `json:"sum"`
}

// Compute runs the calculator on an arbitrary matrix without touching any session.
func (s *Service) Compute(m ahp.Matrix) (*ComputeResult, error) {
	raw, err := ahp.OnePass(m)
	if err != nil {
		s.metrics.IncCalculation("compute", outcome(err))
		return nil, err
	}
	weights := ahp.Rescale(raw)
	if err := ahp.Validate(weights); err != nil {
		s.metrics.IncCalculation("compute", metrics.OutcomeError)
		return nil, fmt.Errorf("compute: %w", err)
	}
	s.metrics.IncCalculation("compute", metrics.OutcomeOK)
	return &ComputeResult{Weights: weights, Raw: raw, Sum: ahp.Sum(weights)}, nil
}

func (s *Service) publish(subject string, event interface{}) {
	if err := s.hermes.Publish(subject, event); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// IsInvalid reports whether err comes from bad input rather than a failure.
func IsInvalid(err error) bool {
	for _, target := range []error{
		budget.ErrUnknownCategory, budget.ErrRankOutOfRange, budget.ErrDimensionMismatch,
		ahp.ErrEmpty, ahp.ErrNonSquare, ahp.ErrNaNInf, ahp.ErrZeroRowSum, ahp.ErrNonPositive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	if IsInvalid(err) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
