// SPDX-License-Identifier: MIT

package knockout

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/katalvlaran/knockout/model"
)

// Session is the state of one interactive knockout run: a pristine snapshot
// for resets, the live model that clicks mutate, and the ordered knockout set.
//
// A Session is not safe for concurrent use; it belongs to the goroutine that
// processes the click stream.
type Session struct {
	pristine  *model.Model
	live      *model.Model
	knockouts []string
	render    Renderer
	opts      Options
	last      Payload
}

// NewSession snapshots m (deep copy; m itself is never mutated) and binds the
// renderer. A nil renderer discards output. Call Start before Click.
func NewSession(m *model.Model, r Renderer, opts ...Option) (*Session, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if r == nil {
		r = nopRenderer{}
	}

	return &Session{
		pristine: m.Clone(),
		render:   r,
		opts:     gatherOptions(opts...),
	}, nil
}

// Start replaces the live model with a fresh copy of the snapshot, opens the
// carbon source, clears the knockouts and runs a cycle. If the carbon source
// cannot be opened the session keeps its previous state, so an unstarted
// session stays unstarted.
func (s *Session) Start(ctx context.Context) (Payload, error) {
	live := s.pristine.Clone()
	if id, uptake := s.opts.CarbonSource(); id != "" {
		if err := live.SetCarbonSource(id, uptake); err != nil {
			return s.abort(fmt.Errorf("knockout: Start: %w", err))
		}
	}
	s.live = live
	s.knockouts = nil
	s.opts.log.Info("session started", zap.String("model", s.pristine.ID))

	return s.cycle(ctx)
}

// Reset discards every knockout; it is Start on an already started session.
func (s *Session) Reset(ctx context.Context) (Payload, error) {
	s.opts.log.Info("session reset", zap.Strings("knockouts", s.knockouts))
	return s.Start(ctx)
}

// Click knocks out reaction id and re-runs the cycle. Knocking out a reaction
// twice keeps a single entry in the knockout set.
//
// Errors: ErrNotStarted, model.ErrUnknownReaction, or any cycle failure. An
// unknown reaction changes nothing; a failed cycle keeps the knockout applied.
func (s *Session) Click(ctx context.Context, id string) (Payload, error) {
	if s.live == nil {
		return s.abort(ErrNotStarted)
	}
	if err := s.live.KnockOut(id); err != nil {
		return s.abort(fmt.Errorf("knockout: Click: %w", err))
	}
	if !slices.Contains(s.knockouts, id) {
		s.knockouts = append(s.knockouts, id)
	}
	s.opts.log.Info("click", zap.String("reaction", id))

	return s.cycle(ctx)
}

// Knockouts returns a copy of the knockout set in click order.
func (s *Session) Knockouts() []string { return slices.Clone(s.knockouts) }

// Model returns the live model; nil before Start. Callers must not mutate it.
func (s *Session) Model() *model.Model { return s.live }

// Last returns the payload of the last successful cycle.
func (s *Session) Last() Payload { return s.last }

func (s *Session) cycle(ctx context.Context) (Payload, error) {
	p, err := s.opts.evaluate(ctx, s.live, s.knockouts, s.opts.solver)
	if err != nil {
		return s.abort(err)
	}
	s.last = p
	s.render.SetReactionData(p.Fluxes)
	s.render.SetStatus(p.Status)

	return p, nil
}

// abort reports err on the status channel with the data cleared.
func (s *Session) abort(err error) (Payload, error) {
	s.opts.log.Warn("cycle aborted", zap.Error(err))
	s.render.SetReactionData(nil)
	s.render.SetStatus(errorStatus(err))

	return Payload{}, err
}
