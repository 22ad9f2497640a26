package matching

import (
	"context"
	"fmt"
)

// Service is the API-facing surface of the engine. It composes the
// resolver, scorer and ranker over a single store.
type Service interface {
	Browse(ctx context.Context, viewerID int64, filters BrowseFilters, sortBy SortKey) ([]*ScoredCandidate, error)
	Status(ctx context.Context, viewerID, targetID int64) (*ConnectionStatus, error)
	Like(ctx context.Context, actorID, targetID int64) (matched bool, err error)
	Unlike(ctx context.Context, actorID, targetID int64) error
	Block(ctx context.Context, actorID, targetID int64) error
	Unblock(ctx context.Context, actorID, targetID int64) error
	Compatibility(ctx context.Context, viewerID, targetID int64) (*CompatibilityReport, error)
	LikesReceived(ctx context.Context, userID int64) (int64, error)
}

// CompatibilityReport explains how a candidate relates to the viewer.
type CompatibilityReport struct {
	TargetID   int64          `json:"target_id"`
	Compatible bool           `json:"compatible"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Status     string         `json:"status"`
}

type service struct {
	store    Store
	resolver *Resolver
	scorer   *Scorer
	ranker   *Ranker

	candidateLimit int
}

func NewService(store Store, resolver *Resolver, scorer *Scorer, candidateLimit int) Service {
	return &service{
		store:          store,
		resolver:       resolver,
		scorer:         scorer,
		ranker:         NewRanker(scorer),
		candidateLimit: candidateLimit,
	}
}

// Browse loads candidates, filters them for the viewer and returns them
// ranked. Only mutually compatible profiles are suggested.
func (s *service) Browse(ctx context.Context, viewerID int64, filters BrowseFilters, sortBy SortKey) ([]*ScoredCandidate, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	viewer, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	candidates, err := s.store.FindCandidates(ctx, viewerID, s.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	blocked, err := s.store.BlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	return s.ranker.Rank(viewer, candidates, filters, blocked, sortBy, true), nil
}

func (s *service) Status(ctx context.Context, viewerID, targetID int64) (*ConnectionStatus, error) {
	return s.resolver.Resolve(ctx, viewerID, targetID)
}

func (s *service) Like(ctx context.Context, actorID, targetID int64) (bool, error) {
	return s.resolver.Like(ctx, actorID, targetID)
}

func (s *service) Unlike(ctx context.Context, actorID, targetID int64) error {
	return s.resolver.Unlike(ctx, actorID, targetID)
}

func (s *service) Block(ctx context.Context, actorID, targetID int64) error {
	return s.resolver.Block(ctx, actorID, targetID)
}

func (s *service) Unblock(ctx context.Context, actorID, targetID int64) error {
	return s.resolver.Unblock(ctx, actorID, targetID)
}

// Compatibility resolves the connection status first, so the block gate
// applies before any profile detail leaks into the breakdown.
func (s *service) Compatibility(ctx context.Context, viewerID, targetID int64) (*CompatibilityReport, error) {
	status, err := s.resolver.Resolve(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}

	viewer, err := s.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}
	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}

	return &CompatibilityReport{
		TargetID:   targetID,
		Compatible: IsCompatible(viewer, target),
		Breakdown:  s.scorer.Breakdown(viewer, target),
		Status:     status.State(),
	}, nil
}

func (s *service) LikesReceived(ctx context.Context, userID int64) (int64, error) {
	return s.resolver.LikesReceived(ctx, userID)
}
