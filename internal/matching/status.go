package matching

import (
	"context"
	"fmt"
)

// Connection states exposed to clients.
const (
	StatusNone      = "NONE"
	StatusLiked     = "LIKED"
	StatusLikedBack = "LIKED_BACK"
	StatusMatched   = "MATCHED"
	StatusBlocked   = "BLOCKED"
)

// State returns the connection state name. Blocked is resolved before
// this point; a ConnectionStatus only exists for visible pairs.
func (s *ConnectionStatus) State() string {
	switch {
	case s.Matched:
		return StatusMatched
	case s.Liked:
		return StatusLiked
	case s.LikedBack:
		return StatusLikedBack
	default:
		return StatusNone
	}
}

// Resolver answers connection-status questions and applies like, unlike
// and block operations. A match is never stored; it is derived from the
// two like edges on every read, so removing either edge dissolves it
// with no extra bookkeeping.
type Resolver struct {
	store   Store
	sink    NotificationSink
	counter *LikeCounter
}

// NewResolver wires a resolver. sink may be nil to drop events; counter
// may be nil to skip the like-received cache.
func NewResolver(store Store, sink NotificationSink, counter *LikeCounter) *Resolver {
	if sink == nil {
		sink = NopSink{}
	}
	return &Resolver{store: store, sink: sink, counter: counter}
}

// Resolve computes the connection status between viewer and target. The
// block gate is absolute: if either side blocks the other, a
// BlockedError is returned and no like edges are consulted.
func (r *Resolver) Resolve(ctx context.Context, viewerID, targetID int64) (*ConnectionStatus, error) {
	if viewerID == targetID {
		return nil, &ValidationError{Field: "target_id", Reason: "cannot resolve status with yourself"}
	}
	if err := r.ensureExists(ctx, targetID); err != nil {
		return nil, err
	}
	if err := r.ensureNotBlocked(ctx, viewerID, targetID); err != nil {
		return nil, err
	}

	liked, err := r.store.HasLike(ctx, viewerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("resolve status: %w", err)
	}
	likedBack, err := r.store.HasLike(ctx, targetID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve status: %w", err)
	}

	return &ConnectionStatus{
		TargetID:  targetID,
		Matched:   liked && likedBack,
		Liked:     liked,
		LikedBack: likedBack,
	}, nil
}

// Like records a like from actor to target and returns whether the pair
// is now matched. Repeating a like is a silent success. Exactly one
// event is emitted per effective edge creation: "match" to both parties
// when the reverse edge already exists, otherwise "like" to the target.
func (r *Resolver) Like(ctx context.Context, actorID, targetID int64) (bool, error) {
	if actorID == targetID {
		return false, ErrSelfAction
	}
	if err := r.ensureExists(ctx, targetID); err != nil {
		return false, err
	}
	if err := r.ensureNotBlocked(ctx, actorID, targetID); err != nil {
		return false, err
	}

	hasPhoto, err := r.store.HasMainPhoto(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("like: %w", err)
	}
	if !hasPhoto {
		return false, &RequirementNotMetError{Reason: "a profile photo is required before liking"}
	}

	created, err := r.store.AddLike(ctx, actorID, targetID)
	if err != nil {
		return false, fmt.Errorf("like: %w", err)
	}

	// The reverse edge is read after the write so two concurrent
	// mutual likes cannot both observe it missing.
	likedBack, err := r.store.HasLike(ctx, targetID, actorID)
	if err != nil {
		return false, fmt.Errorf("like: %w", err)
	}

	if !created {
		return likedBack, nil
	}

	if r.counter != nil {
		r.counter.IncrReceived(ctx, targetID)
	}
	RecordLike()

	if likedBack {
		RecordMatch()
		r.sink.Notify(ctx, Event{FromUserID: actorID, ToUserID: targetID, Type: EventMatch})
		r.sink.Notify(ctx, Event{FromUserID: targetID, ToUserID: actorID, Type: EventMatch})
		return true, nil
	}

	r.sink.Notify(ctx, Event{FromUserID: actorID, ToUserID: targetID, Type: EventLike})
	return false, nil
}

// Unlike removes the actor's like edge. Removing a missing edge is a
// silent success with no event. The operation works even under a block
// so users can always withdraw their own likes.
func (r *Resolver) Unlike(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	if err := r.ensureExists(ctx, targetID); err != nil {
		return err
	}

	removed, err := r.store.RemoveLike(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("unlike: %w", err)
	}
	if !removed {
		return nil
	}

	if r.counter != nil {
		r.counter.DecrReceived(ctx, targetID)
	}
	RecordUnlike()
	r.sink.Notify(ctx, Event{FromUserID: actorID, ToUserID: targetID, Type: EventUnlike})
	return nil
}

// Block hides the pair from each other. Like edges are kept; the block
// gate makes them unobservable, and a later unblock restores whatever
// relationship the edges still describe. Blocking twice is a silent
// success. No event is emitted; the blocked user must not learn of it.
func (r *Resolver) Block(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	if err := r.ensureExists(ctx, targetID); err != nil {
		return err
	}

	created, err := r.store.AddBlock(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("block: %w", err)
	}
	if created {
		RecordBlock()
	}
	return nil
}

// Unblock removes the actor's block. Idempotent.
func (r *Resolver) Unblock(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	if _, err := r.store.RemoveBlock(ctx, actorID, targetID); err != nil {
		return fmt.Errorf("unblock: %w", err)
	}
	return nil
}

// LikesReceived returns how many likes the user currently has, serving
// from the cache when warm and falling through to the store otherwise.
func (r *Resolver) LikesReceived(ctx context.Context, userID int64) (int64, error) {
	if r.counter != nil {
		if n, ok := r.counter.GetReceived(ctx, userID); ok {
			return n, nil
		}
	}

	n, err := r.store.CountLikesReceived(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("likes received: %w", err)
	}
	if r.counter != nil {
		r.counter.SetReceived(ctx, userID, n)
	}
	return n, nil
}

func (r *Resolver) ensureExists(ctx context.Context, userID int64) error {
	exists, err := r.store.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", userID, err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func (r *Resolver) ensureNotBlocked(ctx context.Context, viewerID, targetID int64) error {
	blocked, err := r.store.IsBlockedEitherWay(ctx, viewerID, targetID)
	if err != nil {
		return fmt.Errorf("check block %d/%d: %w", viewerID, targetID, err)
	}
	if blocked {
		return &BlockedError{ViewerID: viewerID, TargetID: targetID}
	}
	return nil
}
