// Package query builds the storage-layer filter fragments shared by the
// featured feed endpoints: visibility, recency windows, and per-viewer
// block/mute exclusions.
package query

import (
	"context"

	"github.com/driftnote/backend/internal/models"
	"gorm.io/gorm"
)

// ExclusionContext is the request-scoped set of actors whose content the
// viewer must never see. Empty for unauthenticated requests.
type ExclusionContext struct {
	ViewerID        string
	BlockedActorIDs []string
	MutedActorIDs   []string
}

// HasViewer reports whether a viewer identity is attached
func (ec *ExclusionContext) HasViewer() bool {
	return ec != nil && ec.ViewerID != ""
}

// ExcludedActorIDs returns the union of blocked and muted actor IDs
func (ec *ExclusionContext) ExcludedActorIDs() []string {
	if ec == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ec.BlockedActorIDs)+len(ec.MutedActorIDs))
	out := make([]string, 0, len(ec.BlockedActorIDs)+len(ec.MutedActorIDs))
	for _, ids := range [][]string{ec.BlockedActorIDs, ec.MutedActorIDs} {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Excludes reports whether content authored by actorID must be hidden
func (ec *ExclusionContext) Excludes(actorID string) bool {
	if !ec.HasViewer() {
		return false
	}
	for _, id := range ec.BlockedActorIDs {
		if id == actorID {
			return true
		}
	}
	for _, id := range ec.MutedActorIDs {
		if id == actorID {
			return true
		}
	}
	return false
}

// ResolveExclusionContext loads the viewer's block and mute sets. A block
// in either direction hides the other party's content. viewerID == ""
// yields a context with no exclusions.
func ResolveExclusionContext(ctx context.Context, db *gorm.DB, viewerID string) (*ExclusionContext, error) {
	ec := &ExclusionContext{ViewerID: viewerID}
	if viewerID == "" {
		return ec, nil
	}

	var blocked []string
	err := db.WithContext(ctx).Model(&models.Blocking{}).
		Where("blocker_id = ?", viewerID).
		Pluck("blockee_id", &blocked).Error
	if err != nil {
		return nil, err
	}

	var blockedBy []string
	err = db.WithContext(ctx).Model(&models.Blocking{}).
		Where("blockee_id = ?", viewerID).
		Pluck("blocker_id", &blockedBy).Error
	if err != nil {
		return nil, err
	}
	blocked = append(blocked, blockedBy...)

	var muted []string
	err = db.WithContext(ctx).Model(&models.Muting{}).
		Where("muter_id = ?", viewerID).
		Pluck("mutee_id", &muted).Error
	if err != nil {
		return nil, err
	}

	ec.BlockedActorIDs = blocked
	ec.MutedActorIDs = muted
	return ec, nil
}
