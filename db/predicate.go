package db

import "github.com/thicket-social/thicket-be/model"

// Predicate is one visibility constraint of a comment query. Backends fold
// the whole slice into a single conjunctive filter before execution; the
// constraints are never checked as separate round-trips.
type Predicate interface {
	isPredicate()
}

// BlockFilter excludes comments whose creator, or creator's instance, the
// viewer has blocked. Self-authored comments are never self-filtered.
type BlockFilter struct {
	ViewerId int64
}

// CommunityVisibilityFilter enforces community visibility states. Private
// communities require an accepted follow; the local-only-private state
// requires any authenticated local viewer; anonymous viewers see only the
// public states. Admins bypass the filter entirely (it is omitted for them).
type CommunityVisibilityFilter struct {
	ViewerId int64
}

// NsfwFilter excludes comments whose post or community is flagged NSFW.
type NsfwFilter struct{}

// LanguageFilter keeps only comments in the viewer's enabled languages.
type LanguageFilter struct {
	LanguageIds []int64
}

// BotFilter excludes comments by bot accounts.
type BotFilter struct{}

// PendingFilter hides federation-pending comments from everyone but their
// creator.
type PendingFilter struct {
	ViewerId int64
}

// ListingTypeFilter restricts the candidate communities for the Subscribed,
// Local and ModeratorView listing types.
type ListingTypeFilter struct {
	Type     model.ListingType
	ViewerId int64
}

// LikedFilter keeps only comments the viewer voted on with the given score,
// excluding the viewer's own comments.
type LikedFilter struct {
	ViewerId int64
	Score    int16
}

func (BlockFilter) isPredicate()               {}
func (CommunityVisibilityFilter) isPredicate() {}
func (NsfwFilter) isPredicate()                {}
func (LanguageFilter) isPredicate()            {}
func (BotFilter) isPredicate()                 {}
func (PendingFilter) isPredicate()             {}
func (ListingTypeFilter) isPredicate()         {}
func (LikedFilter) isPredicate()               {}

// VisibilityMode selects between the listing and single-read rule sets. The
// two differ in the site-level NSFW gate and in the listing-only filters
// (language, bots, listing type, vote filters).
type VisibilityMode int

const (
	VisibilityList VisibilityMode = iota
	VisibilityRead
)

// VisibilityFilters composes the conjunction of visibility constraints for
// a viewer. The rules are independent and order-insensitive; backends may
// evaluate them in any order within the one atomic query.
func VisibilityFilters(
	viewer *model.ViewerContext,
	site *model.SiteConfig,
	listingType model.ListingType,
	likedOnly, dislikedOnly bool,
	mode VisibilityMode,
) []Predicate {
	var filters []Predicate

	if viewer != nil {
		filters = append(filters, BlockFilter{ViewerId: viewer.PersonId})
	}

	if !viewer.IsAdmin() {
		filters = append(filters, CommunityVisibilityFilter{ViewerId: viewer.PersonIdOrZero()})
	}

	nsfwVisible := viewer.ShowNsfwContent()
	if mode == VisibilityList {
		nsfwVisible = nsfwVisible && site != nil && site.ContentWarning
	}
	if !nsfwVisible {
		filters = append(filters, NsfwFilter{})
	}

	filters = append(filters, PendingFilter{ViewerId: viewer.PersonIdOrZero()})

	if mode == VisibilityRead {
		return filters
	}

	if viewer != nil && listingType != model.ListingModeratorView && len(viewer.EnabledLanguageIds) > 0 {
		ids := make([]int64, 0, len(viewer.EnabledLanguageIds))
		for id := range viewer.EnabledLanguageIds {
			ids = append(ids, id)
		}
		filters = append(filters, LanguageFilter{LanguageIds: ids})
	}

	if !viewer.ShowBots() {
		filters = append(filters, BotFilter{})
	}

	switch listingType {
	case model.ListingSubscribed, model.ListingLocal, model.ListingModeratorView:
		filters = append(filters, ListingTypeFilter{Type: listingType, ViewerId: viewer.PersonIdOrZero()})
	}

	if viewer != nil {
		// liked takes precedence when both flags are set
		if likedOnly {
			filters = append(filters, LikedFilter{ViewerId: viewer.PersonId, Score: 1})
		} else if dislikedOnly {
			filters = append(filters, LikedFilter{ViewerId: viewer.PersonId, Score: -1})
		}
	}

	return filters
}
