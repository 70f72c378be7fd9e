package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thicket-social/thicket-be/model"
)

func filterTypes(filters []Predicate) []string {
	names := make([]string, len(filters))
	for i, filter := range filters {
		switch filter.(type) {
		case BlockFilter:
			names[i] = "block"
		case CommunityVisibilityFilter:
			names[i] = "community"
		case NsfwFilter:
			names[i] = "nsfw"
		case LanguageFilter:
			names[i] = "language"
		case BotFilter:
			names[i] = "bot"
		case PendingFilter:
			names[i] = "pending"
		case ListingTypeFilter:
			names[i] = "listing"
		case LikedFilter:
			names[i] = "liked"
		}
	}
	return names
}

func TestVisibilityFiltersAnonymousList(t *testing.T) {
	filters := VisibilityFilters(nil, &model.SiteConfig{}, model.ListingAll, false, false, VisibilityList)
	assert.Equal(t, []string{"community", "nsfw", "pending"}, filterTypes(filters))
}

func TestVisibilityFiltersAuthedList(t *testing.T) {
	viewer := &model.ViewerContext{
		PersonId:           7,
		EnabledLanguageIds: map[int64]struct{}{1: {}},
	}
	filters := VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingAll, false, false, VisibilityList)
	assert.Equal(t, []string{"block", "community", "nsfw", "pending", "language", "bot"}, filterTypes(filters))
}

func TestVisibilityFiltersAdminSkipsCommunityFilter(t *testing.T) {
	viewer := &model.ViewerContext{PersonId: 7, Admin: true, ShowBotAccounts: true}
	filters := VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingAll, false, false, VisibilityList)
	assert.Equal(t, []string{"block", "nsfw", "pending"}, filterTypes(filters))
}

func TestVisibilityFiltersNsfwGate(t *testing.T) {
	viewer := &model.ViewerContext{PersonId: 7, ShowNsfw: true, ShowBotAccounts: true}

	// listings also need the site-level content warning
	filters := VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingAll, false, false, VisibilityList)
	assert.Contains(t, filterTypes(filters), "nsfw")

	filters = VisibilityFilters(viewer, &model.SiteConfig{ContentWarning: true}, model.ListingAll, false, false, VisibilityList)
	assert.NotContains(t, filterTypes(filters), "nsfw")

	// single reads only consult the viewer preference
	filters = VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingAll, false, false, VisibilityRead)
	assert.NotContains(t, filterTypes(filters), "nsfw")
}

func TestVisibilityFiltersReadModeSkipsListingRules(t *testing.T) {
	viewer := &model.ViewerContext{
		PersonId:           7,
		EnabledLanguageIds: map[int64]struct{}{1: {}},
	}
	filters := VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingSubscribed, true, false, VisibilityRead)
	names := filterTypes(filters)
	assert.NotContains(t, names, "language")
	assert.NotContains(t, names, "bot")
	assert.NotContains(t, names, "listing")
	assert.NotContains(t, names, "liked")
}

func TestVisibilityFiltersModeratorViewSkipsLanguage(t *testing.T) {
	viewer := &model.ViewerContext{
		PersonId:           7,
		ShowBotAccounts:    true,
		EnabledLanguageIds: map[int64]struct{}{1: {}},
	}
	filters := VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingModeratorView, false, false, VisibilityList)
	names := filterTypes(filters)
	assert.NotContains(t, names, "language")
	assert.Contains(t, names, "listing")
}

func TestVisibilityFiltersLikedPrecedence(t *testing.T) {
	viewer := &model.ViewerContext{PersonId: 7, ShowBotAccounts: true}
	filters := VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingAll, true, true, VisibilityList)

	var liked []LikedFilter
	for _, filter := range filters {
		if f, ok := filter.(LikedFilter); ok {
			liked = append(liked, f)
		}
	}
	assert.Len(t, liked, 1)
	assert.EqualValues(t, 1, liked[0].Score)

	filters = VisibilityFilters(viewer, &model.SiteConfig{}, model.ListingAll, false, true, VisibilityList)
	liked = nil
	for _, filter := range filters {
		if f, ok := filter.(LikedFilter); ok {
			liked = append(liked, f)
		}
	}
	assert.Len(t, liked, 1)
	assert.EqualValues(t, -1, liked[0].Score)
}
