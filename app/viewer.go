package app

import (
	"context"
	"fmt"

	"github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

// ResolveViewer normalizes an optional authenticated person into the viewer
// context the visibility rules consume. personId 0 resolves to the
// unauthenticated default (nil). Lookup failures propagate; an anonymous
// context is never substituted for a failed lookup.
func ResolveViewer(ctx context.Context, database db.Database, personId int64) (*model.ViewerContext, error) {
	if personId == 0 {
		return nil, nil
	}
	person, err := database.GetPersonById(ctx, personId)
	if err != nil {
		return nil, fmt.Errorf("resolve viewer %d: %w", personId, err)
	}
	blockedPersons, err := database.GetBlockedPersonIds(ctx, personId)
	if err != nil {
		return nil, fmt.Errorf("resolve viewer %d blocks: %w", personId, err)
	}
	blockedInstances, err := database.GetBlockedInstanceIds(ctx, personId)
	if err != nil {
		return nil, fmt.Errorf("resolve viewer %d instance blocks: %w", personId, err)
	}
	languages, err := database.GetEnabledLanguageIds(ctx, personId)
	if err != nil {
		return nil, fmt.Errorf("resolve viewer %d languages: %w", personId, err)
	}
	return &model.ViewerContext{
		PersonId:           person.Id,
		Admin:              person.Admin,
		BlockedPersonIds:   toSet(blockedPersons),
		BlockedInstanceIds: toSet(blockedInstances),
		EnabledLanguageIds: toSet(languages),
		ShowNsfw:           person.ShowNsfw,
		ShowBotAccounts:    person.ShowBotAccounts,
		ShowReadPosts:      person.ShowReadPosts,
	}, nil
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
