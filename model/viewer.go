package model

// ViewerContext is the normalized form of an optional authenticated viewer.
// A nil *ViewerContext is the unauthenticated default: no blocks, all
// languages, no admin rights, NSFW hidden. All methods are nil-safe so
// predicates never need to special-case the anonymous branch.
type ViewerContext struct {
	PersonId           int64
	Admin              bool
	BlockedPersonIds   map[int64]struct{}
	BlockedInstanceIds map[int64]struct{}
	// EnabledLanguageIds empty means all languages.
	EnabledLanguageIds map[int64]struct{}
	ShowNsfw           bool
	ShowBotAccounts    bool
	ShowReadPosts      bool
}

func (vc *ViewerContext) IsAdmin() bool {
	return vc != nil && vc.Admin
}

// PersonIdOrZero returns 0 for the anonymous viewer; 0 is never a valid
// person id.
func (vc *ViewerContext) PersonIdOrZero() int64 {
	if vc == nil {
		return 0
	}
	return vc.PersonId
}

func (vc *ViewerContext) Is(personId int64) bool {
	return vc != nil && vc.PersonId == personId
}

func (vc *ViewerContext) HasBlockedPerson(personId int64) bool {
	if vc == nil {
		return false
	}
	_, ok := vc.BlockedPersonIds[personId]
	return ok
}

func (vc *ViewerContext) HasBlockedInstance(instanceId int64) bool {
	if vc == nil {
		return false
	}
	_, ok := vc.BlockedInstanceIds[instanceId]
	return ok
}

func (vc *ViewerContext) LanguageEnabled(languageId int64) bool {
	if vc == nil || len(vc.EnabledLanguageIds) == 0 {
		return true
	}
	_, ok := vc.EnabledLanguageIds[languageId]
	return ok
}

func (vc *ViewerContext) ShowNsfwContent() bool {
	return vc != nil && vc.ShowNsfw
}

// ShowBots defaults to true for anonymous viewers; hiding bot comments is an
// opt-in account preference.
func (vc *ViewerContext) ShowBots() bool {
	return vc == nil || vc.ShowBotAccounts
}
