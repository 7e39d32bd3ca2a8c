package replication

import (
	"encoding/json"
	"fmt"

	"github.com/svendcsvendsen/judoassistant/internal/actions"
)

// ctorRegistry maps an action's Tag() to a constructor for its zero value,
// so EncodeAction/DecodeAction can round-trip it through JSON without a
// giant type switch at every call site.
var ctorRegistry = map[string]func() actions.Action{
	"AddPlayer":                     func() actions.Action { return &actions.AddPlayer{} },
	"ErasePlayer":                   func() actions.Action { return &actions.ErasePlayer{} },
	"ChangePlayerFields":            func() actions.Action { return &actions.ChangePlayerFields{} },
	"AddPlayersToCategory":          func() actions.Action { return &actions.AddPlayersToCategory{} },
	"ErasePlayersFromCategory":      func() actions.Action { return &actions.ErasePlayersFromCategory{} },
	"ErasePlayersFromAllCategories": func() actions.Action { return &actions.ErasePlayersFromAllCategories{} },
	"AddCategory":                   func() actions.Action { return &actions.AddCategory{} },
	"EraseCategories":               func() actions.Action { return &actions.EraseCategories{} },
	"ChangeCategoryName":            func() actions.Action { return &actions.ChangeCategoryName{} },
	"ChangeCategoryRuleset":         func() actions.Action { return &actions.ChangeCategoryRuleset{} },
	"ChangeCategoryDrawSystem":      func() actions.Action { return &actions.ChangeCategoryDrawSystem{} },
	"DrawCategory":                  func() actions.Action { return &actions.DrawCategory{} },
	"SetMatchPlayer":                func() actions.Action { return &actions.SetMatchPlayer{} },
	"ResumeMatch":                   func() actions.Action { return &actions.ResumeMatch{} },
	"PauseMatch":                    func() actions.Action { return &actions.PauseMatch{} },
	"AwardIppon":                    func() actions.Action { return &actions.AwardIppon{} },
	"AwardWazari":                   func() actions.Action { return &actions.AwardWazari{} },
	"AwardShido":                    func() actions.Action { return &actions.AwardShido{} },
	"AwardHansokuMake":              func() actions.Action { return &actions.AwardHansokuMake{} },
	"SetTatamiCount":                func() actions.Action { return &actions.SetTatamiCount{} },
	"SetTatamiLocation":             func() actions.Action { return &actions.SetTatamiLocation{} },
	"AutoAddCategories":             func() actions.Action { return &actions.AutoAddCategories{} },
}

// EncodeAction turns a dispatched action into its wire payload.
func EncodeAction(a actions.Action) (ActionPayload, error) {
	fields, err := json.Marshal(a)
	if err != nil {
		return ActionPayload{}, fmt.Errorf("encode action %s: %w", a.Tag(), err)
	}
	return ActionPayload{Tag: a.Tag(), Fields: fields}, nil
}

// DecodeAction reconstructs a fresh (unapplied) Action from its wire
// payload.
func DecodeAction(p ActionPayload) (actions.Action, error) {
	ctor, ok := ctorRegistry[p.Tag]
	if !ok {
		return nil, fmt.Errorf("decode action: unknown tag %q", p.Tag)
	}
	a := ctor()
	if err := json.Unmarshal(p.Fields, a); err != nil {
		return nil, fmt.Errorf("decode action %s: %w", p.Tag, err)
	}
	return a, nil
}
