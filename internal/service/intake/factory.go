package intake

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byAction map[string]actionFunc
}

func newActionFactory(onCreated, onRemoved actionFunc) *actionFactory {
	return &actionFactory{
		byAction: map[string]actionFunc{
			"created":  onCreated,
			"pending":  onCreated,
			"canceled": onRemoved,
			"deleted":  onRemoved,
		},
	}
}

func (f *actionFactory) get(action string) (actionFunc, bool) {
	action = strings.ToLower(strings.TrimSpace(action))
	fn, ok := f.byAction[action]
	return fn, ok
}
