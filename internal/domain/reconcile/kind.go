package reconcile

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/showcase/internal/domain/deprecation"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"go.uber.org/zap"
)

// ErrMissingTitle is returned for a default export without a title
var ErrMissingTitle = errors.New("default export is missing a title")

func (p *pass) registerKind(u types.Unit) error {
	if u.Exports == nil || u.Exports.Default == nil {
		p.logger.Debug("skipping module without default export", zap.String("handle", string(u.Handle)))
		return nil
	}

	meta := u.Exports.Default
	if meta.Title == "" {
		return fmt.Errorf("%w: module %s", ErrMissingTitle, describe(u))
	}

	group := p.engine.store.CreateOrGetGroup(meta.Title)
	if p.seen[meta.Title] {
		p.engine.notifier.Notify(deprecation.DuplicateTitle(meta.Title), fmt.Sprintf(
			"Duplicate title %q used in multiple files; use unique titles or a primary file for a component with re-exported entries",
			meta.Title))
	}
	p.seen[meta.Title] = true

	group.SetParameters(types.GroupParams{
		Framework:     p.framework,
		Component:     meta.Component,
		Subcomponents: meta.Subcomponents,
		FileName:      u.Path,
		Parameters:    meta.Parameters,
		Args:          meta.Args,
		ArgTypes:      meta.ArgTypes,
	})
	for _, decorator := range meta.Decorators {
		group.AddDecorator(decorator)
	}

	p.engine.recorder.RecordGroupRegistered()
	p.result.GroupsRegistered = append(p.result.GroupsRegistered, meta.Title)

	return p.registerStories(u, group)
}

// describe names a unit by path, falling back to its handle
func describe(u types.Unit) string {
	if u.Path != "" {
		return fmt.Sprintf("%q", u.Path)
	}
	return fmt.Sprintf("handle %s", u.Handle)
}
