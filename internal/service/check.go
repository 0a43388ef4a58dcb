package service

import (
	"context"

	"github.com/madhuracj/weblate/internal/checks"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
)

// NewCheckService creates a new CheckService.
func NewCheckService(store store.Store) *CheckService {
	return &CheckService{store: store}
}

// CheckService aggregates failing quality checks for the check browsing
// pages.
type CheckService struct {
	store store.Store
}

// CheckOverview is one row of the site wide failing checks list.
type CheckOverview struct {
	Check *checks.Check
	Count int64
}

// LanguageCount pairs a language with a failing unit count.
type LanguageCount struct {
	Language *model.Language
	Count    int64
}

// Overview lists all checks that currently fail anywhere, with counts.
func (c CheckService) Overview(ctx context.Context) ([]*CheckOverview, error) {
	counts, err := c.store.CheckCounts(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*CheckOverview, 0, len(counts))
	for _, count := range counts {
		check, ok := checks.Get(count.Name)
		if !ok {
			// Stale rows from a removed check definition.
			continue
		}
		rows = append(rows, &CheckOverview{Check: check, Count: count.Count})
	}

	return rows, nil
}

// ByProject breaks one check down by project.
func (c CheckService) ByProject(ctx context.Context, name string) (*checks.Check, []*store.SlugCount, error) {
	check, ok := checks.Get(name)
	if !ok {
		return nil, nil, ErrNotFound
	}

	counts, err := c.store.CheckCountsByProject(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	return check, counts, nil
}

// ProjectDetail breaks one check down by component within a project. Target
// checks count translated units per failing language, source checks count
// the units of each component's first translation language.
func (c CheckService) ProjectDetail(ctx context.Context, project *model.Project, name string) (*checks.Check, []*store.SlugCount, error) {
	check, ok := checks.Get(name)
	if !ok {
		return nil, nil, ErrNotFound
	}

	var rows []*store.SlugCount

	if check.Target {
		langIDs, err := c.store.CheckLanguageIDs(ctx, project.ID, name)
		if err != nil {
			return nil, nil, err
		}
		for _, langID := range langIDs {
			id := langID
			checksums, err := c.store.CheckChecksums(ctx, project.ID, &id, name)
			if err != nil {
				return nil, nil, err
			}
			counts, err := c.store.FailingUnitsByComponent(ctx, project.ID, langID, checksums, true)
			if err != nil {
				return nil, nil, err
			}
			rows = append(rows, counts...)
		}
	}

	if check.Source {
		checksums, err := c.store.CheckChecksums(ctx, project.ID, nil, name)
		if err != nil {
			return nil, nil, err
		}
		components, err := c.store.ListComponents(ctx, project.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, component := range components {
			first, err := c.store.FirstTranslation(ctx, component.ID)
			if wrapNotFound(err) == ErrNotFound {
				continue
			}
			if err != nil {
				return nil, nil, err
			}
			count, err := c.store.CountFailingUnits(ctx, component.ID, first.LanguageID, checksums, false)
			if err != nil {
				return nil, nil, err
			}
			if count > 0 {
				rows = append(rows, &store.SlugCount{Slug: component.Slug, Count: count})
			}
		}
	}

	return check, rows, nil
}

// ComponentDetail breaks one check down by language within a component. The
// returned source count is zero when the check does not apply to source
// strings or nothing fails.
func (c CheckService) ComponentDetail(ctx context.Context, component *model.Component, name string) (*checks.Check, []*LanguageCount, int64, error) {
	check, ok := checks.Get(name)
	if !ok {
		return nil, nil, 0, ErrNotFound
	}

	var rows []*LanguageCount

	if check.Target {
		langIDs, err := c.store.CheckLanguageIDs(ctx, component.ProjectID, name)
		if err != nil {
			return nil, nil, 0, err
		}
		for _, langID := range langIDs {
			id := langID
			checksums, err := c.store.CheckChecksums(ctx, component.ProjectID, &id, name)
			if err != nil {
				return nil, nil, 0, err
			}
			count, err := c.store.CountFailingUnits(ctx, component.ID, langID, checksums, true)
			if err != nil {
				return nil, nil, 0, err
			}
			if count == 0 {
				continue
			}
			lang, err := c.store.GetLanguage(ctx, langID)
			if err != nil {
				return nil, nil, 0, err
			}
			rows = append(rows, &LanguageCount{Language: lang, Count: count})
		}
	}

	var sourceCount int64
	if check.Source {
		checksums, err := c.store.CheckChecksums(ctx, component.ProjectID, nil, name)
		if err != nil {
			return nil, nil, 0, err
		}
		first, err := c.store.FirstTranslation(ctx, component.ID)
		if err == nil {
			sourceCount, err = c.store.CountFailingUnits(ctx, component.ID, first.LanguageID, checksums, false)
			if err != nil {
				return nil, nil, 0, err
			}
		} else if wrapNotFound(err) != ErrNotFound {
			return nil, nil, 0, err
		}
	}

	return check, rows, sourceCount, nil
}

// Ignore marks a failing check as ignored so it no longer shows up.
func (c CheckService) Ignore(ctx context.Context, id uint) error {
	if _, err := c.store.GetCheck(ctx, id); err != nil {
		return wrapNotFound(err)
	}

	return c.store.IgnoreCheck(ctx, id)
}
