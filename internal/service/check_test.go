package service

import (
	"context"
	"testing"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAggregations(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	s := store.NewGormStore(tester.TestDB())
	svc := NewCheckService(s)
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	app := tester.MustComponent(project, "App", "app")
	docs := tester.MustComponent(project, "Docs", "docs")
	cs := tester.MustLanguage("cs")
	de := tester.MustLanguage("de")

	appCs := tester.MustTranslation(app, cs)
	tester.MustTranslation(app, de)
	docsCs := tester.MustTranslation(docs, cs)

	// The same string fails in two components of the same language.
	u1 := tester.MustUnit(appCs, 1, "Hello!", "Ahoj")
	tester.MustUnit(docsCs, 1, "Hello!", "Ahoj")

	csID := cs.ID
	require.NoError(t, s.ReplaceChecks(ctx, project.ID, &csID, u1.Checksum, []string{"end_exclamation"}))

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	if assert.Len(t, overview, 1) {
		assert.Equal(t, "end_exclamation", overview[0].Check.Code)
		assert.EqualValues(t, 1, overview[0].Count)
	}

	check, counts, err := svc.ByProject(ctx, "end_exclamation")
	require.NoError(t, err)
	assert.True(t, check.Target)
	if assert.Len(t, counts, 1) {
		assert.Equal(t, "hello", counts[0].Slug)
		assert.EqualValues(t, 1, counts[0].Count)
	}

	_, rows, err := svc.ProjectDetail(ctx, project, "end_exclamation")
	require.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "app", rows[0].Slug)
		assert.EqualValues(t, 1, rows[0].Count)
		assert.Equal(t, "docs", rows[1].Slug)
		assert.EqualValues(t, 1, rows[1].Count)
	}

	_, langRows, sourceCount, err := svc.ComponentDetail(ctx, app, "end_exclamation")
	require.NoError(t, err)
	assert.Zero(t, sourceCount)
	if assert.Len(t, langRows, 1) {
		assert.Equal(t, "cs", langRows[0].Language.Code)
		assert.EqualValues(t, 1, langRows[0].Count)
	}

	_, _, err = svc.ByProject(ctx, "no_such_check")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckSourceAggregations(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	s := store.NewGormStore(tester.TestDB())
	svc := NewCheckService(s)
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	app := tester.MustComponent(project, "App", "app")
	docs := tester.MustComponent(project, "Docs", "docs")
	cs := tester.MustLanguage("cs")

	appCs := tester.MustTranslation(app, cs)
	tester.MustTranslation(docs, cs)

	unit := tester.MustUnit(appCs, 1, "Loading...", "")

	// Source checks carry no language.
	require.NoError(t, s.ReplaceChecks(ctx, project.ID, nil, unit.Checksum, []string{"ellipsis"}))

	check, rows, err := svc.ProjectDetail(ctx, project, "ellipsis")
	require.NoError(t, err)
	assert.True(t, check.Source)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, "app", rows[0].Slug)
		assert.EqualValues(t, 1, rows[0].Count)
	}

	// Untranslated units still count for source checks.
	_, _, sourceCount, err := svc.ComponentDetail(ctx, app, "ellipsis")
	require.NoError(t, err)
	assert.EqualValues(t, 1, sourceCount)

	_, _, sourceCount, err = svc.ComponentDetail(ctx, docs, "ellipsis")
	require.NoError(t, err)
	assert.Zero(t, sourceCount)
}

func TestCheckIgnore(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	s := store.NewGormStore(tester.TestDB())
	svc := NewCheckService(s)
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	app := tester.MustComponent(project, "App", "app")
	cs := tester.MustLanguage("cs")
	appCs := tester.MustTranslation(app, cs)
	unit := tester.MustUnit(appCs, 1, "Hello!", "Ahoj")

	csID := cs.ID
	require.NoError(t, s.ReplaceChecks(ctx, project.ID, &csID, unit.Checksum, []string{"end_exclamation"}))

	var check model.Check
	require.NoError(t, tester.TestDB().Where("name = ?", "end_exclamation").First(&check).Error)

	require.NoError(t, svc.Ignore(ctx, check.ID))

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Empty(t, overview)

	assert.ErrorIs(t, svc.Ignore(ctx, check.ID+1000), ErrNotFound)
}
