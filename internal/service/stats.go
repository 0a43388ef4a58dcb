package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/madhuracj/weblate/internal/cache"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
)

// statsTTL bounds how stale the exported statistics may get. External
// dashboards poll these, so serving slightly old numbers is fine.
const statsTTL = time.Minute

// TranslationStats is one row of the statistics export of a component.
type TranslationStats struct {
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	Total             int        `json:"total"`
	Translated        int        `json:"translated"`
	TranslatedPercent float64    `json:"translated_percent"`
	Fuzzy             int        `json:"fuzzy"`
	FuzzyPercent      float64    `json:"fuzzy_percent"`
	LastChange        *time.Time `json:"last_change"`
	LastAuthor        string     `json:"last_author"`
}

// NewStatsService creates a new StatsService.
func NewStatsService(store store.Store, statsCache cache.Cache) *StatsService {
	return &StatsService{
		store: store,
		cache: statsCache,
	}
}

// StatsService renders the per component statistics export.
type StatsService struct {
	store store.Store
	cache cache.Cache
}

// ComponentStats returns one statistics row per translation of the
// component.
func (s StatsService) ComponentStats(ctx context.Context, component *model.Component) ([]*TranslationStats, error) {
	key := "stats:" + component.FullSlug()
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var rows []*TranslationStats
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
	}

	translations, err := s.store.ListTranslations(ctx, component.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]*TranslationStats, 0, len(translations))
	for _, translation := range translations {
		row := &TranslationStats{
			Total:             translation.Total,
			Translated:        translation.Translated,
			TranslatedPercent: translation.TranslatedPercent(),
			Fuzzy:             translation.Fuzzy,
			FuzzyPercent:      translation.FuzzyPercent(),
			LastChange:        translation.LastChange,
			LastAuthor:        translation.LastAuthor,
		}
		if translation.Language != nil {
			row.Code = translation.Language.Code
			row.Name = translation.Language.Name
		}
		rows = append(rows, row)
	}

	if data, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, key, data, statsTTL); err != nil {
			logrus.WithError(err).Debug("failed to cache component stats")
		}
	}

	return rows, nil
}
