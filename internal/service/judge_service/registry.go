package judge_service

import (
	"fmt"

	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// Registry maps a judge type to its scraping and submission adapters.
// All supported judges are registered at build time; this is a static
// lookup, not a plugin system.
type Registry struct {
	scrapers   map[store.JudgeType]Scraper
	submitters map[store.JudgeType]Submitter
}

func NewRegistry() *Registry {
	return &Registry{
		scrapers:   make(map[store.JudgeType]Scraper),
		submitters: make(map[store.JudgeType]Submitter),
	}
}

func (r *Registry) RegisterScraper(judge store.JudgeType, scraper Scraper) {
	if scraper == nil {
		panic("registry expects non-nil scraper for judge " + string(judge))
	}
	r.scrapers[judge] = scraper
}

func (r *Registry) RegisterSubmitter(judge store.JudgeType, submitter Submitter) {
	if submitter == nil {
		panic("registry expects non-nil submitter for judge " + string(judge))
	}
	r.submitters[judge] = submitter
}

func (r *Registry) GetScraper(judge store.JudgeType) (Scraper, error) {
	scraper, ok := r.scrapers[judge]
	if !ok {
		return nil, fmt.Errorf(
			"%w, no scraper registered for judge %s",
			xjudge_errors.ErrNotFound,
			judge,
		)
	}
	return scraper, nil
}

func (r *Registry) GetSubmitter(judge store.JudgeType) (Submitter, error) {
	submitter, ok := r.submitters[judge]
	if !ok {
		return nil, fmt.Errorf(
			"%w, no submitter registered for judge %s",
			xjudge_errors.ErrNotFound,
			judge,
		)
	}
	return submitter, nil
}

// Judges lists every judge with a registered scraper.
func (r *Registry) Judges() []store.JudgeType {
	judges := make([]store.JudgeType, 0, len(r.scrapers))
	for judge := range r.scrapers {
		judges = append(judges, judge)
	}
	return judges
}
