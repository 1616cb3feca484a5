package itembank

import (
	"context"
	"fmt"

	"github.com/abhisek/adaptiq/internal/logger"
)

// Default parameters applied to repository records that carry only a
// 1-5 difficulty rating.
const (
	DefaultDiscrimination = 1.2
	DefaultGuessing       = 0.1
	DifficultyOffset      = 2.5
)

// Record is an item as stored by an external repository.
type Record struct {
	ID            string     `json:"id" yaml:"id"`
	Text          string     `json:"text" yaml:"text"`
	Subject       string     `json:"subject" yaml:"subject"`
	Section       Section    `json:"section,omitempty" yaml:"section,omitempty"`
	Difficulty    float64    `json:"difficulty" yaml:"difficulty"`
	Params        *IRTParams `json:"irt_params,omitempty" yaml:"irt_params,omitempty"`
	Options       []string   `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer string     `json:"correct_answer" yaml:"correct_answer"`
	Hints         []string   `json:"hints,omitempty" yaml:"hints,omitempty"`
	Prompts       []string   `json:"think_aloud_prompts,omitempty" yaml:"think_aloud_prompts,omitempty"`
	Prerequisites []string   `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Weight        float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// ToItem converts a record into a calibrated item. Records without explicit
// parameters map their 1-5 rating onto b = difficulty - 2.5, and records
// without a section are placed by subject.
func (r Record) ToItem() (Item, error) {
	params := IRTParams{
		Discrimination: DefaultDiscrimination,
		Difficulty:     r.Difficulty - DifficultyOffset,
		Guessing:       DefaultGuessing,
	}
	if r.Params != nil {
		params = *r.Params
	}
	weight := r.Weight
	if weight == 0 {
		weight = 1.0
	}
	section := r.Section
	if section == "" {
		section = SectionForDomain(r.Subject)
	}
	it := Item{
		ID:            r.ID,
		Text:          r.Text,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Params:        params,
		Domain:        r.Subject,
		Section:       section,
		Weight:        weight,
		Hints:         r.Hints,

		ThinkAloudPrompts: r.Prompts,
		Prerequisites:     r.Prerequisites,
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// RecordFromItem is the inverse of ToItem used when persisting items.
func RecordFromItem(it Item) Record {
	p := it.Params
	return Record{
		ID:            it.ID,
		Text:          it.Text,
		Subject:       it.Domain,
		Section:       it.Section,
		Difficulty:    p.Difficulty + DifficultyOffset,
		Params:        &p,
		Options:       it.Options,
		CorrectAnswer: it.CorrectAnswer,
		Hints:         it.Hints,
		Prompts:       it.ThinkAloudPrompts,
		Prerequisites: it.Prerequisites,
		Weight:        it.Weight,
	}
}

// Repository supplies items in bulk.
type Repository interface {
	AllItems(ctx context.Context) ([]Record, error)
}

// Load builds a bank from repo. Repository errors and empty results fall
// back to the seed bank; individual invalid records are skipped.
func Load(ctx context.Context, repo Repository, log *logger.Logger) *Bank {
	if log == nil {
		log = logger.Nop()
	}
	if repo == nil {
		return mustSeed()
	}

	records, err := repo.AllItems(ctx)
	if err != nil {
		log.Warn("item repository load failed, using seed bank", "error", err)
		return mustSeed()
	}

	items := make([]Item, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		it, err := r.ToItem()
		if err != nil {
			log.Warn("skipping invalid item", "id", r.ID, "error", err)
			continue
		}
		if seen[it.ID] {
			log.Warn("skipping duplicate item", "id", it.ID)
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	if len(items) == 0 {
		log.Warn("item repository returned no usable items, using seed bank", "records", len(records))
		return mustSeed()
	}

	b, err := NewBank(items)
	if err != nil {
		log.Error("building item bank failed, using seed bank", "error", err)
		return mustSeed()
	}
	log.Info("loaded item bank", "items", b.Len(), "sections", len(b.Sections()))
	return b
}

func mustSeed() *Bank {
	b, err := NewBank(SeedBank())
	if err != nil {
		panic(fmt.Sprintf("itembank: invalid seed bank: %v", err))
	}
	return b
}
