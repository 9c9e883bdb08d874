package app

import (
	"context"
	"log"

	"selfquiz-service/internal/domain"
	"selfquiz-service/internal/normalize"
)

// Importer merges raw question payloads into the question store.
type Importer struct {
	questions QuestionStore
}

func NewImporter(questions QuestionStore) *Importer {
	return &Importer{questions: questions}
}

// Import normalizes every record in the payload and upserts the valid ones
// by id. Malformed records are skipped and counted, never aborting the
// batch; an unrecognized top-level shape fails the whole operation before
// anything is written. The merged collection is persisted in one save.
func (im *Importer) Import(ctx context.Context, payload any) (domain.ImportStats, error) {
	items, err := normalize.Items(payload)
	if err != nil {
		return domain.ImportStats{}, err
	}

	questions, failures := normalize.Batch(items)
	for _, failure := range failures {
		log.Printf("import: skipping %v", failure)
	}

	existing, err := im.questions.LoadAll(ctx)
	if err != nil {
		return domain.ImportStats{}, err
	}

	index := make(map[string]int, len(existing))
	for i, q := range existing {
		index[q.ID] = i
	}

	stats := domain.ImportStats{Skipped: len(failures)}
	merged := existing
	for _, q := range questions {
		if i, ok := index[q.ID]; ok {
			merged[i] = q
			stats.Updated++
		} else {
			index[q.ID] = len(merged)
			merged = append(merged, q)
			stats.Imported++
		}
	}

	if err := im.questions.SaveAll(ctx, merged); err != nil {
		return domain.ImportStats{}, err
	}
	return stats, nil
}
