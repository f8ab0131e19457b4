package postgres

import (
	"context"
	"fmt"
	"sort"

	"blockquest/internal/domain"
	"github.com/uptrace/bun"
)

type questionRow struct {
	bun.BaseModel `bun:"table:question_bank"`

	ID    int64               `bun:"id,pk,autoincrement"`
	Topic string              `bun:"topic,notnull"`
	Data  domain.QuizQuestion `bun:"data,type:jsonb,notnull"`
}

// SeedQuestions inserts questions for every topic that has none yet.
// It returns how many rows were written.
func SeedQuestions(ctx context.Context, db *bun.DB, questions map[string][]domain.QuizQuestion) (int, error) {
	topics := make([]string, 0, len(questions))
	for topic := range questions {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	written := 0
	for _, topic := range topics {
		exists, err := db.NewSelect().Model((*questionRow)(nil)).Where("topic = ?", topic).Exists(ctx)
		if err != nil {
			return written, fmt.Errorf("check topic %s: %w", topic, err)
		}
		if exists || len(questions[topic]) == 0 {
			continue
		}

		rows := make([]questionRow, 0, len(questions[topic]))
		for _, q := range questions[topic] {
			if q.Topic == "" {
				q.Topic = topic
			}
			rows = append(rows, questionRow{Topic: topic, Data: q})
		}
		if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return written, fmt.Errorf("seed topic %s: %w", topic, err)
		}
		written += len(rows)
	}
	return written, nil
}
