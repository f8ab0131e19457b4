package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"blockquest/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads curated questions (JSONB rows) from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadQuestions(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM question_bank WHERE topic=$1 ORDER BY id`, topic)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.QuizQuestion
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.QuizQuestion
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		if q.Topic == "" {
			q.Topic = topic
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrQuestionsNotFound
	}
	return questions, nil
}
