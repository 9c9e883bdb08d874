// Package postgres implements the storage ports on Postgres, one JSONB row
// per record. SaveAll rewrites the whole table inside a transaction, which
// keeps the whole-collection semantics of the ports honest: readers never
// observe a half-written batch.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"selfquiz-service/internal/domain"
)

// QuestionStore persists questions in the questions table.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadAll(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			// Malformed rows degrade to absent rather than failing the load.
			continue
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *QuestionStore) SaveAll(ctx context.Context, questions []domain.Question) error {
	return rewrite(ctx, s.pool, "questions", "id", len(questions), func(i int) (string, any, error) {
		data, err := json.Marshal(questions[i])
		return questions[i].ID, data, err
	})
}

// WrongAnswerStore persists mistake records in the wrong_answers table.
type WrongAnswerStore struct {
	pool *pgxpool.Pool
}

func NewWrongAnswerStore(pool *pgxpool.Pool) *WrongAnswerStore {
	return &WrongAnswerStore{pool: pool}
}

func (s *WrongAnswerStore) LoadAll(ctx context.Context) ([]domain.WrongAnswer, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM wrong_answers ORDER BY question_id`)
	if err != nil {
		return nil, fmt.Errorf("load wrong answers: %w", err)
	}
	defer rows.Close()

	var records []domain.WrongAnswer
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan wrong answer: %w", err)
		}
		var rec domain.WrongAnswer
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *WrongAnswerStore) SaveAll(ctx context.Context, records []domain.WrongAnswer) error {
	return rewrite(ctx, s.pool, "wrong_answers", "question_id", len(records), func(i int) (string, any, error) {
		data, err := json.Marshal(records[i])
		return records[i].QuestionID, data, err
	})
}

func rewrite(ctx context.Context, pool *pgxpool.Pool, table, keyColumn string, n int, row func(i int) (string, any, error)) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin rewrite %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i := 0; i < n; i++ {
		key, data, err := row(i)
		if err != nil {
			return fmt.Errorf("encode %s row: %w", table, err)
		}
		insert := fmt.Sprintf(`INSERT INTO %s (%s, data) VALUES ($1, $2)`, table, keyColumn)
		if _, err := tx.Exec(ctx, insert, key, data); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rewrite %s: %w", table, err)
	}
	return nil
}
