package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/adaptiq/internal/itembank"
)

// ItemRepo persists calibrated items. It satisfies itembank.Repository.
type ItemRepo struct {
	db *sql.DB
}

var _ itembank.Repository = (*ItemRepo)(nil)

// Upsert inserts or replaces records in a single transaction.
func (r *ItemRepo) Upsert(ctx context.Context, records []itembank.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (id, text, subject, section, difficulty,
		param_a, param_b, param_c, options, correct_answer, hints, prompts, prerequisites, weight, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, subject = excluded.subject,
			section = excluded.section, difficulty = excluded.difficulty, param_a = excluded.param_a,
			param_b = excluded.param_b, param_c = excluded.param_c, options = excluded.options,
			correct_answer = excluded.correct_answer, hints = excluded.hints, prompts = excluded.prompts,
			prerequisites = excluded.prerequisites, weight = excluded.weight, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, rec := range records {
		var a, b, c sql.NullFloat64
		if rec.Params != nil {
			a = sql.NullFloat64{Float64: rec.Params.Discrimination, Valid: true}
			b = sql.NullFloat64{Float64: rec.Params.Difficulty, Valid: true}
			c = sql.NullFloat64{Float64: rec.Params.Guessing, Valid: true}
		}
		weight := rec.Weight
		if weight == 0 {
			weight = 1
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Text, rec.Subject, string(rec.Section), rec.Difficulty,
			a, b, c, encodeList(rec.Options), rec.CorrectAnswer, encodeList(rec.Hints), encodeList(rec.Prompts),
			encodeList(rec.Prerequisites), weight, now); err != nil {
			return fmt.Errorf("upsert item %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// AllItems returns every stored record ordered by id.
func (r *ItemRepo) AllItems(ctx context.Context) ([]itembank.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text, subject, section, difficulty, param_a, param_b,
		param_c, options, correct_answer, hints, prompts, prerequisites, weight FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []itembank.Record
	for rows.Next() {
		var rec itembank.Record
		var section, options, hints, prompts, prereqs string
		var a, b, c sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Subject, &section, &rec.Difficulty, &a, &b, &c,
			&options, &rec.CorrectAnswer, &hints, &prompts, &prereqs, &rec.Weight); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		rec.Section = itembank.Section(section)
		if a.Valid && b.Valid && c.Valid {
			rec.Params = &itembank.IRTParams{Discrimination: a.Float64, Difficulty: b.Float64, Guessing: c.Float64}
		}
		rec.Options = decodeList(options)
		rec.Hints = decodeList(hints)
		rec.Prompts = decodeList(prompts)
		rec.Prerequisites = decodeList(prereqs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored items.
func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func encodeList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func decodeList(s string) []string {
	var v []string
	if err := json.Unmarshal([]byte(s), &v); err != nil || len(v) == 0 {
		return nil
	}
	return v
}
