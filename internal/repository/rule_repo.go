package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"heating_controller/internal/models"
)

type RuleSQLite struct {
	db *sql.DB
}

func NewRuleSQLite(db *sql.DB) *RuleSQLite {
	return &RuleSQLite{db: db}
}

var _ RuleRepo = (*RuleSQLite)(nil)

const (
	selectRulesSQL = `
		SELECT id, name, active, repeating, days, schedules, next_dates
		FROM rules ORDER BY created_at ASC, id ASC
	`

	selectRuleByIDSQL = `
		SELECT id, name, active, repeating, days, schedules, next_dates
		FROM rules WHERE id=?
	`

	upsertRuleSQL = `
		INSERT INTO rules (id, name, active, repeating, days, schedules, next_dates, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			active=excluded.active,
			repeating=excluded.repeating,
			days=excluded.days,
			schedules=excluded.schedules,
			next_dates=excluded.next_dates,
			updated_at=excluded.updated_at
	`

	deleteRuleSQL = `DELETE FROM rules WHERE id=?`
)

// ruleColumns holds the JSON-encoded columns of a rules row.
type ruleColumns struct {
	days      string
	schedules string
	nextDates string
}

func encodeRuleColumns(r models.Rule) (ruleColumns, error) {
	days, err := json.Marshal(r.Days)
	if err != nil {
		return ruleColumns{}, fmt.Errorf("encode days: %w", err)
	}
	schedules := r.Schedules
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	sb, err := json.Marshal(schedules)
	if err != nil {
		return ruleColumns{}, fmt.Errorf("encode schedules: %w", err)
	}
	dates := r.NextDates
	if dates == nil {
		dates = []models.Date{}
	}
	nb, err := json.Marshal(dates)
	if err != nil {
		return ruleColumns{}, fmt.Errorf("encode next dates: %w", err)
	}
	return ruleColumns{days: string(days), schedules: string(sb), nextDates: string(nb)}, nil
}

// decodeRule rebuilds a rule through the model decoders so a corrupt row
// fails here rather than inside the resolver.
func decodeRule(id, name string, active, repeat bool, cols ruleColumns) (models.Rule, error) {
	r := models.NewRule(name)
	r.ID = id
	r.Active = active
	r.Repeat = repeat

	if err := json.Unmarshal([]byte(cols.days), &r.Days); err != nil {
		return models.Rule{}, fmt.Errorf("rule %s days: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cols.schedules), &r.Schedules); err != nil {
		return models.Rule{}, fmt.Errorf("rule %s schedules: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cols.nextDates), &r.NextDates); err != nil {
		return models.Rule{}, fmt.Errorf("rule %s next dates: %w", id, err)
	}
	if err := r.Validate(); err != nil {
		return models.Rule{}, fmt.Errorf("rule %s: %w", id, err)
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (models.Rule, error) {
	var (
		id, name       string
		active, repeat bool
		cols           ruleColumns
	)
	if err := row.Scan(&id, &name, &active, &repeat, &cols.days, &cols.schedules, &cols.nextDates); err != nil {
		return models.Rule{}, err
	}
	return decodeRule(id, name, active, repeat, cols)
}

// List returns every stored rule in creation order.
func (r *RuleSQLite) List(ctx context.Context) ([]models.Rule, error) {
	rows, err := r.db.QueryContext(ctx, selectRulesSQL)
	if err != nil {
		return nil, fmt.Errorf("select rules: %w", err)
	}
	defer rows.Close()

	out := make([]models.Rule, 0, 8)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one rule or ErrNotFound.
func (r *RuleSQLite) Get(ctx context.Context, id string) (models.Rule, error) {
	rule, err := scanRule(r.db.QueryRowContext(ctx, selectRuleByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Rule{}, ErrNotFound
		}
		return models.Rule{}, err
	}
	return rule, nil
}

// Save inserts or replaces the rule with rule.ID.
func (r *RuleSQLite) Save(ctx context.Context, rule models.Rule) error {
	cols, err := encodeRuleColumns(rule)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, upsertRuleSQL,
		rule.ID,
		rule.Name,
		rule.Active,
		rule.Repeat,
		cols.days,
		cols.schedules,
		cols.nextDates,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save rule %s: %w", rule.ID, err)
	}
	return nil
}

// Delete removes a rule; a missing id yields ErrNotFound.
func (r *RuleSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteRuleSQL, id)
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
