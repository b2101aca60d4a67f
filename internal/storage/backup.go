package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"ticktask/internal/backup"
)

// Export snapshots the whole database into a backup payload.
func (s *Store) Export(now time.Time) (backup.Payload, error) {
	var p backup.Payload
	var err error

	if p.Tasks, err = s.Tasks(); err != nil {
		return backup.Payload{}, fmt.Errorf("export tasks: %w", err)
	}
	if p.Lists, err = s.Lists(); err != nil {
		return backup.Payload{}, fmt.Errorf("export lists: %w", err)
	}
	if p.Tags, err = s.Tags(); err != nil {
		return backup.Payload{}, fmt.Errorf("export tags: %w", err)
	}
	if p.Settings, err = s.Settings(); err != nil {
		return backup.Payload{}, fmt.Errorf("export settings: %w", err)
	}
	if p.Rules, err = s.Rules(); err != nil {
		return backup.Payload{}, fmt.Errorf("export rules: %w", err)
	}
	p.Version = backup.Version
	p.ExportedAt = now.UTC()
	return p, nil
}

// Restore replaces the whole database with the payload's contents in one
// transaction. Existing rows are dropped first; a failed restore leaves
// the database untouched.
func (s *Store) Restore(p backup.Payload) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "lists", "tags", "eisenhower_rules"} {
		if _, err := tx.Exec(`DELETE FROM ` + table + `;`); err != nil {
			return fmt.Errorf("restore: clear %s: %w", table, err)
		}
	}

	for _, t := range p.Tasks {
		t := t
		prepareTaskForInsert(&t, p.ExportedAt)
		if err := insertTask(tx, t); err != nil {
			return fmt.Errorf("restore task %s: %w", t.ID, err)
		}
	}
	for _, l := range p.Lists {
		if _, err := tx.Exec(`INSERT INTO lists (id, name, color, icon, sortOrder) VALUES (?, ?, ?, ?, ?);`,
			l.ID, l.Name, l.Color, l.Icon, l.SortOrder); err != nil {
			return fmt.Errorf("restore list %s: %w", l.ID, err)
		}
	}
	for _, tagRow := range p.Tags {
		if _, err := tx.Exec(`INSERT INTO tags (id, name, color) VALUES (?, ?, ?);`,
			tagRow.ID, tagRow.Name, tagRow.Color); err != nil {
			return fmt.Errorf("restore tag %s: %w", tagRow.ID, err)
		}
	}
	for _, r := range p.Rules {
		conditions, err := json.Marshal(r.Conditions)
		if err != nil {
			return fmt.Errorf("restore rule %s: %w", r.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO eisenhower_rules (id, quadrant, name, conditions, logic) VALUES (?, ?, ?, ?, ?);`,
			r.ID, string(r.Quadrant), r.Name, string(conditions), string(r.Logic)); err != nil {
			return fmt.Errorf("restore rule %s: %w", r.ID, err)
		}
	}

	autoTags, err := json.Marshal(p.Settings.AutoApplyTags)
	if err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}
	if _, err := tx.Exec(`
INSERT INTO settings (id, defaultPriority, defaultDueDateRule, defaultReminder, autoApplyTags, theme)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	defaultPriority = excluded.defaultPriority,
	defaultDueDateRule = excluded.defaultDueDateRule,
	defaultReminder = excluded.defaultReminder,
	autoApplyTags = excluded.autoApplyTags,
	theme = excluded.theme;`,
		string(p.Settings.DefaultPriority), p.Settings.DefaultDueDateRule, p.Settings.DefaultReminder,
		string(autoTags), p.Settings.Theme); err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}

	return tx.Commit()
}
