// Package storage persists tasks, lists, tags, settings and the
// Eisenhower rule set in a single SQLite database.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ticktask/internal/recur"
	"ticktask/internal/rules"
	"ticktask/internal/task"
)

// ErrNotFound reports a lookup for a row that does not exist.
var ErrNotFound = errors.New("storage: not found")

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath, applies
// pending migrations and seeds first-launch defaults.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// sqliteDSN builds a file: DSN for modernc.org/sqlite. mode=rwc creates
// the database file if it doesn't exist.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "001_initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	listId TEXT,
	tags TEXT DEFAULT '[]',
	priority TEXT DEFAULT 'none' CHECK(priority IN ('none', 'low', 'medium', 'high')),
	dueDate TEXT,
	completed INTEGER DEFAULT 0,
	recurrenceRule TEXT,
	createdAt TEXT NOT NULL,
	updatedAt TEXT NOT NULL,
	manualQuadrant TEXT CHECK(manualQuadrant IN (NULL, 'do', 'schedule', 'delegate', 'eliminate'))
);

CREATE TABLE IF NOT EXISTS lists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT DEFAULT '#6b7280',
	icon TEXT DEFAULT 'list',
	sortOrder INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	color TEXT DEFAULT '#6b7280'
);

CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY DEFAULT 1,
	defaultPriority TEXT DEFAULT 'none',
	defaultDueDateRule TEXT DEFAULT 'none',
	defaultReminder TEXT DEFAULT 'none',
	autoApplyTags TEXT DEFAULT '[]',
	theme TEXT DEFAULT 'dark'
);

CREATE TABLE IF NOT EXISTS eisenhower_rules (
	id TEXT PRIMARY KEY,
	quadrant TEXT NOT NULL CHECK(quadrant IN ('do', 'schedule', 'delegate', 'eliminate')),
	name TEXT NOT NULL,
	conditions TEXT DEFAULT '[]',
	logic TEXT DEFAULT 'AND' CHECK(logic IN ('AND', 'OR'))
);

CREATE INDEX IF NOT EXISTS idx_tasks_listId ON tasks(listId);
CREATE INDEX IF NOT EXISTS idx_tasks_dueDate ON tasks(dueDate);
CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);`,
	},
	{
		name: "002_add_reminder_field",
		sql:  `ALTER TABLE tasks ADD COLUMN reminderAt TEXT;`,
	},
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS migrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	appliedAt TEXT NOT NULL
);`)
	if err != nil {
		return err
	}

	applied := map[string]struct{}{}
	rows, err := s.db.Query(`SELECT name FROM migrations;`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		applied[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if _, ok := applied[m.name]; ok {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
		if _, err := s.db.Exec(`INSERT INTO migrations (name, appliedAt) VALUES (?, ?);`,
			m.name, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seedDefaults() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM settings WHERE id = 1;`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if err := s.UpdateSettings(task.DefaultSettings()); err != nil {
			return err
		}
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM eisenhower_rules;`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if err := s.ReplaceRules(rules.DefaultRules()); err != nil {
			return err
		}
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM lists;`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		defaults := []task.List{
			{ID: "inbox", Name: "Inbox", Color: "#3b82f6", Icon: "inbox", SortOrder: 0},
			{ID: "work", Name: "Work", Color: "#8b5cf6", Icon: "briefcase", SortOrder: 1},
			{ID: "personal", Name: "Personal", Color: "#22c55e", Icon: "home", SortOrder: 2},
		}
		for _, l := range defaults {
			if _, err := s.CreateList(l); err != nil {
				return err
			}
		}
	}
	return nil
}

const taskColumns = `id, title, description, listId, tags, priority, dueDate, completed, recurrenceRule, createdAt, updatedAt, manualQuadrant, reminderAt`

// Tasks returns every task, oldest first.
func (s *Store) Tasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY createdAt, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// TaskByID fetches a single task.
func (s *Store) TaskByID(id string) (task.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, ErrNotFound
	}
	return t, err
}

// CreateTask inserts a task, assigning an ID and timestamps when unset.
func (s *Store) CreateTask(t task.Task) (task.Task, error) {
	prepareTaskForInsert(&t, time.Now().UTC())
	if err := insertTask(s.db, t); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// UpdateTask writes every mutable field and refreshes updatedAt. A
// mutation that would leave a weekday recurrence with an empty day set
// is rejected for that field: the previous rule is retained.
func (s *Store) UpdateTask(t task.Task) error {
	if spec, ok := recur.Parse(t.RecurrenceRule); ok && spec.Validate() != nil {
		prev, err := s.TaskByID(t.ID)
		if err != nil {
			return err
		}
		t.RecurrenceRule = prev.RecurrenceRule
	}
	t.UpdatedAt = time.Now().UTC()
	t.Tags = task.NormalizeTags(t.Tags)

	res, err := s.db.Exec(`UPDATE tasks SET title = ?, description = ?, listId = ?, tags = ?, priority = ?, dueDate = ?, completed = ?, recurrenceRule = ?, updatedAt = ?, manualQuadrant = ?, reminderAt = ? WHERE id = ?;`,
		t.Title, nullString(t.Description), nullString(t.ListID), marshalTags(t.Tags), string(t.Priority),
		nullTime(t.DueDate), boolInt(t.Completed), nullString(t.RecurrenceRule),
		t.UpdatedAt.Format(time.RFC3339), nullString(string(t.ManualQuadrant)), nullTime(t.ReminderAt), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

// SetCompleted flips a task's completion state. Completing a recurring
// task spawns its next occurrence in the same transaction, so callers
// see the flip and the new instance appear atomically. The spawn only
// happens on a false→true transition read from the stored row;
// re-completing an already-completed task does nothing.
func (s *Store) SetCompleted(id string, done bool, now time.Time) (*task.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?;`, id)
	current, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if current.Completed == done {
		return nil, tx.Commit()
	}

	if _, err := tx.Exec(`UPDATE tasks SET completed = ?, updatedAt = ? WHERE id = ?;`,
		boolInt(done), now.UTC().Format(time.RFC3339), id); err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}

	var spawned *task.Task
	if done {
		if next, ok := recur.SpawnNext(current, now); ok {
			prepareTaskForInsert(&next, now.UTC())
			if err := insertTask(tx, next); err != nil {
				return nil, fmt.Errorf("spawn next occurrence: %w", err)
			}
			spawned = &next
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return spawned, nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func prepareTaskForInsert(t *task.Task, now time.Time) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	if !t.Priority.Valid() {
		t.Priority = task.PriorityNone
	}
	t.Tags = task.NormalizeTags(t.Tags)
}

func insertTask(db execer, t task.Task) error {
	_, err := db.Exec(`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		t.ID, t.Title, nullString(t.Description), nullString(t.ListID), marshalTags(t.Tags),
		string(t.Priority), nullTime(t.DueDate), boolInt(t.Completed), nullString(t.RecurrenceRule),
		t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339),
		nullString(string(t.ManualQuadrant)), nullTime(t.ReminderAt))
	return err
}

// scanner covers both *sql.Rows and *sql.Row.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var description, listID, tagsJSON, dueStr, recurRule, manual, reminderStr sql.NullString
	var priority, createdStr, updatedStr string
	var completed int

	err := row.Scan(&t.ID, &t.Title, &description, &listID, &tagsJSON, &priority, &dueStr,
		&completed, &recurRule, &createdStr, &updatedStr, &manual, &reminderStr)
	if err != nil {
		return task.Task{}, err
	}

	t.Description = description.String
	t.ListID = listID.String
	t.Priority = task.Priority(priority)
	t.Completed = completed == 1
	t.RecurrenceRule = recurRule.String
	t.ManualQuadrant = task.Quadrant(manual.String)
	t.Tags = unmarshalTags(tagsJSON.String)
	t.DueDate = parseTime(dueStr)
	t.ReminderAt = parseTime(reminderStr)
	if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
		t.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339, updatedStr); err == nil {
		t.UpdatedAt = updated
	}
	return t, nil
}

// Lists returns every list ordered by sortOrder.
func (s *Store) Lists() ([]task.List, error) {
	rows, err := s.db.Query(`SELECT id, name, color, icon, sortOrder FROM lists ORDER BY sortOrder ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []task.List
	for rows.Next() {
		var l task.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.Icon, &l.SortOrder); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// CreateList inserts a list, assigning an ID when unset.
func (s *Store) CreateList(l task.List) (task.List, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Color == "" {
		l.Color = "#6b7280"
	}
	if l.Icon == "" {
		l.Icon = "list"
	}
	_, err := s.db.Exec(`INSERT INTO lists (id, name, color, icon, sortOrder) VALUES (?, ?, ?, ?, ?);`,
		l.ID, l.Name, l.Color, l.Icon, l.SortOrder)
	if err != nil {
		return task.List{}, fmt.Errorf("create list: %w", err)
	}
	return l, nil
}

// UpdateList writes a list's fields.
func (s *Store) UpdateList(l task.List) error {
	_, err := s.db.Exec(`UPDATE lists SET name = ?, color = ?, icon = ?, sortOrder = ? WHERE id = ?;`,
		l.Name, l.Color, l.Icon, l.SortOrder, l.ID)
	return err
}

// DeleteList removes a list and clears the listId of its tasks: tasks
// hold a weak reference, never a dangling one.
func (s *Store) DeleteList(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE tasks SET listId = NULL WHERE listId = ?;`, id); err != nil {
		return fmt.Errorf("clear list references: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM lists WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return tx.Commit()
}

// Tags returns every tag ordered by name.
func (s *Store) Tags() ([]task.Tag, error) {
	rows, err := s.db.Query(`SELECT id, name, color FROM tags ORDER BY name ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []task.Tag
	for rows.Next() {
		var t task.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a tag, assigning an ID when unset.
func (s *Store) CreateTag(t task.Tag) (task.Tag, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Color == "" {
		t.Color = "#6b7280"
	}
	_, err := s.db.Exec(`INSERT INTO tags (id, name, color) VALUES (?, ?, ?);`, t.ID, t.Name, t.Color)
	if err != nil {
		return task.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// UpdateTag writes a tag's fields. Rule conditions reference tags by
// name, so a rename does not rewrite existing rules.
func (s *Store) UpdateTag(t task.Tag) error {
	_, err := s.db.Exec(`UPDATE tags SET name = ?, color = ? WHERE id = ?;`, t.Name, t.Color, t.ID)
	return err
}

// DeleteTag removes a tag.
func (s *Store) DeleteTag(id string) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = ?;`, id)
	return err
}

// Settings returns the stored defaults.
func (s *Store) Settings() (task.Settings, error) {
	var st task.Settings
	var autoTags string
	err := s.db.QueryRow(`SELECT defaultPriority, defaultDueDateRule, defaultReminder, autoApplyTags, theme FROM settings WHERE id = 1;`).
		Scan(&st.DefaultPriority, &st.DefaultDueDateRule, &st.DefaultReminder, &autoTags, &st.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return task.DefaultSettings(), nil
	}
	if err != nil {
		return task.Settings{}, err
	}
	st.AutoApplyTags = unmarshalTags(autoTags)
	return st, nil
}

// UpdateSettings writes the settings row (upsert on the fixed id=1).
func (s *Store) UpdateSettings(st task.Settings) error {
	tags, err := json.Marshal(st.AutoApplyTags)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO settings (id, defaultPriority, defaultDueDateRule, defaultReminder, autoApplyTags, theme)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	defaultPriority = excluded.defaultPriority,
	defaultDueDateRule = excluded.defaultDueDateRule,
	defaultReminder = excluded.defaultReminder,
	autoApplyTags = excluded.autoApplyTags,
	theme = excluded.theme;`,
		string(st.DefaultPriority), st.DefaultDueDateRule, st.DefaultReminder, string(tags), st.Theme)
	return err
}

// Rules returns the stored rule set. Rows with unreadable condition
// JSON load with no conditions rather than failing the whole set.
func (s *Store) Rules() ([]rules.Rule, error) {
	rows, err := s.db.Query(`SELECT id, quadrant, name, conditions, logic FROM eisenhower_rules ORDER BY quadrant ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rules.Rule
	for rows.Next() {
		var r rules.Rule
		var conditions string
		if err := rows.Scan(&r.ID, &r.Quadrant, &r.Name, &conditions, &r.Logic); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(conditions), &r.Conditions)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceRules swaps the whole rule set in one transaction. Rules are
// only ever written as a batch; there is no per-field update.
func (s *Store) ReplaceRules(ruleSet []rules.Rule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM eisenhower_rules;`); err != nil {
		return err
	}
	for _, r := range ruleSet {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		conditions, err := json.Marshal(r.Conditions)
		if err != nil {
			return fmt.Errorf("marshal conditions for %s: %w", r.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO eisenhower_rules (id, quadrant, name, conditions, logic) VALUES (?, ?, ?, ?, ?);`,
			r.ID, string(r.Quadrant), r.Name, string(conditions), string(r.Logic)); err != nil {
			return fmt.Errorf("insert rule %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func marshalTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalTags(s string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
