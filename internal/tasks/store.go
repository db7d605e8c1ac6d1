// Package tasks holds the in-memory list of manual tasks shown on the
// dashboard.
package tasks

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sandeepkv93/sched/internal/model"
)

var ErrNoSelection = errors.New("tasks: no task selected for editing")

// Draft carries the editable fields of the selected task.
type Draft struct {
	ID              string
	Text            string
	Priority        model.Priority
	StartTime       *model.TimeOfDay
	DurationMinutes int
}

// Store keeps tasks in insertion order. It is not safe for concurrent use;
// all mutations happen on the UI event loop.
type Store struct {
	items    []model.Task
	selected string
	newID    func() string
}

func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// Add appends a task built from form input. Blank text is ignored; hours and
// minutes that are missing, non-numeric or negative count as zero.
func (s *Store) Add(text, hours, minutes string) (model.Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Task{}, false
	}
	task := model.Task{
		ID:              s.uniqueID(),
		Text:            trimmed,
		Priority:        model.PriorityMedium,
		DurationMinutes: DurationFrom(hours, minutes),
	}
	s.items = append(s.items, task)
	return task, true
}

func (s *Store) Toggle(id string) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	s.items[i].Done = !s.items[i].Done
	return s.items[i], true
}

func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Select opens an edit session on id and returns the prefilled draft.
func (s *Store) Select(id string) (Draft, bool) {
	i := s.index(id)
	if i < 0 {
		return Draft{}, false
	}
	s.selected = id
	t := s.items[i]
	d := Draft{
		ID:              t.ID,
		Text:            t.Text,
		Priority:        t.Priority,
		DurationMinutes: t.DurationMinutes,
	}
	if t.StartTime != nil {
		st := *t.StartTime
		d.StartTime = &st
	}
	return d, true
}

func (s *Store) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

func (s *Store) Cancel() {
	s.selected = ""
}

// Save replaces the editable fields of the selected task and closes the
// selection. A draft that fails validation leaves the selection open.
func (s *Store) Save(d Draft) (model.Task, error) {
	if s.selected == "" {
		return model.Task{}, ErrNoSelection
	}
	i := s.index(s.selected)
	if i < 0 {
		s.selected = ""
		return model.Task{}, ErrNoSelection
	}
	next := s.items[i]
	next.Text = strings.TrimSpace(d.Text)
	next.Priority = d.Priority
	next.StartTime = d.StartTime
	next.DurationMinutes = d.DurationMinutes
	if err := next.Validate(); err != nil {
		return model.Task{}, err
	}
	s.items[i] = next
	s.selected = ""
	return next, nil
}

// Load replaces the contents with tasks fetched from storage. Rows that do
// not validate and repeated ids are skipped; the number kept is returned.
func (s *Store) Load(in []model.Task) int {
	seen := make(map[string]bool, len(in))
	out := make([]model.Task, 0, len(in))
	for _, t := range in {
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if t.Validate() != nil || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	s.items = out
	s.selected = ""
	return len(out)
}

func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id string) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.items[i], true
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.index(id) < 0 {
			return id
		}
	}
}

// DurationFrom converts the hours and minutes form fields to minutes.
func DurationFrom(hours, minutes string) int {
	return leadingInt(hours)*60 + leadingInt(minutes)
}

// leadingInt mimics form number parsing: an optional sign followed by
// digits, anything after the digits is ignored.
func leadingInt(raw string) int {
	trimmed := strings.TrimSpace(raw)
	neg := false
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+") {
		neg = trimmed[0] == '-'
		trimmed = trimmed[1:]
	}
	n := 0
	digits := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if n > 1_000_000 {
			break
		}
	}
	if digits == 0 || neg {
		return 0
	}
	return n
}
