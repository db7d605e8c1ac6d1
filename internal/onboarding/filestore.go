package onboarding

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandeepkv93/sched/internal/model"
)

type fileState struct {
	Flags   map[string]bool          `json:"flags"`
	Answers *model.OnboardingAnswers `json:"answers,omitempty"`
}

// FileStore keeps flags and answers in a small JSON document. An empty
// path disables persistence and keeps everything in memory.
type FileStore struct {
	path string

	mu    sync.Mutex
	state fileState
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: strings.TrimSpace(path), state: fileState{Flags: map[string]bool{}}}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) Get(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Flags[key], nil
}

func (f *FileStore) Set(_ context.Context, key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.state.Flags[key]
	if value {
		f.state.Flags[key] = true
	} else {
		delete(f.state.Flags, key)
	}
	if err := f.persist(); err != nil {
		if had {
			f.state.Flags[key] = prev
		} else {
			delete(f.state.Flags, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) LoadAnswers(_ context.Context) (*model.OnboardingAnswers, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Answers == nil {
		return nil, nil
	}
	out := *f.state.Answers
	return &out, nil
}

func (f *FileStore) SaveAnswers(_ context.Context, answers model.OnboardingAnswers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.state.Answers
	f.state.Answers = &answers
	if err := f.persist(); err != nil {
		f.state.Answers = prev
		return err
	}
	return nil
}

func (f *FileStore) ClearAnswers(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.state.Answers
	if prev == nil {
		return nil
	}
	f.state.Answers = nil
	if err := f.persist(); err != nil {
		f.state.Answers = prev
		return err
	}
	return nil
}

func (f *FileStore) load() error {
	if f.path == "" {
		return nil
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}
	var st fileState
	if err := json.Unmarshal(raw, &st); err != nil {
		return err
	}
	if st.Flags == nil {
		st.Flags = map[string]bool{}
	}
	f.state = st
	return nil
}

func (f *FileStore) persist() error {
	if f.path == "" {
		return nil
	}
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
