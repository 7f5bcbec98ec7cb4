// Package nav abstracts the view router. The core never performs network
// I/O through it; it only changes navigation and parameter state that
// downstream resources observe.
package nav

import "sync"

type Navigator interface {
	CurrentPath() string
	Push(path string)
	SetParam(key, value string)
}

// Memory is an in-process Navigator for tests and headless runs.
type Memory struct {
	mu     sync.Mutex
	path   string
	params map[string]string
	pushes []string
}

func NewMemory(initialPath string) *Memory {
	return &Memory{path: initialPath, params: make(map[string]string)}
}

func (m *Memory) CurrentPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

func (m *Memory) Push(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
	m.pushes = append(m.pushes, path)
}

func (m *Memory) SetParam(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params[key] = value
}

func (m *Memory) Param(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params[key]
}

func (m *Memory) Pushes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.pushes...)
}
