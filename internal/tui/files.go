package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"chipview/internal/layout"
)

// hostPayloadName is the file the host rewrites next to every push.
const hostPayloadName = "nets_json"

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// statusMsg replaces the status line.
type statusMsg string

func isPayloadFile(name string) bool {
	return name == hostPayloadName || strings.EqualFold(filepath.Ext(name), ".json")
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isPayloadFile(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: filepath.Ext(name), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 && m.showSidebar {
		m.status = "no payload files in " + m.cwd
	}
}

// pushPath reads a payload file and hands it to the ingress hook. The result
// comes back as a ChipDataMsg through the hook's notify callback.
func (m *Model) pushPath(p string) tea.Cmd {
	m.selPath = p
	m.status = "loading " + filepath.Base(p)
	hook := m.hook
	return func() tea.Msg {
		payload, err := layout.ReadFile(p)
		if err != nil {
			return statusMsg("load error: " + err.Error())
		}
		hook.Deliver("file", payload)
		return nil
	}
}

// pushPaste parses pasted JSON and hands it to the ingress hook.
func (m *Model) pushPaste(text string) tea.Cmd {
	payload, err := layout.Unmarshal([]byte(text))
	if err != nil {
		m.status = "paste error: " + err.Error()
		return nil
	}
	hook := m.hook
	return func() tea.Msg {
		hook.Deliver("paste", payload)
		return nil
	}
}
