package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler interface for handling specific key combinations
type KeyHandler interface {
	HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd)
}

// KeyDispatcher handles key routing based on current state
type KeyDispatcher struct {
	handlers map[string]KeyHandler
}

// NewKeyDispatcher creates a new key dispatcher with all handlers
func NewKeyDispatcher() *KeyDispatcher {
	return &KeyDispatcher{
		handlers: map[string]KeyHandler{
			"q":      &quitHandler{},
			"ctrl+c": &quitHandler{},
			"?":      &helpHandler{},
			"esc":    &escapeHandler{},
			"g":      &navigationHandler{key: "g"},
			"G":      &navigationHandler{key: "G"},
			"y":      &yankHandler{},
			"r":      &refreshHandler{},
			"up":     &navigationHandler{key: "up"},
			"k":      &navigationHandler{key: "up"},
			"down":   &navigationHandler{key: "down"},
			"j":      &navigationHandler{key: "down"},
			"enter":  &enterHandler{},
			"b":      &backHandler{},
			"left":   &backHandler{},
			"h":      &backHandler{},
		},
	}
}

// Dispatch handles a key press by routing to the appropriate handler
func (kd *KeyDispatcher) Dispatch(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Help mode swallows everything except the keys that close it
	if m.state == stateHelp {
		switch key {
		case "q", "ctrl+c", "?", "esc":
			// These keys work in help mode - continue to handlers
		default:
			m.state = m.previousState
			m.lastKey = ""
			return m, nil
		}
	}

	if handler, exists := kd.handlers[key]; exists {
		return handler.HandleKey(m, msg)
	}

	// No specific handler - clear lastKey for any unhandled key
	m.lastKey = ""
	return m, nil
}

// quitHandler handles quit operations
type quitHandler struct{}

func (h *quitHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastKey = ""
	return m, tea.Quit
}

// helpHandler toggles help display
type helpHandler struct{}

func (h *helpHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == stateHelp {
		m.state = m.previousState
	} else {
		m.previousState = m.state
		m.state = stateHelp
	}
	m.lastKey = ""
	return m, nil
}

// escapeHandler handles escape key
type escapeHandler struct{}

func (h *escapeHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastKey = ""
	switch m.state {
	case stateHelp:
		m.state = m.previousState
	case stateProductDetail:
		m.state = stateProductList
		m.product = nil
	}
	return m, nil
}

// navigationHandler handles navigation keys including vim-style sequences
type navigationHandler struct {
	key string
}

func (h *navigationHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch h.key {
	case "g":
		if m.lastKey == "g" { // gg sequence - jump to top
			m.handleNavigation("top")
			m.lastKey = ""
			return m, nil
		}
		m.lastKey = "g"
		return m, nil
	case "G":
		m.handleNavigation("bottom")
	case "up":
		m.handleNavigation("up")
	case "down":
		m.handleNavigation("down")
	}

	m.lastKey = ""
	return m, nil
}

// yankHandler handles copy operations (yy sequence)
type yankHandler struct{}

func (h *yankHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lastKey == "y" { // yy sequence - copy product ID
		m.copyCurrentProduct()
		m.lastKey = ""
		return m, nil
	}
	m.lastKey = "y"
	return m, nil
}

// refreshHandler forces a fresh catalog load, bypassing the cached listing
type refreshHandler struct{}

func (h *refreshHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastKey = ""
	if m.state != stateProductList {
		return m, nil
	}

	// Drop the cached listing first so the reload goes to the backend
	m.client.DropCatalog(context.Background())
	m.setStatus("Refreshing...")
	return m, loadProductList(m.client)
}

// enterHandler opens the selected product
type enterHandler struct{}

func (h *enterHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastKey = ""
	if m.state != stateProductList {
		return m, nil
	}

	p := m.selectedProduct()
	if p == nil {
		return m, nil
	}

	m.loading = true
	m.state = stateLoading
	return m, loadProduct(m.client, p.ID)
}

// backHandler handles back navigation (b key)
type backHandler struct{}

func (h *backHandler) HandleKey(m *browserModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastKey = ""
	if m.state == stateProductDetail {
		m.state = stateProductList
		m.product = nil
	}
	return m, nil
}
