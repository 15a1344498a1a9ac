package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"souq/internal/config"
	"souq/internal/storefront"
	"souq/internal/utils"
)

// browserState represents the current view state
type browserState int

const (
	stateLoading browserState = iota
	stateProductList
	stateProductDetail
	stateError
	stateHelp
)

// browserModel is the main Bubble Tea model
type browserModel struct {
	state  browserState
	client *storefront.Client

	// Live updates: events carries a nudge per backend change while the
	// catalog binding is mounted; live records whether mounting succeeded.
	events chan tea.Msg
	live   bool

	// Product list state
	products   []storefront.Product
	tableModel table.Model

	// Product detail state
	product *storefront.Product

	// UI state
	loading bool
	err     error
	width   int
	height  int

	// Vim-style navigation state
	lastKey string // For tracking key sequences like 'gg'

	// Status message state
	statusMessage string
	statusExpires time.Time

	// Help state
	previousState browserState // Store previous state when showing help

	keys *KeyDispatcher
}

func newBrowserModel(client *storefront.Client, events chan tea.Msg, live bool) *browserModel {
	columns := []table.Column{
		{Title: "ID", Width: config.IDColumnWidth},
		{Title: "Name", Width: config.NameColumnWidth},
		{Title: "Price", Width: config.PriceColumnWidth},
		{Title: "Stock", Width: config.StockColumnWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(config.DefaultTableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return &browserModel{
		state:      stateLoading,
		client:     client,
		events:     events,
		live:       live,
		loading:    true,
		tableModel: t,
		keys:       NewKeyDispatcher(),
	}
}

// Messages for async operations
type productListLoadedMsg struct {
	products []storefront.Product
}

type productLoadedMsg struct {
	product *storefront.Product
}

// catalogChangedMsg is pushed by the catalog binding after it has already
// invalidated the cached listing; the model only has to reload.
type catalogChangedMsg struct{}

type errorMsg struct {
	err error
}

// Commands for async operations
func loadProductList(client *storefront.Client) tea.Cmd {
	return func() tea.Msg {
		products, ok := client.ListProducts(context.Background())
		if !ok {
			return errorMsg{fmt.Errorf("catalog unavailable: backend unreachable and nothing cached")}
		}
		return productListLoadedMsg{products}
	}
}

func loadProduct(client *storefront.Client, id string) tea.Cmd {
	return func() tea.Msg {
		product, ok := client.GetProduct(context.Background(), id)
		if !ok {
			return errorMsg{fmt.Errorf("product %q unavailable: backend unreachable and nothing cached", id)}
		}
		return productLoadedMsg{product}
	}
}

// waitForChange blocks on the live-update channel until the binding pushes
// the next nudge. Re-armed after every delivery.
func waitForChange(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// Init implements tea.Model
func (m *browserModel) Init() tea.Cmd {
	cmds := []tea.Cmd{loadProductList(m.client)}
	if m.events != nil {
		cmds = append(cmds, waitForChange(m.events))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Key presses go through the dispatcher only, so navigation is not
	// applied twice to the table component.
	if _, isKey := msg.(tea.KeyMsg); !isKey && m.state == stateProductList {
		m.tableModel, cmd = m.tableModel.Update(msg)
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == stateProductList {
			tableHeight := m.height - 8 // Account for header, footer, padding
			if tableHeight < config.MinTableHeight {
				tableHeight = config.MinTableHeight
			}
			m.tableModel.SetHeight(tableHeight)
		}
		return m, cmd

	case tea.KeyMsg:
		if !m.statusExpires.IsZero() && time.Now().After(m.statusExpires) {
			m.clearStatus()
		}
		newModel, keyCmd := m.keys.Dispatch(m, msg)
		return newModel, tea.Batch(cmd, keyCmd)

	case productListLoadedMsg:
		m.loading = false
		m.products = msg.products
		if m.state == stateLoading || m.state == stateProductList {
			m.state = stateProductList
		}
		m.updateTableRows()
		return m, nil

	case productLoadedMsg:
		m.loading = false
		m.product = msg.product
		m.state = stateProductDetail
		return m, nil

	case catalogChangedMsg:
		// The binding invalidated the cached catalog before nudging us,
		// so this reload fetches fresh data.
		m.setStatus("Catalog updated")
		return m, tea.Batch(loadProductList(m.client), waitForChange(m.events))

	case errorMsg:
		m.loading = false
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m *browserModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case stateLoading:
		return m.renderLoading()
	case stateProductList:
		return m.renderProductList()
	case stateProductDetail:
		return m.renderProductDetail()
	case stateError:
		return m.renderError()
	case stateHelp:
		return m.renderHelp()
	}
	return ""
}

// updateTableRows rebuilds the table component rows from the product list
func (m *browserModel) updateTableRows() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			p.ID,
			p.Name,
			formatPrice(p.PriceCents, p.Currency),
			fmt.Sprintf("%d", p.Stock),
		})
	}
	m.tableModel.SetRows(rows)
	if cursor := m.tableModel.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.tableModel.SetCursor(len(rows) - 1)
	}
}

// selectedProduct returns the product under the table cursor
func (m *browserModel) selectedProduct() *storefront.Product {
	idx := m.tableModel.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}
	return &m.products[idx]
}

func (m *browserModel) handleNavigation(direction string) {
	if m.state != stateProductList {
		return
	}
	switch direction {
	case "top":
		m.tableModel.GotoTop()
	case "bottom":
		m.tableModel.GotoBottom()
	case "up":
		m.tableModel.MoveUp(1)
	case "down":
		m.tableModel.MoveDown(1)
	}
}

// copyCurrentProduct copies the selected product ID to the clipboard
func (m *browserModel) copyCurrentProduct() {
	var id string
	switch m.state {
	case stateProductList:
		if p := m.selectedProduct(); p != nil {
			id = p.ID
		}
	case stateProductDetail:
		if m.product != nil {
			id = m.product.ID
		}
	}
	if id == "" {
		return
	}

	if err := utils.CopyToClipboard(id); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s", id))
}

func (m *browserModel) setStatus(msg string) {
	m.statusMessage = msg
	m.statusExpires = time.Now().Add(3 * time.Second)
}

func (m *browserModel) clearStatus() {
	m.statusMessage = ""
	m.statusExpires = time.Time{}
}
