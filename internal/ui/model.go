package ui

import (
	"context"
	"strings"

	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/notify"
	"qkart/storefront/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusSearch focusArea = iota
	focusProducts
	focusCart
)

// StateChangedMsg tells the model to re-read the storefront snapshot
type StateChangedMsg struct{}

type mountedMsg struct{}

// Model is the product list page
type Model struct {
	ctx    context.Context
	store  *service.Storefront
	board  *notify.Board
	styles Styles

	search  textinput.Model
	spinner spinner.Model

	view       service.View
	focus      focusArea
	cursor     int
	cartCursor int
	width      int
	mounted    bool
}

func NewModel(ctx context.Context, store *service.Storefront, board *notify.Board) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for items/categories"
	ti.Prompt = "🔍 "
	ti.CharLimit = 128
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		store:   store,
		board:   board,
		styles:  DefaultStyles(),
		search:  ti,
		spinner: sp,
		view:    store.Snapshot(),
		width:   100,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.mount())
}

func (m Model) mount() tea.Cmd {
	store, ctx, query := m.store, m.ctx, m.search.Value()
	return func() tea.Msg {
		_ = store.Mount(ctx, query)
		return mountedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case StateChangedMsg:
		m.refresh()
		return m, nil

	case mountedMsg:
		m.mounted = true
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.cycleFocus()
		return m, nil
	case "ctrl+r":
		store, ctx := m.store, m.ctx
		return m, func() tea.Msg {
			store.Refresh(ctx)
			return StateChangedMsg{}
		}
	}

	switch m.focus {
	case focusSearch:
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			m.store.OnQueryChange(after)
		}
		return m, cmd

	case focusProducts:
		switch msg.String() {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, max(len(m.view.Products)-1, 0))
		case "enter", "a":
			if m.cursor < len(m.view.Products) {
				return m, m.addToCart(m.view.Products[m.cursor].ID)
			}
		}

	case focusCart:
		switch msg.String() {
		case "up", "k":
			m.cartCursor = max(m.cartCursor-1, 0)
		case "down", "j":
			m.cartCursor = min(m.cartCursor+1, max(len(m.view.Cart)-1, 0))
		case "+", "=":
			if line, ok := m.selectedCartLine(); ok {
				return m, m.setQuantity(line.ProductID, line.Qty+1)
			}
		case "-":
			if line, ok := m.selectedCartLine(); ok {
				return m, m.setQuantity(line.ProductID, line.Qty-1)
			}
		}
	}

	return m, nil
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case focusSearch:
		m.focus = focusProducts
		m.search.Blur()
	case focusProducts:
		if m.view.LoggedIn {
			m.focus = focusCart
		} else {
			m.focus = focusSearch
			m.search.Focus()
		}
	default:
		m.focus = focusSearch
		m.search.Focus()
	}
}

func (m *Model) refresh() {
	m.view = m.store.Snapshot()
	m.cursor = min(m.cursor, max(len(m.view.Products)-1, 0))
	m.cartCursor = min(m.cartCursor, max(len(m.view.Cart)-1, 0))
}

func (m Model) selectedCartLine() (domain.CartLine, bool) {
	if m.cartCursor >= len(m.view.Cart) {
		return domain.CartLine{}, false
	}
	return m.view.Cart[m.cartCursor].CartLine, true
}

func (m Model) addToCart(productID string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_ = store.AddToCart(ctx, productID)
		return StateChangedMsg{}
	}
}

func (m Model) setQuantity(productID string, qty int) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_ = store.SetQuantity(ctx, productID, qty)
		return StateChangedMsg{}
	}
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("QKart"))
	sb.WriteString("  ")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")

	catalog := m.renderCatalog()
	if m.view.LoggedIn {
		cartCursor := noCursor
		if m.focus == focusCart {
			cartCursor = m.cartCursor
		}
		cart := m.panel(focusCart).Render(RenderCart(m.view, m.styles, cartCursor))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, catalog, " ", cart))
	} else {
		sb.WriteString(catalog)
	}

	if notes := RenderNotifications(m.board.Active(), m.styles); notes != "" {
		sb.WriteString("\n\n")
		sb.WriteString(notes)
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render("tab: switch focus • enter/a: add to cart • +/-: quantity • ctrl+r: refresh • esc: quit"))
	return sb.String()
}

func (m Model) renderCatalog() string {
	var body string
	if m.view.State == domain.CatalogLoading {
		body = m.spinner.View() + " " + LoadingText
	} else {
		cursor := noCursor
		if m.focus == focusProducts {
			cursor = m.cursor
		}
		body = RenderCatalog(m.view, m.styles, cursor)
	}
	style := m.panel(focusProducts)
	if m.view.LoggedIn {
		style = style.Width(max(m.width*2/3, 40))
	}
	return style.Render(body)
}

// Mounted reports whether the initial catalog and cart loads finished
func (m Model) Mounted() bool {
	return m.mounted
}

func (m Model) panel(area focusArea) lipgloss.Style {
	if m.focus == area {
		return m.styles.Focused
	}
	return m.styles.Panel
}
