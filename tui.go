package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"journeymap/internal/config"
	"journeymap/internal/drag"
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	modeStyle    = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	panelStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).PaddingLeft(1)
	selectStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	disableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
)

// newModel loads the map for brand and campaign and wires the drag
// controller to it.
func newModel(cfg *config.Config, log *zap.Logger, repo *journey.Repository, catalog []journey.Content, brand, campaign string) model {
	m := model{
		cfg:     cfg,
		log:     log,
		mouse:   &mouseTracking{},
		notices: &noticeLog{},
		catalog: catalog,
	}
	m.orch = journey.NewOrchestrator(repo, journey.Options{
		Logger:   log,
		Notifier: m.notices,
		Timeout:  cfg.Storage.Timeout.Duration,
	})
	l := m.layout()
	m.ctrl = drag.New(m.orch, drag.Options{
		Size:      l.size,
		Threshold: cfg.Canvas.Threshold,
		DotRadius: l.dotRadius(),
		Listeners: m.mouse,
	})

	m.campaigns = campaignList(catalog, campaign)
	for i, c := range m.campaigns {
		if strings.EqualFold(c, campaign) || (journey.IsAllCampaigns(c) && journey.IsAllCampaigns(campaign)) {
			m.campaignIdx = i
		}
	}
	// A failed load has already raised a notice; the canvas starts empty.
	_ = m.orch.Switch(brand, m.campaigns[m.campaignIdx])
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.mouse.flush()

	case tea.KeyMsg:
		var quit bool
		switch m.mode {
		case ModeHelp:
			m.handleHelpKey(msg)
		case ModeRename:
			m.handleRenameKey(msg)
		case ModeConfirm:
			m.handleConfirmKey(msg)
		default:
			quit = m.handleKey(msg)
		}
		cmd := m.mouse.flush()
		if quit {
			return m, tea.Batch(cmd, tea.Quit)
		}
		return m, cmd
	}
	return m, nil
}

// handleMouse routes by Action: bubbletea reports a motion with the left
// button held as Type MouseLeft, so Type alone cannot tell a press from a
// drag step.
func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.mode != ModeNormal {
		return
	}
	p := m.layout().toPixel(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if !m.inCanvas(msg.X, msg.Y) {
			m.clickCatalog(msg.X, msg.Y)
			return
		}
		m.pointer, m.hasPointer = p, true
		if m.armed {
			m.dropSelected(p)
			return
		}
		m.ctrl.OnPointerDown(p)
	case tea.MouseActionMotion:
		m.pointer, m.hasPointer = p, true
		m.ctrl.OnPointerMove(p)
	case tea.MouseActionRelease:
		m.pointer, m.hasPointer = p, true
		m.ctrl.OnPointerUp(p)
	}
}

// handleKey handles normal mode and reports whether to quit.
func (m *model) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		m.ctrl.Teardown()
		return true
	case "esc":
		switch {
		case m.ctrl.OnKeyEscape():
			m.notices.info("Connection cancelled")
		case m.armed:
			m.armed = false
		default:
			m.notices.clear()
		}
	case "?":
		m.mode = ModeHelp
		m.helpScroll = 0
	case "u":
		m.undo()
	case "U", "ctrl+r":
		m.redo()
	case "d":
		if n, ok := m.nodeUnderPointer(); ok {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteNode
			m.confirmNodeID = n.ID
		}
	case "x":
		m.removeConnectionUnderPointer()
	case "c":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClear
	case "r":
		m.ctrl.Teardown()
		m.mode = ModeRename
		m.editText = m.orch.Title()
	case "{":
		m.switchCampaign(-1)
	case "}":
		m.switchCampaign(1)
	case "up":
		m.moveCatalogSelection(-1)
	case "down":
		m.moveCatalogSelection(1)
	case "enter":
		m.armSelected()
	case "p":
		m.pasteDrop()
	case "s":
		m.exportJSON()
	case "S":
		m.exportPNG()
	case "y":
		m.copyJSON()
	case "t":
		m.exportVisualTXT()
	case "a":
		m.arrangeJourney()
	case "0":
		m.panX, m.panY = 0, 0
	default:
		m.handlePan(msg.String())
	}
	return false
}

func (m *model) handleRenameKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
	case tea.KeyEnter:
		m.mode = ModeNormal
		title := strings.TrimSpace(m.editText)
		if title == "" || title == m.orch.Title() {
			return
		}
		if err := m.orch.RenameTitle(title); err == nil {
			m.notices.info("Renamed to " + title)
		}
	case tea.KeyBackspace:
		if r := []rune(m.editText); len(r) > 0 {
			m.editText = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.editText += " "
	case tea.KeyRunes:
		m.editText += string(msg.Runes)
	}
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) {
	m.mode = ModeNormal
	switch msg.String() {
	case "y", "Y", "enter":
	default:
		return
	}
	switch m.confirmAction {
	case ConfirmClear:
		m.ctrl.Teardown()
		if err := m.orch.Clear(); err == nil {
			m.notices.info("Journey cleared")
		}
	case ConfirmDeleteNode:
		m.ctrl.Teardown()
		_ = m.orch.RemoveNode(m.confirmNodeID)
	}
	m.confirmNodeID = ""
}

func (m *model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		m.helpScroll++
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.mode = ModeNormal
	}
}

func (m *model) nodeUnderPointer() (journey.Node, bool) {
	if !m.hasPointer {
		return journey.Node{}, false
	}
	return topmostNodeAt(m.orch.Nodes(), m.nodeSize(), m.pointer)
}

func (m *model) removeConnectionUnderPointer() {
	if !m.hasPointer {
		return
	}
	conn, ok := nearestConnection(m.orch.Nodes(), m.orch.Connections(), m.nodeSize(), m.pointer, m.cfg.Canvas.CellHeight)
	if !ok {
		m.notices.info("No connection under the pointer")
		return
	}
	_ = m.orch.RemoveConnection(conn.ID)
}

// dropSelected drops the armed catalog record the same way an external
// drag would: as a JSON payload released at p.
func (m *model) dropSelected(p geometry.Point) {
	m.armed = false
	record, ok := m.selectedRecord()
	if !ok {
		return
	}
	payload, err := journey.EncodePayload(record)
	if err != nil {
		m.notices.error("Could not add content")
		return
	}
	_, _, _ = m.orch.Drop(payload, p)
}

func (m *model) pasteDrop() {
	text, err := readClipboardText()
	if err != nil {
		m.log.Warn("read clipboard", zap.Error(err))
		m.notices.error("Could not read the clipboard")
		return
	}
	p := m.pointer
	if !m.hasPointer {
		p = m.layout().toPixel(m.canvasWidth()/2, m.canvasHeight()/2+1)
	}
	if _, ok, err := m.orch.Drop(cleanClipboardText(text), p); !ok && err == nil {
		m.notices.info("Clipboard is empty")
	}
}

func (m model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}

	header := titleStyle.Render(m.orch.Title()) + subtleStyle.Render(fmt.Sprintf("  %s · %s", brandLabel(m.orch.Brand()), campaignLabel(m.orch.Campaign())))

	canvas := NewCanvas(m.layout(), m.canvasWidth(), m.canvasHeight(), m.orch.Nodes(), m.orch.Connections())
	switch state := m.ctrl.State(); state.Mode {
	case drag.DraggingNode:
		canvas.Select(state.NodeID)
	case drag.DrawingConnection:
		canvas.Select(state.NodeID)
		if seg, ok := m.ctrl.Preview(); ok {
			canvas.SetPreview(seg)
		}
		if match, ok := m.ctrl.Resolve(state.Pointer); ok {
			canvas.SetSnap(match)
		}
	}
	body := strings.Join(canvas.Render(), "\n")
	if m.width > catalogWidth {
		panel := panelStyle.Height(m.canvasHeight()).Render(strings.Join(m.catalogLines(), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}

	return header + "\n" + body + "\n" + m.statusLine()
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeRename:
		return modeStyle.Render("RENAME") + " Title: " + m.editText + "█"
	case ModeConfirm:
		return modeStyle.Render("CONFIRM") + " " + m.confirmPrompt() + " (y/n)"
	}
	status := modeStyle.Render(m.modeString()) +
		subtleStyle.Render(fmt.Sprintf(" %d nodes · %d connections ", len(m.orch.Nodes()), len(m.orch.Connections())))
	if m.armed {
		if r, ok := m.selectedRecord(); ok {
			status += infoStyle.Render("click the canvas to place " + r.Name)
			return status
		}
	}
	switch n := m.notices.last; {
	case n.Message == "":
		status += subtleStyle.Render("? for help")
	case n.Level == journey.LevelError:
		status += errorStyle.Render(n.Message)
	default:
		status += infoStyle.Render(n.Message)
	}
	return status
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmClear:
		return "Clear every node and connection?"
	case ConfirmDeleteNode:
		if n, ok := m.orch.Node(m.confirmNodeID); ok {
			return fmt.Sprintf("Delete %q and its connections?", n.Content.Name)
		}
	}
	return "Are you sure?"
}

func (m model) modeString() string {
	switch m.ctrl.State().Mode {
	case drag.DraggingNode:
		return "MOVE"
	case drag.DrawingConnection:
		return "CONNECT"
	}
	if m.armed {
		return "PLACE"
	}
	return "NORMAL"
}

func brandLabel(brand string) string {
	if brand == "" {
		return "no brand"
	}
	return brand
}

func campaignLabel(campaign string) string {
	if journey.IsAllCampaigns(campaign) {
		return "all campaigns"
	}
	return campaign
}
