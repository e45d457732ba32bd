package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tmorgan318/ravenshade/internal/assets"
	"github.com/tmorgan318/ravenshade/internal/config"
	"github.com/tmorgan318/ravenshade/internal/controller"
	"github.com/tmorgan318/ravenshade/internal/poller"
	"github.com/tmorgan318/ravenshade/internal/store"
	"github.com/tmorgan318/ravenshade/pkg/state"
)

const (
	TitleText       = "RAVENSHADE MANOR"
	PlaceHolderText = "What do you say?"
)

// focusArea tells the key handler which list the cursor addresses.
type focusArea int

const (
	focusChoices focusArea = iota
	focusDestinations
	focusNPCs
	focusDialogue
)

// ConsoleUI is the BubbleTea model that runs the UI. It reads the store
// and drives the controller; all game semantics live below it.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	cfg      *config.Config
	logger   *slog.Logger
	st       *store.Store
	ctrl     *controller.Controller
	poll     *poller.Poller
	resolver *assets.Resolver

	sceneViewport viewport.Model
	metaViewport  viewport.Model
	nameInput     textinput.Model
	roleInput     textinput.Model
	dialogueInput textarea.Model

	playerName string
	playerRole string

	ready  bool
	width  int
	height int
	notice string

	// Start modal state
	showStartModal bool
	roleFocused    bool
	starting       bool

	// Quit confirmation state
	showQuitModal bool

	// List navigation
	focus      focusArea
	cursor     int
	destCursor int
	npcCursor  int

	// Progress bar state
	progressTick int
	animating    bool
}

type startedMsg struct {
	err error
}

type actionDoneMsg struct {
	what string
	err  error
}

type movePhase1Msg struct {
	dest string
	err  error
}

type movePhase2Msg struct {
	err error
}

type pollTickMsg struct{}

type statusPolledMsg struct{}

type preloadDoneMsg struct {
	kind assets.Kind
	name string
}

type progressTickMsg struct{}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	speechStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

func NewConsoleUI(cfg *config.Config, log *slog.Logger, st *store.Store, ctrl *controller.Controller, poll *poller.Poller, resolver *assets.Resolver) ConsoleUI {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 60
	name.Focus()

	role := textinput.New()
	role.Placeholder = "Your role (detective, journalist, ...)"
	role.CharLimit = 60

	dialogue := textarea.New()
	dialogue.Placeholder = PlaceHolderText
	dialogue.Prompt = promptStyle.Render(":: ")
	dialogue.CharLimit = 1000
	dialogue.SetWidth(50)
	dialogue.SetHeight(3)
	dialogue.ShowLineNumbers = false

	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		cfg:            cfg,
		logger:         log,
		st:             st,
		ctrl:           ctrl,
		poll:           poll,
		resolver:       resolver,
		sceneViewport:  sceneVp,
		metaViewport:   metaVp,
		nameInput:      name,
		roleInput:      role,
		dialogueInput:  dialogue,
		showStartModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showStartModal {
		return m.updateStartModal(msg)
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true

	case tea.MouseMsg:
		var vpCmd tea.Cmd
		m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
		return m, vpCmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Failed to %s. Please try again.", msg.what)
			m.logger.Debug("action failed", "what", msg.what, "error", msg.err)
		} else {
			m.notice = ""
			m.dialogueInput.Reset()
			m.focus = focusChoices
			m.clampCursors()
			cmds = append(cmds, m.preloadCmds()...)
		}

	case movePhase1Msg:
		if msg.err != nil {
			m.notice = "Failed to move. Please try again."
			m.logger.Debug("move phase 1 failed", "error", msg.err)
		} else {
			// Destination is visible now; fetch the arrival narrative.
			m.notice = ""
			m.focus = focusChoices
			m.clampCursors()
			cmds = append(cmds, m.completeMoveCmd())
			cmds = append(cmds, m.preloadCmds()...)
		}

	case movePhase2Msg:
		if msg.err != nil {
			m.notice = "The narrator lost the thread. Please try another action."
			m.logger.Debug("move phase 2 failed", "error", msg.err)
		} else {
			m.notice = ""
		}
		m.clampCursors()
		cmds = append(cmds, m.preloadCmds()...)

	case pollTickMsg:
		cmds = append(cmds, m.pollOnceCmd(), m.schedulePoll())

	case statusPolledMsg, preloadDoneMsg:
		// Re-render with the refreshed store state.

	case progressTickMsg:
		if m.st.Busy() {
			m.progressTick++
			cmds = append(cmds, progressTick())
		} else {
			m.animating = false
		}
	}

	if m.focus == focusDialogue {
		var taCmd tea.Cmd
		m.dialogueInput, taCmd = m.dialogueInput.Update(msg)
		cmds = append(cmds, taCmd)
	}

	if m.ready {
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())
	}
	return m, tea.Batch(cmds...)
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.st.Snapshot()

	switch msg.Type {
	case tea.KeyCtrlC:
		m.showQuitModal = true
		return m, nil

	case tea.KeyEsc:
		switch m.focus {
		case focusDialogue:
			m.ctrl.ClearNPCSelection()
			m.dialogueInput.Blur()
			m.focus = focusNPCs
		case focusDestinations:
			m.st.CloseMoveMenu()
			m.focus = focusChoices
		default:
			m.showQuitModal = true
		}
		m.refresh()
		return m, nil

	case tea.KeyTab:
		if m.focus != focusDialogue {
			m.ctrl.ToggleNarrative()
			m.refresh()
			return m, nil
		}

	case tea.KeyCtrlY:
		if text := m.st.ActiveText(); text != "" {
			if err := clipboard.WriteAll(text); err == nil {
				m.notice = "Narrative copied to clipboard."
			}
		}
		m.refresh()
		return m, nil

	case tea.KeyLeft, tea.KeyRight:
		if m.focus == focusDialogue {
			break // let the textarea handle cursor movement
		}
		if m.focus == focusChoices && len(snap.NPCs) > 0 {
			m.focus = focusNPCs
		} else if m.focus == focusNPCs {
			m.focus = focusChoices
		}
		m.refresh()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		if m.focus == focusDialogue {
			break
		}
		if msg.Type == tea.KeyUp {
			m.moveCursor(-1, snap)
		} else {
			m.moveCursor(1, snap)
		}
		m.refresh()
		return m, nil

	case tea.KeyEnter:
		return m.handleEnter(snap)
	}

	if m.focus == focusDialogue {
		var taCmd tea.Cmd
		m.dialogueInput, taCmd = m.dialogueInput.Update(msg)
		m.st.SetPendingDialogue(m.dialogueInput.Value())
		m.refresh()
		return m, taCmd
	}

	m.refresh()
	return m, nil
}

func (m *ConsoleUI) moveCursor(delta int, snap state.Snapshot) {
	switch m.focus {
	case focusChoices:
		m.cursor = clamp(m.cursor+delta, 0, len(snap.Choices)-1)
	case focusDestinations:
		m.destCursor = clamp(m.destCursor+delta, 0, len(snap.Location.Connections)-1)
	case focusNPCs:
		m.npcCursor = clamp(m.npcCursor+delta, 0, len(snap.NPCs)-1)
	}
}

func (m ConsoleUI) handleEnter(snap state.Snapshot) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusChoices:
		if len(snap.Choices) == 0 {
			return m, nil
		}
		outcome, err := m.ctrl.ToggleChoice(m.cursor)
		if err != nil {
			m.notice = "Please wait for the current action to finish."
			m.refresh()
			return m, nil
		}
		switch outcome {
		case controller.OpenedMoveMenu:
			m.focus = focusDestinations
			m.destCursor = 0
		case controller.SelectedTalk:
			if len(snap.NPCs) > 0 {
				m.focus = focusNPCs
			}
		case controller.ReadyToSubmit:
			m.beginAnimation()
			m.refresh()
			return m, tea.Batch(m.submitChoiceCmd(), progressTick())
		}
		m.refresh()
		return m, nil

	case focusDestinations:
		conns := snap.Location.Connections
		if len(conns) == 0 {
			return m, nil
		}
		dest := conns[m.destCursor]
		m.beginAnimation()
		m.refresh()
		return m, tea.Batch(m.beginMoveCmd(dest), progressTick())

	case focusNPCs:
		if len(snap.NPCs) == 0 {
			return m, nil
		}
		m.ctrl.SelectNPC(m.npcCursor)
		m.focus = focusDialogue
		m.dialogueInput.Reset()
		m.dialogueInput.Focus()
		m.refresh()
		return m, textarea.Blink

	case focusDialogue:
		text := strings.TrimSpace(m.dialogueInput.Value())
		if text == "" {
			m.notice = "Say something first."
			m.refresh()
			return m, nil
		}
		m.st.SetPendingDialogue(text)
		m.beginAnimation()
		m.refresh()
		return m, tea.Batch(m.submitDialogueCmd(text), progressTick())
	}

	return m, nil
}

// refresh rewrites both panels from the store.
func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	m.writeSceneContent()
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m *ConsoleUI) beginAnimation() {
	m.progressTick = 0
	m.animating = true
}

func (m *ConsoleUI) clampCursors() {
	snap := m.st.Snapshot()
	m.cursor = clamp(m.cursor, 0, max(0, len(snap.Choices)-1))
	m.npcCursor = clamp(m.npcCursor, 0, max(0, len(snap.NPCs)-1))
	m.destCursor = clamp(m.destCursor, 0, max(0, len(snap.Location.Connections)-1))
}

func (m *ConsoleUI) layout() {
	sceneWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - sceneWidth - 6

	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 8
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.dialogueInput.SetWidth(sceneWidth - 4)
}

// Commands

func (m ConsoleUI) startGameCmd(name, role string) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.ctrl.StartGame(context.Background(), name, role)}
	}
}

func (m ConsoleUI) submitChoiceCmd() tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{what: "submit your choice", err: m.ctrl.SubmitSelectedChoice(context.Background())}
	}
}

func (m ConsoleUI) submitDialogueCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{what: "deliver your line", err: m.ctrl.SubmitDialogue(context.Background(), text)}
	}
}

func (m ConsoleUI) beginMoveCmd(dest string) tea.Cmd {
	return func() tea.Msg {
		return movePhase1Msg{dest: dest, err: m.ctrl.BeginMove(context.Background(), dest)}
	}
}

func (m ConsoleUI) completeMoveCmd() tea.Cmd {
	return func() tea.Msg {
		return movePhase2Msg{err: m.ctrl.CompleteMove(context.Background())}
	}
}

func (m ConsoleUI) pollOnceCmd() tea.Cmd {
	return func() tea.Msg {
		m.poll.PollOnce(context.Background())
		return statusPolledMsg{}
	}
}

func (m ConsoleUI) schedulePoll() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// preloadCmds starts image preloads for the current location and every
// NPC present, using the snapshot timestamp as the cache token.
func (m ConsoleUI) preloadCmds() []tea.Cmd {
	snap := m.st.Snapshot()
	cmds := make([]tea.Cmd, 0, len(snap.NPCs)+1)
	if snap.Location.Name != "" {
		cmds = append(cmds, m.preloadCmd(assets.KindLocation, snap.Location.Name, snap.Timestamp))
	}
	for _, npc := range snap.NPCs {
		cmds = append(cmds, m.preloadCmd(assets.KindNPC, npc.Name, snap.Timestamp))
	}
	return cmds
}

func (m ConsoleUI) preloadCmd(kind assets.Kind, name string, token int64) tea.Cmd {
	return func() tea.Msg {
		m.resolver.Preload(context.Background(), kind, name, token)
		return preloadDoneMsg{kind: kind, name: name}
	}
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// Start modal

func (m ConsoleUI) updateStartModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case startedMsg:
		m.starting = false
		if msg.err != nil {
			m.notice = fmt.Sprintf("Failed to start the game: %v", msg.err)
			return m, nil
		}
		m.showStartModal = false
		m.notice = ""
		m.ready = true
		m.refresh()
		return m, tea.Batch(tea.Batch(m.preloadCmds()...), m.schedulePoll())

	case tea.KeyMsg:
		if m.starting {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyTab, tea.KeyUp, tea.KeyDown:
			m.roleFocused = !m.roleFocused
			if m.roleFocused {
				m.nameInput.Blur()
				m.roleInput.Focus()
			} else {
				m.roleInput.Blur()
				m.nameInput.Focus()
			}
			return m, textinput.Blink

		case tea.KeyEnter:
			if !m.roleFocused {
				m.roleFocused = true
				m.nameInput.Blur()
				m.roleInput.Focus()
				return m, textinput.Blink
			}
			name := strings.TrimSpace(m.nameInput.Value())
			role := strings.TrimSpace(m.roleInput.Value())
			if name == "" || role == "" {
				m.notice = "Both a name and a role are required."
				return m, nil
			}
			m.playerName = name
			m.playerRole = role
			m.starting = true
			return m, m.startGameCmd(name, role)
		}
	}

	var niCmd, riCmd tea.Cmd
	m.nameInput, niCmd = m.nameInput.Update(msg)
	m.roleInput, riCmd = m.roleInput.Update(msg)
	return m, tea.Batch(niCmd, riCmd)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
				if m.focus == focusDialogue {
					m.dialogueInput.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

// Rendering

func (m *ConsoleUI) writeSceneContent() {
	snap := m.st.Snapshot()
	width := m.sceneViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(TitleText) + "\n\n")
	content.WriteString(locationStyle.Render(snap.Location.Name) + "\n")
	if snap.Location.Description != "" {
		content.WriteString(wordwrap.String(snap.Location.Description, width) + "\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	// Narrative panel: the active saved slot, with a hint when the other
	// slot has content.
	if text := m.st.ActiveText(); text != "" {
		content.WriteString(narrativeStyle.Render(wordwrap.String(text, width)) + "\n")
	}
	if m.st.SavedFollowup() != "" {
		label := "Tab: show followup"
		if m.st.ShowingFollowup() {
			label = "Tab: show narrative"
		}
		content.WriteString(promptStyle.Render(label) + "\n")
	}
	content.WriteString("\n")

	// Dialogue bubbles from the last exchange.
	for _, r := range snap.NPCResponses {
		line := fmt.Sprintf("%s %s", r.Name, r.Action)
		content.WriteString(locationStyle.Render(line) + "\n")
		content.WriteString(speechStyle.Render(wordwrap.String("“"+r.Speech+"”", width)) + "\n\n")
	}

	// Characters present.
	if len(snap.NPCs) > 0 {
		content.WriteString("Characters present:\n")
		for i, npc := range snap.NPCs {
			content.WriteString(m.renderNPCLine(snap, i, npc, width))
		}
		content.WriteString("\n")
	}

	// Choices.
	if len(snap.Choices) > 0 {
		content.WriteString("Your choices:\n")
		for i, choice := range snap.Choices {
			content.WriteString(m.renderChoiceLine(i, choice))
		}
	}

	// Destination submenu.
	if m.st.MoveMenuOpen() {
		content.WriteString("\nWhere to?\n")
		for i, conn := range snap.Location.Connections {
			marker := "  "
			line := conn
			if m.focus == focusDestinations && i == m.destCursor {
				marker = "▶ "
				line = selectedItemStyle.Render(conn)
			}
			content.WriteString(fmt.Sprintf("  %s%s\n", marker, line))
		}
	}

	if m.st.Busy() {
		content.WriteString("\n" + m.renderProgressBar())
	}

	m.sceneViewport.SetContent(content.String())
}

func (m *ConsoleUI) renderNPCLine(snap state.Snapshot, i int, npc state.NPC, width int) string {
	display := npc.Name
	if m.resolver.State(assets.KindNPC, npc.Name) == assets.LoadFailed {
		display = m.resolver.Placeholder(npc.Name)
	}

	marker := "  "
	if m.focus == focusNPCs && i == m.npcCursor {
		marker = "▶ "
		display = selectedItemStyle.Render(display)
	} else if i == m.st.SelectedNPC() {
		display = locationStyle.Render(display)
	} else {
		display = itemStyle.Render(display)
	}

	line := fmt.Sprintf("  %s%s", marker, display)
	if npc.Description != "" && i == m.npcCursor && m.focus == focusNPCs {
		line += "\n" + promptStyle.Render(wordwrap.String("    "+npc.Description, width))
	}
	return line + "\n"
}

func (m *ConsoleUI) renderChoiceLine(i int, choice state.Choice) string {
	marker := "  "
	label := choice.Label
	switch {
	case i == m.st.SelectedChoice():
		label = selectedItemStyle.Render(label)
	case m.focus == focusChoices && i == m.cursor:
		label = locationStyle.Render(label)
	default:
		label = itemStyle.Render(label)
	}
	if m.focus == focusChoices && i == m.cursor {
		marker = "▶ "
	}
	return fmt.Sprintf("  %s%s\n", marker, label)
}

func (m *ConsoleUI) writeMetadata() string {
	snap := m.st.Snapshot()
	var content strings.Builder
	content.WriteString(titleStyle.Render("CASE FILE") + "\n\n")

	content.WriteString("Investigator:\n")
	content.WriteString(fmt.Sprintf("%s (%s)\n\n", m.playerName, m.playerRole))

	content.WriteString("Location:\n")
	content.WriteString(snap.Location.Name + "\n\n")

	if snap.Location.Name != "" {
		content.WriteString("Scene art:\n")
		content.WriteString(m.resolver.ImageURL(assets.KindLocation, snap.Location.Name, snap.Timestamp) + "\n\n")
	}

	if snap.EventSummary != "" {
		content.WriteString("Notes so far:\n")
		content.WriteString(wordwrap.String(snap.EventSummary, m.metaViewport.Width-2) + "\n\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• ↑/↓: Navigate\n")
	content.WriteString("• ←/→: Switch list\n")
	content.WriteString("• Enter: Select\n")
	content.WriteString("• Tab: Narrative/followup\n")
	content.WriteString("• Ctrl+Y: Copy text\n")
	content.WriteString("• Esc: Back / quit\n")

	return content.String()
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showStartModal {
		return m.renderStartModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - sceneWidth - 6

	lower := make([]string, 0, 3)
	lower = append(lower, separatorStyle.Render(strings.Repeat("─", max(10, sceneWidth-4))))
	if m.focus == focusDialogue {
		lower = append(lower, m.dialogueInput.View())
	}
	if m.notice != "" {
		lower = append(lower, errorStyle.Render(m.notice))
	}

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			append([]string{m.sceneViewport.View(), ""}, lower...)...,
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

func (m ConsoleUI) renderStartModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	if m.starting {
		content.WriteString(modalTitleStyle.Render("Opening the case..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The manor gates creak open..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Who are you?"))
		content.WriteString("\n\n")
		content.WriteString(m.nameInput.View())
		content.WriteString("\n")
		content.WriteString(m.roleInput.View())
		content.WriteString("\n\n")
		if m.notice != "" {
			content.WriteString(errorStyle.Render(m.notice) + "\n\n")
		}
		content.WriteString(promptStyle.Render("Tab to switch fields, Enter to begin, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the manor?"))
	content.WriteString("\n\n")
	content.WriteString("The mystery will remain unsolved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

// renderProgressBar creates the animated bar shown while the busy flag
// is set.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.sceneViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return loadingStyle.Render("The story unfolds...") + "\n" + separatorStyle.Render(bar.String())
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
