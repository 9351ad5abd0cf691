package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/app"
	"github.com/hylla/kanto/internal/cloud"
	"github.com/hylla/kanto/internal/config"
	"github.com/hylla/kanto/internal/domain"
	"github.com/hylla/kanto/internal/history"
	"github.com/hylla/kanto/internal/storage"
	"github.com/hylla/kanto/internal/textbox"
	"github.com/hylla/kanto/internal/uistate"
)

// historyLimit bounds the undo log; textboxHeight is the description
// editor viewport inside the card popup.
const (
	historyLimit   = 100
	textboxHeight  = 8
	logLinesLimit  = 200
	resetLinkEvery = 30 * time.Second
)

// Model represents model data used by this package. All mutable state of
// the running application lives here; the update loop is its only writer.
type Model struct {
	cfg    config.Config
	theme  Theme
	keys   keyMap
	help   help.Model
	logger *charmLog.Logger
	svc    *app.Service
	runner *app.Runner

	now func() time.Time

	boards     domain.Boards
	filtered   domain.Boards
	filterTags []string
	proj       *domain.Projection
	sel        domain.Selection
	hist       *history.Log

	view     uistate.ViewMode
	prevView uistate.ViewMode
	popup    uistate.PopupMode
	focus    uistate.Focus
	status   uistate.AppStatus

	width  int
	height int
	ready  bool

	toasts   []Toast
	logLines []string

	session      cloud.Session
	resetLimiter *cloud.ResetRateLimit

	// new-board / new-card forms
	boardNameInput textinput.Model
	boardDescInput textinput.Model
	cardNameInput  textinput.Model
	cardDueInput   textinput.Model
	cardDescBox    *textbox.TextBox

	// auth forms
	emailInput           textinput.Model
	passwordInput        textinput.Model
	confirmPasswordInput textinput.Model
	rememberMe           bool

	// card view popup; cardEdit accumulates uncommitted field edits
	cardEdit         *domain.Card
	cardEditBase     domain.Card
	cardEditBoardID  uuid.UUID
	cardDescEdit     *textbox.TextBox
	cardTagsInput    textinput.Model
	cardCommentInput textinput.Model

	// command palette
	paletteInput  textinput.Model
	paletteCmds   []paletteCommand
	paletteCards  []paletteCardMatch
	paletteBoards []paletteBoardMatch
	paletteIndex  int

	// list selectors
	statusIndex     int
	priorityIndex   int
	viewModeIndex   int
	themeIndex      int
	dateFormatIndex int
	mainMenuIndex   int
	configIndex     int
	keybindIndex    int
	keybindAction   string

	// filter popup
	filterChoices  []string
	filterSelected map[string]bool
	filterIndex    int

	// save browsers
	localSaves []storage.SaveFile
	cloudSaves []cloud.SaveRecord
	saveIndex  int

	// general config editor
	configInput textinput.Model

	// theme editor
	themeEdit      Theme
	themeEditSpec  map[StyleSlot]styleSpec
	themeSlotIndex int
	rgbInput       textinput.Model
	rgbTargetBG    bool
	extraThemes    []Theme

	// mouse state
	hoverBoard *uuid.UUID
	hoverCard  *uuid.UUID
	dragCard   *uuid.UUID
	dragBoard  *uuid.UUID

	quitting bool
}

// Messages delivered back from the I/O runner and the ticker.

type tickMsg time.Time

type sessionMsg struct {
	sess cloud.Session
	err  error
	auto bool
}

type signUpDoneMsg struct {
	email string
	err   error
}

type logoutDoneMsg struct{ err error }

type resetLinkMsg struct{ err error }

type passwordUpdatedMsg struct{ err error }

type savedMsg struct {
	name string
	err  error
}

type localSavesMsg struct {
	files []storage.SaveFile
	err   error
}

type boardsLoadedMsg struct {
	boards domain.Boards
	name   string
	err    error
}

type cloudSavesMsg struct {
	records []cloud.SaveRecord
	err     error
}

type syncDoneMsg struct {
	saveID int
	err    error
}

// NewModel constructs a new value for this package.
func NewModel(cfg config.Config, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false

	m := Model{
		cfg:            cfg,
		theme:          ThemeByName(cfg.DefaultTheme),
		keys:           newKeyMap(cfg.Keybindings),
		help:           h,
		logger:         charmLog.New(nil),
		now:            time.Now,
		hist:           history.NewLog(historyLimit),
		proj:           domain.NewProjection(cfg.NoOfBoardsToShow, cfg.NoOfCardsToShow),
		resetLimiter:   cloud.NewResetRateLimit(resetLinkEvery),
		filterSelected: map[string]bool{},
	}

	if view, ok := uistate.ViewModeByName(cfg.DefaultView); ok {
		m.view = view
	} else {
		m.view = uistate.ViewTitleBodyHelpLog
	}
	m.prevView = m.view
	m.focus = uistate.Clamp(m.view, m.popup, uistate.FocusBody)

	m.boardNameInput = newFormInput("board name", 80)
	m.boardDescInput = newFormInput("board description", 200)
	m.cardNameInput = newFormInput("card name", 80)
	m.cardDueInput = newFormInput(cfg.DateTimeFormat, 32)
	m.cardDescBox = textbox.New()
	m.cardDescBox.SetHeight(textboxHeight)

	m.emailInput = newFormInput("email", 120)
	m.passwordInput = newFormInput("password", 64)
	m.confirmPasswordInput = newFormInput("confirm password", 64)

	m.cardTagsInput = newFormInput("comma separated tags", 160)
	m.cardCommentInput = newFormInput("add a comment", 200)
	m.paletteInput = newFormInput("command, card or board", 120)
	m.rgbInput = newFormInput("r,g,b", 16)
	m.configInput = newFormInput("value", 200)
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.confirmPasswordInput.EchoMode = textinput.EchoPassword

	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// newFormInput constructs one single-line form field.
func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

// Init handles init: start the ticker, then auto-login and the last-save
// load when the config asks for them.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	if m.svc != nil && m.runner != nil {
		if m.cfg.AutoLogin && m.svc.CloudConfigured() {
			svc := m.svc
			if m.runner.Enqueue(func(ctx context.Context) any {
				sess, err := svc.AutoLogin(ctx)
				return sessionMsg{sess: sess, err: err, auto: true}
			}) {
				cmds = append(cmds, m.awaitRunner)
			}
		}
		if m.cfg.AlwaysLoadLastSave {
			svc := m.svc
			if m.runner.Enqueue(func(ctx context.Context) any {
				boards, err := svc.Store.LoadLatest()
				return boardsLoadedMsg{boards: boards, name: "latest", err: err}
			}) {
				cmds = append(cmds, m.awaitRunner)
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.cfg.Tickrate) * time.Millisecond
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// awaitRunner blocks on one background result and feeds it into Update.
func (m Model) awaitRunner() tea.Msg {
	if m.runner == nil {
		return nil
	}
	v, ok := <-m.runner.Results()
	if !ok {
		return nil
	}
	return v
}

// cloudReady reports whether auth and sync requests can be issued.
func (m *Model) cloudReady() bool {
	return m.svc != nil && m.svc.CloudConfigured()
}

// enqueueIO submits one background job and arms the matching await.
func (m *Model) enqueueIO(job app.Job) tea.Cmd {
	if m.runner == nil || m.svc == nil {
		m.pushToast(ToastError, "background runner unavailable", 0)
		return nil
	}
	if !m.runner.Enqueue(job) {
		m.pushToast(ToastError, "too many pending operations", 0)
		return nil
	}
	return m.awaitRunner
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.toasts = pruneToasts(m.toasts, m.now())
		return m, m.tickCmd()

	case sessionMsg:
		return m.handleSession(msg)

	case signUpDoneMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "sign up failed: "+msg.err.Error(), 0)
			return m, nil
		}
		m.pushToast(ToastInfo, "account created for "+msg.email+", encryption key saved", 0)
		m.logLine("signed up " + msg.email)
		m.setView(m.prevView)
		return m, nil

	case logoutDoneMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "logout failed: "+msg.err.Error(), 0)
			return m, nil
		}
		m.session = cloud.Session{}
		m.pushToast(ToastInfo, "logged out", 0)
		return m, nil

	case resetLinkMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "reset link request failed: "+msg.err.Error(), 0)
			return m, nil
		}
		m.pushToast(ToastInfo, "reset link sent, check your email", 0)
		return m, nil

	case passwordUpdatedMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "password update failed: "+msg.err.Error(), 0)
			return m, nil
		}
		m.pushToast(ToastInfo, "password updated", 0)
		m.passwordInput.SetValue("")
		m.confirmPasswordInput.SetValue("")
		m.setView(m.prevView)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "save failed: "+msg.err.Error(), 0)
			return m, nil
		}
		if msg.name != "" {
			m.pushToast(ToastInfo, "saved "+msg.name, 0)
			m.logLine("saved " + msg.name)
		}
		return m, nil

	case localSavesMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "list saves failed: "+msg.err.Error(), 0)
			return m, nil
		}
		m.localSaves = msg.files
		m.saveIndex = clamp(m.saveIndex, 0, len(m.localSaves)-1)
		return m, nil

	case boardsLoadedMsg:
		return m.handleBoardsLoaded(msg)

	case cloudSavesMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "cloud saves unavailable: "+msg.err.Error(), 0)
			return m, nil
		}
		m.cloudSaves = msg.records
		m.saveIndex = clamp(m.saveIndex, 0, len(m.cloudSaves)-1)
		return m, nil

	case syncDoneMsg:
		if msg.err != nil {
			m.pushToast(ToastError, "cloud sync failed: "+msg.err.Error(), 0)
			return m, nil
		}
		m.pushToast(ToastInfo, fmt.Sprintf("synced to cloud (save %d)", msg.saveID), 0)
		m.logLine(fmt.Sprintf("cloud sync wrote save_id %d", msg.saveID))
		return m, nil

	case app.JobPanic:
		m.pushToast(ToastError, "an operation failed unexpectedly", 0)
		m.logger.Error("background job panic", "value", msg.Value)
		return m, nil

	case tea.KeyPressMsg:
		switch m.status {
		case uistate.StatusKeyBindMode:
			return m.handleKeyCapture(msg)
		case uistate.StatusUserInput:
			return m.handleUserInputKey(msg)
		default:
			return m.handleNormalKey(msg)
		}

	case tea.MouseClickMsg:
		if m.cfg.EnableMouseSupport {
			return m.handleMouseClick(msg)
		}
		return m, nil

	case tea.MouseReleaseMsg:
		if m.cfg.EnableMouseSupport {
			return m.handleMouseRelease(msg)
		}
		return m, nil

	case tea.MouseMotionMsg:
		if m.cfg.EnableMouseSupport {
			m.updateHover(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseWheelMsg:
		if m.cfg.EnableMouseSupport {
			return m.handleMouseWheel(msg)
		}
		return m, nil

	default:
		return m, nil
	}
}

// handleSession applies a login or auto-login result.
func (m Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.auto {
			m.logLine("auto-login failed: " + msg.err.Error())
			m.pushToast(ToastWarning, "auto-login failed, continuing anonymously", 0)
		} else {
			m.pushToast(ToastError, "login failed: "+msg.err.Error(), 0)
		}
		return m, nil
	}
	m.session = msg.sess
	m.pushToast(ToastInfo, "logged in as "+msg.sess.Email, 0)
	m.logLine("logged in as " + msg.sess.Email)
	if !msg.auto {
		m.passwordInput.SetValue("")
		m.setView(m.prevView)
	}
	return m, nil
}

// handleBoardsLoaded replaces the working state with a loaded save.
func (m Model) handleBoardsLoaded(msg boardsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.name == "latest" {
			// No saves yet is the normal first run.
			m.logLine("no previous save loaded: " + msg.err.Error())
			return m, nil
		}
		m.pushToast(ToastError, "load failed: "+msg.err.Error(), 0)
		return m, nil
	}
	m.boards = msg.boards
	m.clearFilter()
	m.hist.Reset()
	m.refreshProjection()
	m.sel = m.proj.EnsureSelection(m.workingBoards(), domain.Selection{})
	m.pushToast(ToastInfo, "loaded save "+msg.name, 0)
	m.logLine("loaded save " + msg.name)
	if m.view == uistate.ViewLoadLocalSave || m.view == uistate.ViewLoadCloudSave {
		m.setView(uistate.ViewTitleBodyHelpLog)
	}
	return m, nil
}

// workingBoards is the set navigation operates on: the filtered copy when
// a tag filter is active, the authoritative set otherwise.
func (m *Model) workingBoards() domain.Boards {
	if len(m.filtered) > 0 {
		return m.filtered
	}
	return m.boards
}

// refreshProjection rebuilds the visible window and reapplies an active
// filter against the authoritative set.
func (m *Model) refreshProjection() {
	if len(m.filterTags) > 0 {
		filtered, err := m.boards.FilterByTags(m.filterTags)
		if err != nil {
			m.filtered = nil
			m.filterTags = nil
		} else {
			m.filtered = filtered
		}
	}
	if m.proj == nil {
		m.proj = domain.NewProjection(m.cfg.NoOfBoardsToShow, m.cfg.NoOfCardsToShow)
	}
	m.proj.Validate(m.workingBoards())
	m.sel = m.proj.EnsureSelection(m.workingBoards(), m.sel)
}

// clearFilter drops the filtered copy and re-projects the full set.
func (m *Model) clearFilter() {
	if len(m.filterTags) == 0 && len(m.filtered) == 0 {
		return
	}
	m.filterTags = nil
	m.filtered = nil
	m.proj.Refresh(m.boards)
	m.sel = m.proj.EnsureSelection(m.boards, m.sel)
}

// currentBoard resolves the selected board in the working set.
func (m *Model) currentBoard() (*domain.Board, bool) {
	if m.sel.BoardID == nil {
		return nil, false
	}
	return m.workingBoards().Get(*m.sel.BoardID)
}

// currentCard resolves the selected card in the working set.
func (m *Model) currentCard() (*domain.Board, *domain.Card, bool) {
	board, ok := m.currentBoard()
	if !ok || m.sel.CardID == nil {
		return nil, nil, false
	}
	card, ok := board.Card(*m.sel.CardID)
	if !ok {
		return nil, nil, false
	}
	return board, card, true
}

// authoritativeBoard resolves a board by id in the unfiltered set, for
// mutations while a filter view is active.
func (m *Model) authoritativeBoard(id uuid.UUID) (*domain.Board, bool) {
	return m.boards.Get(id)
}

func (m *Model) pushToast(kind ToastKind, text string, d time.Duration) {
	if d <= 0 {
		d = defaultToastDuration
	}
	m.toasts = append(m.toasts, Toast{Kind: kind, Text: text, Until: m.now().Add(d)})
}

func (m *Model) logLine(text string) {
	stamp := m.now().UTC().Format("15:04:05")
	m.logLines = append(m.logLines, stamp+" "+text)
	if len(m.logLines) > logLinesLimit {
		m.logLines = m.logLines[len(m.logLines)-logLinesLimit:]
	}
}

// setView switches views, remembering the previous one for back-nav, and
// re-clamps focus into the new target list.
func (m *Model) setView(view uistate.ViewMode) {
	if view == m.view {
		return
	}
	m.prevView = m.view
	m.view = view
	m.popup = uistate.PopupNone
	m.focus = uistate.Clamp(m.view, m.popup, m.focus)
	if view == uistate.ViewMainMenu {
		m.clearFilter()
	}
}

// openPopup opens a popup over the current view and clamps focus.
func (m *Model) openPopup(popup uistate.PopupMode) {
	m.popup = popup
	m.focus = uistate.Clamp(m.view, m.popup, m.focus)
}

// closePopup drops the popup and clamps focus back to the view targets.
func (m *Model) closePopup() {
	m.popup = uistate.PopupNone
	m.focus = uistate.Clamp(m.view, m.popup, m.focus)
}

// autoSaveCmd snapshots the committed board set and writes it in the
// background when it differs from the latest save on disk.
func (m *Model) autoSaveCmd() tea.Cmd {
	if !m.cfg.AutoSave || m.svc == nil || m.runner == nil {
		return nil
	}
	snapshot := cloneBoards(m.boards)
	svc := m.svc
	return m.enqueueIO(func(ctx context.Context) any {
		name, wrote, err := svc.AutoSave(snapshot)
		if err != nil {
			return savedMsg{err: err}
		}
		if !wrote {
			return savedMsg{}
		}
		return savedMsg{name: name}
	})
}

// cloneBoards deep-copies the board set so background jobs never share
// card slices with the update loop.
func cloneBoards(boards domain.Boards) domain.Boards {
	out := make(domain.Boards, len(boards))
	for i, board := range boards {
		out[i] = board
		out[i].Cards = append([]domain.Card(nil), board.Cards...)
		for j, card := range out[i].Cards {
			out[i].Cards[j].Tags = append([]string(nil), card.Tags...)
			out[i].Cards[j].Comments = append([]string(nil), card.Comments...)
		}
	}
	return out
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
