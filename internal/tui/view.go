package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/domain"
	"github.com/hylla/kanto/internal/textbox"
	"github.com/hylla/kanto/internal/uistate"
)

// Fixed panel heights; the body takes whatever remains.
const (
	titleHeight       = 3
	helpHeight        = 3
	logHeight         = 6
	boardHeaderHeight = 2
	cardCellHeight    = 3
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// panelRects computes the kanban panel geometry for the current view.
// Mouse hit testing reads the same rects, so rendering and hit testing
// cannot drift apart.
func (m *Model) panelRects() map[uistate.Focus]rect {
	rects := map[uistate.Focus]rect{}
	targets := uistate.AvailableTargets(m.view, uistate.PopupNone)
	has := func(f uistate.Focus) bool {
		for _, t := range targets {
			if t == f {
				return true
			}
		}
		return false
	}

	top := 0
	bottom := m.height
	if has(uistate.FocusTitle) {
		rects[uistate.FocusTitle] = rect{0, 0, m.width, titleHeight}
		top = titleHeight
	}
	if has(uistate.FocusLog) {
		rects[uistate.FocusLog] = rect{0, bottom - logHeight, m.width, logHeight}
		bottom -= logHeight
	}
	if has(uistate.FocusHelp) {
		rects[uistate.FocusHelp] = rect{0, bottom - helpHeight, m.width, helpHeight}
		bottom -= helpHeight
	}
	if has(uistate.FocusBody) {
		rects[uistate.FocusBody] = rect{0, top, m.width, max(bottom-top, 0)}
	}
	return rects
}

type cardRect struct {
	cardID uuid.UUID
	index  int
	rect   rect
}

type boardColumn struct {
	boardID uuid.UUID
	rect    rect
	cards   []cardRect
}

// boardColumns maps the visible window to screen rects inside the body.
func (m *Model) boardColumns() []boardColumn {
	body, ok := m.panelRects()[uistate.FocusBody]
	if !ok {
		return nil
	}
	ids := m.proj.BoardIDs()
	if len(ids) == 0 {
		return nil
	}
	boards := m.workingBoards()
	colWidth := body.w / len(ids)
	if colWidth < 4 {
		colWidth = 4
	}
	cols := make([]boardColumn, 0, len(ids))
	for i, boardID := range ids {
		col := boardColumn{
			boardID: boardID,
			rect:    rect{body.x + i*colWidth, body.y, colWidth, body.h},
		}
		cardIDs, _ := m.proj.CardsFor(boardID)
		board, found := boards.Get(boardID)
		for j, cardID := range cardIDs {
			if !found {
				break
			}
			if board.CardIndex(cardID) < 0 {
				continue
			}
			col.cards = append(col.cards, cardRect{
				cardID: cardID,
				index:  j,
				rect: rect{
					col.rect.x,
					body.y + boardHeaderHeight + j*cardCellHeight,
					colWidth,
					cardCellHeight,
				},
			})
		}
		cols = append(cols, col)
	}
	return cols
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	var content string
	if m.view.IsKanban() {
		content = m.renderKanban()
	} else {
		content = m.renderFullScreen()
	}

	if m.popup != uistate.PopupNone {
		overlay := m.renderPopup()
		if overlay != "" {
			content = overlayOnContent(content, overlay, max(1, m.width), max(1, m.height))
		}
	}

	v := tea.NewView(content)
	v.AltScreen = true
	if m.cfg.EnableMouseSupport {
		v.MouseMode = tea.MouseModeCellMotion
	}
	return v
}

func (m *Model) renderKanban() string {
	rects := m.panelRects()
	var sections []string

	if r, ok := rects[uistate.FocusTitle]; ok {
		sections = append(sections, m.renderTitle(r))
	}
	if r, ok := rects[uistate.FocusBody]; ok {
		sections = append(sections, m.renderBody(r))
	}
	if r, ok := rects[uistate.FocusHelp]; ok {
		sections = append(sections, m.renderHelp(r))
	}
	if r, ok := rects[uistate.FocusLog]; ok {
		sections = append(sections, m.renderLog(r))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderTitle(r rect) string {
	title := "kanto"
	if m.session.LoggedIn() {
		title += "  •  " + m.session.Email
	}
	if len(m.filterTags) > 0 {
		title += "  •  filter: " + strings.Join(m.filterTags, ", ")
	}
	style := m.theme.Style(SlotGeneral)
	if m.focus == uistate.FocusTitle {
		style = m.theme.Style(SlotSelected)
	}
	line := style.Render(truncate(title, max(r.w-2, 1)))
	return fitLines(line+"\n"+strings.Repeat("─", max(r.w, 1)), r.h)
}

func (m *Model) renderBody(r rect) string {
	cols := m.boardColumns()
	if len(cols) == 0 {
		empty := m.theme.Style(SlotGeneral).Render("no boards yet, press b to create one")
		block := lipgloss.Place(max(r.w, 1), max(r.h, 1), lipgloss.Center, lipgloss.Center, empty)
		return fitLines(m.overlayToasts(block), r.h)
	}

	boards := m.workingBoards()
	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		rendered = append(rendered, m.renderBoardColumn(col, boards))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return fitLines(m.overlayToasts(body), r.h)
}

// overlayToasts prepends active toast lines onto the body content.
func (m *Model) overlayToasts(body string) string {
	if len(m.toasts) == 0 {
		return body
	}
	lines := make([]string, 0, len(m.toasts))
	for _, toast := range m.toasts {
		style := m.theme.Style(SlotLogInfo)
		switch toast.Kind {
		case ToastError:
			style = m.theme.Style(SlotLogError)
		case ToastWarning:
			style = m.theme.Style(SlotDueWarning)
		}
		lines = append(lines, style.Render(fmt.Sprintf("[%s] %s", toast.Kind, toast.Text)))
	}
	return strings.Join(lines, "\n") + "\n" + body
}

func (m *Model) renderBoardColumn(col boardColumn, boards domain.Boards) string {
	board, ok := boards.Get(col.boardID)
	if !ok {
		return ""
	}
	width := max(col.rect.w-2, 4)
	selected := m.sel.BoardID != nil && *m.sel.BoardID == col.boardID

	headerStyle := m.theme.Style(SlotBoard)
	if selected && m.focus == uistate.FocusBody {
		headerStyle = m.theme.Style(SlotSelected)
	}
	header := headerStyle.Render(truncate(fmt.Sprintf("%s (%d)", board.Name, len(board.Cards)), width))

	lines := []string{header, strings.Repeat("┄", width)}

	visible, _ := m.proj.CardsFor(col.boardID)
	firstIdx := len(board.Cards)
	lastIdx := -1
	for _, id := range visible {
		if i := board.CardIndex(id); i >= 0 {
			if i < firstIdx {
				firstIdx = i
			}
			if i > lastIdx {
				lastIdx = i
			}
		}
	}
	if !m.cfg.DisableScrollBar && firstIdx > 0 {
		lines = append(lines, m.theme.Style(SlotHelpKey).Render("▲ more"))
	}

	for _, cr := range col.cards {
		card, found := board.Card(cr.cardID)
		if !found {
			continue
		}
		lines = append(lines, m.renderCardCell(card, width, selected && m.sel.CardID != nil && *m.sel.CardID == cr.cardID))
	}

	if !m.cfg.DisableScrollBar && lastIdx >= 0 && lastIdx < len(board.Cards)-1 {
		lines = append(lines, m.theme.Style(SlotHelpKey).Render("▼ more"))
	}

	column := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(col.rect.w).Render(column)
}

func (m *Model) renderCardCell(card *domain.Card, width int, selected bool) string {
	nameStyle := m.theme.Style(SlotCard)
	if selected {
		nameStyle = m.theme.Style(SlotSelected)
	}
	if card.Priority == domain.PriorityHigh {
		nameStyle = nameStyle.Inherit(m.theme.Style(SlotPriorityHigh))
	}

	marker := " "
	switch card.Status {
	case domain.StatusComplete:
		marker = "✓"
	case domain.StatusStale:
		marker = "~"
	}

	due := card.DueDate
	if due == "" {
		due = domain.FieldNotSet
	}
	dueStyle := m.theme.Style(SlotHelpKey)
	format := domain.DateTimeFormat(m.cfg.DateTimeFormat)
	if card.DueWithin(m.cfg.WarningDelta, format, m.now()) {
		dueStyle = m.theme.Style(SlotDueWarning)
	}

	lines := []string{
		nameStyle.Render(truncate(marker+" "+card.Name, width)),
		dueStyle.Render(truncate("  due "+domain.FormatDueDate(due, format), width)),
		"",
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp(r rect) string {
	style := m.theme.Style(SlotHelpKey)
	if m.focus == uistate.FocusHelp {
		style = m.theme.Style(SlotSelected)
	}
	return fitLines(style.Render(m.help.View(m.keys)), r.h)
}

func (m *Model) renderLog(r rect) string {
	style := m.theme.Style(SlotLogInfo)
	if m.focus == uistate.FocusLog {
		style = m.theme.Style(SlotSelected)
	}
	start := 0
	visible := max(r.h-1, 1)
	if len(m.logLines) > visible {
		start = len(m.logLines) - visible
	}
	lines := append([]string{style.Render("log")}, m.logLines[start:]...)
	return fitLines(strings.Join(lines, "\n"), r.h)
}

// full-screen views

func (m *Model) renderFullScreen() string {
	var content string
	switch m.view {
	case uistate.ViewMainMenu:
		content = m.renderList("Main Menu", mainMenuEntries, m.mainMenuIndex)
	case uistate.ViewConfigMenu:
		content = m.renderConfigMenu()
	case uistate.ViewEditKeybindings:
		content = m.renderKeybindings()
	case uistate.ViewNewBoard:
		content = m.renderNewBoardForm()
	case uistate.ViewNewCard:
		content = m.renderNewCardForm()
	case uistate.ViewLogin:
		content = m.renderLoginForm()
	case uistate.ViewSignUp:
		content = m.renderSignUpForm()
	case uistate.ViewResetPassword:
		content = m.renderResetPasswordForm()
	case uistate.ViewLoadLocalSave:
		content = m.renderLocalSaves()
	case uistate.ViewLoadCloudSave:
		content = m.renderCloudSaves()
	case uistate.ViewCreateTheme:
		content = m.renderThemeEditor()
	case uistate.ViewHelpMenu:
		m.help.ShowAll = true
		content = m.renderHeading("Help") + "\n" + m.help.View(m.keys)
	case uistate.ViewLogsOnly:
		content = m.renderHeading("Logs") + "\n" + strings.Join(m.logLines, "\n")
	default:
		content = m.renderKanban()
	}
	return fitLines(m.overlayToasts(content), max(m.height, 1))
}

func (m *Model) renderHeading(title string) string {
	return m.theme.Style(SlotBoard).Render(title) + "\n" + strings.Repeat("─", max(min(m.width, 60), 1))
}

func (m *Model) renderList(title string, entries []string, index int) string {
	lines := []string{m.renderHeading(title)}
	for i, entry := range entries {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == index {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		lines = append(lines, style.Render(prefix+entry))
	}
	lines = append(lines, "", m.theme.Style(SlotHelpKey).Render("enter select • esc back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfigMenu() string {
	lines := []string{m.renderHeading("Configuration")}
	for i, row := range configRows() {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == m.configIndex {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		value := row.value(m.cfg)
		label := row.label
		if value != "" {
			label = fmt.Sprintf("%-24s %s", row.label, value)
		}
		lines = append(lines, style.Render(prefix+label))
	}
	lines = append(lines, "", m.theme.Style(SlotHelpKey).Render("enter edit • esc back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderKeybindings() string {
	lines := []string{m.renderHeading("Keybindings")}
	for i, action := range m.keybindActionNames() {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == m.keybindIndex {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		keys := strings.Join(m.cfg.Keybindings[action], ", ")
		lines = append(lines, style.Render(prefix+fmt.Sprintf("%-26s %s", action, keys)))
	}
	lines = append(lines, "", m.theme.Style(SlotHelpKey).Render("enter rebind • esc back"))
	return strings.Join(lines, "\n")
}

// renderField draws one labelled form field with focus highlighting.
func (m *Model) renderField(label, value string, focus uistate.Focus) string {
	style := m.theme.Style(SlotGeneral)
	prefix := "  "
	if m.focus == focus {
		style = m.theme.Style(SlotSelected)
		prefix = "> "
	}
	return style.Render(fmt.Sprintf("%s%-18s %s", prefix, label, value))
}

func (m *Model) renderSubmit(label string) string {
	style := m.theme.Style(SlotGeneral)
	if m.focus == uistate.FocusSubmitButton {
		style = m.theme.Style(SlotSelected)
	}
	return style.Render("  [ " + label + " ]")
}

func (m *Model) renderNewBoardForm() string {
	return strings.Join([]string{
		m.renderHeading("New Board"),
		m.renderField("Name", m.boardNameInput.View(), uistate.FocusNewBoardName),
		m.renderField("Description", m.boardDescInput.View(), uistate.FocusNewBoardDescription),
		"",
		m.renderSubmit("Create Board"),
		"",
		m.theme.Style(SlotHelpKey).Render("i edit • enter submit • esc cancel"),
	}, "\n")
}

func (m *Model) renderNewCardForm() string {
	desc := m.renderTextbox(m.cardDescBox, m.focus == uistate.FocusNewCardDescription)
	return strings.Join([]string{
		m.renderHeading("New Card"),
		m.renderField("Name", m.cardNameInput.View(), uistate.FocusNewCardName),
		m.renderField("Due Date", m.cardDueInput.View(), uistate.FocusNewCardDueDate),
		m.renderField("Description", "", uistate.FocusNewCardDescription),
		desc,
		"",
		m.renderSubmit("Create Card"),
		"",
		m.theme.Style(SlotHelpKey).Render("i edit • enter submit • esc cancel"),
	}, "\n")
}

// renderTextbox draws the multi-line editor with optional line numbers.
func (m *Model) renderTextbox(tb *textbox.TextBox, active bool) string {
	if tb == nil {
		return ""
	}
	style := m.theme.Style(SlotGeneral)
	if active {
		style = m.theme.Style(SlotSelected)
	}
	lines := tb.DisplayLines()
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if m.cfg.ShowLineNumbers {
			line = fmt.Sprintf("%3d │ %s", i+1, line)
		}
		out = append(out, style.Render("    "+line))
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderLoginForm() string {
	remember := "[ ]"
	if m.rememberMe {
		remember = "[x]"
	}
	return strings.Join([]string{
		m.renderHeading("Login"),
		m.renderField("Email", m.emailInput.View(), uistate.FocusEmailField),
		m.renderField("Password", m.passwordInput.View(), uistate.FocusPasswordField),
		m.renderField("Remember Me", remember, uistate.FocusExtraFocus),
		"",
		m.renderSubmit("Login"),
	}, "\n")
}

func (m *Model) renderSignUpForm() string {
	return strings.Join([]string{
		m.renderHeading("Sign Up"),
		m.renderField("Email", m.emailInput.View(), uistate.FocusEmailField),
		m.renderField("Password", m.passwordInput.View(), uistate.FocusPasswordField),
		m.renderField("Confirm Password", m.confirmPasswordInput.View(), uistate.FocusConfirmPasswordField),
		"",
		m.renderSubmit("Create Account"),
	}, "\n")
}

func (m *Model) renderResetPasswordForm() string {
	sendStyle := m.theme.Style(SlotGeneral)
	if m.focus == uistate.FocusSendResetLinkButton {
		sendStyle = m.theme.Style(SlotSelected)
	}
	return strings.Join([]string{
		m.renderHeading("Reset Password"),
		m.renderField("Email", m.emailInput.View(), uistate.FocusEmailField),
		sendStyle.Render("  [ Send Reset Link ]"),
		"",
		m.theme.Style(SlotHelpKey).Render("  after following the emailed link, set the new password:"),
		m.renderField("New Password", m.passwordInput.View(), uistate.FocusPasswordField),
		m.renderField("Confirm Password", m.confirmPasswordInput.View(), uistate.FocusConfirmPasswordField),
		"",
		m.renderSubmit("Update Password"),
	}, "\n")
}

func (m *Model) renderLocalSaves() string {
	lines := []string{m.renderHeading("Local Saves")}
	if len(m.localSaves) == 0 {
		lines = append(lines, m.theme.Style(SlotGeneral).Render("  no saves found"))
	}
	format := domain.DateTimeFormat(m.cfg.DateTimeFormat)
	for i, file := range m.localSaves {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == m.saveIndex {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		lines = append(lines, style.Render(prefix+fmt.Sprintf("%-32s v%d  %s", file.Name, file.Version, file.Date.Format(format.Layout()))))
	}
	lines = append(lines, "", m.theme.Style(SlotHelpKey).Render("enter load • d delete • esc back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderCloudSaves() string {
	lines := []string{m.renderHeading("Cloud Saves")}
	if len(m.cloudSaves) == 0 {
		lines = append(lines, m.theme.Style(SlotGeneral).Render("  no cloud saves found"))
	}
	for i, record := range m.cloudSaves {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == m.saveIndex {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		lines = append(lines, style.Render(prefix+fmt.Sprintf("save %-4d %s", record.SaveID, record.CreatedAt)))
	}
	lines = append(lines, "", m.theme.Style(SlotHelpKey).Render("enter load • d delete • esc back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderThemeEditor() string {
	lines := []string{m.renderHeading("Create Theme: " + m.themeEdit.Name)}
	for i, slot := range styleSlotsOrdered {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == m.themeSlotIndex && m.focus == uistate.FocusThemeEditor {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		preview := m.themeEdit.Style(slot).Render("sample")
		lines = append(lines, style.Render(prefix+fmt.Sprintf("%-16s", string(slot)))+" "+preview)
	}
	lines = append(lines, "",
		m.renderSubmit("Save Theme"),
		m.renderField("Apply Only", "", uistate.FocusExtraFocus),
		"",
		m.theme.Style(SlotHelpKey).Render("enter edit slot • tab cycle • esc back"),
	)
	return strings.Join(lines, "\n")
}

// popups

func (m *Model) renderPopup() string {
	var body string
	switch m.popup {
	case uistate.PopupViewCard:
		body = m.renderCardPopup()
	case uistate.PopupConfirmDiscardCardChanges:
		body = m.renderConfirmDiscard()
	case uistate.PopupCommandPalette:
		body = m.renderPalette()
	case uistate.PopupCardStatusSelector:
		body = m.renderSelector("Status", statusLabels(), m.statusIndex)
	case uistate.PopupCardPrioritySelector:
		body = m.renderSelector("Priority", priorityLabels(), m.priorityIndex)
	case uistate.PopupChangeUIMode, uistate.PopupSelectDefaultView:
		body = m.renderSelector("View", viewLabels(), m.viewModeIndex)
	case uistate.PopupChangeDateFormat:
		body = m.renderSelector("Date Format", dateFormatLabels(), m.dateFormatIndex)
	case uistate.PopupChangeTheme:
		body = m.renderSelector("Theme", m.themeLabels(), m.themeIndex)
	case uistate.PopupFilterByTag:
		body = m.renderFilterPopup()
	case uistate.PopupEditThemeStyle:
		body = m.renderThemeStylePopup()
	case uistate.PopupCustomRGBPromptFG:
		body = m.renderPrompt("Foreground r,g,b", m.rgbInput.View())
	case uistate.PopupCustomRGBPromptBG:
		body = m.renderPrompt("Background r,g,b", m.rgbInput.View())
	case uistate.PopupSaveTheme:
		body = m.renderConfirm("Save this theme to disk?", "Save", "Cancel")
	case uistate.PopupEditGeneralConfig:
		rows := configRows()
		row := rows[clamp(m.configIndex, 0, len(rows)-1)]
		body = m.renderPrompt(row.label, m.configInput.View())
	case uistate.PopupEditSpecificKeybinding:
		body = m.renderKeybindPopup()
	default:
		return ""
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Render(body)
}

func statusLabels() []string {
	out := make([]string, 0, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		out = append(out, string(s))
	}
	return out
}

func priorityLabels() []string {
	out := make([]string, 0, len(domain.AllPriorities()))
	for _, p := range domain.AllPriorities() {
		out = append(out, string(p))
	}
	return out
}

func viewLabels() []string {
	views := uistate.SelectableViews()
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.String())
	}
	return out
}

func dateFormatLabels() []string {
	formats := domain.AllDateTimeFormats()
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, string(f))
	}
	return out
}

func (m *Model) themeLabels() []string {
	themes := m.allThemes()
	out := make([]string, 0, len(themes))
	for _, t := range themes {
		out = append(out, t.Name)
	}
	return out
}

func (m *Model) renderSelector(title string, entries []string, index int) string {
	lines := []string{m.theme.Style(SlotBoard).Render(title)}
	for i, entry := range entries {
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == index {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		lines = append(lines, style.Render(prefix+entry))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPrompt(title, field string) string {
	return m.theme.Style(SlotBoard).Render(title) + "\n" + field
}

func (m *Model) renderConfirm(question, yes, no string) string {
	yesStyle := m.theme.Style(SlotGeneral)
	noStyle := m.theme.Style(SlotGeneral)
	if m.focus == uistate.FocusSubmitButton {
		yesStyle = m.theme.Style(SlotSelected)
	} else {
		noStyle = m.theme.Style(SlotSelected)
	}
	return question + "\n\n" + yesStyle.Render("[ "+yes+" ]") + "  " + noStyle.Render("[ "+no+" ]")
}

func (m *Model) renderCardPopup() string {
	if m.cardEdit == nil {
		return ""
	}
	statusLine := string(m.cardEdit.Status)
	priorityLine := string(m.cardEdit.Priority)
	desc := m.renderTextbox(m.cardDescEdit, m.focus == uistate.FocusCardDescription)
	lines := []string{
		m.theme.Style(SlotBoard).Render("Card"),
		m.renderField("Name", m.cardNameInput.View(), uistate.FocusCardName),
		m.renderField("Description", "", uistate.FocusCardDescription),
		desc,
		m.renderField("Due Date", m.cardDueInput.View(), uistate.FocusCardDueDate),
		m.renderField("Priority", priorityLine, uistate.FocusCardPriority),
		m.renderField("Status", statusLine, uistate.FocusCardStatus),
		m.renderField("Tags", m.cardTagsInput.View(), uistate.FocusCardTags),
		m.renderField("Comments", m.cardCommentInput.View(), uistate.FocusCardComments),
	}
	for _, comment := range m.cardEdit.Comments {
		lines = append(lines, m.theme.Style(SlotHelpKey).Render("    • "+comment))
	}
	lines = append(lines, "", m.renderSubmit("Save Card"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirmDiscard() string {
	return m.renderConfirm("You have unsaved changes.", "Save", "Discard")
}

func (m *Model) renderPalette() string {
	lines := []string{
		m.theme.Style(SlotBoard).Render("Command Palette"),
		m.paletteInput.View(),
		"",
	}
	section := func(title string, entries []string, active bool) {
		lines = append(lines, m.theme.Style(SlotHelpKey).Render(title))
		for i, entry := range entries {
			prefix := "  "
			style := m.theme.Style(SlotGeneral)
			if active && i == m.paletteIndex {
				prefix = "> "
				style = m.theme.Style(SlotSelected)
			}
			lines = append(lines, style.Render(prefix+entry))
		}
	}
	cmds := make([]string, 0, len(m.paletteCmds))
	for _, c := range m.paletteCmds {
		cmds = append(cmds, c.Label)
	}
	section("Commands", cmds, m.focus == uistate.FocusCommandPaletteCommand)
	if len(m.paletteCards) > 0 {
		cards := make([]string, 0, len(m.paletteCards))
		for _, c := range m.paletteCards {
			cards = append(cards, c.Label)
		}
		section("Cards", cards, m.focus == uistate.FocusCommandPaletteCard)
	}
	if len(m.paletteBoards) > 0 {
		boards := make([]string, 0, len(m.paletteBoards))
		for _, b := range m.paletteBoards {
			boards = append(boards, b.Label)
		}
		section("Boards", boards, m.focus == uistate.FocusCommandPaletteBoard)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFilterPopup() string {
	lines := []string{m.theme.Style(SlotBoard).Render("Filter by Tag")}
	for i, tag := range m.filterChoices {
		mark := "[ ]"
		if m.filterSelected[tag] {
			mark = "[x]"
		}
		prefix := "  "
		style := m.theme.Style(SlotGeneral)
		if i == m.filterIndex && m.focus == uistate.FocusFilterByTagPopup {
			prefix = "> "
			style = m.theme.Style(SlotSelected)
		}
		lines = append(lines, style.Render(prefix+mark+" "+tag))
	}
	lines = append(lines, "", m.renderSubmit("Apply Filter"),
		m.theme.Style(SlotHelpKey).Render("enter toggle • f clear • esc cancel"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderThemeStylePopup() string {
	slot := m.editedSlot()
	row := func(label string, focus uistate.Focus) string {
		style := m.theme.Style(SlotGeneral)
		prefix := "  "
		if m.focus == focus {
			style = m.theme.Style(SlotSelected)
			prefix = "> "
		}
		return style.Render(prefix + label)
	}
	return strings.Join([]string{
		m.theme.Style(SlotBoard).Render("Edit " + string(slot)),
		m.themeEdit.Style(slot).Render("  sample text"),
		row("Foreground", uistate.FocusStyleEditorFG),
		row("Background", uistate.FocusStyleEditorBG),
		row("Toggle Bold", uistate.FocusStyleEditorModifier),
		row("Done", uistate.FocusSubmitButton),
	}, "\n")
}

func (m *Model) renderKeybindPopup() string {
	keys := strings.Join(m.cfg.Keybindings[m.keybindAction], ", ")
	hint := "enter to press a new key • esc cancel"
	if m.status == uistate.StatusKeyBindMode {
		hint = "press the new key now..."
	}
	return strings.Join([]string{
		m.theme.Style(SlotBoard).Render("Rebind " + m.keybindAction),
		m.theme.Style(SlotGeneral).Render("current: " + keys),
		m.theme.Style(SlotHelpKey).Render(hint),
	}, "\n")
}

// fitLines pads or trims content to an exact line count.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
