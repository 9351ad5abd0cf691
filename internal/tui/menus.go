package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hylla/kanto/internal/cloud"
	"github.com/hylla/kanto/internal/config"
	"github.com/hylla/kanto/internal/uistate"
)

// allThemes lists builtin themes followed by custom themes loaded from
// the theme directory.
func (m *Model) allThemes() []Theme {
	return append(BuiltinThemes(), m.extraThemes...)
}

func (m *Model) themeByName(name string) Theme {
	for _, theme := range m.allThemes() {
		if theme.Name == name {
			return theme
		}
	}
	return DefaultTheme()
}

// main menu

var mainMenuEntries = []string{
	"Resume Board",
	"Configure",
	"Load a Save (local)",
	"Load a Save (cloud)",
	"Login",
	"Sign Up",
	"Reset Password",
	"Logout",
	"Sync to Cloud",
	"Help",
	"Logs",
	"Quit",
}

func (m Model) handleMainMenuKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.setView(m.prevView)
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.mainMenuIndex = (m.mainMenuIndex - 1 + len(mainMenuEntries)) % len(mainMenuEntries)
		return m, nil
	case key.Matches(msg, m.keys.down):
		m.mainMenuIndex = (m.mainMenuIndex + 1) % len(mainMenuEntries)
		return m, nil
	case key.Matches(msg, m.keys.accept):
		return m.runMainMenuEntry(mainMenuEntries[m.mainMenuIndex])
	default:
		return m, nil
	}
}

func (m Model) runMainMenuEntry(entry string) (tea.Model, tea.Cmd) {
	switch entry {
	case "Resume Board":
		m.setView(uistate.ViewTitleBodyHelpLog)
		return m, nil
	case "Configure":
		m.setView(uistate.ViewConfigMenu)
		m.configIndex = 0
		return m, nil
	case "Load a Save (local)":
		return m.openLocalSaves()
	case "Load a Save (cloud)":
		return m.openCloudSaves()
	case "Login":
		m.startAuthView(uistate.ViewLogin)
		return m, nil
	case "Sign Up":
		m.startAuthView(uistate.ViewSignUp)
		return m, nil
	case "Reset Password":
		m.startAuthView(uistate.ViewResetPassword)
		return m, nil
	case "Logout":
		return m.logout()
	case "Sync to Cloud":
		return m.syncToCloud()
	case "Help":
		m.setView(uistate.ViewHelpMenu)
		return m, nil
	case "Logs":
		m.setView(uistate.ViewLogsOnly)
		return m, nil
	case "Quit":
		m.quitting = true
		return m, tea.Batch(m.autoSaveCmd(), tea.Quit)
	default:
		return m, nil
	}
}

// config menu

type configRowKind int

const (
	rowText configRowKind = iota
	rowInt
	rowBool
	rowViewSelector
	rowThemeSelector
	rowDateSelector
	rowKeybindings
)

type configRow struct {
	label string
	kind  configRowKind
	value func(cfg config.Config) string
	set   func(cfg *config.Config, raw string) error
}

func intSetter(target func(cfg *config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("not a number: %q", raw)
		}
		*target(cfg) = v
		return nil
	}
}

func configRows() []configRow {
	return []configRow{
		{
			label: "Save Directory", kind: rowText,
			value: func(cfg config.Config) string { return cfg.SaveDirectory },
			set: func(cfg *config.Config, raw string) error {
				cfg.SaveDirectory = strings.TrimSpace(raw)
				return nil
			},
		},
		{label: "Default View", kind: rowViewSelector,
			value: func(cfg config.Config) string { return cfg.DefaultView }},
		{label: "Default Theme", kind: rowThemeSelector,
			value: func(cfg config.Config) string { return cfg.DefaultTheme }},
		{label: "Date Time Format", kind: rowDateSelector,
			value: func(cfg config.Config) string { return cfg.DateTimeFormat }},
		{label: "Tickrate (ms)", kind: rowInt,
			value: func(cfg config.Config) string { return strconv.Itoa(cfg.Tickrate) },
			set:   intSetter(func(cfg *config.Config) *int { return &cfg.Tickrate })},
		{label: "Auto Save", kind: rowBool,
			value: func(cfg config.Config) string { return strconv.FormatBool(cfg.AutoSave) }},
		{label: "Always Load Last Save", kind: rowBool,
			value: func(cfg config.Config) string { return strconv.FormatBool(cfg.AlwaysLoadLastSave) }},
		{label: "Enable Mouse Support", kind: rowBool,
			value: func(cfg config.Config) string { return strconv.FormatBool(cfg.EnableMouseSupport) }},
		{label: "Auto Login", kind: rowBool,
			value: func(cfg config.Config) string { return strconv.FormatBool(cfg.AutoLogin) }},
		{label: "Show Line Numbers", kind: rowBool,
			value: func(cfg config.Config) string { return strconv.FormatBool(cfg.ShowLineNumbers) }},
		{label: "Disable Scroll Bar", kind: rowBool,
			value: func(cfg config.Config) string { return strconv.FormatBool(cfg.DisableScrollBar) }},
		{label: "Due Warning Days", kind: rowInt,
			value: func(cfg config.Config) string { return strconv.Itoa(cfg.WarningDelta) },
			set:   intSetter(func(cfg *config.Config) *int { return &cfg.WarningDelta })},
		{label: "Boards To Show", kind: rowInt,
			value: func(cfg config.Config) string { return strconv.Itoa(cfg.NoOfBoardsToShow) },
			set:   intSetter(func(cfg *config.Config) *int { return &cfg.NoOfBoardsToShow })},
		{label: "Cards To Show", kind: rowInt,
			value: func(cfg config.Config) string { return strconv.Itoa(cfg.NoOfCardsToShow) },
			set:   intSetter(func(cfg *config.Config) *int { return &cfg.NoOfCardsToShow })},
		{label: "Edit Keybindings", kind: rowKeybindings,
			value: func(cfg config.Config) string { return "" }},
	}
}

func (m Model) handleConfigMenuKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	rows := configRows()
	switch {
	case key.Matches(msg, m.keys.stopUserInput), key.Matches(msg, m.keys.goToMainMenu):
		m.setView(uistate.ViewMainMenu)
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.configIndex = (m.configIndex - 1 + len(rows)) % len(rows)
		return m, nil
	case key.Matches(msg, m.keys.down):
		m.configIndex = (m.configIndex + 1) % len(rows)
		return m, nil
	case key.Matches(msg, m.keys.accept), key.Matches(msg, m.keys.takeUserInput):
		return m.openConfigRow(rows[m.configIndex])
	default:
		return m, nil
	}
}

func (m Model) openConfigRow(row configRow) (tea.Model, tea.Cmd) {
	switch row.kind {
	case rowBool:
		return m.toggleConfigBool(row.label)
	case rowViewSelector:
		m.viewModeIndex = 0
		m.openPopup(uistate.PopupSelectDefaultView)
		return m, nil
	case rowThemeSelector:
		m.themeIndex = 0
		m.openPopup(uistate.PopupChangeTheme)
		return m, nil
	case rowDateSelector:
		m.dateFormatIndex = 0
		m.openPopup(uistate.PopupChangeDateFormat)
		return m, nil
	case rowKeybindings:
		m.setView(uistate.ViewEditKeybindings)
		m.keybindIndex = 0
		return m, nil
	default:
		m.configInput.SetValue(row.value(m.cfg))
		m.openPopup(uistate.PopupEditGeneralConfig)
		m.status = uistate.StatusUserInput
		return m, m.configInput.Focus()
	}
}

func (m Model) toggleConfigBool(label string) (tea.Model, tea.Cmd) {
	switch label {
	case "Auto Save":
		m.cfg.AutoSave = !m.cfg.AutoSave
	case "Always Load Last Save":
		m.cfg.AlwaysLoadLastSave = !m.cfg.AlwaysLoadLastSave
	case "Enable Mouse Support":
		m.cfg.EnableMouseSupport = !m.cfg.EnableMouseSupport
	case "Auto Login":
		m.cfg.AutoLogin = !m.cfg.AutoLogin
	case "Show Line Numbers":
		m.cfg.ShowLineNumbers = !m.cfg.ShowLineNumbers
	case "Disable Scroll Bar":
		m.cfg.DisableScrollBar = !m.cfg.DisableScrollBar
	default:
		return m, nil
	}
	m.pushToast(ToastInfo, label+" updated", 0)
	return m, m.saveConfigCmd()
}

// applyGeneralConfig commits the text editor value for the selected row.
func (m Model) applyGeneralConfig() (tea.Model, tea.Cmd) {
	rows := configRows()
	row := rows[clamp(m.configIndex, 0, len(rows)-1)]
	if row.set == nil {
		m.closePopup()
		m.status = uistate.StatusInitialized
		return m, nil
	}
	next := m.cfg
	if err := row.set(&next, m.configInput.Value()); err != nil {
		m.pushToast(ToastWarning, err.Error(), 0)
		return m, nil
	}
	if err := next.Validate(); err != nil {
		m.pushToast(ToastWarning, err.Error(), 0)
		return m, nil
	}
	m.cfg = next
	m.proj.Resize(m.cfg.NoOfBoardsToShow, m.cfg.NoOfCardsToShow, m.workingBoards())
	m.refreshProjection()
	m.closePopup()
	m.status = uistate.StatusInitialized
	m.pushToast(ToastInfo, row.label+" updated", 0)
	return m, m.saveConfigCmd()
}

func (m Model) handleGeneralConfigKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.closePopup()
		return m, nil
	case key.Matches(msg, m.keys.accept):
		return m.applyGeneralConfig()
	default:
		return m, nil
	}
}

// keybindings editor

// keybindActionNames is a stable row ordering for the editor.
func (m *Model) keybindActionNames() []string {
	names := make([]string, 0, len(m.cfg.Keybindings))
	for action := range m.cfg.Keybindings {
		names = append(names, action)
	}
	sort.Strings(names)
	return names
}

func (m Model) handleKeybindingsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	names := m.keybindActionNames()
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.setView(uistate.ViewConfigMenu)
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.keybindIndex = (m.keybindIndex - 1 + len(names)) % len(names)
		return m, nil
	case key.Matches(msg, m.keys.down):
		m.keybindIndex = (m.keybindIndex + 1) % len(names)
		return m, nil
	case key.Matches(msg, m.keys.accept):
		m.keybindAction = names[clamp(m.keybindIndex, 0, len(names)-1)]
		m.openPopup(uistate.PopupEditSpecificKeybinding)
		return m, nil
	default:
		return m, nil
	}
}

// handleKeyCapture records the next pressed key as the new binding.
func (m Model) handleKeyCapture(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	pressed := msg.String()
	if pressed == "esc" {
		m.status = uistate.StatusInitialized
		m.closePopup()
		m.pushToast(ToastInfo, "keybinding unchanged", 0)
		return m, nil
	}
	if m.keybindAction == "" {
		m.status = uistate.StatusInitialized
		m.closePopup()
		return m, nil
	}
	m.cfg.Keybindings[m.keybindAction] = []string{pressed}
	m.keys = newKeyMap(m.cfg.Keybindings)
	m.status = uistate.StatusInitialized
	m.closePopup()
	m.pushToast(ToastInfo, fmt.Sprintf("%s is now bound to %q", m.keybindAction, pressed), 0)
	m.logLine(fmt.Sprintf("rebound %s to %q", m.keybindAction, pressed))
	return m, m.saveConfigCmd()
}

// auth views

func (m *Model) startAuthView(view uistate.ViewMode) {
	m.emailInput.SetValue(m.session.Email)
	m.passwordInput.SetValue("")
	m.confirmPasswordInput.SetValue("")
	m.rememberMe = true
	m.setView(view)
	m.focus = uistate.FocusEmailField
}

func (m Model) handleAuthViewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.setView(m.prevView)
		return m, nil

	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.down):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.prevFocus), key.Matches(msg, m.keys.up):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		return m, nil

	case key.Matches(msg, m.keys.takeUserInput):
		if m.formFieldEditable() {
			m.status = uistate.StatusUserInput
			return m, m.focusActiveInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.accept):
		switch m.focus {
		case uistate.FocusSubmitButton:
			return m.submitAuthView()
		case uistate.FocusExtraFocus:
			if m.view == uistate.ViewLogin {
				m.rememberMe = !m.rememberMe
			}
			return m, nil
		case uistate.FocusSendResetLinkButton:
			return m.sendResetLink()
		default:
			if m.formFieldEditable() {
				m.status = uistate.StatusUserInput
				return m, m.focusActiveInput()
			}
			return m, nil
		}

	default:
		return m, nil
	}
}

func (m Model) submitAuthView() (tea.Model, tea.Cmd) {
	switch m.view {
	case uistate.ViewLogin:
		return m.submitLogin()
	case uistate.ViewSignUp:
		return m.submitSignUp()
	case uistate.ViewResetPassword:
		return m.submitUpdatePassword()
	default:
		return m, nil
	}
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.pushToast(ToastWarning, "email and password are required", 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	svc := m.svc
	remember := m.rememberMe
	m.pushToast(ToastLoading, "logging in...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		sess, err := svc.Login(ctx, email, password, remember)
		return sessionMsg{sess: sess, err: err}
	})
}

func (m Model) submitSignUp() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" {
		m.pushToast(ToastWarning, "email is required", 0)
		return m, nil
	}
	if password != m.confirmPasswordInput.Value() {
		m.pushToast(ToastWarning, "passwords do not match", 0)
		return m, nil
	}
	if err := cloud.CheckPassword(password, cloud.DefaultMinPasswordLength, cloud.DefaultMaxPasswordLength); err != nil {
		m.pushToast(ToastWarning, err.Error(), 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	svc := m.svc
	m.pushToast(ToastLoading, "creating account...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		return signUpDoneMsg{email: email, err: svc.SignUp(ctx, email, password)}
	})
}

// sendResetLink requests a password reset email, rate limited so repeated
// presses do not spam the auth backend.
func (m Model) sendResetLink() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	if email == "" {
		m.pushToast(ToastWarning, "email is required", 0)
		return m, nil
	}
	if !m.resetLimiter.Allow(m.now()) {
		wait := m.resetLimiter.Remaining(m.now()).Round(time.Second)
		m.pushToast(ToastWarning, fmt.Sprintf("reset link already sent, retry in %s", wait), 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	svc := m.svc
	m.pushToast(ToastLoading, "requesting reset link...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		return resetLinkMsg{err: svc.Cloud.RequestPasswordReset(ctx, email)}
	})
}

func (m Model) submitUpdatePassword() (tea.Model, tea.Cmd) {
	if !m.session.LoggedIn() {
		m.pushToast(ToastWarning, "log in through the emailed link first, then set the new password here", 0)
		return m, nil
	}
	password := m.passwordInput.Value()
	if password != m.confirmPasswordInput.Value() {
		m.pushToast(ToastWarning, "passwords do not match", 0)
		return m, nil
	}
	if err := cloud.CheckPassword(password, cloud.DefaultMinPasswordLength, cloud.DefaultMaxPasswordLength); err != nil {
		m.pushToast(ToastWarning, err.Error(), 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	svc := m.svc
	token := m.session.AccessToken
	m.pushToast(ToastLoading, "updating password...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		return passwordUpdatedMsg{err: svc.Cloud.UpdatePassword(ctx, token, password)}
	})
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if !m.session.LoggedIn() {
		m.pushToast(ToastWarning, "not logged in", 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	svc := m.svc
	sess := m.session
	return m, m.enqueueIO(func(ctx context.Context) any {
		return logoutDoneMsg{err: svc.Logout(ctx, sess)}
	})
}

func (m Model) syncToCloud() (tea.Model, tea.Cmd) {
	if !m.session.LoggedIn() {
		m.pushToast(ToastWarning, "log in before syncing to the cloud", 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	svc := m.svc
	sess := m.session
	snapshot := cloneBoards(m.boards)
	m.pushToast(ToastLoading, "syncing to cloud...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		saveID, err := svc.SyncToCloud(ctx, sess, snapshot)
		return syncDoneMsg{saveID: saveID, err: err}
	})
}

// save browsers

func (m Model) openLocalSaves() (tea.Model, tea.Cmd) {
	if m.svc == nil {
		m.pushToast(ToastError, "saving is unavailable", 0)
		return m, nil
	}
	m.setView(uistate.ViewLoadLocalSave)
	m.saveIndex = 0
	svc := m.svc
	return m, m.enqueueIO(func(ctx context.Context) any {
		files, err := svc.Store.List()
		return localSavesMsg{files: files, err: err}
	})
}

func (m Model) handleLoadLocalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput), key.Matches(msg, m.keys.goToMainMenu):
		m.setView(uistate.ViewMainMenu)
		return m, nil
	case key.Matches(msg, m.keys.up):
		if len(m.localSaves) > 0 {
			m.saveIndex = (m.saveIndex - 1 + len(m.localSaves)) % len(m.localSaves)
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if len(m.localSaves) > 0 {
			m.saveIndex = (m.saveIndex + 1) % len(m.localSaves)
		}
		return m, nil
	case key.Matches(msg, m.keys.accept):
		if len(m.localSaves) == 0 {
			m.pushToast(ToastWarning, "no local saves found", 0)
			return m, nil
		}
		name := m.localSaves[m.saveIndex].Name
		svc := m.svc
		m.pushToast(ToastLoading, "loading "+name+"...", 0)
		return m, m.enqueueIO(func(ctx context.Context) any {
			boards, err := svc.Store.Load(name)
			return boardsLoadedMsg{boards: boards, name: name, err: err}
		})
	case key.Matches(msg, m.keys.deleteCard):
		if len(m.localSaves) == 0 {
			return m, nil
		}
		name := m.localSaves[m.saveIndex].Name
		svc := m.svc
		return m, m.enqueueIO(func(ctx context.Context) any {
			if err := svc.Store.Delete(name); err != nil {
				return localSavesMsg{err: err}
			}
			files, err := svc.Store.List()
			return localSavesMsg{files: files, err: err}
		})
	default:
		return m, nil
	}
}

func (m Model) openCloudSaves() (tea.Model, tea.Cmd) {
	if !m.session.LoggedIn() {
		m.pushToast(ToastWarning, "log in to browse cloud saves", 0)
		return m, nil
	}
	if !m.cloudReady() {
		m.pushToast(ToastError, "cloud backend is not configured", 0)
		return m, nil
	}
	m.setView(uistate.ViewLoadCloudSave)
	m.saveIndex = 0
	svc := m.svc
	sess := m.session
	m.pushToast(ToastLoading, "fetching cloud saves...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		records, err := svc.FetchCloudSaves(ctx, sess)
		return cloudSavesMsg{records: records, err: err}
	})
}

func (m Model) handleLoadCloudKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput), key.Matches(msg, m.keys.goToMainMenu):
		m.setView(uistate.ViewMainMenu)
		return m, nil
	case key.Matches(msg, m.keys.up):
		if len(m.cloudSaves) > 0 {
			m.saveIndex = (m.saveIndex - 1 + len(m.cloudSaves)) % len(m.cloudSaves)
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if len(m.cloudSaves) > 0 {
			m.saveIndex = (m.saveIndex + 1) % len(m.cloudSaves)
		}
		return m, nil
	case key.Matches(msg, m.keys.accept):
		if len(m.cloudSaves) == 0 {
			m.pushToast(ToastWarning, "no cloud saves found", 0)
			return m, nil
		}
		record := m.cloudSaves[m.saveIndex]
		svc := m.svc
		name := fmt.Sprintf("cloud save %d", record.SaveID)
		m.pushToast(ToastLoading, "decrypting "+name+"...", 0)
		return m, m.enqueueIO(func(ctx context.Context) any {
			boards, err := svc.DecryptCloudSave(record)
			return boardsLoadedMsg{boards: boards, name: name, err: err}
		})
	case key.Matches(msg, m.keys.deleteCard):
		if len(m.cloudSaves) == 0 {
			return m, nil
		}
		record := m.cloudSaves[m.saveIndex]
		svc := m.svc
		sess := m.session
		return m, m.enqueueIO(func(ctx context.Context) any {
			if err := svc.Cloud.DeleteSave(ctx, sess, record.ID); err != nil {
				return cloudSavesMsg{err: err}
			}
			records, err := svc.FetchCloudSaves(ctx, sess)
			return cloudSavesMsg{records: records, err: err}
		})
	default:
		return m, nil
	}
}

// theme editor

func (m Model) handleCreateThemeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.setView(m.prevView)
		return m, nil
	case key.Matches(msg, m.keys.nextFocus):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.prevFocus):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.up):
		if m.focus == uistate.FocusThemeEditor {
			m.themeSlotIndex = (m.themeSlotIndex - 1 + len(styleSlotsOrdered)) % len(styleSlotsOrdered)
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if m.focus == uistate.FocusThemeEditor {
			m.themeSlotIndex = (m.themeSlotIndex + 1) % len(styleSlotsOrdered)
		}
		return m, nil
	case key.Matches(msg, m.keys.accept):
		switch m.focus {
		case uistate.FocusThemeEditor:
			m.openPopup(uistate.PopupEditThemeStyle)
			return m, nil
		case uistate.FocusSubmitButton:
			m.openPopup(uistate.PopupSaveTheme)
			return m, nil
		case uistate.FocusExtraFocus:
			// Apply for this session without writing a file.
			m.theme = m.themeEdit.Clone()
			m.setView(m.prevView)
			m.pushToast(ToastInfo, "theme applied for this session", 0)
			return m, nil
		}
		return m, nil
	default:
		return m, nil
	}
}

// editedSlot is the slot under the theme editor cursor.
func (m *Model) editedSlot() StyleSlot {
	return styleSlotsOrdered[clamp(m.themeSlotIndex, 0, len(styleSlotsOrdered)-1)]
}

func (m *Model) ensureThemeSpec() {
	if m.themeEditSpec == nil {
		m.themeEditSpec = map[StyleSlot]styleSpec{}
	}
}

func (m Model) handleThemeStyleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.closePopup()
		return m, nil
	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.down):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.prevFocus), key.Matches(msg, m.keys.up):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.accept):
		switch m.focus {
		case uistate.FocusStyleEditorFG:
			m.rgbInput.SetValue("")
			m.rgbTargetBG = false
			m.openPopup(uistate.PopupCustomRGBPromptFG)
			m.status = uistate.StatusUserInput
			return m, m.rgbInput.Focus()
		case uistate.FocusStyleEditorBG:
			m.rgbInput.SetValue("")
			m.rgbTargetBG = true
			m.openPopup(uistate.PopupCustomRGBPromptBG)
			m.status = uistate.StatusUserInput
			return m, m.rgbInput.Focus()
		case uistate.FocusStyleEditorModifier:
			m.toggleEditedBold()
			return m, nil
		default:
			m.closePopup()
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) toggleEditedBold() {
	m.ensureThemeSpec()
	slot := m.editedSlot()
	spec := m.themeEditSpec[slot]
	spec.Bold = !spec.Bold
	m.themeEditSpec[slot] = spec
	m.themeEdit.Styles[slot] = m.themeEdit.Style(slot).Bold(spec.Bold)
	m.pushToast(ToastInfo, fmt.Sprintf("%s bold: %t", slot, spec.Bold), 0)
}

// applyRGBPrompt parses the prompt value into the edited slot.
func (m Model) applyRGBPrompt() (tea.Model, tea.Cmd) {
	color, err := ParseRGB(m.rgbInput.Value())
	if err != nil {
		m.pushToast(ToastWarning, err.Error(), 0)
		return m, nil
	}
	m.ensureThemeSpec()
	slot := m.editedSlot()
	spec := m.themeEditSpec[slot]
	style := m.themeEdit.Style(slot)
	if m.rgbTargetBG {
		spec.BG = color
		style = style.Background(lipgloss.Color(color))
	} else {
		spec.FG = color
		style = style.Foreground(lipgloss.Color(color))
	}
	m.themeEditSpec[slot] = spec
	m.themeEdit.Styles[slot] = style
	m.status = uistate.StatusInitialized
	m.openPopup(uistate.PopupEditThemeStyle)
	m.pushToast(ToastInfo, fmt.Sprintf("%s color set to %s", slot, string(color)), 0)
	return m, nil
}

func (m Model) handleRGBPromptKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.status = uistate.StatusInitialized
		m.openPopup(uistate.PopupEditThemeStyle)
		return m, nil
	case key.Matches(msg, m.keys.accept):
		return m.applyRGBPrompt()
	default:
		return m, nil
	}
}

func (m Model) handleSaveThemeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.closePopup()
		return m, nil
	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.prevFocus),
		key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.right):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.accept):
		if m.focus != uistate.FocusSubmitButton {
			m.closePopup()
			return m, nil
		}
		return m.saveCustomTheme()
	default:
		return m, nil
	}
}

func (m Model) saveCustomTheme() (tea.Model, tea.Cmd) {
	applied := m.themeEdit.Clone()
	m.theme = applied
	m.extraThemes = append(m.extraThemes, applied)
	m.cfg.DefaultTheme = applied.Name
	m.closePopup()
	m.setView(m.prevView)
	if m.svc == nil {
		m.pushToast(ToastInfo, "theme applied for this session", 0)
		return m, nil
	}
	dir := m.svc.Paths.ThemeDir
	name := applied.Name
	specs := make(map[StyleSlot]styleSpec, len(m.themeEditSpec))
	for slot, spec := range m.themeEditSpec {
		specs[slot] = spec
	}
	saveCfg := m.saveConfigCmd()
	themeJob := m.enqueueIO(func(ctx context.Context) any {
		if _, err := SaveThemeFile(dir, name, specs); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{name: "theme " + name}
	})
	return m, tea.Batch(saveCfg, themeJob)
}
