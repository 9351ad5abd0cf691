// Package uistate models the view mode, popup mode, focus and app status
// that together decide how every input event is routed.
package uistate

type ViewMode int

const (
	ViewZen ViewMode = iota
	ViewTitleBody
	ViewBodyHelp
	ViewBodyLog
	ViewTitleBodyHelp
	ViewTitleBodyLog
	ViewBodyHelpLog
	ViewTitleBodyHelpLog
	ViewConfigMenu
	ViewEditKeybindings
	ViewMainMenu
	ViewHelpMenu
	ViewLogsOnly
	ViewNewBoard
	ViewNewCard
	ViewLoadLocalSave
	ViewCreateTheme
	ViewLogin
	ViewSignUp
	ViewResetPassword
	ViewLoadCloudSave
)

var viewModeNames = map[ViewMode]string{
	ViewZen:              "Zen",
	ViewTitleBody:        "Title and Body",
	ViewBodyHelp:         "Body and Help",
	ViewBodyLog:          "Body and Log",
	ViewTitleBodyHelp:    "Title, Body and Help",
	ViewTitleBodyLog:     "Title, Body and Log",
	ViewBodyHelpLog:      "Body, Help and Log",
	ViewTitleBodyHelpLog: "Title, Body, Help and Log",
	ViewConfigMenu:       "Config",
	ViewEditKeybindings:  "Edit Keybindings",
	ViewMainMenu:         "Main Menu",
	ViewHelpMenu:         "Help",
	ViewLogsOnly:         "Logs",
	ViewNewBoard:         "New Board",
	ViewNewCard:          "New Card",
	ViewLoadLocalSave:    "Load a Save (local)",
	ViewCreateTheme:      "Create Theme",
	ViewLogin:            "Login",
	ViewSignUp:           "Sign Up",
	ViewResetPassword:    "Reset Password",
	ViewLoadCloudSave:    "Load a Save (cloud)",
}

func (v ViewMode) String() string {
	if name, ok := viewModeNames[v]; ok {
		return name
	}
	return "Unknown"
}

// IsKanban reports whether the view renders the board body.
func (v ViewMode) IsKanban() bool {
	switch v {
	case ViewZen, ViewTitleBody, ViewBodyHelp, ViewBodyLog,
		ViewTitleBodyHelp, ViewTitleBodyLog, ViewBodyHelpLog, ViewTitleBodyHelpLog:
		return true
	}
	return false
}

// SelectableViews lists the layouts offered by the change-view popup.
func SelectableViews() []ViewMode {
	return []ViewMode{
		ViewZen, ViewTitleBody, ViewBodyHelp, ViewBodyLog,
		ViewTitleBodyHelp, ViewTitleBodyLog, ViewBodyHelpLog, ViewTitleBodyHelpLog,
	}
}

// ViewModeByName resolves a configured default view by display name.
func ViewModeByName(name string) (ViewMode, bool) {
	for mode, n := range viewModeNames {
		if n == name {
			return mode, true
		}
	}
	return ViewZen, false
}

type PopupMode int

const (
	PopupNone PopupMode = iota
	PopupViewCard
	PopupCommandPalette
	PopupEditSpecificKeybinding
	PopupChangeUIMode
	PopupCardStatusSelector
	PopupCardPrioritySelector
	PopupEditGeneralConfig
	PopupSelectDefaultView
	PopupChangeDateFormat
	PopupChangeTheme
	PopupEditThemeStyle
	PopupSaveTheme
	PopupCustomRGBPromptFG
	PopupCustomRGBPromptBG
	PopupConfirmDiscardCardChanges
	PopupFilterByTag
)

func (p PopupMode) String() string {
	switch p {
	case PopupNone:
		return "None"
	case PopupViewCard:
		return "Card View"
	case PopupCommandPalette:
		return "Command Palette"
	case PopupEditSpecificKeybinding:
		return "Edit Keybinding"
	case PopupChangeUIMode:
		return "Change View"
	case PopupCardStatusSelector:
		return "Change Card Status"
	case PopupCardPrioritySelector:
		return "Change Card Priority"
	case PopupEditGeneralConfig:
		return "Edit Config"
	case PopupSelectDefaultView:
		return "Select Default View"
	case PopupChangeDateFormat:
		return "Change Date Format"
	case PopupChangeTheme:
		return "Change Theme"
	case PopupEditThemeStyle:
		return "Edit Theme Style"
	case PopupSaveTheme:
		return "Save Theme"
	case PopupCustomRGBPromptFG, PopupCustomRGBPromptBG:
		return "Custom RGB"
	case PopupConfirmDiscardCardChanges:
		return "Discard Changes?"
	case PopupFilterByTag:
		return "Filter by Tag"
	default:
		return "Unknown"
	}
}

type AppStatus int

const (
	StatusInitialized AppStatus = iota
	StatusUserInput
	StatusKeyBindMode
)

func (s AppStatus) String() string {
	switch s {
	case StatusUserInput:
		return "User Input"
	case StatusKeyBindMode:
		return "Key Bind"
	default:
		return "Initialized"
	}
}
