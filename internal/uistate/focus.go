package uistate

import "slices"

type Focus int

const (
	FocusNone Focus = iota
	FocusTitle
	FocusBody
	FocusHelp
	FocusLog
	FocusMainMenu
	FocusMainMenuHelp
	FocusConfigTable
	FocusConfigHelp
	FocusEditKeybindingsTable
	FocusNewBoardName
	FocusNewBoardDescription
	FocusNewCardName
	FocusNewCardDescription
	FocusNewCardDueDate
	FocusSubmitButton
	FocusExtraFocus
	FocusEmailField
	FocusPasswordField
	FocusConfirmPasswordField
	FocusSendResetLinkButton
	FocusLoadSave
	FocusCardName
	FocusCardDescription
	FocusCardDueDate
	FocusCardPriority
	FocusCardStatus
	FocusCardTags
	FocusCardComments
	FocusCommandPaletteCommand
	FocusCommandPaletteCard
	FocusCommandPaletteBoard
	FocusChangeViewPopup
	FocusCardStatusSelector
	FocusCardPrioritySelector
	FocusEditGeneralConfigPopup
	FocusSelectDefaultViewPopup
	FocusChangeDateFormatPopup
	FocusThemeSelector
	FocusThemeEditor
	FocusStyleEditorFG
	FocusStyleEditorBG
	FocusStyleEditorModifier
	FocusTextInput
	FocusFilterByTagPopup
	FocusCloseButton
)

var focusNames = map[Focus]string{
	FocusNone:                   "Nothing",
	FocusTitle:                  "Title",
	FocusBody:                   "Body",
	FocusHelp:                   "Help",
	FocusLog:                    "Log",
	FocusMainMenu:               "Main Menu",
	FocusMainMenuHelp:           "Help Menu",
	FocusConfigTable:            "Config",
	FocusConfigHelp:             "Config Help",
	FocusEditKeybindingsTable:   "Edit Keybindings",
	FocusNewBoardName:           "New Board Name",
	FocusNewBoardDescription:    "New Board Description",
	FocusNewCardName:            "New Card Name",
	FocusNewCardDescription:     "New Card Description",
	FocusNewCardDueDate:         "New Card Due Date",
	FocusSubmitButton:           "Submit",
	FocusExtraFocus:             "Extra Focus",
	FocusEmailField:             "Email",
	FocusPasswordField:          "Password",
	FocusConfirmPasswordField:   "Confirm Password",
	FocusSendResetLinkButton:    "Send Reset Link",
	FocusLoadSave:               "Load Save",
	FocusCardName:               "Card Name",
	FocusCardDescription:        "Card Description",
	FocusCardDueDate:            "Card Due Date",
	FocusCardPriority:           "Card Priority",
	FocusCardStatus:             "Card Status",
	FocusCardTags:               "Card Tags",
	FocusCardComments:           "Card Comments",
	FocusCommandPaletteCommand:  "Commands",
	FocusCommandPaletteCard:     "Card Results",
	FocusCommandPaletteBoard:    "Board Results",
	FocusChangeViewPopup:        "Change View",
	FocusCardStatusSelector:     "Status Selector",
	FocusCardPrioritySelector:   "Priority Selector",
	FocusEditGeneralConfigPopup: "Edit Config",
	FocusSelectDefaultViewPopup: "Select Default View",
	FocusChangeDateFormatPopup:  "Change Date Format",
	FocusThemeSelector:          "Theme Selector",
	FocusThemeEditor:            "Theme Editor",
	FocusStyleEditorFG:          "Foreground Style",
	FocusStyleEditorBG:          "Background Style",
	FocusStyleEditorModifier:    "Modifier Style",
	FocusTextInput:              "Text Input",
	FocusFilterByTagPopup:       "Filter by Tag",
	FocusCloseButton:            "Close",
}

func (f Focus) String() string {
	if name, ok := focusNames[f]; ok {
		return name
	}
	return "Nothing"
}

// popupTargets is the focus cycle of each popup. While a popup is open its
// targets replace the view's targets entirely.
var popupTargets = map[PopupMode][]Focus{
	PopupViewCard: {
		FocusCardName, FocusCardDescription, FocusCardDueDate,
		FocusCardPriority, FocusCardStatus, FocusCardTags, FocusCardComments,
		FocusSubmitButton,
	},
	PopupCommandPalette: {
		FocusCommandPaletteCommand, FocusCommandPaletteCard, FocusCommandPaletteBoard,
	},
	PopupEditSpecificKeybinding:    {FocusTextInput, FocusSubmitButton},
	PopupChangeUIMode:              {FocusChangeViewPopup},
	PopupCardStatusSelector:        {FocusCardStatusSelector},
	PopupCardPrioritySelector:      {FocusCardPrioritySelector},
	PopupEditGeneralConfig:         {FocusEditGeneralConfigPopup},
	PopupSelectDefaultView:         {FocusSelectDefaultViewPopup},
	PopupChangeDateFormat:          {FocusChangeDateFormatPopup},
	PopupChangeTheme:               {FocusThemeSelector},
	PopupEditThemeStyle:            {FocusStyleEditorFG, FocusStyleEditorBG, FocusStyleEditorModifier, FocusSubmitButton},
	PopupSaveTheme:                 {FocusSubmitButton, FocusExtraFocus},
	PopupCustomRGBPromptFG:         {FocusTextInput, FocusSubmitButton},
	PopupCustomRGBPromptBG:         {FocusTextInput, FocusSubmitButton},
	PopupConfirmDiscardCardChanges: {FocusSubmitButton, FocusExtraFocus},
	PopupFilterByTag:               {FocusFilterByTagPopup, FocusSubmitButton},
}

var viewTargets = map[ViewMode][]Focus{
	ViewZen:              {FocusBody},
	ViewTitleBody:        {FocusTitle, FocusBody},
	ViewBodyHelp:         {FocusBody, FocusHelp},
	ViewBodyLog:          {FocusBody, FocusLog},
	ViewTitleBodyHelp:    {FocusTitle, FocusBody, FocusHelp},
	ViewTitleBodyLog:     {FocusTitle, FocusBody, FocusLog},
	ViewBodyHelpLog:      {FocusBody, FocusHelp, FocusLog},
	ViewTitleBodyHelpLog: {FocusTitle, FocusBody, FocusHelp, FocusLog},
	ViewConfigMenu:       {FocusConfigTable, FocusSubmitButton, FocusExtraFocus, FocusConfigHelp, FocusLog},
	ViewEditKeybindings:  {FocusEditKeybindingsTable, FocusSubmitButton},
	ViewMainMenu:         {FocusMainMenu, FocusMainMenuHelp, FocusLog},
	ViewHelpMenu:         {FocusHelp, FocusLog},
	ViewLogsOnly:         {FocusLog},
	ViewNewBoard: {
		FocusNewBoardName, FocusNewBoardDescription, FocusSubmitButton,
	},
	ViewNewCard: {
		FocusNewCardName, FocusNewCardDescription, FocusNewCardDueDate, FocusSubmitButton,
	},
	ViewLoadLocalSave: {FocusLoadSave},
	ViewCreateTheme:   {FocusThemeEditor, FocusSubmitButton, FocusExtraFocus},
	ViewLogin: {
		FocusEmailField, FocusPasswordField, FocusExtraFocus, FocusSubmitButton,
	},
	ViewSignUp: {
		FocusEmailField, FocusPasswordField, FocusConfirmPasswordField, FocusSubmitButton,
	},
	ViewResetPassword: {
		FocusEmailField, FocusSendResetLinkButton, FocusTextInput,
		FocusPasswordField, FocusConfirmPasswordField, FocusSubmitButton,
	},
	ViewLoadCloudSave: {FocusLoadSave},
}

// AvailableTargets returns the ordered focus cycle for a (view, popup)
// pair. Popup targets win while a popup is open.
func AvailableTargets(view ViewMode, popup PopupMode) []Focus {
	if popup != PopupNone {
		if targets, ok := popupTargets[popup]; ok {
			return targets
		}
		return nil
	}
	if targets, ok := viewTargets[view]; ok {
		return targets
	}
	return nil
}

// Next advances focus within the cycle, wrapping at the end.
func Next(view ViewMode, popup PopupMode, current Focus) Focus {
	targets := AvailableTargets(view, popup)
	if len(targets) == 0 {
		return FocusNone
	}
	i := slices.Index(targets, current)
	if i < 0 {
		return targets[0]
	}
	return targets[(i+1)%len(targets)]
}

// Prev retreats focus within the cycle, wrapping at the start.
func Prev(view ViewMode, popup PopupMode, current Focus) Focus {
	targets := AvailableTargets(view, popup)
	if len(targets) == 0 {
		return FocusNone
	}
	i := slices.Index(targets, current)
	if i < 0 {
		return targets[0]
	}
	return targets[(i-1+len(targets))%len(targets)]
}

// Clamp forces focus back into the cycle if a transition left it outside.
func Clamp(view ViewMode, popup PopupMode, current Focus) Focus {
	targets := AvailableTargets(view, popup)
	if len(targets) == 0 {
		return FocusNone
	}
	if slices.Contains(targets, current) {
		return current
	}
	return targets[0]
}
