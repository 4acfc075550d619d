package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/videodl/internal/config"
)

// Dialog size
const (
	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 260
)

// SettingsDialog edits the preferences that have no place on the main form
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry *widget.Entry
	bridgeCheck      *widget.Check
}

// ShowSettingsDialog opens the dialog; onSaved runs after a confirmed save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, l *Localization, onSaved func()) {
	sd := &SettingsDialog{
		settings:     settings,
		localization: l,
		window:       window,
		onSaved:      onSaved,
	}
	sd.createUI()
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyChoose), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.bridgeCheck = widget.NewCheck(t(KeyBrowserIntegration), nil)
	hint := widget.NewLabel(t(KeyAppliesOnRestart))
	hint.Wrapping = fyne.TextWrapWord
	hint.Importance = widget.LowImportance

	form := container.NewVBox(
		widget.NewLabel(t(KeyDestination)),
		downloadDirRow,
		widget.NewSeparator(),
		sd.bridgeCheck,
		hint,
	)

	sd.dialog = dialog.NewCustomConfirm(t(KeySettings), t(KeySave), t(KeyCancel), form, sd.onSave, sd.window)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.bridgeCheck.SetChecked(sd.settings.GetBrowserIntegration())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	sd.settings.SetBrowserIntegration(sd.bridgeCheck.Checked)
	if sd.onSaved != nil {
		sd.onSaved()
	}
}
