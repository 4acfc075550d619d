package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/config"
	"github.com/ytget/videodl/internal/model"
	"github.com/ytget/videodl/internal/platform"
	"github.com/ytget/videodl/internal/session"
)

// Options wires the window to the rest of the application
type Options struct {
	Session      *session.Session
	Settings     *config.Settings
	LogPanel     *LogPanel
	Localization *Localization
	FFmpegPath   string // override; empty searches PATH
	Version      string
	Log          *zap.Logger
}

// RootUI is the main window
type RootUI struct {
	window       fyne.Window
	session      *session.Session
	settings     *config.Settings
	localization *Localization
	logPanel     *LogPanel
	log          *zap.Logger
	version      string

	urlEntry       *widget.Entry
	destEntry      *widget.Entry
	itemsEntry     *widget.Entry
	formatSelect   *widget.Select
	audioOnlyCheck *widget.Check
	playlistCheck  *widget.Check
	thumbCheck     *widget.Check
	preferMP4Check *widget.Check
	listBtn        *widget.Button
	downloadBtn    *widget.Button
	cancelBtn      *widget.Button
	progressBar    *widget.ProgressBar
	statusLabel    *widget.Label

	ffmpegAvailable bool
	activeJob       string
}

// NewRootUI builds the window content, restores preferences and checks
// for ffmpeg. Preferences are saved when the window closes.
func NewRootUI(window fyne.Window, opts Options) *RootUI {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.LogPanel == nil {
		opts.LogPanel = NewLogPanel()
	}
	if opts.Localization == nil {
		opts.Localization = NewLocalization("en")
	}

	ui := &RootUI{
		window:          window,
		session:         opts.Session,
		settings:        opts.Settings,
		localization:    opts.Localization,
		logPanel:        opts.LogPanel,
		log:             opts.Log.Named("ui"),
		version:         opts.Version,
		ffmpegAvailable: platform.ToolAvailable(opts.FFmpegPath, platform.FFmpegCommand),
	}

	ui.setupUI()
	ui.createMenu()
	ui.loadPreferences()
	ui.checkFFmpeg()

	ui.session.SetUpdateCallback(ui.onTaskUpdate)
	window.SetCloseIntercept(func() {
		ui.savePreferences()
		window.Close()
	})
	return ui
}

func (ui *RootUI) t(key string) string {
	return ui.localization.GetText(key)
}

func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("https://")
	ui.urlEntry.OnSubmitted = func(string) { ui.onListFormats() }
	ui.listBtn = widget.NewButton(ui.t(KeyListFormats), ui.onListFormats)

	ui.destEntry = widget.NewEntry()
	chooseBtn := widget.NewButton(ui.t(KeyChoose), ui.onChooseDir)

	ui.formatSelect = widget.NewSelect(nil, nil)
	ui.formatSelect.PlaceHolder = DashPlaceholder
	ui.audioOnlyCheck = widget.NewCheck(ui.t(KeyAudioOnly), ui.onAudioOnlyToggle)
	ui.playlistCheck = widget.NewCheck(ui.t(KeyPlaylist), nil)
	ui.thumbCheck = widget.NewCheck(ui.t(KeyThumbnail), nil)
	ui.preferMP4Check = widget.NewCheck(ui.t(KeyPreferMP4), nil)

	ui.itemsEntry = widget.NewEntry()
	ui.itemsEntry.SetPlaceHolder(ItemsPlaceholder)

	ui.downloadBtn = widget.NewButton(ui.t(KeyDownload), ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.cancelBtn = widget.NewButton(ui.t(KeyCancel), ui.onCancel)
	ui.cancelBtn.Disable()

	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel(ui.t(KeyReady))
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	label := func(key string) fyne.CanvasObject {
		l := widget.NewLabel(ui.t(key))
		return container.NewGridWrap(fyne.NewSize(LabelColumnWidth, l.MinSize().Height), l)
	}

	urlRow := container.NewBorder(nil, nil, label(KeyURL), ui.listBtn, ui.urlEntry)
	destRow := container.NewBorder(nil, nil, label(KeyDestination), chooseBtn, ui.destEntry)
	formatRow := container.NewBorder(nil, nil, label(KeyFormat), nil,
		container.NewGridWrap(fyne.NewSize(FormatSelectMinW, ui.formatSelect.MinSize().Height), ui.formatSelect))
	optionsRow := container.NewHBox(ui.audioOnlyCheck, ui.playlistCheck, ui.thumbCheck, ui.preferMP4Check)
	actionRow := container.NewBorder(nil, nil, label(KeyItems),
		container.NewHBox(ui.downloadBtn, ui.cancelBtn), ui.itemsEntry)

	form := container.NewVBox(
		urlRow,
		destRow,
		formatRow,
		optionsRow,
		actionRow,
		ui.progressBar,
		ui.statusLabel,
	)

	logCard := widget.NewCard("", ui.t(KeyLog), ui.logPanel.Widget())
	logArea := container.NewStack(
		container.NewGridWrap(fyne.NewSize(0, LogPanelMinH), layout.NewSpacer()),
		logCard,
	)

	ui.window.SetTitle(ui.t(KeyAppTitle))
	ui.window.SetContent(container.NewBorder(form, nil, nil, nil, logArea))
	ui.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
}

func (ui *RootUI) createMenu() {
	fileMenu := fyne.NewMenu(ui.t(KeyFile),
		fyne.NewMenuItem(ui.t(KeyOpenFolder), ui.onOpenFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(ui.t(KeySettings), ui.onShowSettings),
	)
	helpMenu := fyne.NewMenu(ui.t(KeyHelp),
		fyne.NewMenuItem(ui.t(KeyAbout), func() {
			dialog.ShowInformation(ui.t(KeyAbout),
				fmt.Sprintf("%s %s", ui.t(KeyAppTitle), ui.version), ui.window)
		}),
	)
	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// loadPreferences restores the persisted form state
func (ui *RootUI) loadPreferences() {
	p := ui.settings.Load()
	ui.destEntry.SetText(p.DownloadDir)
	ui.preferMP4Check.SetChecked(p.PreferMP4)
	ui.audioOnlyCheck.SetChecked(p.AudioOnly)
	ui.playlistCheck.SetChecked(p.PlaylistMode)
	ui.thumbCheck.SetChecked(p.Thumbnail)
}

// savePreferences persists the form state
func (ui *RootUI) savePreferences() {
	p := ui.settings.Load()
	p.DownloadDir = ui.destEntry.Text
	p.PreferMP4 = ui.preferMP4Check.Checked
	p.AudioOnly = ui.audioOnlyCheck.Checked
	p.PlaylistMode = ui.playlistCheck.Checked
	p.Thumbnail = ui.thumbCheck.Checked
	ui.settings.Save(p)
	ui.log.Debug("preferences saved")
}

// checkFFmpeg disables audio extraction when no muxer is installed
func (ui *RootUI) checkFFmpeg() {
	if ui.ffmpegAvailable {
		return
	}
	ui.log.Warn("ffmpeg not found on PATH; only progressive formats can be downloaded")
	ui.audioOnlyCheck.SetChecked(false)
	ui.audioOnlyCheck.Disable()
	dialog.ShowInformation(ui.t(KeyFFmpegMissing), ui.t(KeyFFmpegMissingHint), ui.window)
}

func (ui *RootUI) onAudioOnlyToggle(checked bool) {
	if checked {
		ui.formatSelect.ClearSelected()
		ui.formatSelect.Disable()
		return
	}
	ui.formatSelect.Enable()
}

func (ui *RootUI) onChooseDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.destEntry.SetText(uri.Path())
		ui.settings.SetDownloadDirectory(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onOpenFolder() {
	if err := platform.OpenFolder(ui.destEntry.Text); err != nil {
		ui.log.Error("open folder failed", zap.Error(err))
		dialog.ShowError(err, ui.window)
	}
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		p := ui.settings.Load()
		ui.destEntry.SetText(p.DownloadDir)
		ui.statusLabel.SetText(ui.t(KeySettingsSaved))
	})
}

func (ui *RootUI) onListFormats() {
	rawURL := strings.TrimSpace(ui.urlEntry.Text)
	if err := validateURL(rawURL); err != nil {
		ui.warn(err)
		return
	}

	ui.statusLabel.SetText(ui.t(KeyListingFormats))
	ui.formatSelect.ClearSelected()
	ui.formatSelect.SetOptions(nil)
	ui.listBtn.Disable()

	ctx, cancel := context.WithTimeout(context.Background(), ListTimeout)
	ui.session.ListStreams(ctx, rawURL, nil, func(streams []model.StreamDescriptor, err error) {
		cancel()
		ui.listBtn.Enable()
		if err != nil {
			ui.log.Error("listing formats failed", zap.Error(err))
			ui.statusLabel.SetText(ui.t(KeyListFailed))
			dialog.ShowError(err, ui.window)
			return
		}
		ui.formatSelect.SetOptions(formatLabels(streams))
		ui.statusLabel.SetText(fmt.Sprintf(ui.t(KeyFormatsFound), len(streams)))
	})
}

func (ui *RootUI) onDownload() {
	req, err := buildRequest(FormState{
		URL:         ui.urlEntry.Text,
		OutputDir:   ui.destEntry.Text,
		FormatLabel: ui.formatSelect.Selected,
		AudioOnly:   ui.audioOnlyCheck.Checked,
		Playlist:    ui.playlistCheck.Checked,
		Thumbnail:   ui.thumbCheck.Checked,
		PreferMP4:   ui.preferMP4Check.Checked,
		Items:       ui.itemsEntry.Text,
	})
	if err != nil {
		ui.warn(err)
		return
	}
	if req.FormatID == "" && !req.AudioOnly && len(ui.formatSelect.Options) == 0 {
		ui.log.Info(ui.t(KeyNoFormatListed))
	}

	ui.setBusy(true)
	ui.progressBar.SetValue(0)
	ui.log.Info("starting download", zap.String("url", req.URL))

	if !req.Playlist {
		ui.start(req)
		return
	}

	// the item count lets the aggregate bar move before the first tick
	// reports it
	ui.statusLabel.SetText(ui.t(KeyResolvingPlaylist))
	ctx, cancel := context.WithTimeout(context.Background(), ResolveTimeout)
	ui.session.Resolve(ctx, req.URL, nil, func(res model.ResolutionResult, err error) {
		cancel()
		if err == nil && res.IsPlaylist {
			req.PlaylistCount = res.TotalCount
			if len(req.Items) > 0 {
				req.PlaylistCount = len(req.Items)
			}
		}
		ui.start(req)
	})
}

func (ui *RootUI) start(req model.DownloadRequest) {
	ui.statusLabel.SetText(ui.t(KeyStarting))
	task := ui.session.Download(req, session.SourceGUI, ui.onOutcome)
	ui.activeJob = task.ID
}

// onOutcome receives the terminal outcome of a window-started job
func (ui *RootUI) onOutcome(o model.Outcome) {
	switch o.State {
	case model.OutcomeDone:
		ui.log.Info(o.Message(), zap.String("path", o.OutputPath))
	case model.OutcomeCancelled:
		ui.log.Info(o.Message())
	default:
		ui.log.Error(o.Message(), zap.String("kind", string(model.KindOf(o.Err))))
	}
}

func (ui *RootUI) onCancel() {
	ui.session.Cancel()
	ui.log.Info(ui.t(KeyCancelling))
	ui.statusLabel.SetText(ui.t(KeyCancelling))
}

// onTaskUpdate renders every job snapshot, including jobs queued by the
// browser bridge. It runs on the UI goroutine.
func (ui *RootUI) onTaskUpdate(task model.DownloadTask) {
	switch {
	case task.Status == model.TaskStatusPending:
		if task.Source != session.SourceGUI {
			ui.log.Info(ui.t(KeyBridgeJob), zap.String("url", task.URL), zap.String("job", task.ID))
		}
		return
	case task.Status.IsActive():
		if task.ID != ui.activeJob {
			ui.activeJob = task.ID
			ui.progressBar.SetValue(0)
		}
		ui.setBusy(true)
		ui.progressBar.SetValue(task.Percent / 100)
		ui.statusLabel.SetText(ui.statusLine(task))
	case task.Status.IsFinished():
		if task.ID == ui.activeJob {
			if task.Status == model.TaskStatusCompleted {
				ui.progressBar.SetValue(1)
			}
			ui.statusLabel.SetText(ui.statusLine(task))
		}
		ui.setBusy(ui.session.Busy())
	}
}

func (ui *RootUI) statusLine(task model.DownloadTask) string {
	text := task.StatusText
	if text == "" {
		text = task.Status.String()
	}
	if task.Source != session.SourceGUI {
		return task.GetDisplayTitle() + FormatLabelSep + text
	}
	return text
}

func (ui *RootUI) setBusy(busy bool) {
	if busy {
		ui.downloadBtn.Disable()
		ui.cancelBtn.Enable()
		return
	}
	ui.downloadBtn.Enable()
	ui.cancelBtn.Disable()
}

// warn shows a validation problem in the user's language
func (ui *RootUI) warn(err error) {
	var key string
	switch {
	case errors.Is(err, errEmptyURL):
		key = KeyPleaseEnterURL
	case errors.Is(err, errInvalidURL):
		key = KeyInvalidURL
	case errors.Is(err, errEmptyDestination):
		key = KeyChooseDestination
	case errors.Is(err, errInvalidDestination):
		key = KeyInvalidDestination
	case model.KindOf(err) == model.KindConfiguration:
		key = KeyInvalidItems
	default:
		dialog.ShowError(err, ui.window)
		return
	}
	dialog.ShowInformation(ui.t(KeyWarning), ui.t(key), ui.window)
}
