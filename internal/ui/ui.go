package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/engine"
	"github.com/tartampluch/go-tzconv/internal/prefs"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// TzConvApp is the display surface. Widgets only call State mutators; what
// they show comes back through State notifications.
type TzConvApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer

	State    *engine.State
	Catalog  *zone.Catalog
	Renderer *engine.Renderer
	Exporter *engine.CalendarExporter
	Store    *prefs.Store
	Clock    engine.Clock // Injected clock for testability

	SupportedLanguages []string
	MinuteStep         int

	// Widgets
	form           *widget.Form
	dateEntry      *DateEntry
	hourSelect     *widget.Select
	minuteSelect   *widget.Select
	zoneSelect     *widget.Select
	templateCheck  *widget.Check
	templateButton *widget.Button
	templateLabel  *widget.Label
	zonesButton    *widget.Button
	selectedCount  *widget.Label
	copyButton     *widget.Button
	exportButton   *widget.Button
	output         *widget.Label

	lastOutput  string
	unsubscribe []func()
}

// NewTzConvApp constructs the application and wires dependencies.
func NewTzConvApp(a fyne.App, state *engine.State, renderer *engine.Renderer, store *prefs.Store, settings *config.Settings) *TzConvApp {
	a.SetIcon(theme.HistoryIcon())

	if settings == nil {
		settings = config.DefaultSettings()
	}
	clock := engine.Clock(engine.RealClock{})

	return &TzConvApp{
		App:                a,
		Preferences:        a.Preferences(),
		State:              state,
		Catalog:            state.Catalog(),
		Renderer:           renderer,
		Exporter:           &engine.CalendarExporter{Clock: clock},
		Store:              store,
		Clock:              clock,
		SupportedLanguages: config.SupportedLanguages,
		MinuteStep:         settings.MinuteStep,
	}
}

// Run builds the main window and blocks in the Fyne event loop.
func (app *TzConvApp) Run() {
	app.SetupI18n()
	app.BuildMainWindow()
	app.Window.Show()
	app.App.Run()
}

// BuildMainWindow creates every widget, subscribes to the State and renders
// the initial output. It does not show the window.
func (app *TzConvApp) BuildMainWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w

	app.buildInputs()
	app.buildTemplateRow()
	app.buildActions()

	app.output = widget.NewLabel("")
	app.output.TextStyle = fyne.TextStyle{Monospace: true}
	app.output.Selectable = true
	app.output.Wrapping = fyne.TextWrapOff

	app.form = widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblDate), app.dateEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblTime),
			container.NewHBox(app.hourSelect, widget.NewLabel(":"), app.minuteSelect)),
		widget.NewFormItem(app.GetMsg(config.TKeyLblZone), app.zoneSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblTemplate),
			container.NewBorder(nil, nil, app.templateCheck, app.templateButton, app.templateLabel)),
	)

	top := container.NewVBox(
		app.form,
		container.NewBorder(nil, nil, nil, app.zonesButton, app.selectedCount),
		widget.NewSeparator(),
	)
	bottom := container.NewGridWithColumns(config.LayoutColumnsPair, app.copyButton, app.exportButton)

	w.SetContent(container.NewBorder(top, bottom, nil, nil, container.NewScroll(app.output)))
	w.SetMainMenu(app.buildMainMenu())
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetCloseIntercept(func() {
		_ = app.Persist()
		app.Detach()
		w.Close()
		app.App.Quit()
	})

	app.subscribe()
	snap := app.State.Snapshot()
	app.syncInstant(snap)
	app.syncSelection(snap)
	app.syncTemplate(snap)
	app.refresh(snap)
}

// -----------------------------------------------------------------------------
// Widget construction
// -----------------------------------------------------------------------------

func (app *TzConvApp) buildInputs() {
	app.dateEntry = NewDateEntry()
	app.dateEntry.Validator = func(s string) error {
		if _, err := time.Parse(config.DateFormatEntry, s); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrDate))
		}
		return nil
	}
	app.dateEntry.OnChanged = func(s string) {
		d, err := time.Parse(config.DateFormatEntry, s)
		if err != nil {
			return
		}
		app.State.SetDate(d.Year(), d.Month(), d.Day())
	}

	hours := make([]string, 0, config.MaxHour+1)
	for h := 0; h <= config.MaxHour; h++ {
		hours = append(hours, fmt.Sprintf(config.FormatTwoDigits, h))
	}
	app.hourSelect = widget.NewSelect(hours, func(s string) {
		if h, err := strconv.Atoi(s); err == nil {
			app.State.SetHour(h)
		}
	})

	app.minuteSelect = widget.NewSelect(app.minuteOptions(app.State.Instant().Minute()), func(s string) {
		if m, err := strconv.Atoi(s); err == nil {
			app.State.SetMinute(m)
		}
	})

	app.zoneSelect = widget.NewSelect(zone.Strings(app.Catalog.IDs()), func(s string) {
		if err := app.State.SetZone(zone.ID(s)); err != nil {
			slog.Warn(config.ErrUnresolvable,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyZone, s,
				config.LogKeyError, err)
		}
	})
}

// minuteOptions lists the stepped minutes plus current, so a persisted value
// off the step grid stays selectable.
func (app *TzConvApp) minuteOptions(current int) []string {
	step := app.MinuteStep
	if step <= 0 {
		step = config.DefaultMinuteStep
	}
	var minutes []int
	for m := 0; m <= config.MaxMinute; m += step {
		minutes = append(minutes, m)
	}
	if !slices.Contains(minutes, current) {
		minutes = append(minutes, current)
		slices.Sort(minutes)
	}

	opts := make([]string, len(minutes))
	for i, m := range minutes {
		opts[i] = fmt.Sprintf(config.FormatTwoDigits, m)
	}
	return opts
}

func (app *TzConvApp) buildTemplateRow() {
	app.templateLabel = widget.NewLabel("")
	app.templateLabel.Truncation = fyne.TextTruncateEllipsis

	app.templateButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSelectTpl), theme.FolderOpenIcon(), app.ShowTemplatePicker)

	app.templateCheck = widget.NewCheck(app.GetMsg(config.TKeyChkUseTemplate), func(checked bool) {
		if !checked {
			app.State.SetTemplate("")
			app.templateButton.Disable()
			return
		}
		app.templateButton.Enable()
		if app.State.Template() == "" {
			app.ShowTemplatePicker()
		}
	})
}

func (app *TzConvApp) buildActions() {
	app.zonesButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSelectZones), theme.ListIcon(), app.ShowZonesDialog)
	app.selectedCount = widget.NewLabel("")

	app.copyButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCopy), theme.ContentCopyIcon(), app.CopyOutput)
	app.copyButton.Importance = widget.HighImportance

	app.exportButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnExport), theme.DocumentSaveIcon(), app.ShowExportDialog)
}

// -----------------------------------------------------------------------------
// State binding
// -----------------------------------------------------------------------------

func (app *TzConvApp) subscribe() {
	app.Detach()
	app.unsubscribe = []func(){
		app.State.Subscribe(engine.FieldInstant, app.syncInstant),
		app.State.Subscribe(engine.FieldSelection, app.syncSelection),
		app.State.Subscribe(engine.FieldTemplate, app.syncTemplate),
		app.State.Subscribe(engine.FieldInstant, app.refresh),
		app.State.Subscribe(engine.FieldSelection, app.refresh),
		app.State.Subscribe(engine.FieldTemplate, app.refresh),
	}
}

// Detach removes every State subscription held by the window.
func (app *TzConvApp) Detach() {
	for _, unsub := range app.unsubscribe {
		unsub()
	}
	app.unsubscribe = nil
}

// syncInstant mirrors the reference instant into the input widgets. Setting a
// widget to the value it already reflects commits nothing, so no loop occurs.
func (app *TzConvApp) syncInstant(snap engine.Snapshot) {
	t := snap.Instant
	if d := t.Format(config.DateFormatEntry); app.dateEntry.Text != d {
		app.dateEntry.SetText(d)
	}
	app.hourSelect.SetSelected(fmt.Sprintf(config.FormatTwoDigits, t.Hour()))
	app.minuteSelect.Options = app.minuteOptions(t.Minute())
	app.minuteSelect.SetSelected(fmt.Sprintf(config.FormatTwoDigits, t.Minute()))
	app.zoneSelect.SetSelected(string(snap.ReferenceZone()))
}

func (app *TzConvApp) syncSelection(snap engine.Snapshot) {
	app.selectedCount.SetText(app.GetMsgData(config.TKeyLblSelectedCount, len(snap.Selection)))
}

func (app *TzConvApp) syncTemplate(snap engine.Snapshot) {
	if snap.Template == "" {
		app.templateLabel.SetText(app.GetMsg(config.TKeyLblNoTemplate))
	} else {
		app.templateLabel.SetText(storage.NewFileURI(snap.Template).Name())
	}
	switch {
	case snap.Template != "" && !app.templateCheck.Checked:
		app.templateCheck.SetChecked(true)
	case snap.Template == "" && app.templateCheck.Checked:
		app.templateCheck.SetChecked(false)
	}
	if app.templateCheck.Checked {
		app.templateButton.Enable()
	} else {
		app.templateButton.Disable()
	}
}

// refresh renders the snapshot. On a template failure the previous output
// stays on screen and the user is told why.
func (app *TzConvApp) refresh(snap engine.Snapshot) {
	text, err := app.Renderer.Render(snap)
	if err != nil {
		slog.Warn(config.MsgRenderFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyTemplate, snap.Template,
			config.LogKeyError, err)
		dialog.ShowError(fmt.Errorf("%s: %w", app.GetMsg(config.TKeyErrTemplateTitle), err), app.Window)
		return
	}

	app.lastOutput = text
	app.output.SetText(text)
	slog.Debug(config.MsgRendered,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySizeBytes, len(text))
}

// Output returns the text currently displayed.
func (app *TzConvApp) Output() string {
	return app.lastOutput
}

// -----------------------------------------------------------------------------
// Actions
// -----------------------------------------------------------------------------

// CopyOutput puts the displayed text on the system clipboard.
func (app *TzConvApp) CopyOutput() {
	cb := app.App.Clipboard()
	if cb == nil {
		slog.Error(config.ErrClipboard, config.LogKeyComponent, config.CompUI)
		return
	}
	cb.SetContent(app.lastOutput)
	slog.Info(config.MsgCopied,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySizeBytes, len(app.lastOutput))
	app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifCopied)))
}

// ShowTemplatePicker lets the user choose a template file.
// Cancelling with no template in place unticks the template check.
func (app *TzConvApp) ShowTemplatePicker() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, app.Window)
			return
		}
		if r == nil {
			if app.State.Template() == "" {
				app.templateCheck.SetChecked(false)
			}
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		app.State.SetTemplate(path)
	}, app.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtTemplate, config.ExtText, config.ExtVelocity}))
	d.Show()
}

// ShowExportDialog asks where to save the current conversion as .ics.
func (app *TzConvApp) ShowExportDialog() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, app.Window)
			return
		}
		if wc == nil {
			return
		}
		if err := app.ExportTo(wc); err != nil {
			dialog.ShowError(fmt.Errorf("%s: %w", app.GetMsg(config.TKeyErrExportTitle), err), app.Window)
			return
		}
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifExported)))
	}, app.Window)
	d.SetFileName(config.ExportDefaultName)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtICS}))
	d.Show()
}

// ExportTo writes the current conversion as an iCalendar document and closes w.
func (app *TzConvApp) ExportTo(w io.WriteCloser) error {
	data, err := app.Exporter.Export(app.State.Snapshot(), app.lastOutput)
	if err != nil {
		_ = w.Close()
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: %w", config.ErrExportWrite, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrExportWrite, err)
	}
	slog.Info(config.MsgExportWritten,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySizeBytes, len(data))
	return nil
}

// Persist flushes the session state to the preference store.
func (app *TzConvApp) Persist() error {
	if app.Store == nil {
		return nil
	}
	slog.Debug(config.MsgPersistOnExit, config.LogKeyComponent, config.CompUI)
	return app.Store.SaveSnapshot(app.State.Snapshot())
}
