package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-tzconv/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *TzConvApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *TzConvApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg is a helper to translate a key safely.
func (app *TzConvApp) GetMsg(key string) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// GetMsgData translates a pluralized key that takes a Count.
func (app *TzConvApp) GetMsgData(key string, count int) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// SetLanguage stores the UI language and relabels the open window.
func (app *TzConvApp) SetLanguage(lang string) {
	app.Preferences.SetString(config.PrefLanguage, lang)
	app.UpdateLocalizer()
	slog.Info(config.MsgLanguageChanged,
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, lang)
	app.RefreshLabels()
}

// RefreshLabels re-applies translated strings to every widget.
func (app *TzConvApp) RefreshLabels() {
	if app.Window == nil {
		return
	}
	app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))

	labels := []string{config.TKeyLblDate, config.TKeyLblTime, config.TKeyLblZone, config.TKeyLblTemplate}
	for i, item := range app.form.Items {
		item.Text = app.GetMsg(labels[i])
	}
	app.form.Refresh()

	app.templateCheck.Text = app.GetMsg(config.TKeyChkUseTemplate)
	app.templateCheck.Refresh()
	app.templateButton.SetText(app.GetMsg(config.TKeyBtnSelectTpl))
	app.zonesButton.SetText(app.GetMsg(config.TKeyBtnSelectZones))
	app.copyButton.SetText(app.GetMsg(config.TKeyBtnCopy))
	app.exportButton.SetText(app.GetMsg(config.TKeyBtnExport))

	snap := app.State.Snapshot()
	app.syncSelection(snap)
	app.syncTemplate(snap)
	app.Window.SetMainMenu(app.buildMainMenu())
}

// buildMainMenu offers one entry per loaded locale, named in its own language.
func (app *TzConvApp) buildMainMenu() *fyne.MainMenu {
	current := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)

	items := make([]*fyne.MenuItem, 0, len(app.SupportedLanguages))
	for _, lang := range app.SupportedLanguages {
		label := display.Self.Name(language.Make(lang))
		if label == "" {
			label = lang
		}
		item := fyne.NewMenuItem(label, func() { app.SetLanguage(lang) })
		item.Checked = lang == current
		items = append(items, item)
	}
	return fyne.NewMainMenu(fyne.NewMenu(app.GetMsg(config.TKeyMenuLanguage), items...))
}
