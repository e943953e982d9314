package config

import (
	"io/fs"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// ProdID identifies the application in exported calendar files.
var ProdID = "-//Go TZConv//" + Version + "//EN"

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName          = "Go TZConv"
	AppID            = "com.github.tartampluch.go-tzconv"
	LogFileName      = "app.log"
	SettingsFileName = "config.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and exported files.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Preferences
// -----------------------------------------------------------------------------

const (
	// Preference Keys. The three state keys keep the names used by earlier
	// releases so existing preference stores keep loading.
	PrefReferenceZone = "referenceZoneId"
	PrefSelectedZones = "selectedZoneIds"
	PrefTemplatePath  = "templateFilePath"
	PrefLanguage      = "language"
	PrefLastRun       = "last_run_version"

	// PrefZoneDelimiter joins the selected zones into one preference value.
	// IANA identifiers never contain a comma.
	PrefZoneDelimiter = ","
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "de"}

// -----------------------------------------------------------------------------
// Reference Instant Defaults
// -----------------------------------------------------------------------------

const (
	DefaultInitialHour   = 12
	DefaultInitialMinute = 30
	DefaultMinuteStep    = 15
	DefaultLanguage      = "en"
	FallbackZone         = "UTC"
	MaxHour              = 23
	MaxMinute            = 59
)

// -----------------------------------------------------------------------------
// Display Formats
// -----------------------------------------------------------------------------

const (
	// FormatOriginalDate renders the reference date in long form,
	// e.g. "Wednesday 01 January 2025".
	FormatOriginalDate = "Monday 02 January 2006"

	// FormatConvertedTime renders one converted line after the zone prefix.
	FormatConvertedTime = "02-01-2006 15:04"

	// FormatConvertedLine joins zone ID and converted time.
	FormatConvertedLine = "%s: %s\n"

	// DateFormatEntry is the layout accepted by the date entry widget.
	DateFormatEntry = "2006-01-02"

	FormatTwoDigits = "%02d"
	FormatOffset    = "UTC%s%02d:%02d"
	FormatZoneLabel = "%s (%s)"
)

// -----------------------------------------------------------------------------
// Template Evaluation
// -----------------------------------------------------------------------------

const (
	TemplateKeyOriginalDate   = "originalDate"
	TemplateKeyConvertedTimes = "convertedTimes"
	TemplateMissingKeyOption  = "missingkey=zero"

	// TemplateVelocityPattern matches $name and ${name} references in legacy
	// .vm templates. The name is matched whole, so $nameX is its own reference.
	TemplateVelocityPattern = `\$(?:\{([A-Za-z][\w-]*)\}|([A-Za-z][\w-]*))`

	ExtTemplate = ".tmpl"
	ExtText     = ".txt"
	ExtVelocity = ".vm"
	ExtICS      = ".ics"

	ExportDefaultName = "conversion.ics"
)

// -----------------------------------------------------------------------------
// Zone Database
// -----------------------------------------------------------------------------

const (
	// EnvZoneInfo mirrors the variable honoured by time.LoadLocation.
	EnvZoneInfo = "ZONEINFO"
	EnvTZ       = "TZ"

	LocaltimePath  = "/etc/localtime"
	ZoneInfoMarker = "zoneinfo/"
	GoZoneInfoZip  = "lib/time/zoneinfo.zip"
	ZoneProbeLimit = 16

	ZoneListComment    = "#"
	ZoneSourceEmbedded = "embedded"
)

// ZoneInfoExcludes lists zoneinfo entries that are aliases of whole trees
// or host metadata rather than zones.
var ZoneInfoExcludes = []string{"posix/", "right/", "localtime", "posixrules", "Factory"}

// ZoneInfoDirs are the well-known locations of the system zone database.
var ZoneInfoDirs = []string{
	"/usr/share/zoneinfo/",
	"/usr/lib/zoneinfo/",
	"/usr/share/lib/zoneinfo/",
	"/etc/zoneinfo/",
}

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalScale   = "GREGORIAN"
	ICalMethod  = "PUBLISH"
	ICalDomain  = "tzconv"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropDescription = "DESCRIPTION"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	FormatEventSummary = "%s (%s)"
	FormatUIDInput     = "%s|%s"
	FormatUID          = "%s@%s"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	MainWindowWidth   = 700
	MainWindowHeight  = 800
	ZoneDialogWidth   = 900
	ZoneDialogHeight  = 600
	ZonesPerColumn    = 40
	OutputMinRows     = 20
	LayoutColumnsPair = 2
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle         = "win_title"
	TKeyLblDate          = "lbl_date"
	TKeyLblTime          = "lbl_time"
	TKeyLblZone          = "lbl_zone"
	TKeyLblTemplate      = "lbl_template"
	TKeyChkUseTemplate   = "chk_use_template"
	TKeyBtnSelectTpl     = "btn_select_template"
	TKeyBtnSelectZones   = "btn_select_zones"
	TKeyDlgSelectZones   = "dlg_select_zones"
	TKeyBtnOK            = "btn_ok"
	TKeyBtnCancel        = "btn_cancel"
	TKeyBtnCopy          = "btn_copy"
	TKeyBtnExport        = "btn_export"
	TKeyNotifCopied      = "notif_copied"
	TKeyErrDate          = "err_date"
	TKeyErrTemplateTitle = "err_template_title"
	TKeyLblSelectedCount = "lbl_selected_count" // Requires Count
	TKeyLblNoTemplate    = "lbl_no_template"
	TKeyMenuLanguage     = "menu_language"
	TKeyNotifExported    = "notif_exported"
	TKeyErrExportTitle   = "err_export_title"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNoZoneDatabase  = "no time zone database available"
	ErrUnresolvable    = "time zone cannot be resolved"
	ErrTemplateRead    = "template could not be read"
	ErrTemplateParse   = "template could not be parsed"
	ErrTemplateExec    = "template could not be evaluated"
	ErrPersist         = "preferences could not be stored"
	ErrZoneDelimiter   = "zone identifier contains the preference delimiter"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsPath    = "settings path is empty"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrExportWrite     = "failed to write calendar export"
	ErrCatalogBuild    = "zone catalog could not be built"
	ErrStateInit       = "application state could not be initialised"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrDateEntry       = "date must use the YYYY-MM-DD format"
	ErrClipboard       = "clipboard is not available"
	ErrZoneWalk        = "failed to walk zone database"
	ErrZoneArchive     = "failed to open zone archive"
	ErrLocalZoneDetect = "local zone could not be detected"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStop          = "Application stopped gracefully"
	MsgCtxCancel        = "Context cancelled, shutting down UI"
	MsgAppStarting      = "Starting application"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgCatalogBuilt     = "Zone catalog built"
	MsgZoneSource       = "Zone database located"
	MsgZoneSkipped      = "Skipping unresolvable zone"
	MsgZoneFallback     = "Persisted zone selection not resolvable, using defaults"
	MsgRefZoneFallback  = "Persisted reference zone not resolvable, using local zone"
	MsgTemplateDropped  = "Persisted template file is not readable"
	MsgSelectionChanged = "Zone selection replaced"
	MsgInstantChanged   = "Reference instant changed"
	MsgTemplateChanged  = "Template changed"
	MsgRenderFailed     = "Rendering failed, keeping previous output"
	MsgRendered         = "Output rendered"
	MsgPrefsSaved       = "Preferences stored"
	MsgPrefsFailed      = "Preferences could not be stored"
	MsgSettingsDefault  = "Settings file not found, using embedded defaults"
	MsgSettingsLoaded   = "Settings loaded"
	MsgSettingsInvalid  = "Settings file unusable, using embedded defaults"
	MsgExportWritten    = "Calendar export written"
	MsgCopied           = "Output copied to clipboard"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgOpenZoneDialog   = "Opening zone selection dialog"
	MsgLanguageChanged  = "UI language changed"
	MsgPersistOnExit    = "Persisting session state"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyPath      = "path"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyZone      = "zone"
	LogKeyZones     = "zones"
	LogKeyCount     = "count"
	LogKeyOffsets   = "offsets"
	LogKeyInstant   = "instant"
	LogKeyTemplate  = "template"
	LogKeySource    = "source"
	LogKeySizeBytes = "size_bytes"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUIZones = "ui_zones"
	CompEngine  = "engine"
	CompState   = "state"
	CompCatalog = "catalog"
	CompPrefs   = "prefs"
	CompConfig  = "config"
	CompMain    = "main"
	CompI18n    = "i18n"
)
