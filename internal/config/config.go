package config

import (
	"io/fs"
	"time"
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

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName     = "Go Contacts"
	AppID       = "com.github.tartampluch.go-contacts"
	BinaryName  = "go-contacts"
	LogFileName = "app.log"
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
	// Used for the snapshot database and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagDB       = "db"
	FlagLang     = "lang"
	FlagConfig   = "config"
	FlagNoColor  = "no-color"
	FlagDescVer  = "Show application version and exit"
	FlagDescDbg  = "Enable debug logging to stderr"
	FlagDescDB   = "Path to the address book file"
	FlagDescLang = "Interface language (en, uk)"
	FlagDescCfg  = "Path to a config.yaml file"
	FlagDescNoCl = "Disable colored output"

	CmdShort = "Interactive address book"
	CmdLong  = "An interactive address book: contacts with phones and birthdays, saved to a local file on exit."

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Settings Keys & Defaults (viper)
// -----------------------------------------------------------------------------

const (
	SettingDBPath   = "db_path"
	SettingLanguage = "language"
	SettingPageSize = "page_size"
	SettingColor    = "color"
	SettingDebug    = "debug"

	SettingsFileName = "config"
	SettingsFileType = "yaml"
	EnvPrefix        = "GOCONTACTS"

	DefaultDBPath   = "db.bin"
	DefaultLanguage = "en"
	DefaultPageSize = 2
	DefaultColor    = true
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

const (
	CmdHello     = "hello"
	CmdAdd       = "add"
	CmdChange    = "change"
	CmdPhone     = "phone"
	CmdShowAll   = "show_all"
	CmdFind      = "find"
	CmdDel       = "del"
	CmdHelp      = "help"
	CmdEdit      = "edit"
	CmdDelPhone  = "del_phone"
	CmdImport    = "import"
	CmdExport    = "export"
	CmdCalendar  = "calendar"
	CmdBirthdays = "birthdays"

	// BirthTokenPrefix marks the optional birthday argument of "add".
	BirthTokenPrefix = "birth="

	// PageQuitAnswer stops show_all pagination.
	PageQuitAnswer = "q"

	// DefaultUpcomingDays is the window used by "birthdays" without an argument.
	DefaultUpcomingDays = 7

	PageSeparator = "---"
	ListSeparator = ", "
	NoBirthday    = "-"
)

// StopWords end the session. They are matched against the whole lower-cased line.
var StopWords = []string{"good bye", "close", "exit"}

// -----------------------------------------------------------------------------
// Field Formats
// -----------------------------------------------------------------------------

const (
	// PhoneLength is the number of digits in a phone number ("380" + 9 digits).
	PhoneLength = 12

	// DateFormatBirthday is the DD.MM.YYYY layout of birthday values.
	DateFormatBirthday = "02.01.2006"

	// DateFormatVCard is the layout written to vCard BDAY fields.
	DateFormatVCard = "2006-01-02"

	DateFormatVCardBasic = "20060102"

	// Truncated vCard dates without a year.
	DateFormatNoYearD = "--01-02"
	DateFormatNoYearB = "--0102"

	// DefaultLeapYear is used for vCard dates without a year (--MM-DD).
	DefaultLeapYear = 2000

	HoursPerDay = 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome        = "msg_welcome"
	TKeyGreeting       = "msg_greeting"
	TKeyInputPrompt    = "msg_input_prompt"
	TKeyPagePrompt     = "msg_page_prompt"
	TKeyPageRow        = "msg_page_row" // Requires Name, Days, Phones
	TKeyContactAdded   = "msg_contact_added"
	TKeyContactExists  = "msg_contact_exists"
	TKeyContactUpdated = "msg_contact_updated"
	TKeyContactDeleted = "msg_contact_deleted"
	TKeyPhoneDeleted   = "msg_phone_deleted"
	TKeyNotFound       = "msg_contact_not_found"
	TKeyNoPhones       = "msg_no_phones"
	TKeyNoContacts     = "msg_no_contacts"
	TKeyNothingFound   = "msg_nothing_found"
	TKeyInsufficient   = "msg_insufficient_args"
	TKeyUnknownCommand = "msg_unknown_command"
	TKeyImported       = "msg_imported"         // Requires Added, Skipped
	TKeyExported       = "msg_exported"         // Requires Count, Path
	TKeyCalendar       = "msg_calendar_written" // Requires Count, Path
	TKeyUpcomingRow    = "msg_upcoming_row"     // Requires Name, Date, Days
	TKeyNoUpcoming     = "msg_no_upcoming"      // Requires Days
	TKeyGoodbye        = "msg_goodbye"
	TKeyHelp           = "msg_help"
	TKeyEvtSummary     = "event_summary" // Requires Name

	// Validation Errors
	TKeyErrNameEmpty   = "err_name_empty"
	TKeyErrPhoneFormat = "err_phone_format"
	TKeyErrDateFormat  = "err_date_format"
	TKeyErrDaysNumber  = "err_days_number"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Contacts//Address Book//EN"
	ICalCalName = "Birthdays"
	ICalScale   = "GREGORIAN"
	ICalMethod  = "PUBLISH"
	ICalDomain  = "gocontacts"
	ICalRRule   = "FREQ=YEARLY"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRRule      = "RRULE"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardVersion = "4.0"
	VCardTypeCel = "cell"

	// UID Generation
	UIDSalt         = "go-contacts-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%s"
	FormatUID       = "%s@%s"

	ExtVCF = ".vcf"
	ExtICS = ".ics"
)

// -----------------------------------------------------------------------------
// Persistence
// -----------------------------------------------------------------------------

const (
	// SQLiteDriver is the database/sql driver name registered by modernc.org/sqlite.
	SQLiteDriver = "sqlite"

	// SQLiteDSNOptions is appended to the snapshot path when opening it.
	SQLiteDSNOptions = "?_pragma=foreign_keys(on)"

	// TempFilePattern names the file a snapshot is written to before the rename.
	TempFilePattern = ".contacts-*.tmp"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrNameEmpty       = "Name must not be empty"
	ErrPhoneFormat     = "Phone number must be '380XXXXXXXXX'"
	ErrDateFormat      = "Invalid date format"
	ErrDaysNumber      = "Days must be a positive number"
	ErrNotFound        = "contact not found"
	ErrInsufficient    = "insufficient arguments"
	ErrInterrupted     = "input interrupted"
	ErrInputClosed     = "input closed"
	ErrOpenSnapshot    = "failed to open snapshot"
	ErrReadSnapshot    = "failed to read snapshot"
	ErrWriteSnapshot   = "failed to write snapshot"
	ErrMigrate         = "failed to create snapshot schema"
	ErrRename          = "failed to replace snapshot file"
	ErrCreateDir       = "could not create directory"
	ErrCacheDir        = "could not determine user cache dir"
	ErrLogFile         = "failed to open log file"
	ErrAppFailed       = "application failed unexpectedly"
	ErrSessionFailed   = "session failed"
	ErrSettings        = "failed to load settings"
	ErrSettingsRead    = "failed to read config file"
	ErrPageSize        = "page_size must be at least 1"
	ErrLanguage        = "unsupported language"
	ErrVCardDecode     = "failed to decode vCard stream"
	ErrVCardEncode     = "failed to encode vCard"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrOpenFile        = "failed to open file"
	ErrCreateFile      = "failed to create file"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrUnhandled       = "unhandled command error"
	ErrInvalidSnapshot = "snapshot contains an invalid record"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgSessionStart   = "Session started"
	MsgSessionEnd     = "Session ended"
	MsgCommand        = "Command dispatched"
	MsgCommandFailed  = "Command failed"
	MsgInterrupted    = "Input interrupted"
	MsgInputClosed    = "Input closed, ending session"
	MsgCtxCancel      = "Context cancelled, ending session"
	MsgSnapshotLoaded = "Snapshot loaded"
	MsgSnapshotSaved  = "Snapshot saved"
	MsgSnapshotNone   = "No snapshot found, starting empty"
	MsgSettingsNone   = "No config file found, using defaults"
	MsgSettingsLoaded = "Settings loaded"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedPhone   = "Skipping invalid phone in vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgImportDone     = "vCard import finished"
	MsgExportDone     = "vCard export finished"
	MsgCalendarDone   = "Calendar export finished"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyCommand   = "command"
	LogKeyArgs      = "args"
	LogKeyCount     = "count"
	LogKeyAdded     = "added"
	LogKeySkipped   = "skipped"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeySnapshot  = "snapshot_id"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"
	LogKeySeverity  = "severity"

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
	CompMain     = "main"
	CompSession  = "session"
	CompCommand  = "command"
	CompStorage  = "storage"
	CompExchange = "exchange"
	CompConsole  = "console"
	CompI18n     = "i18n"
	CompConfig   = "config"
)
