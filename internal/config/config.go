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

// UserAgent identifies the HTTP clients (vCard fetcher and device bridge).
var UserAgent = "Go-Contact-Sync/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Contact Sync"
	AppID             = "com.github.tartampluch.go-contact-sync"
	BinaryName        = "contact-sync"
	KeyringService    = "com.github.tartampluch.go-contact-sync"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "contact-sync.log"
	EnvPrefix         = "CONTACT_SYNC"
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
	// Used for logs and exported address books.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// Log file rotation (lumberjack).
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig      = "config"
	FlagDebug       = "debug"
	FlagDump        = "dump"
	FlagLang        = "lang"
	FlagDevice      = "device"
	FlagDeviceUser  = "device-user"
	FlagSource      = "source"
	FlagLocalPath   = "local-path"
	FlagWebURL      = "web-url"
	FlagWebUser     = "web-user"
	FlagWebPass     = "web-pass"
	FlagMySQLDSN    = "mysql-dsn"
	FlagChunkSize   = "chunk-size"
	FlagWipeDelay   = "wipe-delay"
	FlagPort        = "port"
	FlagTransfer    = "transfer"
	FlagWipe        = "delete-all-contacts"
	FlagExportVCard = "export-vcf"
	FlagExportICS   = "export-ics"
	FlagReminder    = "reminder"
	FlagPrint       = "print"
	FlagInterval    = "interval"
	FlagUpcoming    = "upcoming"
	FlagSavePhotos  = "save-photos"

	FlagDescConfig      = "Path to a config file (yaml, toml or json)"
	FlagDescDebug       = "Enable debug logging to stdout"
	FlagDescDump        = "Dump every record set exchanged with the device as an XML property list"
	FlagDescLang        = "Language of user-facing messages (en, fr)"
	FlagDescDevice      = "Device bridge URL, or \"memory\" for the built-in emulator"
	FlagDescDeviceUser  = "User name for the device bridge (password read from the keyring)"
	FlagDescSource      = "Local contact source: local, web or mysql"
	FlagDescLocalPath   = "Path to the local .vcf address book"
	FlagDescWebURL      = "CardDAV or WebDAV URL of a .vcf address book"
	FlagDescWebUser     = "HTTP Basic Auth user for the web source"
	FlagDescWebPass     = "HTTP Basic Auth password for the web source (defaults to the keyring)"
	FlagDescMySQLDSN    = "MySQL DSN of the contacts database"
	FlagDescChunkSize   = "Records per change chunk streamed by the emulator"
	FlagDescWipeDelay   = "Delay before wiping the device, Ctrl+C aborts"
	FlagDescPort        = "Port the device bridge listens on"
	FlagDescTransfer    = "Transfer local contacts to the device"
	FlagDescWipe        = "Delete all contacts on the device (DESTRUCTIVE!!)"
	FlagDescExportVCard = "Write the contacts received from the device to a .vcf file"
	FlagDescExportICS   = "Write a birthday calendar of the device contacts to an .ics file"
	FlagDescReminder    = "ISO8601 duration for calendar reminders (e.g. -P1D)"
	FlagDescPrint       = "Print the contacts received from the device"
	FlagDescInterval    = "How often the calendar feed is refreshed from the device"
	FlagDescCalPort     = "Port the calendar feed listens on"
	FlagDescUpcoming    = "List the device birthdays by next occurrence"
	FlagDescSavePhotos  = "Directory where the photo of each device contact is saved as a .jpg"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	PromptPassword   = "Password: "
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"
	SourceModeSQL   = "mysql"

	DeviceMemory      = "memory"
	DefaultDevice     = DeviceMemory
	DefaultPort       = "18081"
	DefaultCalPort    = "18080"
	DefaultRefresh    = time.Hour
	WatchDebounce     = 500 * time.Millisecond
	DefaultLanguage   = "en"
	DefaultChunkSize  = 100
	DefaultWipeDelay  = 5 * time.Second
	DefaultLeapYear   = 1604 // Leap year marking dates without a year, as device address books do
	MaxPasswordBytes  = 4096
	UIDSalt           = "go-contact-sync-v1-"
	ContactIDBaseline = 1 // First identifier handed out by the emulator
	SQLIDPrefix       = "sql-"
	SQLDriver         = "mysql"
)

// SupportedLanguages defines the list of available CLI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Sync Protocol
// -----------------------------------------------------------------------------

const (
	// DataClass is the contacts data class negotiated with the device.
	DataClass = "com.apple.Contacts"

	// ClassStorageVersion is the storage version announced with the data class.
	ClassStorageVersion uint64 = 106

	// AnchorPrefix prefixes the locally generated anchor token.
	AnchorPrefix = "contact-sync-"
	AnchorLayout = time.RFC3339
)

// Record keys and entity names of the category-partitioned exchange format.
const (
	KeyEntityName   = "com.apple.syncservices.RecordEntityName"
	EntityPrefix    = "com.apple.contacts."
	EntityContact   = "Contact"
	EntityAddress   = "Street Address"
	EntityPhone     = "Phone Number"
	EntityEmail     = "Email Address"
	EntityIM        = "IM"
	EntityURL       = "URL"
	EntityDate      = "Date"
	KeyDisplayAs    = "display as company"
	DisplayPerson   = "person"
	DisplayCompany  = "company"
	KeyFirstName    = "first name"
	KeyFirstPhon    = "first name yomi"
	KeyMiddleName   = "middle name"
	KeyLastName     = "last name"
	KeyLastPhon     = "last name yomi"
	KeyNickname     = "nickname"
	KeyTitle        = "title"
	KeySuffix       = "suffix"
	KeyNotes        = "notes"
	KeyCompanyName  = "company name"
	KeyDepartment   = "department"
	KeyJobTitle     = "job title"
	KeyBirthday     = "birthday"
	KeyImage        = "image"
	KeyType         = "type"
	KeyLabel        = "label"
	KeyValue        = "value"
	KeyLink         = "contact"
	KeyStreet       = "street"
	KeyPostalCode   = "postal code"
	KeyCity         = "city"
	KeyCountry      = "country"
	KeyCountryCode  = "country code"
	KeyService      = "service"
	KeyUser         = "user"
	CompositeIDForm = "%d/%s/%d"
)

// Category identifiers used in composite identifiers.
const (
	CategoryIDPhone   = 3
	CategoryIDEmail   = 4
	CategoryIDAddress = 5
	CategoryIDDate    = 12
	CategoryIDIM      = 13
	CategoryIDURL     = 22
)

// Field type tags.
const (
	TypeHome        = "home"
	TypeWork        = "work"
	TypeOther       = "other"
	TypeMobile      = "mobile"
	TypeHomePage    = "home page"
	TypeAnniversary = "anniversary"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Contact Sync//Calendar//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocontactsync"

	// iCal Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 24 * time.Hour

	// vCard parameters and values not covered by go-vcard constants.
	VCardParamEncoding = "ENCODING"
	VCardEncodingB     = "b"
	VCardEncodingB64   = "base64"
	VCardDataScheme    = "data:"
	VCardPhotoTypeJPEG = "JPEG"
	VCardVersion       = "3.0"
	VCardPhoneticFirst = "X-PHONETIC-FIRST-NAME"
	VCardPhoneticLast  = "X-PHONETIC-LAST-NAME"
	VCardShowAs        = "X-ABSHOWAS"
	VCardShowAsCompany = "COMPANY"
	VCardABDate        = "X-ABDATE"
	VCardTypeFax       = "fax"
	VCardTypePager     = "pager"
	VCardTypeCell      = "cell"
	OrgSeparator       = ";"
	IMSeparator        = ":"
	AddressLineJoin    = "\n"

	// Labels given to phone kinds the device has no type for.
	LabelFaxSuffix = " fax"
	LabelPager     = "pager"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY/ANNIVERSARY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// File Extensions
	ExtVCF  = ".vcf"
	ExtJPEG = ".jpg"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
	RouteRoot           = "/"
)

// Device bridge routes.
const (
	RouteStart   = "/session/start"
	RouteRequest = "/records/request"
	RouteChanges = "/changes"
	RouteAck     = "/changes/ack"
	RouteReady   = "/ready"
	RouteRemap   = "/remap"
	RouteClear   = "/records/clear"
	RouteFinish  = "/session/finish"
	QueryFinal   = "final"
)

// Device bridge payload keys.
const (
	BridgeKeyDataClass = "data_class"
	BridgeKeyVersion   = "storage_version"
	BridgeKeyLocal     = "local_anchor"
	BridgeKeyRemote    = "remote_anchor"
	BridgeKeySyncKind  = "sync_kind"
	BridgeKeyRecords   = "records"
	BridgeKeyLast      = "last"
	BridgeKeyReady     = "ready"
	BridgeKeyRemap     = "remap"
	BridgeKeyMessage   = "message"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimePlist           = "application/x-plist"
	MimeTextVCard       = "text/vcard"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInitializing = "Calendar is initializing, please retry"
	AllowedMethods      = "GET, HEAD"
	RetryAfterSeconds   = "5"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrDSNEmpty         = "configuration error: MySQL DSN is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrDeviceEmpty      = "configuration error: device is empty"
	ErrConfigRead       = "failed to read config file"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardEncode      = "failed to encode vCard data"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrPhotoDecode      = "unable to decode photo"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteFile        = "failed to write output file"
	ErrSQLQuery         = "failed to query contacts database"
	ErrSQLOpen          = "failed to open contacts database"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrKeyring          = "failed to access the keyring"
	ErrPasswordRead     = "failed to read password"
	ErrPlistEncode      = "failed to encode property list"
	ErrPlistDecode      = "failed to decode property list"
	ErrBridgeStatus     = "device bridge returned unexpected status"
	ErrBridgeRequest    = "device bridge request failed"
	ErrWriteResp        = "failed to write response body"
	ErrWatch            = "failed to watch the address book"
	ErrWatchLocalOnly   = "mirror requires the local source"
	ErrRefreshInterval  = "refresh interval must be positive"
	ErrPortRange        = "port must be a number between 1 and 65535"
	ErrRecordInvalid    = "invalid record"
	ErrRecordSetInvalid = "unexpected type for record set"
	ErrEntityMissing    = "missing entity name"
	ErrEntityPrefix     = "entity name lacks the " + EntityPrefix + " prefix"
	ErrEntityUnknown    = "unknown entity name"
	ErrDisplayMissing   = "missing '" + KeyDisplayAs + "' field in main record"
	ErrDisplayInvalid   = "invalid '" + KeyDisplayAs + "' value"
	ErrTypeMissing      = "missing 'type' field"
	ErrValueMissing     = "missing 'value' field"
	ErrLinkMissing      = "missing 'contact' field"
	ErrLinkType         = "invalid type for the 'contact' field"
	ErrLinkLength       = "invalid 'contact' list length"
	ErrLinkElement      = "invalid type for 'contact' list content"
	ErrLinkUnresolved   = "record links to an unknown contact"
	ErrSyncProtocol     = "sync protocol error"
	ErrInvalidState     = "operation not allowed in the current session state"
	ErrNotReady         = "device is not ready to receive new contacts"
	ErrStartSync        = "failed to start synchronization"
	ErrRequestRecords   = "failed to ask device for contacts"
	ErrReceiveChanges   = "failed to read contacts from device"
	ErrAckChanges       = "failed to acknowledge receiving contacts"
	ErrSendChanges      = "failed to send contacts to device"
	ErrRemapFetch       = "failed to receive remapped identifiers from device"
	ErrClearRecords     = "failed to clear all contacts from device"
	ErrFinish           = "failed to finish synchronization"
	ErrNotStarted       = "sync session not started"
	ErrUnackedChanges   = "previous change chunk not acknowledged"
	ErrNothingToAck     = "no change chunk to acknowledge"
	ErrDataClass        = "unsupported data class"
	ErrFetchRequest     = "failed to create request"
	ErrFetchNetwork     = "network error during fetch"
	ErrFetchStatus      = "address book server returned unexpected status"
	ErrFetchTooLarge    = "address book exceeds the download size limit"
	ErrWebAuth          = "address book server rejected the credentials"
	ErrWebFetch         = "failed to download the address book"
	ErrVCardRead        = "failed to read vCard stream"
	ErrPhotoName        = "photo file name escapes the target directory"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "Birthday: %s"
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackAnniversary  = "Anniversary: %s"
	FallbackName         = "Unknown"
	AgeUnknown           = "-"
	FormatAgeTransition  = "%s → %d"
	DateFormatDisplay    = "2006-01-02"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted     = "Synchronization started"
	MsgSyncKind        = "Anchors negotiated"
	MsgReceiveStarted  = "Receiving contacts from device"
	MsgChunkReceived   = "Change chunk received"
	MsgReceiveDone     = "Contacts received from device"
	MsgSendStarted     = "Sending contacts to device"
	MsgRecordSetSent   = "Record set sent"
	MsgSendDone        = "Contacts sent to device"
	MsgWipeDone        = "All contacts cleared from device"
	MsgSessionStopped  = "Synchronization stopped"
	MsgRecordSkipped   = "Skipping malformed record"
	MsgRecordSetEmpty  = "Ignoring empty record set"
	MsgNilContact      = "Skipping nil contact"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgSkippedPhoto    = "Skipping undecodable photo"
	MsgMissingUID      = "vCard has no UID, using a derived identifier"
	MsgSourceLoaded    = "Local contacts loaded"
	MsgGenSuccess      = "Calendar generation successful"
	MsgBdayToday       = "Birthday today detected"
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgServerListen    = "Device bridge listening"
	MsgServerStop      = "Shutting down device bridge..."
	MsgBridgeRequest   = "Device bridge request"
	MsgBridgeError     = "Device bridge error"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgConfigLoaded    = "Config file loaded"
	MsgExportWritten   = "Export written"
	MsgRecordSetDumped = "Record set dump"
	MsgCacheUpdated    = "Calendar cache updated"
	MsgRefreshFailed   = "Calendar refresh failed, keeping the previous feed"
	MsgWatchEvent      = "Address book changed"
	MsgWatchError      = "Address book watcher error"
	MsgMirrorFailed    = "Mirror update failed"
	MsgOwnerCollision  = "Dropping fields of a contact remapped onto another contact"
	MsgFetchStart      = "Initiating vCard download"
	MsgFetchStatus     = "Server returned error status"
	MsgFetchBody       = "vCards downloading"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWipeWarning   = "wipe_warning"   // Requires Delay
	TKeyWipeInterrupt = "wipe_interrupt" // Ctrl+C hint
	TKeyWipeDone      = "wipe_done"
	TKeySyncKind      = "sync_kind" // Requires Kind
	TKeyReceived      = "contacts_received"
	TKeyReceivedZero  = "contacts_received_zero"
	TKeySent          = "contacts_sent" // Requires Count
	TKeyDecodeIssues  = "decode_issues" // Requires Error
	TKeyExported      = "export_written"
	TKeyPhotosSaved   = "photos_saved" // Requires Count, Dir
	TKeyCredSaved     = "credentials_saved"
	TKeyBridgeListen  = "bridge_listening"
	TKeyCalendarServe = "calendar_serving" // Requires Port, Interval
	TKeyMirrorWatch   = "mirror_watching"  // Requires File
	TKeyColName       = "column_name"
	TKeyColDate       = "column_next_birthday"
	TKeyColAge        = "column_age"
	TKeyAgeBirth      = "age_birth"
	TKeyNoLocal       = "no_local_contacts"
	TKeyEvtSummary    = "event_summary"
	TKeyEvtAge        = "event_summary_age"
	TKeyEvtBirth      = "event_summary_birth"
	TKeyEvtAnniv      = "event_anniversary"
	TKeyEvtAnnivYears = "event_anniversary_years" // Requires Name, Years
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyUser      = "user"
	LogKeySession   = "session_id"
	LogKeyAnchor    = "anchor"
	LogKeySyncKind  = "sync_kind"
	LogKeyState     = "state"
	LogKeyEntity    = "entity"
	LogKeyRecordID  = "record_id"
	LogKeyRecords   = "records"
	LogKeyContacts  = "contacts"
	LogKeyFailures  = "failures"
	LogKeyChunk     = "chunk"
	LogKeyFinal     = "final"
	LogKeyRemapped  = "remapped"
	LogKeyRoute     = "route"
	LogKeyMethod    = "method"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyDuration  = "duration_ms"
	LogKeyOp        = "op"
	LogKeyOwner     = "owner"
	LogKeyClaimedBy = "claimed_by"
	LogKeyLimit     = "limit_bytes"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
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
	CompSession  = "session"
	CompCodec    = "codec"
	CompDevice   = "device"
	CompServer   = "server"
	CompBridge   = "bridge"
	CompStore    = "store"
	CompFetcher  = "fetcher"
	CompCalendar = "calendar"
	CompCLI      = "cli"
	CompMain     = "main"
	CompI18n     = "i18n"
)
