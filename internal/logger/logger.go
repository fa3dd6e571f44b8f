package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"
)

type LogLevel string

const (
	DebugLevel LogLevel = "DEBUG"
	InfoLevel  LogLevel = "INFO"
	WarnLevel  LogLevel = "WARN"
	ErrorLevel LogLevel = "ERROR"
)

var severity = map[LogLevel]int{DebugLevel: 0, InfoLevel: 1, WarnLevel: 2, ErrorLevel: 3}

// ParseLevel maps a LOG_LEVEL value to a level. Unknown values mean DEBUG.
func ParseLevel(s string) LogLevel {
	lvl := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := severity[lvl]; !ok {
		return DebugLevel
	}
	return lvl
}

// LogEntry is one JSON line.
type LogEntry struct {
	Time    string   `json:"time"`
	Level   LogLevel `json:"level"`
	Module  string   `json:"module,omitempty"`
	Message string   `json:"message"`
	Error   string   `json:"error,omitempty"`
}

// Logger writes anonymized JSON lines at or above its minimum level.
type Logger struct {
	out *log.Logger
	min LogLevel
}

// New returns a stdout logger. Packages build theirs at init, before config
// is loaded, so the minimum level comes straight from LOG_LEVEL.
func New() *Logger {
	l := NewWithWriter(os.Stdout)
	l.min = ParseLevel(os.Getenv("LOG_LEVEL"))
	return l
}

// NewWithWriter returns a logger writing every level to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0), min: DebugLevel}
}

// SetLevel drops entries below lvl.
func (l *Logger) SetLevel(lvl LogLevel) {
	l.min = lvl
}

type redaction struct {
	re   *regexp.Regexp
	with string
}

var redactions = []redaction{
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[REDACTED_EMAIL]"},
	// JWTs: the base64url header always starts with {"
	{regexp.MustCompile(`eyJ[^\s"]+`), "[REDACTED_TOKEN]"},
	// User ids are UUIDs, so the value is hex digits and dashes.
	{regexp.MustCompile(`\buser_id\s*=\s*[0-9a-fA-F-]+`), "user_id=[USER_ID]"},
	{regexp.MustCompile(`\bpassword\s*[=:]\s*\S+`), "password=[REDACTED]"},
}

// Anonymize strips emails, tokens, user ids and passwords from s.
func Anonymize(s string) string {
	for _, r := range redactions {
		s = r.re.ReplaceAllString(s, r.with)
	}
	return s
}

func (l *Logger) log(module string, level LogLevel, msg string, err error) {
	if severity[level] < severity[l.min] {
		return
	}
	entry := LogEntry{
		Time:    time.Now().UTC().Format(time.RFC3339),
		Level:   level,
		Module:  module,
		Message: Anonymize(msg),
	}
	if err != nil {
		entry.Error = Anonymize(err.Error())
	}
	data, _ := json.Marshal(entry)
	l.out.Println(string(data))
}

func (l *Logger) Debug(module, msg string) {
	l.log(module, DebugLevel, msg, nil)
}

func (l *Logger) Info(module, msg string) {
	l.log(module, InfoLevel, msg, nil)
}

// Warn logs a non-fatal problem; err may be nil.
func (l *Logger) Warn(module, msg string, err error) {
	l.log(module, WarnLevel, msg, err)
}

func (l *Logger) Error(module, msg string, err error) {
	l.log(module, ErrorLevel, msg, err)
}
