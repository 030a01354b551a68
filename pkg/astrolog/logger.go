package astrolog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05.000"

var mu sync.Mutex

type Config struct {
	LogLevel    string `env:"LOG_LEVEL,info" yaml:"level"`
	LogToFile   bool   `env:"LOG_TO_FILE,false" yaml:"to_file"`
	LogFileName string `env:"LOG_FILE_NAME,tankbox" yaml:"file_name"`
	LogDir      string `env:"LOG_DIR,./logs" yaml:"dir"`
	Formatted   bool   `env:"LOG_FORMATTED,true" yaml:"formatted"`
	MaxFileSize int    `env:"LOG_MAX_FILE_SIZE,10" yaml:"max_file_size"` // megabytes
	MaxLogFiles int    `env:"LOG_MAX_FILES,7" yaml:"max_files"`
	NoColor     bool   `env:"LOG_NO_COLOR,false" yaml:"no_color"`

	// Console defaults to os.Stderr. Stdout carries the report and is never used.
	Console io.Writer `yaml:"-"`
}

// =============================
// Console Writer
// =============================

// ConsoleWriterWithLevel adapts zerolog.ConsoleWriter to zerolog.LevelWriter.
// WriteLevel reports len(p): the console rewrites JSON into text of a
// different length and zerolog treats any other count as a short write.
type ConsoleWriterWithLevel struct {
	zerolog.ConsoleWriter
}

func (c ConsoleWriterWithLevel) WriteLevel(_ zerolog.Level, p []byte) (int, error) {
	_, err := c.ConsoleWriter.Write(p)
	return len(p), err
}

// =============================
// File Writer
// =============================

// FileWriterWithLevel writes entries to a rotating lumberjack file, either as
// raw JSON or re-formatted into one readable line per entry.
type FileWriterWithLevel struct {
	*lumberjack.Logger
	Formatted bool
}

func (f FileWriterWithLevel) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if !f.Formatted {
		return f.Logger.Write(p)
	}
	line, err := formatLogEntry(level, p)
	if err != nil {
		return f.Logger.Write(p)
	}
	_, err = f.Logger.Write([]byte(line))
	return len(p), err
}

// =============================
// Formatting Helpers
// =============================

// formatLogEntry turns a zerolog JSON entry into
// "time | level | caller | message | k=v ...".
func formatLogEntry(level zerolog.Level, p []byte) (string, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		return "", err
	}

	ts, _ := entry[zerolog.TimestampFieldName].(string)
	msg, _ := entry[zerolog.MessageFieldName].(string)
	caller, _ := entry[zerolog.CallerFieldName].(string)

	return fmt.Sprintf("%s | %-5s | %-25s | %s | %s\n",
		ts,
		level.String(),
		caller,
		msg,
		strings.Join(collectExtraFields(entry), " "),
	), nil
}

// stripCallerPath reduces "pkg/sub/file.go" to "file".
func stripCallerPath(file string) string {
	if file == "" {
		return file
	}
	base := filepath.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, ".go")
}

// collectExtraFields returns sorted key=value pairs for non-standard fields.
func collectExtraFields(entry map[string]interface{}) []string {
	var extras []string
	for k, v := range entry {
		switch k {
		case zerolog.TimestampFieldName, zerolog.MessageFieldName,
			zerolog.LevelFieldName, zerolog.CallerFieldName:
			continue
		}
		extras = append(extras, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(extras)
	return extras
}

// =============================
// Run Separator
// =============================

func writeRunSeparator(w io.Writer, name string) {
	started := fmt.Sprintf("  Started : %s", time.Now().Format("2006-01-02 15:04:05"))
	title := "  ▶  " + strings.ToUpper(name) + " STARTED"

	width := 50
	for _, s := range []string{started, title} {
		if n := len([]rune(s)) + 4; n > width {
			width = n
		}
	}

	row := func(s string) string {
		return "│" + s + strings.Repeat(" ", width-len([]rune(s))) + "│"
	}
	rule := func(l, r string) string {
		return l + strings.Repeat("─", width) + r
	}

	banner := strings.Join([]string{
		"",
		rule("┌", "┐"),
		row(title),
		rule("├", "┤"),
		row(started),
		rule("└", "┘"),
		"", "",
	}, "\n")

	_, _ = w.Write([]byte(banner))
}

// =============================
// File Cleanup
// =============================

// deleteOldLogFiles keeps the newest maxFiles ".log" files in logDir.
func deleteOldLogFiles(logDir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return err
	}

	type logFile struct {
		name string
		mod  time.Time
	}
	var files []logFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{name: e.Name(), mod: info.ModTime()})
	}

	if len(files) <= maxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })

	for _, f := range files[:len(files)-maxFiles] {
		if err := os.Remove(filepath.Join(logDir, f.name)); err != nil {
			log.Err(err).Str("file", f.name).Msg("Failed to delete old log file")
		}
	}
	return nil
}

// =============================
// Init Logger
// =============================

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitLogger installs the global zerolog logger: console always, rotating
// file when cfg.LogToFile. The returned Closer releases the file.
func InitLogger(cfg Config) io.Closer {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().Local()
	}
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return fmt.Sprintf("%s:%d", stripCallerPath(file), line)
	}

	writers := []io.Writer{buildConsoleWriter(cfg)}

	var closer io.Closer = nopCloser{}
	if cfg.LogToFile {
		if fw := buildFileWriter(cfg); fw != nil {
			writers = append(writers, fw)
			closer = fw.Logger
		}
	}

	mu.Lock()
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Caller().
		Logger()
	mu.Unlock()

	UpdateLogLevel(cfg.LogLevel)
	return closer
}

func buildConsoleWriter(cfg Config) ConsoleWriterWithLevel {
	out := cfg.Console
	if out == nil {
		out = os.Stderr
	}
	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: timeFormat,
	}
	if !cfg.NoColor {
		cw.FormatCaller = func(i interface{}) string {
			caller, _ := i.(string)
			return "\033[34m" + caller + "\033[0m"
		}
	}
	return ConsoleWriterWithLevel{ConsoleWriter: cw}
}

// buildFileWriter opens the day's log file, one per calendar day, so runs on
// the same day append. Returns nil when the directory cannot be created.
func buildFileWriter(cfg Config) *FileWriterWithLevel {
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = "./logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Err(err).Str("dir", logDir).Msg("Failed to create log directory")
		return nil
	}

	if err := deleteOldLogFiles(logDir, cfg.MaxLogFiles); err != nil {
		log.Err(err).Str("dir", logDir).Msg("Failed to clean old log files")
	}

	suffix := "_json"
	if cfg.Formatted {
		suffix = ""
	}
	filename := fmt.Sprintf("%s_%s%s.log", cfg.LogFileName, time.Now().Format("02-01-2006"), suffix)

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, filename),
		MaxSize:    cfg.MaxFileSize,
		MaxBackups: 3,
		MaxAge:     30,
	}

	writeRunSeparator(lj, cfg.LogFileName)

	return &FileWriterWithLevel{
		Logger:    lj,
		Formatted: cfg.Formatted,
	}
}

// =============================
// Log Level
// =============================

func GetLogger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log.Logger
}

// UpdateLogLevel sets the global level by name, falling back to info.
func UpdateLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
