package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"runtime"
	"sync"
	"time"
)

// Settings stores config for logger
type Settings struct {
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	TimeFormat string `yaml:"time-format"`
}

type logLevel int

// log levels
const (
	DEBUG logLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

const (
	flags              = log.LstdFlags
	defaultCallerDepth = 2
)

var (
	logFile    *os.File
	logger     = log.New(os.Stdout, "", flags)
	mu         sync.Mutex
	levelFlags = []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
)

// Setup initializes logger with a log file in addition to stdout
func Setup(settings *Settings) error {
	dir := settings.Path
	fileName := fmt.Sprintf("%s-%s.%s",
		settings.Name,
		time.Now().Format(settings.TimeFormat),
		settings.Ext)

	f, err := mustOpen(fileName, dir)
	if err != nil {
		return fmt.Errorf("logging.Setup err: %s", err)
	}

	mu.Lock()
	defer mu.Unlock()
	logFile = f
	mw := io.MultiWriter(os.Stdout, f)
	logger = log.New(mw, "", flags)
	return nil
}

func setPrefix(level logLevel) {
	_, file, line, ok := runtime.Caller(defaultCallerDepth)
	var prefix string
	if ok {
		prefix = fmt.Sprintf("[%s][%s:%d] ", levelFlags[level], path.Base(file), line)
	} else {
		prefix = fmt.Sprintf("[%s] ", levelFlags[level])
	}
	logger.SetPrefix(prefix)
}

// Debug prints debug log
func Debug(v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	setPrefix(DEBUG)
	logger.Println(v...)
}

// Info prints normal log
func Info(v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	setPrefix(INFO)
	logger.Println(v...)
}

// Warn prints warning log
func Warn(v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	setPrefix(WARNING)
	logger.Println(v...)
}

// Error prints error log
func Error(v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	setPrefix(ERROR)
	logger.Println(v...)
}

// Fatal prints error log then stop the program
func Fatal(v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	setPrefix(FATAL)
	logger.Println(v...)
	os.Exit(1)
}
