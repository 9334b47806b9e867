package cli

import (
	"io"
	"time"
)

// VerbosityLevel is the verbosity level of the application.
type VerbosityLevel uint

const (
	// VerbosityLevelSilent is the silent verbosity level.
	VerbosityLevelSilent VerbosityLevel = iota
	// VerbosityLevelError is the error verbosity level.
	VerbosityLevelError
	// VerbosityLevelDebug is the debug verbosity level.
	VerbosityLevelDebug
)

// Config is the configuration of the application.
type Config struct {
	OutWriter io.Writer // The stream that will receive the reports.
	ErrWriter io.Writer // The stream that will receive all the log messages and errors.

	NumWorkers     int            // The number of workers that the checker could run.
	Timeout        time.Duration  // The timeout of fetching a page.
	MaxPages       int            // The maximum number of visited urls per seed, 0 means unlimited.
	DumpPath       string         // The file that receives the visited urls, one per line. Empty means no dump.
	PrettyOutput   bool           // Enable JSON prettifier.
	JSONLog        bool           // Write the log messages in JSON instead of the console format.
	VerbosityLevel VerbosityLevel // The verbosity level of the tool.
}
