// Package cli wires the link checker into a command line application.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/bool64/ctxd"

	"github.com/nhatthm/linkcheck/internal/collector"
	"github.com/nhatthm/linkcheck/internal/crawler"
	"github.com/nhatthm/linkcheck/internal/dump"
	"github.com/nhatthm/linkcheck/internal/footprint"
	"github.com/nhatthm/linkcheck/internal/logger"
)

const (
	// CodeOK indicates that the program exited with success.
	CodeOK = ExitCode(iota)
	// CodeErrOperationCanceled indicates that the program has been terminated and operation is canceled.
	CodeErrOperationCanceled
	// CodeErrNoInputSource indicates that the program has no input source.
	CodeErrNoInputSource
	// CodeErrOpenInputSource indicates that the program could not open input file.
	CodeErrOpenInputSource
	// CodeErrUnsupportedInputSource indicates that the program could not use the input source.
	CodeErrUnsupportedInputSource
	// CodeErrBadArgs indicates that the provided arguments are invalid.
	CodeErrBadArgs
	// CodeErrOutput indicates that the program could not write to output.
	CodeErrOutput
	// CodeErrBrokenLinks indicates that at least one seed is invalid or has bad urls.
	CodeErrBrokenLinks
)

const (
	// Limitation for number of workers to avoid resource saturation.
	maxNumWorkers = 24
)

// ExitCode is the exit code of the program.
type ExitCode int

// Run runs the program to check the links of the websites of the seeds.
//
// It will take only the first valid source as an input. The source types are:
// - []string: A list of seeds.
// - string: A file path that contains a list of seeds, one on each line.
// - io.ReadCloser: A reader that contains a list of seeds, one on each line.
// - io.Reader: A reader that contains a list of seeds, one on each line.
//
// The seeds can be with or without scheme, but must have a hostname. If the scheme is missing, default to https.
func Run(cfg Config, inputSources ...any) ExitCode {
	// Configure input source.
	inputSource, code, err := initInputSource(inputSources...)
	if err != nil {
		_, _ = fmt.Fprintln(cfg.ErrWriter, err.Error())

		return code
	}

	defer inputSource.Close() // nolint: errcheck

	log := initLogger(cfg.VerbosityLevel, cfg.JSONLog, cfg.ErrWriter)

	// Configure checker.
	c, err := initChecker(cfg, log)
	if err != nil {
		_, _ = fmt.Fprintln(cfg.ErrWriter, err.Error())

		return CodeErrBadArgs
	}

	// Configure reportWriter.
	var writeReport reportWriter

	if cfg.VerbosityLevel > VerbosityLevelSilent {
		// When the verbosity level is not silent, the log messages will be printed to the output randomly.
		// And the application cannot guarantee the prettified output to human users because stdout and stderr are visualized on the same screen.
		// This is not a problem to machines because the log messages are sent to stderr which is another file descriptor.
		//
		// Therefore, we will buffer the output and send at once when all the seeds are checked.
		writeReport = bufferedJSONReportWriter(cfg.OutWriter, cfg.PrettyOutput, log)
	} else {
		// When the verbosity level is silent, there is no log messages to print. It would be great to see the progress of the program rather than waiting till
		// the end. Therefore, the program could print out the report of a seed as soon as it is ready.
		writeReport = unbufferedJSONReportWriter(cfg.OutWriter, cfg.ErrWriter, cfg.PrettyOutput)
	}

	// The seeds are checked one by one, there is no need for a big buffer.
	publishSource := bufferedSourcePublisher(1, log)

	return doCheck(c, publishSource, writeReport, visitedDumper(cfg.DumpPath, cfg.ErrWriter, log), inputSource, log)
}

// initLogger returns a new logger.
//
// If the verbosity level is silent, all the log messages will be discarded by sending them to io.Discard.
// Otherwise, the logger will write to the stderr writer.
//
// Then the verbosity level is
// - VerbosityLevelError, the log level will be set to logger.ErrorLevel.
// - VerbosityLevelDebug, the log level will be set to logger.DebugLevel.
func initLogger(level VerbosityLevel, jsonLog bool, errWriter io.Writer) ctxd.Logger {
	logCfg := logger.Config{
		Output: io.Discard,
		Level:  logger.ErrorLevel,
		JSON:   jsonLog,
	}

	if level > VerbosityLevelSilent {
		logCfg.Output = errWriter
	}

	if level > VerbosityLevelError {
		logCfg.Level = logger.DebugLevel
	}

	return logger.NewLogger(logCfg)
}

// initInputSource returns the first valid input source.
//
// It accepts a list of input sources. The source types are:
// - []string: A list of seeds. If the list is empty, it is ignored.
// - string: A file path that contains a list of seeds, one on each line. If the path is empty, it is ignored.
// - io.ReadCloser: A reader that contains a list of seeds, one on each line.
// - io.Reader: A reader that contains a list of seeds, one on each line.
//
// The function returns an input source as an io.ReadCloser so that it can be streamed and closed by the caller.
//
// nolint: cyclop,goerr113 // Error will be printed out.
func initInputSource(sources ...any) (io.ReadCloser, ExitCode, error) {
	for _, source := range sources {
		switch s := source.(type) {
		case nil:
			continue

		case []string:
			if len(s) == 0 {
				continue
			}

			return io.NopCloser(strings.NewReader(strings.Join(s, "\n"))), CodeOK, nil

		case string:
			if len(s) == 0 {
				continue
			}

			f, err := os.Open(filepath.Clean(s))
			if err != nil {
				return nil, CodeErrOpenInputSource, fmt.Errorf("could not open input file: %w", err)
			}

			return f, CodeOK, nil

		case io.ReadCloser:
			return s, CodeOK, nil

		case io.Reader:
			return io.NopCloser(s), CodeOK, nil

		default:
			return nil, CodeErrUnsupportedInputSource, fmt.Errorf("unsupported input source: %T", s)
		}
	}

	return nil, CodeErrNoInputSource, errors.New("no input source")
}

// initChecker initiates a new crawler.LinkChecker.
//
// The function returns an error if the number of workers is smaller than 1 or greater than the maximum number of workers, or if the maximum number
// of pages is negative.
//
// nolint: goerr113 // Error will be printed out.
func initChecker(cfg Config, log ctxd.Logger) (*crawler.LinkChecker, error) {
	if cfg.NumWorkers < 1 {
		return nil, errors.New(`number of workers must be greater than 0`)
	} else if cfg.NumWorkers > maxNumWorkers {
		return nil, fmt.Errorf(`maximum workers is %d`, maxNumWorkers)
	}

	if cfg.MaxPages < 0 {
		return nil, errors.New(`maximum number of pages must not be negative`)
	}

	c := crawler.NewLinkChecker(
		crawler.WithLinkCollectors(collector.DefaultRegistry()),
		crawler.WithClientTimeout(cfg.Timeout),
		crawler.WithNumWorkers(cfg.NumWorkers),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithLogger(log),
	)

	return c, nil
}

// dumpFunc persists the visited urls.
type dumpFunc func(visited []string) ExitCode

// visitedDumper creates a dumpFunc that writes the visited urls to a file. It does nothing if the path is empty.
func visitedDumper(path string, outErr io.Writer, log ctxd.Logger) dumpFunc {
	return func(visited []string) ExitCode {
		if path == "" {
			return CodeOK
		}

		ctx := ctxd.AddFields(context.Background(), "dump.path", path)

		if err := dump.ToFile(path, visited); err != nil {
			log.Error(ctx, "failed to dump visited urls", "error", err)

			_, _ = fmt.Fprintf(outErr, "could not dump visited urls: %s\n", err.Error())

			return CodeErrOutput
		}

		log.Debug(ctx, "dumped visited urls", "num_visited", len(visited))

		return CodeOK
	}
}

// doCheck checks the seeds of the input source and prints the reports to the output writer.
//
// In case of SIGINT or SIGTERM, the checker will be gracefully stopped and the function will return CodeErrOperationCanceled.
// In case of output or dump error, the function will return CodeErrOutput.
// In case of an invalid seed or a bad url, the function will return CodeErrBrokenLinks.
//
// The reports will be channeled to the report writer for writing to the output. The visited urls of all the seeds are dumped at the end, even if
// the check is canceled.
func doCheck(
	c *crawler.LinkChecker,
	publishSource sourcePublisher,
	writeReport reportWriter,
	dumpVisited dumpFunc,
	source io.Reader,
	log ctxd.Logger,
) ExitCode {
	ctx, cancel := context.WithCancel(context.Background())

	go footprint.Track(ctx, log, c.Stats())

	code := CodeOK
	codeMu := &sync.Mutex{}
	sigs := make(chan os.Signal, 1)

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var wg sync.WaitGroup

	wg.Add(2) // nolint: gomnd // WaitGroup is used to wait for goroutines to finish.

	go func() { // Watch for termination to cancel the context in order to signal all the workers to stop.
		defer wg.Done()

		select {
		case <-sigs:
			codeMu.Lock()
			code = CodeErrOperationCanceled
			codeMu.Unlock()

			cancel()
		case <-ctx.Done():
			return
		}
	}()

	go func() {
		defer wg.Done()
		defer cancel()

		check := sequentialSeedChecker(c, log)
		reports, summary := check(ctx, publishSource(ctx, source))

		wCode := writeReport(reports)

		// Stop checking if the writer gave up, and wait for the checker to finish before reading the summary.
		cancel()

		for range reports { // nolint: revive
		}

		dCode := dumpVisited(summary.visitedURLs())

		codeMu.Lock()
		defer codeMu.Unlock()

		if code == CodeErrOperationCanceled {
			return
		}

		switch {
		case wCode != CodeOK:
			code = wCode

		case dCode != CodeOK:
			code = dCode

		case summary.numFailed > 0:
			code = CodeErrBrokenLinks
		}
	}()

	wg.Wait()

	return code
}
