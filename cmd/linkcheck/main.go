package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nhatthm/linkcheck/internal/app/cli"
)

const (
	// defaultNumWorkers is the default value for number of workers.
	defaultNumWorkers = 10
	// defaultTimeout is the default timeout for requesting an url.
	defaultTimeout = 30 * time.Second
	// defaultMaxPages is the default maximum number of visited urls per seed.
	defaultMaxPages = 100

	usage = `Crawl websites from seed urls and report the broken links.

The pages of the domain of a seed are crawled recursively, the links to the
other domains are checked but never crawled.

Usage:
  [app] [options] [seed1 seed2 ... seedN]

Options:
  -f, --file PATH/TO/FILE
                    Path to the input file that contains a list of seeds,
                    separated by '\n'.
                    This option is used if no seeds are provided.
  -p, --parallel NUM
                    Number of workers for crawling. Default to [defaultNumWorkers].
  -t, --timeout TIMEOUT
                    Timeout for requesting an url, in the form "72h3m0.5s".
                    Default to [defaultTimeout].
  -m, --max-pages NUM
                    Maximum number of visited urls per seed, 0 means
                    unlimited. Default to [defaultMaxPages].
  -o, --output PATH/TO/FILE
                    Dump the visited urls to the file, one per line.
  --no-pretty       Disable pretty output.
  --log-json        Print out the log messages in JSON.
  -v, --verbose     Print out the error log messages.
  -vv               Print out the all log messages.
  -h, --help        Print out the help message.

Examples:
  Check all the seeds in path/to/file.txt:
    [app] -p 24 -f path/to/file.txt

  Check all the seeds in arguments:
    [app] -p 10 example.org example.com

  Check all the seeds in stdin:
    echo -n "example.org" | [app] -p 10 -vv

  Check with timeout and dump the visited urls:
    [app] -t 10s -o visited.txt example.org

Note:
  - All seeds can be with or without scheme, but must have a hostname. If
    the scheme is missing, default to https.
  - The exit code is [codeBrokenLinks] if a seed is invalid or a broken link
    is found.

Read more:
  - Time Duration format: https://golang.org/pkg/time/#ParseDuration
`
)

var (
	// argInputFile is the path to an input file that contains a list of seeds, separated by '\n'.
	argInputFile string
	// argNumWorkers is the number of workers for crawling urls. Default to defaultNumWorkers.
	argNumWorkers = defaultNumWorkers
	// argTimeout is the timeout for requesting an url.
	argTimeout time.Duration
	// argMaxPages is the maximum number of visited urls per seed.
	argMaxPages = defaultMaxPages
	// argOutput is the path to the dump of the visited urls.
	argOutput string
	// argNoPretty is used to turn off json prettifier.
	argNoPretty bool
	// argLogJSON is used to switch the log format to JSON.
	argLogJSON bool

	// argVerbose is used to set the verbosity level.
	argVerbose bool
	// argVeryVerbose is used to set the verbosity level.
	argVeryVerbose bool
)

// init is for registering all the arguments.
// nolint: gochecknoinits
func init() {
	flag.StringVar(&argInputFile, "file", "", "")
	flag.StringVar(&argInputFile, "f", "", "")
	flag.IntVar(&argNumWorkers, "parallel", defaultNumWorkers, "")
	flag.IntVar(&argNumWorkers, "p", defaultNumWorkers, "")
	flag.DurationVar(&argTimeout, "timeout", defaultTimeout, "")
	flag.DurationVar(&argTimeout, "t", defaultTimeout, "")
	flag.IntVar(&argMaxPages, "max-pages", defaultMaxPages, "")
	flag.IntVar(&argMaxPages, "m", defaultMaxPages, "")
	flag.StringVar(&argOutput, "output", "", "")
	flag.StringVar(&argOutput, "o", "", "")
	flag.BoolVar(&argNoPretty, "no-pretty", false, "")
	flag.BoolVar(&argLogJSON, "log-json", false, "")
	flag.BoolVar(&argVerbose, "verbose", false, "")
	flag.BoolVar(&argVerbose, "v", false, "")
	flag.BoolVar(&argVeryVerbose, "vv", false, "")

	flag.Usage = func() {
		r := strings.NewReplacer(
			`[app]`, filepath.Base(os.Args[0]),
			`[defaultNumWorkers]`, strconv.Itoa(defaultNumWorkers),
			`[defaultTimeout]`, defaultTimeout.String(),
			`[defaultMaxPages]`, strconv.Itoa(defaultMaxPages),
			`[codeBrokenLinks]`, strconv.Itoa(int(cli.CodeErrBrokenLinks)),
		)

		fmt.Print(r.Replace(usage))
	}
}

func main() {
	os.Exit(runMain())
}

func runMain() int {
	flag.Parse()

	cfg := cli.Config{
		OutWriter:      os.Stdout,
		ErrWriter:      os.Stderr,
		NumWorkers:     argNumWorkers,
		Timeout:        argTimeout,
		MaxPages:       argMaxPages,
		DumpPath:       argOutput,
		PrettyOutput:   !argNoPretty,
		JSONLog:        argLogJSON,
		VerbosityLevel: cli.VerbosityLevelSilent,
	}

	if argVeryVerbose {
		cfg.VerbosityLevel = cli.VerbosityLevelDebug
	} else if argVerbose {
		cfg.VerbosityLevel = cli.VerbosityLevelError
	}

	return int(cli.Run(cfg, flag.Args(), argInputFile, pipeFromStdIn(os.Stdin)))
}

// Detect if stdin is piped from another process.
func pipeFromStdIn(in *os.File) io.ReadCloser {
	fi, err := in.Stat()
	if err != nil {
		// Just ignore because we do not know if it is a pipe or not.
		return nil
	}

	if (fi.Mode() & os.ModeNamedPipe) != 0 {
		return io.NopCloser(in)
	}

	return nil
}
