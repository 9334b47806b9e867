package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bool64/ctxd"
)

const jsonIndent = "  "

// reportWriter is a function that writes the reports of the seeds to a writer.
type reportWriter func(reports <-chan seedReport) ExitCode

// nolint: tagliatelle
type seedResult struct {
	Seed       string      `json:"seed"`
	Domain     string      `json:"domain"`
	NumVisited int         `json:"visited_num"`
	Visited    []string    `json:"visited"`
	BadURLs    []badResult `json:"bad_urls"`
	Success    bool        `json:"success"`
	Error      *string     `json:"error"`
}

type badResult struct {
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// bufferedJSONReportWriter creates a new report writer that keeps the reports in memory and writes them to the output at the end of the process.
//
// In case of error while writing to the output, the error will be logged and the process will stop with exit code CodeErrOutput.
func bufferedJSONReportWriter(out io.Writer, pretty bool, log ctxd.Logger) reportWriter {
	return func(reports <-chan seedReport) (code ExitCode) {
		code = CodeOK
		ctx := context.Background()
		buf := make([]seedResult, 0)

		defer func() {
			enc := json.NewEncoder(out)

			if pretty {
				enc.SetIndent("", jsonIndent)
			}

			if err := enc.Encode(buf); err != nil {
				code = CodeErrOutput

				log.Error(ctx, "failed to encode report", "error", err)
			}
		}()

		for r := range reports {
			log.Debug(ctx, "received report",
				"seed", r.Seed,
				"num_visited", len(r.Visited),
				"num_bad_urls", len(r.BadURLs),
			)

			buf = append(buf, toSeedResult(r))
		}

		return code
	}
}

// unbufferedJSONReportWriter creates a new report writer that writes the reports to the output as soon as they are received.
//
// In case of error while writing to the output, the error will be printed to the error output and the process will stop with exit code CodeErrOutput.
func unbufferedJSONReportWriter(out, outErr io.Writer, pretty bool) reportWriter {
	return func(reports <-chan seedReport) (code ExitCode) {
		writeErr := func(format string, args ...interface{}) {
			code = CodeErrOutput
			_, _ = fmt.Fprintf(outErr, format, args...)
		}

		buf := new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		join := ""

		newL, startIndent, joinTmpl := "", "", ","

		if pretty {
			newL, startIndent = "\n", jsonIndent
			joinTmpl = ",\n" + startIndent

			enc.SetIndent(jsonIndent, jsonIndent)
		}

		if _, err := fmt.Fprint(out, "[", newL, startIndent); err != nil {
			writeErr("could not write [ to output: %s\n", err)

			return
		}

		defer func() {
			if code != CodeOK {
				return
			}

			if _, err := fmt.Fprint(out, newL, "]\n"); err != nil {
				writeErr("could not write ] to output: %s\n", err)
			}
		}()

		for r := range reports {
			buf.Reset()

			if err := enc.Encode(toSeedResult(r)); err != nil { // This should not happen.
				writeErr("could not encode %q report: %s", r.Seed, err.Error())

				return
			}

			if _, err := fmt.Fprint(out, join, strings.Trim(buf.String(), "\r\n")); err != nil {
				writeErr("could not write %q report: %s", r.Seed, err.Error())

				return
			}

			join = joinTmpl
		}

		return CodeOK
	}
}

// toSeedResult converts a seedReport to seedResult for output.
func toSeedResult(r seedReport) seedResult {
	result := seedResult{
		Seed:       r.Seed,
		Domain:     r.Domain,
		NumVisited: len(r.Visited),
		Visited:    make([]string, len(r.Visited)),
		BadURLs:    make([]badResult, 0, len(r.BadURLs)),
		Success:    r.success(),
	}

	copy(result.Visited, r.Visited)

	for _, b := range r.BadURLs {
		result.BadURLs = append(result.BadURLs, badResult{
			URL:   b.URL,
			Kind:  string(b.Kind),
			Error: b.Err.Error(),
		})
	}

	if r.Err != nil {
		err := r.Err.Error()
		result.Error = &err
	}

	return result
}
