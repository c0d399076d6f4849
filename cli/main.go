package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/analysis"
	"github.com/driftsound/retag/core/engine"
)

// audioExts is the default traversal filter when -ext is not given.
var audioExts = map[string]bool{
	".mp3": true, ".flac": true, ".ogg": true, ".oga": true,
	".m4a": true, ".mp4": true, ".wav": true, ".aif": true, ".aiff": true,
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

type options struct {
	recurse     bool
	exts        string
	limit       int
	analysis    string
	put         string
	putForce    bool
	cover       string
	coverRemove bool
	removeAll   bool
	removes     multiFlag
	sets        multiFlag
	appends     multiFlag
	prepends    multiFlag
	jsonOut     bool
	quiet       bool
	verbose     bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.recurse, "r", false, "recurse into subdirectories")
	flag.StringVar(&opts.exts, "ext", "", "comma-separated extension filter (default: common audio extensions)")
	flag.IntVar(&opts.limit, "limit", 0, "stop after N files (0 = no limit)")
	flag.StringVar(&opts.analysis, "analysis", "", "JSON analysis report to write into tags")
	flag.StringVar(&opts.put, "put", "bpm,energy,key", "analysis parts to write (comma list of bpm, energy, key)")
	flag.BoolVar(&opts.putForce, "put-force", false, "rebuild the album prefix, discarding the current album text")
	flag.StringVar(&opts.cover, "cover", "", "image file to embed as the front cover")
	flag.BoolVar(&opts.coverRemove, "cover-remove", false, "remove embedded front covers")
	flag.BoolVar(&opts.removeAll, "remove-all", false, "remove all text tags (artwork stays)")
	flag.Var(&opts.removes, "remove", "tag name(s) to remove, comma-separated (repeatable)")
	flag.Var(&opts.sets, "set", "Key=Value to set (repeatable)")
	flag.Var(&opts.appends, "append", "Key=Value to append to the existing value (repeatable)")
	flag.Var(&opts.prepends, "prepend", "Key=Value to prepend to the existing value (repeatable)")
	flag.BoolVar(&opts.jsonOut, "json", false, "emit one JSON object per file instead of text")
	flag.BoolVar(&opts.quiet, "q", false, "only report failures")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	log := setupLogger(opts.verbose)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "no input files or directories")
		flag.Usage()
		os.Exit(2)
	}

	base, err := buildRequest(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var results map[string]analysis.Result
	if opts.analysis != "" {
		results, err = analysis.LoadResults(opts.analysis)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Debug().Int("results", len(results)).Str("report", opts.analysis).Msg("analysis report loaded")
	}

	paths, err := collectPaths(flag.Args(), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no matching audio files")
		os.Exit(1)
	}

	parts, err := parseParts(opts.put)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	jobs := make([]engine.Job, 0, len(paths))
	for _, path := range paths {
		req := base
		if results != nil {
			if res, ok := lookupResult(results, path); ok {
				req.Analysis = &engine.AnalysisRequest{Result: res, Parts: parts, Force: opts.putForce}
			} else {
				log.Debug().Str("path", path).Msg("no analysis result for file")
			}
		}
		jobs = append(jobs, engine.Job{Path: path, Request: req})
	}

	reporter := core.NewReporter(os.Stdout, opts.jsonOut)
	outcomes := engine.New(log).ProcessAll(jobs)
	for _, o := range outcomes {
		if opts.quiet && !o.Status.Failed() {
			continue
		}
		reporter.Report(o)
	}
	if !opts.quiet && !opts.jsonOut {
		fmt.Println(core.Summarize(outcomes))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: retag [flags] <file|dir>...\n\n")
	fmt.Fprintf(os.Stderr, "Batch tag mutation for MP3, FLAC, OGG, M4A, WAV and AIFF files.\n\n")
	flag.PrintDefaults()
}

func setupLogger(verbose bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

// buildRequest translates the flags into the base per-file request.
// The analysis part is attached per file once the report is matched.
func buildRequest(opts options) (engine.Request, error) {
	req := engine.Request{
		CoverPath:   opts.cover,
		RemoveCover: opts.coverRemove,
		RemoveAll:   opts.removeAll,
	}
	for _, raw := range opts.removes {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.RemoveNames = append(req.RemoveNames, name)
			}
		}
	}
	if opts.removeAll && len(opts.removes) > 0 {
		return req, fmt.Errorf("-remove-all and -remove are mutually exclusive")
	}
	for _, group := range []struct {
		raw  multiFlag
		mode core.OpMode
	}{
		{opts.sets, core.OpSet},
		{opts.appends, core.OpAppend},
		{opts.prepends, core.OpPrepend},
	} {
		for _, kv := range group.raw {
			key, value, ok := core.ParseKV(kv)
			if !ok {
				return req, fmt.Errorf("invalid %s operation %q, want Key=Value", group.mode, kv)
			}
			req.Edits = append(req.Edits, core.TagOperation{Key: key, Value: value, Mode: group.mode})
		}
	}
	return req, nil
}

func parseParts(raw string) (engine.WriteParts, error) {
	var parts engine.WriteParts
	for _, p := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(p)) {
		case "bpm":
			parts.BPM = true
		case "energy":
			parts.Energy = true
		case "key":
			parts.Key = true
		case "":
		default:
			return parts, fmt.Errorf("unknown analysis part %q", p)
		}
	}
	return parts, nil
}

// collectPaths expands the positional arguments into a sorted file
// list, honoring the extension filter, recursion flag, and limit.
// Files named explicitly always pass the filter.
func collectPaths(args []string, opts options) ([]string, error) {
	allowed := audioExts
	if opts.exts != "" {
		allowed = map[string]bool{}
		for _, e := range strings.Split(opts.exts, ",") {
			e = strings.TrimSpace(strings.ToLower(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			allowed[e] = true
		}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		root := arg
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !opts.recurse && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if allowed[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)
	if opts.limit > 0 && len(paths) > opts.limit {
		paths = paths[:opts.limit]
	}
	return paths, nil
}

// lookupResult matches a file against the report, by full path first,
// then by base name, which covers reports generated on another
// machine.
func lookupResult(results map[string]analysis.Result, path string) (analysis.Result, bool) {
	if res, ok := results[path]; ok {
		return res, true
	}
	if abs, err := filepath.Abs(path); err == nil {
		if res, ok := results[abs]; ok {
			return res, true
		}
	}
	base := filepath.Base(path)
	for k, res := range results {
		if filepath.Base(k) == base {
			return res, true
		}
	}
	return analysis.Result{}, false
}
