package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/analysis"
	"github.com/driftsound/retag/core/store"
)

// AnalysisRequest carries one file's analysis result and how to write
// it.
type AnalysisRequest struct {
	Result analysis.Result
	Parts  WriteParts
	Force  bool
}

// Request is the full set of mutations to apply to one file. All
// requested mutations stage on a single open handle and commit in one
// save.
type Request struct {
	Analysis    *AnalysisRequest
	CoverPath   string
	RemoveCover bool
	RemoveAll   bool
	RemoveNames []string
	Edits       []core.TagOperation
}

// Empty reports whether the request would not touch the file at all.
func (r Request) Empty() bool {
	return r.Analysis == nil && r.CoverPath == "" && !r.RemoveCover &&
		!r.RemoveAll && len(r.RemoveNames) == 0 && len(r.Edits) == 0
}

// Job pairs a file with its request.
type Job struct {
	Path    string
	Request Request
}

// Opener opens a tag handle for a path. Swappable for tests.
type Opener func(path string) (store.File, error)

// Orchestrator runs requests against files, one outcome per file. A
// failure on one file never stops the batch.
type Orchestrator struct {
	open Opener
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Orchestrator {
	return &Orchestrator{open: store.Open, log: log}
}

// NewWithOpener is New with a custom handle opener.
func NewWithOpener(open Opener, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{open: open, log: log}
}

// ProcessAll runs every job and returns one outcome per job, in
// order.
func (o *Orchestrator) ProcessAll(jobs []Job) []core.Outcome {
	outcomes := make([]core.Outcome, 0, len(jobs))
	for _, job := range jobs {
		outcomes = append(outcomes, o.Process(job.Path, job.Request))
	}
	return outcomes
}

// Process applies req to the file at path. Mutations stage in a fixed
// order: analysis summary, cover embed, cover removal, tag removal,
// generic edits. Nothing touches the file until every stage has run;
// a file that ends up unchanged is reported as a no-op without a
// write.
func (o *Orchestrator) Process(path string, req Request) (out core.Outcome) {
	out = core.Outcome{Path: path, Status: core.StatusNoOp}
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("path", path).Interface("cause", r).Msg("mutation panicked")
			out = core.Outcome{Path: path, Status: core.StatusFailed, Detail: fmt.Sprint(r)}
		}
	}()

	if req.Empty() {
		out.Detail = "nothing requested"
		return out
	}

	// A file that cannot be opened, including one unparsable as any
	// known container, is a failure, not an unsupported operation.
	f, err := o.open(path)
	if err != nil {
		out.Status = core.StatusOpenFailed
		out.Detail = err.Error()
		return out
	}
	defer f.Close()

	mutated := false
	var details []string

	if req.Analysis != nil {
		applied, note := WriteAnalysis(f, req.Analysis.Result, req.Analysis.Parts, req.Analysis.Force)
		if applied {
			mutated = true
			details = append(details, note)
		} else {
			details = append(details, "analysis below detection floor")
		}
	}

	if req.CoverPath != "" {
		switch err := EmbedCover(f, req.CoverPath); {
		case errors.Is(err, core.ErrUnsupportedOperation):
			out.Warnings = append(out.Warnings, "cover art is not editable in this container")
		case err != nil:
			out.Status = core.StatusFailed
			out.Detail = err.Error()
			return out
		default:
			mutated = true
			details = append(details, "cover embedded")
		}
	}

	if req.RemoveCover {
		if n := RemoveCovers(f); n > 0 {
			mutated = true
			details = append(details, fmt.Sprintf("%d cover(s) removed", n))
		} else {
			details = append(details, "no cover present")
		}
	}

	if req.RemoveAll {
		RemoveAll(f)
		mutated = true
		details = append(details, "all tags removed")
	} else if len(req.RemoveNames) > 0 {
		if n := RemoveNamed(f, req.RemoveNames); n > 0 {
			mutated = true
			details = append(details, fmt.Sprintf("%d tag(s) removed", n))
		} else {
			details = append(details, "no matching tags")
		}
	}

	if n := ApplyOperations(f, req.Edits); n > 0 {
		mutated = true
		details = append(details, fmt.Sprintf("%d edit(s) applied", n))
	}

	out.Detail = strings.Join(details, "; ")
	if !mutated {
		if len(out.Warnings) > 0 {
			out.Status = core.StatusUnsupported
		}
		return out
	}

	if err := f.Save(); err != nil {
		o.log.Error().Str("path", path).Err(err).Msg("save failed")
		out.Status = core.StatusSaveFailed
		out.Detail = err.Error()
		return out
	}
	out.Status = core.StatusOK
	return out
}
