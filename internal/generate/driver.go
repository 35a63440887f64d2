// Package generate turns a loaded document into Dockerfile text. One
// generator run walks every definition, expands macros and variables,
// composes the stage/section pipeline and writes one artifact per
// definition, returning the operator help rendered from the state each
// definition accumulated.
package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/dockergen/internal/config"
	"git.home.luguber.info/inful/dockergen/internal/macro"
	"git.home.luguber.info/inful/dockergen/internal/metrics"
	"git.home.luguber.info/inful/dockergen/internal/pathfind"
)

// Options configure a Generator.
type Options struct {
	// OutputDir is where artifacts are written; empty means the document's
	// own directory.
	OutputDir string
	// AddPath is an extra directory probed for COPY sources.
	AddPath string
	// Finder resolves volume source folders; nil means a home-directory
	// search with the default visit limit.
	Finder FolderFinder
	// Recorder receives generation metrics; nil means no metrics.
	Recorder metrics.Recorder
}

// Generator drives generation over every definition in a document. The
// macro table is shared read-only across definitions; each definition owns
// its own State.
type Generator struct {
	doc    *config.Document
	macros macro.Table
	opts   Options
}

// New builds a Generator for the document.
func New(doc *config.Document, opts Options) *Generator {
	if opts.OutputDir == "" {
		opts.OutputDir = doc.Dir
	}
	if opts.Finder == nil {
		opts.Finder = pathfind.Finder{}
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Generator{doc: doc, macros: macro.Table(doc.Macros), opts: opts}
}

// Result is the outcome of generating one definition.
type Result struct {
	Name     string
	Path     string // artifact path, written only on success
	Help     string // operator help, empty when Err is set
	Warnings int
	Err      error
}

// Report summarizes one generator run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	// NothingToGenerate distinguishes an empty document from a run where
	// definitions failed.
	NothingToGenerate bool
	Results           []Result
}

// Generated counts definitions whose artifact was written.
func (r *Report) Generated() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts definitions whose generation failed.
func (r *Report) Failed() int {
	return len(r.Results) - r.Generated()
}

// Run generates every definition in the document, in name order. A failure
// in one definition is recorded and does not stop the others.
func (g *Generator) Run() *Report {
	report := &Report{RunID: uuid.NewString(), Started: time.Now()}
	defer func() {
		report.Duration = time.Since(report.Started)
		g.opts.Recorder.ObserveRunDuration(report.Duration)
	}()

	defs := g.doc.Definitions()
	if len(defs) == 0 {
		report.NothingToGenerate = true
		slog.Info("nothing to generate", "dir", g.doc.Dir)
		return report
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t0 := time.Now()
		res := g.generateOne(name, defs[name])
		g.opts.Recorder.ObserveDefinitionDuration(name, time.Since(t0))
		if res.Err != nil {
			g.opts.Recorder.IncDefinitionOutcome("failed")
			slog.Error("definition generation failed", "definition", name, "error", res.Err)
		} else {
			g.opts.Recorder.IncDefinitionOutcome("success")
			slog.Info("generated dockerfile", "definition", name, "path", res.Path, "warnings", res.Warnings)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// generateOne composes and writes one definition's artifact. The text is
// built fully in memory and written in one shot, so a failure never leaves
// a partial artifact behind.
func (g *Generator) generateOne(name string, def *config.Definition) (res Result) {
	res = Result{Name: name}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("definition %s: %v", name, r)
		}
	}()

	dg := &defGenerator{
		name:           name,
		def:            def,
		docDir:         g.doc.Dir,
		addPath:        g.opts.AddPath,
		dockerfilePath: filepath.Join(g.opts.OutputDir, "Dockerfile."+name),
		macros:         g.macros,
		finder:         g.opts.Finder,
		state:          newState(),
		rec:            g.opts.Recorder,
	}
	content := dg.compose()
	res.Warnings = dg.state.Warnings()

	if err := os.WriteFile(dg.dockerfilePath, []byte(content), 0o644); err != nil {
		res.Err = fmt.Errorf("write %s: %w", dg.dockerfilePath, err)
		return res
	}
	res.Path = dg.dockerfilePath
	res.Help = dg.renderHelp()
	return res
}
