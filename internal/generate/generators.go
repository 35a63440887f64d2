package generate

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/dockergen/internal/config"
	"git.home.luguber.info/inful/dockergen/internal/macro"
	"git.home.luguber.info/inful/dockergen/internal/metrics"
)

// FolderFinder resolves a volume source folder to an absolute path.
// pathfind.Finder is the production implementation; tests inject stubs.
type FolderFinder interface {
	FindFolder(name string) (string, bool)
}

// defGenerator produces one definition's Dockerfile text while accumulating
// its State. One instance per definition; never reused.
type defGenerator struct {
	name           string
	def            *config.Definition
	docDir         string
	addPath        string
	dockerfilePath string
	macros         macro.Table
	finder         FolderFinder
	state          *State
	rec            metrics.Recorder

	warnedMissingCopySource bool
}

// warn logs an advisory warning and counts it. Warnings never abort
// generation; the offending entry degrades to its literal value.
func (g *defGenerator) warn(kind metrics.WarningKind, msg string, args ...any) {
	args = append(args, "definition", g.name)
	slog.Warn(msg, args...)
	g.state.warnings++
	g.rec.IncWarning(kind)
}

// expand resolves a macro token, recording the advisory warning on a miss.
func (g *defGenerator) expand(token string) []string {
	words, miss := g.macros.Expand(token)
	if miss {
		g.warn(metrics.WarnMacro, "macro not found, skipping substitution", "macro", token)
	}
	return words
}

// directiveFunc is the uniform generator contract. produced=false means the
// section had no relevant field and the composer must emit nothing for this
// generator, including no separator.
type directiveFunc func(g *defGenerator, stage *config.StageConfig, sec *config.Section) (produced bool, text string)

// directiveOrder fixes the order directives appear in within a section,
// independent of the order fields appear in the document. The environment
// generators must stay ahead of the volume generator: ${NAME} references in
// volume destinations resolve against variables accumulated so far.
var directiveOrder = []struct {
	name string
	fn   directiveFunc
}{
	{"expose", (*defGenerator).genExpose},
	{"env", (*defGenerator).genEnv},
	{"env_ext", (*defGenerator).genEnvExt},
	{"volume", (*defGenerator).genVolume},
	{"copy", (*defGenerator).genCopy},
	{"copy_f", (*defGenerator).genCopyForced},
	{"shell", (*defGenerator).genShell},
	{"packages", (*defGenerator).genPackages},
	{"file", (*defGenerator).genFile},
	{"run", (*defGenerator).genRun},
}

// runChain starts a RUN directive. The leading backtick comment is a shell
// no-op that labels the layer; set -x echoes each command during the build
// unless the definition disables build tracing. Sub-commands are chained
// with && so the layer fails as a whole, and everything stays in one RUN to
// keep the image layer count down.
func (g *defGenerator) runChain(label string) *strings.Builder {
	b := &strings.Builder{}
	fmt.Fprintf(b, "RUN `# %s` && ", label)
	if g.def.BuildTraceDisable {
		b.WriteString("set +x")
	} else {
		b.WriteString("set -x")
	}
	return b
}

func chainCommand(b *strings.Builder, cmd string) {
	fmt.Fprintf(b, " && \\\n\t%s", cmd)
}

func chainComment(b *strings.Builder, comment string) {
	fmt.Fprintf(b, " && \\\n\t`# %s`", comment)
}

func (g *defGenerator) genExpose(_ *config.StageConfig, sec *config.Section) (bool, string) {
	if len(sec.Expose) == 0 {
		return false, ""
	}
	var b strings.Builder
	b.WriteString("EXPOSE")
	for _, entry := range sec.Expose {
		port, proto := entry, "TCP"
		if i := strings.IndexByte(entry, '/'); i >= 0 {
			port, proto = entry[:i], entry[i+1:]
		}
		g.state.Ports = append(g.state.Ports, ExposedPort{Port: port, Protocol: proto})
		if strings.EqualFold(proto, "TCP") {
			fmt.Fprintf(&b, " %s", port)
		} else {
			fmt.Fprintf(&b, " %s/%s", port, proto)
		}
	}
	return true, b.String()
}

func (g *defGenerator) genEnv(_ *config.StageConfig, sec *config.Section) (bool, string) {
	if len(sec.Env) == 0 {
		return false, ""
	}
	var lines []string
	for _, entry := range sec.Env {
		for _, w := range g.expand(entry) {
			lines = append(lines, "ENV "+w)
			name, value := splitEnvDefinition(w)
			g.state.SetEnv(EnvVar{Name: name, Value: value})
		}
	}
	return true, strings.Join(lines, "\n")
}

func (g *defGenerator) genEnvExt(_ *config.StageConfig, sec *config.Section) (bool, string) {
	if len(sec.EnvExt) == 0 {
		return false, ""
	}
	var lines []string
	for _, e := range sec.EnvExt {
		for _, h := range e.Help {
			lines = append(lines, "# "+h)
		}
		lines = append(lines, "ENV "+e.Definition)
		name, value := splitEnvDefinition(e.Definition)
		g.state.SetEnv(EnvVar{Name: name, Value: value, Help: e.Help, Publish: e.Publish})
	}
	return true, strings.Join(lines, "\n")
}

func (g *defGenerator) genVolume(_ *config.StageConfig, sec *config.Section) (bool, string) {
	if len(sec.Volumes) == 0 {
		return false, ""
	}
	var dsts []string
	for _, v := range sec.Volumes {
		src, dst, ok := splitPair(v)
		if !ok {
			g.warn(metrics.WarnParse, "failed to parse volume mount", "mount", v)
			continue
		}
		dst = macro.SubstituteDeep(dst, g.state.EnvValues())
		abs, found := g.finder.FindFolder(src)
		if !found {
			abs = src
			g.warn(metrics.WarnVolumeSource, "volume source folder not found under the home directory", "src", src)
		}
		dsts = append(dsts, fmt.Sprintf("%q", dst))
		g.state.Volumes = append(g.state.Volumes, VolumeMount{Src: src, Dst: dst, AbsPath: abs})
	}
	if len(dsts) == 0 {
		return false, ""
	}
	return true, "VOLUME [ " + strings.Join(dsts, ", ") + " ]"
}

func (g *defGenerator) genCopy(_ *config.StageConfig, sec *config.Section) (bool, string) {
	return g.copyDirectives(sec.Copy, true)
}

func (g *defGenerator) genCopyForced(_ *config.StageConfig, sec *config.Section) (bool, string) {
	return g.copyDirectives(sec.CopyF, false)
}

func (g *defGenerator) copyDirectives(entries []string, checked bool) (bool, string) {
	if len(entries) == 0 {
		return false, ""
	}
	var lines []string
	for _, entry := range entries {
		for _, w := range g.expand(entry) {
			src, dst, ok := splitPair(w)
			if !ok {
				g.warn(metrics.WarnParse, "failed to parse COPY arguments", "args", w)
				continue
			}
			lines = append(lines, fmt.Sprintf("COPY %q %q", src, dst))
			if checked {
				g.checkCopySource(src)
			}
		}
	}
	if len(lines) == 0 {
		return false, ""
	}
	return true, strings.Join(lines, "\n")
}

// checkCopySource probes for the COPY source next to the document (and under
// the optional add-path). Only the first miss per definition is reported.
func (g *defGenerator) checkCopySource(src string) {
	if g.warnedMissingCopySource {
		return
	}
	roots := []string{g.docDir}
	if g.addPath != "" {
		roots = append(roots, g.addPath)
	}
	for _, root := range roots {
		for _, probe := range []string{filepath.Join(root, filepath.Base(src)), filepath.Join(root, src)} {
			if matches, err := filepath.Glob(probe); err == nil && len(matches) > 0 {
				return
			}
		}
	}
	g.warnedMissingCopySource = true
	g.warn(metrics.WarnCopySource, "COPY source not found next to the document", "src", src, "dir", g.docDir)
}

func (g *defGenerator) genShell(_ *config.StageConfig, sec *config.Section) (bool, string) {
	return g.fileDirectives(sec.Shells, true)
}

func (g *defGenerator) genFile(_ *config.StageConfig, sec *config.Section) (bool, string) {
	return g.fileDirectives(sec.Files, false)
}

// fileDirectives builds one RUN chain that writes every file in the
// collection: create the directory, seed the file with its help comment
// lines, append the body line by line. Shell scripts are additionally marked
// executable and tracked in the shell registry for help rendering.
func (g *defGenerator) fileDirectives(specs []config.FileSpec, executable bool) (bool, string) {
	if len(specs) == 0 {
		return false, ""
	}
	b := g.runChain("Generate files")
	for _, f := range specs {
		record := GeneratedFile{Filename: f.Filename, Help: f.Help, Publish: f.Publish}
		g.state.Files = append(g.state.Files, record)
		if executable {
			g.state.Shells = append(g.state.Shells, record)
		}

		// The directory is resolved now from accumulated variables; the
		// file path itself is left for the build-time shell to expand.
		resolved := macro.SubstituteDeep(f.Filename, g.state.EnvValues())
		chainComment(b, f.Filename)
		chainCommand(b, "mkdir -p "+path.Dir(resolved))

		var header strings.Builder
		for _, h := range f.Help {
			header.WriteString("# " + h + `\n`)
		}
		chainCommand(b, fmt.Sprintf(`echo -e "%s" > %s`, header.String(), f.Filename))

		for _, line := range f.Lines {
			for _, w := range g.expand(line) {
				if rest, ok := strings.CutPrefix(w, "comment "); ok {
					if !g.def.BuildTraceDisable {
						chainComment(b, rest)
					}
					continue
				}
				chainCommand(b, fmt.Sprintf(`echo "%s" >> %s`, w, f.Filename))
			}
		}
		if executable {
			chainCommand(b, "chmod +x "+f.Filename)
		}
	}
	return true, b.String()
}

func (g *defGenerator) genPackages(_ *config.StageConfig, sec *config.Section) (bool, string) {
	if len(sec.Install) == 0 {
		return false, ""
	}
	var words []string
	for _, p := range sec.Install {
		words = append(words, g.expand(p)...)
	}
	pkgs := strings.Join(words, " ")

	b := g.runChain("Install packages")
	switch g.def.Packager {
	case "rpm":
		chainCommand(b, "yum -y install "+pkgs)
		chainCommand(b, "yum clean all && yum -y clean packages")
	case "deb":
		chainCommand(b, "apt-get update")
		chainCommand(b, "apt-get -y install "+pkgs)
		chainCommand(b, "apt-get -y clean")
	default:
		g.warn(metrics.WarnPackager, "unsupported packager", "packager", g.def.Packager)
		return false, ""
	}
	return true, b.String()
}

func (g *defGenerator) genRun(_ *config.StageConfig, sec *config.Section) (bool, string) {
	if len(sec.Run) == 0 {
		return false, ""
	}
	b := g.runChain("Execute commands")
	for _, cmd := range sec.Run {
		if rest, ok := strings.CutPrefix(cmd, "comment "); ok {
			// Build-trace commentary, not an executed command.
			if !g.def.BuildTraceDisable {
				chainComment(b, rest)
			}
			continue
		}
		if !strings.Contains(cmd, " ") && !g.def.BuildTraceDisable {
			chainComment(b, cmd)
		}
		for _, w := range g.expand(cmd) {
			chainCommand(b, w)
		}
	}
	return true, b.String()
}
