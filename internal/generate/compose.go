package generate

import (
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/dockergen/internal/config"
)

// composeSection runs the fixed directive order against one section. Each
// producing generator contributes its text plus one blank-line separator;
// non-producing generators contribute nothing at all. The section header is
// only emitted when the stage has more than one section.
func (g *defGenerator) composeSection(stage *config.StageConfig, sec *config.Section, idx, total int) string {
	var b strings.Builder
	if total > 1 && !g.def.CommentsDisable {
		if sec.Label != "" {
			fmt.Fprintf(&b, "# Section %d: %s\n", idx, sec.Label)
		} else {
			fmt.Fprintf(&b, "# Section %d\n", idx)
		}
	}
	for _, d := range directiveOrder {
		produced, text := d.fn(g, stage, sec)
		if !produced {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// composeStage emits one stage: header comment, base image, entrypoint, the
// sections in document order, and the README directive. The README uses only
// state accumulated up to the end of this stage, so a later stage cannot
// retroactively pick up content it did not request.
func (g *defGenerator) composeStage(st config.Stage, idx int) string {
	var b strings.Builder
	if st.Name != "" && !g.def.CommentsDisable {
		fmt.Fprintf(&b, "# Stage %s (%d)\n", st.Name, idx)
	}
	if st.Name != "" {
		fmt.Fprintf(&b, "FROM %s as %s\n", st.Config.Base, st.Name)
	} else {
		fmt.Fprintf(&b, "FROM %s\n", st.Config.Base)
	}
	if st.Config.Entrypoint != "" {
		fmt.Fprintf(&b, "ENTRYPOINT %s\n", st.Config.Entrypoint)
	}
	b.WriteString("\n")

	sections := st.Config.EffectiveSections()
	for i := range sections {
		b.WriteString(g.composeSection(&st.Config, &sections[i], i, len(sections)))
	}

	if !g.def.ReadmeDisable {
		b.WriteString(g.readmeDirective())
		b.WriteString("\n")
	}
	return b.String()
}

// compose renders the whole definition: all stages in document order, with
// the comment header prepended afterwards, once the accumulated state it
// describes is complete.
func (g *defGenerator) compose() string {
	var b strings.Builder
	for i, st := range g.def.EffectiveStages() {
		b.WriteString(g.composeStage(st, i))
	}
	content := b.String()
	if !g.def.HelpDisable {
		content = g.fileHeader() + "\n" + content
	}
	return content
}

// fileHeader is the comment block at the top of the Dockerfile: provenance,
// the definition's help lines, and ready-to-paste build/run commands.
func (g *defGenerator) fileHeader() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by dockergen on %s\n", hostname())
	for _, h := range g.def.Help {
		fmt.Fprintf(&b, "# %s\n", h)
	}

	var volumes strings.Builder
	for _, v := range g.state.Volumes {
		fmt.Fprintf(&volumes, " --volume %s:%s", v.Src, v.Dst)
	}
	fmt.Fprintf(&b, "# sudo docker build --tag %s:latest --file %s  .\n", g.name, g.dockerfilePath)
	fmt.Fprintf(&b, "# sudo docker run --name %s --tty --interactive %s%s %s:latest\n",
		g.name, volumes.String(), g.helpEnvArgs(), g.name)
	fmt.Fprintf(&b, "# sudo docker start --interactive %s\n", g.name)
	if len(g.def.Examples) > 0 {
		b.WriteString("# Examples:\n")
		for _, e := range g.def.Examples {
			fmt.Fprintf(&b, "# %s\n", e)
		}
	}
	return b.String()
}

// readmeDirective emits a RUN step that writes a README into the image. The
// text is the operator help accumulated so far, encoded for a single-quoted
// echo -e with shell line continuations.
func (g *defGenerator) readmeDirective() string {
	readme := g.renderReadme()
	return "RUN set +x && `# Generate README file` && \\\n\techo -e '" + readme + "' > README\n"
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}
