package generate

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/dockergen/internal/pathfind"
)

// renderHelp formats the operator help for one generated definition:
// ready-to-paste docker commands parameterized by the accumulated ports,
// volumes and published environment variables, followed by the shell script,
// environment, port and example listings.
func (g *defGenerator) renderHelp() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Container '%s' help:\n", g.name)
	for _, h := range g.def.Help {
		fmt.Fprintf(&b, "  %s\n", h)
	}
	b.WriteString(g.helpCommands())
	b.WriteString(g.helpShells())
	b.WriteString(g.helpEnvList())
	b.WriteString(g.helpPorts())
	b.WriteString(g.helpExamples())
	return b.String()
}

func (g *defGenerator) helpCommands() string {
	var volumes strings.Builder
	for _, v := range g.state.Volumes {
		fmt.Fprintf(&volumes, " \\\n  --volume %s:%s ", v.AbsPath, v.Dst)
	}
	volumesHelp := volumes.String()
	if volumesHelp != "" {
		volumesHelp += " \\\n "
	}

	var ports strings.Builder
	for _, p := range g.state.Ports {
		fmt.Fprintf(&ports, " -p %s:%s/%s", p.Port, p.Port, p.Protocol)
	}
	portsHelp := ports.String()
	if portsHelp != "" {
		portsHelp += " \\\n "
	}

	name := g.name
	var b strings.Builder
	b.WriteString("  # Build the container. See https://docs.docker.com/engine/reference/commandline/build\n")
	fmt.Fprintf(&b, "  sudo docker build --tag %s:latest --file %s  .\n", name, pathfind.ReplaceHome(g.dockerfilePath))
	b.WriteString("  # Run the previously built container. See https://docs.docker.com/engine/reference/commandline/run\n")
	fmt.Fprintf(&b, "  sudo docker run --name %s --network='host' --tty --interactive%s%s%s %s:latest\n",
		name, volumesHelp, portsHelp, g.helpEnvArgs(), name)
	b.WriteString("  # Start the previously run container\n")
	fmt.Fprintf(&b, "  sudo docker start --interactive %s\n", name)
	b.WriteString("  # Connect to a running container\n")
	fmt.Fprintf(&b, "  sudo docker exec --interactive --tty %s /bin/bash\n", name)
	b.WriteString("  # Save the container for the deployment to another machine. Use 'docker load' to load saved containers\n")
	fmt.Fprintf(&b, "  sudo docker save %s -o %s.tar\n", name, name)
	b.WriteString("  # Remove container to 'run' it again\n")
	fmt.Fprintf(&b, "  sudo docker rm %s\n", name)
	return b.String()
}

// helpEnvArgs renders the -e arguments for published variables only.
// Non-published variables exist for substitution, never for help.
func (g *defGenerator) helpEnvArgs() string {
	var b strings.Builder
	for _, v := range g.state.EnvVars() {
		if !v.Publish {
			continue
		}
		if v.Value != "" {
			fmt.Fprintf(&b, " -e %q", v.Name+"="+v.Value)
		} else {
			fmt.Fprintf(&b, " -e %s", v.Name)
		}
	}
	return b.String()
}

func (g *defGenerator) helpShells() string {
	var b strings.Builder
	for _, sh := range g.state.Shells {
		if !sh.Publish {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("  Custom shell scripts:\n")
		}
		prefix := fmt.Sprintf("    * %s - ", sh.Filename)
		fmt.Fprintf(&b, "%s%s\n", prefix, paddedLines(sh.Help, len(prefix)))
	}
	return b.String()
}

func (g *defGenerator) helpEnvList() string {
	var b strings.Builder
	for _, v := range g.state.EnvVars() {
		if !v.Publish {
			continue
		}
		var prefix string
		if v.Value != "" {
			prefix = fmt.Sprintf("    * %s=%s - ", v.Name, v.Value)
		} else {
			prefix = fmt.Sprintf("    * %s - ", v.Name)
		}
		fmt.Fprintf(&b, "%s%s\n", prefix, paddedLines(v.Help, len(prefix)))
	}
	if b.Len() == 0 {
		return ""
	}
	return "  Flagged ENV vars:\n" + b.String()
}

func (g *defGenerator) helpPorts() string {
	if len(g.state.Ports) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  Exposed ports:")
	for _, p := range g.state.Ports {
		fmt.Fprintf(&b, " %s/%s", p.Port, p.Protocol)
	}
	b.WriteString("\n")
	return b.String()
}

func (g *defGenerator) helpExamples() string {
	if len(g.def.Examples) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  Examples:\n")
	for _, e := range g.def.Examples {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	return b.String()
}

// paddedLines joins multi-line help so continuation lines align under the
// first one.
func paddedLines(lines []string, indent int) string {
	if len(lines) == 0 {
		return ""
	}
	padding := strings.Repeat(" ", indent)
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + padding + l
	}
	return out
}

// renderReadme builds the text the README directive writes into the image:
// the command help plus shells and examples, with comment markers stripped
// and newlines encoded for a single-quoted echo -e.
func (g *defGenerator) renderReadme() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generated by dockergen on %s\n", hostname())
	for _, h := range g.def.Help {
		fmt.Fprintf(&b, "%s\n", h)
	}
	b.WriteString(g.helpCommands())
	b.WriteString(g.helpShells())
	b.WriteString(g.helpExamples())

	s := strings.ReplaceAll(b.String(), "# ", "")
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "\n", "\\n\\\n")
	return s
}
