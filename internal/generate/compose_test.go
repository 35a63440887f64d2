package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dockergen/internal/config"
)

// fullSection carries every directive field; the emitted order must be the
// fixed pipeline order no matter how the input was written.
func fullSection() config.Section {
	return config.Section{
		Run:     []string{"make"},
		Files:   []config.FileSpec{{Filename: "/etc/app.conf", Lines: []string{"x=1"}}},
		Install: []string{"gcc"},
		Shells:  []config.FileSpec{{Filename: "/usr/bin/go.sh", Lines: []string{"true"}}},
		CopyF:   []string{"forced /forced"},
		Copy:    []string{"plain /plain"},
		Volumes: []string{"data /data"},
		EnvExt:  []config.EnvExt{{Definition: "EXT 2"}},
		Env:     []string{"PLAIN 1"},
		Expose:  []string{"80"},
	}
}

func TestComposeSection_FixedDirectiveOrder(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "rpm"}, nil)
	sec := fullSection()

	out := g.composeSection(&config.StageConfig{}, &sec, 0, 1)

	markers := []string{
		"EXPOSE 80",
		"ENV PLAIN 1",
		"ENV EXT 2",
		`VOLUME [ "/data" ]`,
		`COPY "plain" "/plain"`,
		`COPY "forced" "/forced"`,
		"go.sh",
		"yum -y install gcc",
		"app.conf",
		"RUN `# Execute commands`",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q in output:\n%s", m, out)
		require.Greater(t, idx, last, "%q out of order in output:\n%s", m, out)
		last = idx
	}
}

func TestComposeSection_SeparatorsOnlyAfterOutput(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "rpm"}, nil)
	sec := config.Section{Expose: []string{"80"}, Run: []string{"true false"}}

	out := g.composeSection(&config.StageConfig{}, &sec, 0, 1)

	// Two producing generators: two blocks, one blank line after each,
	// nothing from the eight silent generators in between.
	assert.Equal(t, "EXPOSE 80\n\nRUN `# Execute commands` && set -x && \\\n\ttrue false\n\n", out)
}

func TestComposeSection_HeaderOnlyWithMultipleSections(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "rpm"}, nil)
	sec := config.Section{Expose: []string{"80"}, Label: "web"}

	solo := g.composeSection(&config.StageConfig{}, &sec, 0, 1)
	assert.NotContains(t, solo, "# Section")

	multi := g.composeSection(&config.StageConfig{}, &sec, 0, 2)
	assert.Contains(t, multi, "# Section 0: web\n")

	g.def.CommentsDisable = true
	silenced := g.composeSection(&config.StageConfig{}, &sec, 0, 2)
	assert.NotContains(t, silenced, "# Section")
}

func TestComposeStage_NamedStage(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "deb", ReadmeDisable: true}, nil)
	st := config.Stage{
		Name:   "intermediate",
		Config: config.StageConfig{Base: "ubuntu:16.04"},
	}

	out := g.composeStage(st, 0)
	assert.Contains(t, out, "# Stage intermediate (0)\n")
	assert.Contains(t, out, "FROM ubuntu:16.04 as intermediate\n")
}

func TestComposeStage_AnonymousStage(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "rpm", ReadmeDisable: true}, nil)
	st := config.Stage{Config: config.StageConfig{Base: "centos:centos7"}}

	out := g.composeStage(st, 0)
	assert.Contains(t, out, "FROM centos:centos7\n")
	assert.NotContains(t, out, " as ")
	assert.NotContains(t, out, "# Stage")
}

func TestComposeStage_Entrypoint(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "rpm", ReadmeDisable: true}, nil)
	st := config.Stage{Config: config.StageConfig{Base: "alpine:3", Entrypoint: `["/bin/sh"]`}}

	out := g.composeStage(st, 0)
	require.Contains(t, out, "ENTRYPOINT [\"/bin/sh\"]\n")
	assert.Less(t, strings.Index(out, "FROM"), strings.Index(out, "ENTRYPOINT"))
}

func TestComposeStage_ReadmeDirective(t *testing.T) {
	g := newTestGen(t, &config.Definition{Packager: "rpm"}, nil)
	st := config.Stage{Config: config.StageConfig{
		Base:    "alpine:3",
		Section: config.Section{Volumes: []string{"data /data"}},
	}}

	out := g.composeStage(st, 0)
	readmeAt := strings.Index(out, "`# Generate README file`")
	require.GreaterOrEqual(t, readmeAt, 0)
	// README comes after the sections, built from state accumulated so far.
	assert.Less(t, strings.Index(out, "VOLUME"), readmeAt)
	assert.Contains(t, out, "> README")

	g2 := newTestGen(t, &config.Definition{Packager: "rpm", ReadmeDisable: true}, nil)
	assert.NotContains(t, g2.composeStage(st, 0), "README")
}

func TestCompose_FileHeader(t *testing.T) {
	def := &config.Definition{
		Packager: "rpm",
		Help:     []string{"Toolchain image for nightly builds"},
		Examples: []string{"sudo docker exec -it test /bin/bash"},
		StageConfig: config.StageConfig{
			Base:    "centos:centos7",
			Section: config.Section{Env: []string{"MODE fast"}},
		},
	}
	g := newTestGen(t, def, nil)

	out := g.compose()
	assert.True(t, strings.HasPrefix(out, "# Generated by dockergen on "), "header missing:\n%s", out)
	assert.Contains(t, out, "# Toolchain image for nightly builds\n")
	assert.Contains(t, out, "# sudo docker build --tag test:latest")
	assert.Contains(t, out, "# Examples:\n")
	assert.Less(t, strings.Index(out, "# Generated by"), strings.Index(out, "FROM centos:centos7"))
}

func TestCompose_HelpDisableOmitsHeader(t *testing.T) {
	def := &config.Definition{
		Packager:    "rpm",
		HelpDisable: true,
		StageConfig: config.StageConfig{Base: "centos:centos7"},
	}
	g := newTestGen(t, def, nil)
	out := g.compose()
	assert.False(t, strings.Contains(out, "# Generated by dockergen"), "header present despite help_disable:\n%s", out)
	assert.True(t, strings.HasPrefix(out, "FROM "))
}
