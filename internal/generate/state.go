package generate

// ExposedPort is one port declared by an EXPOSE directive.
type ExposedPort struct {
	Port     string
	Protocol string
}

// EnvVar is one accumulated environment variable.
type EnvVar struct {
	Name    string
	Value   string
	Help    []string
	Publish bool
}

// VolumeMount is one accumulated volume record.
type VolumeMount struct {
	Src string
	Dst string
	// AbsPath is the resolved absolute source path ($HOME-relative when the
	// source was found under the operator's home), or the literal Src when
	// resolution failed.
	AbsPath string
}

// GeneratedFile is one inline file or shell script written by the Dockerfile.
type GeneratedFile struct {
	Filename string
	Help     []string
	Publish  bool
}

// State is the per-definition accumulator. It is created empty when a
// definition begins processing, mutated by the directive generators while
// the stages run, and read afterwards by the help renderer. Definitions
// never share a State.
type State struct {
	Ports   []ExposedPort
	Volumes []VolumeMount
	Files   []GeneratedFile
	Shells  []GeneratedFile

	env      map[string]EnvVar
	envOrder []string

	warnings int
}

func newState() *State {
	return &State{env: make(map[string]EnvVar)}
}

// SetEnv records a variable. A later write for the same name overwrites the
// earlier one but keeps its position, so help output stays stable.
func (s *State) SetEnv(v EnvVar) {
	if _, seen := s.env[v.Name]; !seen {
		s.envOrder = append(s.envOrder, v.Name)
	}
	s.env[v.Name] = v
}

// EnvVars returns the accumulated variables in first-insertion order.
func (s *State) EnvVars() []EnvVar {
	out := make([]EnvVar, 0, len(s.envOrder))
	for _, name := range s.envOrder {
		out = append(out, s.env[name])
	}
	return out
}

// EnvValues returns the name-to-value view used for ${NAME} substitution.
func (s *State) EnvValues() map[string]string {
	out := make(map[string]string, len(s.env))
	for name, v := range s.env {
		out[name] = v.Value
	}
	return out
}

// Warnings reports how many advisory warnings generation recorded.
func (s *State) Warnings() int { return s.warnings }
