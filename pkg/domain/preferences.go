package domain

// Preferences is the persisted build-environment record a user edits from the settings
// surface. The chat persona reads it too.
type Preferences struct {
	JavaHome             string            `json:"javaHome"`
	GradleHome           string            `json:"gradleHome"`
	GradleVersion        string            `json:"gradleVersion"`
	JavaVersion          string            `json:"javaVersion"`
	JVMOptions           string            `json:"jvmOptions"`
	RemoteRepo           string            `json:"remoteRepo,omitempty"`
	EnvironmentVariables map[string]string `json:"environmentVariables"`
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	out := p
	if p.EnvironmentVariables != nil {
		out.EnvironmentVariables = make(map[string]string, len(p.EnvironmentVariables))
		for k, v := range p.EnvironmentVariables {
			out.EnvironmentVariables[k] = v
		}
	}
	return out
}
