package script

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/aria/pkg/domain"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultBuiltin is the script used when none is chosen.
const DefaultBuiltin = "prime"

const bootScript = "boot"

// Builtins lists the embedded console scripts, sorted. The boot sequence is not a console
// and is left out.
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if name == bootScript {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin decodes the embedded script called name.
func Builtin(name string) (*Script, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultBuiltin
	}
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScript, name)
	}
	return Parse(data, ".yaml")
}

// Boot returns the boot sequence played before an interactive console opens.
func Boot() (domain.Pipeline, error) {
	s, err := Builtin(bootScript)
	if err != nil {
		return domain.Pipeline{}, err
	}
	entry, _ := s.Registry.Resolve(bootScript)
	if entry.Pipeline == nil {
		return domain.Pipeline{}, fmt.Errorf("%w: boot script has no boot pipeline", domain.ErrInvalidScript)
	}
	return *entry.Pipeline, nil
}

// Resolve loads name as a builtin, or as a file path when it has an extension or a separator.
func Resolve(name string) (*Script, error) {
	if strings.ContainsAny(name, `/\`) || path.Ext(name) != "" {
		return Load(name)
	}
	return Builtin(name)
}
