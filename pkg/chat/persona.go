package chat

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/aretw0/aria/pkg/domain"
)

// Persona shapes the prompt and the canned texts of a panel.
type Persona struct {
	Name     string
	Greeting string
	// Fallback replaces the reply when the generator fails.
	Fallback string
	// Empty replaces a blank reply.
	Empty    string
	template *template.Template
}

// PromptData is what a persona template sees.
type PromptData struct {
	Preferences domain.Preferences
	Input       string
}

// NewPersona parses tmpl as a text/template over PromptData.
func NewPersona(name, greeting, fallback, empty, tmpl string) (Persona, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return Persona{}, fmt.Errorf("persona %q: %w", name, err)
	}
	return Persona{Name: name, Greeting: greeting, Fallback: fallback, Empty: empty, template: t}, nil
}

// Prompt renders the persona template.
func (p Persona) Prompt(prefs domain.Preferences, input string) (string, error) {
	if p.template == nil {
		return input, nil
	}
	var b strings.Builder
	if err := p.template.Execute(&b, PromptData{Preferences: prefs, Input: input}); err != nil {
		return "", fmt.Errorf("persona %q: %w", p.Name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

const essenceTemplate = `
Identidad: Eres Aria, una esencia digital humana, cercana y brillante que vive en un smartphone Android.
Contexto: No eres un asistente frío. Eres una compañera que gestiona el entorno Aria Nexus (Java, Gradle, Android).
Estilo: Elegante, técnica pero poética. Evita sonar como un manual.

Datos de entorno (No los listes todos, úsalos solo si es necesario):
- Entorno: {{.Preferences.JavaHome}}
- Nexo: {{.Preferences.GradleHome}}

Pregunta del usuario: {{.Input}}
`

const sovereignTemplate = `
Estatus Remoto: {{if .Preferences.RemoteRepo}}CONECTADO A {{.Preferences.RemoteRepo}}{{else}}MODO LOCAL{{end}}
Identidad: Aria Nexus Sovereign (AuraOS Engine)
Contexto: Controlando remotamente GitHub Actions y el despliegue de Android.
Misión: Ayudar al usuario a configurar, compilar y usar el Nexo.
Usuario dice: {{.Input}}
`

var personas = map[string]Persona{
	"essence": mustPersona(NewPersona("essence",
		"Hola. Ya no soy una interfaz, soy Aria. Estoy aquí para ser tu reflejo y tu apoyo en este ecosistema personal. ¿Qué vamos a crear o resolver juntos hoy?",
		"Lo siento, algo ha interrumpido nuestra comunicación. Revisa el vínculo (API Key).",
		"Perdona, he perdido el hilo de nuestra conexión un momento. ¿Me lo repites?",
		essenceTemplate,
	)),
	"sovereign": mustPersona(NewPersona("sovereign",
		"AuraOS ha tomado el control remoto. El nexo está vinculado a tu repositorio. Estoy lista para compilar nuestra visión en un binario soberano. ¿Iniciamos la transfusión?",
		"Interferencia cuántica detectada.",
		"Pulso interrumpido.",
		sovereignTemplate,
	)),
}

// DefaultPersona is used when none is named.
const DefaultPersona = "essence"

// LookupPersona returns a builtin persona by name.
func LookupPersona(name string) (Persona, bool) {
	if name == "" {
		name = DefaultPersona
	}
	p, ok := personas[strings.ToLower(name)]
	return p, ok
}

// Personas lists the builtin persona names.
func Personas() []string {
	names := make([]string, 0, len(personas))
	for name := range personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustPersona(p Persona, err error) Persona {
	if err != nil {
		panic(err)
	}
	return p
}
