package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/aria/internal/dto"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// TokenPlaceholder is replaced with the unknown token in Script.Unrecognized.
const TokenPlaceholder = "{token}"

// Script is a decoded, validated console definition.
type Script struct {
	Name         string
	Description  string
	Prompt       string
	Unrecognized string
	Pace         time.Duration
	Banner       []domain.Line
	Registry     *registry.Registry
}

// UnrecognizedText renders the unknown-command line for token.
// It returns "" when the script does not override the default.
func (s *Script) UnrecognizedText(token string) string {
	return strings.ReplaceAll(s.Unrecognized, TokenPlaceholder, token)
}

// Load reads a script file. JSON is selected by the ".json" extension, YAML otherwise.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a script. ext is a file extension (".json", ".yaml", ".yml"); anything
// other than ".json" is read as YAML.
func Parse(data []byte, ext string) (*Script, error) {
	raw := map[string]any{}
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse script json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse script yaml: %w", err)
		}
	}
	return Decode(raw)
}

// Decode builds a Script from an already parsed document.
func Decode(raw map[string]any) (*Script, error) {
	var doc dto.Script
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToLineHook,
			millisecondsHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScript, err)
	}
	return fromDTO(doc)
}

var (
	lineType     = reflect.TypeOf(dto.Line{})
	stepType     = reflect.TypeOf(dto.Step{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// stringToLineHook lets lines and steps be written as bare strings.
func stringToLineHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	if to == lineType || to == stepType {
		return map[string]any{"text": data}, nil
	}
	return data, nil
}

// millisecondsHook reads bare numbers ("40" or 40) as milliseconds. Everything else
// is left to mapstructure's duration parsing.
func millisecondsHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		ms, err := strconv.ParseInt(strings.TrimSpace(data.(string)), 10, 64)
		if err != nil {
			return data, nil
		}
		return time.Duration(ms) * time.Millisecond, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Millisecond, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(reflect.ValueOf(data).Uint()) * time.Millisecond, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(reflect.ValueOf(data).Float() * float64(time.Millisecond)), nil
	}
	return data, nil
}

func delayOr(d *time.Duration, fallback time.Duration) time.Duration {
	if d == nil {
		return fallback
	}
	return *d
}

func fromDTO(doc dto.Script) (*Script, error) {
	s := &Script{
		Name:         doc.Name,
		Description:  doc.Description,
		Prompt:       doc.Prompt,
		Unrecognized: doc.Unrecognized,
	}

	s.Pace = delayOr(doc.Pace, 0)
	if s.Pace < 0 {
		return nil, fmt.Errorf("%w: pace %s", domain.ErrNegativeDelay, s.Pace)
	}

	var err error
	if s.Banner, err = convertLines(doc.Banner); err != nil {
		return nil, fmt.Errorf("%w: banner: %v", domain.ErrInvalidScript, err)
	}

	b := registry.NewBuilder()
	for _, c := range doc.Commands {
		lines, err := convertLines(c.Lines)
		if err != nil {
			return nil, fmt.Errorf("%w: command %q: %v", domain.ErrInvalidScript, c.Token, err)
		}
		b.Immediate(c.Token, c.Description, lines...)
		for _, alias := range c.Aliases {
			b.Alias(alias, c.Token)
		}
	}
	for _, p := range doc.Pipelines {
		pipeline, err := convertPipeline(p)
		if err != nil {
			return nil, err
		}
		b.Pipeline(pipeline, p.Description)
		for _, alias := range p.Aliases {
			b.Alias(alias, p.Name)
		}
	}
	if doc.Help != nil {
		header, err := convertLines(doc.Help.Header)
		if err != nil {
			return nil, fmt.Errorf("%w: help: %v", domain.ErrInvalidScript, err)
		}
		token := doc.Help.Token
		if token == "" {
			token = "help"
		}
		b.Help(token, doc.Help.Description, header...)
	}

	reg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", doc.Name, err)
	}
	s.Registry = reg
	return s, nil
}

func convertPipeline(p dto.Pipeline) (domain.Pipeline, error) {
	fail := func(where string, err error) (domain.Pipeline, error) {
		return domain.Pipeline{}, fmt.Errorf("%w: pipeline %q %s: %v", domain.ErrInvalidScript, p.Name, where, err)
	}

	fallback := delayOr(p.Delay, 0)
	out := domain.Pipeline{Name: p.Name}
	var err error
	if out.Preamble, err = convertLines(p.Preamble); err != nil {
		return fail("preamble", err)
	}
	for i, st := range p.Steps {
		step, err := convertStep(st, fallback)
		if err != nil {
			return fail(fmt.Sprintf("step %d", i+1), err)
		}
		out.Steps = append(out.Steps, step)
	}
	for i, st := range p.Summary {
		step, err := convertStep(st, fallback)
		if err != nil {
			return fail(fmt.Sprintf("summary line %d", i+1), err)
		}
		out.Summary = append(out.Summary, step)
	}
	if err := out.Validate(); err != nil {
		return domain.Pipeline{}, err
	}
	return out, nil
}

func convertStep(st dto.Step, fallback time.Duration) (domain.Step, error) {
	line, err := convertLine(dto.Line{Text: st.Text, Tag: st.Tag})
	if err != nil {
		return domain.Step{}, err
	}
	return domain.Step{Line: line, Delay: delayOr(st.Delay, fallback)}, nil
}

func convertLines(in []dto.Line) ([]domain.Line, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]domain.Line, 0, len(in))
	for i, l := range in {
		line, err := convertLine(l)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, line)
	}
	return out, nil
}

func convertLine(l dto.Line) (domain.Line, error) {
	tag := domain.Tag(strings.ToLower(strings.TrimSpace(l.Tag)))
	if tag == "" {
		tag = domain.TagPlain
	}
	if !tag.Valid() {
		return domain.Line{}, fmt.Errorf("unknown tag %q", l.Tag)
	}
	return domain.Tagged(l.Text, tag), nil
}
