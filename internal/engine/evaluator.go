package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/tartampluch/go-tzconv/internal/config"
)

// FileEvaluator reads a template from disk on every call.
//
// Files use Go template syntax ({{.originalDate}}, {{.convertedTimes}}).
// Files ending in .vm are treated as legacy Velocity templates: only the
// $name and ${name} references are substituted.
type FileEvaluator struct{}

func (FileEvaluator) Evaluate(path string, values map[string]string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &TemplateError{Path: path, Err: fmt.Errorf("%s: %w", config.ErrTemplateRead, err)}
	}

	if strings.EqualFold(filepath.Ext(path), config.ExtVelocity) {
		return substituteVelocity(string(data), values), nil
	}

	tpl, err := template.New(filepath.Base(path)).
		Option(config.TemplateMissingKeyOption).
		Parse(string(data))
	if err != nil {
		return "", &TemplateError{Path: path, Err: fmt.Errorf("%s: %w", config.ErrTemplateParse, err)}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, values); err != nil {
		return "", &TemplateError{Path: path, Err: fmt.Errorf("%s: %w", config.ErrTemplateExec, err)}
	}
	return buf.String(), nil
}

var velocityRef = regexp.MustCompile(config.TemplateVelocityPattern)

// substituteVelocity replaces every reference naming a known value. Unknown
// references stay in the output as written, as Velocity does.
func substituteVelocity(text string, values map[string]string) string {
	return velocityRef.ReplaceAllStringFunc(text, func(ref string) string {
		m := velocityRef.FindStringSubmatch(ref)
		if v, ok := values[m[1]+m[2]]; ok {
			return v
		}
		return ref
	})
}
