package sheldon

import (
	"strings"
	"text/template"
)

// newStrictTemplate returns a *template.Template configured so that
// referencing an undefined key in the data map is a hard render-time
// error rather than silently expanding to the empty string. This is the
// strict-mode invariant testable property 9 requires, both for
// template-in-glob (select.go) and for script rendering below.
func newStrictTemplate(name string) *template.Template {
	return template.New(name).Option("missingkey=error")
}

// renderTemplateString compiles and immediately renders a one-off
// template string (used for `uses`/`matches` glob patterns, which are
// rendered once each rather than registered by name).
func renderTemplateString(text string, data map[string]string) (string, error) {
	tmpl, err := newStrictTemplate("pattern").Parse(text)
	if err != nil {
		return "", wrap(KindTemplateCompileFailed, err, "failed to compile template `%s`", text)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", wrap(KindTemplateRenderFailed, err, "failed to render template `%s`", text)
	}
	return buf.String(), nil
}

// compileTemplates parses every named template in order into the strict
// engine, failing on the first that does not compile (spec.md §4.7 step 1).
func compileTemplates(templates *OrderedTemplates) (map[string]*template.Template, error) {
	compiled := make(map[string]*template.Template, templates.Len())
	for _, name := range templates.Names() {
		tmpl, _ := templates.Get(name)
		t, err := newStrictTemplate(name).Parse(tmpl.Value)
		if err != nil {
			return nil, wrap(KindTemplateCompileFailed, err, "failed to compile template `%s`", name)
		}
		compiled[name] = t
	}
	return compiled, nil
}

// renderScript walks locked in manifest order and concatenates template
// expansions into the final shell script (spec.md §4.7). Rendering is a
// pure function of locked; it performs no filesystem or network access.
func renderScript(locked *LockedConfig) (string, error) {
	compiled, err := compileTemplates(locked.Templates)
	if err != nil {
		return "", err
	}

	var script strings.Builder
	for _, plugin := range locked.Plugins {
		base := templateContext(locked.Settings.Root, plugin.Name, plugin.Directory)

		for _, name := range plugin.Apply {
			tmpl, ok := compiled[name]
			if !ok {
				return "", wrap(KindTemplateRenderFailed, nil, "plugin `%s` applies unknown template `%s`", plugin.Name, name)
			}
			def, _ := locked.Templates.Get(name)

			if def.Each {
				for _, filename := range plugin.Filenames {
					data := templateContext(locked.Settings.Root, plugin.Name, plugin.Directory)
					data["filename"] = filename
					if err := renderInto(&script, tmpl, name, data); err != nil {
						return "", err
					}
				}
			} else {
				if err := renderInto(&script, tmpl, name, base); err != nil {
					return "", err
				}
			}
		}
	}
	return script.String(), nil
}

func renderInto(script *strings.Builder, tmpl *template.Template, name string, data map[string]string) error {
	if err := tmpl.Execute(script, data); err != nil {
		return wrap(KindTemplateRenderFailed, err, "failed to render template `%s`", name)
	}
	script.WriteByte('\n')
	return nil
}
