// Package prompt renders prompt templates against a variable context. The
// template dialect is pongo2 (Django/Jinja-style). Templates that do not
// themselves reference the schema or user-input variables get standard
// sections appended automatically, so callers can supply free-form prompts
// without knowing the pipeline's variable names.
package prompt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// Variable names with pipeline-level meaning.
const (
	// VarUserInput carries the caller's free-form input text.
	VarUserInput = "user_input"
	// VarResponseModelJSON carries the rendered output schema.
	VarResponseModelJSON = "response_model_json"
	// VarExamples optionally carries few-shot examples for the default
	// template.
	VarExamples = "examples"
)

func init() {
	// Prompts are plain text, never HTML.
	pongo2.SetAutoescape(false)
}

// Prompt holds a template and its statically discovered variable sets. All
// fields are computed at construction; a Prompt is immutable and safe for
// concurrent Render calls.
type Prompt struct {
	text string

	// outputVars are variables emitted via {{ ... }}; they must be supplied
	// at render time unless a control tag guards them.
	outputVars map[string]struct{}
	// controlVars are variables referenced by {% if %} / {% for %} tags;
	// missing values mean falsy, mirroring an "is defined" guard.
	controlVars map[string]struct{}
	// localVars are loop variables declared by {% for %} tags; they are
	// tag-local and never render inputs.
	localVars map[string]struct{}

	tpl           *pongo2.Template
	tplWithSchema *pongo2.Template
}

// New compiles a Prompt. An empty text selects the built-in default
// template. The variable sets and both template variants (with and without
// the appended schema section) are computed eagerly so later renders never
// mutate the Prompt.
func New(text string) (*Prompt, error) {
	if text == "" {
		text = defaultTemplate
	}

	controlVars, localVars := scanControlVariables(text)
	p := &Prompt{
		text:        text,
		outputVars:  scanOutputVariables(text),
		controlVars: controlVars,
		localVars:   localVars,
	}

	var err error
	if p.tpl, err = pongo2.FromString(text); err != nil {
		return nil, fmt.Errorf("prompt: parsing template: %w", err)
	}

	if !p.References(VarResponseModelJSON) {
		withSchema := text + "\n" + responseModelSection + "\n"
		if p.tplWithSchema, err = pongo2.FromString(withSchema); err != nil {
			return nil, fmt.Errorf("prompt: parsing template with schema section: %w", err)
		}
	}

	return p, nil
}

// Text returns the original template text.
func (p *Prompt) Text() string {
	return p.text
}

// Variables returns the sorted names referenced anywhere in the original
// template. Appended sections are not part of this set.
func (p *Prompt) Variables() []string {
	names := make([]string, 0, len(p.outputVars)+len(p.controlVars))
	seen := map[string]struct{}{}
	for name := range p.outputVars {
		if _, local := p.localVars[name]; local {
			continue
		}
		names = append(names, name)
		seen[name] = struct{}{}
	}
	for name := range p.controlVars {
		if _, dup := seen[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// References reports whether the original template mentions the variable.
func (p *Prompt) References(name string) bool {
	if _, ok := p.outputVars[name]; ok {
		return true
	}
	_, ok := p.controlVars[name]
	return ok
}

// Render substitutes values into the template. Referenced-but-unsupplied
// output variables are an error, never silent empty text. When the values
// bind the schema variable and the template does not reference it, the
// standard schema section is appended; when they bind the user input and the
// template does not reference it, the raw input text is appended as a
// trailing line. Rendering the same template and values twice is
// byte-identical.
func (p *Prompt) Render(values map[string]any) (string, error) {
	if missing := p.missingVariables(values); len(missing) > 0 {
		return "", fmt.Errorf("prompt: missing variables: %s", strings.Join(missing, ", "))
	}

	tpl := p.tpl
	if _, bound := values[VarResponseModelJSON]; bound && p.tplWithSchema != nil {
		tpl = p.tplWithSchema
	}

	context := make(pongo2.Context, len(values))
	for key, value := range values {
		context[key] = value
	}

	out, err := tpl.Execute(context)
	if err != nil {
		return "", fmt.Errorf("prompt: rendering template: %w", err)
	}

	if userInput, bound := values[VarUserInput]; bound && !p.References(VarUserInput) {
		out += fmt.Sprintf("\n%v\n", userInput)
	}

	return out, nil
}

// missingVariables returns the sorted output variables absent from values.
// Control-guarded variables are exempt: a template can test them before use.
func (p *Prompt) missingVariables(values map[string]any) []string {
	var missing []string
	for name := range p.outputVars {
		if _, supplied := values[name]; supplied {
			continue
		}
		if _, guarded := p.controlVars[name]; guarded {
			continue
		}
		if _, local := p.localVars[name]; local {
			continue
		}
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

var (
	outputVarPattern  = regexp.MustCompile(`\{\{-?\s*([A-Za-z_][A-Za-z0-9_]*)`)
	controlTagPattern = regexp.MustCompile(`\{%-?\s*(if|elif|for)\s+(.*?)-?%\}`)
	identPattern      = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	quotedPattern     = regexp.MustCompile(`"[^"]*"|'[^']*'`)
)

// templateKeywords are identifiers inside tag expressions that are not
// variables.
var templateKeywords = map[string]struct{}{
	"and": {}, "or": {}, "not": {}, "in": {}, "is": {},
	"true": {}, "false": {}, "True": {}, "False": {},
	"none": {}, "None": {}, "defined": {},
}

func scanOutputVariables(text string) map[string]struct{} {
	vars := map[string]struct{}{}
	for _, match := range outputVarPattern.FindAllStringSubmatch(text, -1) {
		vars[match[1]] = struct{}{}
	}
	return vars
}

func scanControlVariables(text string) (vars, locals map[string]struct{}) {
	vars = map[string]struct{}{}
	locals = map[string]struct{}{}
	for _, match := range controlTagPattern.FindAllStringSubmatch(text, -1) {
		tag, expr := match[1], match[2]

		if tag == "for" {
			// Only the iterable counts; loop variables are tag-local.
			loopVars, iterable, found := strings.Cut(expr, " in ")
			if !found {
				continue
			}
			for _, ident := range identPattern.FindAllString(loopVars, -1) {
				locals[ident] = struct{}{}
			}
			if ident := identPattern.FindString(iterable); ident != "" {
				vars[ident] = struct{}{}
			}
			continue
		}

		// Strip string literals, then collect identifiers that are not
		// expression keywords.
		expr = quotedPattern.ReplaceAllString(expr, "")
		for _, ident := range identPattern.FindAllString(expr, -1) {
			if _, keyword := templateKeywords[ident]; keyword {
				continue
			}
			vars[ident] = struct{}{}
		}
	}
	return vars, locals
}
