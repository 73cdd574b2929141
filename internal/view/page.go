package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/sozercan/palestine-timeline/apimodels"
	"github.com/sozercan/palestine-timeline/internal/prompt"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"dict": dict,
}).ParseFS(templateFS, "templates/index.html"))

// Page is everything the HTML page renders.
type Page struct {
	Labels    Labels
	Cities    []string
	Form      prompt.FormInput
	Narrative Panel
	Context   Panel
	Loading   Panel
	Analytics *apimodels.AnalyticsResponse

	// FormError is set when the submission itself was rejected.
	FormError string
}

// NewPage returns an empty page for lang with every panel idle.
func NewPage(lang prompt.Language) *Page {
	return &Page{
		Labels:    LabelsFor(lang),
		Cities:    prompt.Cities(lang),
		Form:      prompt.FormInput{Sex: prompt.Male, Year: 1948, Age: 30},
		Narrative: NewPanel("", nil, lang),
		Context:   NewContextPanel("", nil, lang),
		Loading:   LoadingPanel(lang),
	}
}

func (p *Page) Render(w io.Writer) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// dict builds a map from alternating keys and values so a template can pass
// several values to a nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
