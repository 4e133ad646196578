package page

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"os"

	"github.com/ssherwood/clinicmap/internal/mapview"
)

//go:embed templates/index.html
var defaultTemplate string

type ViewData struct {
	Title         string
	BrowserAPIKey string
	State         *mapview.Snapshot
}

// Page is the host page template the map is mounted into.
type Page struct {
	tmpl *template.Template
}

// Load parses the template at path, or the embedded page when path is empty.
func Load(path string) (*Page, error) {
	source := defaultTemplate
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		source = string(b)
	}
	return Parse(source)
}

func Parse(source string) (*Page, error) {
	tmpl, err := template.New("page").Parse(source)
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl}, nil
}

func (p *Page) Render(w io.Writer, data ViewData) error {
	return p.tmpl.Execute(w, data)
}

// Document renders the page without map state and parses it, giving the DOM
// the initializer looks the container up in.
func (p *Page) Document() (*Document, error) {
	var buf bytes.Buffer
	if err := p.Render(&buf, ViewData{}); err != nil {
		return nil, err
	}
	return ParseDocumentBytes(buf.Bytes())
}
