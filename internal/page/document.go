package page

import (
	"bytes"
	"io"
	"strings"

	"github.com/ssherwood/clinicmap/internal/mapinit"
	"golang.org/x/net/html"
)

// Document is a parsed host page.
type Document struct {
	root *html.Node
	ids  map[string]*html.Node
}

func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{root: root, ids: map[string]*html.Node{}}
	doc.index(root)
	return doc, nil
}

func ParseDocumentBytes(b []byte) (*Document, error) {
	return ParseDocument(bytes.NewReader(b))
}

// the first element carrying an id wins, as with getElementById
func (d *Document) index(n *html.Node) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "id" {
				if _, seen := d.ids[attr.Val]; !seen {
					d.ids[attr.Val] = n
				}
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

func (d *Document) ElementByID(id string) (mapinit.Element, bool) {
	n, ok := d.ids[id]
	if !ok {
		return mapinit.Element{}, false
	}
	return mapinit.Element{ID: id, Tag: strings.ToLower(n.Data)}, true
}

func (d *Document) Title() string {
	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(d.root)
	return title
}
