// Package goquery implements the structure classifier on top of goquery.
package goquery

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/modcat"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Classifier implements modcat.Classifier at compile time.
var _ modcat.Classifier = (*Classifier)(nil)

// DefaultHeadingLevel is the heading level that starts a category region.
const DefaultHeadingLevel = 2

// Default exclusion lists for headings that never name a category.
var (
	DefaultHeadingExclusions      = []string{"all the mods"}
	DefaultExactHeadingExclusions = []string{"contents", "share"}
)

// DefaultContentSelectors narrow the document to its main content.
// The first selector with a match wins; the whole document is the fallback.
var DefaultContentSelectors = []string{"article", ".entry-content", "main"}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// Classifier partitions a document into category regions and keeps the
// tables whose header row matches the configured markers.
type Classifier struct {
	heading          atom.Atom
	exclusions       []string
	exactExclusions  []string
	markers          modcat.TableMarkers
	contentSelectors []string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithHeadingLevel sets the heading level (1-6) that starts a region.
// Out of range levels are ignored.
func WithHeadingLevel(level int) Option {
	return func(c *Classifier) {
		if level >= 1 && level <= len(headingAtoms) {
			c.heading = headingAtoms[level-1]
		}
	}
}

// WithHeadingExclusions sets the case-insensitive substrings that mark a
// heading as a non-category.
func WithHeadingExclusions(markers ...string) Option {
	return func(c *Classifier) {
		c.exclusions = lowerAll(markers)
	}
}

// WithExactHeadingExclusions sets the case-insensitive heading texts that
// mark a heading as a non-category.
func WithExactHeadingExclusions(markers ...string) Option {
	return func(c *Classifier) {
		c.exactExclusions = lowerAll(markers)
	}
}

// WithTableMarkers sets the header markers a record table must carry.
func WithTableMarkers(m modcat.TableMarkers) Option {
	return func(c *Classifier) {
		c.markers = m
	}
}

// WithContentSelectors sets the selectors tried, in order, to find the
// main content element.
func WithContentSelectors(selectors ...string) Option {
	return func(c *Classifier) {
		c.contentSelectors = selectors
	}
}

// NewClassifier creates a new Classifier.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		heading:          headingAtoms[DefaultHeadingLevel-1],
		exclusions:       lowerAll(DefaultHeadingExclusions),
		exactExclusions:  lowerAll(DefaultExactHeadingExclusions),
		markers:          modcat.DefaultTableMarkers,
		contentSelectors: DefaultContentSelectors,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify parses html and returns one region per category heading.
//
// A region holds every sibling element after its heading up to the next
// heading of the same level. Excluded headings end the preceding region
// without starting one of their own, so their content is attributed to no
// category.
func (c *Classifier) Classify(rawHTML string) ([]modcat.Region, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, modcat.Errorf(modcat.EINVALID, "failed to parse HTML: %v", err)
	}

	var regions []modcat.Region
	c.content(doc).Find(c.heading.String()).Each(func(_ int, sel *goquery.Selection) {
		title := modcat.Normalize(sel.Text())
		if c.excluded(title) {
			return
		}

		region := modcat.Region{Heading: title}
		for n := range regionSiblings(sel.Get(0), c.heading) {
			region.Tables = append(region.Tables, c.tables(n)...)
		}
		regions = append(regions, region)
	})

	return regions, nil
}

// content returns the main content element of the document.
func (c *Classifier) content(doc *goquery.Document) *goquery.Selection {
	for _, selector := range c.contentSelectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Selection
}

// excluded reports whether a heading must not start a category region.
func (c *Classifier) excluded(title string) bool {
	if title == "" {
		return true
	}
	lower := strings.ToLower(title)
	for _, m := range c.exactExclusions {
		if lower == m {
			return true
		}
	}
	for _, m := range c.exclusions {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// tables returns the qualifying tables at or below n in document order.
func (c *Classifier) tables(n *html.Node) []modcat.Table {
	node := goquery.NewDocumentFromNode(n).Selection

	var tables []modcat.Table
	collect := func(_ int, t *goquery.Selection) {
		table := readTable(t)
		if c.markers.Match(table.Header) {
			tables = append(tables, table)
		}
	}
	node.Filter("table").Each(collect)
	node.Find("table").Each(collect)
	return tables
}

// regionSiblings yields the element siblings following heading until the
// next element with the same heading tag.
func regionSiblings(heading *html.Node, level atom.Atom) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for n := heading.NextSibling; n != nil; n = n.NextSibling {
			if n.Type != html.ElementNode {
				continue
			}
			if n.DataAtom == level {
				return
			}
			if !yield(n) {
				return
			}
		}
	}
}

// readTable reads the normalized cell text of a table. The header comes
// from the th/td cells of the first row; data rows keep td cells only.
func readTable(t *goquery.Selection) modcat.Table {
	var table modcat.Table

	rows := t.Find("tr")
	if rows.Length() == 0 {
		return table
	}

	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		table.Header = append(table.Header, modcat.Normalize(cell.Text()))
	})

	rows.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, modcat.Normalize(td.Text()))
		})
		table.Rows = append(table.Rows, cells)
	})

	return table
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(modcat.Normalize(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
