package modcat

// Region is the content between one category heading and the next heading
// of the same level, reduced to the record tables it contains.
type Region struct {
	// Heading is the normalized heading text, used as the category.
	Heading string

	// Tables holds the qualifying tables of the region in discovery order.
	// A region without qualifying tables is skipped by the ingester.
	Tables []Table
}

// Candidates extracts the candidates of every table in the region, pooled
// in table order, and deduplicates them by name.
func (r Region) Candidates(sourceURL string) []Candidate {
	var pooled []Candidate
	for _, t := range r.Tables {
		pooled = append(pooled, ExtractCandidates(t, r.Heading, sourceURL)...)
	}
	return DedupCandidates(pooled)
}

// Classifier partitions an HTML document into category regions.
type Classifier interface {
	// Classify parses html and returns one region per retained heading in
	// document order. Returns EINVALID if the document cannot be parsed.
	Classify(html string) ([]Region, error)
}
