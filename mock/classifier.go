package mock

import "github.com/fwojciec/modcat"

var _ modcat.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of modcat.Classifier.
type Classifier struct {
	ClassifyFn func(html string) ([]modcat.Region, error)
}

func (c *Classifier) Classify(html string) ([]modcat.Region, error) {
	return c.ClassifyFn(html)
}
