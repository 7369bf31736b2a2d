package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/modcat"
)

// Ensure LoggingClassifier implements modcat.Classifier.
var _ modcat.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier with debug logging.
type LoggingClassifier struct {
	next   modcat.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next modcat.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs region and table counts.
func (c *LoggingClassifier) Classify(html string) (regions []modcat.Region, err error) {
	defer func(begin time.Time) {
		tables := 0
		for _, r := range regions {
			tables += len(r.Tables)
		}
		c.logger.Info("classify",
			"regions", len(regions),
			"tables", tables,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Classify(html)
}
