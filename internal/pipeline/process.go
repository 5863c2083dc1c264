package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"lotconv/internal"
	"lotconv/internal/applog"
	"lotconv/internal/storage"
)

// ConversionService runs the full upload-to-download pipeline: parse,
// deal-code rewrite, classify, transform, serialize. A run row is recorded
// when a database is attached; recording failures never fail the conversion.
type ConversionService struct {
	db *storage.DB
}

func NewConversionService(db *storage.DB) *ConversionService {
	return &ConversionService{db: db}
}

// ConversionResult holds both output workbooks of one converted upload.
type ConversionResult struct {
	Matched     []internal.OrderRow
	Converted   []internal.FulfillmentRow
	Filtered    int
	Deal        DealStats
	Passthrough []byte
	Fulfillment []byte
}

// Convert processes one uploaded workbook against the current mapping key
// set. source tags the run origin ("web", "cli", "mail") for the run history.
func (s *ConversionService) Convert(blob []byte, keys map[string]struct{}, source, inputName string) (*ConversionResult, error) {
	start := time.Now()

	parsed, err := ParseOrderXLSX(blob)
	if err != nil {
		return nil, err
	}

	deal := ApplyDealCodes(parsed.Rows)
	matched, unmatched := Classify(parsed.Rows, keys)
	converted := Transform(unmatched, time.Now())

	passthrough, err := WritePassthroughXLSX(parsed.Headers, matched)
	if err != nil {
		return nil, err
	}
	fulfillment, err := WriteFulfillmentXLSX(converted)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := s.db.InsertConversionRun(source, inputName, len(matched), len(converted), parsed.Filtered); err != nil {
			s.log().WithError(err).Warn("failed to record conversion run")
		}
	}

	entry := s.log().WithFields(log.Fields{
		"source":    source,
		"input":     inputName,
		"matched":   len(matched),
		"converted": len(converted),
		"filtered":  parsed.Filtered,
		"tookMs":    time.Since(start).Milliseconds(),
	})
	if deal.Fallbacks > 0 {
		entry = entry.WithField("dealFallbacks", deal.Fallbacks)
		entry.Warn("conversion done with unrecognized deal flavors coded as the first table entry")
	} else {
		entry.Info("conversion done")
	}

	return &ConversionResult{
		Matched:     matched,
		Converted:   converted,
		Filtered:    parsed.Filtered,
		Deal:        deal,
		Passthrough: passthrough,
		Fulfillment: fulfillment,
	}, nil
}

func (s *ConversionService) log() *log.Entry {
	return applog.WithComponent("pipeline.convert")
}
