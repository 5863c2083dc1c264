package listener

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"lotconv/internal"
	"lotconv/internal/applog"
	"lotconv/internal/config"
	"lotconv/internal/connectors"
	gmailconnector "lotconv/internal/connectors/gmail"
	imapconnector "lotconv/internal/connectors/imap"
	"lotconv/internal/mapping"
	"lotconv/internal/pipeline"
	"lotconv/internal/storage"
)

// Service polls the merchant mailbox for forwarded order exports and runs
// each xlsx attachment through the conversion pipeline, writing both output
// workbooks under OUTPUT_DIR/<mail-id>/.
type Service struct {
	db      *storage.DB
	cfg     config.Config
	cache   *mapping.Cache
	convSvc *pipeline.ConversionService
}

func NewService(db *storage.DB, cfg config.Config, cache *mapping.Cache) *Service {
	return &Service{
		db:      db,
		cfg:     cfg,
		cache:   cache,
		convSvc: pipeline.NewConversionService(db),
	}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			s.log().WithError(err).Error("listener cycle failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processed, err := s.processPending(ctx, provider)
	if err != nil {
		return err
	}

	s.log().WithFields(log.Fields{
		"provider":  provider,
		"fetched":   fetchResult.Fetched,
		"stored":    fetchResult.Stored,
		"processed": processed,
	}).Info("listener cycle done")
	_ = s.db.SetMetadata("listener.last_cycle", time.Now().UTC().Format(time.RFC3339))
	return nil
}

func (s *Service) processPending(ctx context.Context, provider string) (int, error) {
	pending, err := s.db.ListMailsByStatus("fetched", s.cfg.MailListenerBatch)
	if err != nil {
		return 0, err
	}

	keys, err := s.cache.Keys(ctx)
	if err != nil {
		// Degrade to whatever the cache still holds; every row then lands
		// in the transform partition.
		s.log().WithError(err).Warn("mapping fetch failed, continuing with cached or empty mapping")
	}

	processed := 0
	for _, mail := range pending {
		if provider != "" && mail.Provider != provider {
			continue
		}
		if err := s.processMail(mail, keys); err != nil {
			s.log().WithError(err).WithField("mailId", mail.ID).Error("mail conversion failed")
			_ = s.db.UpdateMailStatus(mail.ID, "failed")
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *Service) processMail(mail internal.MailRow, keys map[string]struct{}) error {
	raw, err := os.ReadFile(mail.RawRef)
	if err != nil {
		return err
	}

	attachments, err := connectors.ExtractXLSXAttachments(raw)
	if err != nil {
		return err
	}
	if len(attachments) == 0 {
		return s.db.UpdateMailStatus(mail.ID, "skipped")
	}

	outDir := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("mail-%d", mail.ID))
	for _, att := range attachments {
		result, err := s.convSvc.Convert(att.Content, keys, "mail", att.Filename)
		if err != nil {
			return fmt.Errorf("convert %s: %w", att.Filename, err)
		}
		if err := pipeline.SaveBlob(result.Passthrough, filepath.Join(outDir, pipeline.PassthroughFilename)); err != nil {
			return err
		}
		if err := pipeline.SaveBlob(result.Fulfillment, filepath.Join(outDir, pipeline.FulfillmentFilename)); err != nil {
			return err
		}
	}

	return s.db.UpdateMailStatus(mail.ID, "processed")
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}

func (s *Service) log() *log.Entry {
	return applog.WithComponent("listener")
}
