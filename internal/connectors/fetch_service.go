package connectors

import (
	"strings"

	"lotconv/internal/storage"
	"lotconv/internal/util"
)

type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
}

type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
	}
}

// FetchAndStore pulls unread messages and persists them for the listener to
// convert. Messages missing header metadata get it filled from the raw MIME
// envelope before storing.
func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	stored := 0
	for _, msg := range messages {
		if strings.TrimSpace(msg.Subject) == "" || strings.TrimSpace(msg.From) == "" {
			if meta, err := ReadEnvelopeMeta(msg.Raw); err == nil {
				msg.Subject = util.FirstNonEmpty(msg.Subject, meta.Subject)
				msg.From = util.FirstNonEmpty(msg.From, meta.From)
			}
		}
		if _, err := s.store.Store(msg); err != nil {
			return FetchResult{}, err
		}
		stored++
	}

	return FetchResult{Fetched: len(messages), Stored: stored}, nil
}
