package connectors

import "lotconv/internal"

// MailConnector fetches unread messages from the merchant mailbox that
// receives forwarded ERP order exports.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
