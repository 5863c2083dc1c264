package connectors

import (
	"bytes"
	"strings"

	"github.com/jhillyerd/enmime"
)

// Attachment is one spreadsheet file lifted from a mail message.
type Attachment struct {
	Filename string
	Content  []byte
}

// EnvelopeMeta carries the header fields the mail store persists.
type EnvelopeMeta struct {
	Subject string
	From    string
}

// ReadEnvelopeMeta parses the MIME envelope for subject and sender.
func ReadEnvelopeMeta(raw []byte) (EnvelopeMeta, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return EnvelopeMeta{}, err
	}
	return EnvelopeMeta{
		Subject: env.GetHeader("Subject"),
		From:    env.GetHeader("From"),
	}, nil
}

// ExtractXLSXAttachments returns the spreadsheet attachments of a raw mail
// message. Other attachment types are ignored; the order workflow only ever
// forwards xlsx exports.
func ExtractXLSXAttachments(raw []byte) ([]Attachment, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	out := make([]Attachment, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		lower := strings.ToLower(filename)
		if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
			continue
		}
		if filename == "" {
			filename = "attachment.xlsx"
		}
		out = append(out, Attachment{Filename: filename, Content: att.Content})
	}
	return out, nil
}
