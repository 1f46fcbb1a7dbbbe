package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/crosti/buyerform/model"
	"github.com/crosti/buyerform/pkg/logger"
)

// SubmissionConfig selects the sender, destination and pipeline variant.
type SubmissionConfig struct {
	From              string
	To                string
	IncludeAttachment bool
}

// SubmissionService turns a buyer profile into one notification email.
type SubmissionService struct {
	notifier Notifier
	cfg      SubmissionConfig
	markdown goldmark.Markdown
}

func NewSubmissionService(notifier Notifier, cfg SubmissionConfig) *SubmissionService {
	return &SubmissionService{
		notifier: notifier,
		cfg:      cfg,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Subject is the email subject line for a profile.
func Subject(p *model.BuyerProfile) string {
	return fmt.Sprintf("New Buyer Profile: %s - %s", p.Name, p.FirstBusinessType())
}

// AttachmentFilename names the workbook attached to the email.
func AttachmentFilename(p *model.BuyerProfile) string {
	return fmt.Sprintf("%s - %s - %s - Buyer Form.xlsx", p.Name, p.FirstBusinessType(), p.Budget)
}

// Submit validates, formats, optionally encodes and sends. Nothing is kept
// once it returns.
func (s *SubmissionService) Submit(ctx context.Context, p *model.BuyerProfile) error {
	if s.cfg.From == "" || s.cfg.To == "" {
		return ErrNoRecipient
	}

	if missing := model.MissingFields(p, model.RequiredFields()); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredFieldsBlank, strings.Join(missing, ", "))
	}

	record := Format(p)
	body := s.body(p, record)

	msg := Message{
		From:    s.cfg.From,
		To:      s.cfg.To,
		Subject: Subject(p),
		Body:    body,
	}

	var html strings.Builder
	if err := s.markdown.Convert([]byte(body), &html); err != nil {
		logger.Warn(ctx, "failed to render html body, sending plain text only", "error", err)
	} else {
		msg.HTML = html.String()
	}

	if s.cfg.IncludeAttachment {
		data, err := EncodeProfile(record)
		if err != nil {
			return err
		}
		msg.Attachment = &Attachment{
			Filename:    AttachmentFilename(p),
			ContentType: XLSXContentType,
			Data:        data,
		}
	}

	if err := s.notifier.Send(ctx, msg); err != nil {
		return err
	}

	logger.Info(ctx, "buyer profile sent",
		"subject", msg.Subject,
		"attachment", msg.Attachment != nil,
	)
	return nil
}

// body is plain text that also reads as markdown.
func (s *SubmissionService) body(p *model.BuyerProfile, record model.ExportRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New buyer profile submitted by %s\n\n", p.Name)
	b.WriteString("Contact Details:\n\n")
	fmt.Fprintf(&b, "- Email: %s\n", p.Email)
	fmt.Fprintf(&b, "- Phone: %s\n\n", p.Mobile)
	fmt.Fprintf(&b, "Business Type: %s\n\n", p.FirstBusinessType())
	fmt.Fprintf(&b, "Budget: %s\n\n", p.Budget)

	if s.cfg.IncludeAttachment {
		b.WriteString("Please find the detailed profile in the attached Excel file.\n")
		return b.String()
	}

	b.WriteString("Full Profile:\n\n")
	for _, f := range record {
		value := strings.ReplaceAll(f.Value, "\n", ", ")
		fmt.Fprintf(&b, "- %s: %s\n", f.Label, value)
	}
	return b.String()
}
