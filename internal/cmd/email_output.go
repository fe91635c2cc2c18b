package cmd

import (
	"fmt"

	"github.com/klappstuhl/stalmail/internal/format"
	"github.com/klappstuhl/stalmail/internal/jmap"
)

// EmailOutput is a flattened representation of Email for agent-friendly JSON output.
// It includes computed fields like fromEmail and isUnread that are easier to parse.
type EmailOutput struct {
	ID            string              `json:"id"`
	Subject       string              `json:"subject"`
	From          []jmap.EmailAddress `json:"from,omitempty"`
	FromEmail     string              `json:"fromEmail,omitempty"`
	FromName      string              `json:"fromName,omitempty"`
	To            []jmap.EmailAddress `json:"to,omitempty"`
	ToEmail       string              `json:"toEmail,omitempty"`
	CC            []jmap.EmailAddress `json:"cc,omitempty"`
	ReceivedAt    string              `json:"receivedAt"`
	Preview       string              `json:"preview,omitempty"`
	HasAttachment bool                `json:"hasAttachment"`
	IsUnread      bool                `json:"isUnread"`
	ThreadID      string              `json:"threadId,omitempty"`
	MailboxIDs    map[string]bool     `json:"mailboxIds,omitempty"`
	Keywords      map[string]bool     `json:"keywords,omitempty"`
}

// emailToOutput converts an Email to a flattened EmailOutput for JSON serialization.
func emailToOutput(e jmap.Email) EmailOutput {
	out := EmailOutput{
		ID:            e.ID,
		Subject:       e.Subject,
		From:          e.From,
		To:            e.To,
		CC:            e.CC,
		ReceivedAt:    e.ReceivedAt,
		Preview:       e.Preview,
		HasAttachment: e.HasAttachment,
		ThreadID:      e.ThreadID,
		MailboxIDs:    e.MailboxIDs,
		Keywords:      e.Keywords,
	}
	if len(e.From) > 0 {
		out.FromEmail = e.From[0].Email
		out.FromName = e.From[0].Name
	}
	if len(e.To) > 0 {
		out.ToEmail = e.To[0].Email
	}
	out.IsUnread = !e.IsRead()
	return out
}

// emailsToOutput converts a slice of emails to flattened output format.
func emailsToOutput(emails []jmap.Email) []EmailOutput {
	out := make([]EmailOutput, len(emails))
	for i, e := range emails {
		out[i] = emailToOutput(e)
	}
	return out
}

func printEmailList(emails []jmap.Email) {
	tw := newTabWriter()
	fmt.Fprintln(tw, "ID\tSUBJECT\tFROM\tDATE\tUNREAD")
	for _, email := range emails {
		from := format.FormatEmailAddressList(email.From)
		date := format.FormatEmailDate(email.ReceivedAt)
		unread := ""
		if !email.IsRead() {
			unread = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			email.ID,
			sanitizeTab(format.Truncate(email.Subject, 50)),
			sanitizeTab(format.Truncate(from, 30)),
			date,
			unread,
		)
	}
	tw.Flush()
}

func printEmailDetails(email *jmap.Email) {
	fmt.Printf("ID:        %s\n", email.ID)
	fmt.Printf("Subject:   %s\n", email.Subject)
	fmt.Printf("From:      %s\n", format.FormatEmailAddressList(email.From))
	fmt.Printf("To:        %s\n", format.FormatEmailAddressList(email.To))
	if len(email.CC) > 0 {
		fmt.Printf("CC:        %s\n", format.FormatEmailAddressList(email.CC))
	}
	fmt.Printf("Date:      %s\n", email.ReceivedAt)
	fmt.Printf("Thread ID: %s\n", email.ThreadID)
	fmt.Printf("Attachments: %d\n", len(email.Attachments))
	fmt.Println()

	if len(email.TextBody) > 0 && len(email.BodyValues) > 0 {
		for _, part := range email.TextBody {
			if body, ok := email.BodyValues[part.PartID]; ok {
				fmt.Println(body.Value)
			}
		}
	} else if email.Preview != "" {
		fmt.Println(email.Preview)
	}
}
