package email

import (
	"fmt"
	"html"
)

// MemberAddedRequest builds the notification sent to a user after an
// administrator links them into a club, team, group, or coaching group.
// PRE: recipient is a valid email address, entityName and entityLabel are
// non-empty
// POST: Returns a SendRequest ready for a Sender; all user-supplied values
// are HTML escaped
func MemberAddedRequest(recipient, memberName, entityName, entityLabel string) SendRequest {
	safeMember := html.EscapeString(memberName)
	safeEntity := html.EscapeString(entityName)
	safeLabel := html.EscapeString(entityLabel)

	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You have been added to the %s <strong>%s</strong> on Movesbook.</p>
<p>Log in to your dashboard to see your new membership.</p>`,
		safeMember, safeLabel, safeEntity,
	)

	return SendRequest{
		To:      []string{recipient},
		Subject: fmt.Sprintf("You were added to %s", entityName),
		HTML:    body,
	}
}
