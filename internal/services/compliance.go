package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Command is a recognised keyword in an inbound message.
type Command int

const (
	// CommandNone is any ordinary question.
	CommandNone Command = iota
	// CommandStop opts the subscriber out (STOP, UNSUBSCRIBE, CANCEL).
	CommandStop
	// CommandHelp requests the static help text (HELP, INFO).
	CommandHelp
)

var commands = map[string]Command{
	"stop":        CommandStop,
	"unsubscribe": CommandStop,
	"cancel":      CommandStop,
	"help":        CommandHelp,
	"info":        CommandHelp,
}

// ClassifyCommand matches the whole (trimmed) text case-insensitively against
// the compliance keywords. Keywords embedded in longer text do not match.
func ClassifyCommand(text string) Command {
	// A Caser is stateful, so each call gets its own.
	key := cases.Fold().String(strings.TrimSpace(text))
	if c, ok := commands[key]; ok {
		return c
	}
	return CommandNone
}

// Copy holds the operator-configured strings interpolated into canned replies.
type Copy struct {
	Brand        string
	PricingCopy  string
	SupportPhone string
	SupportEmail string
}

// Welcome is sent once, on a subscriber's first contact.
func (c Copy) Welcome() string {
	return fmt.Sprintf("%s: AI over SMS. Cost %s. Reply HELP for help, STOP to cancel. Support %s • %s",
		c.Brand, c.PricingCopy, c.SupportPhone, c.SupportEmail)
}

// Help answers HELP/INFO.
func (c Copy) Help() string {
	return fmt.Sprintf("%s answers questions by SMS. Cost %s. Reply STOP to cancel. Support %s • %s",
		c.Brand, c.PricingCopy, c.SupportPhone, c.SupportEmail)
}

// Unsubscribed confirms an opt-out. It is the last message the subscriber receives.
func (c Copy) Unsubscribed() string {
	return "You’re unsubscribed. No further messages. HELP for info."
}

// LimitReached tells a subscriber the rate limit was hit.
func (c Copy) LimitReached() string {
	return fmt.Sprintf("%s: You’ve hit today’s limit. Try again later.", c.Brand)
}
