package slack

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdSuggest       CommandType = "suggest"
	CmdReview        CommandType = "review"
	CmdForceQuestion CommandType = "forcequestion"
	CmdHelp          CommandType = "help"
)

// Command is a parsed `/qotd` invocation. Args keeps the text after the
// subcommand with its inner spacing intact.
type Command struct {
	Type CommandType
	Args string
	Raw  string
}

func ParseCommand(text string) (*Command, error) {
	trimmed := strings.TrimSpace(text)
	parts := strings.Fields(trimmed)
	if len(parts) == 0 {
		return &Command{Type: CmdHelp, Raw: text}, nil
	}

	cmd := &Command{
		Raw:  text,
		Args: strings.TrimSpace(strings.TrimPrefix(trimmed, parts[0])),
	}

	switch strings.ToLower(parts[0]) {
	case "suggest", "submit":
		cmd.Type = CmdSuggest
	case "review":
		cmd.Type = CmdReview
	case "forcequestion", "force":
		cmd.Type = CmdForceQuestion
	case "help":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

func GetHelpText() string {
	return `*Available Commands:*

*Everyone:*
• ` + "`/qotd suggest <question>`" + ` - Submit a suggestion for a future Question of the Day

*Administrators:*
• ` + "`/qotd review`" + ` - Begin reviewing submissions, oldest first
• ` + "`/qotd forcequestion`" + ` - Post the Question of the Day now`
}
