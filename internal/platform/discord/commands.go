package discord

import "github.com/bwmarrin/discordgo"

const (
	cmdSuggest       = "suggest"
	cmdReview        = "review"
	cmdForceQuestion = "forcequestion"

	optionPrompt = "prompt"
)

var SuggestCommand = &discordgo.ApplicationCommand{
	Name:        cmdSuggest,
	Description: "Submit suggestions for future QoTD!",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionPrompt,
			Description: "The question you would like to see",
			Required:    true,
		},
	},
}

var ReviewCommand = &discordgo.ApplicationCommand{
	Name:        cmdReview,
	Description: "Begin reviewing QoTD submissions.",
}

var ForceQuestionCommand = &discordgo.ApplicationCommand{
	Name:        cmdForceQuestion,
	Description: "Post QoTD manually",
}

// AllCommands contains all of the commands
var AllCommands = []*discordgo.ApplicationCommand{
	SuggestCommand,
	ReviewCommand,
	ForceQuestionCommand,
}
