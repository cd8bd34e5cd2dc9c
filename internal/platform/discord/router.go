package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

type interactionHandler func(s session, i *discordgo.InteractionCreate)

// router dispatches interactions by command name or by the custom-id prefix before ':'
type router struct {
	commands   map[string]interactionHandler
	components map[string]interactionHandler
}

func newRouter() *router {
	return &router{
		commands:   make(map[string]interactionHandler),
		components: make(map[string]interactionHandler),
	}
}

func (r *router) addCommand(name string, h interactionHandler) {
	r.commands[name] = h
}

func (r *router) addComponent(customID string, h interactionHandler) {
	r.components[customID] = h
}

// dispatch reports whether a handler was found
func (r *router) dispatch(s session, i *discordgo.InteractionCreate) bool {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := r.commands[i.ApplicationCommandData().Name]; ok {
			h(s, i)
			return true
		}
	case discordgo.InteractionMessageComponent:
		key, _, _ := strings.Cut(i.MessageComponentData().CustomID, ":")
		if h, ok := r.components[key]; ok {
			h(s, i)
			return true
		}
	}
	return false
}
