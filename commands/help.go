package commands

import (
	"fmt"

	"TerminalEcho/internal/game"
)

var Help = Define(Definition{
	Name:        "HELP",
	Usage:       "HELP [command]",
	Description: "list commands, or explain one",
}, func(ctx *Context) bool {
	if len(ctx.Args) == 1 {
		cmd, ok := Find(ctx.Args[0])
		if !ok {
			ctx.Err("no such command %s", ctx.Args[0])
			return false
		}
		ctx.Session.Send(game.TagList, fmt.Sprintf("%s: %s", cmd.Usage, cmd.Description))
		return false
	}
	for _, cmd := range All() {
		ctx.Session.Send(game.TagList, fmt.Sprintf("%-10s %s", cmd.Name, cmd.Description))
	}
	return false
})
