package commands

import (
	"fmt"
	"sort"
	"strings"

	"TerminalEcho/internal/game"
)

var Who = Define(Definition{
	Name:         "WHO",
	Usage:        "WHO",
	Description:  "list everyone online",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	players := ctx.Server.Registry().All(nil)
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	ctx.Session.Send(game.TagList, fmt.Sprintf("%d online: %s", len(names), strings.Join(names, ", ")))
	return false
})
