package commands

import (
	"fmt"

	"TerminalEcho/internal/game"
)

var Stats = Define(Definition{
	Name:         "STATS",
	Usage:        "STATS",
	Description:  "show your character sheet",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	snap := ctx.Player.Stats()
	send := func(format string, args ...any) {
		ctx.Session.Send(game.TagList, fmt.Sprintf(format, args...))
	}
	if snap.Title != "" {
		send("%s, %s", snap.Name, snap.Title)
	} else {
		send("%s", snap.Name)
	}
	send("level %d, exp %d/%d", snap.Level, snap.Exp, snap.Level*100)
	send("hp %d/%d, ep %d/%d", snap.HP, snap.MaxHP, snap.EP, snap.MaxEP)
	send("money %d", snap.Money)
	send("str %d agi %d int %d cha %d", snap.Stats.Str, snap.Stats.Agi, snap.Stats.Int, snap.Stats.Cha)
	return false
})
