package commands

import (
	"fmt"
	"time"

	"TerminalEcho/internal/game"
)

var Attack = Define(Definition{
	Name:         "ATTACK",
	Usage:        "ATTACK <monster>",
	Description:  "strike a hostile creature in the room",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	if !ctx.Server.AttackLimiter().Allow(ctx.Player.Name, time.Now()) {
		ctx.Err("you are still recovering from your last swing")
		return false
	}
	monster, ok := findMonster(ctx, ctx.Args[0])
	if !ok {
		ctx.Err("there is no %s here to fight", ctx.Args[0])
		return false
	}

	resolveStrike(ctx, monster, ctx.Player.AttackPower(ctx.Server.World()))
	return false
})

// resolveStrike applies player damage, then the monster's reply when it
// survives. Encounters are per player; two players fight their own copy of
// the same monster.
func resolveStrike(ctx *Context, monster *game.NPCDef, damage int) {
	ctx.Player.Engage(monster)
	remaining, defeated := ctx.Player.WoundTarget(monster.ID, damage)

	router := ctx.Server.Router()
	room := ctx.Server.Registry().RoomOf(ctx.Player)

	if defeated {
		ctx.Player.RecordQuestEvent(ctx.Server.World(), "kill", monster.ID)
		ctx.Player.AddMoney(monster.Money)
		levels := ctx.Player.GainExp(monster.Exp)
		ctx.OK("you defeat %s (+%d exp, +%d money)", monster.Name, monster.Exp, monster.Money)
		if levels > 0 {
			ctx.Session.Send(game.TagSys, "you feel stronger")
		}
		router.AnnounceRoom(room, ctx.Player.Name+" defeats "+monster.Name+".", ctx.Player)
		return
	}

	ctx.OK("you hit %s for %d, it has %d hp left", monster.Name, damage, remaining)
	if monster.Damage > 0 {
		taken := ctx.Player.TakeDamage(monster.Damage)
		if taken > 0 {
			ctx.Session.Send(game.TagSeen, fmt.Sprintf("%s strikes back, you lose %d hp", monster.Name, taken))
		}
	}
}
