package commands

import (
	"TerminalEcho/internal/game"
)

type questView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Desc      string         `json:"desc"`
	Accepted  bool           `json:"accepted"`
	Completed bool           `json:"completed,omitempty"`
	Tracked   bool           `json:"tracked,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// Quests lists the quest log with no argument, or accepts a quest by id.
var Quests = Define(Definition{
	Name:         "QUESTS",
	Usage:        "QUESTS [quest]",
	Description:  "review the quest log, or accept a quest",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	world := ctx.Server.World()

	if len(ctx.Args) == 1 {
		id := ctx.Args[0]
		quest, ok := world.Quest(id)
		if !ok {
			ctx.Err("no such quest %s", id)
			return false
		}
		if progress, accepted := ctx.Player.QuestState(id); accepted {
			if progress.Completed && !quest.Repeatable {
				ctx.Err("you already finished %s", quest.Name)
				return false
			}
			ctx.Err("you already accepted %s", quest.Name)
			return false
		}
		ctx.Player.AcceptQuest(id)
		ctx.OK("accepted quest: %s", quest.Name)
		return false
	}

	if len(ctx.Args) > 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}

	for _, id := range world.QuestIDs() {
		quest, _ := world.Quest(id)
		view := questView{ID: quest.ID, Name: quest.Name, Desc: quest.Desc}
		if progress, ok := ctx.Player.QuestState(id); ok {
			view.Accepted = true
			view.Completed = progress.Completed
			view.Tracked = progress.Tracked
			view.Counts = progress.Counts
		}
		ctx.Session.SendJSON(game.TagQuest, view)
	}
	return false
})

var Track = Define(Definition{
	Name:         "TRACK",
	Usage:        "TRACK <quest>",
	Description:  "mark a quest as your focus",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	id := ctx.Args[0]
	quest, ok := ctx.Server.World().Quest(id)
	if !ok {
		ctx.Err("no such quest %s", id)
		return false
	}
	if _, accepted := ctx.Player.QuestState(id); !accepted {
		ctx.Err("accept %s before tracking it", quest.Name)
		return false
	}
	ctx.Player.SetTracked(id)
	ctx.OK("tracking %s", quest.Name)
	return false
})

var TurnIn = Define(Definition{
	Name:         "TURNIN",
	Usage:        "TURNIN <quest>",
	Description:  "complete a quest and collect the reward",
	RequiresAuth: true,
}, func(ctx *Context) bool {
	if len(ctx.Args) != 1 {
		ctx.Err("usage: %s", ctx.Command.Usage)
		return false
	}
	world := ctx.Server.World()
	quest, ok := world.Quest(ctx.Args[0])
	if !ok {
		ctx.Err("no such quest %s", ctx.Args[0])
		return false
	}
	if err := ctx.Player.CompleteQuest(world, quest); err != nil {
		ctx.Err("%v", err)
		return false
	}

	reward := quest.Reward
	ctx.Player.AddMoney(reward.Money)
	for id, count := range reward.Items {
		ctx.Player.AddItem(id, count)
	}
	levels := ctx.Player.GainExp(reward.Exp)

	ctx.OK("quest complete: %s (+%d exp, +%d money)", quest.Name, reward.Exp, reward.Money)
	if levels > 0 {
		ctx.Session.Send(game.TagSys, "you feel stronger")
		ctx.Server.Router().AnnounceRoom(ctx.Server.Registry().RoomOf(ctx.Player),
			ctx.Player.Name+" glows with newfound strength.", ctx.Player)
	}
	return false
})
