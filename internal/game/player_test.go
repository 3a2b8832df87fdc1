package game

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	for _, good := range []string{"al", "alice", "Alice_2", "a-b-c", strings.Repeat("x", 20)} {
		if err := ValidateName(good); err != nil {
			t.Errorf("ValidateName(%q): %v", good, err)
		}
	}
	for _, bad := range []string{"", "a", strings.Repeat("x", 21), "has space", "semi;colon", "naïve"} {
		if err := ValidateName(bad); err == nil {
			t.Errorf("ValidateName(%q) should fail", bad)
		}
	}
}

func TestGainExpLevelsUp(t *testing.T) {
	p := NewPlayer("alice", "dock")
	p.TakeDamage(50)

	levels := p.GainExp(100)
	if levels != 1 {
		t.Fatalf("levels = %d, want 1", levels)
	}
	snap := p.Stats()
	if snap.Level != 2 || snap.Exp != 0 {
		t.Fatalf("level/exp = %d/%d", snap.Level, snap.Exp)
	}
	if snap.MaxHP != 110 || snap.MaxEP != 105 {
		t.Fatalf("caps = %d/%d, want 110/105", snap.MaxHP, snap.MaxEP)
	}
	// level-up restores fully
	if snap.HP != snap.MaxHP || snap.EP != snap.MaxEP {
		t.Fatalf("hp/ep = %d/%d, want full", snap.HP, snap.EP)
	}
}

func TestGainExpMultipleLevels(t *testing.T) {
	p := NewPlayer("alice", "dock")
	// 100 for level 2, 200 for level 3, 40 spare
	if levels := p.GainExp(340); levels != 2 {
		t.Fatalf("levels = %d, want 2", levels)
	}
	snap := p.Stats()
	if snap.Level != 3 || snap.Exp != 40 {
		t.Fatalf("level/exp = %d/%d, want 3/40", snap.Level, snap.Exp)
	}
}

func TestInventoryRemoveDeletesAtZero(t *testing.T) {
	p := NewPlayer("alice", "dock")
	p.AddItem("bread", 2)
	if !p.RemoveItem("bread", 2) {
		t.Fatal("remove should succeed")
	}
	if p.RemoveItem("bread", 1) {
		t.Fatal("remove of absent item should fail")
	}
	if _, held := p.InventorySnapshot()["bread"]; held {
		t.Fatal("zero-count key should be deleted")
	}
}

func TestTakeDamageFloorsAtOne(t *testing.T) {
	p := NewPlayer("alice", "dock")
	p.TakeDamage(1000)
	if hp := p.Stats().HP; hp != 1 {
		t.Fatalf("hp = %d, want 1", hp)
	}
}

func TestRegen(t *testing.T) {
	p := NewPlayer("alice", "dock")
	p.TakeDamage(10)
	p.SpendEP(10)

	p.Regen(false)
	snap := p.Stats()
	if snap.EP != 91 {
		t.Fatalf("ep = %d, want 91", snap.EP)
	}
	if snap.HP != 90 {
		t.Fatalf("hp = %d, want 90 without the hp tick", snap.HP)
	}

	p.Regen(true)
	snap = p.Stats()
	if snap.HP != 91 || snap.EP != 92 {
		t.Fatalf("hp/ep = %d/%d, want 91/92", snap.HP, snap.EP)
	}
}

func TestQuestLifecycle(t *testing.T) {
	world := newTestWorld()
	world.AddNPCDef(&NPCDef{ID: "rat", Name: "rat", Hostile: true, HP: 10})
	quest := &QuestDef{
		ID:   "cull",
		Name: "Cull",
		Steps: []QuestStep{
			{Kind: "kill", Target: "rat", Count: 2},
			{Kind: "visit", Target: "market"},
		},
	}
	world.AddQuestDef(quest)

	p := NewPlayer("alice", "dock")
	p.AcceptQuest("cull")

	if err := p.CompleteQuest(world, quest); err == nil {
		t.Fatal("completion with no progress should fail")
	}

	p.RecordQuestEvent(world, "kill", "rat")
	p.RecordQuestEvent(world, "kill", "rat")
	p.RecordQuestEvent(world, "kill", "rat") // over-count is clamped
	p.RecordQuestEvent(world, "visit", "market")

	progress, _ := p.QuestState("cull")
	if progress.Counts["rat"] != 2 {
		t.Fatalf("rat count = %d, want 2 (clamped)", progress.Counts["rat"])
	}
	if err := p.CompleteQuest(world, quest); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := p.CompleteQuest(world, quest); err == nil {
		t.Fatal("double completion should fail")
	}
}

func TestCompleteQuestConsumesCollectedItems(t *testing.T) {
	world := newTestWorld()
	world.AddItemDef(&ItemDef{ID: "tape", Name: "tape", Type: "key"})
	quest := &QuestDef{
		ID:    "delivery",
		Name:  "Delivery",
		Steps: []QuestStep{{Kind: "collect", Target: "tape", Count: 1}},
	}
	world.AddQuestDef(quest)

	p := NewPlayer("alice", "dock")
	p.AcceptQuest("delivery")
	p.AddItem("tape", 1)

	if err := p.CompleteQuest(world, quest); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.HasItem("tape", 1) {
		t.Fatal("collected item should be consumed")
	}
}

func TestEquipSwapsPrevious(t *testing.T) {
	p := NewPlayer("alice", "dock")
	p.AddItem("cutlass", 1)
	p.AddItem("sabre", 1)

	p.RemoveItem("cutlass", 1)
	if prev := p.Equip("weapon", "cutlass"); prev != "" {
		t.Fatalf("previous = %q, want empty", prev)
	}
	p.RemoveItem("sabre", 1)
	if prev := p.Equip("weapon", "sabre"); prev != "cutlass" {
		t.Fatalf("previous = %q, want cutlass", prev)
	}
	if !p.HasItem("cutlass", 1) {
		t.Fatal("displaced weapon should return to the inventory")
	}
}

func TestCombatEncounter(t *testing.T) {
	rat := &NPCDef{ID: "rat", Name: "rat", Hostile: true, HP: 10}
	p := NewPlayer("alice", "dock")

	if remaining := p.Engage(rat); remaining != 10 {
		t.Fatalf("remaining = %d, want 10", remaining)
	}
	if remaining, defeated := p.WoundTarget("rat", 4); defeated || remaining != 6 {
		t.Fatalf("after first hit: %d, %v", remaining, defeated)
	}
	// engaging again must not reset the encounter
	if remaining := p.Engage(rat); remaining != 6 {
		t.Fatalf("re-engage remaining = %d, want 6", remaining)
	}
	if _, defeated := p.WoundTarget("rat", 6); !defeated {
		t.Fatal("rat should be defeated")
	}
	if _, fighting := p.InCombatWith(); fighting {
		t.Fatal("encounter should clear on defeat")
	}
}
