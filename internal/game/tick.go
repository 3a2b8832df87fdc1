package game

import (
	"context"
	"time"
)

// runTicker drives the world clock: energy regenerates every tick, health on
// a slower period, players are saved on the configured interval and boundary
// events fire when the wall clock crosses an hour or a day.
func (s *Server) runTicker(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	var sinceHP, sinceSave, sinceSweep time.Duration

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)

			sinceHP += elapsed
			healHP := sinceHP >= s.cfg.RegenPeriod
			if healHP {
				sinceHP = 0
			}
			for _, p := range s.registry.All(nil) {
				p.Regen(healHP)
			}

			sinceSave += elapsed
			if sinceSave >= s.cfg.SaveInterval {
				sinceSave = 0
				s.SaveAll()
				s.log.Debug("periodic save complete", "players", s.registry.Count())
			}

			sinceSweep += elapsed
			if sinceSweep >= time.Minute {
				sinceSweep = 0
				s.chatLimit.Sweep(now)
				s.fightLimit.Sweep(now)
				s.skillLimit.Sweep(now)
			}

			s.fireBoundaryEvents(last, now)
			last = now
		}
	}
}

// fireBoundaryEvents announces hourly and daily transitions. Events fire when
// a tick straddles the boundary, so a slow tick never drops one.
func (s *Server) fireBoundaryEvents(prev, now time.Time) {
	if prev.Truncate(time.Hour).Before(now.Truncate(time.Hour)) {
		s.router.Announce("the lighthouse horn sounds across the harbour")
	}
	prevDay := prev.Truncate(24 * time.Hour)
	nowDay := now.Truncate(24 * time.Hour)
	if prevDay.Before(nowDay) {
		s.router.Announce("a new day dawns over the docks")
	}
}
