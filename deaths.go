package main

// processNightDeaths applies the night in a fixed order: the wolf kill first, then the
// poison. When the wolf kill alone decides the game the poison is never applied.
func (g *Game) processNightDeaths(kill, poison *Player) {
	var deaths []*Player

	if kill != nil && kill.IsAlive {
		g.kill(kill, CauseWolfKill)
		deaths = append(deaths, kill)

		if g.checkGameOver() {
			g.recordNightDeaths(deaths)
			return
		}
	}

	if poison != nil && poison.IsAlive {
		g.kill(poison, CausePoison)
		if poison.Role.Type == RoleHunter {
			poison.Role.DisableShoot()
		}
		deaths = append(deaths, poison)
	}

	g.recordNightDeaths(deaths)
}

// recordNightDeaths snapshots the night's deaths. Only deaths of the first night earn
// last words.
func (g *Game) recordNightDeaths(deaths []*Player) {
	g.State.LastNightDeaths = deaths
	g.State.LastNightFirstDeath = nil
	if len(deaths) > 0 {
		g.State.LastNightFirstDeath = deaths[0]
	}

	if g.State.night() == 0 {
		g.State.LastWordsQueue = append(g.State.LastWordsQueue, deaths...)
	}
	DebugLog("recordNightDeaths", "night %d: %d death(s), first %v", g.State.night(), len(deaths), seatIDs(deaths))
}
