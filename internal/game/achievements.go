package game

import (
	"fmt"
	"time"
)

type achievementBaseline struct {
	kills int
	score int
}

// Achievement is a one-time milestone with an upgrade point reward.
type Achievement struct {
	ID       string
	Name     string
	Desc     string
	Reward   int
	Unlocked bool

	check    func(w *World, base achievementBaseline) bool
	baseline achievementBaseline
}

func achievementList() []*Achievement {
	return []*Achievement{
		{ID: "first_landing", Name: "First Steps", Desc: "Land on your first planet", Reward: 50,
			check: func(w *World, _ achievementBaseline) bool { return w.Ship.Landed }},
		{ID: "hundred_kills", Name: "Century", Desc: "Defeat 100 enemies", Reward: 200,
			check: func(w *World, b achievementBaseline) bool { return w.Kills-b.kills >= 100 }},
		{ID: "no_damage", Name: "Untouchable", Desc: "Complete a mission with no damage", Reward: 150,
			check: func(w *World, _ achievementBaseline) bool { return w.Ship.Health >= w.Ship.MaxHealth }},
		{ID: "maxed_shields", Name: "Full Shield", Desc: "Reach max shield capacity", Reward: 125,
			check: func(w *World, _ achievementBaseline) bool { return w.Ship.Shield >= w.Ship.MaxShield }},
		{ID: "thousand_score", Name: "Legendary", Desc: "Earn 1000 score", Reward: 250,
			check: func(w *World, b achievementBaseline) bool { return w.Score-b.score >= 1000 }},
		{ID: "artifact_hunter", Name: "Relic Hunter", Desc: "Recover 3 rare artifacts", Reward: 320,
			check: func(w *World, _ achievementBaseline) bool { return w.ArtifactsCollected >= 3 }},
	}
}

// newAchievements builds the achievement set with baselines at the
// world's current kills and score so a restored session does not unlock
// everything at once.
func newAchievements(w *World) []*Achievement {
	list := achievementList()
	for _, a := range list {
		a.baseline = achievementBaseline{kills: w.Kills, score: w.Score}
	}
	return list
}

func (w *World) updateAchievements() {
	for _, a := range w.Achievements {
		if a.Unlocked || !a.check(w, a.baseline) {
			continue
		}
		a.Unlocked = true
		w.UpgradePoints += a.Reward
		w.notify.AchievementUnlocked(a)
		w.sound.Play(SoundAchievement)
		w.notify.FloatingText(fmt.Sprintf("+%d Upgrade Points", a.Reward), 1800*time.Millisecond)
		w.logEvent("Achievement unlocked: " + a.Name)
	}
}

// convertScore grants a small upgrade point bonus while score outpaces
// the points already earned.
func (w *World) convertScore() {
	if w.Score/500 > w.UpgradePoints/50 {
		w.UpgradePoints += 25
	}
}
