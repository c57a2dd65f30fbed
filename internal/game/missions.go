package game

import (
	"fmt"
	"time"
)

// MissionKind is what a mission asks of the pilot.
type MissionKind uint8

const (
	MissionDestroy MissionKind = iota
	MissionCollect
	MissionSurvive
	MissionNoDamage
)

func (k MissionKind) String() string {
	switch k {
	case MissionCollect:
		return "collect"
	case MissionSurvive:
		return "survive"
	case MissionNoDamage:
		return "noDamage"
	}
	return "destroy"
}

// missionBaseline is the world state a mission measures progress from.
type missionBaseline struct {
	at       time.Time
	kills    int
	powerUps int
	health   float64
}

// Mission is a short objective. Progress is derived from world deltas
// since the baseline and never goes backwards until completion.
type Mission struct {
	Kind      MissionKind
	Target    int
	Current   int
	Completed bool
	Rewarded  bool
	Reward    int

	baseline missionBaseline
}

// NewMission creates a mission whose baseline is the world's current state.
func NewMission(w *World, kind MissionKind, target int) *Mission {
	m := &Mission{Kind: kind, Target: target, Reward: 100 + target*20}
	m.baseline = missionBaseline{
		at:       w.clock.Now(),
		kills:    w.Kills,
		powerUps: w.PowerUpsCollected,
	}
	if w.Ship != nil {
		m.baseline.health = w.Ship.Health
	}
	return m
}

// Description is the objective as shown in the missions panel.
func (m *Mission) Description() string {
	switch m.Kind {
	case MissionCollect:
		return fmt.Sprintf("Collect %d power-ups", m.Target)
	case MissionSurvive:
		return fmt.Sprintf("Survive for %d seconds", m.Target)
	case MissionNoDamage:
		return "Complete mission without taking damage"
	}
	return fmt.Sprintf("Destroy %d enemy bots", m.Target)
}

// Progress is completion in percent, 0..100.
func (m *Mission) Progress() int {
	if m.Target <= 0 {
		return 100
	}
	return min(100, m.Current*100/m.Target)
}

func (m *Mission) update(w *World, now time.Time) {
	if m.Completed {
		return
	}
	var cur int
	switch m.Kind {
	case MissionDestroy:
		cur = max(0, w.Kills-m.baseline.kills)
	case MissionCollect:
		cur = max(0, w.PowerUpsCollected-m.baseline.powerUps)
	case MissionSurvive:
		cur = int(now.Sub(m.baseline.at) / time.Second)
	case MissionNoDamage:
		if w.Ship != nil && w.Ship.Health >= m.baseline.health {
			cur = 1
		}
	}
	m.Current = max(0, cur)
	if m.Current >= m.Target {
		m.Completed = true
	}
}

// generateMissions replaces the mission board with two fresh objectives.
func (w *World) generateMissions() {
	w.Missions = w.Missions[:0]
	for range 2 {
		switch w.rng.IntN(3) {
		case 0:
			w.Missions = append(w.Missions, NewMission(w, MissionDestroy, 3+w.rng.IntN(7)))
		case 1:
			w.Missions = append(w.Missions, NewMission(w, MissionCollect, 2+w.rng.IntN(4)))
		default:
			w.Missions = append(w.Missions, NewMission(w, MissionSurvive, 30+w.rng.IntN(90)))
		}
	}
}

// updateMissions recomputes progress, pays completed missions once and
// deals a new board when every mission is done.
func (w *World) updateMissions(now time.Time) {
	allDone := true
	for _, m := range w.Missions {
		m.update(w, now)
		if m.Completed && !m.Rewarded {
			m.Rewarded = true
			w.UpgradePoints += m.Reward
			w.sound.Play(SoundAchievement)
			w.logEvent("Mission complete: " + m.Description())
		}
		allDone = allDone && m.Completed
	}
	if allDone {
		w.generateMissions()
	}
}
