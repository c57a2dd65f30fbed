package game

import (
	"strings"
	"time"
)

const (
	journalSize     = 40
	journalThrottle = 120 * time.Millisecond
	journalWidth    = 55 // comms panel columns
)

// Journal is the bounded in-game event log, newest entry first.
type Journal struct {
	Entries []string

	lastPush time.Time
}

// Add stamps text with the clock time and pushes it to the front. Entries
// arriving within the throttle window of the previous one are dropped.
func (j *Journal) Add(now time.Time, text string) bool {
	if !j.lastPush.IsZero() && now.Sub(j.lastPush) < journalThrottle {
		return false
	}
	j.lastPush = now
	entry := "[" + now.Format("15:04") + "] " + text
	j.Entries = append([]string{entry}, j.Entries...)
	if len(j.Entries) > journalSize {
		j.Entries = j.Entries[:journalSize]
	}
	return true
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(n int) []string {
	return j.Entries[:min(n, len(j.Entries))]
}

// Lines wraps the newest n entries for a panel of the given width.
func (j *Journal) Lines(n, width int) []string {
	if width <= 0 {
		width = journalWidth
	}
	var out []string
	for _, e := range j.Recent(n) {
		out = append(out, wrapText(e, width)...)
	}
	return out
}

// logEvent records a notable moment in the journal.
func (w *World) logEvent(text string) {
	w.Journal.Add(w.clock.Now(), text)
}

// wrapText splits text into lines no longer than maxWidth.
func wrapText(s string, maxWidth int) []string {
	if len(s) <= maxWidth {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var result []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			result = append(result, line)
			line = w
		} else {
			line += " " + w
		}
	}
	return append(result, line)
}
