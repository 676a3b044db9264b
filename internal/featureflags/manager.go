// Package featureflags turns the FEATURE_FLAGS setting into per-member switches.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// LiveFeed gates the websocket activity feed.
const LiveFeed = "live_feed"

type mode int

const (
	modeOff mode = iota
	modeOn
	modeRollout
)

// flag is one parsed FEATURE_FLAGS entry.
type flag struct {
	setting string
	mode    mode
	percent int
}

// Manager answers whether a flag is on for a forum member. FEATURE_FLAGS
// holds comma-separated name=setting pairs; a setting is on, off or a share
// of members such as "live_feed=10%". Unparseable settings count as off.
type Manager struct {
	flags map[string]flag
}

// NewManager parses a FEATURE_FLAGS value. Entries without a name or a
// setting are skipped.
func NewManager(setting string) *Manager {
	flags := make(map[string]flag)
	for _, entry := range strings.Split(setting, ",") {
		name, value, ok := strings.Cut(entry, "=")
		name, value = normalize(name), normalize(value)
		if !ok || name == "" || value == "" {
			continue
		}
		flags[name] = parseFlag(value)
	}
	return &Manager{flags: flags}
}

func parseFlag(value string) flag {
	f := flag{setting: value}
	switch value {
	case "on", "true", "1":
		f.mode = modeOn
	case "off", "false", "0":
	default:
		share, isShare := strings.CutSuffix(value, "%")
		pct, err := strconv.Atoi(share)
		switch {
		case !isShare || err != nil || pct <= 0:
		case pct >= 100:
			f.mode = modeOn
		default:
			f.mode, f.percent = modeRollout, pct
		}
	}
	return f
}

// Enabled reports whether name is on for the member with userID.
// Partial rollouts never include anonymous readers (empty userID).
func (m *Manager) Enabled(name, userID string) bool {
	if m == nil {
		return false
	}
	f, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}
	switch f.mode {
	case modeOn:
		return true
	case modeRollout:
		return userID != "" && bucket(name, userID) < f.percent
	default:
		return false
	}
}

// Raw returns each flag's setting as configured.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string)
	if m == nil {
		return out
	}
	for name, f := range m.flags {
		out[name] = f.setting
	}
	return out
}

// Snapshot evaluates every configured flag for one caller.
func (m *Manager) Snapshot(userID string) map[string]bool {
	out := make(map[string]bool)
	if m == nil {
		return out
	}
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket places a member in 0..99 for one flag. A member keeps its bucket
// across restarts, so a growing rollout only ever adds members.
func bucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + "/" + userID))
	return int(h.Sum32() % 100)
}
