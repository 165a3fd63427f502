// Package icons picks a glyph for a running command.
package icons

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Default is used when nothing in the table resembles the command.
const Default = "▶"

var table = map[string]string{
	"vim":       "✎",
	"nvim":      "✎",
	"vi":        "✎",
	"emacs":     "✎",
	"nano":      "✎",
	"helix":     "✎",
	"hx":        "✎",
	"micro":     "✎",
	"less":      "☰",
	"man":       "☰",
	"python":    "λ",
	"node":      "λ",
	"ruby":      "λ",
	"irb":       "λ",
	"ghci":      "λ",
	"go":        "λ",
	"cargo":     "⚒",
	"make":      "⚒",
	"top":       "⚙",
	"htop":      "⚙",
	"btop":      "⚙",
	"watch":     "⟳",
	"lazygit":   "⎇",
	"git":       "⎇",
	"tig":       "⎇",
	"ssh":       "☁",
	"mosh":      "☁",
	"psql":      "⛁",
	"mysql":     "⛁",
	"sqlite3":   "⛁",
	"redis-cli": "⛁",
	"docker":    "⛴",
	"k9s":       "⛴",
	"kubectl":   "⛴",
	"cmus":      "♪",
	"ncmpcpp":   "♪",
	"weechat":   "✉",
	"mutt":      "✉",
	"neomutt":   "✉",
	"tail":      "⇣",
}

var names = func() []string {
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}()

// For returns the glyph for command. Exact names win; otherwise the closest
// fuzzy match in either direction is used, so "python3" finds "python" and
// "nvi" finds "nvim".
func For(command string) string {
	name := strings.ToLower(filepath.Base(strings.TrimSpace(command)))
	if name == "" || name == "." {
		return Default
	}
	if glyph, ok := table[name]; ok {
		return glyph
	}
	if ranks := fuzzy.RankFindNormalizedFold(name, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return table[ranks[0].Target]
	}
	best := ""
	for _, candidate := range names {
		if len(candidate) < 2 || !strings.HasPrefix(name, candidate[:1]) {
			continue
		}
		if fuzzy.MatchNormalizedFold(candidate, name) && len(candidate) > len(best) {
			best = candidate
		}
	}
	if best != "" {
		return table[best]
	}
	return Default
}
