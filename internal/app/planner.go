package app

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"picren/internal/config"
	"picren/internal/domain"
)

// Planner expands the naming pattern for every entry and flags target
// collisions. Plan is pure: it never touches storage, never fails, and
// encodes all anomalies as entry statuses.
type Planner struct{}

var numToken = regexp.MustCompile(`\{num(?::(\d+))?\}`)

// Plan maps the scanned entries to planned entries in the same order.
// The sequence value for the entry at position i is always
// cfg.StartNumber+i, independent of conflict outcomes.
func (Planner) Plan(entries []domain.Entry, cfg config.RenameConfig) domain.RenamePlan {
	seen := make(map[string]struct{}, len(entries))
	planned := make([]domain.PlannedEntry, 0, len(entries))

	for i, entry := range entries {
		name := cfg.Prefix + expandPattern(cfg.Pattern, entry, cfg.StartNumber+i) + cfg.Suffix
		p := domain.PlannedEntry{
			Entry:   entry,
			NewName: name,
			Status:  domain.StatusPending,
		}

		key := p.TargetKey()
		if _, dup := seen[key]; dup && !cfg.Overwrite {
			p.Status = domain.StatusError
			p.ErrorMessage = fmt.Sprintf("target name %q is already taken in this batch", p.TargetName())
		}
		// Insert even on conflict so later duplicates of the same key
		// are flagged too.
		seen[key] = struct{}{}

		planned = append(planned, p)
	}

	return domain.RenamePlan{Entries: planned}
}

func expandPattern(pattern string, entry domain.Entry, seq int) string {
	out := strings.ReplaceAll(pattern, "{name}", entry.OriginalName)
	out = strings.ReplaceAll(out, "{date}", entry.LastModified.UTC().Format("2006-01-02"))

	if strings.Contains(out, "{exif}") {
		captured := entry.TakenAt
		if captured.IsZero() {
			captured = entry.LastModified
		}
		out = strings.ReplaceAll(out, "{exif}", captured.UTC().Format("2006-01-02"))
	}

	return numToken.ReplaceAllStringFunc(out, func(match string) string {
		sub := numToken.FindStringSubmatch(match)
		if sub[1] == "" {
			return strconv.Itoa(seq)
		}
		// {num:003} pads to the token's digit count.
		return fmt.Sprintf("%0*d", len(sub[1]), seq)
	})
}
