// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package provider

import (
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

// aliases maps raw service names (exact, case-sensitive) to canonical labels.
var aliases = map[string]string{
	"Amazon Prime Video":          "Prime Video",
	"Amazon Prime Video with Ads": "Prime Video",
	"Amazon Video":                "Prime Video",
	"Prime Video":                 "Prime Video",
	"Netflix":                     "Netflix",
	"Netflix basic with Ads":      "Netflix",
	"Netflix Standard with Ads":   "Netflix",
	"Netflix Kids":                "Netflix",
	"Crunchyroll":                 "Crunchyroll",
	"Crunchyroll Amazon Channel":  "Crunchyroll",
	"Crunchyroll Premium":         "Crunchyroll",
	"Disney Plus":                 "Disney+",
	"Disney+":                     "Disney+",
	"Star Plus":                   "Star+",
	"Star+":                       "Star+",
	"Hulu":                        "Hulu",
	"HBO Max":                     "Max",
	"HBO Max Amazon Channel":      "Max",
	"Max":                         "Max",
	"Max Amazon Channel":          "Max",
	"Apple TV":                    "Apple TV+",
	"Apple TV Plus":               "Apple TV+",
	"Apple TV+":                   "Apple TV+",
	"Paramount Plus":              "Paramount+",
	"Paramount+":                  "Paramount+",
	"Paramount+ Amazon Channel":   "Paramount+",
	"ViX":                         "ViX",
	"Vix Premium":                 "ViX",
	"ViX Premium":                 "ViX",
}

// Normalizer canonicalizes provider names. It is safe for concurrent use.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer builds a normalizer over the static table plus extra "raw → canonical" pairs.
// Extras override static entries with the same key. Chains are resolved once so
// every entry points at a name that maps to itself.
func NewNormalizer(extra map[string]string) *Normalizer {
	table := maps.Clone(aliases)
	for raw, canonical := range extra {
		raw, canonical = strings.TrimSpace(raw), strings.TrimSpace(canonical)
		if raw != "" && canonical != "" {
			table[raw] = canonical
		}
	}
	return &Normalizer{aliases: resolveChains(table)}
}

// resolveChains maps every key to the end of its alias chain. A cycle
// (A → B → C → A) collapses onto its lexically smallest member.
func resolveChains(table map[string]string) map[string]string {
	resolved := make(map[string]string, len(table))

	for raw := range table {
		path := []string{raw}
		position := map[string]int{raw: 0}
		name := raw

		for {
			next, ok := table[name]
			if !ok || next == name {
				resolved[raw] = name
				break
			}
			if start, looped := position[next]; looped {
				resolved[raw] = slices.Min(path[start:])
				break
			}
			position[next] = len(path)
			path = append(path, next)
			name = next
		}
	}
	return resolved
}

/*
Normalize maps each name through the alias table, drops blanks, removes
duplicates and sorts the result with Spanish collation.

Description: Applying Normalize to its own output returns the same list.
The result is never nil.
*/
func (normalizer *Normalizer) Normalize(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, normalizer.canonical(name))
	}

	names = lo.Uniq(names)

	// Collators keep internal buffers and are not safe to share.
	collator := collate.New(language.Spanish, collate.Loose)
	slices.SortStableFunc(names, collator.CompareString)

	return names
}

// Flatten concatenates every monetization mode of a region and normalizes it.
func (normalizer *Normalizer) Flatten(region *tmdb.RegionProviders) []string {
	if region == nil {
		return []string{}
	}

	var raw []string
	for _, group := range [][]tmdb.Provider{region.Flatrate, region.Buy, region.Rent, region.Free, region.Ads} {
		for _, entry := range group {
			raw = append(raw, entry.Name)
		}
	}
	return normalizer.Normalize(raw)
}

// Merge combines two partial lists into one normalized list.
func (normalizer *Normalizer) Merge(primary, extras []string) []string {
	combined := make([]string, 0, len(primary)+len(extras))
	combined = append(combined, primary...)
	combined = append(combined, extras...)
	return normalizer.Normalize(combined)
}

func (normalizer *Normalizer) canonical(name string) string {
	if target, ok := normalizer.aliases[name]; ok {
		return target
	}
	return name
}
