// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package provider resolves which legal streaming services carry a title in a region.

Architecture:

  - Normalizer: Collapses raw service names ("Amazon Prime Video with Ads") into
    canonical labels ("Prime Video"). Unknown names pass through unchanged.
  - Resolver: TMDB watch providers first, the paid RapidAPI catalogue second
    (behind an age-based cost gate), and the "Pirata" sentinel last. Every
    outcome is cached for a week.
*/
package provider

// # Domain Types

// Source identifies which upstream produced a provider list.
type Source string

const (
	SourceTMDB Source = "tmdb"
	SourceSA   Source = "sa"
	SourceNone Source = "none"
)

// Info is a provider as listed by the providers endpoint.
// IDs are assigned per response and are not stable across calls.
type Info struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ToInfos numbers names from 1 in their given order.
func ToInfos(names []string) []Info {
	infos := make([]Info, 0, len(names))
	for index, name := range names {
		infos = append(infos, Info{ID: index + 1, Name: name})
	}
	return infos
}
