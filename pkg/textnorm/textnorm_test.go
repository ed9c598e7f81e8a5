// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kanshi/pkg/textnorm"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shingeki no Kyojin: The Final Season", "shingeki no kyojin the final season"},
		{"  Pokémon   ", "pokemon"},
		{"DAN DA DAN", "dan da dan"},
		{"Re:Zero", "re zero"},
		{"進撃の巨人", "進撃の巨人"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, textnorm.Fold(tt.in), tt.in)
	}
}

func TestBaseTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Spy x Family Season 2", "Spy x Family"},
		{"Mushoku Tensei: Jobless Reincarnation Season 2 Part 2", "Mushoku Tensei: Jobless Reincarnation"},
		{"Oshi no Ko 2nd Season", "Oshi no Ko"},
		{"Shingeki no Kyojin: The Final Season", "Shingeki no Kyojin"},
		{"Dr. Stone S3", "Dr. Stone"},
		{"Frieren", "Frieren"},
		{"Season 2", "Season 2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, textnorm.BaseTitle(tt.in), tt.in)
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "sousou-no-frieren", textnorm.Slug("Sousou no Frieren"))
	assert.Equal(t, "pokemon-horizons", textnorm.Slug("Pokémon: Horizons!"))
	assert.Equal(t, "", textnorm.Slug("   "))
}

/*
TestSlug_NonLatinScripts keeps distinct native-script titles distinct.
*/
func TestSlug_NonLatinScripts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"進撃の巨人", "進撃の巨人"},
		{"鬼滅の刃", "鬼滅の刃"},
		{"がっこうぐらし!", "がっこうぐらし"},
		{"Атака титанов", "атака-титанов"},
		{"진격의 거인", "진격의-거인"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, textnorm.Slug(tt.in), tt.in)
	}

	assert.NotEqual(t, textnorm.Slug("進撃"), textnorm.Slug("鬼滅"))
	assert.NotEqual(t, textnorm.Slug("がっこう"), textnorm.Slug("かっこう"))
}

func TestSlug_PunctuationOnly(t *testing.T) {
	assert.Equal(t, "~2d2d2d", textnorm.Slug("  ---  "))
	assert.NotEqual(t, textnorm.Slug("!!!"), textnorm.Slug("???"))
}
