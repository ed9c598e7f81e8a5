// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kanshi/internal/core/anime"
)

func TestNewSynopsis_StripsTags(t *testing.T) {
	synopsis := anime.NewSynopsis(`The adventure is over but life goes on for an <i>elf mage</i>.<br><br>Frieren &amp; friends.<br>(Source: Crunchyroll)`)

	assert.Equal(t, "The adventure is over but life goes on for an elf mage.\n\nFrieren & friends.\n(Source: Crunchyroll)", synopsis.Text)
	assert.Contains(t, synopsis.HTML, "<i>elf mage</i>")
	assert.Equal(t, "The adventure is over but life goes on for an elf mage. Frieren & friends. (Source: Crunchyroll)", synopsis.Short)
}

func TestNewSynopsis_ShortCutsOnWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 60)

	short := anime.NewSynopsis(long).Short

	assert.LessOrEqual(t, utf8.RuneCountInString(short), 200)
	assert.True(t, strings.HasSuffix(short, "word…"))
}

func TestNewSynopsis_Empty(t *testing.T) {
	synopsis := anime.NewSynopsis("   ")

	assert.True(t, synopsis.IsEmpty())
	assert.Equal(t, anime.Synopsis{}, synopsis)
}
