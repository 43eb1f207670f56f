package deckfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/deckfile"
)

func TestParseMainAndSideboard(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	src := `[metadata]
name = Burn Test

[Main]
10 Mountain
3 Lightning Bolt|2X2|123

[Sideboard]
2 Lightning Bolt
`
	list, err := deckfile.Parse(strings.NewReader(src), db)
	require.NoError(t, err)
	require.Equal(t, "Burn Test", list.Name)
	require.Len(t, list.MainCards(), 13)
	require.Len(t, list.SideboardCards(), 2)

	boltCount := 0
	for _, d := range list.MainCards() {
		if d.Name == "Lightning Bolt" {
			boltCount++
		}
	}
	require.Equal(t, 3, boltCount)
}

func TestParseClampsQuantity(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	src := "[Main]\n0 Mountain\n999 Forest\n"
	list, err := deckfile.Parse(strings.NewReader(src), db)
	require.NoError(t, err)
	require.Equal(t, 1, list.Main[0].Quantity)
	require.Equal(t, 255, list.Main[1].Quantity)
}

func TestParseUnknownCardIsError(t *testing.T) {
	db := card.NewCardDB(card.Builtins())
	src := "[Main]\n4 Nonexistent Card\n"
	_, err := deckfile.Parse(strings.NewReader(src), db)
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "lim_duls_vault", deckfile.Normalize("Lim-Dul's Vault"))
	require.Equal(t, "counterspell", deckfile.Normalize("Counterspell"))
	require.Equal(t, "urzas_tower", deckfile.Normalize("Urza's Tower"))
}
