package hashtype

import (
	"fmt"
	"strings"
)

// Rarity ranks how often a hash format shows up in real-world material.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

var allRarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
}

var raritySet = func() map[Rarity]struct{} {
	set := make(map[Rarity]struct{}, len(allRarities))
	for _, rarity := range allRarities {
		set[rarity] = struct{}{}
	}
	return set
}()

// ParseRarity normalizes value into a Rarity, rejecting unknown tiers.
func ParseRarity(value string) (Rarity, error) {
	rarity := Rarity(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := raritySet[rarity]; !ok {
		return "", fmt.Errorf("rarity: unsupported value %q", value)
	}
	return rarity, nil
}

// Definition describes one recognizable hash format. Pattern is an anchored
// regular expression evaluated against the whole trimmed input.
type Definition struct {
	Name        string
	Pattern     string
	Rarity      Rarity
	Description string
}
