package util

import (
	"fmt"
	"math/rand"
)

var random = rand.New(rand.NewSource(rand.Int63())) // nolint:gosec

var adjectives = []string{
	"Lucky", "Quick", "Bold", "Sly", "Cool", "Brave", "Sharp", "Calm", "Wild", "Smooth",
	"Red", "Blue", "Green", "Golden", "Silver", "Velvet", "Midnight", "Neon", "Royal", "High",
}

var nouns = []string{
	"Ace", "Dealer", "Shark", "Whale", "Counter", "Roller", "Gambler", "Joker", "Shoe", "Chip",
	"Spade", "Heart", "Diamond", "Club", "Croupier", "Maverick", "Baron", "Duke", "Fox", "Wolf",
}

// GetRandomName returns a display name for players who join without one
func GetRandomName() string {
	return fmt.Sprintf("%s %s", adjectives[random.Intn(len(adjectives))], nouns[random.Intn(len(nouns))])
}
