package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 32

var (
	nameAdjectives = []string{"Green", "Sunny", "Eco", "Leafy", "Ocean", "Windy", "Earthy", "Rainy"}
	nameAnimals    = []string{"Panda", "Koala", "Tiger", "Turtle", "Dolphin", "Bee", "Frog", "Otter", "Penguin", "Fox"}
)

func RandomName(r *rand.Rand) string {
	return fmt.Sprintf("%s %s %d",
		nameAdjectives[r.IntN(len(nameAdjectives))],
		nameAnimals[r.IntN(len(nameAnimals))],
		100+r.IntN(900),
	)
}

// DisplayName trims the requested name and falls back to a generated one when
// nothing usable is left.
func DisplayName(r *rand.Rand, requested string) string {
	name := strings.TrimSpace(requested)
	if !utf8.ValidString(name) {
		name = strings.ToValidUTF8(name, "")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:maxNameLength]))
	}
	if name == "" {
		return RandomName(r)
	}
	return name
}
