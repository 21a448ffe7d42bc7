package service

import (
	"strings"

	"catimporter/backend/internal/catapi"
)

// CanonicalCat is an upstream image reduced to what gets stored.
type CanonicalCat struct {
	ID     string
	Width  int
	Height int
	URL    string
	Tags   []string
}

// Normalize projects an upstream image into its canonical shape. Tags are
// the temperament words of every breed, in order of first appearance,
// without blanks or repeats.
func Normalize(img catapi.Image) CanonicalCat {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, breed := range img.Breeds {
		for _, name := range SplitTemperament(breed.Temperament) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			tags = append(tags, name)
		}
	}

	return CanonicalCat{
		ID:     img.ID,
		Width:  img.Width,
		Height: img.Height,
		URL:    img.URL,
		Tags:   tags,
	}
}

// SplitTemperament splits a comma-separated temperament string and trims
// each part. Parts that are empty after trimming are dropped; case is kept.
func SplitTemperament(temperament string) []string {
	var names []string
	for _, part := range strings.Split(temperament, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
