package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catimporter/backend/internal/catapi"
)

func TestSplitTemperament(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Active, Energetic, Independent", []string{"Active", "Energetic", "Independent"}},
		{"  Calm ,Gentle", []string{"Calm", "Gentle"}},
		{"Loyal", []string{"Loyal"}},
		{"Alert,,Agile,", []string{"Alert", "Agile"}},
		{" , ", nil},
		{"", nil},
		{"curious, Curious", []string{"curious", "Curious"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitTemperament(tt.in), "input %q", tt.in)
	}
}

func TestNormalize(t *testing.T) {
	img := catapi.Image{
		ID:     "0XYvRd7oD",
		Width:  1204,
		Height: 1445,
		URL:    "https://cdn2.thecatapi.com/images/0XYvRd7oD.jpg",
		Breeds: []catapi.Breed{
			{Name: "Abyssinian", Temperament: "Active, Energetic, Independent"},
			{Name: "Bengal", Temperament: "Alert, Active"},
		},
	}

	got := Normalize(img)
	assert.Equal(t, CanonicalCat{
		ID:     "0XYvRd7oD",
		Width:  1204,
		Height: 1445,
		URL:    "https://cdn2.thecatapi.com/images/0XYvRd7oD.jpg",
		Tags:   []string{"Active", "Energetic", "Independent", "Alert"},
	}, got)
}

func TestNormalizeWithoutBreeds(t *testing.T) {
	got := Normalize(catapi.Image{ID: "x", Width: 1, Height: 1, URL: "https://x.test/x.jpg"})
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}
