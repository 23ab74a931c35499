package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify_Basic(t *testing.T) {
	assert.Equal(t, "toronto", Slugify("Toronto"))
	assert.Equal(t, "new-york", Slugify("New York"))
	assert.Equal(t, "los-angeles", Slugify("  Los Angeles  "))
}

func TestSlugify_Punctuation(t *testing.T) {
	assert.Equal(t, "st-louis", Slugify("St. Louis"))
	assert.Equal(t, "san-jose", Slugify("San Jose"))
}

func TestSlugify_Diacritics(t *testing.T) {
	assert.Equal(t, "montreal", Slugify("Montréal"))
}

func TestSlugify_Slash(t *testing.T) {
	assert.Equal(t, "dallas-fort-worth", Slugify("Dallas/Fort Worth"))
}

func TestSlugify_Empty(t *testing.T) {
	assert.Equal(t, "", Slugify(""))
	assert.Equal(t, "", Slugify("   "))
}

func TestCitySlug_WithState(t *testing.T) {
	assert.Equal(t, "new-york-ny", CitySlug("New York", "NY"))
	assert.Equal(t, "chicago", CitySlug("Chicago", ""))
}

func TestCitySlug_EmptyCity(t *testing.T) {
	assert.Equal(t, "", CitySlug("", "NY"))
}
