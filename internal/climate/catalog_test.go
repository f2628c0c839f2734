package climate

import "testing"

func TestCategoriesPerResolution(t *testing.T) {
	for _, res := range Resolutions() {
		cats := Categories(res)
		if len(cats) == 0 {
			t.Errorf("resolution %s publishes no categories", res)
		}
		for _, cat := range cats {
			if len(Fields(res, cat)) == 0 {
				t.Errorf("%s/%s has no fields", res, cat)
			}
			if !HasCategory(res, cat) {
				t.Errorf("HasCategory(%s, %s) = false", res, cat)
			}
		}
	}
}

// Column names must be unique within one resolution: all categories share
// a single sparse measurement table.
func TestNoColumnCollisions(t *testing.T) {
	for _, res := range Resolutions() {
		seen := make(map[string]Category)
		for _, cat := range Categories(res) {
			for _, f := range Fields(res, cat) {
				if prev, ok := seen[f.Name]; ok {
					t.Errorf("%s: column %s in both %s and %s", res, f.Name, prev, cat)
				}
				seen[f.Name] = cat
			}
		}
	}
}

func TestCategoryFolder(t *testing.T) {
	if got := CategoryDailyObservations.Folder(); got != "kl" {
		t.Errorf("daily_observations folder = %q, want kl", got)
	}
	if got := CategoryAirTemperature.Folder(); got != "air_temperature" {
		t.Errorf("air_temperature folder = %q", got)
	}
}

func TestParseResolution(t *testing.T) {
	if _, err := ParseResolution("hourly"); err != nil {
		t.Errorf("ParseResolution(hourly): %v", err)
	}
	if _, err := ParseResolution("weekly"); err == nil {
		t.Error("ParseResolution(weekly): expected error")
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("air_temperature"); err != nil {
		t.Errorf("ParseCategory(air_temperature): %v", err)
	}
	if _, err := ParseCategory("humidity"); err == nil {
		t.Error("ParseCategory(humidity): expected error")
	}
}
