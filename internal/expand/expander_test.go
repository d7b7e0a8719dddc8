package expand

import (
	"testing"
)

func noClash(string, string, string) bool { return false }

func TestExpandSaintSt(t *testing.T) {
	t.Run("Saint_to_St", func(t *testing.T) {
		got, err := Expand("US", "WI", "Saint Francis", noClash)
		if err != nil {
			t.Fatal(err)
		}
		if !contains(got, "st francis") {
			t.Errorf("Expand(Saint Francis) = %v, want 'st francis'", got)
		}
	})

	t.Run("St_to_Saint", func(t *testing.T) {
		got, err := Expand("US", "WI", "St Francis", noClash)
		if err != nil {
			t.Fatal(err)
		}
		if !contains(got, "saint francis") {
			t.Errorf("Expand(St Francis) = %v, want 'saint francis'", got)
		}
	})
}

func TestExpandSuffixStrip(t *testing.T) {
	got, err := Expand("US", "MI", "Clinton Township", noClash)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(got, "clinton") {
		t.Errorf("Expand(Clinton Township) = %v, want 'clinton'", got)
	}
}

func TestExpandSuffixStripBlacklisted(t *testing.T) {
	got, err := Expand("US", "NY", "Lake Village", noClash)
	if err != nil {
		t.Fatal(err)
	}
	if contains(got, "lake") {
		t.Errorf("Expand(Lake Village) = %v, barename 'lake' is blacklisted and must not be emitted", got)
	}
}

func TestExpandOnBy(t *testing.T) {
	t.Run("on_Hudson_no_clash", func(t *testing.T) {
		got, err := Expand("US", "NY", "Annandale on Hudson", noClash)
		if err != nil {
			t.Fatal(err)
		}
		if !contains(got, "annandale") {
			t.Errorf("Expand(Annandale on Hudson) = %v, want 'annandale'", got)
		}
	})

	t.Run("by_the_Sea_no_clash", func(t *testing.T) {
		got, err := Expand("US", "CA", "Cardiff by the Sea", noClash)
		if err != nil {
			t.Fatal(err)
		}
		if !contains(got, "cardiff") {
			t.Errorf("Expand(Cardiff by the Sea) = %v, want 'cardiff'", got)
		}
	})

	t.Run("clash_suppresses_barename", func(t *testing.T) {
		clashing := func(cc, admin1, barename string) bool { return barename == "cardiff" }
		got, err := Expand("US", "CA", "Cardiff by the Sea", clashing)
		if err != nil {
			t.Fatal(err)
		}
		if contains(got, "cardiff") {
			t.Errorf("Expand(Cardiff by the Sea) with clash = %v, must not include claimed barename", got)
		}
	})

	t.Run("not_applied_outside_clash_country_set", func(t *testing.T) {
		got, err := Expand("FR", "75", "Annandale on Hudson", noClash)
		if err != nil {
			t.Fatal(err)
		}
		if contains(got, "annandale") {
			t.Errorf("Expand outside clash-country set must not strip barename, got %v", got)
		}
	})
}

func TestExpandMcOPrefix(t *testing.T) {
	got, err := Expand("US", "IL", "Mc Donald", noClash)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(got, "mcdonald") {
		t.Errorf("Expand(Mc Donald) = %v, want 'mcdonald'", got)
	}
}

func TestExpandOnByCasing(t *testing.T) {
	got, err := Expand("US", "OH", "Mentor-on-the-Lake", noClash)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(got, "mentor on the lake") {
		t.Errorf("Expand(Mentor-on-the-Lake) = %v, want space-separated form present", got)
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
