package ephem

import "testing"

func TestPoints_CanonicalOrder(t *testing.T) {
	want := []string{
		"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn",
		"Uranus", "Neptune", "Pluto", "North Node", "Chiron", "Ascendant", "Medium Coeli",
	}
	for i, name := range want {
		if Points[i].Point != Point(i) {
			t.Errorf("Points[%d].Point = %d", i, Points[i].Point)
		}
		if Points[i].Name != name {
			t.Errorf("Points[%d].Name = %q, want %q", i, Points[i].Name, name)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		input    string
		expected Point
	}{
		{"Sun", Sun},
		{"moon", Moon},
		{"North Node", NorthNode},
		{"northnode", NorthNode},
		{"node", NorthNode},
		{"Asc", Ascendant},
		{"MC", MediumCoeli},
		{" jup ", Jupiter},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParsePoint(tc.input)
			if err != nil {
				t.Fatalf("ParsePoint(%q) error: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("ParsePoint(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}

	if _, err := ParsePoint("vulcan"); err == nil {
		t.Error("ParsePoint(vulcan) should fail")
	}
}

func TestParseBodies(t *testing.T) {
	got, err := ParseBodies("sun, moon,sun,,mars")
	if err != nil {
		t.Fatalf("ParseBodies error: %v", err)
	}
	want := []Point{Sun, Moon, Mars}
	if len(got) != len(want) {
		t.Fatalf("ParseBodies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseBodies[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := ParseBodies("sun,asc"); err == nil {
		t.Error("ParseBodies should reject the Ascendant")
	}
}

func TestPoint_Kinds(t *testing.T) {
	if len(Bodies()) != NumBodies {
		t.Errorf("Bodies() len = %d, want %d", len(Bodies()), NumBodies)
	}
	if Ascendant.IsBody() || MediumCoeli.IsBody() {
		t.Error("angles are not ephemeris bodies")
	}
	if !Chiron.IsBody() {
		t.Error("Chiron is an ephemeris body")
	}
	if Point(20).Valid() {
		t.Error("Point(20) should be invalid")
	}
	if Point(20).String() != "Point(20)" {
		t.Errorf("String() = %q", Point(20).String())
	}
}
