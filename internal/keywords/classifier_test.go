// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package keywords

import (
	"testing"

	"github.com/tomtom215/tripsense/internal/models"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	c := NewClassifier(&tables)

	tests := []struct {
		name     string
		activity models.Activity
		check    func(models.Capabilities) bool
	}{
		{
			name:     "nature_defaults_outdoor",
			activity: models.Activity{Name: "Forest walk", Category: models.CategoryNature},
			check:    func(c models.Capabilities) bool { return c.Outdoor && !c.Indoor },
		},
		{
			name:     "culture_defaults_indoor",
			activity: models.Activity{Name: "City Hall", Category: models.CategoryCulture},
			check:    func(c models.Capabilities) bool { return c.Indoor && !c.Outdoor },
		},
		{
			name:     "keyword_overrides_category",
			activity: models.Activity{Name: "Sky Terrace", Category: models.CategoryDining, Types: []string{"rooftop"}},
			check:    func(c models.Capabilities) bool { return c.Outdoor && c.Viewpoint },
		},
		{
			name:     "cooling_and_indoor",
			activity: models.Activity{Name: "Sea Life", Types: []string{"aquarium"}, Category: models.CategoryActivity},
			check:    func(c models.Capabilities) bool { return c.Cooling && c.Indoor },
		},
		{
			name:     "warming_cafe",
			activity: models.Activity{Name: "Corner Café", Category: models.CategoryDining},
			check:    func(c models.Capabilities) bool { return c.Warming && c.EarlyOpen && c.Indoor },
		},
		{
			name:     "nightlife_tag_on_culture",
			activity: models.Activity{Name: "Old Theatre", Category: models.CategoryCulture, Types: []string{"bar"}},
			check:    func(c models.Capabilities) bool { return c.Nightlife },
		},
		{
			name:     "daylight_only_museum",
			activity: models.Activity{Name: "History Museum", Category: models.CategoryCulture},
			check:    func(c models.Capabilities) bool { return c.DaylightOnly && !c.Nightlife },
		},
		{
			name:     "unknown_leisure_has_no_shelter_signal",
			activity: models.Activity{Name: "Segway experience", Category: models.CategoryActivity},
			check:    func(c models.Capabilities) bool { return !c.Indoor && !c.Outdoor },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			caps := c.Classify(&tt.activity)
			if !caps.Computed {
				t.Fatal("capabilities not marked computed")
			}
			if !tt.check(caps) {
				t.Errorf("unexpected capabilities: %+v", caps)
			}
		})
	}
}

func TestClassifier_IngestDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	c := NewClassifier(&tables)
	in := []models.Activity{{ID: "a", Name: "Beach", Category: models.CategoryNature}}

	out := c.Ingest(in)
	if in[0].Capabilities.Computed {
		t.Error("input activity was mutated")
	}
	if !out[0].Capabilities.Computed || !out[0].Capabilities.Outdoor {
		t.Errorf("output not classified: %+v", out[0].Capabilities)
	}
}

func TestClassifier_EnsureKeepsExisting(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	c := NewClassifier(&tables)
	a := models.Activity{Name: "Park", Capabilities: models.Capabilities{Computed: true, Indoor: true}}

	got := c.Ensure(a)
	if !got.Capabilities.Indoor || got.Capabilities.Outdoor {
		t.Errorf("Ensure recomputed capabilities: %+v", got.Capabilities)
	}
}

func TestClassifier_IngestRecomputesSuppliedCapabilities(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	c := NewClassifier(&tables)
	forged := models.Activity{
		Name:         "Rooftop Bar",
		Category:     models.CategoryNightlife,
		Capabilities: models.Capabilities{Computed: true, DaylightOnly: true},
	}

	got := c.Ingest([]models.Activity{forged})[0].Capabilities
	if got.DaylightOnly {
		t.Errorf("supplied capability survived ingestion: %+v", got)
	}
	if !got.Computed || !got.Nightlife {
		t.Errorf("capabilities = %+v, want recomputed nightlife", got)
	}
}

func TestThesaurus_Related(t *testing.T) {
	t.Parallel()

	th := NewThesaurus(map[string][]string{
		"wine":   {"winery", "Vineyard"},
		"nature": {"vineyard"},
	})

	got := th.Related("wine")
	if len(got) != 2 || got[0] != "vineyard" || got[1] != "winery" {
		t.Errorf("Related(wine) = %v", got)
	}

	back := th.Related("vineyard")
	if len(back) != 2 || back[0] != "nature" || back[1] != "wine" {
		t.Errorf("Related(vineyard) = %v", back)
	}

	if got := th.Related("unknown"); got != nil {
		t.Errorf("Related(unknown) = %v, want nil", got)
	}
}
