package gazetteerdb

import "testing"

func TestClassDiff(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		fresh    []string
		want     []string
	}{
		{"nothing existing", nil, []string{"place"}, nil},
		{"identical sets", []string{"place", "building"}, []string{"building", "place"}, nil},
		{"one stale class", []string{"place", "building"}, []string{"place"}, []string{"building"}},
		{"all stale", []string{"place", "building"}, nil, []string{"place", "building"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassDiff(tt.existing, tt.fresh)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestClassDiffIdempotentOnRepeatedProcessing(t *testing.T) {
	// Processing the same object twice with the same fresh classification
	// issues zero net deletes on the second call.
	existing := []string{"place"}
	fresh := []string{"place"}
	if diff := ClassDiff(existing, fresh); diff != nil {
		t.Fatalf("expected no stale classes, got %v", diff)
	}
}
