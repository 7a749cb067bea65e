package consensus

import (
	"reflect"
	"testing"
)

func TestMergeConstraints_UnionsAndSorts(t *testing.T) {
	t.Parallel()

	out := mergeConstraints([]constraintView{
		{present: true, dietary: []string{"vegetarian", "halal"}, accessibility: []string{"step-free"}},
		{present: true, dietary: []string{"vegetarian"}, hardNo: "no camping"},
		{present: true, hardNo: "no camping"},
	})

	if got, want := out.Dietary, []string{"halal", "vegetarian"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Dietary = %v, want %v", got, want)
	}
	if got, want := out.Accessibility, []string{"step-free"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Accessibility = %v, want %v", got, want)
	}
	// Two members with identical deal-breaker text are two entries.
	if got, want := out.HardNos, []string{"no camping", "no camping"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("HardNos = %v, want %v", got, want)
	}
	if out.MembersWithConstraints != 3 {
		t.Fatalf("MembersWithConstraints = %d, want 3", out.MembersWithConstraints)
	}
}

func TestMergeConstraints_AbsentSectionsAreSkipped(t *testing.T) {
	t.Parallel()

	out := mergeConstraints([]constraintView{{}, {present: true, dietary: []string{"vegan"}}})

	if out.MembersWithConstraints != 1 {
		t.Fatalf("MembersWithConstraints = %d, want 1", out.MembersWithConstraints)
	}
	if got, want := out.Dietary, []string{"vegan"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Dietary = %v, want %v", got, want)
	}
	if len(out.HardNos) != 0 {
		t.Fatalf("HardNos = %v, want empty", out.HardNos)
	}
}
