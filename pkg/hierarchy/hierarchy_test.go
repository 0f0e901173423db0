package hierarchy

import "testing"

func sample() *Node {
	return Branch("",
		Branch("Weather",
			Leaf("Survivors", 3, 10),
			Leaf("No survivors", 2, 140),
		),
		Branch("Human error",
			Leaf("No survivors", 1, 12),
		),
	)
}

func TestBranchValue(t *testing.T) {
	root := sample()
	if root.Value != 6 {
		t.Errorf("root.Value = %v, want 6", root.Value)
	}
	if w, _ := root.Child("Weather"); w.Value != 5 {
		t.Errorf("Weather.Value = %v, want 5", w.Value)
	}
}

func TestBranchSkipsNil(t *testing.T) {
	n := Branch("x", nil, Leaf("a", 1, 0), nil)
	if len(n.Children) != 1 {
		t.Errorf("len(Children) = %d, want 1", len(n.Children))
	}
}

func TestLeaves(t *testing.T) {
	leaves := sample().Leaves()
	if len(leaves) != 3 {
		t.Fatalf("len(Leaves()) = %d, want 3", len(leaves))
	}
	if leaves[0].Name != "Survivors" || leaves[2].Fatalities != 12 {
		t.Errorf("Leaves() order unexpected: %v, %v", leaves[0].Name, leaves[2].Fatalities)
	}
}

func TestWalkDepth(t *testing.T) {
	depths := map[int]int{}
	sample().Walk(func(_ *Node, d int) { depths[d]++ })
	if depths[0] != 1 || depths[1] != 2 || depths[2] != 3 {
		t.Errorf("Walk depths = %v", depths)
	}
}

func TestChild(t *testing.T) {
	root := sample()
	if _, ok := root.Child("Sabotage"); ok {
		t.Error("Child(Sabotage) found, want missing")
	}
	if c, ok := root.Child("Human error"); !ok || c.Value != 1 {
		t.Errorf("Child(Human error) = %v, %v", c, ok)
	}
}

func TestTotalFatalities(t *testing.T) {
	if got := sample().TotalFatalities(); got != 162 {
		t.Errorf("TotalFatalities() = %d, want 162", got)
	}
}
