package domain

import "testing"

func TestResourceTurnContent(t *testing.T) {
	got := ResourceTurnContent([]Resource{
		{Name: "Crisis Line", Contact: "988"},
		{Name: "Text Line", Contact: "741741"},
	})
	want := "Resources:\nCrisis Line: 988\nText Line: 741741"
	if got != want {
		t.Fatalf("unexpected content:\n%q\nwant\n%q", got, want)
	}
}

func TestTurnCloneDetachesResources(t *testing.T) {
	orig := Turn{Role: RoleSystem, Resources: []Resource{{Name: "A", Contact: "1"}}}
	cp := orig.Clone()
	cp.Resources[0].Name = "B"
	if orig.Resources[0].Name != "A" {
		t.Fatal("clone shares resource slice with original")
	}
}
