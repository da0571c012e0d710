package doctree

import "testing"

func TestDocTreeText_PagesNoSeparator(t *testing.T) {
	tree := &DocTree{
		Children: []*DocNode{
			{Text: "Page one. ", Page: 1},
			{Text: "Page two.", Page: 2},
		},
	}
	if got := tree.Text(""); got != "Page one. Page two." {
		t.Errorf("expected concatenated pages, got %q", got)
	}
}

func TestDocTreeText_NestedSections(t *testing.T) {
	tree := &DocTree{
		Children: []*DocNode{
			{
				Title: "Intro",
				Text:  "alpha",
				Children: []*DocNode{
					{Title: "Detail", Text: "beta"},
					{Title: "Empty"},
				},
			},
			{Title: "Outro", Text: "gamma"},
		},
	}
	want := "alpha\n\nbeta\n\ngamma"
	if got := tree.Text("\n\n"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocTreeText_Empty(t *testing.T) {
	tree := &DocTree{Title: "Empty"}
	if got := tree.Text("\n"); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
