package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestListStack_Enter(t *testing.T) {
	t.Parallel()

	type step struct {
		kind       ListKind
		level      int
		wantClosed []ListFrame
		wantOpened bool
		wantDepth  int
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "same kind and level continues the group",
			steps: []step{
				{kind: Ordered, level: 0, wantOpened: true, wantDepth: 1},
				{kind: Ordered, level: 0, wantOpened: false, wantDepth: 1},
			},
		},
		{
			name: "deeper item nests",
			steps: []step{
				{kind: Unordered, level: 0, wantOpened: true, wantDepth: 1},
				{kind: Unordered, level: 1, wantOpened: true, wantDepth: 2},
				{kind: Ordered, level: 2, wantOpened: true, wantDepth: 3},
			},
		},
		{
			name: "shallower item closes nested groups",
			steps: []step{
				{kind: Unordered, level: 0, wantOpened: true, wantDepth: 1},
				{kind: Ordered, level: 1, wantOpened: true, wantDepth: 2},
				{kind: Ordered, level: 2, wantOpened: true, wantDepth: 3},
				{
					kind:  Unordered,
					level: 0,
					wantClosed: []ListFrame{
						{Kind: Ordered, Level: 2},
						{Kind: Ordered, Level: 1},
					},
					wantOpened: false,
					wantDepth:  1,
				},
			},
		},
		{
			name: "kind switch at same level opens a new group",
			steps: []step{
				{kind: Ordered, level: 0, wantOpened: true, wantDepth: 1},
				{
					kind:       Unordered,
					level:      0,
					wantClosed: []ListFrame{{Kind: Ordered, Level: 0}},
					wantOpened: true,
					wantDepth:  1,
				},
			},
		},
		{
			name: "level jump opens a single group",
			steps: []step{
				{kind: Unordered, level: 0, wantOpened: true, wantDepth: 1},
				{kind: Unordered, level: 3, wantOpened: true, wantDepth: 2},
				{
					kind:       Unordered,
					level:      1,
					wantClosed: []ListFrame{{Kind: Unordered, Level: 3}},
					wantOpened: true,
					wantDepth:  2,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var s ListStack
			for i, st := range tt.steps {
				closed, opened := s.Enter(st.kind, st.level)
				if diff := cmp.Diff(st.wantClosed, closed, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("step %d closed mismatch (-want +got):\n%s", i, diff)
				}
				if opened != st.wantOpened {
					t.Errorf("step %d opened = %v, want %v", i, opened, st.wantOpened)
				}
				if s.Depth() != st.wantDepth {
					t.Errorf("step %d depth = %d, want %d", i, s.Depth(), st.wantDepth)
				}
			}
		})
	}
}

func TestListStack_CloseAll(t *testing.T) {
	t.Parallel()

	var s ListStack
	s.Enter(Ordered, 0)
	s.Enter(Unordered, 1)

	closed := s.CloseAll()
	want := []ListFrame{{Kind: Unordered, Level: 1}, {Kind: Ordered, Level: 0}}
	if diff := cmp.Diff(want, closed); diff != "" {
		t.Errorf("CloseAll mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Top(); ok {
		t.Error("Top() after CloseAll reported an open group")
	}
}
