package markdown

// ListFrame is one open list group: every consecutive item of the same kind
// at the same nesting level belongs to it.
type ListFrame struct {
	Kind  ListKind
	Level int
}

// ListStack tracks open list groups, innermost last. The parser and every
// renderer share it, so list grouping follows one policy everywhere:
//
//   - an item deeper than the innermost group opens a nested group;
//   - an item shallower than a group closes it;
//   - an item of another kind at the same level closes the group and opens a
//     new one.
//
// Blank lines do not touch the stack. The zero value is an empty stack.
type ListStack struct {
	frames []ListFrame
}

// Enter positions the stack for a list item. It returns the frames closed
// to make room, innermost first, and reports whether a new group was opened
// for the item.
func (s *ListStack) Enter(kind ListKind, level int) (closed []ListFrame, opened bool) {
	closed = s.CloseAbove(level)
	if top, ok := s.Top(); ok && top.Level == level && top.Kind != kind {
		closed = append(closed, s.pop())
	}
	if top, ok := s.Top(); ok && top.Level == level {
		return closed, false
	}
	s.frames = append(s.frames, ListFrame{Kind: kind, Level: level})
	return closed, true
}

// CloseAbove closes every group deeper than level, innermost first.
func (s *ListStack) CloseAbove(level int) []ListFrame {
	var closed []ListFrame
	for len(s.frames) > 0 && s.frames[len(s.frames)-1].Level > level {
		closed = append(closed, s.pop())
	}
	return closed
}

// CloseAll closes every open group, innermost first.
func (s *ListStack) CloseAll() []ListFrame {
	return s.CloseAbove(-1)
}

// Top returns the innermost open group.
func (s *ListStack) Top() (ListFrame, bool) {
	if len(s.frames) == 0 {
		return ListFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Depth returns the number of open groups.
func (s *ListStack) Depth() int { return len(s.frames) }

func (s *ListStack) pop() ListFrame {
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}
