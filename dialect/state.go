package dialect

// assignmentState tracks one compile pass. pending is a single-slot buffer
// holding the last accessor until a later token decides whether it is an
// assignment target or a read.
type assignmentState struct {
	pending   *FieldAccess
	atLvalue  bool
	openGroup bool
}

func newAssignmentState() *assignmentState {
	return &assignmentState{atLvalue: true}
}

func (s *assignmentState) set(a FieldAccess) {
	s.pending = &a
}

// consume returns the pending accessor and clears the slot.
func (s *assignmentState) consume() (FieldAccess, bool) {
	if s.pending == nil {
		return FieldAccess{}, false
	}
	a := *s.pending
	s.pending = nil
	return a, true
}

func (s *assignmentState) clear() {
	s.pending = nil
}

func (s *assignmentState) peek() (FieldAccess, bool) {
	if s.pending == nil {
		return FieldAccess{}, false
	}
	return *s.pending, true
}
