package transduce

// emitStack tracks the text-emission policy across nested delegation. It
// starts with a single implicit suppress frame; entries without an explicit
// text policy leave the stack untouched so descendants inherit the current
// top. Pushes are paired with deferred pops in ProcessNode, which keeps the
// stack balanced even when a template render fails.
type emitStack struct {
	flags []bool
}

func newEmitStack() *emitStack {
	return &emitStack{flags: []bool{false}}
}

func (s *emitStack) push(emit bool) {
	s.flags = append(s.flags, emit)
}

func (s *emitStack) pop() {
	if len(s.flags) > 1 {
		s.flags = s.flags[:len(s.flags)-1]
	}
}

func (s *emitStack) top() bool {
	return s.flags[len(s.flags)-1]
}

func (s *emitStack) depth() int {
	return len(s.flags)
}
