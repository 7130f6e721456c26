package rewrite

// OnceSet records the once parts already applied during one top-level run.
type OnceSet map[string]struct{}

// Done reports whether part has already been applied.
func (s OnceSet) Done(part string) bool {
	_, ok := s[part]
	return ok
}

// Mark records part as applied.
func (s OnceSet) Mark(part string) {
	s[part] = struct{}{}
}

// Scope selects the parts a matcher pass considers.
type Scope struct {
	parts []string
	done  OnceSet
}

// TopLevel scans every global part in declaration order, skipping once
// parts recorded in done. The converter marks a once part in done when its
// occurrence is applied, not when it is merely matched.
func TopLevel(done OnceSet) Scope {
	if done == nil {
		done = OnceSet{}
	}
	return Scope{done: done}
}

func (s Scope) applied(part string, once bool) {
	if once && !s.IsRestricted() {
		s.done.Mark(part)
	}
}

// Restricted scans exactly parts, regardless of their global and once
// flags. Parts are still visited in declaration order.
func Restricted(parts ...string) Scope {
	if parts == nil {
		parts = []string{}
	}
	return Scope{parts: parts}
}

// IsRestricted reports whether the scope names its parts explicitly.
func (s Scope) IsRestricted() bool {
	return s.parts != nil
}
