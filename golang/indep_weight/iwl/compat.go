package iwl

// CompatibleSource reports whether q puts no mass on the holes of p.
// The check is one-sided: q may vanish where p does not.
func CompatibleSource(q, p Distribution) bool {
	if len(q) != len(p) {
		return false
	}
	for x := range p {
		if p[x] == 0 && q[x] != 0 {
			return false
		}
	}
	return true
}

// Compatible reports whether the support-testing source of c fits inside the support of p.
func Compatible(c Configuration, p Distribution) bool {
	return CompatibleSource(c.Source(), p)
}
