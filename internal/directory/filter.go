package directory

// Filter decides which instances are considered. An instance passes when it is
// not excluded and the include list is empty or names it. Exclusion always wins.
type Filter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewFilter builds a Filter from instance lists. Entries are normalized with
// NormalizeHost and empty entries are ignored.
func NewFilter(include, exclude []string) Filter {
	return Filter{
		include: hostSet(include),
		exclude: hostSet(exclude),
	}
}

// Allows reports whether instance passes the filter.
func (f Filter) Allows(instance string) bool {
	host := NormalizeHost(instance)
	if _, excluded := f.exclude[host]; excluded {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	_, included := f.include[host]

	return included
}

func hostSet(hosts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h = NormalizeHost(h); h != "" {
			set[h] = struct{}{}
		}
	}

	return set
}
