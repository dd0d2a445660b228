package pattern

import "regexp"

// compiledCache maps a LearnedPattern's TextPattern (the compiled regex's
// own .String() form) back to the regexp, so Apply never recompiles a
// pattern per candidate. Every regex MineOne can emit must be registered
// here.
var compiledCache = func() map[string]*regexp.Regexp {
	all := append(append([]*regexp.Regexp{}, curatedTemplates...),
		appositiveDropRe, parentageDropRe, gerundRe, allLowerSingleRe, roleDescriptorRe)
	m := make(map[string]*regexp.Regexp, len(all))
	for _, re := range all {
		m[re.String()] = re
	}
	return m
}()
