package common

import (
	"regexp"
	"sync"
)

var compiledPatterns sync.Map

// MatchRegex matches a regex pattern against a string, caching compiled patterns.
// Returns an error if the pattern is invalid.
func MatchRegex(pattern, text string) (bool, error) {
	if re, ok := compiledPatterns.Load(pattern); ok {
		return re.(*regexp.Regexp).MatchString(text), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	compiledPatterns.Store(pattern, re)

	return re.MatchString(text), nil
}
