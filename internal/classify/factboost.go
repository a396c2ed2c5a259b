package classify

import (
	"math"
	"regexp"
	"strings"
)

const (
	personStatusBoost = 0.4
	maxFactBoost      = 0.4
	patternBoost      = 0.1
	shortBoost        = 0.15
	keywordBoost      = 0.05
	shortMaxWords     = 15
)

var personStatusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(salman khan|shah rukh khan|aamir khan|akshay kumar) is (alive|living)`),
	regexp.MustCompile(`(narendra modi|modi) is (alive|living|prime minister)`),
	regexp.MustCompile(`(apj abdul kalam|kalam) is (dead|deceased|died)`),
	regexp.MustCompile(`(mahatma gandhi|gandhi) is (dead|deceased|died)`),
	regexp.MustCompile(`(jawaharlal nehru|nehru) is (dead|deceased|died)`),
}

var boostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(prime minister|president|king|queen|chancellor|governor) (of|is)`),
	regexp.MustCompile(`(capital|currency) (of|is)`),
	regexp.MustCompile(`(born|died) (in|on|at)`),
	regexp.MustCompile(`(located|situated) in`),
	regexp.MustCompile(`(border|borders|bounded) (by|with)`),
	regexp.MustCompile(`(population|area|size) (of|is)`),
	regexp.MustCompile(`(discovered|invented|founded) (in|by)`),
	regexp.MustCompile(`(temperature|distance|speed|weight) (of|is)`),
	regexp.MustCompile(`(world war|independence|revolution) (started|ended|began)`),
	regexp.MustCompile(`(known as|also called|referred to as)`),
	regexp.MustCompile(`(consists of|composed of|made of)`),
	regexp.MustCompile(`(established|founded|created) (in|on)`),
	regexp.MustCompile(`\d{4}.*?(year|ad|bc|ce)`),
	regexp.MustCompile(`\d+\s*(million|billion|thousand|percent|km|miles)`),
}

var boostKeywords = []string{
	"prime minister", "president", "capital", "currency", "population",
	"area", "located", "founded", "established", "discovered", "invented",
	"born", "died", "known as", "also called", "consists of",
}

// FactBoost returns the credibility increment for text that matches
// high-confidence factual phrasing, in [0, 0.4]
func FactBoost(text string) float64 {
	lower := strings.ToLower(text)

	for _, p := range personStatusPatterns {
		if p.MatchString(lower) {
			return personStatusBoost
		}
	}

	boost := 0.0
	matches := 0
	for _, p := range boostPatterns {
		if p.MatchString(lower) {
			matches++
			boost += patternBoost
		}
	}

	if matches > 0 && len(strings.Fields(text)) <= shortMaxWords {
		boost += shortBoost
	}

	for _, kw := range boostKeywords {
		if strings.Contains(lower, kw) {
			boost += keywordBoost
		}
	}

	return math.Min(maxFactBoost, boost)
}
