package belief

import (
	"regexp"
	"strings"
	"sync"

	"werewolf/game"
)

// Lexicon holds the phrase sets used to read the debate. Phrases are matched
// case-insensitively as substrings of an utterance.
type Lexicon struct {
	// Claims maps a role to the phrases that count as a self-claim of it.
	Claims map[game.Role][]string
	// Suspicion phrases turn a mention of a player into an accusation.
	Suspicion []string
	// Trust phrases turn a mention of a player into a defense.
	Trust []string
	// WordBoundary anchors player mentions on real word boundaries. When false a
	// mention only matches the name wrapped in the two-character text `\b`,
	// which ordinary speech never contains.
	WordBoundary bool
}

// DefaultLexicon returns the baseline phrase sets.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Claims: map[game.Role][]string{
			game.Seer:     {"i am the seer", "i'm the seer"},
			game.Doctor:   {"i am the doctor", "i'm the doctor"},
			game.Villager: {"i am a villager", "just a villager"},
			game.Werewolf: {"i am a werewolf", "i'm a werewolf"},
		},
		Suspicion: []string{"suspect", "wolf", "werewolf", "not on our side", "vote"},
		Trust:     []string{"trust", "innocent", "good", "not a wolf"},
	}
}

// claims reports whether a lower-cased utterance contains a self-claim of role.
func (l Lexicon) claims(role game.Role, speech string) bool {
	return containsAny(speech, l.Claims[role])
}

func (l Lexicon) accuses(speech string) bool {
	return containsAny(speech, l.Suspicion)
}

func (l Lexicon) defends(speech string) bool {
	return containsAny(speech, l.Trust)
}

// namePatterns caches the compiled word-boundary pattern per lower-cased name.
var namePatterns sync.Map

// mentions reports whether a lower-cased utterance names player.
func (l Lexicon) mentions(speech, player string) bool {
	name := strings.ToLower(player)
	if !l.WordBoundary {
		return strings.Contains(speech, `\b`+name+`\b`)
	}
	if re, ok := namePatterns.Load(name); ok {
		return re.(*regexp.Regexp).MatchString(speech)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	namePatterns.Store(name, re)
	return re.MatchString(speech)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
