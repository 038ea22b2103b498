package belief

import "strings"

// Speech templates. {target} is replaced with a player name.
var (
	deflectLines = []string{
		"I've noticed {target} acting strange. We should keep an eye there.",
		"{target} has been unusually quiet. I think we should watch them.",
		"I'm a bit uneasy about {target}'s behavior. Any thoughts?",
		"{target}'s reactions feel off to me. I'm leaning toward suspicion.",
	}
	revealLines = []string{
		"I am the Seer. I checked {target} and they are a werewolf.",
		"Seer here: {target} came back as werewolf.",
		"I checked {target} last night. They are a werewolf.",
	}
	vouchLines = []string{
		"I have information that {target} is trustworthy. Let's focus elsewhere.",
		"{target} looks clean from my info. We should examine others.",
		"I have a strong read that {target} is good. Let's look around.",
	}
	hedgeLines = []string{
		"I'm still assessing, but {target} seems a bit off.",
		"I don't have a clear read yet, though {target} feels suspicious.",
		"I'm gathering info; {target} stands out to me for now.",
	}
	probeLines = []string{
		"I'm leaning toward caution. {target}, can you explain your reasoning?",
		"I want more clarity. {target}, what's your read so far?",
		"Let's slow down. {target}, can you share why you think that?",
		"I'd like more info. {target}, what makes you suspicious?",
	}
	stallLines = []string{
		"I need more evidence before voting decisively.",
		"I'm not ready to lock in a vote yet. Who feels most suspicious?",
		"I'm still gathering info. Any concrete tells so far?",
		"I'm unsure right now; let's hear more from everyone.",
	}
)

// fallbackTarget stands in when there is nobody else to name.
const fallbackTarget = "someone quiet"

func render(templates []string, target string) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = strings.ReplaceAll(t, "{target}", target)
	}
	return out
}
