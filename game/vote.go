package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ballot is one voter's choice. An empty Target is an abstention.
type Ballot struct {
	Voter  string
	Target string
}

// Ballots keeps votes in the order they were cast. It encodes as a JSON object
// {voter: target|null} with keys in that order.
type Ballots []Ballot

func (b Ballots) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ballot := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ballot.Voter)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if ballot.Target == "" {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(ballot.Target)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Ballots) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*b = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ballots: expected object, got %v", tok)
	}
	out := Ballots{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		voter, _ := keyTok.(string)
		var target *string
		if err := dec.Decode(&target); err != nil {
			return fmt.Errorf("ballots: voter %q: %w", voter, err)
		}
		ballot := Ballot{Voter: voter}
		if target != nil {
			ballot.Target = *target
		}
		out = append(out, ballot)
	}
	*b = out
	return nil
}

// Get returns the target recorded for voter.
func (b Ballots) Get(voter string) (string, bool) {
	for _, ballot := range b {
		if ballot.Voter == voter {
			return ballot.Target, true
		}
	}
	return "", false
}

// Count is the number of votes a target received.
type Count struct {
	Target string
	Votes  int
}

// Tally counts non-abstaining ballots. Targets appear in order of their first vote.
func Tally(b Ballots) []Count {
	var counts []Count
	index := map[string]int{}
	for _, ballot := range b {
		if ballot.Target == "" {
			continue
		}
		i, ok := index[ballot.Target]
		if !ok {
			i = len(counts)
			index[ballot.Target] = i
			counts = append(counts, Count{Target: ballot.Target})
		}
		counts[i].Votes++
	}
	return counts
}

// Leaders returns every target holding the highest count, in tally order.
func Leaders(counts []Count) []string {
	best := 0
	for _, c := range counts {
		best = max(best, c.Votes)
	}
	var top []string
	for _, c := range counts {
		if best > 0 && c.Votes == best {
			top = append(top, c.Target)
		}
	}
	return top
}

// MajorityVote returns the most voted target, or "" when nobody voted.
// rng is drawn from only when several targets tie for the lead.
func MajorityVote(b Ballots, rng *Stream) string {
	return ResolveTally(Tally(b), rng)
}

// ResolveTally picks the leader of an already counted tally, breaking ties with rng.
func ResolveTally(counts []Count, rng *Stream) string {
	top := Leaders(counts)
	switch len(top) {
	case 0:
		return ""
	case 1:
		return top[0]
	}
	return Choice(rng, top)
}
