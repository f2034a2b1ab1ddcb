package textutil

import (
	"encoding/json"
	"sort"
)

// WordCount pairs a token with the number of times it occurred.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FrequencyTable maps each distinct token to its occurrence count. Entries are
// kept in first-seen order so output is deterministic for a given input.
type FrequencyTable struct {
	entries []WordCount
	index   map[string]int
}

// Frequency tallies tokens in a single pass.
func Frequency(tokens []string) FrequencyTable {
	table := FrequencyTable{
		entries: make([]WordCount, 0, len(tokens)),
		index:   make(map[string]int, len(tokens)),
	}
	for _, token := range tokens {
		if pos, ok := table.index[token]; ok {
			table.entries[pos].Count++
			continue
		}
		table.index[token] = len(table.entries)
		table.entries = append(table.entries, WordCount{Word: token, Count: 1})
	}
	return table
}

// Len returns the number of distinct tokens.
func (t FrequencyTable) Len() int {
	return len(t.entries)
}

// Count returns how often word occurred, or 0 when it did not.
func (t FrequencyTable) Count(word string) int {
	pos, ok := t.index[word]
	if !ok {
		return 0
	}
	return t.entries[pos].Count
}

// Total returns the sum of all counts, which equals the length of the token
// sequence the table was built from.
func (t FrequencyTable) Total() int {
	total := 0
	for _, entry := range t.entries {
		total += entry.Count
	}
	return total
}

// Entries returns a copy of the entries in first-seen order.
func (t FrequencyTable) Entries() []WordCount {
	out := make([]WordCount, len(t.entries))
	copy(out, t.entries)
	return out
}

// Top returns up to n entries ordered by descending count. Ties keep
// first-seen order. n <= 0 returns every entry.
func (t FrequencyTable) Top(n int) []WordCount {
	out := t.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// MarshalJSON encodes the table as an ordered list of entries.
func (t FrequencyTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Entries())
}

// UnmarshalJSON rebuilds the table from an ordered list of entries.
func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	var entries []WordCount
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	t.entries = make([]WordCount, 0, len(entries))
	t.index = make(map[string]int, len(entries))
	for _, entry := range entries {
		if pos, ok := t.index[entry.Word]; ok {
			t.entries[pos].Count += entry.Count
			continue
		}
		t.index[entry.Word] = len(t.entries)
		t.entries = append(t.entries, entry)
	}
	return nil
}
