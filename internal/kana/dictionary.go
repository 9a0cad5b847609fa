// Package kana holds the kana tables quizzed by typekana and checks typed
// romaji answers against them.
package kana

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnknownGroup is returned when a selection names a group the dictionary
// does not have.
var ErrUnknownGroup = errors.New("kana: unknown group")

// Entry is one kana string with its accepted romaji readings.
type Entry struct {
	Kana   string   `json:"kana"`
	Romaji []string `json:"romaji"`
}

// Dictionary holds kana grouped for selection.
type Dictionary struct {
	groups   map[string][]Entry
	order    []string
	readings map[string][]string
}

// NewDictionary creates a dictionary with the built-in hiragana and katakana
// groups.
func NewDictionary() *Dictionary {
	d := &Dictionary{
		groups:   make(map[string][]Entry),
		readings: make(map[string][]string),
	}

	d.addGroup(GroupHiragana, hiraganaBasic)
	d.addGroup(GroupHiraganaDakuten, hiraganaDakuten)
	d.addGroup(GroupHiraganaYoon, hiraganaYoon)
	d.addGroup(GroupKatakana, toKatakanaEntries(hiraganaBasic))
	d.addGroup(GroupKatakanaDakuten, toKatakanaEntries(hiraganaDakuten))
	d.addGroup(GroupKatakanaYoon, toKatakanaEntries(hiraganaYoon))

	return d
}

func (d *Dictionary) addGroup(name string, entries []Entry) {
	if _, ok := d.groups[name]; !ok {
		d.order = append(d.order, name)
	}
	d.groups[name] = append(d.groups[name], entries...)
	for _, e := range entries {
		d.readings[e.Kana] = appendUnique(d.readings[e.Kana], e.Romaji...)
	}
}

// LoadFromFile adds the rows of a JSONL file to the custom group. Each line
// is {"kana": "...", "romaji": ["..."]}; rows without a kana or a reading are
// skipped.
func (d *Dictionary) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening kana file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		e.Kana = strings.TrimSpace(e.Kana)
		e.Romaji = normalizeAll(e.Romaji)
		if e.Kana == "" || len(e.Romaji) == 0 {
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading kana file: %w", err)
	}

	d.addGroup(GroupCustom, entries)
	return nil
}

// Groups returns the group names in display order.
func (d *Dictionary) Groups() []string {
	return append([]string(nil), d.order...)
}

// Size returns the number of entries in a group.
func (d *Dictionary) Size(group string) int {
	return len(d.groups[group])
}

// Kana returns the kana of the named groups, in group then table order,
// without duplicates.
func (d *Dictionary) Kana(groups []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, g := range groups {
		entries, ok := d.groups[g]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
		}
		for _, e := range entries {
			if seen[e.Kana] {
				continue
			}
			seen[e.Kana] = true
			out = append(out, e.Kana)
		}
	}
	return out, nil
}

// Romaji returns the accepted readings of k, preferred spelling first.
func (d *Dictionary) Romaji(k string) []string {
	return d.readings[k]
}

// Check reports whether answer is an accepted reading of k. Case and
// whitespace are ignored.
func (d *Dictionary) Check(k, answer string) bool {
	answer = normalize(answer)
	if answer == "" {
		return false
	}
	for _, r := range d.readings[k] {
		if r == answer {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func normalizeAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = normalize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
