// Package contacts holds the read-only emergency contact directory shown
// alongside crisis recommendations
package contacts

// Kind says how a contact is reached
type Kind string

const (
	// KindCall is voice only
	KindCall Kind = "call"
	// KindText is SMS only
	KindText Kind = "text"
	// KindCallOrText accepts both
	KindCallOrText Kind = "call_or_text"
)

// Well-known keys used by the recommender
const (
	KeyEmergency = "emergency"
	KeyLifeline  = "lifeline"
	KeyTextLine  = "crisis_text_line"
	KeyTrevor    = "trevor_project"
)

// Contact is one directory entry
type Contact struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Number       string `json:"number"`
	Kind         Kind   `json:"kind"`
	Availability string `json:"availability"`
	Note         string `json:"note,omitempty"`
}

// Directory is an immutable, ordered contact table.
// The zero value is an empty directory
type Directory struct {
	entries []Contact
	byKey   map[string]int
}

// NewDirectory copies cs into a new Directory. Later entries win on duplicate keys
func NewDirectory(cs ...Contact) Directory {
	d := Directory{
		entries: make([]Contact, 0, len(cs)),
		byKey:   make(map[string]int, len(cs)),
	}
	for _, c := range cs {
		if i, ok := d.byKey[c.Key]; ok {
			d.entries[i] = c
			continue
		}
		d.byKey[c.Key] = len(d.entries)
		d.entries = append(d.entries, c)
	}
	return d
}

// Default returns the US directory
func Default() Directory {
	return NewDirectory(
		Contact{
			Key:          KeyEmergency,
			Name:         "Emergency Services",
			Number:       "911",
			Kind:         KindCall,
			Availability: "24/7",
		},
		Contact{
			Key:          KeyLifeline,
			Name:         "988 Suicide & Crisis Lifeline",
			Number:       "988",
			Kind:         KindCallOrText,
			Availability: "24/7",
		},
		Contact{
			Key:          KeyTextLine,
			Name:         "Crisis Text Line",
			Number:       "741741",
			Kind:         KindText,
			Availability: "24/7",
			Note:         "Text HOME",
		},
		Contact{
			Key:          KeyTrevor,
			Name:         "The Trevor Project",
			Number:       "1-866-488-7386",
			Kind:         KindCall,
			Availability: "24/7",
			Note:         "LGBTQ+ young people",
		},
	)
}

// Lookup returns the contact with key
func (d Directory) Lookup(key string) (Contact, bool) {
	i, ok := d.byKey[key]
	if !ok {
		return Contact{}, false
	}
	return d.entries[i], true
}

// All returns a copy of every entry in declaration order
func (d Directory) All() []Contact {
	out := make([]Contact, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len reports the number of entries
func (d Directory) Len() int { return len(d.entries) }

// Reach renders how to reach c, eg "call or text 988"
func (c Contact) Reach() string {
	switch c.Kind {
	case KindText:
		if c.Note != "" {
			return c.Note + " to " + c.Number
		}
		return "text " + c.Number
	case KindCallOrText:
		return "call or text " + c.Number
	default:
		return "call " + c.Number
	}
}
