package main

// ConceptStore holds the link being edited and the concepts currently on
// screen. A nil concept list means no request has completed yet.
type ConceptStore struct {
	link     string
	concepts []Concept
}

func NewConceptStore() *ConceptStore {
	return &ConceptStore{}
}

func (s *ConceptStore) SetLink(text string) {
	s.link = text
}

func (s *ConceptStore) Link() string {
	return s.link
}

// SetConcepts replaces the whole list. Passing nil resets it to absent.
func (s *ConceptStore) SetConcepts(concepts []Concept) {
	if concepts == nil {
		s.concepts = nil
		return
	}
	s.concepts = append(make([]Concept, 0, len(concepts)), concepts...)
}

// Concepts returns a copy of the current list, nil if absent.
func (s *ConceptStore) Concepts() []Concept {
	if s.concepts == nil {
		return nil
	}
	return append(make([]Concept, 0, len(s.concepts)), s.concepts...)
}

// Present reports whether a request has completed and a list is held,
// possibly empty.
func (s *ConceptStore) Present() bool {
	return s.concepts != nil
}

func (s *ConceptStore) Len() int {
	return len(s.concepts)
}

// Discard removes the concept at position index. It reports whether
// anything was removed.
func (s *ConceptStore) Discard(index int) bool {
	if index < 0 || index >= len(s.concepts) {
		return false
	}
	kept := make([]Concept, 0, len(s.concepts)-1)
	for i, c := range s.concepts {
		if i != index {
			kept = append(kept, c)
		}
	}
	s.concepts = kept
	return true
}

// DiscardID removes the concept with the given ID.
func (s *ConceptStore) DiscardID(id string) bool {
	for i, c := range s.concepts {
		if c.ID == id {
			return s.Discard(i)
		}
	}
	return false
}
