package subject

// Subject describes one quizzable topic.
type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// catalog is the fixed set of offered subjects. Enrollment and duels
// reference these by ID.
var catalog = []Subject{
	{ID: "math_lit", Name: "Mathematical Literacy", Icon: "Calculator", Description: "Applied mathematics in real world contexts.", Category: "Science"},
	{ID: "read_lit", Name: "Reading Literacy", Icon: "BookOpen", Description: "Understanding and analyzing texts.", Category: "Languages"},
	{ID: "math", Name: "Mathematics", Icon: "Sigma", Description: "Algebra, geometry, and calculus.", Category: "Science"},
	{ID: "hist_kaz", Name: "History of Kazakhstan", Icon: "Flag", Description: "Historical events of Kazakhstan.", Category: "Humanities"},
	{ID: "hist_world", Name: "World History", Icon: "Globe", Description: "Global historical events and eras.", Category: "Humanities"},
	{ID: "geo", Name: "Geography", Icon: "Map", Description: "Physical and human geography.", Category: "Science"},
	{ID: "phys", Name: "Physics", Icon: "Atom", Description: "Matter, energy, and forces.", Category: "Science"},
	{ID: "chem", Name: "Chemistry", Icon: "FlaskConical", Description: "Substances and their properties.", Category: "Science"},
	{ID: "bio", Name: "Biology", Icon: "Dna", Description: "Study of living organisms.", Category: "Science"},
	{ID: "lang_eng", Name: "English Language", Icon: "Languages", Description: "Grammar, vocabulary and comprehension.", Category: "Languages"},
}

// hardSubjects get extra quiz time (1.5x multiplier in the runner).
var hardSubjects = map[string]bool{
	"math":     true,
	"phys":     true,
	"chem":     true,
	"math_lit": true,
}

// All returns the full catalog.
func All() []Subject {
	out := make([]Subject, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a subject; ok is false for unknown ids.
func ByID(id string) (Subject, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// IsHard reports whether the subject belongs to the extended-time set.
func IsHard(id string) bool {
	return hardSubjects[id]
}

// Mutual returns the subjects both enrollment sets share, in catalog order.
// Duels may only be offered on mutual subjects.
func Mutual(enrolledA, enrolledB []string) []Subject {
	inA := make(map[string]bool, len(enrolledA))
	for _, id := range enrolledA {
		inA[id] = true
	}
	inB := make(map[string]bool, len(enrolledB))
	for _, id := range enrolledB {
		inB[id] = true
	}

	var out []Subject
	for _, s := range catalog {
		if inA[s.ID] && inB[s.ID] {
			out = append(out, s)
		}
	}
	return out
}
