package question

// Difficulty levels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Question is the normalized payload delivered to quiz runners. Both duel
// participants receive identical Question values snapshotted at creation.
type Question struct {
	ID            string   `json:"id"`
	SubjectID     string   `json:"subject_id"`
	Difficulty    string   `json:"difficulty"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}
