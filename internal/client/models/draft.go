package models

// Draft is the unencrypted candidate produced by the draft-generation service.
type Draft struct {
	Title      string   `json:"title"`
	Content    string   `json:"journalContent"`
	Insights   []string `json:"insights"`
	MoodTags   []string `json:"moodTags"`
	Transcript string   `json:"transcript,omitempty"`
}
