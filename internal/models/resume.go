package models

// ResumeSection is one normalized section of a parsed resume.
type ResumeSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Profile is the optional contact block rendered into exports.
type Profile struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Links    string `json:"links,omitempty"`
}
