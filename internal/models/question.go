package models

// Question is one assessment item. Polarity is only set for MBTI items.
type Question struct {
	ID        int       `json:"id" validate:"required,gt=0"`
	Text      string    `json:"text" validate:"required,max=500"`
	Dimension Dimension `json:"dimension" validate:"required,assessment_dimension"`
	Polarity  Polarity  `json:"polarity,omitempty" validate:"omitempty,polarity"`
}

// Response is a recorded answer keyed by question id.
type Response struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}
