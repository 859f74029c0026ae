package model

// Relationship - связь психолога с пациентом и условия по умолчанию для новых сессий
type Relationship struct {
	ID             string  `json:"id"`
	PsychologistID string  `json:"psychologistId"`
	PatientID      string  `json:"patientId"`
	PatientName    string  `json:"patientName"`
	DefaultPrice   float64 `json:"defaultPrice"`
	PercentPsych   float64 `json:"percent_psych"`
	Active         bool    `json:"active"`
}
