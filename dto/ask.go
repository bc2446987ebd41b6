package dto

type AskRequest struct {
	Question  string `json:"question" validate:"required"`
	Promotion string `json:"promotion" validate:"required"`
	Course    string `json:"course,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Source    string `json:"source,omitempty"`
	Model     string `json:"model,omitempty"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}
