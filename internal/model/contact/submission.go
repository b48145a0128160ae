package contact

import "time"

// StatusReceived is the only status a submission reaches: accepting a form
// does not imply any downstream delivery.
const StatusReceived = "received"

// Form is the visitor-supplied contact payload.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submission is an accepted form with its generated identifier.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}
