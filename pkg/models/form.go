package models

// Represents the data posted by the signup form
type SignupSubmission struct {
	Email     string `json:"email" form:"email"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Message   string `json:"message" form:"message"`
}

// MergeFields are the list member attributes set on signup
type MergeFields struct {
	FirstName string `json:"FNAME"`
	LastName  string `json:"LNAME"`
	Message   string `json:"MESSAGE"`
}

// MemberRequest is the body sent to the Mailchimp add-member endpoint
type MemberRequest struct {
	EmailAddress string      `json:"email_address"`
	Status       string      `json:"status"`
	MergeFields  MergeFields `json:"merge_fields"`
}

// NewMemberRequest maps a submission onto a subscribed member payload
func NewMemberRequest(s SignupSubmission) MemberRequest {
	return MemberRequest{
		EmailAddress: s.Email,
		Status:       "subscribed",
		MergeFields: MergeFields{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Message:   s.Message,
		},
	}
}

// MemberResponse is the part of the provider reply the relay cares about
type MemberResponse struct {
	StatusCode int    `json:"-"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}
