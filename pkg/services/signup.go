package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"signup-relay/pkg/clients/mailchimp"
	"signup-relay/pkg/models"
	"signup-relay/pkg/utils"
)

// Title Mailchimp puts on the 400 returned for an address already on the list
const MemberExistsTitle = "Member Exists"

// OutcomeKind tags the result of relaying a signup
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeDuplicateMember
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeDuplicateMember:
		return "duplicate_member"
	case OutcomeFailure:
		return "failure"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the relay result; Reason is only set for failures
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// Succeeded reports whether the caller should be sent to the thank-you page
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeDuplicateMember
}

func Success() Outcome { return Outcome{Kind: OutcomeSuccess} }

func DuplicateMember() Outcome { return Outcome{Kind: OutcomeDuplicateMember} }

func Failure(reason string) Outcome { return Outcome{Kind: OutcomeFailure, Reason: reason} }

// ClassifyResponse maps a provider status code and problem title onto an Outcome
func ClassifyResponse(statusCode int, title string) Outcome {
	switch {
	case statusCode < http.StatusMultipleChoices:
		return Success()
	case statusCode == http.StatusBadRequest && title == MemberExistsTitle:
		return DuplicateMember()
	case title != "":
		return Failure(fmt.Sprintf("provider returned %d: %s", statusCode, title))
	default:
		return Failure(fmt.Sprintf("provider returned %d", statusCode))
	}
}

// SignupService defines the interface for relaying signups to the mailing list
type SignupService interface {
	Relay(ctx context.Context, submission models.SignupSubmission) Outcome
}

type signupServiceImpl struct {
	mailchimpClient mailchimp.Client
}

// NewSignupService creates a new signup relay service
func NewSignupService(mailchimpClient mailchimp.Client) SignupService {
	return &signupServiceImpl{
		mailchimpClient: mailchimpClient,
	}
}

// Relay makes exactly one add-member call and classifies its result
func (s *signupServiceImpl) Relay(ctx context.Context, submission models.SignupSubmission) Outcome {
	log := logrus.WithField("email", utils.RedactEmail(submission.Email))

	resp, err := s.mailchimpClient.AddMember(ctx, submission)
	if err != nil {
		log.Warnf("Signup relay failed: %v", err)
		return Failure(err.Error())
	}

	outcome := ClassifyResponse(resp.StatusCode, resp.Title)
	log = log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"outcome": outcome.Kind.String(),
	})
	if outcome.Succeeded() {
		log.Info("Signup relayed")
	} else {
		log.Warnf("Signup rejected: %s", outcome.Reason)
	}
	return outcome
}
