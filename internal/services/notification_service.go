package services

import (
	"fmt"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/models"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotificationService sends employer-facing email and SMS. Both clients
// are optional: a nil client turns the corresponding channel into a no-op,
// which is how local development runs. Delivery failures are logged and
// never propagate into workflow transactions.
type NotificationService struct {
	emailClient *sendgrid.Client
	smsClient   *twilio.RestClient

	fromEmail string
	fromName  string
	smsFrom   string
}

func NewNotificationService(
	emailClient *sendgrid.Client,
	smsClient *twilio.RestClient,
	fromEmail, fromName, smsFrom string,
) *NotificationService {
	return &NotificationService{
		emailClient: emailClient,
		smsClient:   smsClient,
		fromEmail:   fromEmail,
		fromName:    fromName,
		smsFrom:     smsFrom,
	}
}

func (s *NotificationService) sendEmail(to, toName, subject, body string) {
	if s.emailClient == nil {
		utils.Logger.WithField("to", to).Debug("Email client not configured; skipping email")
		return
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, body)
	resp, err := s.emailClient.Send(message)
	if err != nil {
		utils.Logger.WithError(err).WithField("to", to).Warn("Failed to send email")
		return
	}
	if resp.StatusCode >= 400 {
		utils.Logger.WithFields(logrus.Fields{
			"to":     to,
			"status": resp.StatusCode,
		}).Warn("SendGrid rejected email")
	}
}

func (s *NotificationService) sendSMS(to, body string) {
	if s.smsClient == nil || to == "" {
		return
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.smsFrom)
	params.SetBody(body)
	if _, err := s.smsClient.Api.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).WithField("to", to).Warn("Failed to send SMS")
	}
}

func phoneOf(e *models.Employer) string {
	if e.PhoneNumber != nil {
		return *e.PhoneNumber
	}
	return ""
}

// NotifyRequestApproved tells the employer their request passed moderation.
func (s *NotificationService) NotifyRequestApproved(employer *models.Employer, req *models.EmployerRequest) {
	s.sendEmail(employer.Email, employer.ContactName,
		"Your candidate request was approved",
		fmt.Sprintf("Hello %s,\n\nYour request %s has been approved. An admin will follow up with payment instructions for photo access.", employer.ContactName, req.ID))
}

func (s *NotificationService) NotifyRequestRejected(employer *models.Employer, req *models.EmployerRequest, reason string) {
	s.sendEmail(employer.Email, employer.ContactName,
		"Your candidate request was rejected",
		fmt.Sprintf("Hello %s,\n\nYour request %s was rejected.\nReason: %s", employer.ContactName, req.ID, reason))
}

// NotifyPaymentRequired goes out whenever an admin issues a payment. The
// SMS leg matters here; employers pay by mobile transfer.
func (s *NotificationService) NotifyPaymentRequired(employer *models.Employer, req *models.EmployerRequest, payment *models.Payment) {
	stage := "photo access"
	if payment.Type == models.PaymentTypeFullDetails {
		stage = "full candidate details"
	}
	s.sendEmail(employer.Email, employer.ContactName,
		"Payment required for your candidate request",
		fmt.Sprintf("Hello %s,\n\nTo proceed with %s on request %s, please transfer %d %s and confirm the transfer in your dashboard.",
			employer.ContactName, stage, req.ID, payment.Amount, payment.Currency))
	s.sendSMS(phoneOf(employer),
		fmt.Sprintf("Payment of %d %s required for your candidate request. Confirm the transfer in your dashboard once sent.", payment.Amount, payment.Currency))
}

func (s *NotificationService) NotifyPaymentApproved(employer *models.Employer, req *models.EmployerRequest, payment *models.Payment) {
	granted := "the candidate's photo"
	if payment.Type == models.PaymentTypeFullDetails {
		granted = "the candidate's full details"
	}
	s.sendEmail(employer.Email, employer.ContactName,
		"Payment approved",
		fmt.Sprintf("Hello %s,\n\nYour payment for request %s was verified. You now have access to %s.", employer.ContactName, req.ID, granted))
	s.sendSMS(phoneOf(employer), "Your payment was verified. New candidate access is available in your dashboard.")
}

func (s *NotificationService) NotifyPaymentRejected(employer *models.Employer, req *models.EmployerRequest, reason string) {
	s.sendEmail(employer.Email, employer.ContactName,
		"Payment could not be verified",
		fmt.Sprintf("Hello %s,\n\nWe could not verify your payment for request %s.\nReason: %s\n\nThe payment step has been reopened.", employer.ContactName, req.ID, reason))
	s.sendSMS(phoneOf(employer), "Your payment could not be verified. Please check your dashboard and try again.")
}

func (s *NotificationService) NotifyFullDetailsDecision(employer *models.Employer, req *models.EmployerRequest, approved bool) {
	if approved {
		s.sendEmail(employer.Email, employer.ContactName,
			"Full details request approved",
			fmt.Sprintf("Hello %s,\n\nYour full details request on %s was approved. Payment instructions follow in your dashboard.", employer.ContactName, req.ID))
		return
	}
	s.sendEmail(employer.Email, employer.ContactName,
		"Full details request declined",
		fmt.Sprintf("Hello %s,\n\nYour full details request on %s was declined. You keep photo-level access.", employer.ContactName, req.ID))
}
