package email

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
	gomail "gopkg.in/gomail.v2"
)

type EmailPurpose string
type EmailBodyType string

const (
	KeyEmailSender         = "SENDER_EMAIL"
	KeyEmailSenderPassword = "SENDER_EMAIL_PASSWORD"
	KeyEmailSMTPServer     = "SMTP_SERVER"
	KeyEmailSMTPPort       = "SMTP_PORT"

	defaultSMTPServer = "smtp.gmail.com"
	defaultSMTPPort   = 587

	KeyEmailBodyPlain EmailBodyType = "text/plain"
	KeyEmailBodyHTML  EmailBodyType = "text/html"

	PurposeGroupInvitation EmailPurpose = "group_invitation"
	PurposeContestReminder EmailPurpose = "contest_reminder"

	defaultEmailChannelCapacity = 100
	defaultEmailWorkerCount     = 3
)

type EmailRequest struct {
	To       []string
	Subject  string
	Body     string
	BodyType EmailBodyType
	Purpose  EmailPurpose
}

type emailJob struct {
	EmailRequest
	from string
}

// EmailService delivers mail through a small worker pool so callers
// never block on smtp. Jobs queue on a bounded channel; a full queue
// with a dead pool surfaces as ErrEmailServiceStopped instead of a
// hang.
type EmailService struct {
	Dialer *gomail.Dialer

	jobs   chan emailJob
	logger *logrus.Entry
}

func (e *EmailService) Start() {
	e.logger = logrus.WithField("from", "email-service")

	if e.Dialer == nil {
		sender := os.Getenv(KeyEmailSender)
		password := os.Getenv(KeyEmailSenderPassword)
		if sender == "" || password == "" {
			panic("email service expects sender credentials or a preconfigured dialer")
		}
		e.Dialer = gomail.NewDialer(smtpServer(), smtpPort(), sender, password)
	}

	e.jobs = make(chan emailJob, defaultEmailChannelCapacity)
	for i := 0; i < defaultEmailWorkerCount; i++ {
		go e.work(i)
	}

	e.logger.Infof("started %d email workers", defaultEmailWorkerCount)
}

// Send queues a mail job. The sender address comes from the service
// configuration, never from the request.
func (e *EmailService) Send(ctx context.Context, req EmailRequest) error {
	if e.jobs == nil {
		log.Error("email service used before Start")
		return xjudge_errors.ErrEmailServiceStopped
	}

	job := emailJob{
		from:         e.Dialer.Username,
		EmailRequest: req,
	}
	select {
	case <-ctx.Done():
		log.Errorf("email job for %v cancelled: %v", req.Purpose, ctx.Err())
		return errors.Join(xjudge_errors.ErrEmailServiceStopped, ctx.Err())
	case e.jobs <- job:
		return nil
	}
}

func (e *EmailService) work(id int) {
	logger := e.logger.WithField("worker", id)
	for job := range e.jobs {
		msg := gomail.NewMessage()
		msg.SetHeader("From", job.from)
		msg.SetHeader("To", job.To...)
		msg.SetHeader("Subject", job.Subject)
		msg.SetBody(string(job.BodyType), job.Body)

		if err := e.Dialer.DialAndSend(msg); err != nil {
			logger.Errorf("failed to send %v mail to %v: %v", job.Purpose, job.To, err)
			continue
		}
		logger.Infof("sent %v mail to %v", job.Purpose, job.To)
	}
}

func smtpServer() string {
	if server := os.Getenv(KeyEmailSMTPServer); server != "" {
		return server
	}
	return defaultSMTPServer
}

func smtpPort() int {
	if raw := os.Getenv(KeyEmailSMTPPort); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			return port
		}
		log.Warnf("invalid %s value %q, using default", KeyEmailSMTPPort, raw)
	}
	return defaultSMTPPort
}
