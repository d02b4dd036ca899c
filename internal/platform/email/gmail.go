package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
)

// sendInterval throttles sends to respect Gmail API rate limits.
const sendInterval = 3 * time.Second

// GmailSender delivers notification emails through the Gmail API using a
// long-lived refresh token.
type GmailSender struct {
	service      *gmail.Service
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

var _ portssvc.EmailSender = (*GmailSender)(nil)

// NewGmailSender builds a sender from OAuth client credentials and a refresh
// token with the gmail.send scope.
func NewGmailSender(ctx context.Context, clientID, clientSecret, refreshToken string) (*GmailSender, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("gmail sender requires client ID, client secret and refresh token")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailSender{service: service}, nil
}

// SendEmail sends one message, throttled to one send per interval.
func (s *GmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	s.sendMutex.Lock()
	defer s.sendMutex.Unlock()

	if !s.lastSendTime.IsZero() {
		elapsed := time.Since(s.lastSendTime)
		if elapsed < sendInterval {
			select {
			case <-time.After(sendInterval - elapsed):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	message := fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s", to, subject, body)
	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(message)),
	}

	if _, err := s.service.Users.Messages.Send("me", gmailMessage).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.lastSendTime = time.Now()
	return nil
}
