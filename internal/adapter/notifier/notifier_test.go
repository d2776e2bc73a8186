package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/gomail.v2"

	domain "user-management-service/internal/domain/user"
)

func testUser() *domain.User {
	return &domain.User{ID: "u1", Name: "Juan Pérez", Email: "juan@example.com", CreatedAt: time.Now().UTC()}
}

type fakeSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestEmailNotifier_ComposesMessages(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifier(sender, zaptest.NewLogger(t))
	ctx := context.Background()
	u := testUser()

	require.NoError(t, n.SendWelcome(ctx, u))
	require.NoError(t, n.SendUpdateNotice(ctx, u))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, TemplateWelcome, sender.sent[0].Template)
	assert.Equal(t, u.Email, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, u.Name)
	assert.Equal(t, TemplateProfileUpdated, sender.sent[1].Template)
	assert.Equal(t, "u1", sender.sent[1].Data["user_id"])
}

func TestEmailNotifier_WrapsSenderError(t *testing.T) {
	cause := errors.New("relay refused")
	n := NewEmailNotifier(&fakeSender{err: cause}, zaptest.NewLogger(t))

	err := n.SendWelcome(context.Background(), testUser())
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "welcome")
}

func TestSimulated(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("succeeds after delay", func(t *testing.T) {
		s := NewSimulated(10*time.Millisecond, false, log)
		start := time.Now()
		require.NoError(t, s.Send(context.Background(), WelcomeMessage(testUser())))
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("configured failure", func(t *testing.T) {
		s := NewSimulated(0, true, log)
		assert.ErrorIs(t, s.Send(context.Background(), WelcomeMessage(testUser())), ErrSimulatedFailure)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		s := NewSimulated(time.Minute, false, log)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Send(ctx, WelcomeMessage(testUser())), context.Canceled)
	})
}

func TestWithTimeout(t *testing.T) {
	log := zaptest.NewLogger(t)
	slow := NewEmailNotifier(NewSimulated(time.Minute, false, log), log)

	bounded := WithTimeout(slow, 20*time.Millisecond)
	start := time.Now()
	err := bounded.SendWelcome(context.Background(), testUser())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	err = bounded.SendUpdateNotice(context.Background(), testUser())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Same(t, slow, WithTimeout(slow, 0))
}

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestRabbitMQ_PublishesEmailJob(t *testing.T) {
	pub := &fakePublisher{}
	r := &RabbitMQ{pub: pub, queue: "email_jobs"}

	require.NoError(t, r.Send(context.Background(), WelcomeMessage(testUser())))

	assert.Equal(t, "", pub.exchange)
	assert.Equal(t, "email_jobs", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), pub.msg.DeliveryMode)

	var job EmailJob
	require.NoError(t, json.Unmarshal(pub.msg.Body, &job))
	assert.Equal(t, "juan@example.com", job.To)
	assert.Equal(t, TemplateWelcome, job.Template)
	assert.Equal(t, "Juan Pérez", job.Data["name"])
}

func TestRabbitMQ_PublishError(t *testing.T) {
	r := &RabbitMQ{pub: &fakePublisher{err: errors.New("channel closed")}, queue: "email_jobs"}
	assert.Error(t, r.Send(context.Background(), WelcomeMessage(testUser())))
}

type fakeDialer struct {
	delay time.Duration
	err   error
	sent  []*gomail.Message
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	time.Sleep(f.delay)
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTP_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTP{from: "noreply@example.com", dialer: d}

	require.NoError(t, s.Send(context.Background(), UpdateNoticeMessage(testUser())))
	require.Len(t, d.sent, 1)

	var buf bytes.Buffer
	_, err := d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "To: juan@example.com")
	assert.Contains(t, raw, "From: noreply@example.com")
	assert.Contains(t, raw, "Subject: Your profile was updated")
}

func TestSMTP_ContextDone(t *testing.T) {
	s := &SMTP{from: "noreply@example.com", dialer: &fakeDialer{delay: 200 * time.Millisecond}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Send(ctx, WelcomeMessage(testUser())), context.DeadlineExceeded)
}

func TestNewSMTP_Validation(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Port: 587, From: "a@b.co"})
	assert.Error(t, err)
	_, err = NewSMTP(SMTPConfig{Host: "smtp.example.com", From: "a@b.co"})
	assert.Error(t, err)
	_, err = NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587})
	assert.Error(t, err)

	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "a@b.co"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestMailgun_Send(t *testing.T) {
	var (
		mu       sync.Mutex
		gotTo    string
		gotTitle string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		gotTo = r.FormValue("to")
		gotTitle = r.FormValue("subject")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<20240101.1@mg.example.com>","message":"Queued. Thank you."}`))
	}))
	t.Cleanup(srv.Close)

	m := NewMailgun("mg.example.com", "key-test", "noreply@mg.example.com", srv.URL+"/v3")
	require.NoError(t, m.Send(context.Background(), WelcomeMessage(testUser())))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "juan@example.com", gotTo)
	assert.Equal(t, "Welcome aboard", gotTitle)
}
