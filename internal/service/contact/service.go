package contact

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/somaarjun/portfolio/backend/internal/model/contact"
)

var (
	ErrMissingField = errors.New("all fields are required")
	ErrInvalidEmail = errors.New("invalid email format")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError 描述表单校验失败，Category 为 ErrMissingField 或 ErrInvalidEmail。
type ValidationError struct {
	Category error
	Fields   []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Category.Error()
	}
	return fmt.Sprintf("%s: %s", e.Category, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Category
}

// Validate checks a form. A present but malformed email is reported ahead of
// missing fields so the visitor always learns about it.
func Validate(form contact.Form) error {
	email := strings.TrimSpace(form.Email)
	if email != "" && !emailPattern.MatchString(email) {
		return &ValidationError{Category: ErrInvalidEmail, Fields: []string{"email"}}
	}

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", form.Name},
		{"email", form.Email},
		{"subject", form.Subject},
		{"message", form.Message},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Category: ErrMissingField, Fields: missing}
	}
	return nil
}

// Service accepts contact submissions and forwards them to a Sink.
type Service struct {
	sink Sink
	now  func() time.Time
}

// NewService creates the service. A nil sink falls back to LogSink.
func NewService(sink Sink) *Service {
	if sink == nil {
		sink = LogSink{}
	}
	return &Service{sink: sink, now: time.Now}
}

// Submit validates form, records the submission and returns it.
func (s *Service) Submit(ctx context.Context, form contact.Form) (contact.Submission, error) {
	if err := Validate(form); err != nil {
		return contact.Submission{}, err
	}

	submission := contact.Submission{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Subject:   strings.TrimSpace(form.Subject),
		Message:   strings.TrimSpace(form.Message),
		Timestamp: s.now().UTC(),
		Status:    contact.StatusReceived,
	}

	if err := s.sink.Deliver(ctx, submission); err != nil {
		return contact.Submission{}, fmt.Errorf("deliver submission %s: %w", submission.ID, err)
	}
	return submission, nil
}
