package provisioning

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockObserver is a test implementation of Observer that records events.
// Observers derived with WithFields share the recording.
type MockObserver struct {
	rec    *recording
	fields map[string]string
}

type recording struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		rec:    &recording{},
		fields: make(map[string]string),
	}
}

func (m *MockObserver) Printf(format string, v ...interface{}) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.messages = append(m.rec.messages, fmt.Sprintf(format, v...))
}

func (m *MockObserver) Event(event Event) {
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range m.fields {
		if _, ok := event.Fields[k]; !ok {
			event.Fields[k] = v
		}
	}
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.events = append(m.rec.events, event)
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	newObserver := &MockObserver{rec: m.rec, fields: make(map[string]string)}
	for k, v := range m.fields {
		newObserver.fields[k] = v
	}
	for k, v := range fields {
		newObserver.fields[k] = v
	}
	return newObserver
}

func (m *MockObserver) events() []Event {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return append([]Event(nil), m.rec.events...)
}

func (m *MockObserver) eventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func TestConsoleObserver_Printf(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf, 0)

	observer.Printf("test message: %s", "value")

	assert.Contains(t, buf.String(), "test message: value")
}

func TestConsoleObserver_Event(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf, 0)

	observer.Event(Event{
		Type:     EventResourceCreated,
		Step:     "deploy-user",
		Resource: "acme-deploy",
		Message:  "iam user created",
		Fields: map[string]string{
			"id": "arn:aws:iam::123456789012:user/acme-deploy",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "iam user created")
	assert.Contains(t, out, "deploy-user")
	assert.Contains(t, out, "acme-deploy")
	assert.Contains(t, out, "resource.created")
}

func TestConsoleObserver_Verbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantStart bool
	}{
		{"info hides step starts", 0, false},
		{"debug shows step starts", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			observer := NewConsoleObserver(&buf, tt.verbosity)

			LogStepStart(observer, "site-bucket")
			LogStepComplete(observer, "site-bucket", time.Second)

			assert.Equal(t, tt.wantStart, bytes.Contains(buf.Bytes(), []byte("starting")))
			assert.Contains(t, buf.String(), "completed in 1s")
		})
	}
}

func TestConsoleObserver_WithFields(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf, 0)

	contextual := observer.WithFields(map[string]string{
		"run_id":  "run-1",
		"project": "acme",
	})
	require.NotNil(t, contextual)

	contextual.Printf("hello")
	assert.Contains(t, buf.String(), "run-1")
	assert.Contains(t, buf.String(), "acme")

	buf.Reset()
	observer.Printf("parent")
	assert.NotContains(t, buf.String(), "run-1", "parent observer must not gain fields")
}

func TestVerbosityFor(t *testing.T) {
	assert.Equal(t, 0, VerbosityFor("info"))
	assert.Equal(t, 0, VerbosityFor(""))
	assert.Equal(t, 1, VerbosityFor("debug"))
	assert.Equal(t, 1, VerbosityFor("trace"))
}

func TestMockObserver_Events(t *testing.T) {
	observer := NewMockObserver()

	LogStepStart(observer, "deploy-user")
	LogResourceCreating(observer, "deploy-user", "iam user", "acme-deploy")
	LogResourceCreated(observer, "deploy-user", "iam user", "acme-deploy", "arn")
	LogStepComplete(observer, "deploy-user", 2*time.Second)

	events := observer.events()
	require.Len(t, events, 4)

	assert.Equal(t, EventStepStarted, events[0].Type)
	assert.Equal(t, "deploy-user", events[0].Step)

	assert.Equal(t, EventResourceCreating, events[1].Type)
	assert.Equal(t, "acme-deploy", events[1].Resource)

	assert.Equal(t, EventResourceCreated, events[2].Type)
	assert.Equal(t, "arn", events[2].Fields["id"])

	assert.Equal(t, EventStepCompleted, events[3].Type)
}

func TestObserver_ImplementsLogger(t *testing.T) {
	var logger Logger
	var observer Observer = NewConsoleObserver(&bytes.Buffer{}, 0)

	logger = observer
	assert.NotNil(t, logger)
}

func TestLogHelpers(t *testing.T) {
	observer := NewMockObserver()

	LogStepStart(observer, "step1")
	LogStepComplete(observer, "step1", time.Second)
	LogStepFailed(observer, "step2", assert.AnError)
	LogStepSkipped(observer, "step3", "disabled")
	LogResourceCreating(observer, "site-bucket", "s3 bucket", "acme.com")
	LogResourceCreated(observer, "site-bucket", "s3 bucket", "acme.com", "")
	LogResourceDeleting(observer, "site-bucket", "s3 bucket", "acme.com")
	LogResourceDeleted(observer, "site-bucket", "s3 bucket", "acme.com")

	events := observer.events()
	require.Len(t, events, 8)
	assert.Equal(t, "skipped: disabled", events[3].Message)
	_, hasID := events[5].Fields["id"]
	assert.False(t, hasID, "empty id must not be logged")
	assert.Equal(t, EventResourceDeleted, events[7].Type)
}
