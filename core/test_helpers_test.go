package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-usersig/codec"
	"github.com/goliatone/go-usersig/content"
	"github.com/goliatone/go-usersig/keys"
	"github.com/goliatone/go-usersig/keys/keystest"
)

var testIssuedAt = time.Unix(1500000000, 0).UTC()

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func newTestService(t *testing.T, algorithm string, opts ...Option) (*Service, keys.Material) {
	t.Helper()
	material := keystest.Material(t, algorithm)
	base := []Option{
		WithKeyMaterial(material),
		WithClock(fixedClock(testIssuedAt)),
		WithLogger(stubLogger{}),
	}
	svc, err := NewService(DefaultConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, material
}

// decodeCredential unwraps a credential to its JSON object.
func decodeCredential(t *testing.T, credential string) map[string]any {
	t.Helper()
	raw, err := codec.Decode(credential, 0)
	if err != nil {
		t.Fatalf("decode credential: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal credential: %v", err)
	}
	return out
}

// encodeCredential wraps an arbitrary JSON value as a credential.
func encodeCredential(t *testing.T, value any) string {
	t.Helper()
	raw, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal credential: %v", err)
	}
	encoded, err := codec.Encode(raw)
	if err != nil {
		t.Fatalf("encode credential: %v", err)
	}
	return encoded
}

// signRecord signs fields the way an issuer would and returns the JSON object
// with TLS.sig set, leaving value types of extra entries untouched.
func signRecord(t *testing.T, signer keys.Signer, kind CredentialKind, fields content.Fields, extra map[string]any) map[string]any {
	t.Helper()
	build := content.BuildForUserSig
	if kind == CredentialKindPrivateMapKey {
		build = content.BuildForPrivateMapKey
	}
	signed, err := build(fields)
	if err != nil {
		t.Fatalf("build content: %v", err)
	}
	signature, err := signer.Sign([]byte(signed))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	out := map[string]any{}
	for key, value := range fields {
		out[string(key)] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	out[string(content.FieldSig)] = base64.StdEncoding.EncodeToString(signature)
	return out
}

func userSigFields() content.Fields {
	return content.Fields{
		content.FieldAccountType: "0",
		content.FieldIdentifier:  "webrtc98",
		content.FieldAppIDAt3rd:  "0",
		content.FieldSDKAppID:    "1400037025",
		content.FieldExpireAfter: "300",
		content.FieldVersion:     ProtocolVersion,
		content.FieldTime:        "1500000000",
	}
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}
