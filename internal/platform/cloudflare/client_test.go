package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-token", "acct-1")
	c.httpClient = &http.Client{
		Transport: &rewriteTransport{base: srv.URL, wrapped: http.DefaultTransport},
	}
	return c
}

func writeResult(w http.ResponseWriter, result string) {
	_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Result: json.RawMessage(result)})
}

func TestGetZoneID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "acme.com" {
			t.Errorf("unexpected domain: %s", r.URL.Query().Get("name"))
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		writeResult(w, `[{"id":"zone-123","name":"acme.com"}]`)
	}))

	id, err := c.GetZoneID(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "zone-123", id)
}

func TestGetZoneID_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeResult(w, `[]`)
	}))

	_, err := c.GetZoneID(context.Background(), "notfound.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZoneNotFound))
}

func TestCreateZone(t *testing.T) {
	var got createZoneRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/client/v4/zones", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeResult(w, `{"id":"zone-new","name":"acme.com"}`)
	}))

	id, err := c.CreateZone(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "zone-new", id)
	assert.Equal(t, createZoneRequest{Name: "acme.com", Account: accountInfo{ID: "acct-1"}}, got)
}

func TestCreateZone_NoAccount(t *testing.T) {
	c := NewClient("test-token", "")
	_, err := c.CreateZone(context.Background(), "acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account ID")
}

// fakeZones is an in-memory zone store speaking the Cloudflare API.
type fakeZones struct {
	mu      sync.Mutex
	zones   map[string]string
	creates int
}

func (f *fakeZones) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		name := r.URL.Query().Get("name")
		if id, ok := f.zones[name]; ok {
			writeResult(w, `[{"id":"`+id+`","name":"`+name+`"}]`)
			return
		}
		writeResult(w, `[]`)
	case http.MethodPost:
		var req createZoneRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := f.zones[req.Name]; ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(apiResponse{Errors: []apiError{{Code: 1061, Message: "zone already exists"}}})
			return
		}
		f.creates++
		id := "zone-" + req.Name
		f.zones[req.Name] = id
		writeResult(w, `{"id":"`+id+`"}`)
	}
}

func TestGetOrCreateZone_Idempotent(t *testing.T) {
	zones := &fakeZones{zones: map[string]string{}}
	c := newTestClient(t, zones)
	ctx := context.Background()

	first, err := c.GetOrCreateZone(ctx, "acme.com")
	require.NoError(t, err)
	second, err := c.GetOrCreateZone(ctx, "acme.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, zones.creates)
}

func TestGetOrCreateZone_ExistingZone(t *testing.T) {
	zones := &fakeZones{zones: map[string]string{"acme.com": "zone-existing"}}
	c := newTestClient(t, zones)

	id, err := c.GetOrCreateZone(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "zone-existing", id)
	assert.Zero(t, zones.creates)
}

func TestGetOrCreateZone_LookupFailure(t *testing.T) {
	posts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(apiResponse{Errors: []apiError{{Code: 9109, Message: "Invalid access token"}}})
	}))

	_, err := c.GetOrCreateZone(context.Background(), "acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid access token")
	assert.Zero(t, posts)
}

func TestCreateDNSRecord(t *testing.T) {
	tests := []struct {
		name  string
		input RecordInput
		want  string
	}{
		{
			name:  "proxied CNAME",
			input: RecordInput{Type: "CNAME", Name: "acme.com", Content: "acme.com.s3-website-us-east-1.amazonaws.com", Proxied: boolPtr(true)},
			want:  `{"type":"CNAME","name":"acme.com","content":"acme.com.s3-website-us-east-1.amazonaws.com","ttl":1,"proxied":true}`,
		},
		{
			name:  "MX carries priority",
			input: RecordInput{Type: "MX", Name: "mail.acme.com", Content: "feedback-smtp.us-east-1.amazonses.com", Priority: intPtr(10)},
			want:  `{"type":"MX","name":"mail.acme.com","content":"feedback-smtp.us-east-1.amazonses.com","ttl":1,"priority":10}`,
		},
		{
			name:  "priority dropped for TXT",
			input: RecordInput{Type: "TXT", Name: "_amazonses.acme.com", Content: "tok", Priority: intPtr(10)},
			want:  `{"type":"TXT","name":"_amazonses.acme.com","content":"tok","ttl":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/client/v4/zones/zone-1/dns_records", r.URL.Path)
				data, _ := io.ReadAll(r.Body)
				body = string(data)
				writeResult(w, `{"id":"rec-1","type":"`+tt.input.Type+`","name":"`+tt.input.Name+`"}`)
			}))

			rec, err := c.CreateDNSRecord(context.Background(), "zone-1", tt.input)
			require.NoError(t, err)
			assert.Equal(t, "rec-1", rec.ID)
			assert.JSONEq(t, tt.want, body)
		})
	}
}

func TestCreateDNSRecord_APIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(apiResponse{Errors: []apiError{{Code: 81057, Message: "Record already exists."}}})
	}))

	_, err := c.CreateDNSRecord(context.Background(), "zone-1", RecordInput{Type: "A", Name: "acme.com", Content: "1.2.3.4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create A record acme.com")
	assert.Contains(t, err.Error(), "81057: Record already exists.")
}

func TestDo_UnsuccessfulWithOKStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(apiResponse{Success: false})
	}))

	_, err := c.GetZoneID(context.Background(), "acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request unsuccessful")
}

func TestCall_RateLimitIsNotRetried(t *testing.T) {
	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		data, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(data), `"name":"acme.com"`)
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(apiResponse{Errors: []apiError{{Code: 971, Message: "Please wait and consider throttling your request speed"}}})
	}))

	_, err := c.CreateDNSRecord(context.Background(), "zone-1", RecordInput{Type: "CNAME", Name: "acme.com", Content: "target"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Equal(t, 1, attempts)
}

// rewriteTransport rewrites request URLs to point at the test server.
type rewriteTransport struct {
	base    string
	wrapped http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = "http"
	req.URL.Host = t.base[len("http://"):]
	return t.wrapped.RoundTrip(req)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
