package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gogithub "github.com/google/go-github/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/florinutz/gh-v2/cache"
	"github.com/florinutz/gh-v2/throttle"
)

const apiPrefix = "/api/v2/json/"

// setup starts a server for mux and returns a client pointed at it
func setup(t *testing.T, opts ...Option) (*Client, *http.ServeMux) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := log.New()
	logger.Out = ioutil.Discard

	defaults := []Option{
		WithBaseURL(srv.URL + apiPrefix),
		WithGistURL(srv.URL),
		WithThrottle(nil),
		WithLogger(logger),
	}
	c, err := New(append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return c, mux
}

func TestSmartEncode(t *testing.T) {
	type params struct {
		Page  *int    `url:"page,omitempty"`
		Limit *int    `url:"limit,omitempty"`
		Sort  *string `url:"sort,omitempty"`
	}

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil page is left out", params{Limit: Int(5)}, "limit=5"},
		{"nothing set", params{}, ""},
		{"zero is kept", params{Page: Int(0)}, "page=0"},
		{"sorted keys", params{Page: Int(2), Limit: Int(5), Sort: String("a b")}, "limit=5&page=2&sort=a+b"},
		{"nil options", nil, ""},
		{"nil pointer", (*params)(nil), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SmartEncode(tt.in)
			if err != nil {
				t.Fatalf("SmartEncode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SmartEncode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		name                      string
		username, password, token string
		want                      string
	}{
		{"password", "alice", "secret", "", "alice:secret"},
		{"token", "alice", "", "abc123", "alice/token:abc123"},
		{"password wins", "alice", "secret", "abc123", "alice:secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicAuth(tt.username, tt.password, tt.token)
			want := base64.StdEncoding.EncodeToString([]byte(tt.want))
			if got != want {
				t.Errorf("BasicAuth() = %q, want %q", got, want)
			}
		})
	}
}

func TestClient_IsAuthenticated(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want bool
	}{
		{"anonymous", nil, false},
		{"password", []Option{WithPassword("alice", "secret")}, true},
		{"token", []Option{WithToken("alice", "abc")}, true},
		{"username only", []Option{WithToken("alice", "")}, false},
		{"no username", []Option{WithPassword("", "secret")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if got := c.IsAuthenticated(); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	if _, err := New(WithBaseURL("no-scheme")); err == nil {
		t.Error("New() accepted a base url without scheme")
	}
}

func TestClient_SendsBasicAuth(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantUser string
		wantPass string
		wantAuth bool
	}{
		{"token", []Option{WithToken("alice", "abc")}, "alice/token", "abc", true},
		{"password", []Option{WithPassword("alice", "secret")}, "alice", "secret", true},
		{"anonymous", nil, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mux := setup(t, tt.opts...)
			mux.HandleFunc(apiPrefix+"user/show/alice", func(w http.ResponseWriter, r *http.Request) {
				user, pass, ok := r.BasicAuth()
				if ok != tt.wantAuth || user != tt.wantUser || pass != tt.wantPass {
					t.Errorf("basic auth = %q, %q, %v; want %q, %q, %v",
						user, pass, ok, tt.wantUser, tt.wantPass, tt.wantAuth)
				}
				fmt.Fprint(w, `{"user":{"login":"alice"}}`)
			})

			if _, err := c.User("alice").Get(context.Background()); err != nil {
				t.Fatalf("User.Get() error = %v", err)
			}
		})
	}
}

func TestClient_Organizations_RequiresAuthentication(t *testing.T) {
	c, mux := setup(t)
	mux.HandleFunc(apiPrefix+"organizations", func(w http.ResponseWriter, r *http.Request) {
		t.Error("anonymous client reached the server")
	})

	_, err := c.Organizations(context.Background())
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("Organizations() error = %v, want %v", err, ErrAuthenticationRequired)
	}
	if err.Error() != "Organizations requires authentication" {
		t.Errorf("Organizations() error message = %q", err.Error())
	}
}

func TestClient_Organizations(t *testing.T) {
	c, mux := setup(t, WithToken("alice", "abc"))
	mux.HandleFunc(apiPrefix+"organizations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organizations":[{"login":"acme","type":"Organization"}]}`)
	})

	orgs, err := c.Organizations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != 1 || orgs[0].Login != "acme" {
		t.Errorf("Organizations() = %+v", orgs)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			"not found",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"Not Found"}`, http.StatusNotFound)
			},
			IsNotFound,
		},
		{
			"rate limited",
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"API rate limit exceeded for 127.0.0.1."}`)
			},
			IsRateLimitError,
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			func(err error) bool {
				var errResp *gogithub.ErrorResponse
				return errors.As(err, &errResp) && errResp.Response.StatusCode == http.StatusInternalServerError
			},
		},
		{
			"garbage body",
			func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>`)
			},
			func(err error) bool {
				var reqErr *RequestError
				return errors.As(err, &reqErr) && reqErr.Method == http.MethodGet
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mux := setup(t, Quiet(true))
			mux.HandleFunc(apiPrefix+"user/show/bob", tt.handler)

			info, err := c.User("bob").Get(context.Background())
			if err == nil {
				t.Fatalf("User.Get() = %+v, want an error", info)
			}
			if !tt.check(err) {
				t.Errorf("User.Get() error = %#v doesn't pass the check", err)
			}
		})
	}
}

func TestClient_TransportFailureIsReported(t *testing.T) {
	c, _ := setup(t, Quiet(true))
	c.baseURL, _ = parseRoot("http://127.0.0.1:1/")

	_, err := c.User("bob").Get(context.Background())

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("User.Get() error = %v, want a *RequestError", err)
	}
	if reqErr.URL != "http://127.0.0.1:1/user/show/bob" {
		t.Errorf("RequestError.URL = %q", reqErr.URL)
	}
}

func TestClient_Cache(t *testing.T) {
	c, mux := setup(t, WithCache(cache.NewMemoryCache(time.Minute)))

	hits := 0
	mux.HandleFunc(apiPrefix+"user/show/bob", func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"user":{"login":"bob"}}`)
	})

	for i := 0; i < 3; i++ {
		info, err := c.User("bob").Get(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if info.Login != "bob" {
			t.Errorf("User.Get().Login = %q", info.Login)
		}
	}

	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestClient_CacheDroppedAfterPost(t *testing.T) {
	c, mux := setup(t, WithToken("alice", "abc"), WithCache(cache.NewMemoryCache(time.Hour)))

	state := "open"
	mux.HandleFunc(apiPrefix+"issues/show/alice/tools/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"issue":{"number":1,"state":%q}}`, state)
	})
	mux.HandleFunc(apiPrefix+"issues/close/alice/tools/1", func(w http.ResponseWriter, r *http.Request) {
		state = "closed"
		fmt.Fprintf(w, `{"issue":{"number":1,"state":%q}}`, state)
	})

	issue := c.Issue("alice", "tools", 1)
	ctx := context.Background()

	before, err := issue.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := issue.Close(ctx); err != nil {
		t.Fatal(err)
	}
	after, err := issue.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if before.State != "open" || after.State != "closed" {
		t.Errorf("state before/after Close = %q/%q, want open/closed", before.State, after.State)
	}
}

func TestClient_CacheSeparatesCredentials(t *testing.T) {
	shared := cache.NewMemoryCache(time.Hour)
	first, mux := setup(t, WithToken("alice", "first"), WithCache(shared))

	hits := 0
	mux.HandleFunc(apiPrefix+"user/show/bob", func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, `{"user":{"login":"bob","name":%q}}`, r.Header.Get("Authorization"))
	})

	client := func(opts ...Option) *Client {
		defaults := []Option{
			WithBaseURL(first.baseURL.String()),
			WithThrottle(nil),
			WithLogger(first.logger),
			WithCache(shared),
		}
		c, err := New(append(defaults, opts...)...)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}

	tests := []struct {
		name     string
		gh       *Client
		wantHits int
	}{
		{"first token", first, 1},
		{"first token again", first, 1},
		{"same user, other token", client(WithToken("alice", "second")), 2},
		{"username without credentials", client(WithToken("alice", "")), 3},
		{"anonymous", client(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := tt.gh.User("bob").Get(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if hits != tt.wantHits {
				t.Errorf("server hit %d times, want %d", hits, tt.wantHits)
			}
			if want := authHeader(tt.gh); info.Name != want {
				t.Errorf("served a body fetched with %q, want %q", info.Name, want)
			}
		})
	}
}

func authHeader(c *Client) string {
	if !c.IsAuthenticated() {
		return ""
	}
	return "Basic " + BasicAuth(c.username, c.password, c.token)
}

func TestClient_LogsThrottleDelay(t *testing.T) {
	now := time.Date(2011, 1, 2, 3, 4, 5, 0, time.UTC)
	th := throttle.New(
		throttle.WithLimit(1, time.Hour),
		throttle.WithClock(
			func() time.Time { return now },
			func(ctx context.Context, d time.Duration) error { return nil },
		),
	)
	logger, hook := logtest.NewNullLogger()
	c, mux := setup(t, WithThrottle(th), WithLogger(logger))
	mux.HandleFunc(apiPrefix+"repos/show/bob/tools/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tags":{}}`)
	})

	throttled := func() []*log.Entry {
		var entries []*log.Entry
		for _, e := range hook.AllEntries() {
			if e.Message == "throttled" {
				entries = append(entries, e)
			}
		}
		return entries
	}

	if _, err := c.Repository("bob", "tools").Tags(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := throttled(); len(got) != 0 {
		t.Fatalf("first request logged %d throttle entries, want none", len(got))
	}

	if _, err := c.Repository("bob", "tools").Tags(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := throttled()
	if len(got) != 1 {
		t.Fatalf("second request logged %d throttle entries, want 1", len(got))
	}
	if got[0].Level != log.InfoLevel {
		t.Errorf("throttle entry level = %v, want info", got[0].Level)
	}
	if d, _ := got[0].Data["delay"].(time.Duration); d != time.Hour {
		t.Errorf("throttle entry delay = %v, want %v", got[0].Data["delay"], time.Hour)
	}
}

func TestClient_Throttled(t *testing.T) {
	th := throttle.New(throttle.WithLimit(100, time.Hour))
	c, mux := setup(t, WithThrottle(th))
	mux.HandleFunc(apiPrefix+"repos/show/bob/tools/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tags":{}}`)
	})

	for i := 0; i < 3; i++ {
		if _, err := c.Repository("bob", "tools").Tags(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if got := th.Len(); got != 3 {
		t.Errorf("throttle recorded %d requests, want 3", got)
	}
}

func TestClient_ThrottleCancelled(t *testing.T) {
	th := throttle.New(throttle.WithLimit(1, time.Hour))
	c, mux := setup(t, WithThrottle(th))
	mux.HandleFunc(apiPrefix+"user/show/bob", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user":{"login":"bob"}}`)
	})

	if _, err := c.User("bob").Get(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.User("bob").Get(ctx); err != context.DeadlineExceeded {
		t.Errorf("User.Get() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestClient_String(t *testing.T) {
	anon, _ := New()
	authed, _ := New(WithPassword("alice", "secret"))

	if got := anon.String(); got != "github v2 api" {
		t.Errorf("String() = %q", got)
	}
	if got := authed.String(); got != "github v2 api (auth: alice)" {
		t.Errorf("String() = %q", got)
	}
}

func TestClient_EndpointEscapes(t *testing.T) {
	c, _ := setup(t)

	got := c.Repository("bob", "tools").issueEndpoint("show", 7)
	want := c.baseURL.String() + "issues/show/bob/tools/7"
	if got != want {
		t.Errorf("issueEndpoint() = %q, want %q", got, want)
	}

	got = c.endpoint("commits", "list", "bob", "tools", "feature/x")
	want = c.baseURL.String() + "commits/list/bob/tools/feature%2Fx"
	if got != want {
		t.Errorf("endpoint() = %q, want %q", got, want)
	}
}
