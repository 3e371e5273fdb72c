// Package github is a client for github's v2 JSON api.
//
// A Client is created once and hands out accessors for users, repositories,
// issues and gists. Accessors only carry the identifiers of what they point
// to; each method performs one throttled request (or a paginated series of
// them) and decodes the json answer.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	gogithub "github.com/google/go-github/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/florinutz/gh-v2/cache"
	"github.com/florinutz/gh-v2/throttle"
)

const (
	// DefaultBaseURL is where the v2 json api lives
	DefaultBaseURL = "https://github.com/api/v2/json/"
	// DefaultGistURL serves gist metadata and raw gist files
	DefaultGistURL = "https://gist.github.com/"

	defaultTimeout = 30 * time.Second
	userAgent      = "gh-v2"
)

// Client talks to the v2 api on behalf of an optional user
type Client struct {
	baseURL *url.URL
	gistURL *url.URL

	username string
	password string
	token    string

	httpClient *http.Client
	throttle   *throttle.Throttle
	cache      *cache.Cache
	logger     log.FieldLogger
	quiet      bool

	secondaryRateLimit time.Duration
}

// Option configures a Client
type Option func(*Client) error

// WithPassword authenticates as username:password
func WithPassword(username, password string) Option {
	return func(c *Client) error {
		c.username, c.password = username, password
		return nil
	}
}

// WithToken authenticates as username/token:token
func WithToken(username, token string) Option {
	return func(c *Client) error {
		c.username, c.token = username, token
		return nil
	}
}

// WithBaseURL points the client to another api root
func WithBaseURL(rawurl string) Option {
	return func(c *Client) (err error) {
		c.baseURL, err = parseRoot(rawurl)
		return
	}
}

// WithGistURL points gist calls to another root
func WithGistURL(rawurl string) Option {
	return func(c *Client) (err error) {
		c.gistURL, err = parseRoot(rawurl)
		return
	}
}

// WithHTTPClient replaces the default http client. Its transport gets wrapped with auth.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("nil http client")
		}
		c.httpClient = hc
		return nil
	}
}

// WithThrottle replaces the default 60 requests per minute throttle; nil disables throttling
func WithThrottle(t *throttle.Throttle) Option {
	return func(c *Client) error {
		c.throttle = t
		return nil
	}
}

// WithCache serves GET requests from cache while the cached bodies are fresh
func WithCache(ch *cache.Cache) Option {
	return func(c *Client) error {
		c.cache = ch
		return nil
	}
}

// WithLogger replaces logrus' standard logger
func WithLogger(logger log.FieldLogger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// Quiet stops the client from logging failed requests. The errors are still returned.
func Quiet(quiet bool) Option {
	return func(c *Client) error {
		c.quiet = quiet
		return nil
	}
}

// WithSecondaryRateLimit sleeps through github's abuse responses, up to maxSleep at a time
func WithSecondaryRateLimit(maxSleep time.Duration) Option {
	return func(c *Client) error {
		c.secondaryRateLimit = maxSleep
		return nil
	}
}

// New creates a client. Without credentials it only reaches the public parts of the api.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		throttle: throttle.New(),
		logger:   log.StandardLogger(),
	}
	c.baseURL, _ = parseRoot(DefaultBaseURL)
	c.gistURL, _ = parseRoot(DefaultGistURL)

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.Wrap(err, "invalid client option")
		}
	}

	transport, err := c.transport()
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if c.httpClient != nil {
		timeout = c.httpClient.Timeout
	}
	c.httpClient = &http.Client{Transport: transport, Timeout: timeout}

	return c, nil
}

// transport stacks auth and the secondary rate limit waiter on top of the configured round tripper
func (c *Client) transport() (http.RoundTripper, error) {
	var base http.RoundTripper = http.DefaultTransport
	if c.httpClient != nil && c.httpClient.Transport != nil {
		base = c.httpClient.Transport
	}

	if c.IsAuthenticated() {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: BasicAuth(c.username, c.password, c.token),
				TokenType:   "Basic",
			}),
			Base: base,
		}
	}

	if c.secondaryRateLimit > 0 {
		waiter, err := github_ratelimit.NewRateLimitWaiterClient(base,
			github_ratelimit.WithSingleSleepLimit(c.secondaryRateLimit, nil))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't set up the secondary rate limit waiter")
		}
		base = waiter.Transport
	}

	return base, nil
}

// BasicAuth encodes the basic auth credentials github expects: the password wins over the token
func BasicAuth(username, password, token string) string {
	var auth string
	if password != "" {
		auth = fmt.Sprintf("%s:%s", username, password)
	} else {
		auth = fmt.Sprintf("%s/token:%s", username, token)
	}

	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// IsAuthenticated tells if there's a username and a password or token
func (c *Client) IsAuthenticated() bool {
	return c.username != "" && (c.password != "" || c.token != "")
}

// Username is the user the client is authenticated as, if any
func (c *Client) Username() string {
	return c.username
}

func (c *Client) String() string {
	if c.IsAuthenticated() {
		return fmt.Sprintf("github v2 api (auth: %s)", c.username)
	}
	return "github v2 api"
}

// Wait blocks until the throttle allows another request
func (c *Client) Wait(ctx context.Context) error {
	if d := c.throttle.Delay(); d > 0 {
		c.logger.WithField("delay", d).Info("throttled")
	}
	return c.throttle.Wait(ctx)
}

// User returns an accessor for username
func (c *Client) User(username string) User {
	return User{gh: c, Username: username}
}

// Repository returns an accessor for username/slug
func (c *Client) Repository(username, slug string) Repository {
	return Repository{gh: c, Username: username, Slug: slug}
}

// Issue returns an accessor for issue number of username/slug
func (c *Client) Issue(username, slug string, number int) Issue {
	return Issue{gh: c, Username: username, Slug: slug, Number: number}
}

// Gist returns an accessor for the gist id
func (c *Client) Gist(id string) Gist {
	return Gist{gh: c, ID: id}
}

// Organizations lists the organizations of the authenticated user
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	if err := c.requireAuth("Organizations"); err != nil {
		return nil, err
	}

	var resp struct {
		Organizations []Organization `json:"organizations"`
	}
	if err := c.get(ctx, c.endpoint("organizations"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Organizations, nil
}

func (c *Client) requireAuth(op string) error {
	if !c.IsAuthenticated() {
		return &AuthenticationRequiredError{Op: op}
	}
	return nil
}

// requireSelf lets op through only when the client is authenticated as target
func (c *Client) requireSelf(op, target string) error {
	if err := c.requireAuth(op); err != nil {
		return err
	}
	if !strings.EqualFold(c.username, target) {
		return &AccessRestrictedError{Op: op, User: c.username, Target: target}
	}
	return nil
}

// endpoint joins path segments under the base url, escaping each of them
func (c *Client) endpoint(segments ...string) string {
	return join(c.baseURL, segments...)
}

func (c *Client) gistEndpoint(segments ...string) string {
	return join(c.gistURL, segments...)
}

func join(root *url.URL, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	u := *root
	u.Path = root.Path + strings.Join(segments, "/")
	u.RawPath = root.EscapedPath() + strings.Join(escaped, "/")

	return u.String()
}

// withQuery appends the encoded opts to u
func withQuery(u string, opts interface{}) (string, error) {
	q, err := SmartEncode(opts)
	if err != nil {
		return "", err
	}
	if q == "" {
		return u, nil
	}
	return u + "?" + q, nil
}

// get decodes the json found at u (with opts as the query string) into v
func (c *Client) get(ctx context.Context, u string, opts interface{}, v interface{}) error {
	u, err := withQuery(u, opts)
	if err != nil {
		return err
	}

	body, err := c.load(ctx, u)
	if err != nil {
		return err
	}

	return c.decode(http.MethodGet, u, body, v)
}

// load returns the raw body at u, from cache when possible
func (c *Client) load(ctx context.Context, u string) ([]byte, error) {
	if c.cache != nil {
		if body, err := c.cache.ReadBody(c.cacheIdentity(), u); err == nil {
			c.logger.WithField("url", u).Debug("served from cache")
			return body, nil
		}
	}

	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.WriteBody(c.cacheIdentity(), u, body); err != nil {
			c.logger.WithError(err).WithField("url", u).Warn("couldn't cache response")
		}
	}

	return body, nil
}

// cacheIdentity separates cached bodies per set of credentials. Anonymous clients share one.
func (c *Client) cacheIdentity() string {
	if !c.IsAuthenticated() {
		return ""
	}
	return c.username + ":" + BasicAuth(c.username, c.password, c.token)
}

// post sends opts form-encoded to u and decodes the answer into v, if v isn't nil.
// The cached bodies of the stale urls are dropped once the post went through.
func (c *Client) post(ctx context.Context, u string, opts interface{}, v interface{}, stale ...string) error {
	form, err := encodeValues(opts)
	if err != nil {
		return err
	}

	body, err := c.do(ctx, http.MethodPost, u, form)
	if err != nil {
		return err
	}

	if c.cache != nil {
		for _, su := range stale {
			c.cache.Forget(c.cacheIdentity(), su)
		}
	}

	if v == nil {
		return nil
	}

	return c.decode(http.MethodPost, u, body, v)
}

func (c *Client) decode(method, u string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return c.fail(method, u, errors.Wrap(err, "couldn't decode response"))
	}
	return nil
}

// do performs a throttled request and returns the body of a successful response
func (c *Client) do(ctx context.Context, method, u string, form url.Values) ([]byte, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return nil, c.fail(method, u, errors.Wrap(err, "cannot create request"))
	}
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.WithFields(log.Fields{"method": method, "url": u}).Debug("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(method, u, err)
	}
	defer resp.Body.Close()

	if err := gogithub.CheckResponse(resp); err != nil {
		return nil, c.fail(method, u, err)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, u, errors.Wrap(err, "cannot read response"))
	}

	return body, nil
}

func (c *Client) fail(method, u string, err error) error {
	if !c.quiet {
		c.logger.WithError(err).WithFields(log.Fields{"method": method, "url": u}).Warn("request failed")
	}
	return &RequestError{Method: method, URL: u, Err: err}
}

func parseRoot(rawurl string) (*url.URL, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid url %q", rawurl)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid url %q: scheme and host are required", rawurl)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
