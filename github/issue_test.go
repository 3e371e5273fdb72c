package github

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestIssue_Get(t *testing.T) {
	c, mux := setup(t)
	mux.HandleFunc(apiPrefix+"issues/show/bob/tools/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"issue":{"number":7,"state":"closed","closed_at":"2011/01/03 03:04:05 -0800"}}`)
	})

	issue := c.Repository("bob", "tools").Issue(7)
	if got := issue.String(); got != "issue #7 on bob/tools" {
		t.Errorf("Issue.String() = %q", got)
	}

	info, err := issue.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info.State != "closed" || info.ClosedAt == nil || info.ClosedAt.Hour() != 11 {
		t.Errorf("Issue.Get() = %+v", info)
	}
}

func TestIssue_Comments(t *testing.T) {
	c, mux := setup(t)
	mux.HandleFunc(apiPrefix+"issues/comments/bob/tools/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"comments":[{"id":1,"user":"alice","body":"+1"}]}`)
	})

	comments, err := c.Issue("bob", "tools", 7).Comments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].User != "alice" {
		t.Errorf("Issue.Comments() = %+v", comments)
	}
}

func TestIssue_Comment(t *testing.T) {
	c, mux := setup(t, WithToken("alice", "abc"))
	mux.HandleFunc(apiPrefix+"issues/comment/bob/tools/7", func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := r.PostFormValue("comment"); got != "fixed in c2" {
			t.Errorf("comment = %q", got)
		}
		fmt.Fprint(w, `{"comment":{"id":2,"user":"alice","body":"fixed in c2"}}`)
	})

	comment, err := c.Issue("bob", "tools", 7).Comment(context.Background(), "fixed in c2")
	if err != nil {
		t.Fatal(err)
	}
	if comment.ID != 2 {
		t.Errorf("Issue.Comment() = %+v", comment)
	}
}

func TestIssue_StateChanges(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		reopen  bool
		want    string
		wantErr error
	}{
		{"close", []Option{WithToken("alice", "abc")}, false, "closed", nil},
		{"reopen", []Option{WithToken("alice", "abc")}, true, "open", nil},
		{"anonymous close", nil, false, "", ErrAuthenticationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mux := setup(t, tt.opts...)
			mux.HandleFunc(apiPrefix+"issues/close/bob/tools/7", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"issue":{"number":7,"state":"closed"}}`)
			})
			mux.HandleFunc(apiPrefix+"issues/reopen/bob/tools/7", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"issue":{"number":7,"state":"open"}}`)
			})

			issue := c.Issue("bob", "tools", 7)
			var (
				info *IssueInfo
				err  error
			)
			if tt.reopen {
				info, err = issue.Reopen(context.Background())
			} else {
				info, err = issue.Close(context.Background())
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if info.State != tt.want {
				t.Errorf("state = %q, want %q", info.State, tt.want)
			}
		})
	}
}
