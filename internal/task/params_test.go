package task

import (
	"testing"

	apperrors "ghfetch/internal/errors"
)

func validParams() Params {
	return Params{
		RepoName:          "acme/widget",
		ReleaseFileName:   "widget.zip",
		TagName:           "v1.0.0",
		DestinationFolder: "/tmp/out",
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		valid  bool
	}{
		{"well formed", func(p *Params) {}, true},
		{"latest without tag", func(p *Params) { p.TagName = ""; p.GetLatest = true }, true},
		{"empty repo", func(p *Params) { p.RepoName = "" }, false},
		{"missing owner", func(p *Params) { p.RepoName = "/widget" }, false},
		{"missing repo name", func(p *Params) { p.RepoName = "acme/" }, false},
		{"extra segment", func(p *Params) { p.RepoName = "acme/widget/extra" }, false},
		{"no separator", func(p *Params) { p.RepoName = "acmewidget" }, false},
		{"blank segments", func(p *Params) { p.RepoName = " / " }, false},
		{"missing tag", func(p *Params) { p.TagName = "" }, false},
		{"missing asset name", func(p *Params) { p.ReleaseFileName = "" }, false},
		{"missing destination", func(p *Params) { p.DestinationFolder = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected a validation error")
			}
			if code := apperrors.CodeOf(err); code != apperrors.CodeInvalidInput {
				t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
			}
		})
	}
}

func TestOwnerRepo(t *testing.T) {
	p := validParams()

	owner, repo, err := p.OwnerRepo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != "acme" || repo != "widget" {
		t.Errorf("got %q/%q, want acme/widget", owner, repo)
	}
}
