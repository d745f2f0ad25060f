// ABOUTME: FreelancerProfile holds the identity used to sign generated proposals
// ABOUTME: Also stores the public links offered in custom proposals
package models

import "time"

// DefaultSignature closes proposals when no profile has been saved
const DefaultSignature = "Best Regards"

// FreelancerProfile describes the person the proposals are written for
type FreelancerProfile struct {
	Name             string    `json:"name" yaml:"name"`
	Title            string    `json:"title,omitempty" yaml:"title,omitempty"`
	Signature        string    `json:"signature,omitempty" yaml:"signature,omitempty"`
	GithubURL        string    `json:"github_url,omitempty" yaml:"github_url,omitempty"`
	StackOverflowURL string    `json:"stackoverflow_url,omitempty" yaml:"stackoverflow_url,omitempty"`
	WebsiteURL       string    `json:"website_url,omitempty" yaml:"website_url,omitempty"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}

// Merge overwrites fields that are set in update, leaving the rest alone
func (p *FreelancerProfile) Merge(update FreelancerProfile) {
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.Title != "" {
		p.Title = update.Title
	}
	if update.Signature != "" {
		p.Signature = update.Signature
	}
	if update.GithubURL != "" {
		p.GithubURL = update.GithubURL
	}
	if update.StackOverflowURL != "" {
		p.StackOverflowURL = update.StackOverflowURL
	}
	if update.WebsiteURL != "" {
		p.WebsiteURL = update.WebsiteURL
	}
	p.UpdatedAt = time.Now()
}

// SignOff returns the closing lines for a proposal
func (p *FreelancerProfile) SignOff() string {
	if p == nil || p.Name == "" {
		return DefaultSignature
	}
	sig := p.Signature
	if sig == "" {
		sig = DefaultSignature
	}
	if p.Title != "" {
		return sig + ",\n" + p.Name + "\n" + p.Title
	}
	return sig + ",\n" + p.Name
}
