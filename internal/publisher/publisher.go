// Package publisher replaces the account's previous posts in the target
// subreddit with the current run's posters.
package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"kinotrend/internal/constants"
	"kinotrend/internal/services"
	"kinotrend/pkg/logger"
)

// imageExtensions are the poster files picked up from the output folder.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ForumClient is the forum API surface the publisher needs.
type ForumClient interface {
	Username() string
	OwnSubmissions() ([]services.Submission, error)
	DeleteSubmission(fullname string) error
	IsModerator(subreddit string) (bool, error)
	SubmitImage(subreddit, title, imagePath string) (string, error)
	ApprovePost(fullname string) error
}

// Publisher runs the two-phase publish: delete the account's prior posts
// in the subreddit, then upload each rendered poster as an image post.
// Neither phase is transactional; each item is attempted independently.
type Publisher struct {
	client    ForumClient
	subreddit string
	folder    string
	delay     time.Duration
	logger    logger.Logger
}

// New creates a publisher for one subreddit and poster folder.
func New(client ForumClient, subreddit, folder string, log logger.Logger) *Publisher {
	return &Publisher{
		client:    client,
		subreddit: subreddit,
		folder:    folder,
		delay:     constants.ForumMutationDelay,
		logger:    log,
	}
}

// SetDelay overrides the pause between forum mutations.
func (p *Publisher) SetDelay(delay time.Duration) {
	p.delay = delay
}

// Run performs cleanup then upload.
func (p *Publisher) Run() error {
	if err := p.Cleanup(); err != nil {
		return err
	}
	return p.Upload()
}

// Cleanup deletes every one of the account's posts whose subreddit
// matches the target, case-insensitively. Individual deletion failures
// are logged and skipped.
func (p *Publisher) Cleanup() error {
	p.logger.Infof("[Publisher] deleting old posts in r/%s", p.subreddit)

	submissions, err := p.client.OwnSubmissions()
	if err != nil {
		return fmt.Errorf("failed to enumerate own posts: %w", err)
	}

	for _, sub := range submissions {
		if !strings.EqualFold(sub.Subreddit, p.subreddit) {
			continue
		}

		p.logger.Infof("[Publisher] deleting post: %s", sub.Title)
		if err := p.client.DeleteSubmission(sub.Fullname); err != nil {
			p.logger.Warnf("[Publisher] failed to delete %s: %v", sub.Title, err)
		}
		time.Sleep(p.delay)
	}
	return nil
}

// Upload submits each poster in sorted filename order, titled with the
// filename stem, and attempts moderator self-approval after each one.
// Approval failures are logged per post and summarized at the end; they
// never abort the run.
func (p *Publisher) Upload() error {
	isMod, err := p.client.IsModerator(p.subreddit)
	if err != nil {
		p.logger.Warnf("[Publisher] failed to check moderator status: %v", err)
	} else if !isMod {
		p.logger.Warnf("[Publisher] %s is not a moderator of r/%s, approval will fail",
			p.client.Username(), p.subreddit)
	}

	images, err := p.listImages()
	if err != nil {
		return err
	}

	p.logger.Infof("[Publisher] uploading %d images", len(images))

	approvalFailures := 0
	for _, name := range images {
		title := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(p.folder, name)

		p.logger.Infof("[Publisher] posting: %s", title)
		fullname, err := p.client.SubmitImage(p.subreddit, title, path)
		if err != nil {
			p.logger.Warnf("[Publisher] failed to post %s: %v", title, err)
			time.Sleep(p.delay)
			continue
		}

		if err := p.client.ApprovePost(fullname); err != nil {
			p.logger.Warnf("[Publisher] failed to approve %s: %v", title, err)
			approvalFailures++
		} else {
			p.logger.Infof("[Publisher] post approved: %s", title)
		}
		time.Sleep(p.delay)
	}

	if approvalFailures > 0 {
		p.logger.Warnf("[Publisher] %d of %d posts were not approved, check moderator permissions",
			approvalFailures, len(images))
	}
	return nil
}

// listImages returns the poster filenames in sorted order.
func (p *Publisher) listImages() ([]string, error) {
	entries, err := os.ReadDir(p.folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read poster folder: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, entry.Name())
		}
	}
	sort.Strings(images)
	return images, nil
}
