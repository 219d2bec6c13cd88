package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinotrend/internal/services"
	"kinotrend/pkg/logger"
)

// fakeForum is an in-memory ForumClient.
type fakeForum struct {
	submissions []services.Submission
	moderator   bool

	deleted   []string
	submitted []string // "subreddit|title|path"
	approved  []string

	submitErr  error
	approveErr error
	modErr     error
}

func (f *fakeForum) Username() string { return "poster-bot" }

func (f *fakeForum) OwnSubmissions() ([]services.Submission, error) {
	return f.submissions, nil
}

func (f *fakeForum) DeleteSubmission(fullname string) error {
	f.deleted = append(f.deleted, fullname)
	return nil
}

func (f *fakeForum) IsModerator(subreddit string) (bool, error) {
	return f.moderator, f.modErr
}

func (f *fakeForum) SubmitImage(subreddit, title, imagePath string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, subreddit+"|"+title+"|"+imagePath)
	return "t3_" + title, nil
}

func (f *fakeForum) ApprovePost(fullname string) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, fullname)
	return nil
}

func newTestPublisher(client *fakeForum, folder string) *Publisher {
	p := New(client, "MoviePosters", folder, logger.New())
	p.SetDelay(0)
	return p
}

func writePoster(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644))
}

func TestCleanupDeletesOnlyTargetSubreddit(t *testing.T) {
	forum := &fakeForum{
		submissions: []services.Submission{
			{Fullname: "t3_a", Title: "Old poster", Subreddit: "movieposters"},
			{Fullname: "t3_b", Title: "Elsewhere", Subreddit: "golang"},
			{Fullname: "t3_c", Title: "Other case", Subreddit: "MOVIEPOSTERS"},
		},
	}
	p := newTestPublisher(forum, t.TempDir())

	require.NoError(t, p.Cleanup())
	assert.Equal(t, []string{"t3_a", "t3_c"}, forum.deleted)
}

func TestUploadTitlesAndOrder(t *testing.T) {
	dir := t.TempDir()
	writePoster(t, dir, "Zapretnaia_planeta.jpg")
	writePoster(t, dir, "Diuna_2.jpg")
	writePoster(t, dir, "notes.txt")

	forum := &fakeForum{moderator: true}
	p := newTestPublisher(forum, dir)

	require.NoError(t, p.Upload())
	assert.Equal(t, []string{
		"MoviePosters|Diuna_2|" + filepath.Join(dir, "Diuna_2.jpg"),
		"MoviePosters|Zapretnaia_planeta|" + filepath.Join(dir, "Zapretnaia_planeta.jpg"),
	}, forum.submitted)
	assert.Equal(t, []string{"t3_Diuna_2", "t3_Zapretnaia_planeta"}, forum.approved)
}

func TestUploadApprovalFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	writePoster(t, dir, "a.jpg")
	writePoster(t, dir, "b.jpg")

	forum := &fakeForum{moderator: false, approveErr: fmt.Errorf("forbidden")}
	p := newTestPublisher(forum, dir)

	require.NoError(t, p.Upload())
	assert.Len(t, forum.submitted, 2)
	assert.Empty(t, forum.approved)
}

func TestUploadSubmitFailureSkipsItem(t *testing.T) {
	dir := t.TempDir()
	writePoster(t, dir, "a.jpg")

	forum := &fakeForum{moderator: true, submitErr: fmt.Errorf("rate limited")}
	p := newTestPublisher(forum, dir)

	require.NoError(t, p.Upload())
	assert.Empty(t, forum.submitted)
	assert.Empty(t, forum.approved)
}

func TestUploadModeratorCheckFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	writePoster(t, dir, "a.jpg")

	forum := &fakeForum{modErr: fmt.Errorf("listing unavailable")}
	p := newTestPublisher(forum, dir)

	require.NoError(t, p.Upload())
	assert.Len(t, forum.submitted, 1)
}

func TestUploadMissingFolder(t *testing.T) {
	forum := &fakeForum{moderator: true}
	p := newTestPublisher(forum, filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, p.Upload())
}

func TestRunCleansThenUploads(t *testing.T) {
	dir := t.TempDir()
	writePoster(t, dir, "fresh.jpg")

	forum := &fakeForum{
		moderator: true,
		submissions: []services.Submission{
			{Fullname: "t3_old", Title: "stale", Subreddit: "MoviePosters"},
		},
	}
	p := newTestPublisher(forum, dir)

	require.NoError(t, p.Run())
	assert.Equal(t, []string{"t3_old"}, forum.deleted)
	assert.Len(t, forum.submitted, 1)
}
