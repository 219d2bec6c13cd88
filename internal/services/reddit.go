package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kinotrend/internal/constants"
	"kinotrend/pkg/logger"
)

const (
	redditTokenPath     = "/api/v1/access_token"
	redditListingLimit  = 100
	redditClientTimeout = 30 * time.Second
	redditTokenSlack    = 30 * time.Second
)

// Reddit is the forum client used by the publisher. Authentication uses
// the OAuth2 password grant, so the account must be a script app owner.
type Reddit struct {
	clientID     string
	clientSecret string
	username     string
	password     string
	userAgent    string
	baseURL      string
	oauthBaseURL string
	httpClient   *http.Client
	logger       logger.Logger

	token       string
	tokenExpiry time.Time
}

// Submission is one of the account's posts.
type Submission struct {
	Fullname  string
	Title     string
	Subreddit string
}

// NewReddit creates a Reddit client for the given script app credentials.
func NewReddit(clientID, clientSecret, username, password, userAgent string) *Reddit {
	return &Reddit{
		clientID:     clientID,
		clientSecret: clientSecret,
		username:     username,
		password:     password,
		userAgent:    userAgent,
		baseURL:      constants.RedditBaseURL,
		oauthBaseURL: constants.RedditOAuthBaseURL,
		httpClient:   &http.Client{Timeout: redditClientTimeout},
		logger:       logger.New(),
	}
}

// Username returns the authenticated account name.
func (r *Reddit) Username() string {
	return r.username
}

// authenticate obtains (or refreshes) the OAuth token.
func (r *Reddit) authenticate() error {
	if r.token != "" && time.Now().Before(r.tokenExpiry.Add(-redditTokenSlack)) {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", r.username)
	form.Set("password", r.password)

	req, err := http.NewRequest(http.MethodPost,
		r.baseURL+redditTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(r.clientID, r.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request error: status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string  `json:"access_token"`
		ExpiresIn   float64 `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("empty access token, check credentials")
	}

	r.token = tokenResp.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return nil
}

// do performs an authenticated request against the OAuth API host and
// decodes the JSON response into v when v is non-nil.
func (r *Reddit) do(method, path string, form url.Values, v interface{}) error {
	if err := r.authenticate(); err != nil {
		return err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, r.oauthBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+r.token)
	req.Header.Set("User-Agent", r.userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit API error: status %d", resp.StatusCode)
	}

	if v == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				Name      string `json:"name"`
				Title     string `json:"title"`
				Subreddit string `json:"subreddit"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// OwnSubmissions enumerates all of the account's posts, newest first,
// following the pagination cursor until exhausted.
func (r *Reddit) OwnSubmissions() ([]Submission, error) {
	var submissions []Submission
	after := ""

	for {
		path := fmt.Sprintf("/user/%s/submitted?limit=%d", url.PathEscape(r.username), redditListingLimit)
		if after != "" {
			path += "&after=" + url.QueryEscape(after)
		}

		var listing listingResponse
		if err := r.do(http.MethodGet, path, nil, &listing); err != nil {
			return nil, fmt.Errorf("failed to list submissions: %w", err)
		}

		for _, child := range listing.Data.Children {
			submissions = append(submissions, Submission{
				Fullname:  child.Data.Name,
				Title:     child.Data.Title,
				Subreddit: child.Data.Subreddit,
			})
		}

		if listing.Data.After == "" || len(listing.Data.Children) == 0 {
			return submissions, nil
		}
		after = listing.Data.After
	}
}

// DeleteSubmission deletes one of the account's posts by fullname.
func (r *Reddit) DeleteSubmission(fullname string) error {
	form := url.Values{}
	form.Set("id", fullname)
	if err := r.do(http.MethodPost, "/api/del", form, nil); err != nil {
		return fmt.Errorf("failed to delete %s: %w", fullname, err)
	}
	return nil
}

type moderatorListing struct {
	Data struct {
		Children []struct {
			Name string `json:"name"`
		} `json:"children"`
	} `json:"data"`
}

// IsModerator reports whether the account moderates the subreddit.
func (r *Reddit) IsModerator(subreddit string) (bool, error) {
	path := fmt.Sprintf("/r/%s/about/moderators", url.PathEscape(subreddit))

	var listing moderatorListing
	if err := r.do(http.MethodGet, path, nil, &listing); err != nil {
		return false, fmt.Errorf("failed to list moderators: %w", err)
	}

	for _, mod := range listing.Data.Children {
		if strings.EqualFold(mod.Name, r.username) {
			return true, nil
		}
	}
	return false, nil
}

// ApprovePost approves a post as moderator.
func (r *Reddit) ApprovePost(fullname string) error {
	form := url.Values{}
	form.Set("id", fullname)
	if err := r.do(http.MethodPost, "/api/approve", form, nil); err != nil {
		return fmt.Errorf("failed to approve %s: %w", fullname, err)
	}
	return nil
}

type uploadLease struct {
	Args struct {
		Action string `json:"action"`
		Fields []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"fields"`
	} `json:"args"`
}

// SubmitImage uploads an image file and submits it as an image post,
// returning the new post's fullname.
func (r *Reddit) SubmitImage(subreddit, title, imagePath string) (string, error) {
	imageURL, err := r.uploadMedia(imagePath)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("sr", subreddit)
	form.Set("kind", "image")
	form.Set("title", title)
	form.Set("url", imageURL)
	form.Set("api_type", "json")

	var submitResp struct {
		JSON struct {
			Errors [][]string `json:"errors"`
			Data   struct {
				Name string `json:"name"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := r.do(http.MethodPost, "/api/submit", form, &submitResp); err != nil {
		return "", fmt.Errorf("failed to submit %s: %w", title, err)
	}
	if len(submitResp.JSON.Errors) > 0 {
		return "", fmt.Errorf("submit rejected: %v", submitResp.JSON.Errors[0])
	}
	return submitResp.JSON.Data.Name, nil
}

// uploadMedia requests an upload lease for the file, posts the bytes to
// the lease action URL, and returns the hosted image URL.
func (r *Reddit) uploadMedia(imagePath string) (string, error) {
	form := url.Values{}
	form.Set("filepath", filepath.Base(imagePath))
	form.Set("mimetype", mimeTypeFor(imagePath))

	var lease uploadLease
	if err := r.do(http.MethodPost, "/api/media/asset.json", form, &lease); err != nil {
		return "", fmt.Errorf("failed to obtain upload lease: %w", err)
	}

	action := lease.Args.Action
	if strings.HasPrefix(action, "//") {
		action = "https:" + action
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", imagePath, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	key := ""
	for _, field := range lease.Args.Fields {
		if field.Name == "key" {
			key = field.Value
		}
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return "", fmt.Errorf("failed to write lease field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, action, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("media upload error: status %d", resp.StatusCode)
	}
	if key == "" {
		return "", fmt.Errorf("upload lease missing key field")
	}
	return action + "/" + key, nil
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
