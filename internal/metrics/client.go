package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mtorres/slate/internal/model"
)

// maxConcurrentFetches limits parallel profile fetches.
const maxConcurrentFetches = 3

// Client fetches profile stats from the configured platform endpoints.
// Each platform gets its own rate limiter so one chatty scraper API cannot
// starve the others.
type Client struct {
	http     *http.Client
	perMin   int
	mu       sync.Mutex
	limiters map[model.Platform]*rate.Limiter
}

// NewClient creates a Client. requestsPerMinute applies per platform.
func NewClient(timeout time.Duration, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		perMin:   requestsPerMinute,
		limiters: make(map[model.Platform]*rate.Limiter),
	}
}

// FetchAll fetches every endpoint in parallel and returns the stats that
// succeeded. Per-endpoint failures are reported in the returned error map,
// not as a combined failure - the analytics view renders what it got.
func (c *Client) FetchAll(ctx context.Context, endpoints []Endpoint) ([]ProfileStats, map[model.Platform]error) {
	var (
		mu     sync.Mutex
		stats  []ProfileStats
		errors = make(map[model.Platform]error)
	)

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for _, ep := range endpoints {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			s, err := c.FetchProfile(ctx, ep)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errors[ep.Platform] = err
				return nil // never fail the group - errors reported per-platform
			}
			stats = append(stats, s)
			return nil
		})
	}
	_ = g.Wait()

	return stats, errors
}

// FetchProfile fetches one platform's stats, honoring the platform's rate
// limiter and decoding the duck-typed wire shape into tagged posts.
func (c *Client) FetchProfile(ctx context.Context, ep Endpoint) (ProfileStats, error) {
	if err := c.limiter(ep.Platform).Wait(ctx); err != nil {
		return ProfileStats{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return ProfileStats{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "slate/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return ProfileStats{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ProfileStats{}, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var wire wireProfile
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return ProfileStats{}, fmt.Errorf("decode profile: %w", err)
	}

	return wire.toStats(ep), nil
}

func (c *Client) limiter(p model.Platform) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[p]
	if !ok {
		l = rate.NewLimiter(rate.Limit(float64(c.perMin)/60.0), 1)
		c.limiters[p] = l
	}
	return l
}

// wireProfile mirrors the scraping APIs' response shape. Posts arrive
// duck-typed: video posts carry play_count/duration_seconds, photo posts
// carry save_count/image_count. This is the only place those field-presence
// checks happen; everything downstream sees tagged Post values.
type wireProfile struct {
	Handle     string     `json:"handle"`
	Followers  int        `json:"follower_count"`
	Following  int        `json:"following_count"`
	TotalLikes int        `json:"total_likes"`
	Posts      []wirePost `json:"posts"`
}

type wirePost struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	PostedAt string `json:"posted_at"`
	Likes    int    `json:"like_count"`
	Comments int    `json:"comment_count"`

	// Video-only fields.
	Plays    *int `json:"play_count,omitempty"`
	Shares   *int `json:"share_count,omitempty"`
	Duration *int `json:"duration_seconds,omitempty"`

	// Photo-only fields.
	Saves      *int `json:"save_count,omitempty"`
	ImageCount *int `json:"image_count,omitempty"`
}

func (w wireProfile) toStats(ep Endpoint) ProfileStats {
	stats := ProfileStats{
		Platform:   ep.Platform,
		Handle:     w.Handle,
		Followers:  w.Followers,
		Following:  w.Following,
		TotalLikes: w.TotalLikes,
		FetchedAt:  time.Now().UTC(),
	}
	if stats.Handle == "" {
		stats.Handle = ep.Handle
	}
	for _, wp := range w.Posts {
		stats.Posts = append(stats.Posts, wp.toPost())
	}
	return stats
}

func (w wirePost) toPost() Post {
	post := Post{
		ID:       w.ID,
		Caption:  w.Caption,
		Likes:    w.Likes,
		Comments: w.Comments,
	}
	if t, err := time.Parse(time.RFC3339, w.PostedAt); err == nil {
		post.Posted = t
	}

	if w.Plays != nil || w.Duration != nil {
		post.Kind = KindShortVideo
		sv := &ShortVideoPost{}
		if w.Plays != nil {
			sv.Plays = *w.Plays
		}
		if w.Shares != nil {
			sv.Shares = *w.Shares
		}
		if w.Duration != nil {
			sv.Duration = time.Duration(*w.Duration) * time.Second
		}
		post.ShortVideo = sv
		return post
	}

	post.Kind = KindPhoto
	ph := &PhotoPost{ImageCount: 1}
	if w.Saves != nil {
		ph.Saves = *w.Saves
	}
	if w.ImageCount != nil {
		ph.ImageCount = *w.ImageCount
	}
	post.Photo = ph
	return post
}
