package feed

import (
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"inkwell/domain"
)

// Service assembles the four listing contexts. Every context reads the
// latest committed state; only the global context goes through the
// single-slot cache.
type Service struct {
	ps domain.PostService
	gs domain.GroupService
	us domain.UserService
	fs domain.FollowService

	cache    domain.FeedCache
	pageSize int

	// globalGroup collapses concurrent global-feed renders on a cache
	// miss, so the store is queried once per invalidation.
	globalGroup singleflight.Group
}

// NewService returns a feed Service with the given page size, or
// DefaultPageSize when size is not positive.
func NewService(ps domain.PostService, gs domain.GroupService, us domain.UserService, fs domain.FollowService, cache domain.FeedCache, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Service{
		ps:       ps,
		gs:       gs,
		us:       us,
		fs:       fs,
		cache:    cache,
		pageSize: pageSize,
	}
}

// PageSize returns the configured posts-per-page value.
func (s *Service) PageSize() int {
	return s.pageSize
}

// Response is the rendered body of the global and following feeds.
type Response struct {
	Page *Page `json:"page"`
}

// GroupResponse is the rendered body of a group feed: the group header
// plus a page of its posts.
type GroupResponse struct {
	Group *domain.Group `json:"group"`
	Page  *Page         `json:"page"`
}

// ProfileResponse is the rendered body of an author feed: the author,
// their follow counts, and a page of their posts.
type ProfileResponse struct {
	Author    *domain.User `json:"author"`
	Followers int          `json:"followers"`
	Following int          `json:"following"`
	Page      *Page        `json:"page"`
}

// Global returns the rendered global feed. On a cache hit the bytes
// come back verbatim, byte-identical to the prior render, without
// touching the store. On a miss the feed is rendered once (concurrent
// misses share the render) and the slot filled. The slot holds
// whatever render filled it last; it is cleared only by post creation
// or deletion.
func (s *Service) Global(page int) ([]byte, error) {
	if b, ok := s.cache.Get(); ok {
		return b, nil
	}
	v, err, _ := s.globalGroup.Do("global", func() (interface{}, error) {
		if b, ok := s.cache.Get(); ok {
			return b, nil
		}
		posts, err := s.ps.Index()
		if err != nil {
			return nil, err
		}
		pg, err := Paginate(posts, s.pageSize, page)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(&Response{Page: pg})
		if err != nil {
			return nil, err
		}
		s.cache.Set(b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Group returns one page of the posts assigned to the group with the
// given slug. A slug that does not resolve is an error, not an empty
// feed. Group feeds are never cached, so edits show up immediately.
func (s *Service) Group(slug string, page int) (*GroupResponse, error) {
	group, err := s.gs.BySlug(slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.ps.ByGroupID(group.ID)
	if err != nil {
		return nil, err
	}
	pg, err := Paginate(posts, s.pageSize, page)
	if err != nil {
		return nil, err
	}
	return &GroupResponse{Group: group, Page: pg}, nil
}

// Profile returns one page of the posts written by the given author.
// An unknown username is an error, not an empty feed.
func (s *Service) Profile(username string, page int) (*ProfileResponse, error) {
	author, err := s.us.ByUsername(username)
	if err != nil {
		return nil, err
	}
	posts, err := s.ps.ByAuthorID(author.ID)
	if err != nil {
		return nil, err
	}
	pg, err := Paginate(posts, s.pageSize, page)
	if err != nil {
		return nil, err
	}
	followers, err := s.fs.CountFollowers(author.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.fs.CountFollowing(author.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		Author:    author,
		Followers: followers,
		Following: following,
		Page:      pg,
	}, nil
}

// Following returns one page of the posts written by the authors the
// viewer follows. A viewer who follows nobody gets an empty page.
func (s *Service) Following(viewerID, page int) (*Response, error) {
	posts, err := s.ps.ByFollowed(viewerID)
	if err != nil {
		return nil, err
	}
	pg, err := Paginate(posts, s.pageSize, page)
	if err != nil {
		return nil, err
	}
	return &Response{Page: pg}, nil
}
