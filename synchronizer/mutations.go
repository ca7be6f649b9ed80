package synchronizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/debatify/debatify-go/model"
	Logger "github.com/debatify/debatify-go/utils/log"
)

// Local guard failures, raised before any request is issued.
var (
	ErrLoginRequired  = errors.New("you must be logged in")
	ErrActionInFlight = errors.New("action already in progress")
	ErrEmptyComment   = errors.New("comment cannot be empty")
	ErrMissingStance  = errors.New("please select your stance")
)

type VoteDirection string

const (
	Upvote   VoteDirection = "upvote"
	Downvote VoteDirection = "downvote"
)

type voteResponse struct {
	Upvotes     int      `json:"upvotes"`
	Downvotes   int      `json:"downvotes"`
	UpvotedBy   []string `json:"upvotedBy"`
	DownvotedBy []string `json:"downvotedBy"`
}

type bookmarkResponse struct {
	BookmarkCount int  `json:"bookmarkCount"`
	IsBookmarked  bool `json:"isBookmarked"`
}

type commentResponse struct {
	Comments []model.Comment `json:"comments"`
}

type likeResponse struct {
	Likes   int      `json:"likes"`
	LikedBy []string `json:"likedBy"`
}

// Vote submits an up or down vote and applies the mutation response
// directly to local state so the viewer's own action renders with zero
// latency. The tri-state transition (none/up/down) is enforced server-side;
// the response's voter lists are authoritative. A second Vote while one is
// in flight fails fast without a request.
func (s *Synchronizer) Vote(ctx context.Context, direction VoteDirection) error {
	release, err := s.acquire(&s.voting)
	if err != nil {
		return err
	}
	defer release()

	var resp voteResponse
	path := fmt.Sprintf("%s/%s", s.entityPath(), direction)
	if err := s.api.Post(ctx, path, struct{}{}, &resp); err != nil {
		return errors.Wrap(err, "vote failed")
	}

	s.mu.Lock()
	if s.entity != nil {
		s.entity.Upvotes = resp.Upvotes
		s.entity.Downvotes = resp.Downvotes
		if resp.UpvotedBy != nil {
			s.entity.UpvotedBy = resp.UpvotedBy
		}
		if resp.DownvotedBy != nil {
			s.entity.DownvotedBy = resp.DownvotedBy
		}
	}
	s.mu.Unlock()
	s.publishSnapshot()
	return nil
}

// ToggleBookmark flips the viewer's bookmark on this entity.
func (s *Synchronizer) ToggleBookmark(ctx context.Context) error {
	release, err := s.acquire(&s.bookmarking)
	if err != nil {
		return err
	}
	defer release()

	var resp bookmarkResponse
	if err := s.api.Post(ctx, s.entityPath()+"/bookmark", struct{}{}, &resp); err != nil {
		return errors.Wrap(err, "bookmark failed")
	}

	s.mu.Lock()
	if s.entity != nil {
		s.entity.BookmarkCount = resp.BookmarkCount
		s.entity.IsBookmarked = resp.IsBookmarked
	}
	s.mu.Unlock()
	s.publishSnapshot()
	return nil
}

// PostComment submits a comment. For debates the stance is forced to the
// locked stance once the viewer has commented before; the first comment
// locks it. The backend returns the full updated comment list and the new
// comment is appended locally from it.
func (s *Synchronizer) PostComment(ctx context.Context, text, stance string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}

	body := map[string]string{"text": text}
	if s.entityType == model.EntityDebate {
		locked := s.StanceLocked()
		if locked != "" {
			stance = locked
		}
		if !model.ValidStance(stance) {
			return ErrMissingStance
		}
		body["stance"] = stance
	}

	release, err := s.acquire(&s.commenting)
	if err != nil {
		return err
	}
	defer release()

	var resp commentResponse
	if err := s.api.Post(ctx, s.entityPath()+"/comment", body, &resp); err != nil {
		return errors.Wrap(err, "comment failed")
	}
	if len(resp.Comments) == 0 {
		Logger.LogV2.Error("comment response carried no comments")
		return errors.New("malformed comment response")
	}

	newComment := resp.Comments[len(resp.Comments)-1]
	s.mu.Lock()
	if s.entity != nil {
		s.entity.Comments = append(s.entity.Comments, newComment)
	}
	if s.entityType == model.EntityDebate && s.stanceLocked == "" {
		s.stanceLocked = stance
	}
	s.mu.Unlock()
	s.publishSnapshot()
	return nil
}

// LikeComment toggles the viewer's like on one comment; only likes/likedBy
// of that comment are patched from the response.
func (s *Synchronizer) LikeComment(ctx context.Context, commentId string) error {
	release, err := s.acquire(&s.liking)
	if err != nil {
		return err
	}
	defer release()

	var resp likeResponse
	path := fmt.Sprintf("%s/comment/%s/like", s.entityPath(), commentId)
	if err := s.api.Post(ctx, path, struct{}{}, &resp); err != nil {
		return errors.Wrap(err, "comment like failed")
	}

	s.mu.Lock()
	if s.entity != nil {
		for i := range s.entity.Comments {
			if s.entity.Comments[i].Id == commentId {
				s.entity.Comments[i].Likes = resp.Likes
				s.entity.Comments[i].LikedBy = resp.LikedBy
				break
			}
		}
	}
	s.mu.Unlock()
	s.publishSnapshot()
	return nil
}

// acquire takes the busy flag for one action after the login guard. The
// returned release must run whether the request succeeds or fails.
func (s *Synchronizer) acquire(flag *bool) (func(), error) {
	if !s.session.Authenticated() {
		return nil, ErrLoginRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return nil, ErrActionInFlight
	}
	*flag = true
	return func() {
		s.mu.Lock()
		*flag = false
		s.mu.Unlock()
	}, nil
}
