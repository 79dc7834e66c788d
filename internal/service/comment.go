package service

import (
	"context"
	"strings"

	"github.com/pageza/recipes-api/backend/internal/model"
	"github.com/pageza/recipes-api/backend/internal/storage"
)

// CommentService handles comment operations
type CommentService struct {
	comments      storage.CommentRepository
	defaultAuthor string
}

// NewCommentService creates a new CommentService. defaultAuthor is used for
// comments saved without an author.
func NewCommentService(comments storage.CommentRepository, defaultAuthor string) *CommentService {
	return &CommentService{
		comments:      comments,
		defaultAuthor: defaultAuthor,
	}
}

// SaveComment persists a comment and returns it with its id and timestamp
func (s *CommentService) SaveComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	if strings.TrimSpace(comment.Author) == "" {
		comment.Author = s.defaultAuthor
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
