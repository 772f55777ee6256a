// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"platefeed/internal/middleware"
	"platefeed/internal/models"
	"platefeed/internal/observability"
	"platefeed/internal/oracle"
	"platefeed/internal/repository"
)

// ScoringService runs the meal scoring pipeline: judge the photos, persist the
// post, fold the verdict into the author's aggregates.
type ScoringService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	judge    oracle.Judge
}

// SubmitPostInput is the payload for scoring a new meal post.
type SubmitPostInput struct {
	UserID     uint   `json:"userID"`
	FrontImage string `json:"frontImage"`
	BackImage  string `json:"backImage"`
	Visibility string `json:"visibility"`
}

// NewScoringService returns a new ScoringService.
func NewScoringService(userRepo repository.UserRepository, postRepo repository.PostRepository, judge oracle.Judge) *ScoringService {
	return &ScoringService{
		userRepo: userRepo,
		postRepo: postRepo,
		judge:    judge,
	}
}

// SubmitPost validates the submission, obtains a judgement from the oracle,
// and persists the post and the author's challenge progress. The oracle call
// happens before any write, so an oracle failure leaves no partial state.
func (s *ScoringService) SubmitPost(ctx context.Context, in SubmitPostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "scoring.submit_post")
	defer span.End()
	span.AddAttributes(attribute.Int("user.id", int(in.UserID)))

	if in.UserID == 0 {
		return nil, models.NewValidationError("User ID is required")
	}
	if in.FrontImage == "" || in.BackImage == "" {
		return nil, models.NewValidationError("Both meal images are required")
	}
	visibility := models.Visibility(in.Visibility)
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, models.NewValidationError("Visibility must be 'public' or 'friends'")
	}

	// Reject unknown authors before paying for an oracle call.
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	judgement, err := s.judge.JudgeMeal(ctx, in.FrontImage, in.BackImage)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	post := &models.Post{
		UserID:      in.UserID,
		FrontImage:  in.FrontImage,
		BackImage:   in.BackImage,
		Ingredients: judgement.IngredientList(),
		Calories:    judgement.Calories,
		HealthScore: judgement.HealthScore,
		Visibility:  visibility,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.userRepo.IncrementChallengeProgress(ctx, in.UserID, judgement.ChallengeFlags(), judgement.TotalChals); err != nil {
		// The post is already committed; surface the aggregate failure
		// rather than hiding it.
		middleware.Logger.ErrorContext(ctx, "challenge progress update failed after post creation",
			"user_id", in.UserID, "post_id", post.ID, "error", err)
		span.SetError(err)
		return nil, err
	}

	observability.PostsScoredTotal.WithLabelValues(string(visibility)).Inc()
	middleware.Logger.InfoContext(ctx, "post scored",
		"user_id", in.UserID, "post_id", post.ID,
		"health_score", judgement.HealthScore, "calories", judgement.Calories)

	return post, nil
}

// UpvotePost applies one upvote and returns the new count.
func (s *ScoringService) UpvotePost(ctx context.Context, postID uint) (int64, error) {
	if postID == 0 {
		return 0, models.NewValidationError("Post ID is required")
	}
	upvotes, err := s.postRepo.Upvote(ctx, postID)
	if err != nil {
		return 0, err
	}
	observability.UpvotesTotal.Inc()
	return upvotes, nil
}

// GetPost returns a single post by id.
func (s *ScoringService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	if postID == 0 {
		return nil, models.NewValidationError("Post ID is required")
	}
	return s.postRepo.GetByID(ctx, postID)
}
