package services

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type ReviewService struct {
	store repository.Store
}

func NewReviewService(store repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

type ReviewResult struct {
	Review  domain.Review
	Created bool
	Rating  domain.RatingSummary
}

// Submit records the caller's review of a product. A second submission by
// the same user replaces the first one.
func (s *ReviewService) Submit(ctx context.Context, caller domain.Identity, productID uint64, rating int, text string) (*ReviewResult, error) {
	text = strings.TrimSpace(text)
	if rating == 0 || text == "" {
		return nil, invalid("Rating and review text are required")
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, invalid("Rating must be between 1 and 5")
	}

	var res ReviewResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// Locking the product serializes submissions for it.
		p, err := tx.Products().FindForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		r, err := tx.Reviews().FindByProductAndUser(ctx, productID, caller.UserID)
		if err != nil {
			return err
		}
		if r == nil {
			r = &domain.Review{ProductID: productID, UserID: caller.UserID, Username: caller.Username}
			res.Created = true
		}
		r.Rating = rating
		r.ReviewText = text
		if err := tx.Reviews().Save(ctx, r); err != nil {
			return err
		}
		res.Review = *r

		res.Rating, err = summary(ctx, tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes a review. Only its author or staff may do so.
func (s *ReviewService) Delete(ctx context.Context, caller domain.Identity, reviewID uint64) (domain.RatingSummary, error) {
	var rating domain.RatingSummary
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		r, err := tx.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrReviewNotFound
		}
		if r.UserID != caller.UserID && !caller.IsStaff {
			return ErrPermissionDenied
		}
		if err := tx.Reviews().Delete(ctx, r.ID); err != nil {
			return err
		}
		rating, err = summary(ctx, tx, r.ProductID)
		return err
	})
	return rating, err
}

func (s *ReviewService) Summary(ctx context.Context, productID uint64) (domain.RatingSummary, error) {
	return summary(ctx, s.store, productID)
}

func summary(ctx context.Context, st repository.Store, productID uint64) (domain.RatingSummary, error) {
	reviews, err := st.Reviews().FindByProduct(ctx, productID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.Summarize(reviews), nil
}
