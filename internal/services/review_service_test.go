package services

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Submit(t *testing.T) {
	tests := []struct {
		name          string
		productID     func(p domain.Product) uint64
		rating        int
		text          string
		expectedError error
		expectedMsg   string
	}{
		{name: "valid", rating: 4, text: "Solid"},
		{name: "missing text", rating: 4, text: "   ", expectedError: domain.ErrInvalidInput, expectedMsg: "Rating and review text are required"},
		{name: "missing rating", rating: 0, text: "ok", expectedError: domain.ErrInvalidInput, expectedMsg: "Rating and review text are required"},
		{name: "rating too high", rating: 6, text: "wow", expectedError: domain.ErrInvalidInput, expectedMsg: "Rating must be between 1 and 5"},
		{name: "rating too low", rating: -1, text: "bad", expectedError: domain.ErrInvalidInput, expectedMsg: "Rating must be between 1 and 5"},
		{name: "unknown product", productID: func(domain.Product) uint64 { return 555 }, rating: 3, text: "?",
			expectedError: domain.ErrNotFound, expectedMsg: "Product not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.seedProduct(t, "Speaker", "70", 3)
			pid := p.ID
			if tt.productID != nil {
				pid = tt.productID(p)
			}

			res, err := f.reviews.Submit(context.Background(), alice, pid, tt.rating, tt.text)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.EqualError(t, err, tt.expectedMsg)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Created)
			assert.Equal(t, "alice", res.Review.Username)
			assert.Equal(t, tt.text, res.Review.ReviewText)
			assert.Equal(t, domain.RatingSummary{Average: 4, Count: 1}, res.Rating)
		})
	}
}

func TestReviewService_SecondSubmissionReplacesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Tent", "120", 2)

	first, err := f.reviews.Submit(ctx, alice, p.ID, 2, "Leaky")
	require.NoError(t, err)
	second, err := f.reviews.Submit(ctx, alice, p.ID, 5, "Fixed after reseal")
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Review.ID, second.Review.ID)
	assert.Equal(t, domain.RatingSummary{Average: 5, Count: 1}, second.Rating)

	reviews, err := f.store.Reviews().FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Fixed after reseal", reviews[0].ReviewText)
}

func TestReviewService_AverageAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Watch", "300", 2)
	carol := domain.Identity{UserID: 103, Username: "carol"}

	sum, err := f.reviews.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{}, sum)

	a, err := f.reviews.Submit(ctx, alice, p.ID, 5, "Great")
	require.NoError(t, err)
	_, err = f.reviews.Submit(ctx, bob, p.ID, 3, "Fine")
	require.NoError(t, err)
	c, err := f.reviews.Submit(ctx, carol, p.ID, 4, "Good")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{Average: 4, Count: 3}, c.Rating)

	tests := []struct {
		name          string
		caller        domain.Identity
		reviewID      uint64
		expectedError error
		expected      domain.RatingSummary
	}{
		{name: "not the author", caller: bob, reviewID: a.Review.ID, expectedError: domain.ErrForbidden},
		{name: "author", caller: alice, reviewID: a.Review.ID, expected: domain.RatingSummary{Average: 3.5, Count: 2}},
		{name: "already gone", caller: alice, reviewID: a.Review.ID, expectedError: domain.ErrNotFound},
		{name: "staff", caller: admin, reviewID: c.Review.ID, expected: domain.RatingSummary{Average: 3, Count: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.reviews.Delete(ctx, tt.caller, tt.reviewID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
