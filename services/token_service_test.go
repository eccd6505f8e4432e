package services

import (
	"errors"
	"testing"

	"grant-workflow-api/models"
)

func TestMintAndResolveToken(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusSubmitted)

	email := "reviewer@uni.example"
	minted, err := MintToken(db, app.ApplicationID, models.PurposeReview, nil, &email)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if len(minted.Token) != 64 {
		t.Fatalf("token length = %d, want 64", len(minted.Token))
	}

	resolved, err := ResolveToken(db, minted.Token, models.PurposeReview)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ApplicationID != app.ApplicationID {
		t.Fatalf("resolved wrong application: %d", resolved.ApplicationID)
	}
	if resolved.ReviewerEmail == nil || *resolved.ReviewerEmail != email {
		t.Fatalf("reviewer binding lost: %v", resolved.ReviewerEmail)
	}

	// Resolution does not consume the token.
	if _, err := ResolveToken(db, minted.Token, models.PurposeReview); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
}

func TestResolveTokenFailures(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusSubmitted)

	if _, err := ResolveToken(db, "", models.PurposeReview); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("empty token: want ErrTokenInvalid, got %v", err)
	}
	if _, err := ResolveToken(db, "unknown", models.PurposeReview); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("unknown token: want ErrTokenInvalid, got %v", err)
	}

	role := models.RoleHead
	minted, err := MintToken(db, app.ApplicationID, models.PurposeSignOff, &role, nil)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ResolveToken(db, minted.Token, models.PurposeReview); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("purpose mismatch: want ErrTokenInvalid, got %v", err)
	}
}

func TestMintedTokensAreUnique(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusSubmitted)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		email := "r@uni.example"
		minted, err := MintToken(db, app.ApplicationID, models.PurposeReview, nil, &email)
		if err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
		if seen[minted.Token] {
			t.Fatalf("duplicate token minted")
		}
		seen[minted.Token] = true
	}
}
