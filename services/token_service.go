package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"grant-workflow-api/models"

	"gorm.io/gorm"
)

// newTokenString returns a 64-character opaque token.
func newTokenString() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// MintToken creates a single-purpose access token bound to one application
// and seat. Runs inside the caller's transaction.
func MintToken(tx *gorm.DB, applicationID int, purpose models.TokenPurpose, seatRole *models.SignOffRole, reviewerEmail *string) (*models.AccessToken, error) {
	token := models.AccessToken{
		Token:         newTokenString(),
		ApplicationID: applicationID,
		Purpose:       purpose,
		SeatRole:      seatRole,
		ReviewerEmail: reviewerEmail,
		CreateAt:      timeNow(),
	}
	if err := tx.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// ResolveToken looks up an access token and checks its purpose. Resolution
// never consumes the token; one-time semantics live on the bound record.
func ResolveToken(db *gorm.DB, token string, purpose models.TokenPurpose) (*models.AccessToken, error) {
	if token == "" {
		return nil, workflowErr(ErrTokenInvalid, "empty token")
	}
	var record models.AccessToken
	err := db.Where("token = ?", token).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, workflowErr(ErrTokenInvalid, "unknown token")
	}
	if err != nil {
		return nil, err
	}
	if record.Purpose != purpose {
		return nil, workflowErr(ErrTokenInvalid, "token purpose is '%s'", record.Purpose)
	}
	return &record, nil
}
