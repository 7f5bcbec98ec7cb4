package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vidora/vidora/internal/store"
)

// Document field names shared by the client and the dev backend.
const (
	FieldTitle     = "title"
	FieldPrompt    = "prompt"
	FieldThumbnail = "thumbnail"
	FieldSourceURL = "sourceURL"
	FieldCreator   = "creator"

	FieldAccountID = "accountId"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldAvatar    = "avatar"
)

// VideoPost is read-only after creation; the backend owns the record.
type VideoPost struct {
	ID           uuid.UUID
	Title        string
	Prompt       string
	ThumbnailURL string
	SourceURL    string
	CreatorID    uuid.UUID
	CreatedAt    time.Time
}

type UserProfile struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Username  string
	Email     string
	AvatarURL string
}

// MediaAsset is a user-picked local file. It is owned by the upload form
// until submission and discarded afterwards.
type MediaAsset struct {
	URI         string
	MIMEType    string
	SizeBytes   int64
	DisplayName string
	Data        []byte
}

func (a *MediaAsset) Empty() bool {
	return a == nil || len(a.Data) == 0 || a.MIMEType == ""
}

// PostFromDocument maps a videos-collection document onto a VideoPost.
func PostFromDocument(doc store.Document) (VideoPost, error) {
	creatorRaw := stringField(doc, FieldCreator)
	creator, err := uuid.Parse(creatorRaw)
	if err != nil {
		return VideoPost{}, fmt.Errorf("document %s: bad creator %q: %w", doc.ID, creatorRaw, err)
	}
	return VideoPost{
		ID:           doc.ID,
		Title:        stringField(doc, FieldTitle),
		Prompt:       stringField(doc, FieldPrompt),
		ThumbnailURL: stringField(doc, FieldThumbnail),
		SourceURL:    stringField(doc, FieldSourceURL),
		CreatorID:    creator,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// ProfileFromDocument maps a users-collection document onto a UserProfile.
func ProfileFromDocument(doc store.Document) (UserProfile, error) {
	accountRaw := stringField(doc, FieldAccountID)
	accountID, err := uuid.Parse(accountRaw)
	if err != nil {
		return UserProfile{}, fmt.Errorf("document %s: bad accountId %q: %w", doc.ID, accountRaw, err)
	}
	return UserProfile{
		ID:        doc.ID,
		AccountID: accountID,
		Username:  stringField(doc, FieldUsername),
		Email:     stringField(doc, FieldEmail),
		AvatarURL: stringField(doc, FieldAvatar),
	}, nil
}

func stringField(doc store.Document, name string) string {
	v, _ := doc.Fields[name].(string)
	return v
}
