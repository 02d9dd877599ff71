package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/storage"
)

type WaitlistRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func ValidateWaitlistRequest(req *WaitlistRequest) error {
	return validate.Struct(req)
}

// JoinWaitlist stores the lowercased email. Re-registering an email is
// a silent success so signup status is never disclosed.
func JoinWaitlist(ctx context.Context, repo storage.WaitlistRepository, req *WaitlistRequest) error {
	entry := &internal.WaitlistEntry{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		CreatedAt: time.Now(),
	}
	return repo.AddToWaitlist(ctx, entry)
}
