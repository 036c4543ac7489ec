// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/askora/askora/internal/events"
	"github.com/askora/askora/internal/platform/apperr"
	"github.com/askora/askora/internal/platform/sec"
	"github.com/askora/askora/internal/platform/validate"
	"github.com/askora/askora/pkg/pagination"
)

// # Contracts & Types

// EventPublisher defines the outbound events the user domain emits.
//
// Publication is fire-and-forget; implementations never return errors to the
// service layer.
type EventPublisher interface {
	PublishUserProfileUpdated(ctx context.Context, userID int64, username, email string)
	PublishUserFollowedTag(ctx context.Context, userID, tagID int64, tagName string)
	PublishNotification(ctx context.Context, userID int64, notificationType, message string)
	PublishAuditLog(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string)
}

// Service implements member profile use cases.
type Service struct {
	store     Store
	tags      TagLookup
	publisher EventPublisher
}

// NewService constructs a new user [Service] with necessary dependencies.
func NewService(store Store, tags TagLookup, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		tags:      tags,
		publisher: publisher,
	}
}

// # Directory

// List returns a page of members plus the total count.
func (service *Service) List(context context.Context, params pagination.Params) ([]*User, int, error) {
	return service.store.List(context, params)
}

// Get returns a single member by ID.
func (service *Service) Get(context context.Context, userID int64) (*User, error) {
	return service.store.FindByID(context, userID)
}

// FindByUsername returns a single member by their exact username.
func (service *Service) FindByUsername(context context.Context, username string) (*User, error) {
	return service.store.FindByUsername(context, username)
}

// FindByEmail returns a single member by their exact email address.
func (service *Service) FindByEmail(context context.Context, email string) (*User, error) {
	return service.store.FindByEmail(context, strings.ToLower(email))
}

// Statistics returns the counts of a member's authored content.
func (service *Service) Statistics(context context.Context, userID int64) (*Statistics, error) {
	if _, err := service.store.FindByID(context, userID); err != nil {
		return nil, err
	}
	return service.store.Statistics(context, userID)
}

// # Profile Updates

// UpdateProfileInput holds the optional profile fields of a PATCH request.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
}

/*
UpdateProfile applies partial profile changes on behalf of an actor.

Description: Only the profile owner or a moderator may update a profile.
A successful update emits USER_PROFILE_UPDATED.

Parameters:
  - context: context.Context
  - actor: *sec.Principal (authenticated caller)
  - userID: int64 (profile being changed)
  - input: UpdateProfileInput

Returns:
  - *User: Updated entity
  - error: Forbidden, NotFound, validation, or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, actor *sec.Principal, userID int64, input UpdateProfileInput) (*User, error) {
	if actor.UserID != userID && !actor.Role.AtLeast(sec.RoleModerator) {
		return nil, apperr.Forbidden("You can only edit your own profile")
	}

	target, err := service.store.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		target.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		target.LastName = *input.LastName
	}
	if input.Bio != nil {
		target.Bio = *input.Bio
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldFirstName, target.FirstName, MaxNameLen).
		MaxLen(FieldLastName, target.LastName, MaxNameLen).
		MaxLen(FieldBio, target.Bio, MaxBioLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.store.Update(context, target); err != nil {
		return nil, fmt.Errorf("user_service_update_failed: %w", err)
	}

	service.publisher.PublishUserProfileUpdated(context, target.ID, target.Username, target.Email)

	return target, nil
}

/*
ChangeEmail replaces a member's login email.

Description: Email is a credential, so only the account owner may change it —
moderators cannot. The new address must not belong to another account. A
successful change emits USER_PROFILE_UPDATED so downstream projections pick up
the new address.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - userID: int64
  - newEmail: string

Returns:
  - *User: Updated entity
  - error: Forbidden, Conflict, validation, or storage errors
*/
func (service *Service) ChangeEmail(context context.Context, actor *sec.Principal, userID int64, newEmail string) (*User, error) {
	if actor.UserID != userID {
		return nil, apperr.Forbidden("You can only change your own email")
	}

	newEmail = strings.ToLower(newEmail)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, newEmail).Email(FieldEmail, newEmail)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if existing, err := service.store.FindByEmail(context, newEmail); err == nil && existing.ID != userID {
		return nil, apperr.Conflict("Email is already registered")
	}

	target, err := service.store.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	target.Email = newEmail
	if err := service.store.Update(context, target); err != nil {
		return nil, fmt.Errorf("user_service_change_email_failed: %w", err)
	}

	service.publisher.PublishUserProfileUpdated(context, target.ID, target.Username, target.Email)

	return target, nil
}

/*
ChangePassword rotates a member's password.

Description: Owner only. The current password must verify against the stored
hash before the new one is accepted, so a hijacked session alone cannot lock
the owner out silently. The change is recorded on the audit stream.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - userID: int64
  - currentPassword, newPassword: string

Returns:
  - error: Forbidden, Unauthorized (wrong current password), validation, or
    storage errors
*/
func (service *Service) ChangePassword(context context.Context, actor *sec.Principal, userID int64, currentPassword, newPassword string) error {
	if actor.UserID != userID {
		return apperr.Forbidden("You can only change your own password")
	}

	target, err := service.store.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, target.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("user_service_hash_failed: %w", err)
	}

	if err := service.store.UpdatePassword(context, userID, hash); err != nil {
		return err
	}

	service.publisher.PublishAuditLog(context, userID, "PASSWORD_CHANGED", "USER", userID,
		fmt.Sprintf("Password changed for account '%s'", target.Username))

	return nil
}

/*
Delete removes a member account and everything it authored.

Description: Only the account owner or an admin may delete an account.
Content cascades away at the storage layer. The deletion lands on the audit
stream attributed to the actor, not the deleted account.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - userID: int64

Returns:
  - error: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, actor *sec.Principal, userID int64) error {
	if actor.UserID != userID && !actor.Role.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You can only delete your own account")
	}

	target, err := service.store.FindByID(context, userID)
	if err != nil {
		return err
	}

	if err := service.store.Delete(context, userID); err != nil {
		return err
	}

	service.publisher.PublishAuditLog(context, actor.UserID, "USER_DELETED", "USER", userID,
		fmt.Sprintf("Account '%s' deleted", target.Username))

	return nil
}

// # Tag Follows

/*
FollowTag subscribes a user to a tag's activity.

Description: Records the follow edge, then emits USER_FOLLOWED_TAG on the
engagement stream and a NOTIFICATION confirming the subscription.

Parameters:
  - context: context.Context
  - userID, tagID: int64

Returns:
  - error: NotFound (unknown tag) or storage errors
*/
func (service *Service) FollowTag(context context.Context, userID, tagID int64) error {
	tagName, err := service.tags.TagName(context, tagID)
	if err != nil {
		return err
	}

	if err := service.store.FollowTag(context, userID, tagID); err != nil {
		return err
	}

	service.publisher.PublishUserFollowedTag(context, userID, tagID, tagName)
	service.publisher.PublishNotification(context, userID, events.NotificationTagFollowed,
		fmt.Sprintf("You are now following the tag '%s'.", tagName))

	return nil
}

// UnfollowTag removes a tag subscription. No event is emitted for unfollows.
func (service *Service) UnfollowTag(context context.Context, userID, tagID int64) error {
	return service.store.UnfollowTag(context, userID, tagID)
}

// FollowedTags lists the tags a user currently follows.
func (service *Service) FollowedTags(context context.Context, userID int64) ([]*FollowedTag, error) {
	return service.store.FollowedTags(context, userID)
}

// # Identity Resolution

/*
ResolvePrincipal loads the request identity for the authentication gate.

Description: The role always reflects the current database row, never the
token. Deactivated accounts resolve to an error so their valid tokens stop
working immediately.

Parameters:
  - context: context.Context
  - userID: int64 (token subject)

Returns:
  - *sec.Principal: Identity attached to the request context
  - error: NotFound, Unauthorized (inactive), or storage errors
*/
func (service *Service) ResolvePrincipal(context context.Context, userID int64) (*sec.Principal, error) {
	account, err := service.store.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if !account.IsActive {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	return &sec.Principal{
		UserID:   account.ID,
		Username: account.Username,
		Role:     account.Role,
	}, nil
}
