package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
	"deepchat/internal/domain/services"
)

// UnnamedUser is stored when the event carries neither first nor last name
const UnnamedUser = "Unnamed User"

// identityService implements the IdentityService interface
type identityService struct {
	userRepo repositories.UserRepository
	ledger   repositories.DeliveryLedger
	logger   *slog.Logger

	now func() time.Time
}

// NewIdentityService creates a new identity sync service. ledger may be nil,
// in which case every delivery is applied.
func NewIdentityService(
	userRepo repositories.UserRepository,
	ledger repositories.DeliveryLedger,
	logger *slog.Logger,
) services.IdentityService {
	return &identityService{
		userRepo: userRepo,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleEvent applies a verified identity-provider event to the user store
func (s *identityService) HandleEvent(ctx context.Context, deliveryID string, evt *services.IdentityEvent) (*services.SyncResult, error) {
	if evt == nil {
		return nil, fmt.Errorf("%w: event is required", domain.ErrValidation)
	}
	if err := validateEventData(&evt.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	switch evt.Type {
	case services.EventUserCreated, services.EventUserUpdated, services.EventUserDeleted:
	default:
		s.logger.Warn("unhandled identity event type",
			"type", evt.Type,
			"delivery_id", deliveryID,
		)
		return &services.SyncResult{
			Action:  services.SyncIgnored,
			UserID:  evt.Data.ID,
			Message: "Unhandled event type: " + evt.Type,
		}, nil
	}

	// Build the user before touching the ledger so bad payloads fail fast
	var user *models.User
	if evt.Type != services.EventUserDeleted {
		var err error
		if user, err = s.userFromEvent(&evt.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	if s.alreadyApplied(ctx, deliveryID) {
		s.logger.Info("identity event redelivered, skipping",
			"type", evt.Type,
			"user_id", evt.Data.ID,
			"delivery_id", deliveryID,
		)
		return &services.SyncResult{
			Action:  services.SyncDuplicate,
			UserID:  evt.Data.ID,
			Message: "Webhook already processed: " + evt.Type,
		}, nil
	}

	var action string
	switch evt.Type {
	case services.EventUserCreated, services.EventUserUpdated:
		if err := s.userRepo.UpsertUser(ctx, user); err != nil {
			return nil, fmt.Errorf("upsert user %s: %w", user.ID, err)
		}
		action = services.SyncCreated
		if evt.Type == services.EventUserUpdated {
			action = services.SyncUpdated
		}

	case services.EventUserDeleted:
		err := s.userRepo.DeleteUser(ctx, evt.Data.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("delete user %s: %w", evt.Data.ID, err)
		}
		action = services.SyncDeleted
	}

	s.markApplied(ctx, deliveryID)

	s.logger.Info("identity event applied",
		"type", evt.Type,
		"action", action,
		"user_id", evt.Data.ID,
		"delivery_id", deliveryID,
	)

	return &services.SyncResult{
		Action:  action,
		UserID:  evt.Data.ID,
		Message: "Webhook processed: " + evt.Type,
	}, nil
}

// alreadyApplied consults the ledger. Ledger failures are logged and treated
// as unseen since upserts and deletes are safe to repeat.
func (s *identityService) alreadyApplied(ctx context.Context, deliveryID string) bool {
	if s.ledger == nil || deliveryID == "" {
		return false
	}
	seen, err := s.ledger.Seen(ctx, deliveryID)
	if err != nil {
		s.logger.Warn("delivery ledger lookup failed",
			"delivery_id", deliveryID,
			"error", err,
		)
		return false
	}
	return seen
}

func (s *identityService) markApplied(ctx context.Context, deliveryID string) {
	if s.ledger == nil || deliveryID == "" {
		return
	}
	if err := s.ledger.Record(ctx, deliveryID); err != nil {
		s.logger.Warn("failed to record delivery",
			"delivery_id", deliveryID,
			"error", err,
		)
	}
}

func (s *identityService) userFromEvent(data *services.IdentityEventData) (*models.User, error) {
	email := PrimaryEmail(data)
	if err := validation.Validate(email,
		validation.Required.Error("missing email"),
		is.EmailFormat,
	); err != nil {
		return nil, err
	}

	now := s.now()
	return &models.User{
		ID:        data.ID,
		Name:      DisplayName(data.FirstName, data.LastName),
		Email:     email,
		ImageURL:  data.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DisplayName joins first and last name, falling back to UnnamedUser
func DisplayName(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return UnnamedUser
	}
	return name
}

// PrimaryEmail returns the address flagged as primary, else the first listed one
func PrimaryEmail(data *services.IdentityEventData) string {
	if data.PrimaryEmailAddressID != "" {
		for _, addr := range data.EmailAddresses {
			if addr.ID == data.PrimaryEmailAddressID {
				return strings.TrimSpace(addr.EmailAddress)
			}
		}
	}
	if len(data.EmailAddresses) > 0 {
		return strings.TrimSpace(data.EmailAddresses[0].EmailAddress)
	}
	return ""
}

// validateEventData validates fields required by every event kind
func validateEventData(data *services.IdentityEventData) error {
	return validation.ValidateStruct(data,
		validation.Field(&data.ID, validation.Required.Error("missing user ID")),
	)
}
