package services

import (
	"context"
	"fmt"
	"time"

	"planora.app/authz"
	"planora.app/models"
	"planora.app/repositories"

	"gorm.io/gorm"
)

const dashboardActivityLimit = 10

// Dashboard is the home page summary for one principal.
type Dashboard struct {
	UpcomingEvents     int64                 `json:"upcoming_events"`
	PendingInvitations int64                 `json:"pending_invitations"`
	Attending          int64                 `json:"attending"`
	LowStockItems      int64                 `json:"low_stock_items"`
	Invitations        []models.Invitation   `json:"invitations"`
	RecentActivity     []models.Activity     `json:"recent_activity,omitempty"`
	Permissions        map[authz.Action]bool `json:"permissions"`
}

type IDashboardService interface {
	Get(ctx context.Context, p authz.Principal) (*Dashboard, error)
}

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) IDashboardService {
	return &DashboardService{db: db, now: time.Now}
}

func (s *DashboardService) Get(ctx context.Context, p authz.Principal) (*Dashboard, error) {
	if !p.Can(authz.DashboardRead) {
		return nil, ErrPermissionDenied
	}
	d := &Dashboard{Permissions: authz.Permissions(p.Role)}

	var err error
	if d.UpcomingEvents, err = repositories.NewEventRepository(s.db).CountUpcoming(ctx, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("counting upcoming events: %w", err)
	}
	invitations := repositories.NewInvitationRepository(s.db)
	if d.PendingInvitations, err = invitations.CountByRecipientAndStatus(ctx, p.UserID, models.InvitationStatusPending); err != nil {
		return nil, fmt.Errorf("counting pending invitations: %w", err)
	}
	if d.Invitations, err = invitations.FindByRecipientID(ctx, p.UserID, models.InvitationStatusPending); err != nil {
		return nil, fmt.Errorf("listing pending invitations: %w", err)
	}
	if d.Attending, err = repositories.NewRsvpRepository(s.db).CountByUserAndStatus(ctx, p.UserID, models.RsvpStatusAttending); err != nil {
		return nil, fmt.Errorf("counting rsvps: %w", err)
	}
	if p.Can(authz.InventoryRead) {
		if d.LowStockItems, err = repositories.NewInventoryRepository(s.db).CountLowStock(ctx); err != nil {
			return nil, fmt.Errorf("counting low stock: %w", err)
		}
	}
	if p.Can(authz.ActivityRead) {
		if d.RecentActivity, err = repositories.NewActivityRepository(s.db).FindRecent(ctx, dashboardActivityLimit); err != nil {
			return nil, fmt.Errorf("listing recent activity: %w", err)
		}
	}
	return d, nil
}

var _ IDashboardService = (*DashboardService)(nil)
