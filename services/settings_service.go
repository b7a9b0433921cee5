package services

import (
	"context"

	"planora.app/authz"
	"planora.app/configs"
	"planora.app/models"
)

// Settings is the non-secret view of the running configuration.
type Settings struct {
	Environment string                         `json:"environment"`
	DefaultRole models.Role                    `json:"default_role"`
	AIEnabled   bool                           `json:"ai_enabled"`
	AIModel     string                         `json:"ai_model,omitempty"`
	Roles       map[models.Role][]authz.Action `json:"roles"`
	// Connection details are shown only to settings:manage.
	DatabaseHost string `json:"database_host,omitempty"`
	AIBaseURL    string `json:"ai_base_url,omitempty"`
}

type ISettingsService interface {
	Get(ctx context.Context, p authz.Principal) (*Settings, error)
}

type SettingsService struct {
	cfg *configs.AppConfig
}

func NewSettingsService(cfg *configs.AppConfig) ISettingsService {
	return &SettingsService{cfg: cfg}
}

func (s *SettingsService) Get(_ context.Context, p authz.Principal) (*Settings, error) {
	if !p.Can(authz.SettingsRead) {
		return nil, ErrPermissionDenied
	}
	out := &Settings{
		Environment: s.cfg.Env,
		DefaultRole: s.cfg.DefaultRole,
		AIEnabled:   s.cfg.AI.Enabled(),
		Roles:       make(map[models.Role][]authz.Action),
	}
	if out.AIEnabled {
		out.AIModel = s.cfg.AI.Model
	}
	for _, role := range authz.AllRoles() {
		granted := []authz.Action{}
		for _, a := range authz.AllActions() {
			if authz.HasPermission(role, a) {
				granted = append(granted, a)
			}
		}
		out.Roles[role] = granted
	}
	if p.Can(authz.SettingsManage) {
		out.DatabaseHost = s.cfg.DB.Host
		out.AIBaseURL = s.cfg.AI.BaseURL
	}
	return out, nil
}

var _ ISettingsService = (*SettingsService)(nil)
