package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/botfleet/console/pkg/logging"
)

var (
	ErrTemplateRequired = errors.New("notifications: template is required")
	ErrUnknownConfig    = errors.New("notifications: unknown config")
	ErrNothingPending   = errors.New("notifications: no pending deletion")
)

// ConfigStore is the slice of the platform API the config service consumes.
type ConfigStore interface {
	ListNotificationConfigs(ctx context.Context, botID string) ([]Config, error)
	SaveNotificationConfig(ctx context.Context, cfg Config) (*Config, error)
	DeleteNotificationConfig(ctx context.Context, botID string, configID int64) error
}

// Service manages one bot's automated notification configs. Writes follow a
// save-then-refetch discipline: local state is updated from the re-read list,
// never from the write's own response, so the console always shows what the
// platform actually persisted.
type Service struct {
	botID  string
	store  ConfigStore
	logger *logging.Logger

	mu            sync.Mutex
	configs       []Config
	pendingDelete *Config
}

// NewService creates a notification config service scoped to one bot.
func NewService(botID string, store ConfigStore, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{botID: botID, store: store, logger: logger}
}

// Refresh reloads the config list.
func (s *Service) Refresh(ctx context.Context) error {
	list, err := s.store.ListNotificationConfigs(ctx, s.botID)
	if err != nil {
		return fmt.Errorf("notifications: refresh configs: %w", err)
	}
	s.mu.Lock()
	s.configs = list
	s.mu.Unlock()
	return nil
}

// Configs returns the last loaded config list.
func (s *Service) Configs() []Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Config(nil), s.configs...)
}

// Save validates and persists a config, then re-reads the list so local
// state reflects the read-back.
func (s *Service) Save(ctx context.Context, cfg Config) error {
	if cfg.TemplateID == 0 {
		return ErrTemplateRequired
	}
	cfg.BotID = s.botID

	if _, err := s.store.SaveNotificationConfig(ctx, cfg); err != nil {
		return fmt.Errorf("notifications: save config: %w", err)
	}
	return s.Refresh(ctx)
}

// ToggleActive flips one config's active flag. The flag is only committed
// after the platform acknowledges the write; on failure the local list is
// untouched, which reverts any speculative toggle shown by the caller.
func (s *Service) ToggleActive(ctx context.Context, configID int64) (bool, error) {
	s.mu.Lock()
	var target *Config
	for i := range s.configs {
		if s.configs[i].ID == configID {
			c := s.configs[i]
			target = &c
			break
		}
	}
	s.mu.Unlock()
	if target == nil {
		return false, ErrUnknownConfig
	}

	target.IsActive = !target.IsActive
	if _, err := s.store.SaveNotificationConfig(ctx, *target); err != nil {
		return !target.IsActive, fmt.Errorf("notifications: toggle config %d: %w", configID, err)
	}

	s.mu.Lock()
	for i := range s.configs {
		if s.configs[i].ID == configID {
			s.configs[i].IsActive = target.IsActive
		}
	}
	s.mu.Unlock()
	return target.IsActive, nil
}

// RequestDelete stages a config for deletion.
func (s *Service) RequestDelete(configID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.configs {
		if s.configs[i].ID == configID {
			staged := s.configs[i]
			s.pendingDelete = &staged
			return nil
		}
	}
	return ErrUnknownConfig
}

// CancelDelete drops the staged deletion.
func (s *Service) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = nil
}

// PendingDelete returns the config staged for deletion, if any.
func (s *Service) PendingDelete() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete == nil {
		return nil
	}
	staged := *s.pendingDelete
	return &staged
}

// ConfirmDelete deletes the staged config and removes it from the local list.
func (s *Service) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.pendingDelete == nil {
		s.mu.Unlock()
		return ErrNothingPending
	}
	staged := *s.pendingDelete
	s.pendingDelete = nil
	s.mu.Unlock()

	if err := s.store.DeleteNotificationConfig(ctx, s.botID, staged.ID); err != nil {
		return fmt.Errorf("notifications: delete config %d: %w", staged.ID, err)
	}

	s.mu.Lock()
	kept := s.configs[:0]
	for _, c := range s.configs {
		if c.ID != staged.ID {
			kept = append(kept, c)
		}
	}
	s.configs = kept
	s.mu.Unlock()
	return nil
}
