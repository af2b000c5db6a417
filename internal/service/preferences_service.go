package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/repository"
)

// Persisted preference keys
const (
	KeyCompanyName      = "companyName"
	KeyCompanySubtitle  = "companySubtitle"
	KeyPaymentInfoText  = "paymentInfoText"
	KeyObservationsText = "observationsText"
	KeyCompanyLogo      = "companyLogo"
)

// Preferences are the company settings that survive across quotations
type Preferences struct {
	CompanyName      string
	CompanySubtitle  string
	PaymentInfoText  string
	ObservationsText string
	CompanyLogo      *string
}

// PreferencesService reads and writes company preferences.
// Storage failures never reach the caller: reads fall back to defaults and
// writes are logged and dropped.
type PreferencesService interface {
	// Load returns stored preferences; missing keys are left empty
	Load(ctx context.Context) Preferences

	// Defaults merges stored preferences over base
	Defaults(ctx context.Context, base editor.Defaults) editor.Defaults

	// Sync persists the company fields of the current state
	Sync(ctx context.Context, s editor.State)

	// SaveLogo persists the logo reference
	SaveLogo(ctx context.Context, ref string)

	// Clear removes every stored preference
	Clear(ctx context.Context) error
}

var preferenceKeys = []string{
	KeyCompanyName,
	KeyCompanySubtitle,
	KeyPaymentInfoText,
	KeyObservationsText,
	KeyCompanyLogo,
}

type preferencesService struct {
	kv     repository.KeyValueRepository
	logger *slog.Logger
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(kv repository.KeyValueRepository, logger *slog.Logger) PreferencesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &preferencesService{kv: kv, logger: logger}
}

func (s *preferencesService) get(ctx context.Context, key string) string {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("preference read failed", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *preferencesService) set(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.logger.Warn("preference write failed", "key", key, "error", err)
	}
}

func (s *preferencesService) Load(ctx context.Context) Preferences {
	p := Preferences{
		CompanyName:      s.get(ctx, KeyCompanyName),
		CompanySubtitle:  s.get(ctx, KeyCompanySubtitle),
		PaymentInfoText:  s.get(ctx, KeyPaymentInfoText),
		ObservationsText: s.get(ctx, KeyObservationsText),
	}
	if logo := s.get(ctx, KeyCompanyLogo); logo != "" {
		p.CompanyLogo = &logo
	}
	return p
}

func (s *preferencesService) Defaults(ctx context.Context, base editor.Defaults) editor.Defaults {
	p := s.Load(ctx)
	if p.CompanyName != "" {
		base.CompanyName = p.CompanyName
	}
	if p.CompanySubtitle != "" {
		base.CompanySubtitle = p.CompanySubtitle
	}
	if p.PaymentInfoText != "" {
		base.PaymentInfoText = p.PaymentInfoText
	}
	if p.ObservationsText != "" {
		base.ObservationsText = p.ObservationsText
	}
	if p.CompanyLogo != nil {
		base.CompanyLogo = p.CompanyLogo
	}
	return base
}

func (s *preferencesService) Sync(ctx context.Context, st editor.State) {
	s.set(ctx, KeyCompanyName, st.Client.CompanyName)
	s.set(ctx, KeyCompanySubtitle, st.Client.CompanySubtitle)
	s.set(ctx, KeyPaymentInfoText, st.Client.PaymentInfoText)
	s.set(ctx, KeyObservationsText, st.Client.ObservationsText)
}

func (s *preferencesService) SaveLogo(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	s.set(ctx, KeyCompanyLogo, ref)
}

func (s *preferencesService) Clear(ctx context.Context) error {
	for _, k := range preferenceKeys {
		if err := s.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to delete preference %s: %w", k, err)
		}
	}
	return nil
}
