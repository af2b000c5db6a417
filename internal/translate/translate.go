// Package translate rewrites the zones and item descriptions of a
// quotation into another language through a chat-completions model.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
)

var (
	ErrInvalidResponse    = errors.New("invalid translation response")
	ErrNothingToTranslate = errors.New("nothing to translate")
	ErrDisabled           = errors.New("translation is disabled")
)

// ItemText is the translatable part of an item
type ItemText struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Zone        string `json:"zone"`
}

// Request is the content sent to the model
type Request struct {
	SourceLanguage string     `json:"sourceLanguage"`
	TargetLanguage string     `json:"targetLanguage"`
	Zones          []string   `json:"zones"`
	Items          []ItemText `json:"items"`
}

// Response is the translated content
type Response struct {
	Zones []string   `json:"zones"`
	Items []ItemText `json:"items"`
}

// Translator translates quotation content
type Translator interface {
	Translate(ctx context.Context, req Request) (*Response, error)
}

// NewRequest collects the translatable content of a state
func NewRequest(st editor.State, target string) Request {
	req := Request{
		SourceLanguage: st.Client.Language,
		TargetLanguage: target,
		Zones:          slices.Clone(st.Zones),
		Items:          make([]ItemText, 0, len(st.Items)),
	}
	for _, it := range st.Items {
		req.Items = append(req.Items, ItemText{ID: it.ID, Description: it.Description, Zone: it.Zone})
	}
	return req
}

// Validate checks that a response can be applied as a whole: every zone
// is MAIN > SUB, every item echoes a requested id and sits in one of the
// returned zones.
func Validate(req Request, resp *Response) error {
	if resp == nil {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	ids := make(map[string]bool, len(req.Items))
	for _, it := range req.Items {
		ids[it.ID] = true
	}
	return validate(ids, resp)
}

func validate(ids map[string]bool, resp *Response) error {
	if len(resp.Zones) == 0 {
		return fmt.Errorf("%w: no zones", ErrInvalidResponse)
	}
	for _, z := range resp.Zones {
		if !domain.IsWellFormedZone(z) {
			return fmt.Errorf("%w: malformed zone %q", ErrInvalidResponse, z)
		}
	}
	for _, it := range resp.Items {
		if !ids[it.ID] {
			return fmt.Errorf("%w: unknown item %q", ErrInvalidResponse, it.ID)
		}
		if !slices.Contains(resp.Zones, it.Zone) {
			return fmt.Errorf("%w: item %q uses unknown zone %q", ErrInvalidResponse, it.ID, it.Zone)
		}
	}
	return nil
}

// Apply replaces the zone registry and updates the matching items of st.
// Nothing is applied unless the whole response validates against st.
func Apply(st editor.State, resp *Response) (editor.State, error) {
	if resp == nil {
		return st, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	ids := make(map[string]bool, len(st.Items))
	for _, it := range st.Items {
		ids[it.ID] = true
	}
	if err := validate(ids, resp); err != nil {
		return st, err
	}

	byID := make(map[string]ItemText, len(resp.Items))
	for _, it := range resp.Items {
		byID[it.ID] = it
	}

	next := editor.FromData(st.Data())
	next.Zones = make([]string, 0, len(resp.Zones))
	for _, z := range resp.Zones {
		if !slices.Contains(next.Zones, z) {
			next.Zones = append(next.Zones, z)
		}
	}
	for i, it := range next.Items {
		if tr, ok := byID[it.ID]; ok {
			next.Items[i].Description = tr.Description
			next.Items[i].Zone = tr.Zone
		}
	}
	return next, nil
}

// Assist runs best-effort translations
type Assist struct {
	translator Translator
	logger     *slog.Logger
}

// NewAssist creates an Assist. A nil translator disables it.
func NewAssist(t Translator, logger *slog.Logger) *Assist {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assist{translator: t, logger: logger}
}

// Enabled reports whether a translator is configured
func (a *Assist) Enabled() bool {
	return a != nil && a.translator != nil
}

// Fetch asks the model for st's content in target and validates the answer
func (a *Assist) Fetch(ctx context.Context, st editor.State, target string) (*Response, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}
	if len(st.Items) == 0 && st.HasDefaultZonesOnly() {
		return nil, ErrNothingToTranslate
	}
	if st.Client.Language == target {
		return nil, ErrNothingToTranslate
	}

	req := NewRequest(st, target)
	resp, err := a.translator.Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := Validate(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Run translates st into target. Any failure is logged and st is
// returned unchanged.
func (a *Assist) Run(ctx context.Context, st editor.State, target string) editor.State {
	resp, err := a.Fetch(ctx, st, target)
	if err != nil {
		if !errors.Is(err, ErrNothingToTranslate) && !errors.Is(err, ErrDisabled) {
			a.logger.Warn("translation failed", "target", target, "error", err)
		}
		return st
	}
	next, err := Apply(st, resp)
	if err != nil {
		a.logger.Warn("translation rejected", "target", target, "error", err)
		return st
	}
	a.logger.Info("translation applied", "target", target, "zones", len(next.Zones), "items", len(resp.Items))
	return next
}
