package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"gopkg.in/yaml.v3"
)

var ErrInvalidQuoteFile = errors.New("invalid quote file")

// QuoteFile is the YAML form of a quotation accepted by Import
type QuoteFile struct {
	Client struct {
		Name     string `yaml:"name"`
		Date     string `yaml:"date"`
		Number   string `yaml:"number"`
		IDType   string `yaml:"id_type"`
		IDValue  string `yaml:"id_value"`
		Language string `yaml:"language"`
		Currency string `yaml:"currency"`
	} `yaml:"client"`
	Discount *struct {
		Type  string `yaml:"type"`
		Value string `yaml:"value"`
	} `yaml:"discount"`
	Zones []string `yaml:"zones"`
	Items []struct {
		Zone        string `yaml:"zone"`
		Description string `yaml:"description"`
		Quantity    string `yaml:"quantity"`
		UnitPrice   string `yaml:"unit_price"`
	} `yaml:"items"`
	Attachments []struct {
		File        string `yaml:"file"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"attachments"`
	Observations string `yaml:"observations"`
	Logo         string `yaml:"logo"`
}

// QuotationService creates quotations seeded from the stored preferences
type QuotationService interface {
	// New returns a blank quotation with company preferences applied
	New(ctx context.Context) editor.State

	// Import builds a quotation from a YAML quote file. Relative
	// attachment paths resolve against baseDir.
	Import(ctx context.Context, r io.Reader, baseDir string) (editor.State, error)

	// ImportFile reads and imports the quote file at path
	ImportFile(ctx context.Context, path string) (editor.State, error)

	// ResolveImage turns a local image path into an embeddable data URL.
	// URLs and data URLs are returned as they are.
	ResolveImage(ref string) (string, error)
}

// ImageEncoder turns an image file into an embeddable reference
type ImageEncoder func(path string) (string, error)

type quotationService struct {
	prefs  PreferencesService
	base   editor.Defaults
	encode ImageEncoder
	now    func() time.Time
}

// NewQuotationService creates a new quotation service
func NewQuotationService(prefs PreferencesService, base editor.Defaults, encode ImageEncoder, now func() time.Time) QuotationService {
	if now == nil {
		now = time.Now
	}
	return &quotationService{prefs: prefs, base: base, encode: encode, now: now}
}

func (s *quotationService) New(ctx context.Context) editor.State {
	d := s.base
	if s.prefs != nil {
		d = s.prefs.Defaults(ctx, d)
	}
	return editor.New(d, s.now())
}

func (s *quotationService) ImportFile(ctx context.Context, path string) (editor.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return editor.State{}, fmt.Errorf("failed to open quote file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f, filepath.Dir(path))
}

func (s *quotationService) Import(ctx context.Context, r io.Reader, baseDir string) (editor.State, error) {
	var qf QuoteFile
	if err := yaml.NewDecoder(r).Decode(&qf); err != nil {
		return editor.State{}, fmt.Errorf("%w: %w", ErrInvalidQuoteFile, err)
	}

	cmds, err := s.commands(qf, baseDir)
	if err != nil {
		return editor.State{}, err
	}
	st, err := s.New(ctx).Apply(cmds...)
	if err != nil {
		return editor.State{}, fmt.Errorf("%w: %w", ErrInvalidQuoteFile, err)
	}
	return st, nil
}

func (s *quotationService) commands(qf QuoteFile, baseDir string) ([]editor.Command, error) {
	var cmds []editor.Command

	// language first: it rewrites the template texts
	if qf.Client.Language != "" {
		cmds = append(cmds, editor.SetLanguage{Language: qf.Client.Language})
	}
	if qf.Client.Currency != "" {
		cmds = append(cmds, editor.SetCurrency{Code: qf.Client.Currency})
	}
	cmds = append(cmds, editor.SetClientInfo{
		Name:          qf.Client.Name,
		Date:          qf.Client.Date,
		ClientIDType:  domain.ClientIDType(qf.Client.IDType),
		ClientIDValue: qf.Client.IDValue,
	})
	if qf.Client.IDValue != "" {
		cmds = append(cmds, editor.SetVisibility{Section: editor.SectionClientID, Visible: true})
	}
	if qf.Client.Number != "" {
		cmds = append(cmds, editor.SetQuotationNumber{Number: qf.Client.Number})
	}
	if qf.Discount != nil {
		cmds = append(cmds, editor.SetDiscount{
			Enabled: true,
			Type:    domain.DiscountType(qf.Discount.Type),
			Value:   qf.Discount.Value,
		})
	}

	for _, z := range qf.Zones {
		key := domain.ParseZone(z)
		cmds = append(cmds, editor.AddZone{Prefix: key.Main, Suffix: key.Sub})
	}
	for i, it := range qf.Items {
		zone := it.Zone
		if zone == "" {
			zone = domain.DefaultZone
		} else {
			zone = domain.ParseZone(zone).String()
		}
		if it.Quantity == "" {
			it.Quantity = "1"
		}
		if it.Description == "" {
			return nil, fmt.Errorf("%w: item %d has no description", ErrInvalidQuoteFile, i+1)
		}
		cmds = append(cmds, editor.AddItem{
			Zone:        zone,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	for _, a := range qf.Attachments {
		ref, err := s.image(a.File, baseDir)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, editor.AddAttachment{
			SourcePath:  a.File,
			PreviewURL:  ref,
			Title:       a.Title,
			Description: a.Description,
		})
	}

	if qf.Observations != "" {
		cmds = append(cmds,
			editor.SetText{Field: editor.FieldObservations, Value: qf.Observations},
			editor.SetVisibility{Section: editor.SectionObservations, Visible: true},
		)
	}
	if qf.Logo != "" {
		ref, err := s.image(qf.Logo, baseDir)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, editor.SetLogo{Ref: ref})
	}
	return cmds, nil
}

func (s *quotationService) ResolveImage(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("image path is required")
	}
	if strings.HasPrefix(ref, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			ref = filepath.Join(home, ref[2:])
		}
	}
	return s.image(ref, ".")
}

// image resolves a file or URL reference from a quote file
func (s *quotationService) image(ref, baseDir string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty image reference", ErrInvalidQuoteFile)
	}
	if isRemoteRef(ref) || s.encode == nil {
		return ref, nil
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := s.encode(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", ref, err)
	}
	return data, nil
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "data:")
}
